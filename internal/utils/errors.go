package utils

import "fmt"

// argError denotes that a function's argument was passed incorrectly.
type argError struct {
	message string
}

func (e argError) Error() string {
	return fmt.Sprintf("Argument error: %s", e.message)
}

// envVarError tracks environment variable errors.
type envVarError struct {
	key     string
	message string
}

func (e envVarError) Error() string {
	return fmt.Sprintf("Env variable error: %s: %s", e.message, e.key)
}

// OutsideRootError is returned for a path that escapes the allowed export root.
type OutsideRootError struct {
	Path string
	Root string
}

func (e OutsideRootError) Error() string {
	return fmt.Sprintf("path not allowed: %s is outside %s", e.Path, e.Root)
}
