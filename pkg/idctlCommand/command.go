package command

import (
	"errors"
	"fmt"
)

// Command is the options struct behind a cobra command.
type Command interface {
	Validate() error
	Run() error
}

// Execute validates c and runs it.
func Execute(c Command) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return c.Run()
}

// Exit codes.
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitUnhealthy = 2
)

// ExitError carries a specific process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps err to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ExitFailure
}
