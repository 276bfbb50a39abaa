package io

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// IOStreams are the reader and writers a command talks through.
type IOStreams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

// StdStreams returns the process streams.
func StdStreams() IOStreams {
	return IOStreams{In: os.Stdin, Out: os.Stdout, ErrOut: os.Stderr}
}

// ReadSource returns the contents of path, or of in when path is "-".
func ReadSource(path string, in io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		if in == nil {
			return "", fmt.Errorf("no standard input to read from")
		}
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", sourceName(path), err)
	}
	return string(data), nil
}

func sourceName(path string) string {
	if path == "-" {
		return "standard input"
	}
	return strings.TrimSpace(path)
}
