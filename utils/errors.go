package utils

import (
	"errors"
	"fmt"
)

type ErrorType int

const (
	ConfigError ErrorType = iota
	IOError
	ParseError
	ProcessingError
)

func (t ErrorType) String() string {
	switch t {
	case ConfigError:
		return "config"
	case IOError:
		return "io"
	case ParseError:
		return "parse"
	case ProcessingError:
		return "processing"
	}
	return "unknown"
}

type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func NewError(errType ErrorType, message string, err error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Is matches any AppError of the same type.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsType reports whether err wraps an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == errType
}

// Process exit codes.
const (
	ExitOK       = 0
	ExitFindings = 1
	ExitConfig   = 2
)

// ExitCode maps an error returned by a command to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case IsType(err, ConfigError):
		return ExitConfig
	}
	return ExitFindings
}
