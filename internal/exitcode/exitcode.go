// Package exitcode defines exit codes for the CLI and the error type
// that carries them.
package exitcode

import (
	"context"
	"errors"
	"fmt"
)

// Exit codes.
const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown id, no TTY).
	UserError = 1

	// ConfigError indicates an unreadable or invalid configuration.
	ConfigError = 2

	// StorageError indicates the task list could not be loaded or saved.
	StorageError = 3

	// Interrupted indicates the command was cancelled by a signal.
	Interrupted = 130
)

// Error attaches an exit code to an error.
type Error struct {
	Code int
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap returns err with code attached. A nil err stays nil.
func Wrap(code int, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Err: err}
}

// User returns a formatted UserError.
func User(format string, args ...any) error {
	return &Error{Code: UserError, Err: fmt.Errorf(format, args...)}
}

// Config returns err as a ConfigError.
func Config(err error) error {
	return Wrap(ConfigError, err)
}

// Storage returns err as a StorageError.
func Storage(err error) error {
	return Wrap(StorageError, err)
}

// Code returns the exit code for err. Errors without an attached code
// are user errors; cancellation maps to Interrupted.
func Code(err error) int {
	if err == nil {
		return Success
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	if errors.Is(err, context.Canceled) {
		return Interrupted
	}
	return UserError
}
