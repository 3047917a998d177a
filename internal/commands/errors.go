package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to wrapped command errors so callers and transports can
// tell validation, cancellation, and execution failures apart without string
// matching on messages.
const (
	codeValidationFailed = "COMMAND_VALIDATION_FAILED"
	codeContextCanceled  = "COMMAND_CONTEXT_CANCELED"
	codeContextTimeout   = "COMMAND_CONTEXT_TIMEOUT"
	codeContextError     = "COMMAND_CONTEXT_ERROR"
	codeExecuteFailed    = "COMMAND_EXECUTION_FAILED"
)

// wrapCommand applies a category, message, and text code to err. Nil errors
// and errors that already carry go-errors metadata pass through untouched.
func wrapCommand(err error, category goerrors.Category, msg, code string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, category, msg).WithTextCode(code)
}

// WrapValidationError tags message validation failures with the validation
// category.
func WrapValidationError(err error) error {
	return wrapCommand(err, goerrors.CategoryValidation, "command validation failed", codeValidationFailed)
}

// WrapContextError tags cancellations and deadline overruns with the command
// category and a text code distinguishing the two.
func WrapContextError(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return wrapCommand(err, goerrors.CategoryCommand, "command execution cancelled", codeContextCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return wrapCommand(err, goerrors.CategoryCommand, "command execution deadline exceeded", codeContextTimeout)
	default:
		return wrapCommand(err, goerrors.CategoryCommand, "command context error", codeContextError)
	}
}

// WrapExecuteError tags downstream execution failures with the command
// category.
func WrapExecuteError(err error) error {
	return wrapCommand(err, goerrors.CategoryCommand, "command execution failed", codeExecuteFailed)
}
