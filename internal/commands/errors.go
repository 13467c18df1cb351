package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes surfaced on handler errors so hosts can branch on the failure
// point without matching message strings.
const (
	codeValidationFailed = "COMMAND_VALIDATION_FAILED"
	codeContextCanceled  = "COMMAND_CONTEXT_CANCELED"
	codeContextTimeout   = "COMMAND_CONTEXT_TIMEOUT"
	codeContextError     = "COMMAND_CONTEXT_ERROR"
	codeExecutionFailed  = "COMMAND_EXECUTION_FAILED"
)

// tagHandlerError attaches a category and text code unless a lower layer
// already wrapped the error. Engine and coordinator errors pass through
// untouched so their own codes survive the command layer.
func tagHandlerError(err error, category goerrors.Category, message, code string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, category, message).WithTextCode(code)
}

func wrapValidationError(err error) error {
	return tagHandlerError(err, goerrors.CategoryValidation, "command validation failed", codeValidationFailed)
}

func wrapContextError(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return tagHandlerError(err, goerrors.CategoryCommand, "command execution cancelled", codeContextCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return tagHandlerError(err, goerrors.CategoryCommand, "command execution deadline exceeded", codeContextTimeout)
	default:
		return tagHandlerError(err, goerrors.CategoryCommand, "command context error", codeContextError)
	}
}

func wrapExecuteError(err error) error {
	return tagHandlerError(err, goerrors.CategoryCommand, "command execution failed", codeExecutionFailed)
}
