package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// failure names the stage at which a command stopped.
type failure int

const (
	failedValidation failure = iota
	failedContext
	failedExecution
)

type errorTag struct {
	message string
	code    string
}

var (
	validationTag = errorTag{"command validation failed", "BLOG_COMMAND_VALIDATION_FAILED"}
	canceledTag   = errorTag{"command execution cancelled", "BLOG_COMMAND_CONTEXT_CANCELED"}
	timeoutTag    = errorTag{"command execution deadline exceeded", "BLOG_COMMAND_CONTEXT_TIMEOUT"}
	contextTag    = errorTag{"command context error", "BLOG_COMMAND_CONTEXT_ERROR"}
	executionTag  = errorTag{"command execution failed", "BLOG_COMMAND_EXECUTION_FAILED"}
)

// categorise wraps err with a go-errors category and text code for the
// stage it came from. Validation failures are CategoryValidation, the rest
// CategoryCommand. Errors already wrapped by go-errors, such as content
// failures tagged by the build handler, pass through unchanged.
func categorise(stage failure, err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}

	if stage == failedValidation {
		return goerrors.Wrap(err, goerrors.CategoryValidation, validationTag.message).
			WithTextCode(validationTag.code)
	}

	tag := executionTag
	if stage == failedContext {
		switch {
		case errors.Is(err, context.Canceled):
			tag = canceledTag
		case errors.Is(err, context.DeadlineExceeded):
			tag = timeoutTag
		default:
			tag = contextTag
		}
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, tag.message).WithTextCode(tag.code)
}
