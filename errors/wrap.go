package errors

import (
	"errors"
	"fmt"
)

// Wrap wraps err with a code and message while keeping it reachable through
// errors.Is and errors.As. When err is already an Error its op, path and
// classification carry over.
//
// Returns nil if err is nil.
func Wrap(err error, code ErrorCode, message string) Error {
	if err == nil {
		return nil
	}

	wrapped := &fsError{
		code:           code,
		classification: getDefaultClassification(code),
		message:        message,
		cause:          err,
	}

	var inner Error
	if errors.As(err, &inner) {
		wrapped.op = inner.Op()
		wrapped.path = inner.Path()
		wrapped.classification = inner.Classification()
	}
	return wrapped
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) Error {
	if err == nil {
		return nil
	}
	return Wrap(err, code, fmt.Sprintf(format, args...))
}
