package errors

import "fmt"

// New creates an Error with the given code and message.
//
// Example:
//
//	err := errors.New(errors.CodeInvalidInput, "either a path or a temporary flag is required")
func New(code ErrorCode, message string) Error {
	return &fsError{
		code:           code,
		classification: getDefaultClassification(code),
		message:        message,
	}
}

// Newf creates an Error with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) Error {
	return New(code, fmt.Sprintf(format, args...))
}

// PathError creates an Error bound to an operation and a path.
// The cause may be nil.
//
// Example:
//
//	return errors.PathError(errors.CodeAlreadyExists, "mkdir", path, fs.ErrExist)
func PathError(code ErrorCode, op, path string, cause error) Error {
	return &fsError{
		code:           code,
		op:             op,
		path:           path,
		classification: getDefaultClassification(code),
		cause:          cause,
	}
}

// PathErrorf is PathError with a formatted message and no cause.
func PathErrorf(code ErrorCode, op, path, format string, args ...interface{}) Error {
	e := PathError(code, op, path, nil).(*fsError)
	e.message = fmt.Sprintf(format, args...)
	return e
}
