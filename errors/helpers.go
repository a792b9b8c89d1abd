package errors

import (
	stderrors "errors"
)

// Is is errors.Is from the standard library.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As is errors.As from the standard library.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Join is errors.Join from the standard library.
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}

// GetCode returns the code of the outermost Error in err's chain,
// or CodeUnknown when there is none.
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeUnknown
	}
	var e Error
	if stderrors.As(err, &e) {
		return e.Code()
	}
	return CodeUnknown
}

// IsCode reports whether the outermost Error in err's chain has the given code.
func IsCode(err error, code ErrorCode) bool {
	return err != nil && GetCode(err) == code
}

// IsRetryable reports whether err is classified as retryable.
// Unclassified errors are never retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var e Error
	if stderrors.As(err, &e) {
		return e.Classification().IsRetryable()
	}
	return false
}
