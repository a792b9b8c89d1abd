package errors

import "errors"

// WithContext returns a copy of err with key set in its context map.
// Non-Error values are converted to CodeUnknown errors first.
// Returns nil if err is nil.
//
// Example:
//
//	err = errors.WithContext(err, "mode", "a")
func WithContext(err error, key string, value interface{}) Error {
	if err == nil {
		return nil
	}

	var e *fsError
	if !errors.As(err, &e) {
		e = &fsError{
			code:           CodeUnknown,
			classification: ClassificationPermanent,
			message:        err.Error(),
			cause:          err,
		}
	} else {
		e = e.clone()
	}

	if e.context == nil {
		e.context = make(map[string]interface{}, 1)
	}
	e.context[key] = value
	return e
}
