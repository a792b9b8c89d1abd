package errors

// ErrorClassification tells callers whether retrying may help.
type ErrorClassification string

const (
	// ClassificationRetryable marks transient failures (flaky I/O, remote hiccups).
	ClassificationRetryable ErrorClassification = "RETRYABLE"

	// ClassificationPermanent marks failures a retry will not fix.
	ClassificationPermanent ErrorClassification = "PERMANENT"
)

// IsRetryable reports whether the classification is ClassificationRetryable.
func (c ErrorClassification) IsRetryable() bool {
	return c == ClassificationRetryable
}

// Only generic I/O failures are worth retrying; every other code describes
// a state of the filesystem or of the caller's input.
var defaultClassifications = map[ErrorCode]ErrorClassification{
	CodeIO: ClassificationRetryable,
}

func getDefaultClassification(code ErrorCode) ErrorClassification {
	if class, ok := defaultClassifications[code]; ok {
		return class
	}
	return ClassificationPermanent
}
