package errors

// Error is a classified filesystem failure.
//
// Besides the code it records the operation and path that failed, whether a
// retry may help, and optional debugging context. Error values are immutable;
// the With* helpers return modified copies.
type Error interface {
	error

	// Code returns the failure kind.
	Code() ErrorCode

	// Op returns the operation that failed (e.g. "mkdir"), or "" if unknown.
	Op() string

	// Path returns the path the operation acted on, or "" if unknown.
	Path() string

	// Classification returns whether the failure is retryable.
	Classification() ErrorClassification

	// Message returns the human-readable message.
	Message() string

	// Context returns a copy of the attached metadata, or nil.
	Context() map[string]interface{}

	// Unwrap returns the underlying cause, or nil.
	Unwrap() error
}
