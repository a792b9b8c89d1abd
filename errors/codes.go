package errors

// ErrorCode identifies the kind of a filesystem failure.
// Codes are strings so they read well in logs.
type ErrorCode string

const (
	// Taxonomy of filesystem failures.

	// CodeNotFound indicates a path is absent when presence is required.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeAlreadyExists indicates a non-silent creation hit an existing path.
	CodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// CodeDirectoryNotEmpty indicates a non-recursive removal of a populated directory.
	CodeDirectoryNotEmpty ErrorCode = "DIRECTORY_NOT_EMPTY"

	// CodePermissionDenied indicates the OS denied a chmod, creation or access.
	CodePermissionDenied ErrorCode = "PERMISSION_DENIED"

	// CodeUnsupportedScheme indicates a backend cannot resolve the scheme of a path.
	CodeUnsupportedScheme ErrorCode = "UNSUPPORTED_SCHEME"

	// CodeInvalidMode indicates an unrecognized open or localize mode.
	CodeInvalidMode ErrorCode = "INVALID_MODE"

	// CodeIO indicates a generic read, write, copy or move failure.
	CodeIO ErrorCode = "IO_ERROR"

	// Caller and setup errors.

	// CodeInvalidInput indicates invalid arguments, e.g. a target built without a path.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeInvalidConfig indicates a malformed configuration value.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// CodeFormatFailed indicates a formatter could not load or dump a value.
	CodeFormatFailed ErrorCode = "FORMAT_FAILED"

	// CodeNotImplemented indicates the backend lacks the requested capability.
	CodeNotImplemented ErrorCode = "NOT_IMPLEMENTED"

	// CodeUnknown is used for errors that were never classified.
	CodeUnknown ErrorCode = "UNKNOWN"
)
