package errors

import (
	stderrors "errors"
	"io/fs"
	"syscall"
)

// FromOS classifies an OS-level error into the taxonomy and binds it to op
// and path. Errors that are already classified pass through unchanged.
// Returns nil if err is nil.
func FromOS(op, path string, err error) error {
	if err == nil {
		return nil
	}

	var e Error
	if stderrors.As(err, &e) {
		return err
	}

	return PathError(Classify(err), op, path, err)
}

// Classify returns the code an OS-level error maps to.
func Classify(err error) ErrorCode {
	switch {
	case err == nil:
		return CodeUnknown
	case stderrors.Is(err, fs.ErrNotExist):
		return CodeNotFound
	case stderrors.Is(err, syscall.ENOTEMPTY):
		// checked before fs.ErrExist, which ENOTEMPTY also matches
		return CodeDirectoryNotEmpty
	case stderrors.Is(err, fs.ErrExist):
		return CodeAlreadyExists
	case stderrors.Is(err, fs.ErrPermission):
		return CodePermissionDenied
	case stderrors.Is(err, stderrors.ErrUnsupported):
		return CodeNotImplemented
	default:
		return CodeIO
	}
}
