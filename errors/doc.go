// Package errors provides the structured error taxonomy shared by every
// filesystem backend and target in this module.
//
// Backends never return raw OS errors. Each failure is classified at the
// FileSystem boundary into one of a small set of codes so that callers can
// branch on the kind of failure rather than on platform-specific errno values:
//
//   - CodeNotFound: a path was required to exist but does not
//   - CodeAlreadyExists: a strict creation collided with an existing path
//   - CodeDirectoryNotEmpty: non-recursive removal of a populated directory
//   - CodePermissionDenied: the OS refused a chmod, creation or access
//   - CodeUnsupportedScheme: a backend cannot handle the path's scheme
//   - CodeInvalidMode: localize or open was called with an unknown mode
//   - CodeIO: any other read/write/copy/move failure
//
// Errors keep the operation and path they relate to, an optional context map
// for debugging, and a retry classification. They remain compatible with the
// standard library (errors.Is, errors.As, errors.Unwrap), so a wrapped
// fs.ErrNotExist is still matched by errors.Is(err, fs.ErrNotExist).
//
// Classifying OS errors:
//
//	if _, err := os.Stat(path); err != nil {
//	    return errors.FromOS("stat", path, err)
//	}
//
// Branching on the kind:
//
//	if errors.IsCode(err, errors.CodeNotFound) {
//	    // create it
//	}
package errors
