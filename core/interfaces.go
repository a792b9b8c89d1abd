package core

import (
	"context"
	"io"
	"io/fs"
	"iter"

	"github.com/jmgilman/go/target/formatter"
)

// FSType represents the underlying type of filesystem implementation.
type FSType int

const (
	// FSTypeUnknown indicates the filesystem type is unknown or unspecified.
	FSTypeUnknown FSType = iota
	// FSTypeLocal indicates the local disk.
	FSTypeLocal
	// FSTypeMemory indicates an in-memory filesystem.
	FSTypeMemory
	// FSTypeRemote indicates a remote filesystem (e.g., S3, cloud storage).
	FSTypeRemote
)

// String returns a string representation of the FSType.
func (t FSType) String() string {
	switch t {
	case FSTypeLocal:
		return "local"
	case FSTypeMemory:
		return "memory"
	case FSTypeRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// FileSystem is the full capability surface of a storage backend.
//
// FileSystem values carry only read-only configuration and are safe to
// share between any number of targets and goroutines.
type FileSystem interface {
	ReadFS
	ListFS
	ManageFS
	StreamFS
	FormatFS

	// Abspath strips the scheme and returns the absolute, cleaned form of path.
	Abspath(path string) (string, error)

	// Scheme returns the URL scheme this backend owns (e.g. "file", "s3").
	Scheme() string

	// Type returns the underlying filesystem type.
	Type() FSType

	// Equal reports whether other is interchangeable with this filesystem.
	Equal(other FileSystem) bool

	// DefaultFilePerm returns the mode applied to copied or moved files when
	// the caller passes none, or nil to leave it to the OS.
	DefaultFilePerm() *fs.FileMode

	// DefaultDirPerm returns the mode applied to created directories when the
	// caller passes none, or nil to leave it to the OS.
	DefaultDirPerm() *fs.FileMode
}

// ReadFS defines existence and metadata checks.
//
// A false result never hides a failure: if existence cannot be determined
// (permission denied, transient I/O), the error is returned.
type ReadFS interface {
	// Exists reports whether the named file or directory exists.
	Exists(ctx context.Context, path string) (bool, error)

	// IsDir reports whether path exists and is a directory.
	IsDir(ctx context.Context, path string) (bool, error)

	// IsFile reports whether path exists and is not a directory.
	IsFile(ctx context.Context, path string) (bool, error)

	// Stat returns size, modification time and mode of path.
	// It fails with errors.CodeNotFound if path does not exist.
	Stat(ctx context.Context, path string) (fs.FileInfo, error)
}

// ListFS defines directory listing and traversal.
type ListFS interface {
	// ListDir returns the names of the entries in path, sorted by name.
	// A non-empty pattern filters names with shell glob semantics and typ
	// restricts the result to files or directories.
	ListDir(ctx context.Context, path, pattern string, typ ListType) ([]string, error)

	// Walk traverses the tree rooted at path breadth-first. Each level is
	// fully listed before descending. Depth 0 is the root; a negative
	// maxDepth means unbounded. The sequence may be abandoned at any point.
	Walk(ctx context.Context, path string, maxDepth int) iter.Seq2[WalkEntry, error]

	// Glob returns the paths matching pattern. If cwd is not empty the
	// pattern is resolved relative to it and results are relative to cwd.
	Glob(ctx context.Context, pattern, cwd string) ([]string, error)
}

// ManageFS defines structural changes.
type ManageFS interface {
	// Mkdir creates path. By default parents are created and an existing
	// path is not an error; Strict turns that case into
	// errors.CodeAlreadyExists. A permission given with WithPerm (or the
	// filesystem default) is applied exactly, independent of the umask.
	Mkdir(ctx context.Context, path string, opts ...Option) error

	// Remove deletes path. By default directories are removed recursively
	// and an absent path is a no-op. With NonRecursive a populated directory
	// fails with errors.CodeDirectoryNotEmpty.
	Remove(ctx context.Context, path string, opts ...Option) error

	// Chmod sets the mode of path. A nil perm is a no-op, and so is an
	// absent path unless Strict is given.
	Chmod(ctx context.Context, path string, perm *fs.FileMode, opts ...Option) error

	// Copy duplicates the file src to dst and returns the final destination.
	// If dst is an existing directory the basename of src is appended;
	// otherwise missing parents are created with WithDirPerm. The result is
	// chmod'ed with WithPerm or DefaultFilePerm.
	Copy(ctx context.Context, src, dst string, opts ...Option) (string, error)

	// Move relocates src to dst with the same destination rules as Copy.
	// Implementations must make the move atomic within a single volume.
	Move(ctx context.Context, src, dst string, opts ...Option) (string, error)
}

// StreamFS defines raw stream access.
type StreamFS interface {
	// Open opens path in the given mode. The caller must close the File.
	Open(ctx context.Context, path string, mode Mode) (File, error)
}

// FormatFS defines serialization through a formatter registry.
type FormatFS interface {
	// Load decodes the content of path into dst. format selects a formatter
	// by name; if empty the formatter is chosen by the file extension.
	Load(ctx context.Context, path, format string, dst any) error

	// Dump encodes v into path, creating or truncating it.
	Dump(ctx context.Context, path, format string, v any, opts ...Option) error

	// Registry returns the formatters used by Load and Dump.
	Registry() *formatter.Registry
}

// File is an open stream returned by StreamFS.Open.
// Read-mode files reject writes and write-mode files reject reads.
type File interface {
	io.Reader
	io.Writer
	io.Closer

	// Name returns the path the file was opened with.
	Name() string
}

// ListType filters ListDir results.
type ListType int

const (
	// ListAll returns files and directories.
	ListAll ListType = iota
	// ListFiles returns everything that is not a directory.
	ListFiles
	// ListDirs returns directories only.
	ListDirs
)

// String returns the short form used in the original configuration
// language: "", "f" or "d".
func (t ListType) String() string {
	switch t {
	case ListFiles:
		return "f"
	case ListDirs:
		return "d"
	default:
		return ""
	}
}

// WalkEntry is one step of a breadth-first walk.
type WalkEntry struct {
	// Dir is the directory being listed.
	Dir string
	// Dirs holds the names of its subdirectories.
	Dirs []string
	// Files holds the names of everything else.
	Files []string
	// Depth is the distance from the walk root (0 for the root itself).
	Depth int
}
