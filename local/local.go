package local

import (
	"context"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"syscall"

	"github.com/jmgilman/go/target/config"
	"github.com/jmgilman/go/target/core"
	"github.com/jmgilman/go/target/errors"
	"github.com/jmgilman/go/target/formatter"
	"github.com/jmgilman/go/target/internal/pathutil"
)

// Scheme is the URL scheme handled by FileSystem.
const Scheme = "file"

// umaskMu serializes umask changes made by this package.
var umaskMu sync.Mutex

// FileSystem is the local disk backend.
//
// A FileSystem only carries read-only configuration and is safe to share
// between goroutines.
type FileSystem struct {
	filePerm *fs.FileMode
	dirPerm  *fs.FileMode
	registry *formatter.Registry
}

var _ core.FileSystem = (*FileSystem)(nil)

// Option configures a FileSystem.
type Option func(*FileSystem)

// WithDefaultFilePerm sets the mode applied to copied and moved files when
// the caller passes none.
func WithDefaultFilePerm(perm fs.FileMode) Option {
	return func(f *FileSystem) { f.filePerm = core.Perm(perm) }
}

// WithDefaultDirPerm sets the mode of created directories when the caller
// passes none.
func WithDefaultDirPerm(perm fs.FileMode) Option {
	return func(f *FileSystem) { f.dirPerm = core.Perm(perm) }
}

// WithRegistry sets the formatter registry used by Load and Dump.
// The default is formatter.Builtin().
func WithRegistry(reg *formatter.Registry) Option {
	return func(f *FileSystem) { f.registry = reg }
}

// New creates a local FileSystem.
func New(opts ...Option) *FileSystem {
	f := &FileSystem{}
	for _, opt := range opts {
		opt(f)
	}
	if f.registry == nil {
		f.registry = formatter.Builtin()
	}
	return f
}

// FromConfig creates a FileSystem from the default_file_perm and
// default_directory_perm keys of section. Options passed explicitly take
// precedence over the configuration.
func FromConfig(cfg *config.Config, section string, opts ...Option) (*FileSystem, error) {
	var fromCfg []Option

	filePerm, err := cfg.Perm(section, config.KeyDefaultFilePerm)
	if err != nil {
		return nil, err
	}
	if filePerm != nil {
		fromCfg = append(fromCfg, WithDefaultFilePerm(*filePerm))
	}

	dirPerm, err := cfg.Perm(section, config.KeyDefaultDirPerm)
	if err != nil {
		return nil, err
	}
	if dirPerm != nil {
		fromCfg = append(fromCfg, WithDefaultDirPerm(*dirPerm))
	}

	return New(append(fromCfg, opts...)...), nil
}

// Scheme returns "file".
func (f *FileSystem) Scheme() string { return Scheme }

// Type returns core.FSTypeLocal.
func (f *FileSystem) Type() core.FSType { return core.FSTypeLocal }

// DefaultFilePerm returns the configured default file mode, or nil.
func (f *FileSystem) DefaultFilePerm() *fs.FileMode { return f.filePerm }

// DefaultDirPerm returns the configured default directory mode, or nil.
func (f *FileSystem) DefaultDirPerm() *fs.FileMode { return f.dirPerm }

// Registry returns the formatter registry used by Load and Dump.
func (f *FileSystem) Registry() *formatter.Registry { return f.registry }

// Equal reports whether other is also a local FileSystem. All local
// filesystems address the same disk, so configuration is not compared.
func (f *FileSystem) Equal(other core.FileSystem) bool {
	_, ok := other.(*FileSystem)
	return ok
}

// Abspath strips the scheme, expands environment variables and "~", and
// returns the absolute clean path.
func (f *FileSystem) Abspath(path string) (string, error) {
	scheme, rest := pathutil.Split(path)
	if scheme != "" && pathutil.Scheme(path) != Scheme {
		return "", errors.WithContext(
			errors.PathErrorf(errors.CodeUnsupportedScheme, "abspath", path, "local filesystem cannot handle scheme %q", scheme),
			"scheme", scheme,
		)
	}

	abs, err := filepath.Abs(pathutil.Expand(rest))
	if err != nil {
		return "", errors.FromOS("abspath", path, err)
	}
	return abs, nil
}

// Exists reports whether path exists.
func (f *FileSystem) Exists(_ context.Context, path string) (bool, error) {
	_, err := f.stat(path)
	if err == nil {
		return true, nil
	}
	if absent(err) {
		return false, nil
	}
	return false, err
}

// IsDir reports whether path exists and is a directory.
func (f *FileSystem) IsDir(_ context.Context, path string) (bool, error) {
	info, err := f.stat(path)
	if err != nil {
		if absent(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

// IsFile reports whether path exists and is not a directory.
func (f *FileSystem) IsFile(_ context.Context, path string) (bool, error) {
	info, err := f.stat(path)
	if err != nil {
		if absent(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// Stat returns the metadata of path, following symlinks.
func (f *FileSystem) Stat(_ context.Context, path string) (fs.FileInfo, error) {
	return f.stat(path)
}

// absent reports whether a stat error means nothing is there, including a
// path that runs through a regular file.
func absent(err error) bool {
	return errors.IsCode(err, errors.CodeNotFound) || errors.Is(err, syscall.ENOTDIR)
}

func (f *FileSystem) stat(path string) (fs.FileInfo, error) {
	abs, err := f.Abspath(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.FromOS("stat", abs, err)
	}
	return info, nil
}

// Chmod sets the mode of path. A nil perm is a no-op.
func (f *FileSystem) Chmod(_ context.Context, path string, perm *fs.FileMode, opts ...core.Option) error {
	if perm == nil {
		return nil
	}
	o := core.NewOptions(opts...)

	abs, err := f.Abspath(path)
	if err != nil {
		return err
	}
	if err := os.Chmod(abs, *perm); err != nil {
		if o.Silent && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return errors.FromOS("chmod", abs, err)
	}
	return nil
}

// Remove deletes path. Symlinks are removed, not followed.
func (f *FileSystem) Remove(ctx context.Context, path string, opts ...core.Option) error {
	o := core.NewOptions(opts...)

	abs, err := f.Abspath(path)
	if err != nil {
		return err
	}

	info, err := os.Lstat(abs)
	if err != nil {
		if o.Silent && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return errors.FromOS("remove", abs, err)
	}

	if !info.IsDir() {
		return errors.FromOS("remove", abs, os.Remove(abs))
	}

	if o.Recursive {
		if err := ctx.Err(); err != nil {
			return err
		}
		return errors.FromOS("remove", abs, os.RemoveAll(abs))
	}

	empty, err := isEmptyDir(abs)
	if err != nil {
		return errors.FromOS("remove", abs, err)
	}
	if !empty {
		return errors.PathErrorf(errors.CodeDirectoryNotEmpty, "remove", abs, "directory is not empty")
	}
	return errors.FromOS("remove", abs, os.Remove(abs))
}

func isEmptyDir(dir string) (bool, error) {
	d, err := os.Open(dir)
	if err != nil {
		return false, err
	}
	defer d.Close() //nolint:errcheck // read-only handle

	names, err := d.Readdirnames(1)
	if len(names) > 0 {
		return false, nil
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	return true, nil
}

// Mkdir creates path. An existing non-directory at path fails with
// errors.CodeAlreadyExists even in silent mode.
func (f *FileSystem) Mkdir(_ context.Context, path string, opts ...core.Option) error {
	o := core.NewOptions(opts...)

	abs, err := f.Abspath(path)
	if err != nil {
		return err
	}

	if info, err := os.Stat(abs); err == nil {
		if o.Silent && info.IsDir() {
			return nil
		}
		return errors.PathErrorf(errors.CodeAlreadyExists, "mkdir", abs, "path already exists")
	} else if !errors.Is(err, fs.ErrNotExist) {
		return errors.FromOS("mkdir", abs, err)
	}

	perm := core.PermOr(o.Perm, f.dirPerm)
	if err := mkdir(abs, perm, o.Recursive); err != nil {
		if o.Silent && errors.Is(err, fs.ErrExist) {
			if isDir, _ := isDirectory(abs); isDir {
				return nil
			}
		}
		return errors.FromOS("mkdir", abs, err)
	}
	return nil
}

// mkdir creates dir with perm applied exactly when perm is set, otherwise
// with 0o777 filtered by the umask.
func mkdir(dir string, perm *fs.FileMode, recursive bool) error {
	create := os.Mkdir
	if recursive {
		create = os.MkdirAll
	}

	if perm == nil {
		return create(dir, 0o777)
	}

	umaskMu.Lock()
	defer umaskMu.Unlock()

	old := setUmask(0)
	defer setUmask(old)

	if err := create(dir, *perm); err != nil {
		return err
	}
	return os.Chmod(dir, *perm)
}

func isDirectory(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

// ListDir returns the sorted names of the entries of path.
func (f *FileSystem) ListDir(_ context.Context, path, pattern string, typ core.ListType) ([]string, error) {
	abs, err := f.Abspath(path)
	if err != nil {
		return nil, err
	}

	dirs, files, err := readDir(abs, pattern)
	if err != nil {
		return nil, err
	}

	var names []string
	switch typ {
	case core.ListFiles:
		names = files
	case core.ListDirs:
		names = dirs
	default:
		names = append(dirs, files...)
		sort.Strings(names)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// readDir lists dir and splits the names matching pattern into directories
// and everything else. Symlinks count as what they point to.
func readDir(dir, pattern string) (dirs, files []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, errors.FromOS("listdir", dir, err)
	}

	for _, e := range entries {
		name := e.Name()
		if pattern != "" {
			ok, err := filepath.Match(pattern, name)
			if err != nil {
				return nil, nil, errors.WithContext(
					errors.Wrap(err, errors.CodeInvalidInput, "invalid pattern"),
					"pattern", pattern,
				)
			}
			if !ok {
				continue
			}
		}

		isDir := e.IsDir()
		if e.Type()&fs.ModeSymlink != 0 {
			isDir, _ = isDirectory(filepath.Join(dir, name))
		}
		if isDir {
			dirs = append(dirs, name)
		} else {
			files = append(files, name)
		}
	}
	return dirs, files, nil
}

// Walk traverses path breadth-first.
func (f *FileSystem) Walk(ctx context.Context, path string, maxDepth int) iter.Seq2[core.WalkEntry, error] {
	abs, err := f.Abspath(path)
	if err != nil {
		return func(yield func(core.WalkEntry, error) bool) {
			yield(core.WalkEntry{}, err)
		}
	}

	list := func(_ context.Context, dir string) ([]string, []string, error) {
		return readDir(dir, "")
	}
	return core.BreadthFirst(ctx, abs, maxDepth, filepath.Join, list, dirID)
}

// Glob returns the paths matching pattern, sorted. With a non-empty cwd a
// relative pattern is resolved against it and results are relative to cwd.
func (f *FileSystem) Glob(_ context.Context, pattern, cwd string) ([]string, error) {
	if s := pathutil.Scheme(pattern); s != "" && s != Scheme {
		return nil, errors.Newf(errors.CodeUnsupportedScheme, "local filesystem cannot handle scheme %q", s)
	}
	pattern = pathutil.Expand(pathutil.StripScheme(pattern))

	if cwd != "" {
		absCwd, err := f.Abspath(cwd)
		if err != nil {
			return nil, err
		}
		cwd = absCwd
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(cwd, pattern)
		}
	}

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errors.WithContext(
			errors.Wrap(err, errors.CodeInvalidInput, "invalid pattern"),
			"pattern", pattern,
		)
	}

	if cwd != "" {
		for i, m := range matches {
			rel, err := filepath.Rel(cwd, m)
			if err != nil {
				return nil, errors.FromOS("glob", m, err)
			}
			matches[i] = rel
		}
	}
	sort.Strings(matches)
	if matches == nil {
		matches = []string{}
	}
	return matches, nil
}

// Open opens path in the given mode. Write and append modes create the file
// if needed; the parent directory must exist.
func (f *FileSystem) Open(_ context.Context, path string, mode core.Mode) (core.File, error) {
	if err := core.CheckMode(mode); err != nil {
		return nil, err
	}

	abs, err := f.Abspath(path)
	if err != nil {
		return nil, err
	}

	var file *os.File
	switch mode {
	case core.ModeRead:
		file, err = os.Open(abs)
	case core.ModeWrite:
		file, err = os.OpenFile(abs, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o666)
	case core.ModeAppend:
		file, err = os.OpenFile(abs, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o666)
	}
	if err != nil {
		return nil, errors.FromOS("open", abs, err)
	}
	return file, nil
}

// Load decodes path into dst with the formatter selected by format or by
// the extension of path.
func (f *FileSystem) Load(ctx context.Context, path, format string, dst any) error {
	return core.LoadWith(ctx, f, f.registry, path, format, dst)
}

// Dump encodes v into path with the formatter selected by format or by the
// extension of path.
func (f *FileSystem) Dump(ctx context.Context, path, format string, v any, opts ...core.Option) error {
	return core.DumpWith(ctx, f, f.registry, path, format, v, opts...)
}
