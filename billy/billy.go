package billy

import (
	"context"
	"io/fs"
	"path"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"

	"github.com/jmgilman/go/target/config"
	"github.com/jmgilman/go/target/core"
	"github.com/jmgilman/go/target/errors"
	"github.com/jmgilman/go/target/formatter"
	"github.com/jmgilman/go/target/internal/pathutil"
)

// MemoryScheme is the URL scheme of filesystems created by NewMemory.
const MemoryScheme = "mem"

// FileSystem adapts a billy.Filesystem to core.FileSystem.
type FileSystem struct {
	bfs      billy.Filesystem
	mu       *sync.Mutex
	scheme   string
	fsType   core.FSType
	filePerm *fs.FileMode
	dirPerm  *fs.FileMode
	registry *formatter.Registry
}

var _ core.FileSystem = (*FileSystem)(nil)

// Option configures a FileSystem.
type Option func(*FileSystem)

// WithScheme sets the URL scheme the filesystem accepts.
func WithScheme(scheme string) Option {
	return func(f *FileSystem) { f.scheme = scheme }
}

// WithType sets the reported filesystem type.
func WithType(t core.FSType) Option {
	return func(f *FileSystem) { f.fsType = t }
}

// WithDefaultFilePerm sets the mode of copied and moved files when the
// caller passes none.
func WithDefaultFilePerm(perm fs.FileMode) Option {
	return func(f *FileSystem) { f.filePerm = core.Perm(perm) }
}

// WithDefaultDirPerm sets the mode of created directories when the caller
// passes none.
func WithDefaultDirPerm(perm fs.FileMode) Option {
	return func(f *FileSystem) { f.dirPerm = core.Perm(perm) }
}

// WithRegistry sets the formatter registry used by Load and Dump.
func WithRegistry(reg *formatter.Registry) Option {
	return func(f *FileSystem) { f.registry = reg }
}

// New wraps bfs. Without options the filesystem reports the "mem" scheme
// and core.FSTypeMemory.
func New(bfs billy.Filesystem, opts ...Option) *FileSystem {
	f := &FileSystem{
		bfs:    bfs,
		mu:     &sync.Mutex{},
		scheme: MemoryScheme,
		fsType: core.FSTypeMemory,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.registry == nil {
		f.registry = formatter.Builtin()
	}
	// memfs only materializes the root once something is created below it
	_ = bfs.MkdirAll("/", 0o755)
	return f
}

// NewMemory creates an empty in-memory filesystem.
func NewMemory(opts ...Option) *FileSystem {
	return New(memfs.New(), opts...)
}

// FromConfig creates an in-memory filesystem using the default_file_perm
// and default_directory_perm keys of section.
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

	return NewMemory(append(fromCfg, opts...)...), nil
}

// Unwrap returns the underlying billy.Filesystem for go-git integration.
// Callers using it directly bypass the filesystem's locking.
func (f *FileSystem) Unwrap() billy.Filesystem { return f.bfs }

// Scheme returns the accepted URL scheme.
func (f *FileSystem) Scheme() string { return f.scheme }

// Type returns the configured filesystem type.
func (f *FileSystem) Type() core.FSType { return f.fsType }

// DefaultFilePerm returns the configured default file mode, or nil.
func (f *FileSystem) DefaultFilePerm() *fs.FileMode { return f.filePerm }

// DefaultDirPerm returns the configured default directory mode, or nil.
func (f *FileSystem) DefaultDirPerm() *fs.FileMode { return f.dirPerm }

// Registry returns the formatter registry used by Load and Dump.
func (f *FileSystem) Registry() *formatter.Registry { return f.registry }

// Equal reports whether other wraps the same billy filesystem.
func (f *FileSystem) Equal(other core.FileSystem) bool {
	o, ok := other.(*FileSystem)
	return ok && o.bfs == f.bfs && o.scheme == f.scheme
}

// Abspath strips the scheme and returns the rooted clean slash path.
func (f *FileSystem) Abspath(p string) (string, error) {
	scheme, rest := pathutil.Split(p)
	if scheme != "" && pathutil.Scheme(p) != f.scheme {
		return "", errors.WithContext(
			errors.PathErrorf(errors.CodeUnsupportedScheme, "abspath", p, "%s filesystem cannot handle scheme %q", f.scheme, scheme),
			"scheme", scheme,
		)
	}
	return path.Clean("/" + pathutil.Expand(rest)), nil
}

// Exists reports whether p exists.
func (f *FileSystem) Exists(_ context.Context, p string) (bool, error) {
	_, err := f.stat(p)
	if err == nil {
		return true, nil
	}
	if errors.IsCode(err, errors.CodeNotFound) {
		return false, nil
	}
	return false, err
}

// IsDir reports whether p exists and is a directory.
func (f *FileSystem) IsDir(_ context.Context, p string) (bool, error) {
	info, err := f.stat(p)
	if err != nil {
		if errors.IsCode(err, errors.CodeNotFound) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

// IsFile reports whether p exists and is not a directory.
func (f *FileSystem) IsFile(_ context.Context, p string) (bool, error) {
	info, err := f.stat(p)
	if err != nil {
		if errors.IsCode(err, errors.CodeNotFound) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// Stat returns the metadata of p.
func (f *FileSystem) Stat(_ context.Context, p string) (fs.FileInfo, error) {
	return f.stat(p)
}

func (f *FileSystem) stat(p string) (fs.FileInfo, error) {
	abs, err := f.Abspath(p)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statLocked(abs)
}

// statLocked stats an absolute path. Callers hold f.mu.
func (f *FileSystem) statLocked(abs string) (fs.FileInfo, error) {
	info, err := f.bfs.Stat(abs)
	if err != nil {
		return nil, errors.FromOS("stat", abs, err)
	}
	return info, nil
}

// Load decodes p into dst with the formatter selected by format or by the
// extension of p.
func (f *FileSystem) Load(ctx context.Context, p, format string, dst any) error {
	return core.LoadWith(ctx, f, f.registry, p, format, dst)
}

// Dump encodes v into p with the formatter selected by format or by the
// extension of p.
func (f *FileSystem) Dump(ctx context.Context, p, format string, v any, opts ...core.Option) error {
	return core.DumpWith(ctx, f, f.registry, p, format, v, opts...)
}
