package billy

import (
	"context"
	"io/fs"
	"os"
	"path"

	"github.com/go-git/go-billy/v5"

	"github.com/jmgilman/go/target/core"
	"github.com/jmgilman/go/target/errors"
)

// File wraps billy.File to implement core.File.
// It stores the filename since billy.File.Name() may return different formats
// depending on the backend implementation.
type File struct {
	file billy.File
	name string
}

var _ core.File = (*File)(nil)

// Read implements io.Reader.
func (f *File) Read(p []byte) (int, error) {
	return f.file.Read(p)
}

// Write implements io.Writer.
func (f *File) Write(p []byte) (int, error) {
	return f.file.Write(p)
}

// Close implements io.Closer.
func (f *File) Close() error {
	return f.file.Close()
}

// Name returns the absolute path the file was opened with.
func (f *File) Name() string {
	return f.name
}

// Open opens p in the given mode. Write and append modes create the file if
// needed; the parent directory must exist.
func (f *FileSystem) Open(_ context.Context, p string, mode core.Mode) (core.File, error) {
	if err := core.CheckMode(mode); err != nil {
		return nil, err
	}

	abs, err := f.Abspath(p)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.openLocked(abs, mode, f.createPerm())
}

func (f *FileSystem) createPerm() fs.FileMode {
	if f.filePerm != nil {
		return *f.filePerm
	}
	return 0o644
}

// openLocked opens an absolute path. Callers hold f.mu.
func (f *FileSystem) openLocked(abs string, mode core.Mode, perm fs.FileMode) (core.File, error) {
	if info, err := f.bfs.Stat(abs); err == nil && info.IsDir() {
		return nil, errors.PathErrorf(errors.CodeInvalidInput, "open", abs, "path is a directory")
	}

	var flag int
	switch mode {
	case core.ModeRead:
		flag = os.O_RDONLY
	case core.ModeWrite:
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case core.ModeAppend:
		flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}

	if mode.Writes() {
		parent, err := f.bfs.Stat(path.Dir(abs))
		if err != nil {
			return nil, errors.FromOS("open", abs, err)
		}
		if !parent.IsDir() {
			return nil, errors.PathErrorf(errors.CodeNotFound, "open", abs, "parent is not a directory")
		}
	}

	bf, err := f.bfs.OpenFile(abs, flag, perm)
	if err != nil {
		return nil, errors.FromOS("open", abs, err)
	}
	return &File{file: bf, name: abs}, nil
}
