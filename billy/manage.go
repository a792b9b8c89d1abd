package billy

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path"

	"github.com/go-git/go-billy/v5"

	"github.com/jmgilman/go/target/core"
	"github.com/jmgilman/go/target/errors"
	"github.com/jmgilman/go/target/internal/pathutil"
)

// Mkdir creates p. An existing non-directory at p fails with
// errors.CodeAlreadyExists even in silent mode.
func (f *FileSystem) Mkdir(_ context.Context, p string, opts ...core.Option) error {
	o := core.NewOptions(opts...)

	abs, err := f.Abspath(p)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mkdirLocked(abs, core.PermOr(o.Perm, f.dirPerm), o)
}

// mkdirLocked creates abs. Callers hold f.mu.
func (f *FileSystem) mkdirLocked(abs string, perm *fs.FileMode, o core.Options) error {
	if info, err := f.bfs.Stat(abs); err == nil {
		if o.Silent && info.IsDir() {
			return nil
		}
		return errors.PathErrorf(errors.CodeAlreadyExists, "mkdir", abs, "path already exists")
	}

	if !o.Recursive {
		parent, err := f.bfs.Stat(path.Dir(abs))
		if err != nil {
			return errors.FromOS("mkdir", abs, err)
		}
		if !parent.IsDir() {
			return errors.PathErrorf(errors.CodeNotFound, "mkdir", abs, "parent is not a directory")
		}
	} else if err := f.checkAncestors(abs); err != nil {
		return err
	}

	mode := fs.FileMode(0o755)
	if perm != nil {
		mode = *perm
	}
	if err := f.bfs.MkdirAll(abs, mode); err != nil {
		return errors.FromOS("mkdir", abs, err)
	}
	return f.chmodLocked(abs, perm)
}

// checkAncestors fails if a file sits where a directory is needed.
func (f *FileSystem) checkAncestors(abs string) error {
	for dir := path.Dir(abs); dir != "/"; dir = path.Dir(dir) {
		info, err := f.bfs.Stat(dir)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			return errors.PathErrorf(errors.CodeAlreadyExists, "mkdir", abs, "ancestor %s is not a directory", dir)
		}
		return nil
	}
	return nil
}

// Remove deletes p.
func (f *FileSystem) Remove(ctx context.Context, p string, opts ...core.Option) error {
	o := core.NewOptions(opts...)

	abs, err := f.Abspath(p)
	if err != nil {
		return err
	}
	if abs == "/" {
		return errors.PathErrorf(errors.CodeInvalidInput, "remove", abs, "refusing to remove the root")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	info, err := f.bfs.Lstat(abs)
	if err != nil {
		if o.Silent && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return errors.FromOS("remove", abs, err)
	}

	if info.IsDir() {
		entries, err := f.bfs.ReadDir(abs)
		if err != nil {
			return errors.FromOS("remove", abs, err)
		}
		if len(entries) > 0 {
			if !o.Recursive {
				return errors.PathErrorf(errors.CodeDirectoryNotEmpty, "remove", abs, "directory is not empty")
			}
			return f.removeAllLocked(ctx, abs)
		}
	}
	return errors.FromOS("remove", abs, f.bfs.Remove(abs))
}

// removeAllLocked removes abs and its children depth-first. Callers hold f.mu.
func (f *FileSystem) removeAllLocked(ctx context.Context, abs string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := f.bfs.Lstat(abs)
	if err != nil {
		return errors.FromOS("remove", abs, err)
	}
	if info.IsDir() {
		entries, err := f.bfs.ReadDir(abs)
		if err != nil {
			return errors.FromOS("remove", abs, err)
		}
		for _, e := range entries {
			if err := f.removeAllLocked(ctx, path.Join(abs, e.Name())); err != nil {
				return err
			}
		}
	}
	return errors.FromOS("remove", abs, f.bfs.Remove(abs))
}

// Chmod sets the mode of p when the backend supports it.
func (f *FileSystem) Chmod(_ context.Context, p string, perm *fs.FileMode, opts ...core.Option) error {
	if perm == nil {
		return nil
	}
	o := core.NewOptions(opts...)

	abs, err := f.Abspath(p)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, err := f.bfs.Stat(abs); err != nil {
		if o.Silent && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return errors.FromOS("chmod", abs, err)
	}
	return f.chmodLocked(abs, perm)
}

// chmodLocked applies perm if the backend implements billy.Change.
func (f *FileSystem) chmodLocked(abs string, perm *fs.FileMode) error {
	if perm == nil {
		return nil
	}
	ch, ok := f.bfs.(billy.Change)
	if !ok {
		return nil
	}
	return errors.FromOS("chmod", abs, ch.Chmod(abs, *perm))
}

// Copy copies the file src to dst and returns the final destination.
func (f *FileSystem) Copy(ctx context.Context, src, dst string, opts ...core.Option) (string, error) {
	return f.transfer(ctx, "copy", src, dst, false, opts)
}

// Move moves src, a file or a directory, to dst and returns the final
// destination.
func (f *FileSystem) Move(ctx context.Context, src, dst string, opts ...core.Option) (string, error) {
	return f.transfer(ctx, "move", src, dst, true, opts)
}

func (f *FileSystem) transfer(ctx context.Context, op, src, dst string, move bool, opts []core.Option) (string, error) {
	o := core.NewOptions(opts...)

	srcAbs, err := f.Abspath(src)
	if err != nil {
		return "", err
	}
	dstAbs, err := f.Abspath(dst)
	if err != nil {
		return "", err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	info, err := f.bfs.Stat(srcAbs)
	if err != nil {
		return "", errors.FromOS(op, srcAbs, err)
	}
	if info.IsDir() && !move {
		return "", errors.PathErrorf(errors.CodeInvalidInput, op, srcAbs, "source is a directory")
	}

	if dstInfo, err := f.bfs.Stat(dstAbs); err == nil && dstInfo.IsDir() {
		dstAbs = path.Join(dstAbs, pathutil.Base(srcAbs))
	} else if err := f.mkdirLocked(path.Dir(dstAbs), core.PermOr(o.DirPerm, f.dirPerm), core.NewOptions()); err != nil {
		return "", err
	}

	if dstAbs == srcAbs {
		return dstAbs, nil
	}

	perm := core.PermOr(o.Perm, f.filePerm)
	if info.IsDir() {
		if err := f.copyTreeLocked(ctx, srcAbs, dstAbs); err != nil {
			return "", err
		}
		perm = o.Perm
	} else if err := f.copyFileLocked(srcAbs, dstAbs, info.Mode().Perm()); err != nil {
		return "", err
	}

	if move {
		if err := f.removeAllLocked(ctx, srcAbs); err != nil {
			return "", err
		}
	}

	if err := f.chmodLocked(dstAbs, perm); err != nil {
		return "", err
	}
	return dstAbs, nil
}

// copyFileLocked copies the content of src. Callers hold f.mu.
func (f *FileSystem) copyFileLocked(src, dst string, perm fs.FileMode) error {
	in, err := f.bfs.Open(src)
	if err != nil {
		return errors.FromOS("copy", src, err)
	}
	defer in.Close() //nolint:errcheck // read-only handle

	if info, err := f.bfs.Stat(dst); err == nil && info.IsDir() {
		return errors.PathErrorf(errors.CodeAlreadyExists, "copy", dst, "destination is a directory")
	}

	out, err := f.bfs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return errors.FromOS("copy", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.FromOS("copy", dst, err)
	}
	return errors.FromOS("copy", dst, out.Close())
}

// copyTreeLocked recreates the directory src at dst. Callers hold f.mu.
func (f *FileSystem) copyTreeLocked(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := f.bfs.Stat(src)
	if err != nil {
		return errors.FromOS("copy", src, err)
	}
	if err := f.bfs.MkdirAll(dst, info.Mode().Perm()); err != nil {
		return errors.FromOS("copy", dst, err)
	}

	entries, err := f.bfs.ReadDir(src)
	if err != nil {
		return errors.FromOS("copy", src, err)
	}
	for _, e := range entries {
		s, d := path.Join(src, e.Name()), path.Join(dst, e.Name())
		if e.IsDir() {
			err = f.copyTreeLocked(ctx, s, d)
		} else {
			err = f.copyFileLocked(s, d, e.Mode().Perm())
		}
		if err != nil {
			return err
		}
	}
	return nil
}
