package local

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/oklog/ulid/v2"

	"github.com/jmgilman/go/target/core"
	"github.com/jmgilman/go/target/errors"
)

// Copy copies the file src to dst, preserving its modification time, and
// returns the final destination.
func (f *FileSystem) Copy(ctx context.Context, src, dst string, opts ...core.Option) (string, error) {
	o := core.NewOptions(opts...)

	srcAbs, dstAbs, err := f.prepare(ctx, "copy", src, dst, o)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(srcAbs)
	if err != nil {
		return "", errors.FromOS("copy", srcAbs, err)
	}
	if info.IsDir() {
		return "", errors.PathErrorf(errors.CodeInvalidInput, "copy", srcAbs, "source is a directory")
	}

	if err := copyFile(srcAbs, dstAbs, info); err != nil {
		return "", err
	}
	if err := f.Chmod(ctx, dstAbs, core.PermOr(o.Perm, f.filePerm)); err != nil {
		return "", err
	}
	return dstAbs, nil
}

// Move renames src to dst and returns the final destination. Directories
// are moved as a whole. The default file permission is only applied to
// files; an explicit WithPerm applies to either.
func (f *FileSystem) Move(ctx context.Context, src, dst string, opts ...core.Option) (string, error) {
	o := core.NewOptions(opts...)

	srcAbs, dstAbs, err := f.prepare(ctx, "move", src, dst, o)
	if err != nil {
		return "", err
	}

	info, err := os.Lstat(srcAbs)
	if err != nil {
		return "", errors.FromOS("move", srcAbs, err)
	}

	if err := os.Rename(srcAbs, dstAbs); err != nil {
		if !isCrossDevice(err) {
			return "", errors.FromOS("move", dstAbs, err)
		}
		if err := moveAcrossDevices(ctx, srcAbs, dstAbs, info); err != nil {
			return "", err
		}
	}

	perm := o.Perm
	if perm == nil && !info.IsDir() {
		perm = f.filePerm
	}
	if err := f.Chmod(ctx, dstAbs, perm); err != nil {
		return "", err
	}
	return dstAbs, nil
}

// prepare resolves both paths and the final destination.
func (f *FileSystem) prepare(ctx context.Context, op, src, dst string, o core.Options) (string, string, error) {
	srcAbs, err := f.Abspath(src)
	if err != nil {
		return "", "", err
	}
	dstAbs, err := f.Abspath(dst)
	if err != nil {
		return "", "", err
	}

	if _, err := os.Lstat(srcAbs); err != nil {
		return "", "", errors.FromOS(op, srcAbs, err)
	}

	dstAbs, err = core.PrepareDestination(ctx, f, srcAbs, dstAbs, o.DirPerm)
	if err != nil {
		return "", "", err
	}
	return srcAbs, dstAbs, nil
}

// moveAcrossDevices stages src in a hidden sibling of dst, renames the
// sibling into place and finally removes src.
func moveAcrossDevices(ctx context.Context, src, dst string, info fs.FileInfo) error {
	staged := filepath.Join(filepath.Dir(dst), "."+filepath.Base(dst)+".move-"+ulid.Make().String())

	var err error
	if info.IsDir() {
		err = copyTree(ctx, src, staged)
	} else {
		err = copyFile(src, staged, info)
	}
	if err != nil {
		_ = os.RemoveAll(staged)
		return err
	}

	if err := os.Rename(staged, dst); err != nil {
		_ = os.RemoveAll(staged)
		return errors.FromOS("move", dst, err)
	}
	return errors.FromOS("move", src, os.RemoveAll(src))
}

// copyFile copies the content, mode and modification time of src.
func copyFile(src, dst string, info fs.FileInfo) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.FromOS("copy", src, err)
	}
	defer in.Close() //nolint:errcheck // read-only handle

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return errors.FromOS("copy", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.FromOS("copy", dst, err)
	}
	if err := out.Close(); err != nil {
		return errors.FromOS("copy", dst, err)
	}

	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return errors.FromOS("copy", dst, err)
	}
	return errors.FromOS("copy", dst, os.Chtimes(dst, info.ModTime(), info.ModTime()))
}

// copyTree recreates the directory src at dst.
func copyTree(ctx context.Context, src, dst string) error {
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.FromOS("copy", p, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(src, p)
		if err != nil {
			return errors.FromOS("copy", p, err)
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return errors.FromOS("copy", p, err)
		}
		if d.IsDir() {
			return errors.FromOS("copy", target, os.MkdirAll(target, info.Mode().Perm()))
		}
		return copyFile(p, target, info)
	})
}
