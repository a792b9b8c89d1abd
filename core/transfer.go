package core

import (
	"context"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/jmgilman/go/target/errors"
	"github.com/jmgilman/go/target/internal/pathutil"
)

// Transfer streams the file src of srcFS into dst of dstFS and returns the
// final destination path.
//
// Destination handling follows ManageFS.Copy: an existing directory dst gets
// the basename of src appended, otherwise missing parents are created with
// the WithDirPerm permission. The written file is chmod'ed with WithPerm or
// the default file permission of dstFS. The source is left untouched.
func Transfer(ctx context.Context, srcFS FileSystem, src string, dstFS FileSystem, dst string, opts ...Option) (string, error) {
	o := NewOptions(opts...)

	dst, err := PrepareDestination(ctx, dstFS, src, dst, o.DirPerm)
	if err != nil {
		return "", err
	}

	r, err := srcFS.Open(ctx, src, ModeRead)
	if err != nil {
		return "", err
	}
	defer r.Close() //nolint:errcheck // read side, nothing to flush

	w, err := dstFS.Open(ctx, dst, ModeWrite)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", errors.PathError(errors.CodeIO, "transfer", dst, err)
	}
	if err := w.Close(); err != nil {
		return "", errors.FromOS("transfer", dst, err)
	}

	if err := dstFS.Chmod(ctx, dst, PermOr(o.Perm, dstFS.DefaultFilePerm())); err != nil {
		return "", err
	}
	return dst, nil
}

// PrepareDestination resolves the destination of a copy or move of src.
// If dst is an existing directory the basename of src is appended and the
// result returned; otherwise the parent of dst is created with dirPerm
// (or the filesystem default) and dst is returned unchanged.
func PrepareDestination(ctx context.Context, dstFS FileSystem, src, dst string, dirPerm *fs.FileMode) (string, error) {
	isDir, err := dstFS.IsDir(ctx, dst)
	if err != nil {
		return "", err
	}
	if isDir {
		return pathutil.Join(dst, pathutil.Base(src)), nil
	}

	parent := pathutil.Dir(dst)
	if parent == "" || parent == "." {
		return dst, nil
	}
	if err := dstFS.Mkdir(ctx, parent, WithPermPtr(PermOr(dirPerm, dstFS.DefaultDirPerm()))); err != nil {
		return "", err
	}
	return dst, nil
}

// CopyFromFS copies all files below srcRoot of a read-only filesystem
// (typically embed.FS or testing/fstest.MapFS) into dstRoot of a FileSystem,
// preserving the directory structure and file permissions.
//
// Example:
//
//	//go:embed fixtures/*
//	var fixtures embed.FS
//
//	err := core.CopyFromFS(ctx, fixtures, "fixtures", filesystem, "/data")
func CopyFromFS(ctx context.Context, src fs.FS, srcRoot string, dst FileSystem, dstRoot string) error {
	return fs.WalkDir(src, srcRoot, func(filePath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel := filePath
		if srcRoot != "." && srcRoot != "" {
			rel = strings.TrimPrefix(strings.TrimPrefix(filePath, srcRoot), "/")
		}
		target := dstRoot
		if rel != "" && rel != "." {
			target = pathutil.Join(dstRoot, path.Clean(rel))
		}

		if d.IsDir() {
			return dst.Mkdir(ctx, target)
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		data, err := fs.ReadFile(src, filePath)
		if err != nil {
			return err
		}

		w, err := dst.Open(ctx, target, ModeWrite)
		if err != nil {
			return err
		}
		if _, err := w.Write(data); err != nil {
			_ = w.Close()
			return errors.PathError(errors.CodeIO, "copy", target, err)
		}
		if err := w.Close(); err != nil {
			return err
		}
		return dst.Chmod(ctx, target, Perm(info.Mode().Perm()))
	})
}
