package minio

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"golang.org/x/sync/errgroup"

	"github.com/jmgilman/go/target/core"
	"github.com/jmgilman/go/target/errors"
)

// Mkdir creates a directory marker object for p. Permissions are ignored.
// An existing object at p fails with errors.CodeAlreadyExists even in silent
// mode.
func (f *FileSystem) Mkdir(ctx context.Context, p string, opts ...core.Option) error {
	o := core.NewOptions(opts...)

	abs, err := f.Abspath(p)
	if err != nil {
		return err
	}
	return f.mkdir(ctx, abs, o)
}

func (f *FileSystem) mkdir(ctx context.Context, abs string, o core.Options) error {
	info, err := f.stat(ctx, abs)
	switch {
	case err == nil:
		if o.Silent && info.IsDir() {
			return nil
		}
		return errors.PathErrorf(errors.CodeAlreadyExists, "mkdir", abs, "path already exists")
	case !errors.IsCode(err, errors.CodeNotFound):
		return err
	}

	if !o.Recursive {
		parent, err := f.stat(ctx, path.Dir(abs))
		if err != nil {
			return err
		}
		if !parent.IsDir() {
			return errors.PathErrorf(errors.CodeNotFound, "mkdir", abs, "parent is not a directory")
		}
	} else if err := f.checkAncestors(ctx, abs); err != nil {
		return err
	}

	_, err = f.client.PutObject(ctx, f.bucket, f.dirKey(abs), strings.NewReader(""), 0, minio.PutObjectOptions{})
	return translate("mkdir", abs, err)
}

// checkAncestors fails if an object sits where a directory is needed.
func (f *FileSystem) checkAncestors(ctx context.Context, abs string) error {
	for dir := path.Dir(abs); dir != "/"; dir = path.Dir(dir) {
		_, err := f.client.StatObject(ctx, f.bucket, f.key(dir), minio.StatObjectOptions{})
		if err == nil {
			return errors.PathErrorf(errors.CodeAlreadyExists, "mkdir", abs, "ancestor %s is not a directory", dir)
		}
		if classify(err) != errors.CodeNotFound {
			return translate("mkdir", dir, err)
		}
	}
	return nil
}

// Remove deletes the object at p, or the marker and every object below a
// virtual directory.
func (f *FileSystem) Remove(ctx context.Context, p string, opts ...core.Option) error {
	o := core.NewOptions(opts...)

	abs, err := f.Abspath(p)
	if err != nil {
		return err
	}
	if abs == "/" {
		return errors.PathErrorf(errors.CodeInvalidInput, "remove", abs, "refusing to remove the root")
	}

	info, err := f.stat(ctx, abs)
	if err != nil {
		if o.Silent && errors.IsCode(err, errors.CodeNotFound) {
			return nil
		}
		return err
	}

	if !info.IsDir() {
		err := f.client.RemoveObject(ctx, f.bucket, f.key(abs), minio.RemoveObjectOptions{})
		return translate("remove", abs, err)
	}

	populated, err := f.hasChildren(ctx, abs, false)
	if err != nil {
		return err
	}
	if populated && !o.Recursive {
		return errors.PathErrorf(errors.CodeDirectoryNotEmpty, "remove", abs, "directory is not empty")
	}
	return f.removePrefix(ctx, abs)
}

// removePrefix removes every object below abs, its marker included, using
// the batch delete API.
func (f *FileSystem) removePrefix(ctx context.Context, abs string) error {
	prefix := f.dirKey(abs)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	objectsCh := make(chan minio.ObjectInfo, 100)

	var listErr error
	go func() {
		defer close(objectsCh)
		for object := range f.client.ListObjects(ctx, f.bucket, minio.ListObjectsOptions{
			Prefix:    prefix,
			Recursive: true,
		}) {
			if object.Err != nil {
				listErr = object.Err
				return
			}
			select {
			case objectsCh <- object:
			case <-ctx.Done():
				return
			}
		}
	}()

	var firstErr error
	for res := range f.client.RemoveObjects(ctx, f.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if res.Err != nil && firstErr == nil {
			firstErr = res.Err
		}
	}

	// the lister goroutine has exited once objectsCh is drained
	if listErr != nil {
		return translate("remove", abs, listErr)
	}
	return translate("remove", abs, firstErr)
}

// Chmod checks that p exists. Object storage has no permission model, so
// the mode itself is not stored.
func (f *FileSystem) Chmod(ctx context.Context, p string, perm *fs.FileMode, opts ...core.Option) error {
	if perm == nil {
		return nil
	}
	o := core.NewOptions(opts...)

	abs, err := f.Abspath(p)
	if err != nil {
		return err
	}
	if _, err := f.stat(ctx, abs); err != nil {
		if o.Silent && errors.IsCode(err, errors.CodeNotFound) {
			return nil
		}
		return err
	}
	return nil
}

// Copy duplicates the object src to dst with a server-side copy and returns
// the final destination.
func (f *FileSystem) Copy(ctx context.Context, src, dst string, opts ...core.Option) (string, error) {
	return f.transfer(ctx, "copy", src, dst, false, opts)
}

// Move relocates src, an object or a virtual directory, to dst.
//
// Moves are a copy followed by a delete and are not atomic: a failure in
// the delete phase leaves objects at both locations.
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

	info, err := f.stat(ctx, srcAbs)
	if err != nil {
		return "", err
	}
	if info.IsDir() && !move {
		return "", errors.PathErrorf(errors.CodeInvalidInput, op, srcAbs, "source is a directory")
	}

	if dstInfo, err := f.stat(ctx, dstAbs); err == nil && dstInfo.IsDir() {
		dstAbs = path.Join(dstAbs, path.Base(srcAbs))
	} else if err := f.mkdir(ctx, path.Dir(dstAbs), core.NewOptions(core.WithDirPermPtr(o.DirPerm))); err != nil {
		return "", err
	}

	if dstAbs == srcAbs {
		return dstAbs, nil
	}

	if !info.IsDir() {
		if err := f.copyObject(ctx, f.key(srcAbs), f.key(dstAbs)); err != nil {
			return "", translate(op, srcAbs, err)
		}
		if move {
			err := f.client.RemoveObject(ctx, f.bucket, f.key(srcAbs), minio.RemoveObjectOptions{})
			if err != nil {
				return "", translate(op, srcAbs, err)
			}
		}
		return dstAbs, nil
	}

	copied, err := f.parallelCopy(ctx, f.dirKey(srcAbs), f.dirKey(dstAbs))
	if err != nil {
		return "", translate(op, srcAbs, err)
	}
	if err := f.removeKeys(ctx, copied); err != nil {
		return "", translate(op, srcAbs, err)
	}
	return dstAbs, nil
}

func (f *FileSystem) copyObject(ctx context.Context, srcKey, dstKey string) error {
	src := minio.CopySrcOptions{Bucket: f.bucket, Object: srcKey}
	dst := minio.CopyDestOptions{Bucket: f.bucket, Object: dstKey}
	_, err := f.client.CopyObject(ctx, dst, src)
	return err
}

// parallelCopy copies objects from old to new prefix using a worker pool.
// Returns the list of successfully copied object keys for cleanup.
func (f *FileSystem) parallelCopy(ctx context.Context, oldPrefix, newPrefix string) ([]string, error) {
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(f.concurrency)

	var copiedMu sync.Mutex
	var copied []string

	listCtx, cancel := context.WithCancel(egCtx)
	defer cancel()

	for object := range f.client.ListObjects(listCtx, f.bucket, minio.ListObjectsOptions{
		Prefix:    oldPrefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			cancel()
			if err := eg.Wait(); err != nil {
				return copied, err
			}
			return copied, object.Err
		}

		objectKey := object.Key
		eg.Go(func() error {
			newKey := newPrefix + strings.TrimPrefix(objectKey, oldPrefix)
			if err := f.copyObject(egCtx, objectKey, newKey); err != nil {
				return fmt.Errorf("copy object %s to %s: %w", objectKey, newKey, err)
			}

			copiedMu.Lock()
			copied = append(copied, objectKey)
			copiedMu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return copied, err
	}
	return copied, nil
}

// removeKeys batch deletes keys.
func (f *FileSystem) removeKeys(ctx context.Context, keys []string) error {
	toDelete := make(chan minio.ObjectInfo, len(keys))
	for _, key := range keys {
		toDelete <- minio.ObjectInfo{Key: key}
	}
	close(toDelete)

	var firstErr error
	for res := range f.client.RemoveObjects(ctx, f.bucket, toDelete, minio.RemoveObjectsOptions{}) {
		if res.Err != nil && firstErr == nil {
			firstErr = res.Err
		}
	}
	return firstErr
}
