package core

import (
	"context"

	"github.com/jmgilman/go/target/errors"
	"github.com/jmgilman/go/target/formatter"
)

// LoadWith resolves a formatter from reg and decodes path into dst.
// Backends implement FormatFS.Load with it.
func LoadWith(ctx context.Context, fsys StreamFS, reg *formatter.Registry, path, format string, dst any) error {
	f, err := reg.Find(format, path)
	if err != nil {
		return err
	}

	r, err := fsys.Open(ctx, path, ModeRead)
	if err != nil {
		return err
	}
	defer r.Close() //nolint:errcheck // read side, nothing to flush

	if err := f.Load(r, dst); err != nil {
		return errors.WithContext(errors.WithContext(err, "path", path), "formatter", f.Name())
	}
	return nil
}

// DumpWith resolves a formatter from reg and encodes v into path, which is
// created or truncated. A WithPerm option is applied after writing.
// Backends implement FormatFS.Dump with it.
func DumpWith(ctx context.Context, fsys FileSystem, reg *formatter.Registry, path, format string, v any, opts ...Option) error {
	f, err := reg.Find(format, path)
	if err != nil {
		return err
	}

	w, err := fsys.Open(ctx, path, ModeWrite)
	if err != nil {
		return err
	}
	if err := f.Dump(w, v); err != nil {
		_ = w.Close()
		return errors.WithContext(errors.WithContext(err, "path", path), "formatter", f.Name())
	}
	if err := w.Close(); err != nil {
		return errors.FromOS("dump", path, err)
	}

	return fsys.Chmod(ctx, path, NewOptions(opts...).Perm)
}
