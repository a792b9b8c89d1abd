package fstest

import (
	"context"
	"io"
	"testing"

	"github.com/jmgilman/go/target/core"
	"github.com/jmgilman/go/target/internal/pathutil"
)

// join builds a path below root, keeping any scheme.
func join(root string, elem ...string) string {
	return pathutil.Join(root, elem...)
}

// writeFile creates name with content, creating parents first.
func writeFile(t *testing.T, filesystem core.FileSystem, name, content string) {
	t.Helper()
	ctx := context.Background()

	if err := filesystem.Mkdir(ctx, pathutil.Dir(name)); err != nil {
		t.Fatalf("Mkdir(%s): setup failed: %v", pathutil.Dir(name), err)
	}
	w, err := filesystem.Open(ctx, name, core.ModeWrite)
	if err != nil {
		t.Fatalf("Open(%s, w): setup failed: %v", name, err)
	}
	if _, err := io.WriteString(w, content); err != nil {
		_ = w.Close()
		t.Fatalf("Write(%s): setup failed: %v", name, err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close(%s): setup failed: %v", name, err)
	}
}

// readFile returns the content of name.
func readFile(t *testing.T, filesystem core.FileSystem, name string) string {
	t.Helper()

	r, err := filesystem.Open(context.Background(), name, core.ModeRead)
	if err != nil {
		t.Fatalf("Open(%s, r): got error %v, want nil", name, err)
	}
	defer func() { _ = r.Close() }()

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("Read(%s): got error %v, want nil", name, err)
	}
	return string(data)
}

// exists reports whether name exists, failing the test on error.
func exists(t *testing.T, filesystem core.FileSystem, name string) bool {
	t.Helper()

	ok, err := filesystem.Exists(context.Background(), name)
	if err != nil {
		t.Fatalf("Exists(%s): got error %v, want nil", name, err)
	}
	return ok
}
