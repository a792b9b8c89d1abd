package fstest

import (
	"context"
	"io"
	"testing"

	"github.com/jmgilman/go/target/core"
	"github.com/jmgilman/go/target/errors"
)

// TestStreamFS tests Open in every mode.
func TestStreamFS(t *testing.T, filesystem core.FileSystem, root string) {
	TestStreamFSWithConfig(t, filesystem, root, POSIXTestConfig())
}

// TestStreamFSWithConfig tests raw streams with behavior configuration.
func TestStreamFSWithConfig(t *testing.T, filesystem core.FileSystem, root string, config Config) {
	ctx := context.Background()

	subtest(t, config, "StreamFS", "WriteTruncates", func(t *testing.T) {
		name := join(root, "stream", "w.txt")
		writeFile(t, filesystem, name, "long content")
		writeFile(t, filesystem, name, "short")
		if got := readFile(t, filesystem, name); got != "short" {
			t.Errorf("Open(w) twice: got %q, want %q", got, "short")
		}
	})

	subtest(t, config, "StreamFS", "Append", func(t *testing.T) {
		name := join(root, "stream", "a.txt")
		writeFile(t, filesystem, name, "A")

		w, err := filesystem.Open(ctx, name, core.ModeAppend)
		if err != nil {
			t.Fatalf("Open(%s, a): got error %v, want nil", name, err)
		}
		if _, err := io.WriteString(w, "B"); err != nil {
			t.Fatalf("Write(%s): got error %v, want nil", name, err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("Close(%s): got error %v, want nil", name, err)
		}
		if got := readFile(t, filesystem, name); got != "AB" {
			t.Errorf("append: got %q, want %q", got, "AB")
		}
	})

	subtest(t, config, "StreamFS", "InvalidMode", func(t *testing.T) {
		_, err := filesystem.Open(ctx, join(root, "stream", "x"), core.Mode("x"))
		if !errors.IsCode(err, errors.CodeInvalidMode) {
			t.Errorf("Open(mode x): got error %v, want %s", err, errors.CodeInvalidMode)
		}
	})

	subtest(t, config, "StreamFS", "ReadMissing", func(t *testing.T) {
		_, err := filesystem.Open(ctx, join(root, "stream", "missing"), core.ModeRead)
		if !errors.IsCode(err, errors.CodeNotFound) {
			t.Errorf("Open(missing, r): got error %v, want %s", err, errors.CodeNotFound)
		}
	})

	subtest(t, config, "StreamFS", "WriteWithoutParent", func(t *testing.T) {
		name := join(root, "stream-missing", "f.txt")
		w, err := filesystem.Open(ctx, name, core.ModeWrite)
		if config.ImplicitParentDirs {
			if err != nil {
				t.Fatalf("Open(%s, w): got error %v, want nil", name, err)
			}
			_ = w.Close()
			return
		}
		if !errors.IsCode(err, errors.CodeNotFound) {
			t.Errorf("Open(%s, w): got error %v, want %s", name, err, errors.CodeNotFound)
		}
	})
}
