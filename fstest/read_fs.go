package fstest

import (
	"context"
	"testing"

	"github.com/jmgilman/go/target/core"
	"github.com/jmgilman/go/target/errors"
)

// TestReadFS tests Exists, IsDir, IsFile and Stat.
func TestReadFS(t *testing.T, filesystem core.FileSystem, root string) {
	TestReadFSWithConfig(t, filesystem, root, POSIXTestConfig())
}

// TestReadFSWithConfig tests metadata queries with behavior configuration.
func TestReadFSWithConfig(t *testing.T, filesystem core.FileSystem, root string, config Config) {
	ctx := context.Background()
	file := join(root, "read", "file.txt")
	dir := join(root, "read")
	missing := join(root, "read", "missing")
	writeFile(t, filesystem, file, "hello")

	subtest(t, config, "ReadFS", "Existence", func(t *testing.T) {
		tests := []struct {
			path   string
			exists bool
			isDir  bool
			isFile bool
		}{
			{file, true, false, true},
			{dir, true, true, false},
			{missing, false, false, false},
		}
		for _, tt := range tests {
			got, err := filesystem.Exists(ctx, tt.path)
			if err != nil || got != tt.exists {
				t.Errorf("Exists(%s): got (%v, %v), want (%v, nil)", tt.path, got, err, tt.exists)
			}
			got, err = filesystem.IsDir(ctx, tt.path)
			if err != nil || got != tt.isDir {
				t.Errorf("IsDir(%s): got (%v, %v), want (%v, nil)", tt.path, got, err, tt.isDir)
			}
			got, err = filesystem.IsFile(ctx, tt.path)
			if err != nil || got != tt.isFile {
				t.Errorf("IsFile(%s): got (%v, %v), want (%v, nil)", tt.path, got, err, tt.isFile)
			}
		}
	})

	subtest(t, config, "ReadFS", "Stat", func(t *testing.T) {
		info, err := filesystem.Stat(ctx, file)
		if err != nil {
			t.Fatalf("Stat(%s): got error %v, want nil", file, err)
		}
		if info.Size() != 5 {
			t.Errorf("Stat(%s).Size(): got %d, want 5", file, info.Size())
		}
		if info.IsDir() {
			t.Errorf("Stat(%s).IsDir(): got true, want false", file)
		}
	})

	subtest(t, config, "ReadFS", "StatNotFound", func(t *testing.T) {
		_, err := filesystem.Stat(ctx, missing)
		if !errors.IsCode(err, errors.CodeNotFound) {
			t.Errorf("Stat(%s): got error %v, want %s", missing, err, errors.CodeNotFound)
		}
	})

	subtest(t, config, "ReadFS", "UnsupportedScheme", func(t *testing.T) {
		other := "unknown-scheme://x/y"
		_, err := filesystem.Exists(ctx, other)
		if !errors.IsCode(err, errors.CodeUnsupportedScheme) {
			t.Errorf("Exists(%s): got error %v, want %s", other, err, errors.CodeUnsupportedScheme)
		}
	})
}
