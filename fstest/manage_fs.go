package fstest

import (
	"context"
	"io/fs"
	"testing"

	"github.com/jmgilman/go/target/core"
	"github.com/jmgilman/go/target/errors"
)

// TestManageFS tests Mkdir, Remove, Chmod, Copy and Move.
func TestManageFS(t *testing.T, filesystem core.FileSystem, root string) {
	TestManageFSWithConfig(t, filesystem, root, POSIXTestConfig())
}

// TestManageFSWithConfig tests structural changes with behavior configuration.
func TestManageFSWithConfig(t *testing.T, filesystem core.FileSystem, root string, config Config) {
	ctx := context.Background()

	subtest(t, config, "ManageFS", "MkdirSilentIdempotent", func(t *testing.T) {
		dir := join(root, "mk", "a", "b")
		for i := 0; i < 2; i++ {
			if err := filesystem.Mkdir(ctx, dir); err != nil {
				t.Fatalf("Mkdir(%s) call %d: got error %v, want nil", dir, i+1, err)
			}
		}
		if ok, err := filesystem.IsDir(ctx, dir); err != nil || !ok {
			t.Errorf("IsDir(%s): got (%v, %v), want (true, nil)", dir, ok, err)
		}
	})

	subtest(t, config, "ManageFS", "MkdirStrictExisting", func(t *testing.T) {
		dir := join(root, "mkstrict")
		if err := filesystem.Mkdir(ctx, dir); err != nil {
			t.Fatalf("Mkdir(%s): setup failed: %v", dir, err)
		}
		err := filesystem.Mkdir(ctx, dir, core.Strict())
		if !errors.IsCode(err, errors.CodeAlreadyExists) {
			t.Errorf("Mkdir(%s, Strict): got error %v, want %s", dir, err, errors.CodeAlreadyExists)
		}
	})

	subtest(t, config, "ManageFS", "MkdirPerm", func(t *testing.T) {
		if !config.Permissions {
			t.Skip("backend does not honor permissions")
		}
		dir := join(root, "mkperm")
		if err := filesystem.Mkdir(ctx, dir, core.WithPerm(0o750)); err != nil {
			t.Fatalf("Mkdir(%s): got error %v, want nil", dir, err)
		}
		info, err := filesystem.Stat(ctx, dir)
		if err != nil {
			t.Fatalf("Stat(%s): got error %v, want nil", dir, err)
		}
		if got := info.Mode().Perm(); got != 0o750 {
			t.Errorf("Stat(%s).Mode().Perm(): got %o, want 750", dir, got)
		}
	})

	subtest(t, config, "ManageFS", "RemoveSilentAbsent", func(t *testing.T) {
		missing := join(root, "rm-missing")
		if err := filesystem.Remove(ctx, missing); err != nil {
			t.Errorf("Remove(%s): got error %v, want nil", missing, err)
		}
		err := filesystem.Remove(ctx, missing, core.Strict())
		if !errors.IsCode(err, errors.CodeNotFound) {
			t.Errorf("Remove(%s, Strict): got error %v, want %s", missing, err, errors.CodeNotFound)
		}
	})

	subtest(t, config, "ManageFS", "RemoveNonRecursive", func(t *testing.T) {
		dir := join(root, "rm-nonrec")
		writeFile(t, filesystem, join(dir, "child.txt"), "x")

		err := filesystem.Remove(ctx, dir, core.NonRecursive())
		if !errors.IsCode(err, errors.CodeDirectoryNotEmpty) {
			t.Errorf("Remove(%s, NonRecursive): got error %v, want %s", dir, err, errors.CodeDirectoryNotEmpty)
		}
		if !exists(t, filesystem, join(dir, "child.txt")) {
			t.Errorf("Remove(%s, NonRecursive) deleted its child", dir)
		}
	})

	subtest(t, config, "ManageFS", "RemoveRecursive", func(t *testing.T) {
		dir := join(root, "rm-rec")
		writeFile(t, filesystem, join(dir, "a", "b", "c.txt"), "x")
		writeFile(t, filesystem, join(dir, "d.txt"), "x")

		if err := filesystem.Remove(ctx, dir); err != nil {
			t.Fatalf("Remove(%s): got error %v, want nil", dir, err)
		}
		if exists(t, filesystem, dir) || exists(t, filesystem, join(dir, "a", "b", "c.txt")) {
			t.Errorf("Remove(%s): tree still exists", dir)
		}
	})

	subtest(t, config, "ManageFS", "ChmodNil", func(t *testing.T) {
		if err := filesystem.Chmod(ctx, join(root, "chmod-missing"), nil, core.Strict()); err != nil {
			t.Errorf("Chmod(nil perm): got error %v, want nil", err)
		}
		if err := filesystem.Chmod(ctx, join(root, "chmod-missing"), core.Perm(0o600)); err != nil {
			t.Errorf("Chmod(silent, absent): got error %v, want nil", err)
		}
	})

	subtest(t, config, "ManageFS", "CopyToDirectory", func(t *testing.T) {
		src := join(root, "cp", "src", "data.txt")
		dstDir := join(root, "cp", "dst")
		writeFile(t, filesystem, src, "payload")
		if err := filesystem.Mkdir(ctx, dstDir); err != nil {
			t.Fatalf("Mkdir(%s): setup failed: %v", dstDir, err)
		}
		// marker so virtual directories are visible
		writeFile(t, filesystem, join(dstDir, "keep"), "")

		got, err := filesystem.Copy(ctx, src, dstDir)
		if err != nil {
			t.Fatalf("Copy(%s, %s): got error %v, want nil", src, dstDir, err)
		}
		want, _ := filesystem.Abspath(join(dstDir, "data.txt"))
		if got != want {
			t.Errorf("Copy(%s, %s): got %q, want %q", src, dstDir, got, want)
		}
		if content := readFile(t, filesystem, got); content != "payload" {
			t.Errorf("Copy content: got %q, want %q", content, "payload")
		}
		if !exists(t, filesystem, src) {
			t.Errorf("Copy removed the source %s", src)
		}
	})

	subtest(t, config, "ManageFS", "CopyCreatesParents", func(t *testing.T) {
		src := join(root, "cp2", "a.txt")
		dst := join(root, "cp2", "x", "y", "b.txt")
		writeFile(t, filesystem, src, "p")

		opts := []core.Option{}
		if config.Permissions {
			opts = append(opts, core.WithPerm(0o640))
		}
		got, err := filesystem.Copy(ctx, src, dst, opts...)
		if err != nil {
			t.Fatalf("Copy(%s, %s): got error %v, want nil", src, dst, err)
		}
		if content := readFile(t, filesystem, got); content != "p" {
			t.Errorf("Copy content: got %q, want %q", content, "p")
		}
		if config.Permissions {
			info, err := filesystem.Stat(ctx, got)
			if err != nil {
				t.Fatalf("Stat(%s): got error %v, want nil", got, err)
			}
			if perm := info.Mode().Perm(); perm != fs.FileMode(0o640) {
				t.Errorf("Copy perm: got %o, want 640", perm)
			}
		}
	})

	subtest(t, config, "ManageFS", "MoveFile", func(t *testing.T) {
		src := join(root, "mv", "a.txt")
		dst := join(root, "mv", "out", "b.txt")
		writeFile(t, filesystem, src, "moved")

		got, err := filesystem.Move(ctx, src, dst)
		if err != nil {
			t.Fatalf("Move(%s, %s): got error %v, want nil", src, dst, err)
		}
		if content := readFile(t, filesystem, got); content != "moved" {
			t.Errorf("Move content: got %q, want %q", content, "moved")
		}
		if exists(t, filesystem, src) {
			t.Errorf("Move left the source %s", src)
		}
	})

	subtest(t, config, "ManageFS", "MoveDirectory", func(t *testing.T) {
		src := join(root, "mvdir", "tree")
		writeFile(t, filesystem, join(src, "n", "f.txt"), "deep")
		writeFile(t, filesystem, join(root, "mvdir", "tree2", "g.txt"), "neighbour")

		dst := join(root, "mvdir", "renamed")
		got, err := filesystem.Move(ctx, src, dst)
		if err != nil {
			t.Fatalf("Move(%s, %s): got error %v, want nil", src, dst, err)
		}
		if content := readFile(t, filesystem, join(got, "n", "f.txt")); content != "deep" {
			t.Errorf("Move content: got %q, want %q", content, "deep")
		}
		if exists(t, filesystem, join(src, "n", "f.txt")) {
			t.Errorf("Move left the source tree %s", src)
		}
		if content := readFile(t, filesystem, join(root, "mvdir", "tree2", "g.txt")); content != "neighbour" {
			t.Errorf("Move touched a neighbour: got %q", content)
		}
	})

	subtest(t, config, "ManageFS", "MoveMissing", func(t *testing.T) {
		_, err := filesystem.Move(ctx, join(root, "mv-missing"), join(root, "mv-out"))
		if !errors.IsCode(err, errors.CodeNotFound) {
			t.Errorf("Move(missing): got error %v, want %s", err, errors.CodeNotFound)
		}
	})
}
