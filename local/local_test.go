package local

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/target/config"
	"github.com/jmgilman/go/target/core"
	"github.com/jmgilman/go/target/errors"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("permission semantics differ on windows")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestAbspath(t *testing.T) {
	f := New()
	dir := t.TempDir()

	got, err := f.Abspath("file://" + dir + "/a/../b")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "b"), got)

	t.Setenv("LOCAL_TEST_DIR", dir)
	got, err = f.Abspath("$LOCAL_TEST_DIR/x")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "x"), got)

	_, err = f.Abspath("s3://bucket/key")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeUnsupportedScheme))

	_, err = f.Exists(context.Background(), "gs://bucket/key")
	assert.True(t, errors.IsCode(err, errors.CodeUnsupportedScheme))
}

func TestExistence(t *testing.T) {
	ctx := context.Background()
	f := New()
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	writeFile(t, file, "x")

	tests := []struct {
		path                  string
		exists, isDir, isFile bool
	}{
		{dir, true, true, false},
		{file, true, false, true},
		{filepath.Join(dir, "missing"), false, false, false},
		{filepath.Join(file, "below"), false, false, false},
	}
	for _, tt := range tests {
		t.Run(filepath.Base(tt.path), func(t *testing.T) {
			exists, err := f.Exists(ctx, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.exists, exists)

			isDir, err := f.IsDir(ctx, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.isDir, isDir)

			isFile, err := f.IsFile(ctx, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.isFile, isFile)
		})
	}

	_, err := f.Stat(ctx, filepath.Join(dir, "missing"))
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestMkdir_SilentIdempotent(t *testing.T) {
	ctx := context.Background()
	f := New()
	dir := filepath.Join(t.TempDir(), "a", "b", "c")

	require.NoError(t, f.Mkdir(ctx, dir))
	require.NoError(t, f.Mkdir(ctx, dir))

	isDir, err := f.IsDir(ctx, dir)
	require.NoError(t, err)
	assert.True(t, isDir)

	err = f.Mkdir(ctx, dir, core.Strict())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeAlreadyExists))
}

func TestMkdir_OverFile(t *testing.T) {
	f := New()
	file := filepath.Join(t.TempDir(), "f")
	writeFile(t, file, "")

	err := f.Mkdir(context.Background(), file)
	assert.True(t, errors.IsCode(err, errors.CodeAlreadyExists))
}

func TestMkdir_NonRecursive(t *testing.T) {
	f := New()
	dir := filepath.Join(t.TempDir(), "missing", "child")

	err := f.Mkdir(context.Background(), dir, core.NonRecursive())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestMkdir_PermIgnoresUmask(t *testing.T) {
	skipOnWindows(t)
	ctx := context.Background()

	old := setUmask(0o077)
	defer setUmask(old)

	dir := filepath.Join(t.TempDir(), "perm")
	require.NoError(t, New().Mkdir(ctx, dir, core.WithPerm(0o775)))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o775), info.Mode().Perm())

	// the umask is restored afterwards
	assert.Equal(t, 0o077, setUmask(0o077))

	dir2 := filepath.Join(t.TempDir(), "default")
	require.NoError(t, New(WithDefaultDirPerm(0o751)).Mkdir(ctx, dir2))
	info, err = os.Stat(dir2)
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o751), info.Mode().Perm())
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	f := New()
	root := t.TempDir()
	dir := filepath.Join(root, "d")
	writeFile(t, filepath.Join(dir, "inner", "f"), "x")

	err := f.Remove(ctx, dir, core.NonRecursive())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeDirectoryNotEmpty))

	require.NoError(t, f.Remove(ctx, dir))
	exists, err := f.Exists(ctx, dir)
	require.NoError(t, err)
	assert.False(t, exists)

	// silent removal of an absent path is a no-op, strict is not
	require.NoError(t, f.Remove(ctx, dir))
	err = f.Remove(ctx, dir, core.Strict())
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))

	empty := filepath.Join(root, "empty")
	require.NoError(t, os.Mkdir(empty, 0o755))
	require.NoError(t, f.Remove(ctx, empty, core.NonRecursive()))

	file := filepath.Join(root, "f")
	writeFile(t, file, "x")
	require.NoError(t, f.Remove(ctx, file, core.NonRecursive()))
	_, err = os.Stat(file)
	assert.True(t, os.IsNotExist(err))
}

func TestChmod(t *testing.T) {
	skipOnWindows(t)
	ctx := context.Background()
	f := New()
	file := filepath.Join(t.TempDir(), "f")
	writeFile(t, file, "x")

	require.NoError(t, f.Chmod(ctx, file, nil))
	require.NoError(t, f.Chmod(ctx, file, core.Perm(0o600)))
	info, err := os.Stat(file)
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o600), info.Mode().Perm())

	missing := filepath.Join(filepath.Dir(file), "missing")
	require.NoError(t, f.Chmod(ctx, missing, core.Perm(0o600)))
	err = f.Chmod(ctx, missing, core.Perm(0o600), core.Strict())
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestListDir(t *testing.T) {
	ctx := context.Background()
	f := New()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.json"), "")
	writeFile(t, filepath.Join(dir, "a.txt"), "")
	writeFile(t, filepath.Join(dir, "sub", "x"), "")
	writeFile(t, filepath.Join(dir, "sub.json", "y"), "")

	tests := []struct {
		name    string
		pattern string
		typ     core.ListType
		want    []string
	}{
		{"all", "", core.ListAll, []string{"a.txt", "b.json", "sub", "sub.json"}},
		{"files", "", core.ListFiles, []string{"a.txt", "b.json"}},
		{"dirs", "", core.ListDirs, []string{"sub", "sub.json"}},
		{"pattern", "*.json", core.ListAll, []string{"b.json", "sub.json"}},
		{"pattern files", "*.json", core.ListFiles, []string{"b.json"}},
		{"no match", "*.yaml", core.ListAll, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.ListDir(ctx, dir, tt.pattern, tt.typ)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := f.ListDir(ctx, dir, "[", core.ListAll)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidInput))

	_, err = f.ListDir(ctx, filepath.Join(dir, "missing"), "", core.ListAll)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestWalk(t *testing.T) {
	ctx := context.Background()
	f := New()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "f0"), "")
	writeFile(t, filepath.Join(root, "a", "f1"), "")
	writeFile(t, filepath.Join(root, "a", "c", "f3"), "")
	writeFile(t, filepath.Join(root, "b", "f2"), "")

	var got []core.WalkEntry
	for entry, err := range f.Walk(ctx, root, -1) {
		require.NoError(t, err)
		got = append(got, entry)
	}

	want := []core.WalkEntry{
		{Dir: root, Dirs: []string{"a", "b"}, Files: []string{"f0"}, Depth: 0},
		{Dir: filepath.Join(root, "a"), Dirs: []string{"c"}, Files: []string{"f1"}, Depth: 1},
		{Dir: filepath.Join(root, "b"), Files: []string{"f2"}, Depth: 1},
		{Dir: filepath.Join(root, "a", "c"), Files: []string{"f3"}, Depth: 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("walk mismatch (-want +got):\n%s", diff)
	}

	for _, maxDepth := range []int{0, 1} {
		count := 0
		for entry, err := range f.Walk(ctx, root, maxDepth) {
			require.NoError(t, err)
			assert.LessOrEqual(t, entry.Depth, maxDepth)
			count++
		}
		assert.Equal(t, map[int]int{0: 1, 1: 3}[maxDepth], count)
	}

	for _, err := range f.Walk(ctx, "s3://bucket", -1) {
		assert.True(t, errors.IsCode(err, errors.CodeUnsupportedScheme))
	}

	t.Run("symlink cycle", func(t *testing.T) {
		skipOnWindows(t)
		loop := t.TempDir()
		writeFile(t, filepath.Join(loop, "a", "f"), "")
		require.NoError(t, os.Symlink(loop, filepath.Join(loop, "a", "up")))

		var dirs []string
		for entry, err := range f.Walk(ctx, loop, -1) {
			require.NoError(t, err)
			dirs = append(dirs, entry.Dir)
			require.Less(t, len(dirs), 10, "walk does not terminate")
		}
		assert.Equal(t, []string{loop, filepath.Join(loop, "a")}, dirs)
	})
}

func TestGlob(t *testing.T) {
	ctx := context.Background()
	f := New()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.json"), "")
	writeFile(t, filepath.Join(dir, "b.json"), "")
	writeFile(t, filepath.Join(dir, "sub", "c.json"), "")

	got, err := f.Glob(ctx, "*.json", dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.json", "b.json"}, got)

	got, err = f.Glob(ctx, "*/*.json", dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("sub", "c.json")}, got)

	got, err = f.Glob(ctx, "file://"+filepath.Join(dir, "*.json"), "")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.json"), filepath.Join(dir, "b.json")}, got)

	got, err = f.Glob(ctx, "*.yaml", dir)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = f.Glob(ctx, "[", dir)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidInput))
}

func TestCopy_DirectoryDestination(t *testing.T) {
	ctx := context.Background()
	f := New()
	root := t.TempDir()
	src := filepath.Join(root, "src", "data.txt")
	writeFile(t, src, "payload")

	mtime := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(src, mtime, mtime))

	dstDir := filepath.Join(root, "dst")
	require.NoError(t, os.Mkdir(dstDir, 0o755))

	got, err := f.Copy(ctx, src, dstDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dstDir, "data.txt"), got)
	assert.Equal(t, "payload", readFile(t, got))
	assert.Equal(t, "payload", readFile(t, src))

	info, err := os.Stat(got)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(mtime))
}

func TestCopy_CreatesParents(t *testing.T) {
	skipOnWindows(t)
	ctx := context.Background()
	f := New(WithDefaultFilePerm(0o640))
	root := t.TempDir()
	src := filepath.Join(root, "data.txt")
	writeFile(t, src, "payload")

	dst := filepath.Join(root, "x", "y", "out.txt")
	got, err := f.Copy(ctx, src, "file://"+dst, core.WithDirPerm(0o700))
	require.NoError(t, err)
	assert.Equal(t, dst, got)

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o640), info.Mode().Perm())

	info, err = os.Stat(filepath.Dir(dst))
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o700), info.Mode().Perm())

	got, err = f.Copy(ctx, src, dst, core.WithPerm(0o600))
	require.NoError(t, err)
	info, err = os.Stat(got)
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o600), info.Mode().Perm())
}

func TestCopy_Errors(t *testing.T) {
	ctx := context.Background()
	f := New()
	root := t.TempDir()

	_, err := f.Copy(ctx, filepath.Join(root, "missing"), filepath.Join(root, "out"))
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))

	_, err = f.Copy(ctx, root, filepath.Join(t.TempDir(), "out"))
	assert.True(t, errors.IsCode(err, errors.CodeInvalidInput))
}

func TestMove(t *testing.T) {
	ctx := context.Background()
	f := New()
	root := t.TempDir()
	src := filepath.Join(root, "a.txt")
	writeFile(t, src, "moved")

	dstDir := filepath.Join(root, "dst")
	require.NoError(t, os.Mkdir(dstDir, 0o755))

	got, err := f.Move(ctx, src, dstDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dstDir, "a.txt"), got)
	assert.Equal(t, "moved", readFile(t, got))

	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err))

	// directories move as a whole
	tree := filepath.Join(root, "tree")
	writeFile(t, filepath.Join(tree, "n", "f"), "deep")
	got, err = f.Move(ctx, tree, filepath.Join(root, "renamed"))
	require.NoError(t, err)
	assert.Equal(t, "deep", readFile(t, filepath.Join(got, "n", "f")))

	_, err = f.Move(ctx, src, dstDir)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestMoveAcrossDevices(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	src := filepath.Join(root, "src.txt")
	writeFile(t, src, "content")
	info, err := os.Lstat(src)
	require.NoError(t, err)

	dst := filepath.Join(root, "dst.txt")
	require.NoError(t, moveAcrossDevices(ctx, src, dst, info))
	assert.Equal(t, "content", readFile(t, dst))
	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err))

	tree := filepath.Join(root, "tree")
	writeFile(t, filepath.Join(tree, "a", "b"), "nested")
	info, err = os.Lstat(tree)
	require.NoError(t, err)

	dstTree := filepath.Join(root, "copy")
	require.NoError(t, moveAcrossDevices(ctx, tree, dstTree, info))
	assert.Equal(t, "nested", readFile(t, filepath.Join(dstTree, "a", "b")))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".move-", "staging leftovers")
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	f := New()
	path := filepath.Join(t.TempDir(), "log.txt")

	for _, chunk := range []string{"A", "B"} {
		w, err := f.Open(ctx, path, core.ModeAppend)
		require.NoError(t, err)
		_, err = io.WriteString(w, chunk)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	}
	assert.Equal(t, "AB", readFile(t, path))

	w, err := f.Open(ctx, path, core.ModeWrite)
	require.NoError(t, err)
	_, err = io.WriteString(w, "C")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := f.Open(ctx, path, core.ModeRead)
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, "C", string(data))
	assert.Equal(t, path, r.Name())

	_, err = f.Open(ctx, path, core.Mode("rw"))
	assert.True(t, errors.IsCode(err, errors.CodeInvalidMode))

	_, err = f.Open(ctx, filepath.Join(filepath.Dir(path), "missing"), core.ModeRead)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestLoadDump(t *testing.T) {
	ctx := context.Background()
	f := New()
	path := filepath.Join(t.TempDir(), "data.json")

	in := map[string]any{"a": 1.0, "b": []any{"x", "y"}, "c": map[string]any{"d": true}}
	require.NoError(t, f.Dump(ctx, path, "", in))

	var out map[string]any
	require.NoError(t, f.Load(ctx, path, "", &out))
	assert.Equal(t, in, out)

	yamlPath := filepath.Join(filepath.Dir(path), "data.conf")
	require.NoError(t, f.Dump(ctx, yamlPath, "yaml", in))
	out = nil
	require.NoError(t, f.Load(ctx, yamlPath, "yaml", &out))
	assert.Equal(t, "x", out["b"].([]any)[0])

	err := f.Dump(ctx, filepath.Join(filepath.Dir(path), "data.bin"), "", in)
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestFromConfig(t *testing.T) {
	cfg, err := config.Load([]byte("[local_fs]\ndefault_file_perm = 0o600\ndefault_directory_perm = 0o700\n"))
	require.NoError(t, err)

	f, err := FromConfig(cfg, "local_fs")
	require.NoError(t, err)
	require.NotNil(t, f.DefaultFilePerm())
	assert.Equal(t, fs.FileMode(0o600), *f.DefaultFilePerm())
	assert.Equal(t, fs.FileMode(0o700), *f.DefaultDirPerm())

	f, err = FromConfig(cfg, "local_fs", WithDefaultFilePerm(0o644))
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o644), *f.DefaultFilePerm())

	f, err = FromConfig(cfg, "missing")
	require.NoError(t, err)
	assert.Nil(t, f.DefaultFilePerm())

	bad, err := config.Load([]byte("[local_fs]\ndefault_file_perm = nope\n"))
	require.NoError(t, err)
	_, err = FromConfig(bad, "local_fs")
	assert.True(t, errors.IsCode(err, errors.CodeInvalidConfig))
}

func TestEqual(t *testing.T) {
	assert.True(t, New().Equal(New(WithDefaultFilePerm(0o600))))
	assert.Equal(t, "file", New().Scheme())
	assert.Equal(t, core.FSTypeLocal, New().Type())
	assert.Equal(t, "local", New().Type().String())
}
