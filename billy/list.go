package billy

import (
	"context"
	"iter"
	"path"
	"sort"

	"github.com/jmgilman/go/target/core"
	"github.com/jmgilman/go/target/errors"
	"github.com/jmgilman/go/target/internal/pathutil"
)

// ListDir returns the sorted names of the entries of p.
func (f *FileSystem) ListDir(_ context.Context, p, pattern string, typ core.ListType) ([]string, error) {
	abs, err := f.Abspath(p)
	if err != nil {
		return nil, err
	}

	dirs, files, err := f.readDir(abs, pattern)
	if err != nil {
		return nil, err
	}

	names := []string{}
	switch typ {
	case core.ListFiles:
		names = append(names, files...)
	case core.ListDirs:
		names = append(names, dirs...)
	default:
		names = append(append(names, dirs...), files...)
		sort.Strings(names)
	}
	return names, nil
}

// readDir lists abs and splits the names matching pattern.
func (f *FileSystem) readDir(abs, pattern string) (dirs, files []string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	info, err := f.bfs.Stat(abs)
	if err != nil {
		return nil, nil, errors.FromOS("listdir", abs, err)
	}
	if !info.IsDir() {
		return nil, nil, errors.PathErrorf(errors.CodeInvalidInput, "listdir", abs, "not a directory")
	}

	entries, err := f.bfs.ReadDir(abs)
	if err != nil {
		return nil, nil, errors.FromOS("listdir", abs, err)
	}

	for _, e := range entries {
		if pattern != "" {
			ok, err := path.Match(pattern, e.Name())
			if err != nil {
				return nil, nil, errors.WithContext(
					errors.Wrap(err, errors.CodeInvalidInput, "invalid pattern"),
					"pattern", pattern,
				)
			}
			if !ok {
				continue
			}
		}
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		} else {
			files = append(files, e.Name())
		}
	}
	return dirs, files, nil
}

// Walk traverses p breadth-first.
func (f *FileSystem) Walk(ctx context.Context, p string, maxDepth int) iter.Seq2[core.WalkEntry, error] {
	abs, err := f.Abspath(p)
	if err != nil {
		return func(yield func(core.WalkEntry, error) bool) {
			yield(core.WalkEntry{}, err)
		}
	}

	list := func(_ context.Context, dir string) ([]string, []string, error) {
		return f.readDir(dir, "")
	}
	return core.BreadthFirst(ctx, abs, maxDepth, path.Join, list, nil)
}

// Glob returns the paths matching pattern, sorted. With a non-empty cwd a
// relative pattern is resolved against it and results are relative to cwd.
func (f *FileSystem) Glob(ctx context.Context, pattern, cwd string) ([]string, error) {
	if s := pathutil.Scheme(pattern); s != "" && s != f.scheme {
		return nil, errors.Newf(errors.CodeUnsupportedScheme, "%s filesystem cannot handle scheme %q", f.scheme, s)
	}

	base := "/"
	if cwd != "" {
		absCwd, err := f.Abspath(cwd)
		if err != nil {
			return nil, err
		}
		base = absCwd
	}

	list := func(_ context.Context, dir string) ([]string, []string, error) {
		return f.readDir(dir, "")
	}
	return core.GlobSlash(ctx, pathutil.StripScheme(pattern), base, cwd != "", list)
}
