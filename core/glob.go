package core

import (
	"context"
	"path"
	"sort"
	"strings"

	"github.com/jmgilman/go/target/errors"
)

// GlobSlash expands a shell pattern over a slash-separated tree whose
// directories are listed by list, one path segment at a time.
//
// A relative pattern is resolved against base. When rel is set, matches
// below base are returned relative to it. Directories that cannot be listed
// because they are missing or are not directories contribute no matches.
func GlobSlash(ctx context.Context, pattern, base string, rel bool, list Lister) ([]string, error) {
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, errors.WithContext(
			errors.Wrap(err, errors.CodeInvalidInput, "invalid pattern"),
			"pattern", pattern,
		)
	}

	if base == "" {
		base = "/"
	}
	if !strings.HasPrefix(pattern, "/") {
		pattern = path.Join(base, pattern)
	}

	segments := strings.Split(strings.Trim(path.Clean(pattern), "/"), "/")
	matches := []string{}
	if err := globSegments(ctx, "/", segments, list, &matches); err != nil {
		return nil, err
	}

	if rel {
		for i, m := range matches {
			matches[i] = relSlash(base, m)
		}
	}
	sort.Strings(matches)
	return matches, nil
}

func globSegments(ctx context.Context, dir string, segments []string, list Lister, out *[]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(segments) == 0 || segments[0] == "" {
		*out = append(*out, dir)
		return nil
	}

	seg, rest := segments[0], segments[1:]
	dirs, files, err := list(ctx, dir)
	if err != nil {
		if errors.IsCode(err, errors.CodeNotFound) || errors.IsCode(err, errors.CodeInvalidInput) {
			return nil
		}
		return err
	}

	names := dirs
	if len(rest) == 0 {
		names = append(append([]string{}, dirs...), files...)
	}
	for _, name := range names {
		if ok, _ := path.Match(seg, name); !ok {
			continue
		}
		if err := globSegments(ctx, path.Join(dir, name), rest, list, out); err != nil {
			return err
		}
	}
	return nil
}

// relSlash returns target relative to base, or target itself when it does
// not lie below base.
func relSlash(base, target string) string {
	switch {
	case target == base:
		return "."
	case base == "/":
		return strings.TrimPrefix(target, "/")
	case strings.HasPrefix(target, base+"/"):
		return target[len(base)+1:]
	default:
		return target
	}
}
