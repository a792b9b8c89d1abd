// Package pathutil provides scheme handling, expansion and key normalization
// for target paths.
//
// Target paths may carry a URL-like scheme prefix ("file:///data/x",
// "s3://bucket/key"). Helpers in this package split, strip and re-attach the
// prefix so each backend only ever sees the part it owns.
package pathutil

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

const schemeSep = "://"

// Split separates the scheme from the rest of p.
// A path without a scheme returns an empty scheme and p unchanged.
func Split(p string) (scheme, rest string) {
	i := strings.Index(p, schemeSep)
	if i <= 0 {
		return "", p
	}
	scheme = p[:i]
	for _, r := range scheme {
		if !isSchemeRune(r) {
			return "", p
		}
	}
	return scheme, p[i+len(schemeSep):]
}

func isSchemeRune(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'
}

// Scheme returns the lowercased scheme of p, or "" if p has none.
func Scheme(p string) string {
	s, _ := Split(p)
	return strings.ToLower(s)
}

// StripScheme removes the scheme prefix of p, if any.
func StripScheme(p string) string {
	_, rest := Split(p)
	return rest
}

// WithScheme prefixes p with scheme. An empty scheme returns p unchanged and
// an existing prefix is replaced.
func WithScheme(scheme, p string) string {
	p = StripScheme(p)
	if scheme == "" {
		return p
	}
	return scheme + schemeSep + p
}

// Expand replaces environment variables and a leading "~" in p.
// If the home directory cannot be resolved the "~" is left in place.
func Expand(p string) string {
	p = os.ExpandEnv(p)
	if expanded, err := homedir.Expand(p); err == nil {
		return expanded
	}
	return p
}

// Join joins elements onto base, keeping the scheme of base.
func Join(base string, elem ...string) string {
	scheme, rest := Split(base)
	joined := path.Join(append([]string{filepath.ToSlash(rest)}, elem...)...)
	if scheme == "" {
		return filepath.FromSlash(joined)
	}
	return scheme + schemeSep + joined
}

// Base returns the last element of p, ignoring the scheme.
func Base(p string) string {
	return path.Base(filepath.ToSlash(StripScheme(p)))
}

// Dir returns all but the last element of p, keeping the scheme.
func Dir(p string) string {
	scheme, rest := Split(p)
	d := path.Dir(filepath.ToSlash(rest))
	if scheme == "" {
		return filepath.FromSlash(d)
	}
	return scheme + schemeSep + d
}

// Ext returns the last n dot-separated extensions of the basename of p,
// without the leading dot. n <= 0 returns all of them. A leading dot marks a
// hidden file, not an extension.
//
//	Ext("/a/b.tar.gz", 1) == "gz"
//	Ext("/a/b.tar.gz", 2) == "tar.gz"
//	Ext("/a/.profile", 1) == ""
func Ext(p string, n int) string {
	name := strings.TrimLeft(Base(p), ".")
	parts := strings.Split(name, ".")
	if len(parts) < 2 {
		return ""
	}
	exts := parts[1:]
	if n > 0 && n < len(exts) {
		exts = exts[len(exts)-n:]
	}
	return strings.Join(exts, ".")
}

// Normalize cleans an object key and ensures forward slashes without a
// leading or trailing slash. Returns "." for empty keys.
func Normalize(p string) string {
	if p == "" {
		return "."
	}
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.Trim(path.Clean("/"+p), "/")
	if p == "" {
		return "."
	}
	return p
}

// NormalizePrefix normalizes a key prefix. "" and "." both yield "".
func NormalizePrefix(prefix string) string {
	if prefix == "" || prefix == "." {
		return ""
	}
	n := Normalize(prefix)
	if n == "." {
		return ""
	}
	return n
}

// JoinKey joins a normalized prefix with name to create a full object key.
func JoinKey(prefix, name string) string {
	name = Normalize(name)
	if name == "." {
		return prefix
	}
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

// EntryKey constructs the key of an entry given its parent key and name.
func EntryKey(parentKey, entryName string) string {
	if parentKey != "" {
		return parentKey + "/" + entryName
	}
	return entryName
}
