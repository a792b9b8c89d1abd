package pathutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantScheme string
		wantRest   string
	}{
		{"no scheme", "/data/x.json", "", "/data/x.json"},
		{"file scheme", "file:///data/x.json", "file", "/data/x.json"},
		{"s3 scheme", "s3://bucket/key", "s3", "bucket/key"},
		{"relative", "data/x", "", "data/x"},
		{"separator inside path", "/a/b://c", "", "/a/b://c"},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scheme, rest := Split(tt.input)
			assert.Equal(t, tt.wantScheme, scheme)
			assert.Equal(t, tt.wantRest, rest)
		})
	}
}

func TestScheme(t *testing.T) {
	assert.Equal(t, "file", Scheme("FILE:///x"))
	assert.Equal(t, "", Scheme("/x"))
	assert.Equal(t, "/x", StripScheme("file:///x"))
	assert.Equal(t, "mem:///x", WithScheme("mem", "file:///x"))
	assert.Equal(t, "/x", WithScheme("", "/x"))
}

func TestExpand(t *testing.T) {
	t.Setenv("TARGET_TEST_DIR", "/expanded")
	assert.Equal(t, "/expanded/x", Expand("$TARGET_TEST_DIR/x"))
	assert.Equal(t, "/plain", Expand("/plain"))
}

func TestJoinBaseDir(t *testing.T) {
	assert.Equal(t, "s3://bucket/a/b", Join("s3://bucket/a", "b"))
	assert.Equal(t, filepath.FromSlash("/a/b/c"), Join("/a", "b", "c"))
	assert.Equal(t, "x.json", Base("file:///data/x.json"))
	assert.Equal(t, "mem:///data", Dir("mem:///data/x.json"))
	assert.Equal(t, filepath.FromSlash("/data"), Dir("/data/x.json"))
}

func TestExt(t *testing.T) {
	tests := []struct {
		path string
		n    int
		want string
	}{
		{"/a/b.tar.gz", 1, "gz"},
		{"/a/b.tar.gz", 2, "tar.gz"},
		{"/a/b.tar.gz", 0, "tar.gz"},
		{"/a/b.tar.gz", 5, "tar.gz"},
		{"/a/b", 1, ""},
		{"/a/.profile", 1, ""},
		{"/a/.config.yaml", 1, "yaml"},
		{"s3://bucket/x.json", 1, "json"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Ext(tt.path, tt.n))
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "."},
		{"/", "."},
		{"a/b/", "a/b"},
		{"/a/./b/../c", "a/c"},
		{`a\b`, "a/b"},
		{"../../a", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "", NormalizePrefix("."))
	assert.Equal(t, "p/q", NormalizePrefix("/p/q/"))
	assert.Equal(t, "p/a", JoinKey("p", "/a"))
	assert.Equal(t, "p", JoinKey("p", ""))
	assert.Equal(t, "a", JoinKey("", "a"))
	assert.Equal(t, "a/b", EntryKey("a", "b"))
	assert.Equal(t, "b", EntryKey("", "b"))
}
