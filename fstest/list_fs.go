package fstest

import (
	"context"
	"reflect"
	"testing"

	"github.com/jmgilman/go/target/core"
	"github.com/jmgilman/go/target/errors"
)

// TestListFS tests ListDir, Walk and Glob.
func TestListFS(t *testing.T, filesystem core.FileSystem, root string) {
	TestListFSWithConfig(t, filesystem, root, POSIXTestConfig())
}

// TestListFSWithConfig tests listing and traversal with behavior configuration.
func TestListFSWithConfig(t *testing.T, filesystem core.FileSystem, root string, config Config) {
	ctx := context.Background()
	base := join(root, "list")
	writeFile(t, filesystem, join(base, "f0.json"), "")
	writeFile(t, filesystem, join(base, "f1.txt"), "")
	writeFile(t, filesystem, join(base, "a", "f2.json"), "")
	writeFile(t, filesystem, join(base, "a", "c", "f4.json"), "")
	writeFile(t, filesystem, join(base, "b", "f3.txt"), "")

	subtest(t, config, "ListFS", "ListDir", func(t *testing.T) {
		tests := []struct {
			pattern string
			typ     core.ListType
			want    []string
		}{
			{"", core.ListAll, []string{"a", "b", "f0.json", "f1.txt"}},
			{"", core.ListFiles, []string{"f0.json", "f1.txt"}},
			{"", core.ListDirs, []string{"a", "b"}},
			{"*.json", core.ListAll, []string{"f0.json"}},
			{"*.yaml", core.ListAll, []string{}},
		}
		for _, tt := range tests {
			got, err := filesystem.ListDir(ctx, base, tt.pattern, tt.typ)
			if err != nil {
				t.Fatalf("ListDir(%s, %q, %s): got error %v, want nil", base, tt.pattern, tt.typ, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ListDir(%s, %q, %s): got %v, want %v", base, tt.pattern, tt.typ, got, tt.want)
			}
		}
	})

	subtest(t, config, "ListFS", "WalkBreadthFirst", func(t *testing.T) {
		var depths []int
		for entry, err := range filesystem.Walk(ctx, base, -1) {
			if err != nil {
				t.Fatalf("Walk(%s): got error %v, want nil", base, err)
			}
			depths = append(depths, entry.Depth)
		}
		want := []int{0, 1, 1, 2}
		if !reflect.DeepEqual(depths, want) {
			t.Errorf("Walk(%s) depths: got %v, want %v", base, depths, want)
		}
	})

	subtest(t, config, "ListFS", "WalkDepthBound", func(t *testing.T) {
		for _, maxDepth := range []int{0, 1} {
			count := 0
			for entry, err := range filesystem.Walk(ctx, base, maxDepth) {
				if err != nil {
					t.Fatalf("Walk(%s, %d): got error %v, want nil", base, maxDepth, err)
				}
				if entry.Depth > maxDepth {
					t.Errorf("Walk(%s, %d): yielded depth %d", base, maxDepth, entry.Depth)
				}
				count++
			}
			if want := 1 + 2*maxDepth; count != want {
				t.Errorf("Walk(%s, %d): got %d entries, want %d", base, maxDepth, count, want)
			}
		}
	})

	subtest(t, config, "ListFS", "WalkAbandon", func(t *testing.T) {
		for range filesystem.Walk(ctx, base, -1) {
			break
		}
	})

	subtest(t, config, "ListFS", "Glob", func(t *testing.T) {
		got, err := filesystem.Glob(ctx, "*/*.json", base)
		if err != nil {
			t.Fatalf("Glob(*/*.json, %s): got error %v, want nil", base, err)
		}
		want := []string{"a/f2.json"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Glob(*/*.json, %s): got %v, want %v", base, got, want)
		}
	})

	subtest(t, config, "ListFS", "ListDirMissing", func(t *testing.T) {
		_, err := filesystem.ListDir(ctx, join(root, "list-missing"), "", core.ListAll)
		if !errors.IsCode(err, errors.CodeNotFound) {
			t.Errorf("ListDir(missing): got error %v, want %s", err, errors.CodeNotFound)
		}
	})
}
