package core_test

import (
	"context"
	"errors"
	"path"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/target/core"
)

// tree maps a directory to its subdirectories and files.
type tree map[string][2][]string

func (tr tree) list(_ context.Context, dir string) ([]string, []string, error) {
	e, ok := tr[dir]
	if !ok {
		return nil, nil, errors.New("no such dir: " + dir)
	}
	return e[0], e[1], nil
}

var sample = tree{
	"/r":     {{"a", "b"}, {"f0"}},
	"/r/a":   {{"c"}, {"f1"}},
	"/r/b":   {nil, {"f2"}},
	"/r/a/c": {nil, {"f3"}},
}

func collect(t *testing.T, seq func(func(core.WalkEntry, error) bool)) []core.WalkEntry {
	t.Helper()
	var out []core.WalkEntry
	for e, err := range seq {
		require.NoError(t, err)
		out = append(out, e)
	}
	return out
}

func TestBreadthFirst_Order(t *testing.T) {
	got := collect(t, core.BreadthFirst(context.Background(), "/r", -1, path.Join, sample.list, nil))

	want := []core.WalkEntry{
		{Dir: "/r", Dirs: []string{"a", "b"}, Files: []string{"f0"}, Depth: 0},
		{Dir: "/r/a", Dirs: []string{"c"}, Files: []string{"f1"}, Depth: 1},
		{Dir: "/r/b", Files: []string{"f2"}, Depth: 1},
		{Dir: "/r/a/c", Files: []string{"f3"}, Depth: 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("walk mismatch (-want +got):\n%s", diff)
	}
}

func TestBreadthFirst_DepthBound(t *testing.T) {
	for _, maxDepth := range []int{0, 1, 2} {
		got := collect(t, core.BreadthFirst(context.Background(), "/r", maxDepth, path.Join, sample.list, nil))
		for _, e := range got {
			assert.LessOrEqual(t, e.Depth, maxDepth)
		}
	}

	got := collect(t, core.BreadthFirst(context.Background(), "/r", 0, path.Join, sample.list, nil))
	require.Len(t, got, 1)
	assert.Equal(t, "/r", got[0].Dir)

	got = collect(t, core.BreadthFirst(context.Background(), "/r", 1, path.Join, sample.list, nil))
	assert.Len(t, got, 3)
}

func TestBreadthFirst_Abandon(t *testing.T) {
	calls := 0
	list := func(ctx context.Context, dir string) ([]string, []string, error) {
		calls++
		return sample.list(ctx, dir)
	}

	for range core.BreadthFirst(context.Background(), "/r", -1, path.Join, list, nil) {
		break
	}
	assert.Equal(t, 1, calls)
}

func TestBreadthFirst_NoRevisit(t *testing.T) {
	loop := tree{
		"/l":   {{"x", "."}, nil},
		"/l/x": {{".."}, nil},
	}
	got := collect(t, core.BreadthFirst(context.Background(), "/l", -1, path.Join, loop.list, nil))
	assert.Len(t, got, 2)
}

func TestBreadthFirst_Error(t *testing.T) {
	broken := tree{"/r": {{"missing"}, nil}}

	var errs []error
	for _, err := range core.BreadthFirst(context.Background(), "/r", -1, path.Join, broken.list, nil) {
		if err != nil {
			errs = append(errs, err)
		}
	}
	assert.Len(t, errs, 1)
}

func TestBreadthFirst_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, err := range core.BreadthFirst(ctx, "/r", -1, path.Join, sample.list, nil) {
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestBreadthFirst_Identity(t *testing.T) {
	// /c/link names the same directory as /c.
	cycle := tree{
		"/c":      {{"link", "d"}, {"f"}},
		"/c/d":    {nil, {"g"}},
		"/c/link": {{"link", "d"}, {"f"}},
	}
	id := func(dir string) (any, error) {
		if dir == "/c/link" {
			return "/c", nil
		}
		return dir, nil
	}

	got := collect(t, core.BreadthFirst(context.Background(), "/c", -1, path.Join, cycle.list, id))
	var dirs []string
	for _, e := range got {
		dirs = append(dirs, e.Dir)
	}
	assert.Equal(t, []string{"/c", "/c/d"}, dirs)

	failing := func(string) (any, error) { return nil, errors.New("stat failed") }
	var errs []error
	for _, err := range core.BreadthFirst(context.Background(), "/c", -1, path.Join, cycle.list, failing) {
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	assert.EqualError(t, errs[0], "stat failed")
}
