package core

import (
	"context"
	"iter"
)

// Lister returns the immediate children of dir, split into directory names
// and all other names.
type Lister func(ctx context.Context, dir string) (dirs, files []string, err error)

// Identity returns a comparable key for the directory behind dir. Paths
// with equal keys name the same directory, for example through a symlink.
type Identity func(dir string) (any, error)

// BreadthFirst walks the tree rooted at root level by level using list.
//
// join builds a child path from a directory and an entry name. The root has
// depth 0; directories deeper than maxDepth are neither listed nor yielded,
// and a negative maxDepth disables the bound. Each directory is visited at
// most once: id keys the visited set, or the path itself when id is nil. A
// directory reached again under another name is skipped. The first error,
// including context cancellation, is yielded and ends the sequence.
func BreadthFirst(ctx context.Context, root string, maxDepth int, join func(elem ...string) string, list Lister, id Identity) iter.Seq2[WalkEntry, error] {
	type item struct {
		dir   string
		depth int
	}

	return func(yield func(WalkEntry, error) bool) {
		queue := []item{{dir: root}}
		seen := map[any]struct{}{}

		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]

			if maxDepth >= 0 && cur.depth > maxDepth {
				continue
			}
			if err := ctx.Err(); err != nil {
				yield(WalkEntry{}, err)
				return
			}

			var key any = cur.dir
			if id != nil {
				k, err := id(cur.dir)
				if err != nil {
					yield(WalkEntry{}, err)
					return
				}
				key = k
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}

			dirs, files, err := list(ctx, cur.dir)
			if err != nil {
				yield(WalkEntry{}, err)
				return
			}

			entry := WalkEntry{Dir: cur.dir, Dirs: dirs, Files: files, Depth: cur.depth}
			if !yield(entry, nil) {
				return
			}

			if maxDepth >= 0 && cur.depth+1 > maxDepth {
				continue
			}
			for _, d := range entry.Dirs {
				queue = append(queue, item{dir: join(cur.dir, d), depth: cur.depth + 1})
			}
		}
	}
}
