// Package core defines the capability surface every storage backend must
// implement to be used behind a target.
//
// A backend (local disk, in-memory, object storage) implements FileSystem,
// which is composed of small focused interfaces:
//
//   - ReadFS: existence and metadata checks (Exists, IsDir, IsFile, Stat)
//   - ListFS: directory listing and traversal (ListDir, Walk, Glob)
//   - ManageFS: structural changes (Mkdir, Remove, Chmod, Copy, Move)
//   - StreamFS: raw stream access (Open)
//   - FormatFS: serialization through a formatter registry (Load, Dump)
//
// Every method takes a context and a path that may carry a scheme prefix
// such as "file:///data/x.json"; implementations strip the scheme they own
// and reject any other one with errors.CodeUnsupportedScheme.
//
// # Errors
//
// Implementations classify low-level failures at this boundary using the
// errors package, so callers branch on errors.CodeNotFound,
// errors.CodeAlreadyExists and friends rather than on errno values.
//
// # Options
//
// Mutating operations accept functional options. The defaults mirror the
// common case: operations are recursive and silent.
//
//	err := filesystem.Mkdir(ctx, "/data/out", core.WithPerm(0o750))
//	err = filesystem.Remove(ctx, "/data/out", core.NonRecursive(), core.Strict())
//
// # Walking
//
// Walk returns a lazy breadth-first sequence. Breaking out of the loop stops
// the traversal; no further directories are listed.
//
//	for entry, err := range filesystem.Walk(ctx, "/data", 1) {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(entry.Dir, entry.Depth, entry.Files)
//	}
package core
