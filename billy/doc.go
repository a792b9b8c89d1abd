// Package billy implements core.FileSystem on top of a go-billy filesystem.
//
// The main use is the in-memory backend behind the "mem://" scheme:
//
//	mem := billy.NewMemory()
//	err := mem.Dump(ctx, "mem:///cfg/app.json", "", cfg)
//
// Any other billy.Filesystem can be wrapped with New, and the underlying
// filesystem is available through Unwrap for go-git integration.
//
// # Thread Safety
//
// A FileSystem serializes every structural operation (open, create, rename,
// remove, listing) behind a mutex, since memfs keeps its tree in plain maps.
// Moves are implemented as copy followed by removal while holding that
// mutex, so they are atomic for every caller going through the same
// FileSystem. File handles are not safe for concurrent use.
//
// # Permissions
//
// Modes are recorded when files and directories are created. Backends that
// do not implement billy.Change (memfs among them) ignore Chmod.
package billy
