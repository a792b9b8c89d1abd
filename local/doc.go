// Package local implements core.FileSystem on top of the local disk.
//
// Paths may be plain ("/data/x.json"), relative to the working directory, or
// carry the "file://" scheme; any other scheme is rejected with
// errors.CodeUnsupportedScheme.
//
// Directory creation with an explicit permission neutralises the process
// umask while the directories are created and chmods the result, so the
// requested mode is applied exactly. The umask is process-wide state; calls
// from this package are serialized but other code changing it concurrently
// is not.
//
// Moves are atomic renames. When source and destination live on different
// devices the data is first copied into a hidden sibling of the destination
// which is then renamed into place, so readers never observe a partial file.
package local
