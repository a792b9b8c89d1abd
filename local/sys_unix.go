//go:build unix

package local

import (
	"errors"

	"golang.org/x/sys/unix"

	fserrors "github.com/jmgilman/go/target/errors"
)

// setUmask replaces the process umask and returns the previous one.
func setUmask(mask int) int {
	return unix.Umask(mask)
}

// isCrossDevice reports whether err is a rename across filesystems.
func isCrossDevice(err error) bool {
	return errors.Is(err, unix.EXDEV)
}

type fileID struct {
	dev, ino uint64
}

// dirID identifies the directory behind dir by device and inode, following
// symlinks.
func dirID(dir string) (any, error) {
	var st unix.Stat_t
	if err := unix.Stat(dir, &st); err != nil {
		return nil, fserrors.FromOS("walk", dir, err)
	}
	return fileID{dev: uint64(st.Dev), ino: uint64(st.Ino)}, nil
}
