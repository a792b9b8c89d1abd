//go:build !unix

package local

import (
	"path/filepath"

	"github.com/jmgilman/go/target/errors"
)

func setUmask(int) int { return 0 }

func isCrossDevice(error) bool { return false }

// dirID identifies the directory behind dir by its resolved path.
func dirID(dir string) (any, error) {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return nil, errors.FromOS("walk", dir, err)
	}
	return resolved, nil
}
