// Package fstest provides a conformance test suite for validating filesystem
// backends against the core.FileSystem contracts.
//
// The suite is imported and executed by backend packages:
//
//	func TestConformance(t *testing.T) {
//	    fstest.TestSuite(t, func(t *testing.T) (core.FileSystem, string) {
//	        return local.New(), t.TempDir()
//	    })
//	}
//
// The tests validate interface contracts, not backend-specific behavior.
// Differences between backends (virtual directories, permission support)
// are declared through Config.
package fstest

import (
	"testing"

	"github.com/jmgilman/go/target/core"
)

// NewFunc returns a filesystem and an existing, empty root directory on it.
// Every call must return an isolated root.
type NewFunc func(t *testing.T) (core.FileSystem, string)

// Config configures the suite to match backend characteristics.
type Config struct {
	// VirtualDirectories indicates directories are key prefixes (e.g. S3).
	// An empty directory may not survive removal of its last child.
	VirtualDirectories bool

	// ImplicitParentDirs indicates files can be opened for writing without
	// their parent directory existing.
	ImplicitParentDirs bool

	// Permissions indicates Chmod and permission options are honored.
	Permissions bool

	// SkipTests lists test names to skip, e.g. "ManageFS/MoveDirectory".
	SkipTests []string
}

// POSIXTestConfig returns the configuration for the local disk.
func POSIXTestConfig() Config {
	return Config{Permissions: true}
}

// MemoryTestConfig returns the configuration for in-memory backends.
func MemoryTestConfig() Config {
	return Config{}
}

// S3TestConfig returns the configuration for object storage backends.
func S3TestConfig() Config {
	return Config{
		VirtualDirectories: true,
		ImplicitParentDirs: true,
	}
}

// TestSuite runs all conformance tests with POSIXTestConfig.
func TestSuite(t *testing.T, newFS NewFunc) {
	TestSuiteWithConfig(t, newFS, POSIXTestConfig())
}

// TestSuiteWithConfig runs all conformance tests with behavior configuration.
// Each group receives a fresh filesystem root.
func TestSuiteWithConfig(t *testing.T, newFS NewFunc, config Config) {
	groups := []struct {
		name string
		run  func(*testing.T, core.FileSystem, string, Config)
	}{
		{"ReadFS", TestReadFSWithConfig},
		{"ManageFS", TestManageFSWithConfig},
		{"ListFS", TestListFSWithConfig},
		{"StreamFS", TestStreamFSWithConfig},
		{"FormatFS", TestFormatFSWithConfig},
	}

	for _, g := range groups {
		t.Run(g.name, func(t *testing.T) {
			if config.skips(g.name) {
				t.Skip("Skipped by provider configuration")
				return
			}
			filesystem, root := newFS(t)
			g.run(t, filesystem, root, config)
		})
	}
}

func (c Config) skips(testName string) bool {
	for _, skip := range c.SkipTests {
		if skip == testName {
			return true
		}
	}
	return false
}

// subtest runs fn as group/name unless the configuration skips it.
func subtest(t *testing.T, config Config, group, name string, fn func(t *testing.T)) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if config.skips(group + "/" + name) {
			t.Skip("Skipped by provider configuration")
			return
		}
		fn(t)
	})
}
