package fstest_test

import (
	"testing"

	"github.com/jmgilman/go/target/billy"
	"github.com/jmgilman/go/target/core"
	"github.com/jmgilman/go/target/fstest"
	"github.com/jmgilman/go/target/local"
)

// TestSuite_Local runs the suite against the local disk.
func TestSuite_Local(t *testing.T) {
	fstest.TestSuite(t, func(t *testing.T) (core.FileSystem, string) {
		return local.New(), t.TempDir()
	})
}

// TestSuite_Memory runs the suite against the in-memory backend, addressing
// it through its scheme.
func TestSuite_Memory(t *testing.T) {
	fstest.TestSuiteWithConfig(t, func(t *testing.T) (core.FileSystem, string) {
		return billy.NewMemory(), "mem:///suite"
	}, fstest.MemoryTestConfig())
}
