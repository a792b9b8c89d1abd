package fstest

import (
	"context"
	"reflect"
	"testing"

	"github.com/jmgilman/go/target/core"
	"github.com/jmgilman/go/target/errors"
)

// TestFormatFS tests Load and Dump through the built-in formatters.
func TestFormatFS(t *testing.T, filesystem core.FileSystem, root string) {
	TestFormatFSWithConfig(t, filesystem, root, POSIXTestConfig())
}

// TestFormatFSWithConfig tests serialization with behavior configuration.
func TestFormatFSWithConfig(t *testing.T, filesystem core.FileSystem, root string, config Config) {
	ctx := context.Background()
	if err := filesystem.Mkdir(ctx, join(root, "fmt")); err != nil {
		t.Fatalf("Mkdir(fmt): setup failed: %v", err)
	}

	subtest(t, config, "FormatFS", "JSONRoundTrip", func(t *testing.T) {
		name := join(root, "fmt", "data.json")
		in := map[string]any{"a": 1.0, "b": []any{"x", "y"}, "c": map[string]any{"d": true}}

		if err := filesystem.Dump(ctx, name, "", in); err != nil {
			t.Fatalf("Dump(%s): got error %v, want nil", name, err)
		}
		var out map[string]any
		if err := filesystem.Load(ctx, name, "", &out); err != nil {
			t.Fatalf("Load(%s): got error %v, want nil", name, err)
		}
		if !reflect.DeepEqual(in, out) {
			t.Errorf("Load(Dump(v)): got %v, want %v", out, in)
		}
	})

	subtest(t, config, "FormatFS", "ExplicitFormat", func(t *testing.T) {
		name := join(root, "fmt", "data.conf")
		in := map[string]string{"k": "v"}

		if err := filesystem.Dump(ctx, name, "yaml", in); err != nil {
			t.Fatalf("Dump(%s, yaml): got error %v, want nil", name, err)
		}
		var out map[string]string
		if err := filesystem.Load(ctx, name, "yaml", &out); err != nil {
			t.Fatalf("Load(%s, yaml): got error %v, want nil", name, err)
		}
		if !reflect.DeepEqual(in, out) {
			t.Errorf("Load(Dump(v)): got %v, want %v", out, in)
		}
	})

	subtest(t, config, "FormatFS", "Registry", func(t *testing.T) {
		reg := filesystem.Registry()
		if reg == nil {
			t.Fatal("Registry() returned nil")
		}
		if _, ok := reg.Lookup("json"); !ok {
			t.Error(`Registry() has no "json" formatter`)
		}
	})

	subtest(t, config, "FormatFS", "UnknownFormatter", func(t *testing.T) {
		name := join(root, "fmt", "data.unknown")
		err := filesystem.Dump(ctx, name, "", 1)
		if !errors.IsCode(err, errors.CodeNotFound) {
			t.Errorf("Dump(%s): got error %v, want %s", name, err, errors.CodeNotFound)
		}
		if exists(t, filesystem, name) {
			t.Errorf("Dump(%s) created a file without a formatter", name)
		}
	})
}
