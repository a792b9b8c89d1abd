package formatter_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/target/errors"
	"github.com/jmgilman/go/target/formatter"
)

// stubFormatter is a no-op formatter with configurable name and extensions.
type stubFormatter struct {
	name string
	exts []string
}

func (s stubFormatter) Name() string              { return s.name }
func (s stubFormatter) Extensions() []string      { return s.exts }
func (s stubFormatter) Load(io.Reader, any) error { return nil }
func (s stubFormatter) Dump(io.Writer, any) error { return nil }

func TestRegistry_Find(t *testing.T) {
	reg := formatter.NewRegistry(
		formatter.JSON(),
		formatter.YAML(),
		stubFormatter{name: "gz", exts: []string{"gz"}},
		stubFormatter{name: "tgz", exts: []string{".tar.gz"}},
	)

	tests := []struct {
		name     string
		format   string
		path     string
		wantName string
		wantCode errors.ErrorCode
	}{
		{name: "explicit name", format: "yaml", path: "/x.json", wantName: "yaml"},
		{name: "explicit name case", format: "JSON", path: "/x", wantName: "json"},
		{name: "extension", path: "/data/x.json", wantName: "json"},
		{name: "second extension", path: "/data/x.yml", wantName: "yaml"},
		{name: "uppercase extension", path: "/data/X.YAML", wantName: "yaml"},
		{name: "longest extension wins", path: "/data/x.tar.gz", wantName: "tgz"},
		{name: "short extension", path: "/data/x.gz", wantName: "gz"},
		{name: "scheme path", path: "s3://bucket/x.json", wantName: "json"},
		{name: "unknown name", format: "toml", path: "/x.json", wantCode: errors.CodeNotFound},
		{name: "no match", path: "/data/x.bin", wantCode: errors.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := reg.Find(tt.format, tt.path)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, tt.wantCode))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, f.Name())
		})
	}
}

func TestRegistry_Default(t *testing.T) {
	reg := formatter.Builtin()

	_, err := reg.Find("", "/x.bin")
	require.Error(t, err)

	require.NoError(t, reg.SetDefault("text"))
	f, err := reg.Find("", "/x.bin")
	require.NoError(t, err)
	assert.Equal(t, "text", f.Name())

	// extension still takes precedence over the default
	f, err = reg.Find("", "/x.json")
	require.NoError(t, err)
	assert.Equal(t, "json", f.Name())

	err = reg.SetDefault("missing")
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))

	require.NoError(t, reg.SetDefault(""))
	_, err = reg.Find("", "/x.bin")
	assert.Error(t, err)
}

func TestRegistry_Register(t *testing.T) {
	reg := formatter.NewRegistry()
	require.NoError(t, reg.Register(formatter.JSON()))

	err := reg.Register(formatter.JSON())
	assert.True(t, errors.IsCode(err, errors.CodeAlreadyExists))

	err = reg.Register(stubFormatter{})
	assert.True(t, errors.IsCode(err, errors.CodeInvalidInput))

	assert.Equal(t, []string{"json"}, reg.Names())
	_, ok := reg.Lookup("json")
	assert.True(t, ok)
}

func TestNewRegistry_PanicsOnDuplicate(t *testing.T) {
	assert.Panics(t, func() {
		formatter.NewRegistry(formatter.JSON(), formatter.JSON())
	})
}

func TestBuiltin_Names(t *testing.T) {
	assert.Equal(t, []string{"json", "text", "yaml"}, formatter.Builtin().Names())
}
