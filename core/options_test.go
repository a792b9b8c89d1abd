package core_test

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/target/core"
)

func TestNewOptions_Defaults(t *testing.T) {
	o := core.NewOptions()
	assert.True(t, o.Recursive)
	assert.True(t, o.Silent)
	assert.Nil(t, o.Perm)
	assert.Nil(t, o.DirPerm)
}

func TestNewOptions_Apply(t *testing.T) {
	o := core.NewOptions(
		core.WithPerm(0o640),
		core.WithDirPerm(0o750),
		core.NonRecursive(),
		core.Strict(),
		nil,
	)

	require.NotNil(t, o.Perm)
	require.NotNil(t, o.DirPerm)
	assert.Equal(t, fs.FileMode(0o640), *o.Perm)
	assert.Equal(t, fs.FileMode(0o750), *o.DirPerm)
	assert.False(t, o.Recursive)
	assert.False(t, o.Silent)
}

func TestPermPtrOptions(t *testing.T) {
	o := core.NewOptions(core.WithPerm(0o600), core.WithPermPtr(nil), core.WithDirPermPtr(nil))
	require.NotNil(t, o.Perm)
	assert.Equal(t, fs.FileMode(0o600), *o.Perm)
	assert.Nil(t, o.DirPerm)

	o = core.NewOptions(core.WithDirPermPtr(core.Perm(0o700)))
	require.NotNil(t, o.DirPerm)
	assert.Equal(t, fs.FileMode(0o700), *o.DirPerm)
}

func TestPermOr(t *testing.T) {
	def := core.Perm(0o644)
	assert.Equal(t, def, core.PermOr(nil, def))

	p := core.Perm(0o600)
	assert.Equal(t, p, core.PermOr(p, def))
	assert.Nil(t, core.PermOr(nil, nil))
}

func TestPerm_Copies(t *testing.T) {
	m := fs.FileMode(0o600)
	p := core.Perm(m)
	*p = 0o777
	assert.Equal(t, fs.FileMode(0o600), m)
}
