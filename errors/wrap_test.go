package errors

import (
	stderrors "errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	cause := stderrors.New("disk on fire")
	err := Wrap(cause, CodeIO, "copy failed")

	require.Equal(t, CodeIO, err.Code())
	require.Equal(t, "copy failed", err.Message())
	require.Equal(t, cause, err.Unwrap())
	require.True(t, err.Classification().IsRetryable())
}

func TestWrap_NilError(t *testing.T) {
	require.Nil(t, Wrap(nil, CodeIO, "ignored"))
	require.Nil(t, Wrapf(nil, CodeIO, "ignored %d", 1))
}

func TestWrap_CarriesOpAndPath(t *testing.T) {
	inner := PathError(CodeNotFound, "stat", "/data/x.json", fs.ErrNotExist)
	wrapped := Wrap(inner, CodeFormatFailed, "load failed")

	require.Equal(t, "stat", wrapped.Op())
	require.Equal(t, "/data/x.json", wrapped.Path())
	require.False(t, wrapped.Classification().IsRetryable())
	require.ErrorIs(t, wrapped, fs.ErrNotExist)
}

func TestWrap_PreservesRetryable(t *testing.T) {
	inner := New(CodeIO, "short write")
	wrapped := Wrap(inner, CodeFormatFailed, "dump failed")

	require.True(t, wrapped.Classification().IsRetryable())
}

func TestWrapf(t *testing.T) {
	err := Wrapf(stderrors.New("boom"), CodeIO, "move %s to %s", "a", "b")

	require.Equal(t, "move a to b", err.Message())
	require.Equal(t, "[IO_ERROR] move a to b: boom", err.Error())
}
