package errors

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(CodeInvalidInput, "either a path or a temporary flag is required")

	require.NotNil(t, err)
	require.Equal(t, CodeInvalidInput, err.Code())
	require.Equal(t, "either a path or a temporary flag is required", err.Message())
	require.Equal(t, ClassificationPermanent, err.Classification())
	require.Empty(t, err.Op())
	require.Empty(t, err.Path())
	require.Nil(t, err.Context())
	require.Nil(t, err.Unwrap())
	require.Equal(t, "[INVALID_INPUT] either a path or a temporary flag is required", err.Error())
}

func TestNewf(t *testing.T) {
	err := Newf(CodeInvalidMode, "unknown mode %q, use r, w or a", "x")

	require.Equal(t, CodeInvalidMode, err.Code())
	require.Equal(t, `unknown mode "x", use r, w or a`, err.Message())
}

func TestPathError(t *testing.T) {
	err := PathError(CodeAlreadyExists, "mkdir", "/tmp/a", fs.ErrExist)

	require.Equal(t, CodeAlreadyExists, err.Code())
	require.Equal(t, "mkdir", err.Op())
	require.Equal(t, "/tmp/a", err.Path())
	require.ErrorIs(t, err, fs.ErrExist)
	require.Equal(t, "[ALREADY_EXISTS] mkdir /tmp/a: file already exists", err.Error())
}

func TestPathErrorf(t *testing.T) {
	err := PathErrorf(CodeUnsupportedScheme, "abspath", "s3://bucket/key", "scheme %q is not handled by the local filesystem", "s3")

	require.Equal(t, CodeUnsupportedScheme, err.Code())
	require.Nil(t, err.Unwrap())
	require.Contains(t, err.Error(), "abspath s3://bucket/key: scheme \"s3\"")
}

func TestNew_DefaultClassification(t *testing.T) {
	tests := []struct {
		code          ErrorCode
		wantRetryable bool
	}{
		{CodeIO, true},
		{CodeNotFound, false},
		{CodeAlreadyExists, false},
		{CodeDirectoryNotEmpty, false},
		{CodePermissionDenied, false},
		{CodeUnsupportedScheme, false},
		{CodeInvalidMode, false},
		{CodeInvalidInput, false},
		{CodeInvalidConfig, false},
		{CodeFormatFailed, false},
		{CodeNotImplemented, false},
		{CodeUnknown, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := New(tt.code, "test")
			require.Equal(t, tt.wantRetryable, err.Classification().IsRetryable())
		})
	}
}
