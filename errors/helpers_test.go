package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, CodeUnknown},
		{"standard error", stderrors.New("x"), CodeUnknown},
		{"classified", New(CodeNotFound, "x"), CodeNotFound},
		{"fmt wrapped", fmt.Errorf("outer: %w", New(CodeAlreadyExists, "x")), CodeAlreadyExists},
		{"outermost wins", Wrap(New(CodeNotFound, "x"), CodeFormatFailed, "y"), CodeFormatFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, GetCode(tt.err))
		})
	}
}

func TestIsCode(t *testing.T) {
	require.True(t, IsCode(New(CodeDirectoryNotEmpty, "x"), CodeDirectoryNotEmpty))
	require.False(t, IsCode(New(CodeDirectoryNotEmpty, "x"), CodeIO))
	require.False(t, IsCode(nil, CodeUnknown))
}

func TestIsRetryable(t *testing.T) {
	require.True(t, IsRetryable(New(CodeIO, "x")))
	require.False(t, IsRetryable(New(CodeNotFound, "x")))
	require.False(t, IsRetryable(stderrors.New("x")))
	require.False(t, IsRetryable(nil))
}

func TestIsAndAs(t *testing.T) {
	sentinel := stderrors.New("sentinel")
	err := Wrap(sentinel, CodeIO, "x")

	require.True(t, Is(err, sentinel))

	var e Error
	require.True(t, As(err, &e))
	require.Equal(t, CodeIO, e.Code())
}

func TestJoin(t *testing.T) {
	a := New(CodeIO, "a")
	b := New(CodeNotFound, "b")
	joined := Join(a, b)

	require.ErrorIs(t, joined, a)
	require.ErrorIs(t, joined, b)
}
