package ferrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapErrorPreservesSentinelIdentity(t *testing.T) {
	wrapped := ErrShortRead.WrapError(errors.New("disk i/o timeout"))
	require.True(t, errors.Is(wrapped, ErrShortRead))
	require.Contains(t, wrapped.Error(), "disk i/o timeout")
}

func TestWithMessageThenWrapErrorStillPreservesSentinel(t *testing.T) {
	wrapped := ErrNotFound.WithMessage("looking up /foo").WrapError(errors.New("enoent"))
	require.True(t, errors.Is(wrapped, ErrNotFound))
}

func TestDistinctSentinelsAreNotConfused(t *testing.T) {
	wrapped := ErrIO.WrapError(errors.New("boom"))
	require.False(t, errors.Is(wrapped, ErrShortRead))
}
