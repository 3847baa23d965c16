package device

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fatfs/fatengine/ferrors"
)

func TestMemoryDeviceReadWriteRoundTrip(t *testing.T) {
	d := NewMemoryDevice(make([]byte, 16))
	require.NoError(t, d.WriteAt([]byte{1, 2, 3}, 4))

	buf := make([]byte, 3)
	require.NoError(t, d.ReadAt(buf, 4))
	require.Equal(t, []byte{1, 2, 3}, buf)
}

func TestMemoryDeviceWritePastEndFails(t *testing.T) {
	d := NewMemoryDevice(make([]byte, 8))
	err := d.WriteAt([]byte{1, 2, 3}, 6)
	require.Error(t, err)
}

func TestMemoryDeviceReadPastEndIsShortRead(t *testing.T) {
	d := NewMemoryDevice(make([]byte, 4))
	buf := make([]byte, 8)
	err := d.ReadAt(buf, 0)
	require.Error(t, err)
	require.ErrorIs(t, err, ferrors.ErrShortRead)
}

func TestMemoryDeviceSize(t *testing.T) {
	d := NewMemoryDevice(make([]byte, 42))
	size, err := d.Size()
	require.NoError(t, err)
	require.EqualValues(t, 42, size)
}
