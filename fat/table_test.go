package fat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fatfs/fatengine/bootsector"
	"github.com/fatfs/fatengine/codec"
	"github.com/fatfs/fatengine/device"
)

func newFAT12Image(t *testing.T) (device.Device, *bootsector.BootSector) {
	t.Helper()
	const totalSectors = 24
	buf := make([]byte, totalSectors*512)

	codec.PutU16LE(buf[11:13], 512)
	buf[13] = 1
	codec.PutU16LE(buf[14:16], 1)
	buf[16] = 2
	codec.PutU16LE(buf[17:19], 16)
	codec.PutU16LE(buf[19:21], totalSectors)
	codec.PutU16LE(buf[22:24], 1)
	buf[510] = 0x55
	buf[511] = 0xAA

	dev := device.NewMemoryDevice(buf)
	raw := make([]byte, 512)
	require.NoError(t, dev.ReadAt(raw, 0))
	bs, err := bootsector.Parse(raw)
	require.NoError(t, err)
	return dev, bs
}

func TestAllocateFreeChainRoundTrip(t *testing.T) {
	dev, bs := newFAT12Image(t)
	table, err := Open(dev, bs)
	require.NoError(t, err)

	c1, err := table.Allocate()
	require.NoError(t, err)
	require.EqualValues(t, 2, c1)

	c2, err := table.ExtendChain(c1)
	require.NoError(t, err)
	require.EqualValues(t, 3, c2)

	chain, err := table.Chain(c1)
	require.NoError(t, err)
	require.Equal(t, []uint32{c1, c2}, chain)

	require.NoError(t, table.FreeChain(c1))
	v1, err := table.Read(c1)
	require.NoError(t, err)
	require.EqualValues(t, 0, v1)
	v2, err := table.Read(c2)
	require.NoError(t, err)
	require.EqualValues(t, 0, v2)
}

func TestAllocateExhaustion(t *testing.T) {
	dev, bs := newFAT12Image(t)
	table, err := Open(dev, bs)
	require.NoError(t, err)

	for i := uint32(0); i < bs.DataClusterCount; i++ {
		_, err := table.Allocate()
		require.NoError(t, err)
	}
	_, err = table.Allocate()
	require.Error(t, err)
}

func TestWriteMirrorsAllFATCopies(t *testing.T) {
	dev, bs := newFAT12Image(t)
	table, err := Open(dev, bs)
	require.NoError(t, err)

	require.NoError(t, table.Write(5, Entry(9)))

	for _, off := range table.fatOffsets {
		buf := make([]byte, 2)
		o := (3 * int64(5)) / 2
		require.NoError(t, dev.ReadAt(buf, off+o))
		require.EqualValues(t, 9, codec.U16LE(buf)>>4) // odd cluster: high 12 bits
	}
	v, err := table.Read(5)
	require.NoError(t, err)
	require.EqualValues(t, 9, v)
}

func TestExtendChainFailsOnNonTailCluster(t *testing.T) {
	dev, bs := newFAT12Image(t)
	table, err := Open(dev, bs)
	require.NoError(t, err)

	c1, err := table.Allocate()
	require.NoError(t, err)
	_, err = table.ExtendChain(c1)
	require.NoError(t, err)

	// c1 is no longer EOC; extending it again must fail.
	_, err = table.ExtendChain(c1)
	require.Error(t, err)
}

func TestChainDetectsOutOfRangeReference(t *testing.T) {
	dev, bs := newFAT12Image(t)
	table, err := Open(dev, bs)
	require.NoError(t, err)

	require.NoError(t, table.Write(2, Entry(bs.DataClusterCount+100)))
	_, err = table.Chain(2)
	require.Error(t, err)
}
