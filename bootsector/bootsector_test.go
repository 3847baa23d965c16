package bootsector

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fatfs/fatengine/codec"
	"github.com/fatfs/fatengine/ferrors"
)

func buildRaw(totalSectors, reserved, numFATs, rootEntries, sectorsPerFAT uint16, bytesPerSector uint16, sectorsPerCluster byte) []byte {
	raw := make([]byte, 512)
	codec.PutU16LE(raw[11:13], bytesPerSector)
	raw[13] = sectorsPerCluster
	codec.PutU16LE(raw[14:16], reserved)
	raw[16] = byte(numFATs)
	codec.PutU16LE(raw[17:19], rootEntries)
	codec.PutU16LE(raw[19:21], totalSectors)
	codec.PutU16LE(raw[22:24], sectorsPerFAT)
	raw[510] = 0x55
	raw[511] = 0xAA
	return raw
}

func TestParseRejectsMissingSignature(t *testing.T) {
	raw := buildRaw(24, 1, 2, 16, 1, 512, 1)
	raw[511] = 0x00
	_, err := Parse(raw)
	require.ErrorIs(t, err, ferrors.ErrBadSignature)
}

func TestParseRejectsShortBuffer(t *testing.T) {
	_, err := Parse(make([]byte, 100))
	require.Error(t, err)
}

func TestParseFAT12Geometry(t *testing.T) {
	raw := buildRaw(24, 1, 2, 16, 1, 512, 1)
	bs, err := Parse(raw)
	require.NoError(t, err)
	require.Equal(t, FAT12, bs.Type)
	require.EqualValues(t, 20, bs.DataClusterCount)
	require.EqualValues(t, 512, bs.BytesPerCluster)
	require.EqualValues(t, 512, bs.FirstFATOffset)
	require.EqualValues(t, 1536, bs.RootDirOffset)
}

func TestParseRejectsNonPowerOfTwoSectorsPerCluster(t *testing.T) {
	raw := buildRaw(24, 1, 2, 16, 1, 512, 3)
	_, err := Parse(raw)
	require.ErrorIs(t, err, ferrors.ErrBadGeometry)
}

func TestClusterOffset(t *testing.T) {
	raw := buildRaw(24, 1, 2, 16, 1, 512, 1)
	bs, err := Parse(raw)
	require.NoError(t, err)
	// first data sector = 4, cluster 2 starts at sector 4.
	require.EqualValues(t, 4*512, bs.ClusterOffset(2))
	require.EqualValues(t, 5*512, bs.ClusterOffset(3))
}

func TestFATTypeBoundaries(t *testing.T) {
	// 4084 data clusters classifies as FAT12; 4085 classifies as FAT16.
	// reserved=1, numFATs=1, rootEntries=0, sectorsPerFAT sized generously.
	mk := func(dataClusters uint32) *BootSector {
		const bytesPerSector = 512
		const sectorsPerCluster = 1
		const reserved = 1
		const numFATs = 1
		const sectorsPerFAT = 40 // generous, supports up to 4085+ entries at 1.5 bytes each
		total := reserved + numFATs*sectorsPerFAT + dataClusters*sectorsPerCluster
		raw := buildRaw(uint16(total), reserved, numFATs, 0, sectorsPerFAT, bytesPerSector, sectorsPerCluster)
		bs, err := Parse(raw)
		require.NoError(t, err)
		return bs
	}

	require.Equal(t, FAT12, mk(4084).Type)
	require.Equal(t, FAT16, mk(4085).Type)
}
