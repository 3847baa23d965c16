package fatengine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fatfs/fatengine/codec"
	"github.com/fatfs/fatengine/device"
	"github.com/fatfs/fatengine/ferrors"
)

// newTestImage builds a minimal, freshly-formatted FAT12 image in memory:
// 512 bytes/sector, 1 sector/cluster, 2 FATs of 1 sector each, a 16-entry
// (1-sector) fixed root directory, and 20 data clusters — well under the
// 4085-cluster FAT12/FAT16 boundary from spec.md §3.
func newTestImage(t *testing.T) *device.MemoryDevice {
	t.Helper()
	const totalSectors = 24
	buf := make([]byte, totalSectors*512)

	codec.PutU16LE(buf[11:13], 512) // bytes per sector
	buf[13] = 1                     // sectors per cluster
	codec.PutU16LE(buf[14:16], 1)   // reserved sectors
	buf[16] = 2                     // number of FATs
	codec.PutU16LE(buf[17:19], 16)  // root entry count
	codec.PutU16LE(buf[19:21], totalSectors)
	codec.PutU16LE(buf[22:24], 1) // sectors per FAT
	buf[510] = 0x55
	buf[511] = 0xAA

	return device.NewMemoryDevice(buf)
}

func mountTestImage(t *testing.T) *FileSystem {
	t.Helper()
	fs, err := Mount(newTestImage(t), MountOptions{Flags: MountFlagsReadWrite})
	require.NoError(t, err)
	return fs
}

func TestMountClassifiesFAT12(t *testing.T) {
	fs := mountTestImage(t)
	stat := fs.Stat()
	require.Equal(t, "FAT12", stat.Type)
	require.Equal(t, "fixed", stat.RootDirectoryKind)
	require.Equal(t, uint32(20), stat.TotalClusters)
	require.Equal(t, uint32(20), stat.FreeClusters)
}

func TestCreateFileAndReadBack(t *testing.T) {
	fs := mountTestImage(t)
	root := fs.Root()

	f, err := root.CreateFile("hello.txt")
	require.NoError(t, err)
	require.NoError(t, f.Write([]byte("Hello, FAT!")))

	entry, err := root.GetEntry("hello.txt")
	require.NoError(t, err)
	require.EqualValues(t, 11, entry.Size())

	again, err := fs.GetFile("/hello.txt")
	require.NoError(t, err)
	data, err := again.ReadAllBytes()
	require.NoError(t, err)
	require.Equal(t, "Hello, FAT!", string(data))
}

func TestLFNRoundTrip(t *testing.T) {
	fs := mountTestImage(t)
	root := fs.Root()

	longName := "My Project File.doc"
	_, err := root.CreateFile(longName)
	require.NoError(t, err)

	entries, err := root.List()
	require.NoError(t, err)

	var found *Entry
	for _, e := range entries {
		if e.Name() == longName {
			found = e
		}
	}
	require.NotNil(t, found, "long name should round-trip through the directory stream")

	byShort, err := root.GetEntry("MYPROJ~1.DOC")
	require.NoError(t, err)
	require.Equal(t, longName, byShort.Name())
}

func TestAppendExtendsAcrossClusters(t *testing.T) {
	fs := mountTestImage(t)
	root := fs.Root()

	f, err := root.CreateFile("big.bin")
	require.NoError(t, err)

	first := make([]byte, 300)
	for i := range first {
		first[i] = byte(i)
	}
	require.NoError(t, f.Write(first))

	second := make([]byte, 900)
	for i := range second {
		second[i] = byte(200 + i)
	}
	require.NoError(t, f.Append(second))

	data, err := f.ReadAllBytes()
	require.NoError(t, err)
	require.Len(t, data, 1200)
	require.Equal(t, append(append([]byte{}, first...), second...), data)
}

func TestDeleteNonEmptyDirectoryRejected(t *testing.T) {
	fs := mountTestImage(t)
	root := fs.Root()

	dir, err := root.CreateDirectory("d")
	require.NoError(t, err)
	_, err = dir.CreateFile("f.txt")
	require.NoError(t, err)

	entry, err := root.GetEntry("d")
	require.NoError(t, err)
	require.ErrorIs(t, entry.Delete(), ferrors.ErrDirectoryNotEmpty)

	childDir, ok := entry.AsDirectory()
	require.True(t, ok)
	child, err := childDir.GetEntry("f.txt")
	require.NoError(t, err)
	require.NoError(t, child.Delete())
	require.NoError(t, entry.Delete())

	_, err = root.GetEntry("d")
	require.Error(t, err)
}

func TestCollisionSynthesis(t *testing.T) {
	fs := mountTestImage(t)
	root := fs.Root()

	_, err := root.CreateFile("longname_one.txt")
	require.NoError(t, err)
	_, err = root.CreateFile("longname_two.txt")
	require.NoError(t, err)

	a, err := root.GetEntry("longname_one.txt")
	require.NoError(t, err)
	b, err := root.GetEntry("longname_two.txt")
	require.NoError(t, err)
	require.NotEqual(t, a.record.ShortName.Present(), b.record.ShortName.Present())
}
