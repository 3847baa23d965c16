// Package cluster implements C6: cluster-addressed reads and writes, and the
// FAT12/16 fixed root directory's special-cased addressing.
package cluster

import (
	"github.com/fatfs/fatengine/bootsector"
	"github.com/fatfs/fatengine/device"
	"github.com/fatfs/fatengine/fat"
	"github.com/fatfs/fatengine/ferrors"
)

var errClusterRangeExceeded = ferrors.ErrCorruptChain.WithMessage(
	"write range extends past the end of the cluster chain",
)

// IO translates (cluster, offset) addressing into Device byte offsets, and
// provides ZeroCluster for zero-filling newly allocated clusters (spec.md
// §4.6). A cluster that starts a new chain is zero-filled before any
// directory record references it; a cluster added to an existing chain is
// linked into the FAT first and zero-filled right after.
type IO struct {
	dev   device.Device
	boot  *bootsector.BootSector
	table *fat.Table
}

func New(dev device.Device, boot *bootsector.BootSector, table *fat.Table) *IO {
	return &IO{dev: dev, boot: boot, table: table}
}

// ReadCluster reads the entire contents of cluster c.
func (io *IO) ReadCluster(c uint32) ([]byte, error) {
	buf := make([]byte, io.boot.BytesPerCluster)
	if err := io.dev.ReadAt(buf, io.boot.ClusterOffset(c)); err != nil {
		return nil, err
	}
	return buf, nil
}

// WriteCluster overwrites the entire contents of cluster c. data must be
// exactly BytesPerCluster long.
func (io *IO) WriteCluster(c uint32, data []byte) error {
	return io.dev.WriteAt(data, io.boot.ClusterOffset(c))
}

// ZeroCluster fills cluster c with zero bytes, used immediately after
// allocation so a partially written file never exposes stale tail data
// (spec.md §4.6).
func (io *IO) ZeroCluster(c uint32) error {
	return io.WriteCluster(c, make([]byte, io.boot.BytesPerCluster))
}

// ReadAt reads len(p) bytes from the payload addressed by chain, starting
// at byte offset off within that payload. It performs whole-cluster reads
// and slices out the requested range.
func (io *IO) ReadAt(chain []uint32, p []byte, off int64) error {
	clusterSize := int64(io.boot.BytesPerCluster)
	remaining := p
	pos := off

	for len(remaining) > 0 {
		clusterIdx := pos / clusterSize
		if clusterIdx >= int64(len(chain)) {
			return nil // caller asked for a range past EOF; leave zero-filled
		}
		inClusterOff := pos % clusterSize

		data, err := io.ReadCluster(chain[clusterIdx])
		if err != nil {
			return err
		}

		n := copy(remaining, data[inClusterOff:])
		remaining = remaining[n:]
		pos += int64(n)
	}
	return nil
}

// WriteAt performs a read-modify-write of each cluster touched by
// [off, off+len(p)) within the payload addressed by chain (spec.md §4.6:
// "partial-cluster writes are performed as a read-modify-write").
func (io *IO) WriteAt(chain []uint32, p []byte, off int64) error {
	clusterSize := int64(io.boot.BytesPerCluster)
	remaining := p
	pos := off

	for len(remaining) > 0 {
		clusterIdx := pos / clusterSize
		if clusterIdx >= int64(len(chain)) {
			return errClusterRangeExceeded
		}
		inClusterOff := pos % clusterSize

		data, err := io.ReadCluster(chain[clusterIdx])
		if err != nil {
			return err
		}

		n := copy(data[inClusterOff:], remaining)
		if err := io.WriteCluster(chain[clusterIdx], data); err != nil {
			return err
		}

		remaining = remaining[n:]
		pos += int64(n)
	}
	return nil
}

// RootDirRegion returns the absolute device offset and byte size of the
// FAT12/16 fixed root directory region, per spec.md §4.6. It is only valid
// when boot.Type != FAT32.
func (io *IO) RootDirRegion() (offset int64, size uint32) {
	return io.boot.RootDirOffset, io.boot.RootDirSizeBytes()
}
