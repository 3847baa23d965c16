// Package fat implements C4: reading and writing FAT entries, mirroring
// writes across every copy of the table, and the cluster-chain allocator
// (allocate/extend/free/iterate).
//
// Entry addressing follows spec.md §4.4 and is grounded in the three
// variant-specific codecs the rest of the corpus shows for the same problem
// (drivers/fat/common.go in the teacher for the FAT32/16 shape, and
// other_examples' diskfs-go-diskfs filesystem/fat32/table.go for the FAT12
// nibble-packing arithmetic this package's fat12 accessors mirror).
package fat

import (
	"github.com/boljen/go-bitmap"

	"github.com/fatfs/fatengine/bootsector"
	"github.com/fatfs/fatengine/codec"
	"github.com/fatfs/fatengine/device"
	"github.com/fatfs/fatengine/ferrors"
)

// Entry is a decoded FAT entry value. 0 means FREE; values at or above the
// variant-specific threshold tested by isEOC mean end-of-chain.
type Entry uint32

const (
	entryFree = Entry(0)
	entryBad12 = Entry(0xFF7)
	entryBad16 = Entry(0xFFF7)
	entryBad32 = Entry(0x0FFFFFF7)
)

// Table is the in-memory handle to a mounted FAT region. It owns no cached
// copy of the FAT itself (every read/write goes straight to the Device, per
// spec.md §5's no-cache rule) except for a bitmap mirroring free/used
// cluster status, used purely to keep the mandated linear first-fit scan
// fast; discarding it is always safe.
type Table struct {
	dev  device.Device
	boot *bootsector.BootSector

	fatOffsets []int64 // absolute byte offset of each FAT copy's start
	fatSize    int64   // size in bytes of one FAT copy

	free      bitmap.Bitmap // mirrors free/used status of each cluster
	allocHint uint32        // next cluster to try; reset to 2 on mount
}

// Open binds a Table to an already-parsed boot sector. It scans the first
// FAT copy once to populate the free-cluster bitmap used by Allocate.
func Open(dev device.Device, boot *bootsector.BootSector) (*Table, error) {
	fatSize := int64(boot.SectorsPerFAT) * int64(boot.BytesPerSector)
	offsets := make([]int64, boot.NumFATs)
	for i := range offsets {
		offsets[i] = boot.FirstFATOffset + int64(i)*fatSize
	}

	t := &Table{
		dev:        dev,
		boot:       boot,
		fatOffsets: offsets,
		fatSize:    fatSize,
		free:       bitmap.New(int(boot.DataClusterCount) + 2),
		allocHint:  2,
	}

	for c := uint32(2); c < boot.DataClusterCount+2; c++ {
		v, err := t.Read(c)
		if err != nil {
			return nil, err
		}
		t.free.Set(int(c), v == entryFree)
	}
	return t, nil
}

// isEOC reports whether value is an end-of-chain sentinel for this table's
// FAT variant, per spec.md §3.
func (t *Table) isEOC(v Entry) bool {
	switch t.boot.Type {
	case bootsector.FAT12:
		return v >= 0xFF8
	case bootsector.FAT16:
		return v >= 0xFFF8
	default:
		return (v & 0x0FFFFFFF) >= 0x0FFFFFF8
	}
}

// eocValue returns the canonical end-of-chain marker value to write when
// terminating a chain.
func (t *Table) eocValue() Entry {
	switch t.boot.Type {
	case bootsector.FAT12:
		return 0xFFF
	case bootsector.FAT16:
		return 0xFFFF
	default:
		return 0x0FFFFFFF
	}
}

// IsEndOfChain reports whether v terminates a cluster chain.
func (t *Table) IsEndOfChain(v Entry) bool { return t.isEOC(v) }

// IsValidCluster reports whether c is a legal, addressable data cluster.
func (t *Table) IsValidCluster(c Entry) bool {
	return c >= 2 && uint32(c) < t.boot.DataClusterCount+2
}

// Read returns the FAT entry for cluster c, reading from the first FAT copy
// (spec.md §4.4).
func (t *Table) Read(c uint32) (Entry, error) {
	switch t.boot.Type {
	case bootsector.FAT12:
		return t.read12(c)
	case bootsector.FAT16:
		return t.read16(c)
	default:
		return t.read32(c)
	}
}

func (t *Table) read16(c uint32) (Entry, error) {
	buf := make([]byte, 2)
	if err := t.dev.ReadAt(buf, t.fatOffsets[0]+int64(c)*2); err != nil {
		return 0, err
	}
	return Entry(codec.U16LE(buf)), nil
}

func (t *Table) read32(c uint32) (Entry, error) {
	buf := make([]byte, 4)
	if err := t.dev.ReadAt(buf, t.fatOffsets[0]+int64(c)*4); err != nil {
		return 0, err
	}
	return Entry(codec.U32LE(buf) & 0x0FFFFFFF), nil
}

// read12 implements the 12-bit, 2-entries-per-3-bytes packing of spec.md
// §4.4: for cluster c, o = floor(3c/2); even clusters take the low 12 bits
// of the LE word at o, odd clusters take the high 12 bits.
func (t *Table) read12(c uint32) (Entry, error) {
	o := (3 * int64(c)) / 2
	buf := make([]byte, 2)
	if err := t.dev.ReadAt(buf, t.fatOffsets[0]+o); err != nil {
		return 0, err
	}
	word := codec.U16LE(buf)
	if c%2 == 0 {
		return Entry(word & 0x0FFF), nil
	}
	return Entry(word >> 4), nil
}

// Write sets the FAT entry for cluster c to v, writing the first FAT and
// then mirroring the change to every other FAT copy synchronously (spec.md
// §4.4). All mirrors are byte-identical after this call returns.
func (t *Table) Write(c uint32, v Entry) error {
	for i := range t.fatOffsets {
		if err := t.writeOne(t.fatOffsets[i], c, v); err != nil {
			return err
		}
	}
	t.free.Set(int(c), v == entryFree)
	return nil
}

func (t *Table) writeOne(fatOffset int64, c uint32, v Entry) error {
	switch t.boot.Type {
	case bootsector.FAT12:
		return t.write12(fatOffset, c, v)
	case bootsector.FAT16:
		buf := make([]byte, 2)
		codec.PutU16LE(buf, uint16(v))
		return t.dev.WriteAt(buf, fatOffset+int64(c)*2)
	default:
		return t.write32(fatOffset, c, v)
	}
}

// write32 preserves the reserved top 4 bits of the existing entry
// (read-modify-write), per spec.md §4.4.
func (t *Table) write32(fatOffset int64, c uint32, v Entry) error {
	off := fatOffset + int64(c)*4
	existing := make([]byte, 4)
	if err := t.dev.ReadAt(existing, off); err != nil {
		return err
	}
	old := codec.U32LE(existing)
	newVal := (old & 0xF0000000) | (uint32(v) & 0x0FFFFFFF)
	buf := make([]byte, 4)
	codec.PutU32LE(buf, newVal)
	return t.dev.WriteAt(buf, off)
}

func (t *Table) write12(fatOffset int64, c uint32, v Entry) error {
	o := (3 * int64(c)) / 2
	buf := make([]byte, 2)
	if err := t.dev.ReadAt(buf, fatOffset+o); err != nil {
		return err
	}
	word := codec.U16LE(buf)
	if c%2 == 0 {
		word = (word & 0xF000) | (uint16(v) & 0x0FFF)
	} else {
		word = (word & 0x000F) | (uint16(v) << 4)
	}
	codec.PutU16LE(buf, word)
	return t.dev.WriteAt(buf, fatOffset+o)
}

// Allocate finds a FREE cluster via linear first-fit scan starting just
// after the last cluster allocated (spec.md §4.4), marks it EOC, and
// returns its index. The scan hint is an in-memory-only optimization; it
// resets to 2 on mount and may be discarded at any time without affecting
// correctness.
func (t *Table) Allocate() (uint32, error) {
	total := t.boot.DataClusterCount + 2
	for i := uint32(0); i < t.boot.DataClusterCount; i++ {
		c := t.allocHint + i
		if c >= total {
			c = 2 + (c - total)
		}
		if !t.free.Get(int(c)) {
			continue
		}
		if err := t.Write(c, t.eocValue()); err != nil {
			return 0, err
		}
		t.allocHint = c + 1
		if t.allocHint >= total {
			t.allocHint = 2
		}
		return c, nil
	}
	return 0, ferrors.ErrNoSpace
}

// ExtendChain allocates a new cluster and links tail to it. It fails if
// tail is not currently the last cluster in its chain (i.e. is not EOC).
func (t *Table) ExtendChain(tail uint32) (uint32, error) {
	cur, err := t.Read(tail)
	if err != nil {
		return 0, err
	}
	if !t.isEOC(cur) {
		return 0, ferrors.ErrCorruptChain.WithMessage("tail cluster is already linked")
	}

	next, err := t.Allocate()
	if err != nil {
		return 0, err
	}
	if err := t.Write(tail, Entry(next)); err != nil {
		return 0, err
	}
	return next, nil
}

// FreeChain walks the chain starting at first, setting every entry to FREE
// until EOC (spec.md §4.4). Already-FREE entries are a no-op; a detected
// cycle is reported as ferrors.ErrCorruptChain rather than looping forever.
func (t *Table) FreeChain(first uint32) error {
	if first == 0 {
		return nil
	}

	cur := first
	limit := t.boot.DataClusterCount + 2
	for i := uint32(0); i < limit; i++ {
		v, err := t.Read(cur)
		if err != nil {
			return err
		}
		if err := t.Write(cur, entryFree); err != nil {
			return err
		}
		if t.isEOC(v) || v == entryFree {
			return nil
		}
		if !t.IsValidCluster(v) {
			return ferrors.ErrCorruptChain.WithMessage("chain references an out-of-range cluster")
		}
		cur = uint32(v)
	}
	return ferrors.ErrCorruptChain.WithMessage("chain exceeds data-cluster-count; likely cyclic")
}

// Chain returns the ordered, finite list of clusters in the chain starting
// at first. It detects cycles by bounding the walk at data-cluster-count,
// per spec.md §4.4.
func (t *Table) Chain(first uint32) ([]uint32, error) {
	if first == 0 {
		return nil, nil
	}

	var chain []uint32
	cur := first
	limit := t.boot.DataClusterCount + 2
	for i := uint32(0); i < limit; i++ {
		chain = append(chain, cur)
		v, err := t.Read(cur)
		if err != nil {
			return nil, err
		}
		if t.isEOC(v) {
			return chain, nil
		}
		if !t.IsValidCluster(v) {
			return nil, ferrors.ErrCorruptChain.WithMessage("chain references an out-of-range cluster")
		}
		cur = uint32(v)
	}
	return nil, ferrors.ErrCorruptChain.WithMessage("chain exceeds data-cluster-count; likely cyclic")
}

// BootSector exposes the boot sector this table was opened against, for
// callers that need geometry alongside allocation.
func (t *Table) BootSector() *bootsector.BootSector { return t.boot }
