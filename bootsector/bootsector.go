// Package bootsector implements C3: parsing and deriving geometry from the
// BIOS Parameter Block (BPB) in the first sector of a FAT image, and
// classifying the FAT variant per Microsoft's cluster-count rule.
//
// The on-disk layout mirrors the teacher's RawFATBootSectorWithBPB in
// drivers/fat/common.go, widened to also capture the FAT32-only fields
// (sectors-per-FAT-32 and root-cluster) that the teacher's struct handled
// as a second, variant-specific read.
package bootsector

import (
	"github.com/fatfs/fatengine/codec"
	"github.com/fatfs/fatengine/ferrors"
)

// FATType identifies which of the three on-disk FAT variants a mounted
// image uses.
type FATType int

const (
	FAT12 FATType = iota
	FAT16
	FAT32
)

func (t FATType) String() string {
	switch t {
	case FAT12:
		return "FAT12"
	case FAT16:
		return "FAT16"
	case FAT32:
		return "FAT32"
	default:
		return "unknown"
	}
}

// BootSector holds both the raw BPB fields and the geometry derived from
// them at mount time (spec.md §4.3). It is immutable for the lifetime of a
// mount; only an external formatter collaborator re-serializes it.
type BootSector struct {
	BytesPerSector    uint32
	SectorsPerCluster uint32
	ReservedSectors   uint32
	NumFATs           uint32
	RootEntryCount    uint32
	TotalSectors      uint32
	SectorsPerFAT     uint32
	RootCluster       uint32 // FAT32 only

	// Derived.
	Type             FATType
	RootDirSectors   uint32
	FirstFATOffset   int64
	RootDirOffset    int64 // FAT12/16 only
	FirstDataSector  uint32
	BytesPerCluster  uint32
	DataClusterCount uint32
}

const signatureOffset = 510

// Parse validates and decodes the first 512 bytes of a FAT image (spec.md
// §4.3). raw must hold at least 512 bytes (only the first 512 are examined),
// i.e. the sector read by the caller
// (ClusterIO/Device layer) before any geometry is known.
func Parse(raw []byte) (*BootSector, error) {
	if len(raw) < 512 {
		return nil, ferrors.ErrBadGeometry.WithMessage("boot sector shorter than 512 bytes")
	}
	if raw[signatureOffset] != 0x55 || raw[signatureOffset+1] != 0xAA {
		return nil, ferrors.ErrBadSignature
	}

	bs := &BootSector{
		BytesPerSector:    uint32(codec.U16LE(raw[11:13])),
		SectorsPerCluster: uint32(raw[13]),
		ReservedSectors:   uint32(codec.U16LE(raw[14:16])),
		NumFATs:           uint32(raw[16]),
		RootEntryCount:    uint32(codec.U16LE(raw[17:19])),
	}

	totalSectors16 := uint32(codec.U16LE(raw[19:21]))
	sectorsPerFAT16 := uint32(codec.U16LE(raw[22:24]))
	totalSectors32 := codec.U32LE(raw[32:36])
	sectorsPerFAT32 := codec.U32LE(raw[36:40])
	rootCluster := codec.U32LE(raw[44:48])

	if sectorsPerFAT16 != 0 {
		bs.SectorsPerFAT = sectorsPerFAT16
	} else {
		bs.SectorsPerFAT = sectorsPerFAT32
	}
	if totalSectors16 != 0 {
		bs.TotalSectors = totalSectors16
	} else {
		bs.TotalSectors = totalSectors32
	}
	bs.RootCluster = rootCluster

	if err := bs.deriveGeometry(); err != nil {
		return nil, err
	}
	return bs, nil
}

func isPowerOfTwo(v uint32) bool {
	return v != 0 && (v&(v-1)) == 0
}

func (bs *BootSector) deriveGeometry() error {
	if bs.BytesPerSector == 0 || !isPowerOfTwo(bs.BytesPerSector) {
		return ferrors.ErrBadGeometry.WithMessage("bytes-per-sector must be a nonzero power of two")
	}
	if bs.SectorsPerCluster == 0 || !isPowerOfTwo(bs.SectorsPerCluster) {
		return ferrors.ErrBadGeometry.WithMessage("sectors-per-cluster must be a power of two")
	}

	bs.RootDirSectors = ((bs.RootEntryCount * 32) + (bs.BytesPerSector - 1)) / bs.BytesPerSector

	fatRegionSectors := bs.NumFATs * bs.SectorsPerFAT
	dataSectors := bs.TotalSectors - (bs.ReservedSectors + fatRegionSectors + bs.RootDirSectors)
	bs.DataClusterCount = dataSectors / bs.SectorsPerCluster

	if bs.DataClusterCount == 0 {
		return ferrors.ErrBadGeometry.WithMessage("data-cluster-count is zero")
	}

	bs.BytesPerCluster = bs.BytesPerSector * bs.SectorsPerCluster
	bs.FirstFATOffset = int64(bs.ReservedSectors) * int64(bs.BytesPerSector)
	bs.RootDirOffset = int64(bs.ReservedSectors+fatRegionSectors) * int64(bs.BytesPerSector)
	bs.FirstDataSector = bs.ReservedSectors + fatRegionSectors + bs.RootDirSectors

	switch {
	case bs.DataClusterCount < 4085:
		bs.Type = FAT12
	case bs.DataClusterCount < 65525:
		bs.Type = FAT16
	default:
		bs.Type = FAT32
	}
	return nil
}

// ClusterOffset returns the absolute device byte offset of the first byte
// of data cluster c (c >= 2), per spec.md §4.6.
func (bs *BootSector) ClusterOffset(c uint32) int64 {
	return (int64(bs.FirstDataSector) + int64(c-2)*int64(bs.SectorsPerCluster)) * int64(bs.BytesPerSector)
}

// RootDirSizeBytes returns the fixed size, in bytes, of the FAT12/16 root
// directory region. It is 0 for FAT32, whose root lives in a cluster chain.
func (bs *BootSector) RootDirSizeBytes() uint32 {
	return bs.RootEntryCount * 32
}
