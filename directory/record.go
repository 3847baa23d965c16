// Package directory implements C5: the 32-byte directory-record codec, VFAT
// long-filename assembly/disassembly, short-name synthesis, and the LFN
// checksum. The record layout and the short/long name reconciliation rules
// follow spec.md §3 and §4.5; the LFN slot field offsets are the standard
// VFAT layout also used by soypat-fat's lfnOffsets table and the
// msdosfs-family sources in the example pack.
package directory

import (
	"time"

	"github.com/fatfs/fatengine/codec"
)

// RecordSize is the size in bytes of a single 32-byte directory slot,
// whether it holds an 8.3 record or an LFN entry.
const RecordSize = 32

// Attribute bits, per spec.md §3.
const (
	AttrReadOnly  = 0x01
	AttrHidden    = 0x02
	AttrSystem    = 0x04
	AttrVolumeID  = 0x08
	AttrDirectory = 0x10
	AttrArchive   = 0x20

	// AttrLFN is the attribute pattern that marks a slot as an LFN entry
	// rather than an 8.3 record.
	AttrLFN = AttrReadOnly | AttrHidden | AttrSystem | AttrVolumeID
)

const (
	freeMarker    byte = 0x00
	deletedMarker byte = 0xE5
)

// Record is the decoded form of one 8.3 directory entry (spec.md §3).
type Record struct {
	ShortName    codec.ShortName
	Attributes   uint8
	CreatedTime  time.Time
	LastAccessed time.Time
	LastModified time.Time
	FirstCluster uint32
	Size         uint32
}

// IsDirectory reports whether the DIRECTORY attribute bit is set.
func (r *Record) IsDirectory() bool { return r.Attributes&AttrDirectory != 0 }

// IsVolumeLabel reports whether the VOLUME_ID attribute bit is set (and the
// record isn't an LFN slot, whose attribute happens to look similar).
func (r *Record) IsVolumeLabel() bool {
	return r.Attributes&AttrVolumeID != 0 && r.Attributes != AttrLFN
}

// EncodeRecord serializes r into a fresh 32-byte slot.
func EncodeRecord(r *Record) []byte {
	buf := make([]byte, RecordSize)
	copy(buf[0:11], r.ShortName[:])
	buf[11] = r.Attributes

	cdate := codec.EncodeFATDate(r.CreatedTime)
	ctime := codec.EncodeFATTime(r.CreatedTime)
	adate := codec.EncodeFATDate(r.LastAccessed)
	mdate := codec.EncodeFATDate(r.LastModified)
	mtime := codec.EncodeFATTime(r.LastModified)

	codec.PutU16LE(buf[14:16], ctime)
	codec.PutU16LE(buf[16:18], cdate)
	codec.PutU16LE(buf[18:20], adate)
	codec.PutU16LE(buf[20:22], uint16(r.FirstCluster>>16))
	codec.PutU16LE(buf[22:24], mtime)
	codec.PutU16LE(buf[24:26], mdate)
	codec.PutU16LE(buf[26:28], uint16(r.FirstCluster))
	codec.PutU32LE(buf[28:32], r.Size)
	return buf
}

// DecodeRecord parses a 32-byte 8.3 slot. The caller is responsible for
// having already excluded free (0x00) and deleted (0xE5) slots, and LFN
// slots (attribute 0x0F).
func DecodeRecord(slot []byte) *Record {
	var sn codec.ShortName
	copy(sn[:], slot[0:11])

	cdate := codec.U16LE(slot[16:18])
	ctime := codec.U16LE(slot[14:16])
	adate := codec.U16LE(slot[18:20])
	mdate := codec.U16LE(slot[24:26])
	mtime := codec.U16LE(slot[22:24])

	created, _ := codec.DecodeFATDateTime(cdate, ctime)
	accessed, _ := codec.DecodeFATDateTime(adate, 0)
	modified, _ := codec.DecodeFATDateTime(mdate, mtime)

	clusterHigh := uint32(codec.U16LE(slot[20:22]))
	clusterLow := uint32(codec.U16LE(slot[26:28]))

	return &Record{
		ShortName:    sn,
		Attributes:   slot[11],
		CreatedTime:  created,
		LastAccessed: accessed,
		LastModified: modified,
		FirstCluster: (clusterHigh << 16) | clusterLow,
		Size:         codec.U32LE(slot[28:32]),
	}
}

// SlotState classifies a single 32-byte slot at the byte level, before any
// attribute-based interpretation.
type SlotState int

const (
	SlotVacant SlotState = iota // byte 0 == 0x00: also ends the directory
	SlotDeleted
	SlotActive
)

func classifySlot(slot []byte) SlotState {
	switch slot[0] {
	case freeMarker:
		return SlotVacant
	case deletedMarker:
		return SlotDeleted
	default:
		return SlotActive
	}
}

// MarkDeleted sets byte 0 of slot, in place, to the deleted marker, used when unlinking an 8.3 record or an LFN slot (spec.md §4.7).
func MarkDeleted(slot []byte) {
	slot[0] = deletedMarker
}
