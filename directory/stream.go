package directory

import "github.com/fatfs/fatengine/codec"

// DecodedEntry is one logical entry (file or directory) recovered from a
// directory byte stream, with both its resolved name and enough location
// information to rewrite or delete it later (spec.md §3's Entry type).
type DecodedEntry struct {
	Name string // long name if an LFN group was present and valid, else the short name's presentation form
	Record *Record

	// GroupOffset is the byte offset, within the decoded payload, of the
	// first slot belonging to this entry (an LFN slot if present, else the
	// 8.3 record itself).
	GroupOffset int
	// RecordOffset is the byte offset of the 8.3 record itself.
	RecordOffset int
}

// Decode scans a full directory payload (one or more clusters' worth of
// 32-byte slots, or the FAT12/16 fixed root region) and returns every
// active entry in stream order, per spec.md §4.5. Deleted slots and LFN-only
// slots are not decoded into entries by this function; the volume label is,
// and List-level filtering of it happens one layer up since callers that
// want fsck-style visibility need the raw stream too.
func Decode(payload []byte) []DecodedEntry {
	var entries []DecodedEntry
	var pending pendingLFNGroup
	pendingStart := -1

	for off := 0; off+RecordSize <= len(payload); off += RecordSize {
		slot := payload[off : off+RecordSize]

		switch classifySlot(slot) {
		case SlotVacant:
			return entries // end of directory; discard any pending group
		case SlotDeleted:
			pending.reset()
			pendingStart = -1
			continue
		}

		if isLFNSlot(slot) {
			if pending.empty() {
				pendingStart = off
			}
			pending.add(slot)
			continue
		}

		record := DecodeRecord(slot)
		name, ok := pending.resolve(record.ShortName.Checksum())
		groupOffset := off
		if ok {
			groupOffset = pendingStart
		} else {
			name = record.ShortName.Present()
		}

		entries = append(entries, DecodedEntry{
			Name:         name,
			Record:       record,
			GroupOffset:  groupOffset,
			RecordOffset: off,
		})
		pending.reset()
		pendingStart = -1
	}
	return entries
}

// BuildGroup assembles the on-disk slots (LFN slots, if needed, followed by
// the 8.3 record) for a new entry, in storage order: the LAST LFN slot
// first (highest sequence number), descending to sequence 1, then the 8.3
// record (spec.md §4.5's Encoding rule). longName may equal the short
// name's presentation form, in which case no LFN slots are emitted.
func BuildGroup(longName string, record *Record) ([][]byte, error) {
	recordSlot := EncodeRecord(record)
	if !requiresLFN(longName) {
		return [][]byte{recordSlot}, nil
	}

	units, err := codec.StringToUTF16LE(longName)
	if err != nil {
		return nil, err
	}

	checksum := record.ShortName.Checksum()
	numSlots := (len(units) + 12) / 13
	if numSlots == 0 {
		numSlots = 1
	}

	slots := make([][]byte, 0, numSlots+1)
	for i := numSlots; i >= 1; i-- {
		start := (i - 1) * 13
		end := start + 13
		if end > len(units) {
			end = len(units)
		}
		slots = append(slots, encodeLFNSlot(units[start:end], i, i == numSlots, checksum))
	}
	slots = append(slots, recordSlot)
	return slots, nil
}
