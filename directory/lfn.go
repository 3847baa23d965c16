package directory

import (
	"strings"

	"github.com/fatfs/fatengine/codec"
)

const (
	lfnLastFlag = 0x40
	lfnSeqMask  = 0x3F
	maxLFNSlots = 20  // 20 slots * 13 code units
	maxNameLen  = 255 // UTF-16 code units; fits in maxLFNSlots
)

// lfnSegmentOffsets gives the byte offset of each of the 13 UTF-16LE code
// units within one 32-byte LFN slot: 5 in name1, 6 in name2, 2 in name3.
// This is the standard VFAT layout, also used verbatim by soypat-fat's
// lfnOffsets table.
var lfnSegmentOffsets = [13]int{1, 3, 5, 7, 9, 14, 16, 18, 20, 22, 24, 28, 30}

// encodeLFNSlot writes one LFN slot for `units` (up to 13 code units,
// padded per spec.md §4.2), sequence number seq (1-based), the `last` flag,
// and the checksum of the paired short name.
func encodeLFNSlot(units []uint16, seq int, last bool, checksum byte) []byte {
	slot := make([]byte, RecordSize)

	ord := byte(seq) & lfnSeqMask
	if last {
		ord |= lfnLastFlag
	}
	slot[0] = ord
	slot[11] = AttrLFN
	slot[12] = 0
	slot[13] = checksum
	slot[26] = 0
	slot[27] = 0

	for i, off := range lfnSegmentOffsets {
		var u uint16
		if i < len(units) {
			u = units[i]
		} else if i == len(units) {
			u = 0x0000
		} else {
			u = 0xFFFF
		}
		codec.PutU16LE(slot[off:off+2], u)
	}
	return slot
}

// decodeLFNUnits extracts the up-to-13 UTF-16 code units from one LFN slot,
// stopping at the first 0x0000 terminator.
func decodeLFNUnits(slot []byte) (units []uint16, terminated bool) {
	for _, off := range lfnSegmentOffsets {
		u := codec.U16LE(slot[off : off+2])
		if u == 0x0000 {
			return units, true
		}
		if u == 0xFFFF {
			continue
		}
		units = append(units, u)
	}
	return units, false
}

// lfnSequence returns the 1-based sequence number encoded in an LFN slot's
// ordinal byte.
func lfnSequence(slot []byte) int { return int(slot[0] & lfnSeqMask) }

// lfnIsLast reports whether the LAST flag is set on an LFN slot.
func lfnIsLast(slot []byte) bool { return slot[0]&lfnLastFlag != 0 }

// isLFNSlot reports whether a 32-byte directory slot is an LFN entry rather
// than an 8.3 record: attribute 0x0F, not deleted.
func isLFNSlot(slot []byte) bool {
	return slot[11] == AttrLFN && slot[0] != deletedMarker
}

// pendingLFNGroup accumulates LFN slots encountered while scanning a
// directory stream, per spec.md §4.5. Slots are appended in storage order
// (LAST slot first); assembling the long name requires sorting by
// sequence number first.
type pendingLFNGroup struct {
	slots [][]byte
}

func (g *pendingLFNGroup) add(slot []byte) {
	cp := make([]byte, RecordSize)
	copy(cp, slot)
	g.slots = append(g.slots, cp)
}

func (g *pendingLFNGroup) reset() { g.slots = nil }

func (g *pendingLFNGroup) empty() bool { return len(g.slots) == 0 }

// resolve assembles the long name from the pending group if every slot's
// checksum matches the paired short name's checksum; otherwise it reports
// no match, per spec.md §4.5 rule 3.
func (g *pendingLFNGroup) resolve(shortNameChecksum byte) (name string, ok bool) {
	if g.empty() {
		return "", false
	}

	ordered := make([][]byte, len(g.slots))
	copy(ordered, g.slots)
	// Sort ascending by sequence number (storage order is descending).
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && lfnSequence(ordered[j-1]) > lfnSequence(ordered[j]); j-- {
			ordered[j-1], ordered[j] = ordered[j], ordered[j-1]
		}
	}

	for _, s := range ordered {
		if s[13] != shortNameChecksum {
			return "", false
		}
	}

	var units []uint16
	for _, s := range ordered {
		part, terminated := decodeLFNUnits(s)
		units = append(units, part...)
		if terminated {
			break
		}
	}

	name, err := codec.UTF16LEToString(units)
	if err != nil {
		return "", false
	}
	return name, true
}

// requiresLFN implements spec.md §4.5's LFN requirement predicate.
func requiresLFN(name string) bool {
	if len(name) == 0 || len(name) > 12 {
		return true
	}
	for _, r := range name {
		if r > 0x7E || r < 0x20 {
			return true
		}
		if strings.ContainsRune(` "*+,/:;<=>?[]|`, r) {
			return true
		}
	}
	if strings.Count(name, ".") > 1 {
		return true
	}

	base, ext, hasDot := splitOnLastDot(name)
	if hasDot && (base == "" || ext == "") {
		return true
	}
	if len(base) > 8 || len(ext) > 3 {
		return true
	}
	return false
}

func splitOnLastDot(name string) (base, ext string, hasDot bool) {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return name, "", false
	}
	return name[:idx], name[idx+1:], true
}

const shortNameAllowed = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!#$%&'()-@^_`{}~"

func isAllowedShortNameByte(b byte) bool {
	return strings.IndexByte(shortNameAllowed, b) >= 0
}

// canonicalShortNameParts uppercases name and strips characters outside the
// 8.3 allowed set, then splits on the last dot and truncates to 8/3
// characters, per spec.md §4.5's short-name synthesis rule.
func canonicalShortNameParts(name string) (base, ext string) {
	upper := strings.ToUpper(name)
	rawBase, rawExt, _ := splitOnLastDot(upper)

	clean := func(s string) string {
		var b strings.Builder
		for i := 0; i < len(s); i++ {
			if isAllowedShortNameByte(s[i]) {
				b.WriteByte(s[i])
			}
		}
		return b.String()
	}

	base = clean(rawBase)
	ext = clean(rawExt)
	if len(base) > 8 {
		base = base[:8]
	}
	if len(ext) > 3 {
		ext = ext[:3]
	}
	return base, ext
}
