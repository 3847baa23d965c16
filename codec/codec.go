// Package codec implements the binary primitives (C2) used throughout the
// FAT engine: little-endian integer access, 8.3 short-name packing, FAT
// date/time bit-packing, and the UTF-16LE segment codec used by VFAT long
// filename slots.
package codec

import (
	"encoding/binary"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// U16LE reads a little-endian uint16 at the start of b.
func U16LE(b []byte) uint16 { return binary.LittleEndian.Uint16(b) }

// U32LE reads a little-endian uint32 at the start of b.
func U32LE(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }

// PutU16LE writes v as a little-endian uint16 at the start of b.
func PutU16LE(b []byte, v uint16) { binary.LittleEndian.PutUint16(b, v) }

// PutU32LE writes v as a little-endian uint32 at the start of b.
func PutU32LE(b []byte, v uint32) { binary.LittleEndian.PutUint32(b, v) }

// ShortName is the decoded form of an 11-byte 8.3 directory name: an
// independent 8-byte base and 3-byte extension, both upper-case ASCII,
// space-padded.
type ShortName [11]byte

// PackShortName builds the 11-byte on-disk form from a presentation-form
// base ("README") and extension ("TXT"), space-padding both fields per
// spec.md §4.2. base/ext must already be <= 8/<= 3 bytes and upper-case;
// callers needing the full synthesis algorithm (truncation, collision
// suffixes) should use directory.SynthesizeShortName instead.
func PackShortName(base, ext string) ShortName {
	var sn ShortName
	for i := range sn {
		sn[i] = ' '
	}
	copy(sn[0:8], base)
	copy(sn[8:11], ext)
	return sn
}

// Base returns the space-trimmed 8-byte base field.
func (sn ShortName) Base() string {
	return strings.TrimRight(string(sn[0:8]), " ")
}

// Ext returns the space-trimmed 3-byte extension field.
func (sn ShortName) Ext() string {
	return strings.TrimRight(string(sn[8:11]), " ")
}

// Present renders the synthetic dotted presentation form, e.g. "README.TXT".
// The dot itself is never stored on disk; it exists only in this string.
func (sn ShortName) Present() string {
	ext := sn.Ext()
	if ext == "" {
		return sn.Base()
	}
	return sn.Base() + "." + ext
}

// Checksum computes the LFN checksum of an 11-byte short name per spec.md
// §4.5: sum = ((sum >> 1) | ((sum & 1) << 7)) + byte, mod 256, over all 11
// bytes in order.
func (sn ShortName) Checksum() byte {
	var sum byte
	for _, b := range sn {
		sum = ((sum >> 1) | ((sum & 1) << 7)) + b
	}
	return sum
}

// FAT epoch bounds, per spec.md §4.2.
var (
	MinFATTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)
	MaxFATTime = time.Date(2107, time.December, 31, 23, 59, 58, 0, time.UTC)
)

// EncodeFATTime packs the time-of-day portion of t into the FAT on-disk u16
// time field: seconds/2 in bits 0-4, minutes in bits 5-10, hours in bits
// 11-15. Seconds are truncated to 2-second granularity.
func EncodeFATTime(t time.Time) uint16 {
	secs := uint16(t.Second() / 2)
	mins := uint16(t.Minute())
	hours := uint16(t.Hour())
	return secs | (mins << 5) | (hours << 11)
}

// EncodeFATDate packs the date portion of t into the FAT on-disk u16 date
// field: day in bits 0-4, month in bits 5-8, year-1980 in bits 9-15.
func EncodeFATDate(t time.Time) uint16 {
	day := uint16(t.Day())
	month := uint16(t.Month())
	year := uint16(t.Year() - 1980)
	return day | (month << 5) | (year << 9)
}

// DecodeFATDateTime unpacks a FAT date/time pair into a time.Time. ok is
// false if the decoded month is out of the legal 1-12 range, signaling a
// corrupt record (spec.md §9's Open Question on the month field).
func DecodeFATDateTime(date, timeField uint16) (t time.Time, ok bool) {
	day := int(date & 0x1F)
	month := int((date >> 5) & 0x0F)
	year := 1980 + int(date>>9)
	if month < 1 || month > 12 {
		return time.Time{}, false
	}

	secs := int(timeField&0x1F) * 2
	mins := int((timeField >> 5) & 0x3F)
	hours := int(timeField >> 11)

	return time.Date(year, time.Month(month), day, hours, mins, secs, 0, time.UTC), true
}

var utf16LEEncoding = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// StringToUTF16LE converts a Go (UTF-8) string into its UTF-16LE code-unit
// sequence using golang.org/x/text's transform pipeline.
func StringToUTF16LE(s string) ([]uint16, error) {
	encoded, _, err := transform.String(utf16LEEncoding.NewEncoder(), s)
	if err != nil {
		return nil, err
	}
	units := make([]uint16, len(encoded)/2)
	for i := range units {
		units[i] = U16LE([]byte(encoded[i*2 : i*2+2]))
	}
	return units, nil
}

// UTF16LEToString converts a UTF-16LE code-unit sequence back into a Go
// string.
func UTF16LEToString(units []uint16) (string, error) {
	raw := make([]byte, len(units)*2)
	for i, u := range units {
		PutU16LE(raw[i*2:i*2+2], u)
	}
	decoded, _, err := transform.Bytes(utf16LEEncoding.NewDecoder(), raw)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// WriteUTF16LESegment writes min(len(units), n) code units from units into
// dst (which must be 2*n bytes), then terminates/pads per spec.md §4.2: if
// the source is shorter than n, write one 0x0000 terminator followed by
// 0xFFFF padding for the remaining code units.
func WriteUTF16LESegment(dst []byte, units []uint16, n int) {
	i := 0
	for ; i < n && i < len(units); i++ {
		PutU16LE(dst[i*2:i*2+2], units[i])
	}
	if i < n {
		PutU16LE(dst[i*2:i*2+2], 0x0000)
		i++
	}
	for ; i < n; i++ {
		PutU16LE(dst[i*2:i*2+2], 0xFFFF)
	}
}

// ReadUTF16LESegment reads up to n code units from src (2*n bytes),
// stopping at the first 0x0000 terminator and skipping 0xFFFF padding, per
// spec.md §4.2. It returns the code units read before the terminator (if
// any was present within this segment) and whether a terminator was seen.
func ReadUTF16LESegment(src []byte, n int) (units []uint16, terminated bool) {
	for i := 0; i < n; i++ {
		u := U16LE(src[i*2 : i*2+2])
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
