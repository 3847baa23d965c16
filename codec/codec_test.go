package codec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestShortNamePackAndPresent(t *testing.T) {
	sn := PackShortName("README", "TXT")
	require.Equal(t, "README", sn.Base())
	require.Equal(t, "TXT", sn.Ext())
	require.Equal(t, "README.TXT", sn.Present())
}

func TestShortNameNoExtension(t *testing.T) {
	sn := PackShortName("VOLUME", "")
	require.Equal(t, "VOLUME", sn.Present())
}

func TestShortNameChecksumIsStableForIdenticalNames(t *testing.T) {
	a := PackShortName("MY~1", "DOC")
	b := PackShortName("MY~1", "DOC")
	require.Equal(t, a.Checksum(), b.Checksum())
}

func TestFATDateTimeRoundTrip(t *testing.T) {
	in := time.Date(2024, time.March, 15, 13, 45, 30, 0, time.UTC)
	dateField := EncodeFATDate(in)
	timeField := EncodeFATTime(in)

	out, ok := DecodeFATDateTime(dateField, timeField)
	require.True(t, ok)
	require.Equal(t, in.Year(), out.Year())
	require.Equal(t, in.Month(), out.Month())
	require.Equal(t, in.Day(), out.Day())
	require.Equal(t, in.Hour(), out.Hour())
	require.Equal(t, in.Minute(), out.Minute())
	// Seconds are truncated to 2-second granularity.
	require.Equal(t, 30, out.Second())
}

func TestFATDateTimeOddSecondsTruncate(t *testing.T) {
	in := time.Date(2000, time.January, 1, 0, 0, 31, 0, time.UTC)
	out, ok := DecodeFATDateTime(EncodeFATDate(in), EncodeFATTime(in))
	require.True(t, ok)
	require.Equal(t, 30, out.Second())
}

func TestDecodeFATDateTimeRejectsOutOfRangeMonth(t *testing.T) {
	// Month field = 13 (bits 5-8 = 13), per spec.md §9's Open Question.
	dateField := uint16(0x57AF)
	_, ok := DecodeFATDateTime(dateField, 0)
	require.False(t, ok)
}

func TestUTF16LERoundTrip(t *testing.T) {
	units, err := StringToUTF16LE("héllo")
	require.NoError(t, err)
	back, err := UTF16LEToString(units)
	require.NoError(t, err)
	require.Equal(t, "héllo", back)
}

func TestWriteReadUTF16LESegmentPaddingRule(t *testing.T) {
	units := []uint16{'a', 'b'}
	dst := make([]byte, 2*5)
	WriteUTF16LESegment(dst, units, 5)

	got, terminated := ReadUTF16LESegment(dst, 5)
	require.True(t, terminated)
	require.Equal(t, units, got)
}

func TestWriteUTF16LESegmentExactFit(t *testing.T) {
	units := []uint16{'a', 'b', 'c'}
	dst := make([]byte, 2*3)
	WriteUTF16LESegment(dst, units, 3)

	got, terminated := ReadUTF16LESegment(dst, 3)
	require.False(t, terminated)
	require.Equal(t, units, got)
}
