package directory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fatfs/fatengine/codec"
)

func TestBuildGroupShortNameOnly(t *testing.T) {
	rec := &Record{
		ShortName:  codec.PackShortName("README", "TXT"),
		Attributes: AttrArchive,
	}
	slots, err := BuildGroup("README.TXT", rec)
	require.NoError(t, err)
	require.Len(t, slots, 1)
}

func TestBuildGroupAndDecodeLongName(t *testing.T) {
	rec := &Record{
		ShortName:    codec.PackShortName("MY~1", "DOC"),
		Attributes:   AttrArchive,
		CreatedTime:  time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC),
		LastModified: time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC),
	}
	longName := "My Project File.doc"
	slots, err := BuildGroup(longName, rec)
	require.NoError(t, err)
	require.Greater(t, len(slots), 1)

	payload := make([]byte, 0)
	for _, s := range slots {
		payload = append(payload, s...)
	}
	payload = append(payload, make([]byte, RecordSize)...) // trailing VACANT terminator

	decoded := Decode(payload)
	require.Len(t, decoded, 1)
	require.Equal(t, longName, decoded[0].Name)
}

func TestDecodeStopsAtVacantSlot(t *testing.T) {
	rec := &Record{ShortName: codec.PackShortName("A", "TXT"), Attributes: AttrArchive}
	slots, err := BuildGroup("A.TXT", rec)
	require.NoError(t, err)

	payload := append(append([]byte{}, slots[0]...), make([]byte, RecordSize)...)
	payload = append(payload, EncodeRecord(&Record{ShortName: codec.PackShortName("B", "TXT")})...)

	decoded := Decode(payload)
	require.Len(t, decoded, 1)
	require.Equal(t, "A.TXT", decoded[0].Name)
}

func TestDecodeFallsBackToShortNameOnChecksumMismatch(t *testing.T) {
	rec := &Record{ShortName: codec.PackShortName("A", "TXT"), Attributes: AttrArchive}
	slots, err := BuildGroup("a-long-name.txt", rec)
	require.NoError(t, err)

	// Corrupt the checksum byte of the first-stored of the two LFN slots.
	slots[0][13] ^= 0xFF

	payload := make([]byte, 0)
	for _, s := range slots {
		payload = append(payload, s...)
	}

	decoded := Decode(payload)
	require.Len(t, decoded, 1)
	require.Equal(t, "A.TXT", decoded[0].Name)
}

func TestSynthesizeShortNameCollisionSuffix(t *testing.T) {
	existing := map[string]bool{"LONGNA~1.TXT": true}
	sn, err := SynthesizeShortName("longname_one.txt", func(s string) bool { return existing[s] })
	require.NoError(t, err)
	require.Equal(t, "LONGNA~2.TXT", sn.Present())
}

func TestFindFreeRunPrefersDeletedOverVacant(t *testing.T) {
	payload := make([]byte, RecordSize*4)
	MarkDeleted(payload[0:RecordSize])
	// slots 1..3 are VACANT (zeroed) already.

	offset, ok := FindFreeRun(payload, 1)
	require.True(t, ok)
	require.Equal(t, 0, offset)
}

func TestValidateNameRejectsForbiddenChars(t *testing.T) {
	require.Error(t, ValidateName(""))
	require.Error(t, ValidateName("a/b"))
	require.Error(t, ValidateName("a\\b"))
	require.NoError(t, ValidateName("normal-name.txt"))
}

func TestRequiresLFNPredicate(t *testing.T) {
	require.False(t, requiresLFN("README.TXT"))
	require.True(t, requiresLFN("README.TXTX")) // extension exceeds 3 chars
	require.True(t, requiresLFN("a b.txt"))     // space is forbidden
	require.True(t, requiresLFN("toolongname.txt"))
}
