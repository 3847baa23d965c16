package directory

import (
	"strconv"

	"github.com/fatfs/fatengine/codec"
	"github.com/fatfs/fatengine/ferrors"
)

const maxShortNameCollisionAttempts = 999999

// SynthesizeShortName builds a collision-free 8.3 alias for longName within
// a directory, per spec.md §4.5: canonicalize, then if the long name needed
// lossy 8.3 conversion (LFN was required) or the canonical form collides with
// an existing short name, replace the base's tail with ~K (K starting at 1),
// shortening the base as needed to stay <= 8 chars. A name that is already a
// valid, losslessly-representable 8.3 name is returned as-is when it doesn't
// collide.
//
// existing is queried by presentation form (e.g. "MY~1.DOC"); it should
// return true if that exact short name is already in use in the target
// directory.
func SynthesizeShortName(longName string, existing func(string) bool) (codec.ShortName, error) {
	base, ext := canonicalShortNameParts(longName)
	if base == "" {
		base = "FILE"
	}

	candidate := codec.PackShortName(base, ext)
	if !requiresLFN(longName) && !existing(candidate.Present()) {
		return candidate, nil
	}

	for k := 1; k <= maxShortNameCollisionAttempts; k++ {
		suffix := "~" + strconv.Itoa(k)
		truncBase := base
		if maxBaseLen := 8 - len(suffix); len(truncBase) > maxBaseLen {
			truncBase = truncBase[:maxBaseLen]
		}
		candidate = codec.PackShortName(truncBase+suffix, ext)
		if !existing(candidate.Present()) {
			return candidate, nil
		}
	}
	return codec.ShortName{}, ferrors.ErrShortNameExhausted
}
