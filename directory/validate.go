package directory

import (
	"unicode/utf16"

	"github.com/fatfs/fatengine/ferrors"
)

// ValidateName checks a proposed entry name against spec.md §7's
// NameTooLong and InvalidName error kinds, before any short/long name
// synthesis is attempted.
func ValidateName(name string) error {
	if name == "" {
		return ferrors.ErrInvalidName.WithMessage("name must not be empty")
	}
	for _, r := range name {
		if r <= 0x1F || r == 0x7F || r == '/' || r == '\\' {
			return ferrors.ErrInvalidName.WithMessage("name contains a forbidden control character or path separator")
		}
	}
	if len(utf16.Encode([]rune(name))) > maxNameLen {
		return ferrors.ErrNameTooLong
	}
	return nil
}
