package ferrors

// FatError is a sentinel error kind, modeled on the teacher's DiskoError
// string-constant catalogue in errors/errno.go. Each constant is both a
// stable comparison target for errors.Is and a human-readable message.
type FatError string

func (e FatError) Error() string {
	return string(e)
}

func (e FatError) WithMessage(message string) DriverError {
	return wrappedError{message: message, cause: e}
}

// WrapError appends err's message for context but keeps e itself as the
// Unwrap target, so errors.Is(result, e) still succeeds after wrapping.
func (e FatError) WrapError(err error) DriverError {
	return wrappedError{message: e.Error() + ": " + err.Error(), cause: e}
}

func (e FatError) Unwrap() error {
	return nil
}

// Error kinds named in spec.md §7.
const (
	// ErrShortRead means a Device.ReadAt returned fewer bytes than requested.
	ErrShortRead = FatError("io: short read")
	// ErrIO covers any other device read/write/flush failure.
	ErrIO = FatError("io: device operation failed")

	ErrBadSignature      = FatError("boot sector: missing 0x55AA signature")
	ErrBadGeometry       = FatError("boot sector: invalid BPB geometry")
	ErrUnsupportedVariant = FatError("boot sector: unsupported FAT variant")

	ErrCorruptChain = FatError("fat: cluster chain is corrupt")
	ErrNoSpace      = FatError("fat: no free cluster available")
	ErrRootDirFull  = FatError("directory: fixed root directory is full")

	ErrNotFound         = FatError("path: no such file or directory")
	ErrAlreadyExists    = FatError("path: already exists")
	ErrNotADirectory    = FatError("path: not a directory")
	ErrIsADirectory     = FatError("path: is a directory")
	ErrDirectoryNotEmpty = FatError("path: directory not empty")

	ErrNameTooLong        = FatError("name: exceeds 255 UTF-16 code units")
	ErrInvalidName        = FatError("name: contains a forbidden character")
	ErrShortNameExhausted = FatError("name: could not synthesize a unique 8.3 alias")

	ErrReadOnlyAttribute = FatError("file: read-only attribute set")
)
