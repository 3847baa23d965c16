// Package device implements the random-access byte I/O abstraction (C1) that
// every other layer of the FAT engine is built on. It mirrors the teacher's
// BlockStream/BlockDevice split in drivers/common, but works in raw byte
// offsets rather than fixed-size blocks since the FAT engine addresses
// sectors, clusters and the fixed root directory at different granularities.
package device

import (
	"io"

	"github.com/pkg/errors"

	"github.com/fatfs/fatengine/ferrors"
)

// Device is a random-access byte store backing a mounted file system. All
// offsets are absolute, 64-bit, and measured from the start of the image.
//
// Implementations need not support sparse files. Every mutating public
// operation in the engine calls Flush before returning control to its
// caller, so a clean Close always leaves a valid on-disk image.
type Device interface {
	// ReadAt fills a buffer of exactly len(p) bytes starting at offset off.
	// A read that would run past the end of the device fails with
	// ferrors.ErrShortRead.
	ReadAt(p []byte, off int64) error

	// WriteAt writes p at offset off. A write past the current end grows a
	// FileDevice; a MemoryDevice is fixed-size and fails such a write.
	WriteAt(p []byte, off int64) error

	// Size returns the current size of the device, in bytes.
	Size() (int64, error)

	// Flush forces any buffered writes out to durable storage.
	Flush() error

	// Close flushes and releases the underlying resource.
	Close() error
}

// readAtFull is a helper for Device implementations built on io.ReaderAt: it
// turns a short read into ferrors.ErrShortRead instead of a bare io.EOF,
// matching the error taxonomy in spec.md §7.
func readAtFull(r io.ReaderAt, p []byte, off int64) error {
	n, err := r.ReadAt(p, off)
	if n == len(p) {
		return nil
	}
	if err == nil {
		err = io.ErrUnexpectedEOF
	}
	return errors.Wrap(ferrors.ErrShortRead.WrapError(err), "device.ReadAt")
}
