package device

import (
	"io"

	"github.com/pkg/errors"
	"github.com/xaionaro-go/bytesextra"

	"github.com/fatfs/fatengine/ferrors"
)

// MemoryDevice is a Device backed by a fixed-size in-memory buffer. It is
// used by tests and by callers that want to mount an image already held in
// memory without round-tripping it through a file, following the teacher's
// testing.LoadDiskImage helper.
type MemoryDevice struct {
	stream io.ReadWriteSeeker
	size   int64
}

// NewMemoryDevice wraps buf as a Device. The device's size is fixed at
// len(buf); writes past the end fail the same way they would against a
// fixed-size block device.
func NewMemoryDevice(buf []byte) *MemoryDevice {
	return &MemoryDevice{
		stream: bytesextra.NewReadWriteSeeker(buf),
		size:   int64(len(buf)),
	}
}

func (d *MemoryDevice) ReadAt(p []byte, off int64) error {
	if _, err := d.stream.Seek(off, io.SeekStart); err != nil {
		return errors.Wrap(ferrors.ErrIO.WrapError(err), "memory_device.ReadAt")
	}
	n, err := io.ReadFull(d.stream, p)
	if n == len(p) {
		return nil
	}
	if err == nil {
		err = io.ErrUnexpectedEOF
	}
	return errors.Wrap(ferrors.ErrShortRead.WrapError(err), "memory_device.ReadAt")
}

func (d *MemoryDevice) WriteAt(p []byte, off int64) error {
	if off+int64(len(p)) > d.size {
		return errors.Wrap(
			ferrors.ErrIO.WithMessage("write extends past end of fixed-size image"),
			"memory_device.WriteAt",
		)
	}
	if _, err := d.stream.Seek(off, io.SeekStart); err != nil {
		return errors.Wrap(ferrors.ErrIO.WrapError(err), "memory_device.WriteAt")
	}
	if _, err := d.stream.Write(p); err != nil {
		return errors.Wrap(ferrors.ErrIO.WrapError(err), "memory_device.WriteAt")
	}
	return nil
}

func (d *MemoryDevice) Size() (int64, error) {
	return d.size, nil
}

// Flush is a no-op: the backing buffer has no separate durable layer.
func (d *MemoryDevice) Flush() error {
	return nil
}

func (d *MemoryDevice) Close() error {
	return nil
}
