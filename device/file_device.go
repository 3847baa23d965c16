package device

import (
	"os"

	"github.com/pkg/errors"

	"github.com/fatfs/fatengine/ferrors"
)

// FileDevice is a Device backed by an *os.File, suitable for a real disk
// image or a block device node.
type FileDevice struct {
	file *os.File
}

// OpenFile opens path as a FileDevice. If write is false the file is opened
// read-only and WriteAt always fails.
func OpenFile(path string, write bool) (*FileDevice, error) {
	flag := os.O_RDONLY
	if write {
		flag = os.O_RDWR
	}

	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, errors.Wrap(ferrors.ErrIO.WrapError(err), "device.OpenFile")
	}
	return &FileDevice{file: f}, nil
}

func (d *FileDevice) ReadAt(p []byte, off int64) error {
	return readAtFull(d.file, p, off)
}

func (d *FileDevice) WriteAt(p []byte, off int64) error {
	_, err := d.file.WriteAt(p, off)
	if err != nil {
		return errors.Wrap(ferrors.ErrIO.WrapError(err), "device.WriteAt")
	}
	return nil
}

func (d *FileDevice) Size() (int64, error) {
	info, err := d.file.Stat()
	if err != nil {
		return 0, errors.Wrap(ferrors.ErrIO.WrapError(err), "device.Size")
	}
	return info.Size(), nil
}

func (d *FileDevice) Flush() error {
	if err := d.file.Sync(); err != nil {
		return errors.Wrap(ferrors.ErrIO.WrapError(err), "device.Flush")
	}
	return nil
}

func (d *FileDevice) Close() error {
	if err := d.Flush(); err != nil {
		return err
	}
	if err := d.file.Close(); err != nil {
		return errors.Wrap(ferrors.ErrIO.WrapError(err), "device.Close")
	}
	return nil
}
