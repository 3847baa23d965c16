package fatengine

import (
	"time"

	"github.com/fatfs/fatengine/ferrors"
)

// File is the File variant of Entry (spec.md §4.7).
type File struct {
	*Entry
}

func (f *File) checkWritable() error {
	if f.IsReadOnly() {
		return ferrors.ErrReadOnlyAttribute
	}
	if !f.fs.opts.Flags.canWrite() {
		return ferrors.ErrReadOnlyAttribute.WithMessage("file system not mounted with write permission")
	}
	return nil
}

// ReadAllBytes reads the file's entire contents, per spec.md §4.7.
func (f *File) ReadAllBytes() ([]byte, error) {
	chain, err := f.fs.table.Chain(f.record.FirstCluster)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, f.record.Size)
	if err := f.fs.cio.ReadAt(chain, buf, 0); err != nil {
		return nil, err
	}
	return buf, nil
}

// Write replaces the file's contents: truncate to empty, then append data
// (spec.md §4.7).
func (f *File) Write(data []byte) error {
	if err := f.Truncate(); err != nil {
		return err
	}
	return f.Append(data)
}

// Truncate frees the file's cluster chain and resets its size to 0.
func (f *File) Truncate() error {
	if err := f.checkWritable(); err != nil {
		return err
	}
	if f.record.FirstCluster != 0 {
		if err := f.fs.table.FreeChain(f.record.FirstCluster); err != nil {
			return err
		}
	}
	f.record.FirstCluster = 0
	f.record.Size = 0
	f.record.LastModified = time.Now().UTC()
	return f.writeBackRecord()
}

// Append writes data after the file's current end, allocating and linking
// new clusters as needed, per spec.md §4.7's File.append().
func (f *File) Append(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if err := f.checkWritable(); err != nil {
		return err
	}

	chain, err := f.fs.table.Chain(f.record.FirstCluster)
	if err != nil {
		return err
	}

	bpc := int64(f.fs.boot.BytesPerCluster)
	offset := int64(f.record.Size)
	remaining := data

	for len(remaining) > 0 {
		clusterIdx := offset / bpc
		if clusterIdx >= int64(len(chain)) {
			var next uint32
			var err error
			if len(chain) == 0 {
				next, err = f.fs.table.Allocate()
			} else {
				next, err = f.fs.table.ExtendChain(chain[len(chain)-1])
			}
			if err != nil {
				return err
			}
			if err := f.fs.cio.ZeroCluster(next); err != nil {
				return err
			}
			chain = append(chain, next)
			if f.record.FirstCluster == 0 {
				f.record.FirstCluster = next
			}
		}

		inClusterOff := offset % bpc
		writeLen := bpc - inClusterOff
		if int64(len(remaining)) < writeLen {
			writeLen = int64(len(remaining))
		}
		if err := f.fs.cio.WriteAt(chain, remaining[:writeLen], offset); err != nil {
			return err
		}
		remaining = remaining[writeLen:]
		offset += writeLen
	}

	f.record.Size = uint32(offset)
	f.record.LastModified = time.Now().UTC()
	return f.writeBackRecord()
}
