package fatengine

import (
	"time"

	"github.com/fatfs/fatengine/directory"
	"github.com/fatfs/fatengine/ferrors"
)

// Kind distinguishes the two Entry variants, modeling spec.md §9's
// Inheritance-hierarchy-as-tagged-variant redesign note: one Entry value
// with a Kind tag, rather than a File/Directory class hierarchy.
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
)

// Entry is the logical object behind one directory slot group: either a File
// or a Directory (spec.md §3's Entry type). It holds a non-owning
// back-reference to its FileSystem and is only valid while that FileSystem
// remains mounted; once its backing slots are deleted, further operations on
// a stale Entry return ErrNotFound.
type Entry struct {
	fs     *FileSystem
	name   string
	record *directory.Record

	// parent locates the directory payload this entry's slots live in.
	// hasParent is false only for the root directory, which has no
	// containing directory and cannot be deleted or renamed.
	parent    dirLocation
	hasParent bool

	groupOffset  int
	recordOffset int
}

func entryFromDecoded(fs *FileSystem, de directory.DecodedEntry, parent dirLocation) *Entry {
	return &Entry{
		fs:           fs,
		name:         de.Name,
		record:       de.Record,
		parent:       parent,
		hasParent:    true,
		groupOffset:  de.GroupOffset,
		recordOffset: de.RecordOffset,
	}
}

// Name returns the entry's long name if one was present, else its 8.3
// short name's presentation form.
func (e *Entry) Name() string { return e.name }

// IsDirectory reports whether this entry is a Directory rather than a File.
func (e *Entry) IsDirectory() bool { return e.record.IsDirectory() }

// Kind reports which Entry variant this is.
func (e *Entry) Kind() Kind {
	if e.IsDirectory() {
		return KindDirectory
	}
	return KindFile
}

// Size returns the entry's byte size (always 0 for directories).
func (e *Entry) Size() uint32 { return e.record.Size }

// Attributes returns the raw attribute byte (spec.md §3).
func (e *Entry) Attributes() uint8 { return e.record.Attributes }

// IsReadOnly reports whether the READ_ONLY attribute bit is set.
func (e *Entry) IsReadOnly() bool { return e.record.Attributes&directory.AttrReadOnly != 0 }

// CreatedTime, LastAccessed and LastModified return the entry's FAT
// timestamps, decoded to UTC.
func (e *Entry) CreatedTime() time.Time  { return e.record.CreatedTime }
func (e *Entry) LastAccessed() time.Time { return e.record.LastAccessed }
func (e *Entry) LastModified() time.Time { return e.record.LastModified }

// AsFile returns a File view of this entry, or ok=false if it is a
// directory.
func (e *Entry) AsFile() (f *File, ok bool) {
	if e.IsDirectory() {
		return nil, false
	}
	return &File{Entry: e}, true
}

// AsDirectory returns a Directory view of this entry, or ok=false if it is
// a file.
func (e *Entry) AsDirectory() (d *Directory, ok bool) {
	if !e.IsDirectory() {
		return nil, false
	}
	return &Directory{Entry: e, fs: e.fs, loc: dirLocation{firstCluster: e.record.FirstCluster}}, true
}

// Delete removes the entry, per spec.md §4.7's Entry.delete(). A directory
// refuses with ErrDirectoryNotEmpty unless its payload contains only "."
// and "..". Its cluster chain (if any) is freed, and every slot belonging
// to it (LFN group plus the 8.3 record) is marked deleted in the parent's
// payload.
func (e *Entry) Delete() error {
	if !e.hasParent {
		return ferrors.ErrInvalidName.WithMessage("the root directory cannot be deleted")
	}
	if e.IsReadOnly() {
		return ferrors.ErrReadOnlyAttribute
	}
	if !e.fs.opts.Flags.canDelete() {
		return ferrors.ErrReadOnlyAttribute.WithMessage("file system not mounted with delete permission")
	}

	if e.IsDirectory() && e.record.FirstCluster != 0 {
		payload, _, err := e.fs.readDirPayload(dirLocation{firstCluster: e.record.FirstCluster})
		if err != nil {
			return err
		}
		for _, de := range directory.Decode(payload) {
			if de.Record.IsVolumeLabel() {
				continue
			}
			if de.Name != "." && de.Name != ".." {
				return ferrors.ErrDirectoryNotEmpty
			}
		}
	}

	if e.record.FirstCluster != 0 {
		if err := e.fs.table.FreeChain(e.record.FirstCluster); err != nil {
			return err
		}
	}

	payload, chain, err := e.fs.readDirPayload(e.parent)
	if err != nil {
		return err
	}
	directory.DeleteGroup(payload, e.groupOffset, e.recordOffset)
	return e.fs.writeDirPayload(e.parent, payload, chain)
}

// writeBackRecord rewrites this entry's 8.3 record in place within its
// parent's payload. File.Append and File.Truncate each call it exactly once
// at the end (spec.md §4.7); File.Write, which runs both, calls it twice.
func (e *Entry) writeBackRecord() error {
	if !e.hasParent {
		return nil
	}
	payload, chain, err := e.fs.readDirPayload(e.parent)
	if err != nil {
		return err
	}
	copy(payload[e.recordOffset:e.recordOffset+directory.RecordSize], directory.EncodeRecord(e.record))
	return e.fs.writeDirPayload(e.parent, payload, chain)
}
