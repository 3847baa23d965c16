package fatengine

import (
	"strings"
	"time"

	"github.com/fatfs/fatengine/codec"
	"github.com/fatfs/fatengine/directory"
	"github.com/fatfs/fatengine/ferrors"
)

// Directory is the Directory variant of Entry (spec.md §4.7). The root
// directory has a nil entry (it has no containing directory and no 8.3
// record of its own); every other Directory wraps the Entry describing its
// own slot group in its parent.
type Directory struct {
	*Entry
	fs  *FileSystem
	loc dirLocation // location of this directory's own contents
}

// Name overrides Entry.Name for the root, which has no backing record.
func (d *Directory) Name() string {
	if d.Entry == nil {
		return "/"
	}
	return d.Entry.Name()
}

// Delete overrides Entry.Delete to reject deleting the root.
func (d *Directory) Delete() error {
	if d.Entry == nil {
		return ferrors.ErrInvalidName.WithMessage("the root directory cannot be deleted")
	}
	return d.Entry.Delete()
}

// List returns every entry in this directory in directory-stream order,
// excluding deleted records, LFN-only slots and the volume label (spec.md
// §4.7). "." and ".." entries (when present) are included, since nothing
// in spec.md's list() contract excludes them.
func (d *Directory) List() ([]*Entry, error) {
	decoded, err := d.fs.listDecoded(d.loc)
	if err != nil {
		return nil, err
	}

	entries := make([]*Entry, 0, len(decoded))
	for _, de := range decoded {
		if de.Record.IsVolumeLabel() {
			continue
		}
		entries = append(entries, entryFromDecoded(d.fs, de, d.loc))
	}
	return entries, nil
}

// GetEntry looks up a child by name: long name first (exact UTF-16 match),
// then short name (case-insensitive ASCII), per spec.md §4.7's path
// resolution rule.
func (d *Directory) GetEntry(name string) (*Entry, error) {
	decoded, err := d.fs.listDecoded(d.loc)
	if err != nil {
		return nil, err
	}

	for _, de := range decoded {
		if de.Record.IsVolumeLabel() {
			continue
		}
		if de.Name == name {
			return entryFromDecoded(d.fs, de, d.loc), nil
		}
	}

	upper := strings.ToUpper(name)
	for _, de := range decoded {
		if de.Record.IsVolumeLabel() {
			continue
		}
		if strings.ToUpper(de.Record.ShortName.Present()) == upper {
			return entryFromDecoded(d.fs, de, d.loc), nil
		}
	}
	return nil, ferrors.ErrNotFound
}

func (d *Directory) shortNameExists(decoded []directory.DecodedEntry) func(string) bool {
	return func(candidate string) bool {
		for _, de := range decoded {
			if de.Record.ShortName.Present() == candidate {
				return true
			}
		}
		return false
	}
}

// CreateFile creates a new, empty file in this directory, per spec.md §4.7.
// It fails with ErrAlreadyExists if name collides with an existing long or
// short name.
func (d *Directory) CreateFile(name string) (*File, error) {
	record, err := d.createEntryRecord(name, 0)
	if err != nil {
		return nil, err
	}
	groupOffset, recordOffset, err := d.fs.insertEntry(d.loc, name, record)
	if err != nil {
		return nil, err
	}

	entry := &Entry{
		fs:           d.fs,
		name:         name,
		record:       record,
		parent:       d.loc,
		hasParent:    true,
		groupOffset:  groupOffset,
		recordOffset: recordOffset,
	}
	return &File{Entry: entry}, nil
}

// CreateDirectory creates a new, empty subdirectory, allocating one cluster
// for its "." and ".." entries per spec.md §4.7.
func (d *Directory) CreateDirectory(name string) (*Directory, error) {
	record, err := d.createEntryRecord(name, directory.AttrDirectory)
	if err != nil {
		return nil, err
	}

	cluster, err := d.fs.table.Allocate()
	if err != nil {
		return nil, err
	}
	if err := d.fs.cio.ZeroCluster(cluster); err != nil {
		return nil, err
	}
	record.FirstCluster = cluster

	parentClusterForDotDot := uint32(0)
	if d.Entry != nil { // parent is not the root
		parentClusterForDotDot = d.loc.firstCluster
	}

	now := time.Now().UTC()
	dot := &directory.Record{
		ShortName:    codec.PackShortName(".", ""),
		Attributes:   directory.AttrDirectory,
		CreatedTime:  now,
		LastModified: now,
		LastAccessed: now,
		FirstCluster: cluster,
	}
	dotdot := &directory.Record{
		ShortName:    codec.PackShortName("..", ""),
		Attributes:   directory.AttrDirectory,
		CreatedTime:  now,
		LastModified: now,
		LastAccessed: now,
		FirstCluster: parentClusterForDotDot,
	}

	payload := make([]byte, d.fs.boot.BytesPerCluster)
	copy(payload[0:directory.RecordSize], directory.EncodeRecord(dot))
	copy(payload[directory.RecordSize:2*directory.RecordSize], directory.EncodeRecord(dotdot))
	if err := d.fs.cio.WriteCluster(cluster, payload); err != nil {
		return nil, err
	}
	if err := d.fs.dev.Flush(); err != nil {
		return nil, err
	}

	groupOffset, recordOffset, err := d.fs.insertEntry(d.loc, name, record)
	if err != nil {
		return nil, err
	}

	entry := &Entry{
		fs:           d.fs,
		name:         name,
		record:       record,
		parent:       d.loc,
		hasParent:    true,
		groupOffset:  groupOffset,
		recordOffset: recordOffset,
	}
	return &Directory{Entry: entry, fs: d.fs, loc: dirLocation{firstCluster: cluster}}, nil
}

func (d *Directory) createEntryRecord(name string, attrs uint8) (*directory.Record, error) {
	if !d.fs.opts.Flags.canInsert() {
		return nil, ferrors.ErrReadOnlyAttribute.WithMessage("file system not mounted with insert permission")
	}
	if err := directory.ValidateName(name); err != nil {
		return nil, err
	}
	if _, err := d.GetEntry(name); err == nil {
		return nil, ferrors.ErrAlreadyExists
	}

	decoded, err := d.fs.listDecoded(d.loc)
	if err != nil {
		return nil, err
	}
	shortName, err := directory.SynthesizeShortName(name, d.shortNameExists(decoded))
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &directory.Record{
		ShortName:    shortName,
		Attributes:   attrs | directory.AttrArchive,
		CreatedTime:  now,
		LastModified: now,
		LastAccessed: now,
	}, nil
}
