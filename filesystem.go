package fatengine

import (
	"strings"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/fatfs/fatengine/bootsector"
	"github.com/fatfs/fatengine/cluster"
	"github.com/fatfs/fatengine/device"
	"github.com/fatfs/fatengine/directory"
	"github.com/fatfs/fatengine/fat"
	"github.com/fatfs/fatengine/ferrors"
)

// FileSystem is the mounted handle over a Device: boot sector, FAT table,
// cluster I/O and the root directory (spec.md §4.7). It exclusively owns the
// Device and FatTable; Entry/File/Directory values hold only a non-owning
// back-reference and remain valid only while this FileSystem is mounted
// (spec.md §3's Ownership rule, §5's Shared-resources rule).
type FileSystem struct {
	dev   device.Device
	boot  *bootsector.BootSector
	table *fat.Table
	cio   *cluster.IO
	opts  MountOptions
	log   *zap.SugaredLogger
}

// Mount opens a FAT image: parses the boot sector, binds the FAT table and
// cluster I/O, and prepares the root directory, per spec.md §4.7.
func Mount(dev device.Device, opts MountOptions) (*FileSystem, error) {
	logger := opts.logger().Sugar()

	raw := make([]byte, 512)
	if err := dev.ReadAt(raw, 0); err != nil {
		return nil, err
	}
	boot, err := bootsector.Parse(raw)
	if err != nil {
		logger.Errorw("mount failed parsing boot sector", "error", err)
		return nil, err
	}

	table, err := fat.Open(dev, boot)
	if err != nil {
		logger.Errorw("mount failed opening fat table", "error", err)
		return nil, err
	}

	fs := &FileSystem{
		dev:   dev,
		boot:  boot,
		table: table,
		cio:   cluster.New(dev, boot, table),
		opts:  opts,
		log:   logger,
	}
	logger.Infow("mounted", "fatType", boot.Type.String(), "dataClusters", boot.DataClusterCount)
	return fs, nil
}

// Close flushes and releases the underlying Device.
func (fs *FileSystem) Close() error {
	fs.log.Infow("closing file system")
	return fs.dev.Close()
}

// Root returns the root Directory.
func (fs *FileSystem) Root() *Directory {
	loc := dirLocation{firstCluster: fs.boot.RootCluster}
	if fs.boot.Type != bootsector.FAT32 {
		loc = dirLocation{fixedRoot: true}
	}
	return &Directory{fs: fs, loc: loc}
}

// VolumeLabel returns the 11-byte volume label stored in the root
// directory's VOLUME_ID entry, with its trailing space padding removed,
// mirroring the teacher's FSStat.Label field.
func (fs *FileSystem) VolumeLabel() (string, bool) {
	decoded, err := fs.listDecoded(fs.Root().loc)
	if err != nil {
		return "", false
	}
	for _, de := range decoded {
		if de.Record.IsVolumeLabel() {
			return strings.TrimRight(string(de.Record.ShortName[:]), " "), true
		}
	}
	return "", false
}

// Stat summarizes the mounted file system by scanning the FAT; per spec.md
// §9's Open Question, a persisted FSInfo sector is never trusted.
func (fs *FileSystem) Stat() FSInfo {
	total := fs.boot.DataClusterCount
	free := uint32(0)
	for c := uint32(2); c < total+2; c++ {
		v, err := fs.table.Read(c)
		if err == nil && v == 0 {
			free++
		}
	}

	kind := "cluster-chain"
	if fs.boot.Type != bootsector.FAT32 {
		kind = "fixed"
	}
	return FSInfo{
		Type:              fs.boot.Type.String(),
		BytesPerCluster:   fs.boot.BytesPerCluster,
		TotalClusters:     total,
		FreeClusters:      free,
		RootDirectoryKind: kind,
	}
}

// resolvePath splits an absolute path on '/' and resolves each component in
// turn, per spec.md §4.7's path resolution rule.
func (fs *FileSystem) resolvePath(path string) (*Entry, error) {
	parts := splitPath(path)
	dir := fs.Root()
	var entry *Entry

	for i, part := range parts {
		e, err := dir.GetEntry(part)
		if err != nil {
			return nil, err
		}
		entry = e
		if i == len(parts)-1 {
			break
		}
		d, ok := e.AsDirectory()
		if !ok {
			return nil, ferrors.ErrNotADirectory
		}
		dir = d
	}
	return entry, nil
}

func splitPath(path string) []string {
	var parts []string
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// GetFile resolves an absolute path to an existing File.
func (fs *FileSystem) GetFile(path string) (*File, error) {
	entry, err := fs.resolvePath(path)
	if err != nil {
		return nil, err
	}
	f, ok := entry.AsFile()
	if !ok {
		return nil, ferrors.ErrIsADirectory
	}
	return f, nil
}

// CreateFile creates a new, empty file at an absolute path, whose parent
// directory must already exist.
func (fs *FileSystem) CreateFile(path string) (*File, error) {
	parts := splitPath(path)
	if len(parts) == 0 {
		return nil, ferrors.ErrInvalidName.WithMessage("path must name a file")
	}

	dir := fs.Root()
	for _, part := range parts[:len(parts)-1] {
		e, err := dir.GetEntry(part)
		if err != nil {
			return nil, err
		}
		d, ok := e.AsDirectory()
		if !ok {
			return nil, ferrors.ErrNotADirectory
		}
		dir = d
	}
	return dir.CreateFile(parts[len(parts)-1])
}

// listDecoded decodes a directory's payload into its active entries.
func (fs *FileSystem) listDecoded(loc dirLocation) ([]directory.DecodedEntry, error) {
	payload, _, err := fs.readDirPayload(loc)
	if err != nil {
		return nil, err
	}
	return directory.Decode(payload), nil
}

// insertEntry places a new entry's LFN group + 8.3 record into a directory's
// payload, extending it by one cluster if no free run of the required size
// exists (spec.md §4.5).
func (fs *FileSystem) insertEntry(loc dirLocation, longName string, record *directory.Record) (groupOffset, recordOffset int, err error) {
	payload, chain, err := fs.readDirPayload(loc)
	if err != nil {
		return 0, 0, err
	}

	slots, err := directory.BuildGroup(longName, record)
	if err != nil {
		return 0, 0, err
	}

	offset, ok := directory.FindFreeRun(payload, len(slots))
	if !ok {
		payload, chain, err = fs.extendDirPayload(loc, payload, chain)
		if err != nil {
			return 0, 0, err
		}
		offset, ok = directory.FindFreeRun(payload, len(slots))
		if !ok {
			return 0, 0, ferrors.ErrCorruptChain.WithMessage("newly extended directory still has no room")
		}
	}

	directory.WriteGroup(payload, offset, slots)
	if err := fs.writeDirPayload(loc, payload, chain); err != nil {
		return 0, 0, err
	}

	groupOffset = offset
	recordOffset = offset + (len(slots)-1)*directory.RecordSize
	return groupOffset, recordOffset, nil
}

// CheckConsistency walks the tree from the root and verifies spec.md §8's
// no-chain-sharing invariant within each directory, aggregating every
// violation found rather than stopping at the first one. It is a read-only
// sweep for tests, not an fsck repair tool (out of scope per spec.md §1).
func (fs *FileSystem) CheckConsistency() error {
	var result *multierror.Error
	fs.checkDirectory(fs.Root(), &result)
	return result.ErrorOrNil()
}

func (fs *FileSystem) checkDirectory(dir *Directory, result **multierror.Error) {
	entries, err := dir.List()
	if err != nil {
		*result = multierror.Append(*result, err)
		return
	}

	seen := make(map[uint32]bool)
	for _, e := range entries {
		if e.Name() == "." || e.Name() == ".." {
			continue
		}
		if e.record.FirstCluster != 0 {
			if seen[e.record.FirstCluster] {
				*result = multierror.Append(*result, ferrors.ErrCorruptChain.WithMessage(
					"two directory entries share a first cluster: "+e.Name(),
				))
			}
			seen[e.record.FirstCluster] = true
		}
		if _, err := fs.table.Chain(e.record.FirstCluster); err != nil {
			*result = multierror.Append(*result, err)
		}
		if sub, ok := e.AsDirectory(); ok {
			fs.checkDirectory(sub, result)
		}
	}
}
