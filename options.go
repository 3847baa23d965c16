package fatengine

import "go.uber.org/zap"

// MountFlags controls what a mounted FileSystem permits, following the
// teacher's MountFlags bitmask idiom in api.go/flags.go.
type MountFlags int

const (
	// MountFlagsAllowWrite permits modifying existing files' contents.
	MountFlagsAllowWrite = MountFlags(1 << iota)
	// MountFlagsAllowInsert permits creating new files and directories.
	MountFlagsAllowInsert
	// MountFlagsAllowDelete permits deleting files and directories.
	MountFlagsAllowDelete
)

// MountFlagsReadWrite is the common case: full read/write/create/delete
// access to the mounted image.
const MountFlagsReadWrite = MountFlagsAllowWrite | MountFlagsAllowInsert | MountFlagsAllowDelete

func (f MountFlags) canWrite() bool  { return f&MountFlagsAllowWrite != 0 }
func (f MountFlags) canInsert() bool { return f&MountFlagsAllowInsert != 0 }
func (f MountFlags) canDelete() bool { return f&MountFlagsAllowDelete != 0 }

// MountOptions configures a Mount call. The zero value mounts read-only with
// a no-op logger, matching spec.md §5's "single-threaded, no hidden state"
// model: nothing here changes on-disk semantics, only what the engine
// permits and how it reports itself.
type MountOptions struct {
	// Flags controls write/insert/delete permission. The zero value is
	// read-only.
	Flags MountFlags

	// Logger receives structured events for mount, mount failures and
	// close. If nil, a no-op logger is used.
	Logger *zap.Logger
}

func (o MountOptions) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}

// FSInfo summarizes a mounted file system, mirroring the teacher's FSStat
// shape in api.go, trimmed to what spec.md's data model tracks. It is always
// computed fresh by scanning the FAT; per spec.md §9's Open Question, a
// persisted FAT32 FSInfo sector is never trusted.
type FSInfo struct {
	Type              string
	BytesPerCluster   uint32
	TotalClusters     uint32
	FreeClusters      uint32
	RootDirectoryKind string // "fixed" (FAT12/16) or "cluster-chain" (FAT32)
}
