// Package fatengine implements the public object model (C7) of a FAT12/16/32
// file system: FileSystem, Directory, File and Entry compose the lower
// layers (device, codec, bootsector, fat, cluster, directory) into the
// POSIX-like tree described in spec.md §4.7.
//
// The package follows the teacher's (github.com/dargueta/disko) split
// between a thin public surface and a set of internal collaborators, but
// specializes it to a single family of file systems instead of disko's
// pluggable multi-filesystem driver framework, since that generality is
// outside this spec's scope (spec.md §1).
package fatengine
