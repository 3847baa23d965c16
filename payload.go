package fatengine

import "github.com/fatfs/fatengine/ferrors"

// dirLocation identifies where a directory's byte payload lives: either the
// FAT12/16 fixed root region, or a cluster chain (every other directory,
// including the FAT32 root).
type dirLocation struct {
	fixedRoot    bool
	firstCluster uint32 // meaningful when !fixedRoot
}

// readDirPayload reads a directory's full byte payload and, for cluster-chain
// directories, the chain itself (callers need it to extend or index into the
// payload by cluster).
func (fs *FileSystem) readDirPayload(loc dirLocation) (payload []byte, chain []uint32, err error) {
	if loc.fixedRoot {
		off, size := fs.cio.RootDirRegion()
		payload = make([]byte, size)
		if err := fs.dev.ReadAt(payload, off); err != nil {
			return nil, nil, err
		}
		return payload, nil, nil
	}

	chain, err = fs.table.Chain(loc.firstCluster)
	if err != nil {
		return nil, nil, err
	}
	payload = make([]byte, len(chain)*int(fs.boot.BytesPerCluster))
	for i, c := range chain {
		data, err := fs.cio.ReadCluster(c)
		if err != nil {
			return nil, nil, err
		}
		copy(payload[i*int(fs.boot.BytesPerCluster):], data)
	}
	return payload, chain, nil
}

// writeDirPayload writes payload back to a directory's region or chain. The
// caller must pass the same chain readDirPayload returned (or the one
// produced by extendDirPayload), since fixedRoot ignores it entirely.
func (fs *FileSystem) writeDirPayload(loc dirLocation, payload []byte, chain []uint32) error {
	if loc.fixedRoot {
		off, _ := fs.cio.RootDirRegion()
		if err := fs.dev.WriteAt(payload, off); err != nil {
			return err
		}
		return fs.dev.Flush()
	}

	bpc := int(fs.boot.BytesPerCluster)
	for i, c := range chain {
		if err := fs.cio.WriteCluster(c, payload[i*bpc:(i+1)*bpc]); err != nil {
			return err
		}
	}
	return fs.dev.Flush()
}

// extendDirPayload grows a directory's payload by one cluster, zero-filled,
// per spec.md §4.5's "extend by allocating another cluster" rule. The
// FAT12/16 fixed root cannot grow and fails with ErrRootDirFull.
func (fs *FileSystem) extendDirPayload(loc dirLocation, payload []byte, chain []uint32) ([]byte, []uint32, error) {
	if loc.fixedRoot {
		return nil, nil, ferrors.ErrRootDirFull
	}

	var next uint32
	var err error
	if len(chain) == 0 {
		next, err = fs.table.Allocate()
	} else {
		next, err = fs.table.ExtendChain(chain[len(chain)-1])
	}
	if err != nil {
		return nil, nil, err
	}
	if err := fs.cio.ZeroCluster(next); err != nil {
		return nil, nil, err
	}

	newChain := append(append([]uint32{}, chain...), next)
	newPayload := append(payload, make([]byte, fs.boot.BytesPerCluster)...)
	return newPayload, newChain, nil
}
