package nachosfs

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/PinYuan/nachosfs/bitmap"
	"github.com/PinYuan/nachosfs/blockdev"
	"github.com/PinYuan/nachosfs/dirent"
	"github.com/PinYuan/nachosfs/geom"
	"github.com/PinYuan/nachosfs/inode"
	"github.com/PinYuan/nachosfs/openfile"
	"github.com/PinYuan/nachosfs/util/timestamp"
)

// Format constructs a fresh bitmap, reserves FreeMapSector and
// DirectorySector, allocates data blocks for the bitmap and root
// directory files, and writes all three structures to dev (spec.md
// §4.5). After Format, the bitmap and root-directory files are kept open
// for the lifetime of the returned FileSystem.
func Format(g geom.Geometry, dev blockdev.Device) (*FileSystem, error) {
	fs, err := newFileSystem(g, dev)
	if err != nil {
		return nil, err
	}
	fs.vol = uuid.New()
	fs.formatted = timestamp.GetTime()
	fs.log.WithField("volume", fs.vol).Info("nachosfs: formatting device")

	bm := bitmap.New(g.NumSectors)
	if err := bm.Mark(geom.FreeMapSector); err != nil {
		return nil, fmt.Errorf("nachosfs: format: mark free-map sector: %w", err)
	}
	if err := bm.Mark(geom.DirectorySector); err != nil {
		return nil, fmt.Errorf("nachosfs: format: mark directory sector: %w", err)
	}

	bmHeader := inode.New(g)
	if _, err := bmHeader.Allocate(bm, dev, g.FreeMapFileSize()); err != nil {
		return nil, fmt.Errorf("nachosfs: format: allocate free-map file: %w", err)
	}
	dirHeader := inode.New(g)
	if _, err := dirHeader.Allocate(bm, dev, g.DirectoryFileSize()); err != nil {
		return nil, fmt.Errorf("nachosfs: format: allocate root directory file: %w", err)
	}

	if err := bmHeader.WriteBack(dev, geom.FreeMapSector); err != nil {
		return nil, fmt.Errorf("nachosfs: format: write free-map inode: %w", err)
	}
	if err := dirHeader.WriteBack(dev, geom.DirectorySector); err != nil {
		return nil, fmt.Errorf("nachosfs: format: write root directory inode: %w", err)
	}

	bmFile := openfile.New(g, dev, bmHeader, geom.FreeMapSector)
	if err := bmFile.WriteAll(bm.ToBytes()); err != nil {
		return nil, fmt.Errorf("nachosfs: format: write bitmap contents: %w", err)
	}

	rootDir := dirent.New(g)
	rootDirFile := openfile.New(g, dev, dirHeader, geom.DirectorySector)
	if err := rootDirFile.WriteAll(rootDir.ToBytes()); err != nil {
		return nil, fmt.Errorf("nachosfs: format: write root directory contents: %w", err)
	}

	fs.bm = bm
	fs.bitmapFile = bmFile
	fs.rootDir = rootDir
	fs.rootDirFile = rootDirFile

	fs.log.Debug("nachosfs: format complete")
	return fs, nil
}

// Open mounts an already-formatted device: reads back the bitmap and root
// directory inodes and their contents, and keeps both files open for the
// lifetime of the returned FileSystem, mirroring Format's invariant.
func Open(g geom.Geometry, dev blockdev.Device) (*FileSystem, error) {
	fs, err := newFileSystem(g, dev)
	if err != nil {
		return nil, err
	}

	bmHeader, err := inode.FetchFrom(g, dev, geom.FreeMapSector)
	if err != nil {
		return nil, fmt.Errorf("nachosfs: open: fetch free-map inode: %w", err)
	}
	bmFile := openfile.New(g, dev, bmHeader, geom.FreeMapSector)
	bmBytes, err := bmFile.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("nachosfs: open: read bitmap contents: %w", err)
	}
	bm := bitmap.New(g.NumSectors)
	bm.FromBytes(bmBytes)

	dirHeader, err := inode.FetchFrom(g, dev, geom.DirectorySector)
	if err != nil {
		return nil, fmt.Errorf("nachosfs: open: fetch root directory inode: %w", err)
	}
	rootDirFile := openfile.New(g, dev, dirHeader, geom.DirectorySector)
	dirBytes, err := rootDirFile.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("nachosfs: open: read root directory contents: %w", err)
	}
	rootDir := dirent.New(g)
	if err := rootDir.FromBytes(dirBytes); err != nil {
		return nil, fmt.Errorf("nachosfs: open: decode root directory contents: %w", err)
	}

	fs.bm = bm
	fs.bitmapFile = bmFile
	fs.rootDir = rootDir
	fs.rootDirFile = rootDirFile
	fs.log.Debug("nachosfs: mounted device")
	return fs, nil
}
