// Package nachosfs is the file-system facade of spec.md §4.5: Format,
// Create, Open, Remove, List and Print orchestration over the bitmap,
// inode chain, directory and path resolver components.
//
// Grounded on disk/disk.go's Disk.CreateFilesystemSpecial/GetFilesystem
// facade shape and filesystem/iso9660/iso9660.go's Create/Read top-level
// constructors, which open a backend, build a root structure, and hand
// back one handle for the lifetime of the session.
package nachosfs

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/PinYuan/nachosfs/bitmap"
	"github.com/PinYuan/nachosfs/blockdev"
	"github.com/PinYuan/nachosfs/dirent"
	"github.com/PinYuan/nachosfs/fserrors"
	"github.com/PinYuan/nachosfs/geom"
	"github.com/PinYuan/nachosfs/inode"
	"github.com/PinYuan/nachosfs/openfile"
	"github.com/PinYuan/nachosfs/pathwalk"
)

// Geometry is re-exported so callers need import only this package for the
// common case.
type Geometry = geom.Geometry

// DefaultGeometry matches spec.md §8's worked example (see geom.DefaultGeometry's
// doc comment for the one corrected constant).
func DefaultGeometry() Geometry {
	return geom.DefaultGeometry()
}

const (
	// FreeMapSector is the well-known inode sector of the root bitmap file.
	FreeMapSector = geom.FreeMapSector
	// DirectorySector is the well-known inode sector of the root directory file.
	DirectorySector = geom.DirectorySector
)

// descriptor is one slot of the process-wide file descriptor table.
type descriptor struct {
	file *openfile.File
	path string
}

// FileSystem is the orchestration facade: the only entry point consumers
// of this module need. One FileSystem wraps one blockdev.Device for its
// entire lifetime, holding the bitmap and root directory files open
// throughout (spec.md §5).
type FileSystem struct {
	g    geom.Geometry
	dev  blockdev.Device
	log  logrus.FieldLogger
	vol  uuid.UUID
	// formatted is the time Format stamped this volume, honoring
	// SOURCE_DATE_EPOCH for reproducible test fixtures. Session-local only:
	// Open does not persist or recover it, since spec.md's on-disk layout
	// has no field reserved for it.
	formatted time.Time

	bm         *bitmap.Bitmap
	bitmapFile *openfile.File

	rootDir     *dirent.Directory
	rootDirFile *openfile.File

	// descriptors is the process-wide file descriptor table, indexed
	// 1..g.MaxOpenFiles; descriptors[0] is always nil (the reserved
	// sentinel "none" of spec.md §3).
	descriptors []*descriptor
}

// WithLogger overrides the facade's structured logger (default:
// logrus.StandardLogger()), per SPEC_FULL.md §2.
func WithLogger(fs *FileSystem, log logrus.FieldLogger) {
	fs.log = log
}

func newFileSystem(g geom.Geometry, dev blockdev.Device) (*FileSystem, error) {
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("nachosfs: invalid geometry: %w", err)
	}
	if dev.NumSectors() != g.NumSectors || dev.SectorSize() != g.SectorSize {
		return nil, fmt.Errorf("nachosfs: device geometry (sectors=%d, size=%d) does not match requested geometry (sectors=%d, size=%d)",
			dev.NumSectors(), dev.SectorSize(), g.NumSectors, g.SectorSize)
	}
	fs := &FileSystem{
		g:           g,
		dev:         dev,
		log:         logrus.StandardLogger(),
		descriptors: make([]*descriptor, g.MaxOpenFiles+1),
	}
	return fs, nil
}

// LoadDirectory implements pathwalk.DirectoryLoader: fetches and decodes
// the directory file whose first inode sector is headSector.
func (fs *FileSystem) LoadDirectory(headSector int) (*dirent.Directory, pathwalk.Handle, error) {
	if headSector == geom.DirectorySector {
		return fs.rootDir, fs.rootDirFile, nil
	}
	file, err := fs.openInodeFile(headSector)
	if err != nil {
		return nil, nil, err
	}
	body, err := file.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("nachosfs: read directory at sector %d: %w", headSector, err)
	}
	dir := dirent.New(fs.g)
	if err := dir.FromBytes(body); err != nil {
		return nil, nil, fmt.Errorf("nachosfs: decode directory at sector %d: %w", headSector, err)
	}
	return dir, file, nil
}

// openInodeFile fetches the inode chain at sector and wraps it as an open
// file handle over fs.dev.
func (fs *FileSystem) openInodeFile(sector int) (*openfile.File, error) {
	hdr, err := inode.FetchFrom(fs.g, fs.dev, sector)
	if err != nil {
		return nil, fserrors.NewIoFatalError("fetch inode", err)
	}
	return openfile.New(fs.g, fs.dev, hdr, sector), nil
}

// resolve is a thin wrapper around pathwalk.Resolve supplying fs as the
// DirectoryLoader and the live root directory as the walk's starting
// point.
func (fs *FileSystem) resolve(path string) (pathwalk.Result, error) {
	return pathwalk.Resolve(fs, fs.rootDir, fs.rootDirFile, path)
}

// FormattedAt returns the time Format stamped this volume.
func (fs *FileSystem) FormattedAt() time.Time {
	return fs.formatted
}

// isRootHandle reports whether h aliases the long-lived root directory
// file — callers must not attempt to release or separately commit such a
// handle (spec.md §4.4/§5).
func (fs *FileSystem) isRootHandle(h pathwalk.Handle) bool {
	return h.HeaderSector() == geom.DirectorySector
}
