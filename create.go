package nachosfs

import (
	"fmt"

	"github.com/PinYuan/nachosfs/dirent"
	"github.com/PinYuan/nachosfs/fserrors"
	"github.com/PinYuan/nachosfs/inode"
	"github.com/PinYuan/nachosfs/pathwalk"
)

// Create implements spec.md §4.5 Create: resolves the containing
// directory, rejects an existing name, allocates one inode sector plus its
// data blocks, and writes inode, directory and bitmap back — or fails
// without mutating anything on disk. When isDir is true, initialSize is
// overridden with g.DirectoryFileSize().
func (fs *FileSystem) Create(path string, initialSize int, isDir bool) error {
	res, err := fs.resolve(path)
	if err != nil {
		return err
	}
	if err := dirent.ValidateName(fs.g, res.Name); err != nil {
		return err
	}
	if res.Dir.Find(res.Name) != -1 {
		return fserrors.ErrAlreadyExists
	}

	size := initialSize
	if isDir {
		size = fs.g.DirectoryFileSize()
	}

	bmWork := fs.bm.Clone()
	dirIsRoot := fs.isRootHandle(res.DirHandle)
	var dirWork *dirent.Directory
	if dirIsRoot {
		dirWork = fs.rootDir.Clone()
	} else {
		dirWork = res.Dir
	}

	headSector := bmWork.FindAndSet()
	if headSector == -1 {
		fs.log.Warn("nachosfs: create: no free inode sector")
		return fserrors.ErrNoSpaceOnDevice
	}

	if !dirWork.Add(res.Name, headSector, isDir) {
		// Directory.Add's single boolean covers both "full" and
		// "already present"; we already checked presence above, so a
		// false here means the table has no free slot.
		fs.log.Warn("nachosfs: create: containing directory is full")
		return fserrors.ErrDirectoryFull
	}

	hdr := inode.New(fs.g)
	if _, err := hdr.Allocate(bmWork, fs.dev, size); err != nil {
		fs.log.WithError(err).Warn("nachosfs: create: insufficient space, discarding working bitmap")
		return err
	}

	if err := hdr.WriteBack(fs.dev, headSector); err != nil {
		return fmt.Errorf("nachosfs: create: write inode: %w", err)
	}
	if err := fs.writeDirectory(res.DirHandle, dirWork); err != nil {
		return fmt.Errorf("nachosfs: create: write containing directory: %w", err)
	}
	if err := fs.bitmapFile.WriteAll(bmWork.ToBytes()); err != nil {
		return fmt.Errorf("nachosfs: create: write bitmap: %w", err)
	}

	fs.bm = bmWork
	if dirIsRoot {
		fs.rootDir = dirWork
	}
	fs.log.WithField("path", path).Debug("nachosfs: create complete")
	return nil
}

// writeDirectory persists dir's contents back through handle — the root
// directory's own long-lived file when handle aliases it, otherwise a
// fresh handle opened over the containing directory's inode.
func (fs *FileSystem) writeDirectory(handle pathwalk.Handle, dir *dirent.Directory) error {
	if fs.isRootHandle(handle) {
		return fs.rootDirFile.WriteAll(dir.ToBytes())
	}
	file, err := fs.openInodeFile(handle.HeaderSector())
	if err != nil {
		return err
	}
	return file.WriteAll(dir.ToBytes())
}
