package nachosfs

import (
	"fmt"

	"github.com/PinYuan/nachosfs/dirent"
	"github.com/PinYuan/nachosfs/fserrors"
	"github.com/PinYuan/nachosfs/inode"
)

// Remove implements spec.md §4.5 Remove: resolves the containing directory,
// looks up name, deallocates its inode chain and clears the name from the
// directory. When the target is a directory and recursive is false, a
// non-empty directory fails with fserrors.ErrDirectoryNotEmpty rather than
// silently deleting its contents (Open Question decision, see DESIGN.md).
// When recursive is true, every child is removed first, depth-first, in
// slot order.
func (fs *FileSystem) Remove(recursive bool, path string) error {
	res, err := fs.resolve(path)
	if err != nil {
		return err
	}
	sector := res.Dir.Find(res.Name)
	if sector == -1 {
		return fserrors.ErrNotFound
	}
	isDir := res.Dir.IsDir(res.Name)

	if isDir {
		childDir, _, err := fs.LoadDirectory(sector)
		if err != nil {
			return fmt.Errorf("nachosfs: remove: load directory %q: %w", path, err)
		}
		children := childDir.Entries()
		if len(children) > 0 && !recursive {
			return fserrors.ErrDirectoryNotEmpty
		}
		for _, child := range children {
			childPath := joinPath(path, child.Name)
			if err := fs.Remove(true, childPath); err != nil {
				return fmt.Errorf("nachosfs: remove: child %q: %w", childPath, err)
			}
		}
	}

	hdr, err := inode.FetchFrom(fs.g, fs.dev, sector)
	if err != nil {
		return fmt.Errorf("nachosfs: remove: fetch inode: %w", err)
	}

	bmWork := fs.bm.Clone()
	if err := hdr.Deallocate(bmWork); err != nil {
		return fmt.Errorf("nachosfs: remove: deallocate: %w", err)
	}
	if err := bmWork.Clear(sector); err != nil {
		return fmt.Errorf("nachosfs: remove: clear header sector: %w", err)
	}

	dirIsRoot := fs.isRootHandle(res.DirHandle)
	var dirWork *dirent.Directory
	if dirIsRoot {
		dirWork = fs.rootDir.Clone()
	} else {
		dirWork = res.Dir
	}
	if !dirWork.Remove(res.Name) {
		return fmt.Errorf("nachosfs: remove: %q vanished from containing directory", res.Name)
	}

	if err := fs.writeDirectory(res.DirHandle, dirWork); err != nil {
		return fmt.Errorf("nachosfs: remove: write containing directory: %w", err)
	}
	if err := fs.bitmapFile.WriteAll(bmWork.ToBytes()); err != nil {
		return fmt.Errorf("nachosfs: remove: write bitmap: %w", err)
	}

	fs.bm = bmWork
	if dirIsRoot {
		fs.rootDir = dirWork
	}
	fs.log.WithField("path", path).Debug("nachosfs: remove complete")
	return nil
}

// joinPath appends name as a new absolute path component beneath dir,
// tolerating dir == "/".
func joinPath(dir, name string) string {
	if dir == "/" {
		return "/" + name
	}
	return dir + "/" + name
}
