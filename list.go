package nachosfs

import (
	"fmt"
	"strings"

	"github.com/PinYuan/nachosfs/dirent"
	"github.com/PinYuan/nachosfs/fserrors"
)

// List implements spec.md §4.5 List: writes the entries of dirPath to w, one
// per line, names of sub-directories suffixed with "/". When recursive is
// true, each sub-directory's contents follow, indented by depth.
func (fs *FileSystem) List(recursive bool, dirPath string, w func(string)) error {
	dir, err := fs.resolveDirectory(dirPath)
	if err != nil {
		return err
	}
	return fs.listEntries(dir, 0, recursive, w)
}

func (fs *FileSystem) listEntries(dir *dirent.Directory, depth int, recursive bool, w func(string)) error {
	indent := strings.Repeat("  ", depth)
	for _, e := range dir.Entries() {
		if e.IsDir {
			w(fmt.Sprintf("%s%s/", indent, e.Name))
			if recursive {
				child, _, err := fs.LoadDirectory(e.Sector)
				if err != nil {
					return fmt.Errorf("nachosfs: list: load %q: %w", e.Name, err)
				}
				if err := fs.listEntries(child, depth+1, recursive, w); err != nil {
					return err
				}
			}
		} else {
			w(fmt.Sprintf("%s%s", indent, e.Name))
		}
	}
	return nil
}

// resolveDirectory resolves path to a *dirent.Directory, special-casing the
// root ("/") and verifying every other target is actually a directory.
func (fs *FileSystem) resolveDirectory(path string) (*dirent.Directory, error) {
	if path == "/" {
		return fs.rootDir, nil
	}
	res, err := fs.resolve(path)
	if err != nil {
		return nil, err
	}
	sector := res.Dir.Find(res.Name)
	if sector == -1 {
		return nil, fserrors.ErrNotFound
	}
	if !res.Dir.IsDir(res.Name) {
		return nil, fserrors.ErrInvalidPath
	}
	dir, _, err := fs.LoadDirectory(sector)
	if err != nil {
		return nil, fmt.Errorf("nachosfs: resolve directory %q: %w", path, err)
	}
	return dir, nil
}
