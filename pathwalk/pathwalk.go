// Package pathwalk implements the path resolver of spec.md §4.4: walks an
// absolute "/"-separated path across directory files, returning the
// containing directory's open handle plus the unresolved trailing name.
//
// Grounded on filesystem/ext4/ext4.go's readDirWithMkdir walk loop (split
// path, walk down resolving each non-final component, fail closed on a
// missing or non-directory intermediate); Resolve is the read-only half of
// that function's logic, since spec.md's resolver never creates
// intermediate directories. The REDESIGN FLAGS item about not aliasing
// caller input (spec.md §9) is honored: Resolve takes an immutable string
// and returns an owned string, never tokenizing in place.
package pathwalk

import (
	"strings"

	"github.com/PinYuan/nachosfs/dirent"
	"github.com/PinYuan/nachosfs/fserrors"
)

// DirectoryLoader fetches and decodes the directory file whose first inode
// sector is headSector, handing back both the decoded table and an open
// handle positioned over it (the facade supplies this, since loading a
// directory requires the inode + block device machinery pathwalk itself
// does not depend on).
type DirectoryLoader interface {
	LoadDirectory(headSector int) (*dirent.Directory, Handle, error)
}

// Handle is the minimal open-file surface pathwalk needs: enough to
// identify aliasing against the long-lived root handle (spec.md §4.4's
// "callers must detect this by handle identity equality").
type Handle interface {
	HeaderSector() int
}

// Result is what Resolve hands back: the containing directory (decoded
// table + open handle) and the unresolved trailing path component.
type Result struct {
	Dir       *dirent.Directory
	DirHandle Handle
	Name      string
}

// Resolve walks path from the root directory (root, rootHandle) across
// directory files, returning the containing directory and the final
// (unresolved) name component. Absolute paths only; every non-final
// component must resolve to an existing sub-directory. An empty path or
// "/" alone returns fserrors.ErrInvalidPath — callers handling the root
// explicitly go through a separate code path (spec.md §4.4).
func Resolve(loader DirectoryLoader, root *dirent.Directory, rootHandle Handle, path string) (Result, error) {
	if len(path) == 0 || path[0] != '/' {
		return Result{}, fserrors.ErrInvalidPath
	}
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return Result{}, fserrors.ErrInvalidPath
	}
	parts := strings.Split(trimmed, "/")
	for _, p := range parts {
		if p == "" {
			return Result{}, fserrors.ErrInvalidPath
		}
	}

	currentDir := root
	currentHandle := rootHandle
	for i := 0; i < len(parts)-1; i++ {
		component := parts[i]
		sector := currentDir.Find(component)
		if sector == -1 || !currentDir.IsDir(component) {
			return Result{}, fserrors.ErrNotFound
		}
		dir, handle, err := loader.LoadDirectory(sector)
		if err != nil {
			return Result{}, err
		}
		currentDir = dir
		currentHandle = handle
	}

	return Result{Dir: currentDir, DirHandle: currentHandle, Name: parts[len(parts)-1]}, nil
}
