package nachosfs

import (
	"github.com/PinYuan/nachosfs/fserrors"
	"github.com/PinYuan/nachosfs/openfile"
)

// Open resolves path, installs an open-file handle at the lowest free
// descriptor id in [1, MaxOpenFiles], and returns both (spec.md §4.5).
func (fs *FileSystem) Open(path string) (*openfile.File, int, error) {
	res, err := fs.resolve(path)
	if err != nil {
		return nil, -1, err
	}
	sector := res.Dir.Find(res.Name)
	if sector == -1 {
		return nil, -1, fserrors.ErrNotFound
	}

	id := -1
	for i := 1; i < len(fs.descriptors); i++ {
		if fs.descriptors[i] == nil {
			id = i
			break
		}
	}
	if id == -1 {
		return nil, -1, fserrors.ErrDescriptorTableFull
	}

	file, err := fs.openInodeFile(sector)
	if err != nil {
		return nil, -1, err
	}
	fs.descriptors[id] = &descriptor{file: file, path: path}
	fs.log.WithField("path", path).WithField("id", id).Debug("nachosfs: open complete")
	return file, id, nil
}

// Close releases descriptor id. Returns true on success, false if id is
// out of range or not currently open (spec.md §6's Close semantics).
func (fs *FileSystem) Close(id int) bool {
	if id <= 0 || id >= len(fs.descriptors) || fs.descriptors[id] == nil {
		return false
	}
	fs.descriptors[id] = nil
	return true
}

// Descriptor returns the open file handle at id, or nil if id is out of
// range or not currently open. Used by the syscall adapter to dispatch
// Read/Write against an already-open descriptor.
func (fs *FileSystem) Descriptor(id int) *openfile.File {
	if id <= 0 || id >= len(fs.descriptors) || fs.descriptors[id] == nil {
		return nil
	}
	return fs.descriptors[id].file
}
