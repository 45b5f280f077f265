// Package dirent implements the fixed-capacity directory of spec.md §4.3:
// a sealed name table distinguishing files from sub-directories, itself
// stored as a regular file via its inode.
//
// Adapted from filesystem/fat32/directory.go's createEntry/removeEntry
// (append-on-create, scan-then-mutate) with FAT32's growable
// []*directoryEntry replaced by a fixed [NumDirEntries]entry array and
// first-free-slot reuse, since spec.md requires a sealed capacity table
// rather than FAT32's cluster-chained growable directory.
package dirent

import (
	"encoding/binary"
	"fmt"

	"github.com/PinYuan/nachosfs/fserrors"
	"github.com/PinYuan/nachosfs/geom"
)

// Entry is one slot of a directory's fixed-capacity table.
type Entry struct {
	InUse  bool
	IsDir  bool
	Sector int
	Name   string
}

// Directory is a fixed-capacity name table, serialized and stored as a
// regular file via its inode (spec.md §4.3).
type Directory struct {
	g       geom.Geometry
	entries []Entry
}

// New returns an empty directory with g.NumDirEntries slots.
func New(g geom.Geometry) *Directory {
	return &Directory{g: g, entries: make([]Entry, g.NumDirEntries)}
}

// Find returns the sector of name's first inode, or -1 if absent.
func (d *Directory) Find(name string) int {
	for _, e := range d.entries {
		if e.InUse && e.Name == name {
			return e.Sector
		}
	}
	return -1
}

// IsDir reports whether name exists and is a sub-directory.
func (d *Directory) IsDir(name string) bool {
	for _, e := range d.entries {
		if e.InUse && e.Name == name {
			return e.IsDir
		}
	}
	return false
}

// Add populates the first free slot with (name, sector, isDir). It returns
// false when the directory is full or name is already present; the caller
// maps false to fserrors.ErrDirectoryFull or fserrors.ErrAlreadyExists as
// appropriate (spec.md doesn't distinguish the two at this layer — Add's
// boolean return mirrors the teacher's createEntry/removeEntry contract).
func (d *Directory) Add(name string, sector int, isDir bool) bool {
	if d.Find(name) != -1 {
		return false
	}
	for i := range d.entries {
		if !d.entries[i].InUse {
			d.entries[i] = Entry{InUse: true, IsDir: isDir, Sector: sector, Name: name}
			return true
		}
	}
	return false
}

// Remove clears InUse on the matching slot. Returns true on success, false
// if name is absent — spec.md §9 notes the source inverted this return
// value as "almost certainly a bug"; this implementation uses the
// corrected, uniform "true on success" convention throughout.
func (d *Directory) Remove(name string) bool {
	for i := range d.entries {
		if d.entries[i].InUse && d.entries[i].Name == name {
			d.entries[i] = Entry{}
			return true
		}
	}
	return false
}

// Clone returns a deep copy, used by the facade to hold a working copy
// that is discarded (never written back) on any mid-operation failure —
// spec.md §7's "only consistency guarantee".
func (d *Directory) Clone() *Directory {
	clone := &Directory{g: d.g, entries: make([]Entry, len(d.entries))}
	copy(clone.entries, d.entries)
	return clone
}

// Entries returns the in-use entries in slot order, the order List and
// recursive Remove iterate in (spec.md §4.5 step 2).
func (d *Directory) Entries() []Entry {
	out := make([]Entry, 0, len(d.entries))
	for _, e := range d.entries {
		if e.InUse {
			out = append(out, e)
		}
	}
	return out
}

// FromBytes decodes the fixed-capacity entry array from a directory file's
// contents: each record is {inUse byte, isDir byte, sector int32 LE, name
// fixed-length zero-padded bytes} (spec.md §6).
func (d *Directory) FromBytes(raw []byte) error {
	recSize := d.g.DirectoryEntrySize()
	want := d.g.NumDirEntries * recSize
	if len(raw) < want {
		return fmt.Errorf("dirent: directory body is %d bytes, need %d", len(raw), want)
	}
	entries := make([]Entry, d.g.NumDirEntries)
	for i := 0; i < d.g.NumDirEntries; i++ {
		rec := raw[i*recSize : (i+1)*recSize]
		inUse := rec[0] != 0
		isDir := rec[1] != 0
		sector := int(int32(binary.LittleEndian.Uint32(rec[2:6])))
		nameBytes := rec[6:recSize]
		name := decodeName(nameBytes)
		entries[i] = Entry{InUse: inUse, IsDir: isDir, Sector: sector, Name: name}
	}
	d.entries = entries
	return nil
}

// ToBytes encodes the entry array back to a directory file's contents.
func (d *Directory) ToBytes() []byte {
	recSize := d.g.DirectoryEntrySize()
	out := make([]byte, d.g.NumDirEntries*recSize)
	for i, e := range d.entries {
		rec := out[i*recSize : (i+1)*recSize]
		if e.InUse {
			rec[0] = 1
		}
		if e.IsDir {
			rec[1] = 1
		}
		binary.LittleEndian.PutUint32(rec[2:6], uint32(int32(e.Sector)))
		copy(rec[6:recSize], encodeName(e.Name, recSize-6))
	}
	return out
}

func encodeName(name string, maxLen int) []byte {
	b := make([]byte, maxLen)
	copy(b, name)
	return b
}

func decodeName(b []byte) string {
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}
	return string(b[:end])
}

// ValidateName checks a path component against the entry name capacity and
// the "no dot/dot-dot" rule (spec.md §4.3/§6).
func ValidateName(g geom.Geometry, name string) error {
	if name == "" || name == "." || name == ".." {
		return fserrors.ErrInvalidPath
	}
	if len(name) > g.DirectoryEntrySize()-6 {
		return fmt.Errorf("dirent: name %q exceeds maximum length %d: %w", name, g.DirectoryEntrySize()-6, fserrors.ErrInvalidPath)
	}
	return nil
}
