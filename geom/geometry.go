// Package geom collects the disk-layout constants spec.md §3 fixes at
// build time. It is its own package (rather than living in the root
// nachosfs package) so every leaf component — bitmap, inode, dirent,
// pathwalk, openfile — can depend on it without creating an import cycle
// back through the facade.
package geom

import "errors"

var (
	ErrNonPositive  = errors.New("geometry fields must all be positive")
	ErrHeaderTooBig = errors.New("NumDirect does not fit an inode header in one sector")
	ErrTooSmall     = errors.New("NumSectors must be greater than DirectorySector")
)

const (
	// FreeMapSector is the well-known inode sector of the root bitmap file.
	FreeMapSector = 0
	// DirectorySector is the well-known inode sector of the root directory file.
	DirectorySector = 1

	// headerScalarFields is numBytes, numSectors, nextHeaderSector: three int32s.
	headerScalarFields = 3
	int32Size           = 4

	// DirNameMaxLen bounds a directory entry's name length (spec.md §6's
	// "fixed-length zero-padded bytes").
	DirNameMaxLen = 9
)

// Geometry is the set of disk-layout constants spec.md §3 fixes at build
// time, parameterized here so tests can exercise small fixtures.
type Geometry struct {
	// SectorSize is bytes per sector.
	SectorSize int
	// NumSectors is the total number of sectors on the disk.
	NumSectors int
	// NumDirect is the number of direct sector pointers per inode header,
	// chosen so one header fits exactly in SectorSize bytes.
	NumDirect int
	// NumDirEntries is the fixed capacity of a directory file.
	NumDirEntries int
	// MaxOpenFiles bounds the process-wide descriptor table (MAXFILENUM).
	MaxOpenFiles int
}

// MaxFileSize is the number of data bytes addressable by a single inode
// segment before it must chain to a successor (spec.md §3).
func (g Geometry) MaxFileSize() int {
	return g.NumDirect * g.SectorSize
}

// HeaderSize is the number of bytes required to encode one inode segment:
// three int32 scalar fields plus NumDirect int32 direct pointers. It must
// not exceed SectorSize (spec.md §6).
func (g Geometry) HeaderSize() int {
	return (headerScalarFields + g.NumDirect) * int32Size
}

// Validate reports whether this geometry is internally consistent: a
// header must fit in one sector, and the well-known sectors must be
// reserved.
func (g Geometry) Validate() error {
	if g.SectorSize <= 0 || g.NumSectors <= 0 || g.NumDirect <= 0 || g.NumDirEntries <= 0 || g.MaxOpenFiles <= 0 {
		return ErrNonPositive
	}
	if g.HeaderSize() > g.SectorSize {
		return ErrHeaderTooBig
	}
	if g.NumSectors <= DirectorySector {
		return ErrTooSmall
	}
	return nil
}

// FreeMapFileSize is the number of bytes the bitmap file occupies: one bit
// per sector, packed 8 to a byte (spec.md §6).
func (g Geometry) FreeMapFileSize() int {
	return (g.NumSectors + 7) / 8
}

// DirectoryEntrySize is the on-disk size of one directory entry record:
// inUse byte, isDir byte, sector int32, fixed-length name.
func (g Geometry) DirectoryEntrySize() int {
	return 2 + int32Size + DirNameMaxLen
}

// DirectoryFileSize is the number of bytes a directory file's contents
// occupy: NumDirEntries fixed-size records.
func (g Geometry) DirectoryFileSize() int {
	return g.NumDirEntries * g.DirectoryEntrySize()
}

// DefaultGeometry is close to the worked example of spec.md §8
// (SectorSize=128, NumSectors=64, NumDirEntries=10) with one correction:
// spec.md §8 illustrates NumDirect=30, but spec.md §3/§6 simultaneously
// requires a header's three int32 scalar fields (numBytes, numSectors,
// nextHeaderSector) plus NumDirect int32 direct pointers to fit within one
// SectorSize=128 sector — (3+30)*4 = 132 bytes overflows a 128-byte sector
// by one int32. NumDirect=30 is the original (unchained) Nachos constant
// ((128-2*4)/4); adding nextHeaderSector for chaining costs one more slot.
// This implementation honors the hard layout invariant over the
// illustrative number and uses NumDirect=29, giving MaxFileSize=3712
// instead of 3840 (see DESIGN.md).
func DefaultGeometry() Geometry {
	return Geometry{
		SectorSize:    128,
		NumSectors:    64,
		NumDirect:     29,
		NumDirEntries: 10,
		MaxOpenFiles:  32,
	}
}
