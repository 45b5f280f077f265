// Package openfile implements spec.md's open-file handle: an in-memory
// cursor over one inode chain, used both as the facade's internal handle
// for reading/writing directory and bitmap file contents, and as the
// handle returned to callers of Open.
//
// Adapted from filesystem/fat32/file.go's File struct (an offset-tracking
// wrapper around a cluster chain whose Read/Write delegate to the
// filesystem's block I/O) — replaced FAT's cluster-chain-by-table lookup
// with inode.Header.ByteToSector.
package openfile

import (
	"fmt"
	"io"

	"github.com/PinYuan/nachosfs/blockdev"
	"github.com/PinYuan/nachosfs/geom"
	"github.com/PinYuan/nachosfs/inode"
)

// File is an open handle over one inode chain. Its lifetime is bounded by
// Open/Close; the facade also uses File internally (never exposed to
// Close by id) to read/write the root bitmap and root directory files.
type File struct {
	g       geom.Geometry
	dev     blockdev.Device
	hdr     *inode.Header
	headSec int
	offset  int
}

// New wraps hdr (whose first segment lives at headSector) as a cursor
// positioned at offset 0.
func New(g geom.Geometry, dev blockdev.Device, hdr *inode.Header, headSector int) *File {
	return &File{g: g, dev: dev, hdr: hdr, headSec: headSector}
}

// HeaderSector returns the sector of this file's first inode segment —
// used by the facade to detect root-directory handle aliasing by comparing
// it with DirectorySector.
func (f *File) HeaderSector() int {
	return f.headSec
}

// Length returns the file's total byte length (sum of segment numBytes).
func (f *File) Length() int {
	return f.hdr.FileLength()
}

// Header exposes the underlying inode chain, e.g. for Deallocate on Remove.
func (f *File) Header() *inode.Header {
	return f.hdr
}

// Seek repositions the cursor, io.Seeker-style.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	var newOffset int
	switch whence {
	case io.SeekStart:
		newOffset = int(offset)
	case io.SeekCurrent:
		newOffset = f.offset + int(offset)
	case io.SeekEnd:
		newOffset = f.hdr.FileLength() + int(offset)
	default:
		return 0, fmt.Errorf("openfile: invalid whence %d", whence)
	}
	if newOffset < 0 {
		return 0, fmt.Errorf("openfile: negative seek offset %d", newOffset)
	}
	f.offset = newOffset
	return int64(f.offset), nil
}

// Read reads into buf starting at the current cursor, advancing it,
// stopping at end of file.
func (f *File) Read(buf []byte) (int, error) {
	length := f.hdr.FileLength()
	if f.offset >= length {
		return 0, io.EOF
	}
	n := 0
	for n < len(buf) && f.offset < length {
		sector := f.hdr.ByteToSector(f.offset)
		if sector == inode.None {
			return n, fmt.Errorf("openfile: no sector mapped for offset %d", f.offset)
		}
		sectorBuf := make([]byte, f.g.SectorSize)
		if err := f.dev.ReadSector(sector, sectorBuf); err != nil {
			return n, fmt.Errorf("openfile: read sector %d: %w", sector, err)
		}
		within := f.offset % f.g.SectorSize
		avail := f.g.SectorSize - within
		remaining := length - f.offset
		if avail > remaining {
			avail = remaining
		}
		want := len(buf) - n
		if avail > want {
			avail = want
		}
		copy(buf[n:n+avail], sectorBuf[within:within+avail])
		n += avail
		f.offset += avail
	}
	return n, nil
}

// Write writes buf at the current cursor, advancing it. It never grows the
// file beyond its allocated length (spec.md's Non-goals exclude
// post-creation growth) — writing past FileLength() is an error.
func (f *File) Write(buf []byte) (int, error) {
	length := f.hdr.FileLength()
	if f.offset+len(buf) > length {
		return 0, fmt.Errorf("openfile: write of %d bytes at offset %d exceeds file length %d (growth unsupported)", len(buf), f.offset, length)
	}
	n := 0
	for n < len(buf) {
		sector := f.hdr.ByteToSector(f.offset)
		if sector == inode.None {
			return n, fmt.Errorf("openfile: no sector mapped for offset %d", f.offset)
		}
		sectorBuf := make([]byte, f.g.SectorSize)
		if err := f.dev.ReadSector(sector, sectorBuf); err != nil {
			return n, fmt.Errorf("openfile: read-modify-write sector %d: %w", sector, err)
		}
		within := f.offset % f.g.SectorSize
		avail := f.g.SectorSize - within
		want := len(buf) - n
		if avail > want {
			avail = want
		}
		copy(sectorBuf[within:within+avail], buf[n:n+avail])
		if err := f.dev.WriteSector(sector, sectorBuf); err != nil {
			return n, fmt.Errorf("openfile: write sector %d: %w", sector, err)
		}
		n += avail
		f.offset += avail
	}
	return n, nil
}

// ReadAll reads the file's full contents from offset 0, for the facade's
// internal bitmap/directory (de)serialization needs.
func (f *File) ReadAll() ([]byte, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	buf := make([]byte, f.hdr.FileLength())
	if _, err := io.ReadFull(f, buf); err != nil && err != io.EOF {
		return nil, err
	}
	return buf, nil
}

// WriteAll writes data at offset 0. Data longer than the file is rejected;
// shorter data leaves the file's remaining bytes unchanged.
func (f *File) WriteAll(data []byte) error {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	_, err := f.Write(data)
	return err
}
