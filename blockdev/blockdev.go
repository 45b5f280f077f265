// Package blockdev provides the synchronous, sector-granular block device
// nachosfs's core is built on top of. It is deliberately the thinnest
// possible adapter: exactly one sector read or one sector write blocks the
// caller until it completes, numbered 0..NumSectors-1, with an out-of-range
// address treated as fatal.
package blockdev

import (
	"fmt"
	"time"

	"github.com/PinYuan/nachosfs/fserrors"
)

// Device is the synchronous block device the core consumes. It is the
// out-of-scope "external collaborator" of spec.md §1/§6.
type Device interface {
	// NumSectors returns the fixed number of sectors on this device.
	NumSectors() int
	// SectorSize returns the fixed number of bytes per sector.
	SectorSize() int
	// ReadSector reads exactly SectorSize() bytes from sector s into buf.
	ReadSector(s int, buf []byte) error
	// WriteSector writes exactly SectorSize() bytes from buf to sector s.
	WriteSector(s int, buf []byte) error
	// Close releases any underlying OS resources.
	Close() error
}

// Stat reports diagnostic metadata about a file-backed device's backing
// store, mirroring the teacher's disk.Disk.Info field plus a birth-time
// extension (see SPEC_FULL.md §3).
type Stat struct {
	Name      string
	Size      int64
	HasBirth  bool
	BirthTime time.Time // zero unless HasBirth; populated via gopkg.in/djherbis/times.v1
}

func checkRange(s, numSectors int) error {
	if s < 0 || s >= numSectors {
		return fserrors.NewInvalidSectorError(s, numSectors)
	}
	return nil
}

func checkBufLen(buf []byte, sectorSize int, op string) error {
	if len(buf) != sectorSize {
		return fmt.Errorf("%s: buffer length %d does not match sector size %d", op, len(buf), sectorSize)
	}
	return nil
}
