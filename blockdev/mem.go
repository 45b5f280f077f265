package blockdev

// MemDevice is an in-memory Device, used by tests and by callers who want
// to Format a disk without touching the filesystem. Its role is the one
// testhelper/fileimpl.go played in the teacher: an in-test fake backing
// store, generalized here into a first-class Device so production code
// (not just tests) can target memory.
type MemDevice struct {
	sectorSize int
	sectors    [][]byte
}

// NewMemDevice allocates a zero-filled in-memory device of the given geometry.
func NewMemDevice(numSectors, sectorSize int) *MemDevice {
	sectors := make([][]byte, numSectors)
	for i := range sectors {
		sectors[i] = make([]byte, sectorSize)
	}
	return &MemDevice{sectorSize: sectorSize, sectors: sectors}
}

func (d *MemDevice) NumSectors() int { return len(d.sectors) }
func (d *MemDevice) SectorSize() int { return d.sectorSize }

func (d *MemDevice) ReadSector(s int, buf []byte) error {
	if err := checkRange(s, len(d.sectors)); err != nil {
		return err
	}
	if err := checkBufLen(buf, d.sectorSize, "ReadSector"); err != nil {
		return err
	}
	copy(buf, d.sectors[s])
	return nil
}

func (d *MemDevice) WriteSector(s int, buf []byte) error {
	if err := checkRange(s, len(d.sectors)); err != nil {
		return err
	}
	if err := checkBufLen(buf, d.sectorSize, "WriteSector"); err != nil {
		return err
	}
	copy(d.sectors[s], buf)
	return nil
}

func (d *MemDevice) Close() error { return nil }
