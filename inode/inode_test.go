package inode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PinYuan/nachosfs/bitmap"
	"github.com/PinYuan/nachosfs/blockdev"
	"github.com/PinYuan/nachosfs/geom"
	"github.com/PinYuan/nachosfs/inode"
)

func testGeometry() geom.Geometry {
	return geom.Geometry{
		SectorSize:    128,
		NumSectors:    64,
		NumDirect:     29,
		NumDirEntries: 10,
		MaxOpenFiles:  32,
	}
}

func TestAllocateWithinOneSegment(t *testing.T) {
	g := testGeometry()
	bm := bitmap.New(g.NumSectors)
	dev := blockdev.NewMemDevice(g.NumSectors, g.SectorSize)

	h := inode.New(g)
	consumed, err := h.Allocate(bm, dev, 300)
	require.NoError(t, err)
	assert.Equal(t, g.SectorSize, consumed)
	assert.Equal(t, 3, h.NumSectors())
	assert.Equal(t, 300, h.FileLength())
	assert.Equal(t, inode.None, h.NextHeaderSector())
}

func TestAllocateChainsPastMaxFileSize(t *testing.T) {
	g := testGeometry()
	bm := bitmap.New(g.NumSectors)
	dev := blockdev.NewMemDevice(g.NumSectors, g.SectorSize)

	h := inode.New(g)
	requested := g.MaxFileSize() + 10
	_, err := h.Allocate(bm, dev, requested)
	require.NoError(t, err)

	assert.Equal(t, requested, h.FileLength())
	assert.NotEqual(t, inode.None, h.NextHeaderSector())
}

func TestAllocateInsufficientSpaceLeavesNoPartialHeader(t *testing.T) {
	g := testGeometry()
	bm := bitmap.New(g.NumSectors)
	dev := blockdev.NewMemDevice(g.NumSectors, g.SectorSize)

	// Exhaust all but two sectors.
	for bm.NumClear() > 2 {
		bm.FindAndSet()
	}

	h := inode.New(g)
	_, err := h.Allocate(bm, dev, g.MaxFileSize())
	require.Error(t, err)
	assert.Equal(t, 0, h.FileLength())
	assert.Equal(t, 0, h.NumSectors())
	assert.Equal(t, inode.None, h.NextHeaderSector())
	assert.Equal(t, 2, bm.NumClear())
}

func TestWriteBackFetchFromRoundTrip(t *testing.T) {
	g := testGeometry()
	bm := bitmap.New(g.NumSectors)
	dev := blockdev.NewMemDevice(g.NumSectors, g.SectorSize)

	h := inode.New(g)
	requested := g.MaxFileSize() + 40
	_, err := h.Allocate(bm, dev, requested)
	require.NoError(t, err)
	require.NoError(t, h.WriteBack(dev, 10))

	fetched, err := inode.FetchFrom(g, dev, 10)
	require.NoError(t, err)
	assert.Equal(t, h.FileLength(), fetched.FileLength())
	assert.Equal(t, h.NumSectors(), fetched.NumSectors())
}

func TestByteToSectorAcrossSegments(t *testing.T) {
	g := testGeometry()
	bm := bitmap.New(g.NumSectors)
	dev := blockdev.NewMemDevice(g.NumSectors, g.SectorSize)

	h := inode.New(g)
	_, err := h.Allocate(bm, dev, g.MaxFileSize()+5)
	require.NoError(t, err)

	first := h.ByteToSector(0)
	second := h.ByteToSector(g.MaxFileSize())
	assert.NotEqual(t, inode.None, first)
	assert.NotEqual(t, inode.None, second)
	assert.NotEqual(t, first, second)
}

func TestDeallocateFreesSectorsAndSuccessorHeader(t *testing.T) {
	g := testGeometry()
	bm := bitmap.New(g.NumSectors)
	dev := blockdev.NewMemDevice(g.NumSectors, g.SectorSize)

	h := inode.New(g)
	_, err := h.Allocate(bm, dev, g.MaxFileSize()+20)
	require.NoError(t, err)
	before := bm.NumClear()

	require.NoError(t, h.Deallocate(bm))
	assert.Greater(t, bm.NumClear(), before, "deallocate must free every data sector plus the successor header")
}
