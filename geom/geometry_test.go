package geom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PinYuan/nachosfs/geom"
)

func TestDefaultGeometryIsValid(t *testing.T) {
	g := geom.DefaultGeometry()
	assert.NoError(t, g.Validate())
	assert.Equal(t, 128, g.HeaderSize(), "a header must exactly fill one sector at the default geometry")
}

func TestHeaderSizeAccountsForScalarFieldsAndDirectPointers(t *testing.T) {
	g := geom.Geometry{SectorSize: 64, NumSectors: 16, NumDirect: 13, NumDirEntries: 2, MaxOpenFiles: 4}
	// 3 scalar int32 fields + 13 direct pointers, 4 bytes each.
	assert.Equal(t, (3+13)*4, g.HeaderSize())
}

func TestValidateRejectsHeaderTooBig(t *testing.T) {
	g := geom.Geometry{SectorSize: 32, NumSectors: 16, NumDirect: 13, NumDirEntries: 2, MaxOpenFiles: 4}
	assert.ErrorIs(t, g.Validate(), geom.ErrHeaderTooBig)
}

func TestValidateRejectsNonPositiveFields(t *testing.T) {
	base := geom.DefaultGeometry()

	zeroed := base
	zeroed.NumDirect = 0
	assert.ErrorIs(t, zeroed.Validate(), geom.ErrNonPositive)

	negative := base
	negative.MaxOpenFiles = -1
	assert.ErrorIs(t, negative.Validate(), geom.ErrNonPositive)
}

func TestValidateRejectsTooFewSectors(t *testing.T) {
	g := geom.DefaultGeometry()
	g.NumSectors = geom.DirectorySector
	assert.ErrorIs(t, g.Validate(), geom.ErrTooSmall)
}

func TestMaxFileSizeAndFreeMapFileSize(t *testing.T) {
	g := geom.DefaultGeometry()
	assert.Equal(t, g.NumDirect*g.SectorSize, g.MaxFileSize())
	assert.Equal(t, (g.NumSectors+7)/8, g.FreeMapFileSize())
}

func TestDirectoryFileSizeCountsFixedRecords(t *testing.T) {
	g := geom.DefaultGeometry()
	assert.Equal(t, g.NumDirEntries*g.DirectoryEntrySize(), g.DirectoryFileSize())
}
