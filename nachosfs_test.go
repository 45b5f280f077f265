package nachosfs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PinYuan/nachosfs"
	"github.com/PinYuan/nachosfs/blockdev"
	"github.com/PinYuan/nachosfs/fserrors"
)

func newTestDevice(t *testing.T, g nachosfs.Geometry) blockdev.Device {
	t.Helper()
	return blockdev.NewMemDevice(g.NumSectors, g.SectorSize)
}

func formatted(t *testing.T) (*nachosfs.FileSystem, nachosfs.Geometry) {
	t.Helper()
	g := nachosfs.DefaultGeometry()
	dev := newTestDevice(t, g)
	fs, err := nachosfs.Format(g, dev)
	require.NoError(t, err)
	return fs, g
}

func TestFormatStartsEmpty(t *testing.T) {
	fs, _ := formatted(t)
	var names []string
	require.NoError(t, fs.List(false, "/", func(line string) { names = append(names, line) }))
	assert.Empty(t, names)
}

func TestCreateThenOpenReadWrite(t *testing.T) {
	fs, _ := formatted(t)

	require.NoError(t, fs.Create("/hello.txt", 13, false))

	file, id, err := fs.Open("/hello.txt")
	require.NoError(t, err)
	assert.Greater(t, id, 0)

	require.NoError(t, file.WriteAll([]byte("hello, world!")))
	got, err := file.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "hello, world!", string(got))
	assert.True(t, fs.Close(id))
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	fs, _ := formatted(t)
	require.NoError(t, fs.Create("/dup", 0, false))
	err := fs.Create("/dup", 0, false)
	assert.ErrorIs(t, err, fserrors.ErrAlreadyExists)
}

func TestCreateRejectsUnknownDirectory(t *testing.T) {
	fs, _ := formatted(t)
	err := fs.Create("/nosuchdir/file", 0, false)
	assert.ErrorIs(t, err, fserrors.ErrNotFound)
}

func TestCreateDirectoryThenNestedFile(t *testing.T) {
	fs, _ := formatted(t)
	require.NoError(t, fs.Create("/sub", 0, true))
	require.NoError(t, fs.Create("/sub/leaf.txt", 5, false))

	var names []string
	require.NoError(t, fs.List(true, "/", func(line string) { names = append(names, line) }))
	assert.Contains(t, names, "sub/")
	assert.Contains(t, names, "  leaf.txt")
}

func TestOpenFailsOnMissingFile(t *testing.T) {
	fs, _ := formatted(t)
	_, _, err := fs.Open("/missing")
	assert.ErrorIs(t, err, fserrors.ErrNotFound)
}

func TestDescriptorTableFillsUpAndFrees(t *testing.T) {
	// NumDirEntries comfortably exceeds MaxOpenFiles here so the directory
	// itself is never the limiting factor; only the descriptor table is
	// under test.
	g := nachosfs.Geometry{SectorSize: 128, NumSectors: 64, NumDirect: 29, NumDirEntries: 10, MaxOpenFiles: 3}
	dev := newTestDevice(t, g)
	fs, err := nachosfs.Format(g, dev)
	require.NoError(t, err)

	for i := 0; i < g.MaxOpenFiles; i++ {
		require.NoError(t, fs.Create(pathFor(i), 0, false))
	}
	ids := make([]int, 0, g.MaxOpenFiles)
	for i := 0; i < g.MaxOpenFiles; i++ {
		_, id, err := fs.Open(pathFor(i))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	_, _, err = fs.Open(pathFor(0))
	assert.ErrorIs(t, err, fserrors.ErrDescriptorTableFull)

	assert.True(t, fs.Close(ids[0]))
	_, id, err := fs.Open(pathFor(0))
	require.NoError(t, err)
	assert.Equal(t, ids[0], id, "the freed slot should be reused as the lowest free id")
}

func pathFor(i int) string {
	return "/f" + string(rune('a'+i))
}

func TestRemoveFile(t *testing.T) {
	fs, _ := formatted(t)
	require.NoError(t, fs.Create("/gone", 20, false))

	require.NoError(t, fs.Remove(false, "/gone"))

	_, _, err := fs.Open("/gone")
	assert.ErrorIs(t, err, fserrors.ErrNotFound)
}

func TestRemoveNonEmptyDirectoryFailsWithoutRecursive(t *testing.T) {
	fs, _ := formatted(t)
	require.NoError(t, fs.Create("/d", 0, true))
	require.NoError(t, fs.Create("/d/leaf", 0, false))

	err := fs.Remove(false, "/d")
	assert.ErrorIs(t, err, fserrors.ErrDirectoryNotEmpty)
}

func TestRemoveRecursiveDeletesChildren(t *testing.T) {
	fs, _ := formatted(t)
	require.NoError(t, fs.Create("/d", 0, true))
	require.NoError(t, fs.Create("/d/leaf", 0, false))

	require.NoError(t, fs.Remove(true, "/d"))

	var names []string
	require.NoError(t, fs.List(false, "/", func(line string) { names = append(names, line) }))
	assert.Empty(t, names)
}

func TestRemoveFreesSpaceForReuse(t *testing.T) {
	fs, g := formatted(t)
	require.NoError(t, fs.Create("/big", g.MaxFileSize(), false))
	require.NoError(t, fs.Remove(false, "/big"))

	// After freeing, the same amount of space should be allocatable again.
	require.NoError(t, fs.Create("/big2", g.MaxFileSize(), false))
}

func TestOpenCloseRoundTripSurvivesRemount(t *testing.T) {
	g := nachosfs.DefaultGeometry()
	dev := newTestDevice(t, g)

	fs, err := nachosfs.Format(g, dev)
	require.NoError(t, err)
	require.NoError(t, fs.Create("/persisted", 4, false))
	file, id, err := fs.Open("/persisted")
	require.NoError(t, err)
	require.NoError(t, file.WriteAll([]byte("abcd")))
	require.True(t, fs.Close(id))

	reopened, err := nachosfs.Open(g, dev)
	require.NoError(t, err)
	file2, id2, err := reopened.Open("/persisted")
	require.NoError(t, err)
	defer reopened.Close(id2)

	got, err := file2.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "abcd", string(got))
}

func TestPrintProducesNonEmptyOutput(t *testing.T) {
	fs, _ := formatted(t)
	require.NoError(t, fs.Create("/afile", 4, false))

	var lines []string
	require.NoError(t, fs.Print(func(line string) { lines = append(lines, line) }))
	assert.NotEmpty(t, lines)
}
