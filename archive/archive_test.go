package archive_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PinYuan/nachosfs/archive"
	"github.com/PinYuan/nachosfs/blockdev"
)

func fillDevice(t *testing.T, dev *blockdev.MemDevice) {
	t.Helper()
	buf := make([]byte, dev.SectorSize())
	for s := 0; s < dev.NumSectors(); s++ {
		for i := range buf {
			buf[i] = byte(s + i)
		}
		require.NoError(t, dev.WriteSector(s, buf))
	}
}

func assertDevicesEqual(t *testing.T, want, got *blockdev.MemDevice) {
	t.Helper()
	wantBuf := make([]byte, want.SectorSize())
	gotBuf := make([]byte, got.SectorSize())
	for s := 0; s < want.NumSectors(); s++ {
		require.NoError(t, want.ReadSector(s, wantBuf))
		require.NoError(t, got.ReadSector(s, gotBuf))
		assert.Equal(t, wantBuf, gotBuf, "sector %d", s)
	}
}

func TestSnapshotRestoreRoundTripXZ(t *testing.T) {
	src := blockdev.NewMemDevice(4, 32)
	fillDevice(t, src)

	var buf bytes.Buffer
	require.NoError(t, archive.Snapshot(src, &buf, archive.XZ))

	dst := blockdev.NewMemDevice(4, 32)
	require.NoError(t, archive.Restore(dst, &buf, archive.XZ))

	assertDevicesEqual(t, src, dst)
}

func TestSnapshotRestoreRoundTripLZ4(t *testing.T) {
	src := blockdev.NewMemDevice(4, 32)
	fillDevice(t, src)

	var buf bytes.Buffer
	require.NoError(t, archive.Snapshot(src, &buf, archive.LZ4))

	dst := blockdev.NewMemDevice(4, 32)
	require.NoError(t, archive.Restore(dst, &buf, archive.LZ4))

	assertDevicesEqual(t, src, dst)
}

func TestSnapshotUnknownCodec(t *testing.T) {
	src := blockdev.NewMemDevice(1, 8)
	var buf bytes.Buffer
	assert.Error(t, archive.Snapshot(src, &buf, "unknown"))
}
