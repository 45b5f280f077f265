package bitmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PinYuan/nachosfs/bitmap"
)

func TestNewAllFree(t *testing.T) {
	bm := bitmap.New(16)
	assert.Equal(t, 16, bm.NumClear())
	assert.Equal(t, 16, bm.NumSectors())
}

func TestMarkClearTest(t *testing.T) {
	bm := bitmap.New(8)
	require.NoError(t, bm.Mark(3))
	set, err := bm.Test(3)
	require.NoError(t, err)
	assert.True(t, set)
	assert.Equal(t, 7, bm.NumClear())

	require.NoError(t, bm.Clear(3))
	set, err = bm.Test(3)
	require.NoError(t, err)
	assert.False(t, set)
	assert.Equal(t, 8, bm.NumClear())
}

func TestOutOfRange(t *testing.T) {
	bm := bitmap.New(4)
	assert.Error(t, bm.Mark(-1))
	assert.Error(t, bm.Mark(4))
	_, err := bm.Test(10)
	assert.Error(t, err)
}

func TestFindAndSetLowestFirst(t *testing.T) {
	bm := bitmap.New(4)
	require.NoError(t, bm.Mark(0))

	got := bm.FindAndSet()
	assert.Equal(t, 1, got)
	set, _ := bm.Test(1)
	assert.True(t, set)
}

func TestFindAndSetExhausted(t *testing.T) {
	bm := bitmap.New(2)
	assert.Equal(t, 0, bm.FindAndSet())
	assert.Equal(t, 1, bm.FindAndSet())
	assert.Equal(t, -1, bm.FindAndSet())
}

func TestToBytesFromBytesRoundTrip(t *testing.T) {
	bm := bitmap.New(20)
	require.NoError(t, bm.Mark(0))
	require.NoError(t, bm.Mark(9))
	require.NoError(t, bm.Mark(19))

	raw := bm.ToBytes()

	other := bitmap.New(20)
	other.FromBytes(raw)

	for _, s := range []int{0, 9, 19} {
		set, err := other.Test(s)
		require.NoError(t, err)
		assert.True(t, set, "sector %d should be marked after round trip", s)
	}
	assert.Equal(t, 17, other.NumClear())
}

func TestClone(t *testing.T) {
	bm := bitmap.New(8)
	require.NoError(t, bm.Mark(2))

	clone := bm.Clone()
	require.NoError(t, clone.Mark(5))

	set, _ := bm.Test(5)
	assert.False(t, set, "mutating the clone must not affect the original")
}
