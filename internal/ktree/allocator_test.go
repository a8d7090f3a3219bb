package ktree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocator_Float32s(t *testing.T) {
	a := NewAllocator(10)

	first := a.Float32s(4)
	second := a.Float32s(4)
	require.Len(t, first, 4)
	require.Len(t, second, 4)
	assert.Equal(t, 4, cap(first), "slices must be capacity-clipped")

	first[3] = 7
	assert.Equal(t, float32(0), second[0], "adjacent slices must not overlap")

	// does not fit the 2 values left in the chunk
	third := a.Float32s(4)
	require.Len(t, third, 4)

	big := a.Float32s(25)
	require.Len(t, big, 25)

	stats := a.Stats()
	assert.Equal(t, uint64(4), stats.Allocs)
	assert.Equal(t, uint64(37), stats.FloatsUsed)
	assert.Equal(t, uint64(3), stats.Chunks)
	assert.Equal(t, uint64(45), stats.FloatsReserved)

	assert.Nil(t, a.Float32s(0))

	a.Reset()
	assert.Equal(t, Stats{}, a.Stats())
}

func TestAllocator_Nil(t *testing.T) {
	var a *Allocator
	v := a.Float32s(3)
	assert.Equal(t, []float32{0, 0, 0}, v)
}

func TestNewAllocator_Default(t *testing.T) {
	a := NewAllocator(-1)
	a.Float32s(1)
	assert.Equal(t, uint64(DefaultChunkFloats), a.Stats().FloatsReserved)
}
