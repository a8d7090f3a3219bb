package ktree

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pushAll(t *testing.T, tree *Tree, alloc *Allocator, points [][]float32) []*Object {
	t.Helper()
	objects := make([]*Object, 0, len(points))
	for _, p := range points {
		obj := tree.NewObject(alloc)
		copy(obj.Vector, p)
		require.NoError(t, tree.PushBack(alloc, obj))
		objects = append(objects, obj)
	}
	return objects
}

func randomPoints(seed int64, n, dims int) [][]float32 {
	rng := rand.New(rand.NewSource(seed))
	out := make([][]float32, n)
	for i := range out {
		out[i] = make([]float32, dims)
		for d := range out[i] {
			out[i][d] = rng.Float32()*100 - 50
		}
	}
	return out
}

func TestNew_Validation(t *testing.T) {
	alloc := NewAllocator(0)

	_, err := New(alloc, 1, 3)
	assert.ErrorIs(t, err, ErrInvalidOrder)
	_, err = New(alloc, 1_000_001, 3)
	assert.ErrorIs(t, err, ErrInvalidOrder)
	_, err = New(alloc, 4, 0)
	assert.ErrorIs(t, err, ErrInvalidDimensions)
	_, err = New(nil, 4, 3)
	assert.Error(t, err)

	for _, order := range []int{MinOrder, MaxOrder} {
		tree, err := New(alloc, order, 3)
		require.NoError(t, err)
		assert.Equal(t, order, tree.Order())
		assert.Equal(t, 3, tree.Dimensions())
		assert.Equal(t, DistanceEuclidean, tree.Distance())
	}
}

func TestNew_Options(t *testing.T) {
	tree, err := New(NewAllocator(0), 4, 2, WithDistance(DistanceCosine), WithSplitIterations(3))
	require.NoError(t, err)
	assert.Equal(t, DistanceCosine, tree.Distance())
	assert.Equal(t, 3, tree.splitIterations)

	tree, err = New(NewAllocator(0), 4, 2, WithDistance("bogus"), WithSplitIterations(0))
	require.NoError(t, err)
	assert.Equal(t, DistanceEuclidean, tree.Distance())
	assert.Equal(t, defaultSplitIterations, tree.splitIterations)
}

func TestTree_PushBack(t *testing.T) {
	testCases := []struct {
		name  string
		order int
		n     int
		dims  int
	}{
		{name: "single", order: 2, n: 1, dims: 2},
		{name: "order 2", order: 2, n: 200, dims: 2},
		{name: "order 5", order: 5, n: 500, dims: 8},
		{name: "wide", order: 64, n: 300, dims: 3},
		{name: "below order", order: 1000, n: 50, dims: 4},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			alloc := NewAllocator(0)
			tree, err := New(alloc, tc.order, tc.dims)
			require.NoError(t, err)
			objects := pushAll(t, tree, alloc, randomPoints(int64(tc.n), tc.n, tc.dims))

			assert.Equal(t, tc.n, tree.Len())
			require.NoError(t, tree.Validate())

			seen := make(map[*Object]int)
			for _, obj := range tree.Objects() {
				seen[obj]++
			}
			assert.Len(t, seen, tc.n)
			for _, obj := range objects {
				assert.Equal(t, 1, seen[obj], "every object is stored exactly once")
			}
			if tc.n <= tc.order {
				assert.Equal(t, 1, tree.Depth())
			} else {
				assert.Greater(t, tree.Depth(), 1)
			}
		})
	}
}

func TestTree_PushBackDuplicates(t *testing.T) {
	alloc := NewAllocator(0)
	tree, err := New(alloc, 2, 2)
	require.NoError(t, err)
	points := make([][]float32, 40)
	for i := range points {
		points[i] = []float32{1, 1}
	}
	pushAll(t, tree, alloc, points)
	assert.Equal(t, 40, tree.Len())
	assert.NoError(t, tree.Validate())
}

func TestTree_PushBackCosine(t *testing.T) {
	alloc := NewAllocator(0)
	tree, err := New(alloc, 3, 4, WithDistance(DistanceCosine))
	require.NoError(t, err)
	pushAll(t, tree, alloc, randomPoints(7, 120, 4))
	assert.NoError(t, tree.Validate())
}

func TestTree_SeparatesClusters(t *testing.T) {
	alloc := NewAllocator(0)
	tree, err := New(alloc, 4, 2)
	require.NoError(t, err)
	var points [][]float32
	for i := 0; i < 4; i++ {
		points = append(points, []float32{float32(i) * 0.1, 0}, []float32{100 + float32(i)*0.1, 100})
	}
	pushAll(t, tree, alloc, points)
	require.Equal(t, 2, tree.Depth())
	require.NoError(t, tree.Validate())

	for _, e := range tree.root.entries {
		first := e.child.entries[0].vector[0] < 50
		for _, leaf := range e.child.entries {
			assert.Equal(t, first, leaf.vector[0] < 50, "each leaf holds a single cluster")
		}
	}
}

func TestTree_PushBackErrors(t *testing.T) {
	alloc := NewAllocator(0)
	tree, err := New(alloc, 4, 3)
	require.NoError(t, err)

	assert.ErrorIs(t, tree.PushBack(alloc, &Object{Vector: []float32{1, 2}}), ErrDimensionMismatch)
	assert.ErrorIs(t, tree.PushBack(alloc, &Object{Vector: []float32{1, 2, 3, 4}}), ErrDimensionMismatch)
	assert.ErrorIs(t, tree.PushBack(alloc, nil), ErrDimensionMismatch)
	assert.Error(t, tree.PushBack(nil, tree.NewObject(alloc)))
	assert.Equal(t, 0, tree.Len())
	assert.Equal(t, 0, tree.Depth())
	assert.NoError(t, tree.Validate())
	assert.Empty(t, tree.Objects())
}

func TestSelfTests(t *testing.T) {
	assert.NoError(t, ObjectSelfTest())
	assert.NoError(t, TreeSelfTest())
}
