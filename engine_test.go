package meanshift

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverge_MovesToLocalMean(t *testing.T) {
	data := [][]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {10, 10}}
	flat, n, dims := flatOf(data)
	idx := NewKDTree(flat, n, dims, EuclideanMetric{}, 2)

	seed := []float64{0.2, 0.2}
	r := converge(seed, 7, idx, EuclideanMetric{}, 2, 300, 1e-3)
	require.True(t, r.ok)
	assert.InDelta(t, 0.5, r.candidate.Center[0], floatTol)
	assert.InDelta(t, 0.5, r.candidate.Center[1], floatTol)
	assert.Equal(t, 4, r.candidate.Support)
	assert.Equal(t, 7, r.candidate.Seed)
	assert.Equal(t, 2, r.iterations)
	assert.Equal(t, []float64{0.2, 0.2}, seed, "seed must not be modified")
}

func TestConverge_NoNeighborsDropsSeed(t *testing.T) {
	flat, n, dims := flatOf([][]float64{{0, 0}, {1, 1}})
	idx := newBruteIndex(flat, n, dims, EuclideanMetric{})

	r := converge([]float64{50, 50}, 0, idx, EuclideanMetric{}, 1, 300, 1e-3)
	assert.False(t, r.ok)
	assert.Equal(t, 1, r.iterations)
}

func TestConverge_StopsAtMaxIterations(t *testing.T) {
	// Points on a line spaced by 1 with bandwidth 1.5: each shift moves the
	// seed a little toward the denser side, so convergence takes a while.
	var data [][]float64
	for i := 0; i < 40; i++ {
		data = append(data, []float64{float64(i) * float64(i) * 0.01})
	}
	flat, n, dims := flatOf(data)
	idx := NewKDTree(flat, n, dims, EuclideanMetric{}, 4)

	r := converge([]float64{15}, 0, idx, EuclideanMetric{}, 1.5, 1, 0)
	require.True(t, r.ok)
	assert.Equal(t, 1, r.iterations)
	assert.Equal(t, len(idx.QueryRadius([]float64{15}, 1.5)), r.candidate.Support)
}

func TestConverge_Deterministic(t *testing.T) {
	data, _ := makeBlobs(blobCenters, 50, 0.4, 3)
	flat, n, dims := flatOf(data)
	idx := NewKDTree(flat, n, dims, EuclideanMetric{}, 10)

	first := converge(data[5], 5, idx, EuclideanMetric{}, 1.2, 300, 1e-3)
	for i := 0; i < 5; i++ {
		again := converge(data[5], 5, idx, EuclideanMetric{}, 1.2, 300, 1e-3)
		assert.Equal(t, first, again)
	}
}

func TestConvergeSeeds_ParallelMatchesSequential(t *testing.T) {
	data, _ := makeBlobs(blobCenters, 40, 0.4, 4)
	flat, n, dims := flatOf(data)
	idx := NewKDTree(flat, n, dims, EuclideanMetric{}, 10)
	seeds := append(uniqueRows(data), []float64{100, 100})

	seqCands, seqIters := convergeSeeds(seeds, idx, EuclideanMetric{}, 1.2, 300, 1e-3, 1)
	for _, workers := range []int{2, 4, 16} {
		parCands, parIters := convergeSeeds(seeds, idx, EuclideanMetric{}, 1.2, 300, 1e-3, workers)
		assert.Equal(t, seqCands, parCands, "workers=%d", workers)
		assert.Equal(t, seqIters, parIters, "workers=%d", workers)
	}

	// The far-away seed is dropped, the rest survive in seed order.
	assert.Len(t, seqCands, len(seeds)-1)
	assert.Len(t, seqIters, len(seeds))
	for i, c := range seqCands {
		assert.Equal(t, i, c.Seed)
	}
}
