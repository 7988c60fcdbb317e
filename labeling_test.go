package meanshift

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssignLabels_NearestCenter(t *testing.T) {
	centers := [][]float64{{0, 0}, {10, 0}}
	data := [][]float64{{1, 1}, {9, -1}, {4, 0}, {6, 0}}
	flat, n, dims := flatOf(data)
	labels := assignLabels(flat, n, dims, centers, EuclideanMetric{}, 2, true, 1)
	assert.Equal(t, []int{0, 1, 0, 1}, labels)
}

func TestAssignLabels_TieGoesToLowestID(t *testing.T) {
	centers := [][]float64{{10, 0}, {0, 0}, {5, 5}}
	flat, n, dims := flatOf([][]float64{{5, 0}})
	labels := assignLabels(flat, n, dims, centers, EuclideanMetric{}, 100, true, 1)
	assert.Equal(t, []int{0}, labels)
}

func TestAssignLabels_UnassignedBeyondBandwidth(t *testing.T) {
	centers := [][]float64{{0, 0}, {10, 0}}
	data := [][]float64{{1, 0}, {5, 0}, {10, 2}, {10, 2.01}}
	flat, n, dims := flatOf(data)

	labels := assignLabels(flat, n, dims, centers, EuclideanMetric{}, 2, false, 1)
	// Exactly at the bandwidth is still assigned.
	assert.Equal(t, []int{0, Unassigned, 1, Unassigned}, labels)

	labels = assignLabels(flat, n, dims, centers, EuclideanMetric{}, 2, true, 1)
	assert.Equal(t, []int{0, 0, 1, 1}, labels)
}

func TestAssignLabels_ParallelMatchesSequential(t *testing.T) {
	data, _ := makeBlobs(blobCenters, 100, 0.4, 9)
	flat, n, dims := flatOf(data)
	seq := assignLabels(flat, n, dims, blobCenters, EuclideanMetric{}, 0.8, false, 1)
	for _, workers := range []int{2, 3, 8, 1000} {
		par := assignLabels(flat, n, dims, blobCenters, EuclideanMetric{}, 0.8, false, workers)
		assert.Equal(t, seq, par, "workers=%d", workers)
	}
}

func TestAssignLabels_Empty(t *testing.T) {
	labels := assignLabels(nil, 0, 2, [][]float64{{0, 0}}, EuclideanMetric{}, 1, true, 4)
	assert.Empty(t, labels)
}
