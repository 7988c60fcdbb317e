package meanshift

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func denseOf(data [][]float64) *mat.Dense {
	flat, n, dims := flatOf(data)
	return mat.NewDense(n, dims, flat)
}

func TestClusterMatrix_MatchesCluster(t *testing.T) {
	data, _ := makeBlobs(blobCenters, 50, 0.4, blobSeed)
	cfg := DefaultConfig()
	cfg.Bandwidth = 1.2

	want, err := Cluster(data, cfg)
	require.NoError(t, err)
	got, err := ClusterMatrix(denseOf(data), cfg)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestClusterMatrix_Transposed(t *testing.T) {
	// Columns of x are the points; x.T() views them as rows.
	x := mat.NewDense(2, 4, []float64{
		0, 0.5, 10, 10.5,
		0, 0, 0, 0,
	})
	cfg := DefaultConfig()
	cfg.Bandwidth = 1
	res, err := ClusterMatrix(x.T(), cfg)
	require.NoError(t, err)
	assert.Len(t, res.ClusterCenters, 2)
	assert.Equal(t, []int{0, 0, 1, 1}, res.Labels)
}

func TestMeanShift_MatrixRoundTrip(t *testing.T) {
	data, _ := makeBlobs(blobCenters, 50, 0.4, blobSeed)
	cfg := DefaultConfig()
	cfg.Bandwidth = 1.2
	m := New(cfg)
	require.NoError(t, m.FitMatrix(denseOf(data)))

	centers, ok := m.CentersMatrix()
	require.True(t, ok)
	r, c := centers.Dims()
	assert.Equal(t, 2, c)

	pred, err := m.PredictMatrix(centers)
	require.NoError(t, err)
	want := make([]int, r)
	for i := range want {
		want[i] = i
	}
	assert.Equal(t, want, pred)

	labels, _ := m.Labels()
	pred, err = m.PredictMatrix(denseOf(data))
	require.NoError(t, err)
	assert.Equal(t, labels, pred)
}
