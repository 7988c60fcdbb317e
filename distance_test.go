package meanshift

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEuclideanDistance_HandComputed(t *testing.T) {
	m := EuclideanMetric{}
	a := []float64{1, 2, 3}
	b := []float64{4, 6, 3}
	// sqrt(9 + 16 + 0) = 5
	assert.InDelta(t, 5.0, m.Distance(a, b), floatTol)
	assert.InDelta(t, 25.0, m.ReducedDistance(a, b), floatTol)
	assert.Equal(t, 0.0, m.Distance(a, a))
}

func TestManhattanDistance_HandComputed(t *testing.T) {
	m := ManhattanMetric{}
	a := []float64{1, -2, 3}
	b := []float64{4, 2, 3}
	assert.InDelta(t, 7.0, m.Distance(a, b), floatTol)
	assert.Equal(t, m.Distance(a, b), m.ReducedDistance(a, b))
}

func TestChebyshevDistance_HandComputed(t *testing.T) {
	m := ChebyshevMetric{}
	assert.InDelta(t, 4.0, m.Distance([]float64{1, 2, 3}, []float64{4, 6, 3}), floatTol)
}

func TestCosineDistance(t *testing.T) {
	m := CosineMetric{}
	assert.InDelta(t, 0.0, m.Distance([]float64{1, 1}, []float64{2, 2}), floatTol)
	assert.InDelta(t, 1.0, m.Distance([]float64{1, 0}, []float64{0, 1}), floatTol)
	assert.True(t, math.IsNaN(m.Distance([]float64{0, 0}, []float64{0, 0})))
}

func TestMinkowskiDistance_MatchesSpecialCases(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{4, 0, -1}
	assert.InDelta(t, ManhattanMetric{}.Distance(a, b), MinkowskiMetric{P: 1}.Distance(a, b), floatTol)
	assert.InDelta(t, EuclideanMetric{}.Distance(a, b), MinkowskiMetric{P: 2}.Distance(a, b), floatTol)

	// (1^3 + 1^3)^(1/3)
	assert.InDelta(t, math.Cbrt(2), MinkowskiMetric{P: 3}.Distance([]float64{0, 0}, []float64{1, 1}), floatTol)
}

func TestMinkowskiDistance_InvalidPPanics(t *testing.T) {
	assert.Panics(t, func() {
		MinkowskiMetric{P: 0.5}.Distance([]float64{0}, []float64{1})
	})
}

func TestDistanceMetrics_RdistRoundTrip(t *testing.T) {
	a := []float64{0.5, -1.25, 3}
	b := []float64{2, 0.75, -0.5}
	for _, m := range []DistanceMetric{
		EuclideanMetric{},
		ManhattanMetric{},
		ChebyshevMetric{},
		MinkowskiMetric{P: 3},
	} {
		d := m.Distance(a, b)
		rd := m.ReducedDistance(a, b)
		assert.InDelta(t, rd, m.DistToRdist(d), 1e-9, "%T DistToRdist", m)
		assert.InDelta(t, d, m.RdistToDist(rd), 1e-9, "%T RdistToDist", m)
	}
}

func TestDistanceFunc_Adapter(t *testing.T) {
	calls := 0
	f := DistanceFunc(func(a, b []float64) float64 {
		calls++
		return math.Abs(a[0] - b[0])
	})
	var m DistanceMetric = f
	require.Equal(t, 3.0, m.Distance([]float64{1}, []float64{4}))
	require.Equal(t, 3.0, m.ReducedDistance([]float64{1}, []float64{4}))
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1.5, m.DistToRdist(1.5))
}
