package meanshift

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var binSeedData = [][]float64{
	{1, 1}, {1.5, 1.5}, {1.8, 1.2},
	{2, 1}, {2.1, 1.1}, {0, 0},
}

func seedSet(seeds [][]float64) map[string]bool {
	set := make(map[string]bool, len(seeds))
	for _, s := range seeds {
		set[fmt.Sprint(s)] = true
	}
	return set
}

func TestGetBinSeeds_ThreeBins(t *testing.T) {
	seeds, err := GetBinSeeds(binSeedData, 1, 1)
	require.NoError(t, err)
	assert.Len(t, seeds, 3)
	assert.Equal(t, seedSet([][]float64{{1, 1}, {2, 1}, {0, 0}}), seedSet(seeds))
}

func TestGetBinSeeds_MinBinFreqDropsSparseBins(t *testing.T) {
	seeds, err := GetBinSeeds(binSeedData, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, seedSet([][]float64{{1, 1}, {2, 1}}), seedSet(seeds))
}

func TestGetBinSeeds_TinyBinsOnePerPoint(t *testing.T) {
	seeds, err := GetBinSeeds(binSeedData, 0.01, 1)
	require.NoError(t, err)
	assert.Len(t, seedSet(seeds), 6)
}

func TestGetBinSeeds_FirstAppearanceOrder(t *testing.T) {
	seeds, err := GetBinSeeds(binSeedData, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 1}, {2, 1}, {0, 0}}, seeds)
}

func TestGetBinSeeds_TruncatesTowardZero(t *testing.T) {
	data := [][]float64{{-0.5, 0.5}, {0.4, -0.9}, {-1.5, 2.7}}
	seeds, err := GetBinSeeds(data, 1, 1)
	require.NoError(t, err)
	// The first two points share the cell around the origin; rounding
	// would have split them.
	assert.Equal(t, [][]float64{{0, 0}, {-1, 2}}, seeds)
}

func TestGetBinSeeds_NoSurvivingBins(t *testing.T) {
	seeds, err := GetBinSeeds(binSeedData, 1, 10)
	require.NoError(t, err)
	assert.NotNil(t, seeds)
	assert.Empty(t, seeds)
}

func TestGetBinSeeds_DuplicatePointsCountSeparately(t *testing.T) {
	data := [][]float64{{3, 3}, {3, 3}, {7, 7}}
	seeds, err := GetBinSeeds(data, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{3, 3}}, seeds)
}

func TestGetBinSeeds_Errors(t *testing.T) {
	_, err := GetBinSeeds(binSeedData, 0, 1)
	assert.Error(t, err)
	_, err = GetBinSeeds(binSeedData, -1, 1)
	assert.Error(t, err)

	_, err = GetBinSeeds([][]float64{{1, 2}, {3}}, 1, 1)
	var se *ShapeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 1, se.Row)
	assert.Equal(t, 2, se.Expected)
	assert.Equal(t, 1, se.Actual)
}

func TestGetBinSeeds_RejectsBadRows(t *testing.T) {
	_, err := GetBinSeeds([][]float64{{1, 2}, {3, math.Inf(1)}}, 1, 1)
	var nf *NonFiniteError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, 1, nf.Row)
	assert.Equal(t, 1, nf.Col)

	_, err = GetBinSeeds([][]float64{{}}, 1, 1)
	assert.ErrorIs(t, err, ErrShape)
}

func TestUniqueRows(t *testing.T) {
	data := [][]float64{{1, 2}, {3, 4}, {1, 2}, {0, 0}, {3, 4}}
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}, {0, 0}}, uniqueRows(data))
	assert.Empty(t, uniqueRows(nil))
}
