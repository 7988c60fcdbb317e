package meanshift

import (
	"math"
	"sort"
)

const floatTol = 1e-10

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// blobCenters mirrors the usual three-blob fixture: corners of a 2x2
// square offset by 10, pairwise at least 2 units apart.
var blobCenters = [][]float64{{11, 11}, {9, 9}, {11, 9}}

// blobSeed gives three well separated modes at bandwidth 1.2 with 100
// points per blob and std 0.4.
const blobSeed = 1

// makeBlobs draws perBlob points from an isotropic Gaussian around each
// center and returns the points with the index of the blob they came from.
// Points are interleaved so blob membership does not follow input order.
func makeBlobs(centers [][]float64, perBlob int, std float64, seed int64) ([][]float64, []int) {
	rng := newTestRNG(seed)
	points := make([][]float64, 0, perBlob*len(centers))
	truth := make([]int, 0, perBlob*len(centers))
	for i := 0; i < perBlob; i++ {
		for c, center := range centers {
			p := make([]float64, len(center))
			for d, mu := range center {
				p[d] = mu + rng.NormFloat64()*std
			}
			points = append(points, p)
			truth = append(truth, c)
		}
	}
	return points, truth
}

func newTestRNG(seed int64) *testRNG {
	// Simple LCG, good enough for generating test points.
	return &testRNG{state: uint64(seed)}
}

type testRNG struct {
	state uint64
}

func (r *testRNG) Float64() float64 {
	r.state = r.state*6364136223846793005 + 1442695040888963407
	return float64(r.state>>11) / float64(1<<53)
}

// NormFloat64 is a Box-Muller draw from the standard normal.
func (r *testRNG) NormFloat64() float64 {
	u1 := 1 - r.Float64()
	u2 := r.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// bruteRadius returns the sorted indices of points within r of q.
func bruteRadius(data [][]float64, q []float64, r float64, metric DistanceMetric) []int {
	var out []int
	for i, p := range data {
		if metric.Distance(q, p) <= r {
			out = append(out, i)
		}
	}
	return out
}

// bruteKNNDistances returns the k smallest distances from q to data.
func bruteKNNDistances(data [][]float64, q []float64, k int, metric DistanceMetric) []float64 {
	dists := make([]float64, len(data))
	for i, p := range data {
		dists[i] = metric.Distance(q, p)
	}
	sort.Float64s(dists)
	return dists[:min(k, len(dists))]
}

func flatOf(data [][]float64) ([]float64, int, int) {
	flat, dims, err := flatten(data)
	if err != nil {
		panic(err)
	}
	return flat, len(data), dims
}

func sortedInts(s []int) []int {
	out := append([]int(nil), s...)
	sort.Ints(out)
	return out
}

// labelsEquivalent checks if two label arrays are equivalent under label
// permutation. Unassigned must match exactly.
func labelsEquivalent(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	forward := make(map[int]int)
	reverse := make(map[int]int)
	for i := range a {
		if (a[i] == Unassigned) != (b[i] == Unassigned) {
			return false
		}
		if a[i] == Unassigned {
			continue
		}
		if m, ok := forward[a[i]]; ok && m != b[i] {
			return false
		}
		if m, ok := reverse[b[i]]; ok && m != a[i] {
			return false
		}
		forward[a[i]] = b[i]
		reverse[b[i]] = a[i]
	}
	return true
}
