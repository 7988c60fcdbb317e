package meanshift

import (
	"container/heap"
	"math"
)

// NodeData describes a single node in a spatial tree.
type NodeData struct {
	IdxStart, IdxEnd int
	IsLeaf           bool
	Radius           float64 // ball tree radius; 0 for KD-tree
}

// NeighborIndex answers radius and k-nearest-neighbor queries over a fixed,
// read-only point set. Implementations are safe for concurrent queries.
type NeighborIndex interface {
	// QueryRadius returns the indices of all stored points within distance
	// r of q (inclusive), unordered. A stored point equal to q is included.
	QueryRadius(q []float64, r float64) []int

	// QueryKNN returns up to k nearest stored points to q, sorted by
	// ascending distance (ties by ascending index).
	QueryKNN(q []float64, k int) (indices []int, distances []float64)

	// Point returns the stored coordinates of point i.
	Point(i int) []float64

	// NumPoints returns the number of stored points.
	NumPoints() int

	// NumFeatures returns the dimensionality of each point.
	NumFeatures() int
}

// KthNeighborDistance returns the distance from stored point i to its k-th
// nearest other stored point (k >= 1). The point itself is excluded, but
// other points with identical coordinates count as neighbors at distance 0.
func KthNeighborDistance(idx NeighborIndex, i, k int) (float64, error) {
	available := idx.NumPoints() - 1
	if k < 1 || k > available {
		return 0, &InsufficientDataError{Required: k, Available: max(available, 0)}
	}
	// Self sits at distance 0, so the (k+1)-th smallest distance overall is
	// the k-th smallest among the other points.
	_, dists := idx.QueryKNN(idx.Point(i), k+1)
	if len(dists) <= k {
		return 0, &InsufficientDataError{Required: k, Available: max(len(dists)-1, 0)}
	}
	return dists[k], nil
}

// KthDistance returns the distance from an arbitrary query q to its k-th
// nearest stored point (k >= 1). Nothing is excluded.
func KthDistance(idx NeighborIndex, q []float64, k int) (float64, error) {
	if k < 1 || k > idx.NumPoints() {
		return 0, &InsufficientDataError{Required: k, Available: idx.NumPoints()}
	}
	_, dists := idx.QueryKNN(q, k)
	if len(dists) < k {
		return 0, &InsufficientDataError{Required: k, Available: len(dists)}
	}
	return dists[k-1], nil
}

// bruteIndex answers queries with a linear scan. It accepts any metric.
type bruteIndex struct {
	data   []float64
	n      int
	dims   int
	metric DistanceMetric
}

func newBruteIndex(data []float64, n, dims int, metric DistanceMetric) *bruteIndex {
	dataCopy := make([]float64, len(data))
	copy(dataCopy, data)
	return &bruteIndex{data: dataCopy, n: n, dims: dims, metric: metric}
}

func (b *bruteIndex) NumPoints() int        { return b.n }
func (b *bruteIndex) NumFeatures() int      { return b.dims }
func (b *bruteIndex) Point(i int) []float64 { return b.data[i*b.dims : (i+1)*b.dims] }

func (b *bruteIndex) QueryRadius(q []float64, r float64) []int {
	if r < 0 {
		return nil
	}
	rdist := b.metric.DistToRdist(r)
	var out []int
	for i := 0; i < b.n; i++ {
		if b.metric.ReducedDistance(q, b.Point(i)) <= rdist {
			out = append(out, i)
		}
	}
	return out
}

func (b *bruteIndex) QueryKNN(q []float64, k int) ([]int, []float64) {
	if b.n == 0 || k < 1 {
		return nil, nil
	}
	h := &knnHeap{}
	heap.Init(h)
	for i := 0; i < b.n; i++ {
		d := b.metric.Distance(q, b.Point(i))
		if math.IsNaN(d) {
			continue
		}
		h.offer(i, d, k)
	}
	return h.sorted()
}

// newNeighborIndex builds the index selected by algo over flat row-major data.
func newNeighborIndex(data []float64, n, dims int, metric DistanceMetric, algo Algorithm, leafSize int) (NeighborIndex, error) {
	resolved, err := selectAlgorithm(algo, metric, n, dims)
	if err != nil {
		return nil, err
	}
	switch resolved {
	case AlgorithmKDTree:
		return NewKDTree(data, n, dims, metric, leafSize), nil
	case AlgorithmBallTree:
		return NewBallTree(data, n, dims, metric, leafSize), nil
	default:
		return newBruteIndex(data, n, dims, metric), nil
	}
}
