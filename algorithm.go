package meanshift

import "fmt"

// Algorithm selects the neighbor index used for radius and KNN queries.
type Algorithm string

const (
	AlgorithmAuto     Algorithm = "auto"
	AlgorithmKDTree   Algorithm = "kd_tree"
	AlgorithmBallTree Algorithm = "ball_tree"
	AlgorithmBrute    Algorithm = "brute"
)

// KDTreeValidMetric reports whether the metric supports KD-tree acceleration.
// KD-trees require metrics that decompose along coordinate axes:
// Euclidean, Manhattan, Chebyshev, Minkowski.
func KDTreeValidMetric(m DistanceMetric) bool {
	switch m.(type) {
	case EuclideanMetric, ManhattanMetric, ChebyshevMetric, MinkowskiMetric:
		return true
	default:
		return false
	}
}

// BallTreeValidMetric reports whether the metric supports Ball tree acceleration.
// Ball trees work with any metric that satisfies the triangle inequality.
func BallTreeValidMetric(m DistanceMetric) bool {
	switch m.(type) {
	case EuclideanMetric, ManhattanMetric, ChebyshevMetric, MinkowskiMetric:
		return true
	default:
		return false
	}
}

// bruteThreshold is the point count below which auto selection skips trees.
const bruteThreshold = 16

// selectAlgorithm resolves AlgorithmAuto into a concrete index based on the
// metric, point count and dimensionality, and validates forced choices.
func selectAlgorithm(algo Algorithm, metric DistanceMetric, n, dims int) (Algorithm, error) {
	switch algo {
	case AlgorithmAuto, "":
		if !BallTreeValidMetric(metric) || n < bruteThreshold {
			return AlgorithmBrute, nil
		}
		if KDTreeValidMetric(metric) && dims <= 60 {
			return AlgorithmKDTree, nil
		}
		return AlgorithmBallTree, nil
	case AlgorithmKDTree:
		if !KDTreeValidMetric(metric) {
			return "", fmt.Errorf("meanshift: metric %T is not supported by the KD-tree index", metric)
		}
	case AlgorithmBallTree:
		if !BallTreeValidMetric(metric) {
			return "", fmt.Errorf("meanshift: metric %T is not supported by the ball tree index", metric)
		}
	case AlgorithmBrute:
	default:
		return "", fmt.Errorf("meanshift: invalid Algorithm %q", algo)
	}
	return algo, nil
}
