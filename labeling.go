package meanshift

import "math"

// Unassigned is the label given to points that are farther than the
// bandwidth from every cluster center when ClusterAll is false.
const Unassigned = -1

// assignLabels labels each row of data (flat row-major) with the index of
// its nearest center. Ties go to the lowest center index. With clusterAll
// false, points farther than bandwidth from their nearest center get
// Unassigned. Rows are labelled in parallel ranges.
func assignLabels(data []float64, n, dims int, centers [][]float64, metric DistanceMetric,
	bandwidth float64, clusterAll bool, workers int) []int {
	labels := make([]int, n)
	forEachRowRange(n, workers, func(start, end int) {
		for i := start; i < end; i++ {
			labels[i] = nearestCenter(data[i*dims:(i+1)*dims], centers, metric, bandwidth, clusterAll)
		}
	})
	return labels
}

// nearestCenter returns the label for a single point.
func nearestCenter(p []float64, centers [][]float64, metric DistanceMetric, bandwidth float64, clusterAll bool) int {
	best := Unassigned
	bestDist := math.Inf(1)
	for c, center := range centers {
		if d := metric.Distance(p, center); d < bestDist {
			bestDist = d
			best = c
		}
	}
	if !clusterAll && bestDist > bandwidth {
		return Unassigned
	}
	return best
}
