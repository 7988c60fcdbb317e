package meanshift

import "sort"

// mergeModes removes near-duplicate candidates by non-maximum suppression.
//
// Candidates are ranked by support (descending), ties going to the lower
// seed index. Walking that ranking, a candidate is kept unless an
// already-kept center lies within bandwidth of it; each kept center
// suppresses every candidate within bandwidth. The kept centers are returned
// in keep order, so cluster 0 has the highest support, along with their
// support counts.
func mergeModes(candidates []Candidate, bandwidth float64, metric DistanceMetric, leafSize int) ([][]float64, []int, error) {
	if len(candidates) == 0 {
		return nil, nil, &NoModesFoundError{Bandwidth: bandwidth}
	}

	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Support != sorted[j].Support {
			return sorted[i].Support > sorted[j].Support
		}
		return sorted[i].Seed < sorted[j].Seed
	})

	n := len(sorted)
	dims := len(sorted[0].Center)
	flat := make([]float64, n*dims)
	for i, c := range sorted {
		copy(flat[i*dims:], c.Center)
	}
	idx, err := newNeighborIndex(flat, n, dims, metric, AlgorithmAuto, leafSize)
	if err != nil {
		return nil, nil, err
	}

	suppressed := make([]bool, n)
	var centers [][]float64
	var support []int
	for i, c := range sorted {
		if suppressed[i] {
			continue
		}
		centers = append(centers, c.Center)
		support = append(support, c.Support)
		for _, j := range idx.QueryRadius(c.Center, bandwidth) {
			suppressed[j] = true
		}
	}
	return centers, support, nil
}
