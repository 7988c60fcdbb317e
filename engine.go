package meanshift

import "gonum.org/v1/gonum/floats"

// Candidate is a converged seed: the final position and the number of
// points that were within the bandwidth at the last iteration.
type Candidate struct {
	Center  []float64
	Support int
	// Seed is the index of the seed this candidate came from. Used to break
	// support ties in a reproducible way.
	Seed int
}

// convergence is the outcome of shifting one seed.
type convergence struct {
	candidate  Candidate
	iterations int
	ok         bool
}

// converge repeatedly moves seed to the mean of the stored points within
// bandwidth of it. It stops when the shift is smaller than tol or after
// maxIter iterations, and reports ok == false when the position ever has no
// neighbors at all. The seed slice is not modified.
func converge(seed []float64, seedIdx int, idx NeighborIndex, metric DistanceMetric,
	bandwidth float64, maxIter int, tol float64) convergence {
	dims := idx.NumFeatures()
	pos := make([]float64, dims)
	copy(pos, seed)
	mean := make([]float64, dims)

	for iter := 1; ; iter++ {
		within := idx.QueryRadius(pos, bandwidth)
		if len(within) == 0 {
			return convergence{iterations: iter}
		}

		for d := range mean {
			mean[d] = 0
		}
		for _, p := range within {
			floats.Add(mean, idx.Point(p))
		}
		floats.Scale(1/float64(len(within)), mean)

		shift := metric.Distance(pos, mean)
		pos, mean = mean, pos

		if shift < tol || iter >= maxIter {
			return convergence{
				candidate:  Candidate{Center: pos, Support: len(within), Seed: seedIdx},
				iterations: iter,
				ok:         true,
			}
		}
	}
}

// convergeSeeds runs converge for every seed on a bounded worker pool and
// returns the successful candidates in seed order, together with the
// per-seed iteration counts.
func convergeSeeds(seeds [][]float64, idx NeighborIndex, metric DistanceMetric,
	bandwidth float64, maxIter int, tol float64, workers int) ([]Candidate, []int) {
	results := make([]convergence, len(seeds))
	forEachParallel(len(seeds), workers, func(i int) {
		results[i] = converge(seeds[i], i, idx, metric, bandwidth, maxIter, tol)
	})

	candidates := make([]Candidate, 0, len(seeds))
	iterations := make([]int, len(seeds))
	for i, r := range results {
		iterations[i] = r.iterations
		if r.ok {
			candidates = append(candidates, r.candidate)
		}
	}
	return candidates, iterations
}
