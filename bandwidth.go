package meanshift

import (
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// BandwidthConfig controls EstimateBandwidth.
// Start with [DefaultBandwidthConfig] and override the fields you need.
type BandwidthConfig struct {
	// Quantile sets the neighbor rank used as the distance scale:
	// k = max(1, floor(Quantile * n)). Must be in (0, 1]. Default: 0.3.
	Quantile float64

	// NSamples is the number of points whose k-th neighbor distance is
	// averaged. 0 or a value >= n uses every point. Default: 0.
	NSamples int

	// RandomSeed seeds the sampler, so a fixed seed gives a reproducible
	// estimate. Default: 0.
	RandomSeed uint64

	// Metric is the distance function. Default: EuclideanMetric.
	Metric DistanceMetric

	// Algorithm selects the neighbor index. Default: "auto".
	Algorithm Algorithm

	// LeafSize is the maximum number of points in a tree leaf. Default: 40.
	LeafSize int

	// Workers bounds the goroutines used for neighbor queries.
	// 0 means runtime.NumCPU(). Default: 0.
	Workers int
}

// DefaultBandwidthConfig returns a BandwidthConfig with the documented defaults.
func DefaultBandwidthConfig() BandwidthConfig {
	return BandwidthConfig{
		Quantile:  0.3,
		Metric:    EuclideanMetric{},
		Algorithm: AlgorithmAuto,
		LeafSize:  40,
	}
}

func applyBandwidthDefaults(cfg *BandwidthConfig) {
	if cfg.Quantile == 0 {
		cfg.Quantile = 0.3
	}
	if cfg.Metric == nil {
		cfg.Metric = EuclideanMetric{}
	}
	if cfg.Algorithm == "" {
		cfg.Algorithm = AlgorithmAuto
	}
	if cfg.LeafSize == 0 {
		cfg.LeafSize = 40
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
}

// EstimateBandwidth derives a mean-shift bandwidth from the data: the mean,
// over a random sample of points, of the distance from each sampled point to
// its k-th nearest neighbor in the full data set.
//
// It fails with a *DegenerateBandwidthError when there are fewer than two
// points or the estimate is not positive (e.g. all points identical), and
// with an *InsufficientDataError when k exceeds the number of other points.
func EstimateBandwidth(data [][]float64, cfg BandwidthConfig) (float64, error) {
	applyBandwidthDefaults(&cfg)
	if !(cfg.Quantile > 0 && cfg.Quantile <= 1) {
		return 0, fmt.Errorf("meanshift: Quantile must be in (0, 1], got %g", cfg.Quantile)
	}
	if cfg.NSamples < 0 {
		return 0, fmt.Errorf("meanshift: NSamples must be >= 0, got %d", cfg.NSamples)
	}

	flat, dims, err := flatten(data)
	if err != nil {
		return 0, err
	}
	n := len(data)
	if n < 2 {
		return 0, &DegenerateBandwidthError{Reason: fmt.Sprintf("%d point(s), need at least 2", n)}
	}

	idx, err := newNeighborIndex(flat, n, dims, cfg.Metric, cfg.Algorithm, cfg.LeafSize)
	if err != nil {
		return 0, err
	}
	return estimateBandwidth(idx, cfg)
}

// estimateBandwidth runs the estimate against an already built index.
func estimateBandwidth(idx NeighborIndex, cfg BandwidthConfig) (float64, error) {
	n := idx.NumPoints()
	if n < 2 {
		return 0, &DegenerateBandwidthError{Reason: fmt.Sprintf("%d point(s), need at least 2", n)}
	}
	k := max(1, int(math.Floor(cfg.Quantile*float64(n))))

	sample := sampleIndices(n, cfg.NSamples, cfg.RandomSeed)
	dists := make([]float64, len(sample))
	errs := make([]error, len(sample))
	forEachParallel(len(sample), cfg.Workers, func(i int) {
		dists[i], errs[i] = KthNeighborDistance(idx, sample[i], k)
	})
	for _, err := range errs {
		if err != nil {
			return 0, err
		}
	}

	bw := stat.Mean(dists, nil)
	if !(bw > 0) || math.IsInf(bw, 0) {
		return 0, &DegenerateBandwidthError{Bandwidth: bw, Reason: "mean neighbor distance is not positive"}
	}
	return bw, nil
}

// sampleIndices draws size distinct indices from [0, n) using a PCG source
// seeded with seed. size <= 0 or size >= n returns every index in order.
func sampleIndices(n, size int, seed uint64) []int {
	if size <= 0 || size >= n {
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return all
	}
	idxs := make([]int, size)
	sampleuv.WithoutReplacement(idxs, n, rand.NewPCG(seed, seed))
	return idxs
}
