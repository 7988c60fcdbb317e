package meanshift

import (
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/rs/zerolog"
)

// Config controls mean-shift clustering behavior.
// Start with [DefaultConfig] and override the fields you need; zero values
// of numeric fields are replaced by their defaults, but ClusterAll is a
// plain bool and is only true when set (DefaultConfig sets it).
type Config struct {
	// Bandwidth is the radius of the flat kernel, shared by seeding,
	// shifting and merging. 0 means estimate it with EstimateBandwidth using
	// Quantile, NSamples and RandomSeed. Must be >= 0. Default: 0.
	Bandwidth float64

	// Seeds are explicit starting positions. Empty means derive them from
	// the data: one per bin with BinSeeding, otherwise one per distinct point.
	Seeds [][]float64

	// BinSeeding seeds from grid cells of size Bandwidth instead of from
	// every distinct point. Much faster on large inputs. Default: false.
	BinSeeding bool

	// MinBinFreq is the minimum number of points a bin needs to produce a
	// seed. Only used with BinSeeding. Default: 1.
	MinBinFreq int

	// ClusterAll labels every point with its nearest center. When false,
	// points farther than Bandwidth from every center get Unassigned.
	// Default: true.
	ClusterAll bool

	// MaxIterations caps the shifts applied to a single seed. Default: 300.
	MaxIterations int

	// Tolerance stops a seed once a shift moves it less than this distance.
	// Default: 1e-3.
	Tolerance float64

	// Quantile, NSamples and RandomSeed configure bandwidth estimation and
	// are ignored when Bandwidth is set. See BandwidthConfig.
	// Defaults: 0.3, 0 (all points), 0.
	Quantile   float64
	NSamples   int
	RandomSeed uint64

	// Metric is the distance function. Mean shift is defined for Euclidean
	// distance; other metrics are accepted and used consistently.
	// Default: EuclideanMetric.
	Metric DistanceMetric

	// Algorithm selects the neighbor index for radius queries.
	// "auto" picks brute force for tiny inputs and unsupported metrics,
	// a KD-tree up to 60 dimensions and a ball tree above. Default: "auto".
	Algorithm Algorithm

	// LeafSize controls the maximum number of points in a tree leaf.
	// Default: 40.
	LeafSize int

	// Workers bounds the goroutines used for seed convergence, bandwidth
	// estimation and labeling. 1 runs everything sequentially.
	// 0 means runtime.NumCPU(). Default: 0 (auto).
	Workers int

	// Logger receives debug-level progress of each pipeline stage.
	// nil means no logging.
	Logger *zerolog.Logger

	// Metrics receives run statistics. nil disables instrumentation.
	Metrics *Metrics
}

// Result contains the output of mean-shift clustering.
type Result struct {
	// ClusterCenters holds one mode per cluster; the index is the cluster ID.
	// Centers are ordered by descending support.
	ClusterCenters [][]float64

	// Labels assigns each point to a cluster ID, or Unassigned (-1) when
	// ClusterAll is false and the point is farther than Bandwidth from every
	// center.
	Labels []int

	// Support is the number of points within Bandwidth of each center at
	// its final iteration.
	Support []int

	// Bandwidth is the bandwidth actually used (estimated or given).
	Bandwidth float64

	// NumSeeds is the number of seeds fed to the mean-shift iteration.
	NumSeeds int

	// NumCandidates is the number of seeds that converged to a candidate
	// before duplicates were merged.
	NumCandidates int
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		MinBinFreq:    1,
		ClusterAll:    true,
		MaxIterations: 300,
		Tolerance:     1e-3,
		Quantile:      0.3,
		Metric:        EuclideanMetric{},
		Algorithm:     AlgorithmAuto,
		LeafSize:      40,
	}
}

// applyDefaults fills in zero-valued config fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.MinBinFreq == 0 {
		cfg.MinBinFreq = 1
	}
	if cfg.MaxIterations == 0 {
		cfg.MaxIterations = 300
	}
	if cfg.Tolerance == 0 {
		cfg.Tolerance = 1e-3
	}
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
	if cfg.Logger == nil {
		nop := zerolog.Nop()
		cfg.Logger = &nop
	}
}

// validateConfig checks that cfg fields are valid and returns a descriptive error if not.
func validateConfig(cfg *Config) error {
	if cfg.Bandwidth < 0 || math.IsNaN(cfg.Bandwidth) || math.IsInf(cfg.Bandwidth, 0) {
		return fmt.Errorf("meanshift: Bandwidth must be a finite number >= 0 (0 means estimate), got %g", cfg.Bandwidth)
	}
	if cfg.MinBinFreq < 0 {
		return fmt.Errorf("meanshift: MinBinFreq must be >= 0, got %d", cfg.MinBinFreq)
	}
	if cfg.MaxIterations < 1 {
		return fmt.Errorf("meanshift: MaxIterations must be >= 1, got %d", cfg.MaxIterations)
	}
	if cfg.Tolerance < 0 || math.IsNaN(cfg.Tolerance) {
		return fmt.Errorf("meanshift: Tolerance must be >= 0, got %g", cfg.Tolerance)
	}
	if !(cfg.Quantile > 0 && cfg.Quantile <= 1) {
		return fmt.Errorf("meanshift: Quantile must be in (0, 1], got %g", cfg.Quantile)
	}
	if cfg.NSamples < 0 {
		return fmt.Errorf("meanshift: NSamples must be >= 0, got %d", cfg.NSamples)
	}
	if cfg.LeafSize < 1 {
		return fmt.Errorf("meanshift: LeafSize must be >= 1, got %d", cfg.LeafSize)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("meanshift: Workers must be >= 0, got %d", cfg.Workers)
	}
	if _, err := selectAlgorithm(cfg.Algorithm, cfg.Metric, 0, 0); err != nil {
		return err
	}
	return nil
}

// Cluster performs mean-shift clustering on data. Each element is a point;
// all points must have the same dimensionality.
//
// The pipeline resolves the bandwidth (estimating it when Config.Bandwidth
// is 0), builds seeds, shifts every seed to a mode, merges modes closer than
// the bandwidth and labels every point by its nearest surviving mode.
// Errors are *ShapeError, *NonFiniteError, *InsufficientDataError,
// *DegenerateBandwidthError, *NoModesFoundError, or a config validation
// error.
func Cluster(data [][]float64, cfg Config) (*Result, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return runPipeline(data, cfg, nil)
}

// runPipeline executes every stage, reporting each completed stage to
// onStage when it is non-nil. cfg must already be defaulted and validated.
func runPipeline(data [][]float64, cfg Config, onStage func(Stage)) (res *Result, err error) {
	started := time.Now()
	log := cfg.Logger.With().Int("points", len(data)).Logger()
	defer func() { cfg.Metrics.observeFit(err, started) }()

	advance := func(s Stage) {
		if onStage != nil {
			onStage(s)
		}
	}

	flat, dims, err := flatten(data)
	if err != nil {
		return nil, err
	}
	n := len(data)
	if n == 0 {
		return nil, &InsufficientDataError{Required: 1, Available: 0}
	}
	for i, s := range cfg.Seeds {
		if len(s) != dims {
			return nil, &ShapeError{Row: i, Expected: dims, Actual: len(s)}
		}
		if err := checkFinite(i, s); err != nil {
			return nil, err
		}
	}

	idx, err := newNeighborIndex(flat, n, dims, cfg.Metric, cfg.Algorithm, cfg.LeafSize)
	if err != nil {
		return nil, err
	}

	bandwidth := cfg.Bandwidth
	if bandwidth == 0 {
		bandwidth, err = estimateBandwidth(idx, BandwidthConfig{
			Quantile:   cfg.Quantile,
			NSamples:   cfg.NSamples,
			RandomSeed: cfg.RandomSeed,
			Metric:     cfg.Metric,
			Algorithm:  cfg.Algorithm,
			LeafSize:   cfg.LeafSize,
			Workers:    cfg.Workers,
		})
		if err != nil {
			return nil, err
		}
		log.Debug().Float64("bandwidth", bandwidth).Msg("estimated bandwidth")
	}
	advance(StageBandwidthResolved)

	seeds, err := resolveSeeds(data, cfg, bandwidth)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("seeds", len(seeds)).Bool("bin_seeding", cfg.BinSeeding).Msg("seeds ready")
	advance(StageSeeded)

	candidates, iterations := convergeSeeds(seeds, idx, cfg.Metric, bandwidth,
		cfg.MaxIterations, cfg.Tolerance, cfg.Workers)
	cfg.Metrics.observeSeeds(len(candidates), iterations)
	log.Debug().Int("candidates", len(candidates)).Int("dropped", len(seeds)-len(candidates)).Msg("seeds converged")
	advance(StageConverging)

	centers, support, err := mergeModes(candidates, bandwidth, cfg.Metric, cfg.LeafSize)
	if err != nil {
		return nil, err
	}
	advance(StageMerged)

	labels := assignLabels(flat, n, dims, centers, cfg.Metric, bandwidth, cfg.ClusterAll, cfg.Workers)
	cfg.Metrics.setClusters(len(centers))
	log.Debug().Int("clusters", len(centers)).Dur("duration", time.Since(started)).Msg("clustering finished")
	advance(StageLabeled)

	return &Result{
		ClusterCenters: centers,
		Labels:         labels,
		Support:        support,
		Bandwidth:      bandwidth,
		NumSeeds:       len(seeds),
		NumCandidates:  len(candidates),
	}, nil
}

// resolveSeeds returns the explicit seeds, the bin seeds, or one seed per
// distinct point, in that order of preference. Bin seeding that yields no
// bins falls back to per-point seeds.
func resolveSeeds(data [][]float64, cfg Config, bandwidth float64) ([][]float64, error) {
	if len(cfg.Seeds) > 0 {
		return cfg.Seeds, nil
	}
	if cfg.BinSeeding {
		seeds, err := GetBinSeeds(data, bandwidth, cfg.MinBinFreq)
		if err != nil {
			return nil, err
		}
		if len(seeds) > 0 {
			return seeds, nil
		}
		cfg.Logger.Debug().Int("min_bin_freq", cfg.MinBinFreq).Msg("no bin reached min frequency, seeding from points")
	}
	return uniqueRows(data), nil
}
