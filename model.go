package meanshift

import "sync"

// Stage is the furthest pipeline step a MeanShift estimator has completed.
type Stage int

const (
	StageUnfitted Stage = iota
	StageBandwidthResolved
	StageSeeded
	StageConverging
	StageMerged
	StageLabeled
)

func (s Stage) String() string {
	switch s {
	case StageUnfitted:
		return "unfitted"
	case StageBandwidthResolved:
		return "bandwidth_resolved"
	case StageSeeded:
		return "seeded"
	case StageConverging:
		return "converging"
	case StageMerged:
		return "merged"
	case StageLabeled:
		return "labeled"
	default:
		return "unknown"
	}
}

// MeanShift is a stateful estimator with a fit/predict split: Fit computes
// cluster centers once, Predict labels new points against them.
// A fitted estimator is safe for concurrent Predict calls.
type MeanShift struct {
	cfg Config

	mu        sync.RWMutex
	stage     Stage
	dims      int
	bandwidth float64
	centers   [][]float64
	labels    []int
}

// New returns an unfitted estimator. cfg is defaulted and validated on Fit.
func New(cfg Config) *MeanShift {
	applyDefaults(&cfg)
	return &MeanShift{cfg: cfg}
}

// Fit runs the full pipeline on data and stores the cluster centers and
// labels. A failed Fit leaves the estimator unfitted.
func (m *MeanShift) Fit(data [][]float64) error {
	if err := validateConfig(&m.cfg); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.reset()
	res, err := runPipeline(data, m.cfg, func(s Stage) { m.stage = s })
	if err != nil {
		m.cfg.Logger.Warn().Err(err).Str("stage", m.stage.String()).Msg("mean shift fit failed")
		m.reset()
		return err
	}

	m.dims = len(res.ClusterCenters[0])
	m.bandwidth = res.Bandwidth
	m.centers = res.ClusterCenters
	m.labels = res.Labels
	return nil
}

// Predict labels each point with its nearest fitted cluster center, applying
// the ClusterAll rule with the fitted bandwidth. It returns ErrNotFitted
// before a successful Fit, a *ShapeError for points of the wrong
// dimensionality and a *NonFiniteError for NaN or infinite coordinates.
func (m *MeanShift) Predict(data [][]float64) ([]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.stage != StageLabeled {
		return nil, ErrNotFitted
	}
	flat, dims, err := flatten(data)
	if err != nil {
		return nil, err
	}
	if len(data) > 0 && dims != m.dims {
		return nil, &ShapeError{Row: 0, Expected: m.dims, Actual: dims}
	}
	return assignLabels(flat, len(data), m.dims, m.centers, m.cfg.Metric,
		m.bandwidth, m.cfg.ClusterAll, m.cfg.Workers), nil
}

// FitPredict fits on data and returns the resulting labels.
func (m *MeanShift) FitPredict(data [][]float64) ([]int, error) {
	if err := m.Fit(data); err != nil {
		return nil, err
	}
	labels, _ := m.Labels()
	return labels, nil
}

// ClusterCenters returns a copy of the fitted centers, or false if the
// estimator is not fitted.
func (m *MeanShift) ClusterCenters() ([][]float64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.stage != StageLabeled {
		return nil, false
	}
	out := make([][]float64, len(m.centers))
	for i, c := range m.centers {
		out[i] = append([]float64(nil), c...)
	}
	return out, true
}

// Labels returns a copy of the labels computed by the last Fit, or false if
// the estimator is not fitted.
func (m *MeanShift) Labels() ([]int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.stage != StageLabeled {
		return nil, false
	}
	return append([]int(nil), m.labels...), true
}

// Bandwidth returns the bandwidth used by the last Fit.
func (m *MeanShift) Bandwidth() (float64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bandwidth, m.stage == StageLabeled
}

// Stage reports StageLabeled for a fitted estimator and StageUnfitted
// otherwise.
func (m *MeanShift) Stage() Stage {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stage
}

func (m *MeanShift) reset() {
	m.stage = StageUnfitted
	m.dims = 0
	m.bandwidth = 0
	m.centers = nil
	m.labels = nil
}
