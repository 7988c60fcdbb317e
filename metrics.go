package meanshift

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors updated by clustering runs.
// A nil *Metrics disables instrumentation.
type Metrics struct {
	fits        *prometheus.CounterVec
	seeds       *prometheus.CounterVec
	iterations  prometheus.Histogram
	clusters    prometheus.Gauge
	fitDuration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered, which is mostly useful in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		fits: f.NewCounterVec(prometheus.CounterOpts{
			Name: "meanshift_fits_total",
			Help: "Clustering runs by outcome.",
		}, []string{"outcome"}),
		seeds: f.NewCounterVec(prometheus.CounterOpts{
			Name: "meanshift_seeds_total",
			Help: "Seeds processed by the mean-shift engine, by result.",
		}, []string{"result"}),
		iterations: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "meanshift_iterations",
			Help:    "Iterations taken per seed before it stopped.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		clusters: f.NewGauge(prometheus.GaugeOpts{
			Name: "meanshift_clusters",
			Help: "Number of clusters found by the last successful run.",
		}),
		fitDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "meanshift_fit_duration_seconds",
			Help:    "Duration of clustering runs.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) observeFit(err error, started time.Time) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.fits.WithLabelValues(outcome).Inc()
	m.fitDuration.Observe(time.Since(started).Seconds())
}

func (m *Metrics) observeSeeds(converged int, iterations []int) {
	if m == nil {
		return
	}
	m.seeds.WithLabelValues("converged").Add(float64(converged))
	m.seeds.WithLabelValues("dropped").Add(float64(len(iterations) - converged))
	for _, it := range iterations {
		m.iterations.Observe(float64(it))
	}
}

func (m *Metrics) setClusters(n int) {
	if m == nil {
		return
	}
	m.clusters.Set(float64(n))
}
