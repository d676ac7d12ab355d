package prefetcher

import "github.com/prometheus/client_golang/prometheus"

// Metrics wraps the prometheus counters/gauges this prefetcher reports,
// grounded on the same client_golang instrumentation pattern the
// etalazz-vsa and bsc-erigon retrievals use for their own hot paths.
type Metrics struct {
	prefetchesIssued  prometheus.Counter
	modeSwitchesTotal *prometheus.CounterVec
	hitRatio          prometheus.Gauge
}

// NewMetrics registers the prefetcher's metrics with reg and returns the
// handle to pass to WithMetrics. Pass a fresh *prometheus.Registry (or
// prometheus.DefaultRegisterer via prometheus.WrapRegistererWith) per
// simulation run to avoid duplicate-registration panics across tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		prefetchesIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dcpt",
			Name:      "prefetches_issued_total",
			Help:      "Total number of prefetches issued to the host.",
		}),
		modeSwitchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dcpt",
			Name:      "mode_switches_total",
			Help:      "Number of transitions into each table organization.",
		}, []string{"mode"}),
		hitRatio: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dcpt",
			Name:      "t1_hit_ratio",
			Help:      "Current t1_hit / prefetch_count ratio driving the mode controller.",
		}),
	}
	reg.MustRegister(m.prefetchesIssued, m.modeSwitchesTotal, m.hitRatio)
	return m
}

// AddPrefetchesIssued increments the issued-prefetch counter.
func (m *Metrics) AddPrefetchesIssued(n float64) {
	m.prefetchesIssued.Add(n)
}

// ObserveModeSwitch records a transition into mode.
func (m *Metrics) ObserveModeSwitch(mode Mode) {
	m.modeSwitchesTotal.WithLabelValues(mode.String()).Inc()
}

// SetHitRatio updates the current hit-ratio gauge.
func (m *Metrics) SetHitRatio(ratio float64) {
	m.hitRatio.Set(ratio)
}
