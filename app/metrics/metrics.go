package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	CacheOutcomeHit     = "hit"
	CacheOutcomeMiss    = "miss"
	CacheOutcomeExpired = "expired"
	CacheOutcomeError   = "error"

	FetchOutcomeSuccess  = "success"
	FetchOutcomeFailure  = "failure"
	FetchOutcomeDegraded = "degraded"
	FetchOutcomeDropped  = "dropped"
)

// Metrics is safe to use through a nil pointer; every observation becomes a no-op.
type Metrics struct {
	cacheReads         *prometheus.CounterVec
	matrixFetches      *prometheus.CounterVec
	regionFetches      *prometheus.CounterVec
	displayResolutions *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cacheReads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "schedfy",
				Subsystem: "pricing",
				Name:      "cache_reads_total",
				Help:      "Pricing cache reads by outcome",
			},
			[]string{"outcome"},
		),
		matrixFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "schedfy",
				Subsystem: "pricing",
				Name:      "matrix_fetches_total",
				Help:      "Pricing matrix fetches by outcome",
			},
			[]string{"outcome"},
		),
		regionFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "schedfy",
				Subsystem: "pricing",
				Name:      "region_fetches_total",
				Help:      "Per-region pricing fetches by region and outcome",
			},
			[]string{"region", "outcome"},
		),
		displayResolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "schedfy",
				Subsystem: "pricing",
				Name:      "display_resolutions_total",
				Help:      "Display price resolutions by fallback tier",
			},
			[]string{"tier"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.cacheReads, m.matrixFetches, m.regionFetches, m.displayResolutions)
	}
	return m
}

func (m *Metrics) ObserveCacheRead(outcome string) {
	if m == nil {
		return
	}
	m.cacheReads.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveMatrixFetch(outcome string) {
	if m == nil {
		return
	}
	m.matrixFetches.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveRegionFetch(region, outcome string) {
	if m == nil {
		return
	}
	m.regionFetches.WithLabelValues(region, outcome).Inc()
}

func (m *Metrics) ObserveDisplay(tier string) {
	if m == nil {
		return
	}
	m.displayResolutions.WithLabelValues(tier).Inc()
}
