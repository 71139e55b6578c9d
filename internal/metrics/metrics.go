package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"pricing_history/internal/domain"
)

// Metrics holds the ingestion pipeline collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	itemsUpserted     *prometheus.CounterVec
	duplicatesDropped *prometheus.CounterVec
	fetchRetries      *prometheus.CounterVec
	runs              *prometheus.CounterVec
	hungRunsReaped    prometheus.Counter
	runDuration       *prometheus.HistogramVec
}

func New(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	itemsUpserted := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_items_upserted_total",
			Help: "Price items written by the bulk upsert.",
		},
		[]string{"currency"},
	)

	duplicatesDropped := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_duplicates_dropped_total",
			Help: "Items dropped as in-batch duplicates before upsert.",
		},
		[]string{"currency"},
	)

	fetchRetries := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_fetch_retries_total",
			Help: "Page requests retried after a transient failure.",
		},
		[]string{"reason"}, // rate_limited | server_error | network
	)

	runs := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_runs_total",
			Help: "Currency runs that reached a terminal status.",
		},
		[]string{"currency", "status"},
	)

	hungRunsReaped := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pricing_hung_runs_reaped_total",
			Help: "RUNNING runs failed by the hung-run reaper.",
		},
	)

	runDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "pricing_run_duration_seconds",
			Help: "Wall time of one currency run.",
			Buckets: []float64{
				30,
				60,
				300,  // 5m
				900,  // 15m
				1800, // 30m
				3600, // 1h
				7200, // 2h, hung threshold
			},
		},
		[]string{"currency"},
	)

	registerer.MustRegister(
		itemsUpserted,
		duplicatesDropped,
		fetchRetries,
		runs,
		hungRunsReaped,
		runDuration,
	)

	return &Metrics{
		itemsUpserted:     itemsUpserted,
		duplicatesDropped: duplicatesDropped,
		fetchRetries:      fetchRetries,
		runs:              runs,
		hungRunsReaped:    hungRunsReaped,
		runDuration:       runDuration,
	}
}

func (m *Metrics) ItemsUpserted(currency string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.itemsUpserted.WithLabelValues(currency).Add(float64(n))
}

func (m *Metrics) DuplicatesDropped(currency string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.duplicatesDropped.WithLabelValues(currency).Add(float64(n))
}

// FetchRetry satisfies retail.RetryRecorder.
func (m *Metrics) FetchRetry(reason string) {
	if m == nil {
		return
	}
	m.fetchRetries.WithLabelValues(reason).Inc()
}

func (m *Metrics) RunFinished(currency string, status domain.RunStatus, d time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(currency, string(status)).Inc()
	m.runDuration.WithLabelValues(currency).Observe(d.Seconds())
}

func (m *Metrics) HungRunsReaped(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.hungRunsReaped.Add(float64(n))
}
