package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultCommitted = "committed"
	ResultRejected  = "rejected"
	ResultFailed    = "failed"
)

// Metrics records ledger operations. A nil *Metrics records nothing.
type Metrics struct {
	operations    *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	pendingEscrow prometheus.Gauge
	version       prometheus.Gauge
}

// New registers the marketplace collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		operations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketplace_operations_total",
				Help: "Ledger operations by outcome",
			},
			[]string{"operation", "result"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "marketplace_operation_duration_seconds",
				Help:    "Time from dequeue to commit or rejection",
				Buckets: prometheus.ExponentialBuckets(0.00005, 4, 10),
			},
			[]string{"operation"},
		),
		pendingEscrow: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "marketplace_pending_escrow",
				Help: "Sum of pending withdrawable balances",
			},
		),
		version: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "marketplace_ledger_version",
				Help: "Number of committed ledger operations",
			},
		),
	}
}

func (m *Metrics) ObserveOperation(operation, result string, took time.Duration) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, result).Inc()
	m.duration.WithLabelValues(operation).Observe(took.Seconds())
}

func (m *Metrics) SetLedger(version, pendingEscrow uint64) {
	if m == nil {
		return
	}
	m.version.Set(float64(version))
	m.pendingEscrow.Set(float64(pendingEscrow))
}
