package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/goodnatureofminers/blockqueue/internal/model"
)

var (
	importerFlushTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "importer",
		Name:      "flush_total",
		Help:      "Count of block batches written to storage.",
	}, []string{"network", "status"})

	importerFlushDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "importer",
		Name:      "flush_duration_seconds",
		Help:      "Duration of writing a block batch, retries included.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "status"})

	importerFlushSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "importer",
		Name:      "flush_size",
		Help:      "Number of blocks per written batch.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	}, []string{"network"})

	importerRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "importer",
		Name:      "rejected_total",
		Help:      "Count of drained blocks the importer refused before writing.",
	}, []string{"network", "reason"})
)

// Importer tracks metrics for the block importer.
type Importer struct {
	network string
}

// NewImporter constructs an Importer metrics collector.
func NewImporter(network model.Network) *Importer {
	return &Importer{network: networkLabel(network)}
}

// ObserveFlush records a batch write outcome.
func (m Importer) ObserveFlush(size int, err error, started time.Time) {
	status := statusOf(err)
	importerFlushTotal.WithLabelValues(m.network, status).Inc()
	importerFlushDuration.WithLabelValues(m.network, status).Observe(time.Since(started).Seconds())
	importerFlushSize.WithLabelValues(m.network).Observe(float64(size))
}

// ObserveRejected counts a block refused by the importer.
func (m Importer) ObserveRejected(reason string) {
	importerRejectedTotal.WithLabelValues(m.network, reason).Inc()
}
