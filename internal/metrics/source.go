package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/goodnatureofminers/blockqueue/internal/model"
)

var (
	sourceSyncTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "source",
		Name:      "sync_total",
		Help:      "Count of node sync rounds.",
	}, []string{"network", "status"})

	sourceSyncDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "source",
		Name:      "sync_duration_seconds",
		Help:      "Duration of a node sync round.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "status"})

	sourceEnqueuedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "source",
		Name:      "enqueued_total",
		Help:      "Count of blocks admitted to the queue by the source.",
	}, []string{"network"})

	sourceBackoffTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "source",
		Name:      "backoff_total",
		Help:      "Count of waits caused by a full queue.",
	}, []string{"network"})
)

// Source tracks metrics for the node block source.
type Source struct {
	network string
}

// NewSource constructs a Source metrics collector.
func NewSource(network model.Network) *Source {
	return &Source{network: networkLabel(network)}
}

// ObserveSync records a sync round outcome.
func (m Source) ObserveSync(enqueued int, err error, started time.Time) {
	status := statusOf(err)
	sourceSyncTotal.WithLabelValues(m.network, status).Inc()
	sourceSyncDuration.WithLabelValues(m.network, status).Observe(time.Since(started).Seconds())
	sourceEnqueuedTotal.WithLabelValues(m.network).Add(float64(enqueued))
}

func (m Source) ObserveBackoff() {
	sourceBackoffTotal.WithLabelValues(m.network).Inc()
}
