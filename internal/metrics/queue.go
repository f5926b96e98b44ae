package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/goodnatureofminers/blockqueue/internal/blockqueue"
	"github.com/goodnatureofminers/blockqueue/internal/model"
)

var (
	queueAdmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "queue",
		Name:      "admissions_total",
		Help:      "Count of enqueue attempts by result.",
	}, []string{"network", "result"})

	queueVerificationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "queue",
		Name:      "verification_duration_seconds",
		Help:      "Duration of basic verification by result kind.",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"network", "kind"})

	queueReleasedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "queue",
		Name:      "released_total",
		Help:      "Count of blocks moved to the ready sequence.",
	}, []string{"network"})

	queueDrainedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "queue",
		Name:      "drained_total",
		Help:      "Count of blocks handed to the importer.",
	}, []string{"network"})

	queueOutcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "queue",
		Name:      "import_outcomes_total",
		Help:      "Count of import outcomes reported back to the queue.",
	}, []string{"network", "status"})

	queueEvictedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "queue",
		Name:      "evicted_total",
		Help:      "Count of pending blocks evicted by the pending limit.",
	}, []string{"network"})

	queueBlocks = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "queue",
		Name:      "blocks",
		Help:      "Blocks currently tracked by the queue, by stage.",
	}, []string{"network", "stage"})

	queueStagedBytes = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "queue",
		Name:      "staged_bytes",
		Help:      "Raw bytes held by staged blocks.",
	}, []string{"network"})
)

// Queue tracks block queue activity. It implements blockqueue.Metrics.
type Queue struct {
	network string
}

// NewQueue constructs a Queue metrics collector.
func NewQueue(network model.Network) *Queue {
	return &Queue{network: networkLabel(network)}
}

// ObserveAdmission counts an enqueue attempt.
func (m Queue) ObserveAdmission(err error) {
	queueAdmissionsTotal.WithLabelValues(m.network, admissionResult(err)).Inc()
}

// ObserveVerification records how long a basic verification took.
func (m Queue) ObserveVerification(kind string, started time.Time) {
	queueVerificationDuration.WithLabelValues(m.network, kind).Observe(time.Since(started).Seconds())
}

func (m Queue) ObserveRelease(count int) {
	queueReleasedTotal.WithLabelValues(m.network).Add(float64(count))
}

func (m Queue) ObserveDrain(count int) {
	queueDrainedTotal.WithLabelValues(m.network).Add(float64(count))
}

func (m Queue) ObserveOutcome(err error) {
	queueOutcomesTotal.WithLabelValues(m.network, statusOf(err)).Inc()
}

func (m Queue) ObserveEviction(count int) {
	queueEvictedTotal.WithLabelValues(m.network).Add(float64(count))
}

// SetStatus publishes the queue gauges.
func (m Queue) SetStatus(status blockqueue.Status) {
	queueBlocks.WithLabelValues(m.network, "verifying").Set(float64(status.Verifying))
	queueBlocks.WithLabelValues(m.network, "ready").Set(float64(status.Ready))
	queueBlocks.WithLabelValues(m.network, "pending").Set(float64(status.Pending))
	queueBlocks.WithLabelValues(m.network, "importing").Set(float64(status.Importing))
	queueBlocks.WithLabelValues(m.network, "bad").Set(float64(status.BadBlocks))
	queueStagedBytes.WithLabelValues(m.network).Set(float64(status.StagedBytes))
}

func admissionResult(err error) string {
	switch {
	case err == nil:
		return "accepted"
	case errors.Is(err, blockqueue.ErrFull):
		return "full"
	case errors.Is(err, blockqueue.ErrDuplicate):
		return "duplicate"
	case errors.Is(err, blockqueue.ErrAlreadyQueued):
		return "already_queued"
	case errors.Is(err, blockqueue.ErrKnownBad):
		return "known_bad"
	case errors.Is(err, blockqueue.ErrClosed):
		return "closed"
	default:
		return "malformed"
	}
}
