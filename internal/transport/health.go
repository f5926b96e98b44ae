// Package transport exposes the queue over gRPC health checks and an HTTP status API.
package transport

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// QueueService is the health service name that reports admission readiness.
const QueueService = "blockqueue.Queue"

// HealthReporter publishes queue readiness through the standard gRPC health service.
// QueueService is NOT_SERVING while the queue is at capacity.
type HealthReporter struct {
	server *health.Server
	queue  QueueReader
	logger *zap.Logger
	last   healthpb.HealthCheckResponse_ServingStatus
}

func NewHealthReporter(queue QueueReader, logger *zap.Logger) (*HealthReporter, error) {
	if queue == nil {
		return nil, errors.New("health queue is required")
	}
	if logger == nil {
		return nil, errors.New("health logger is required")
	}

	server := health.NewServer()
	server.SetServingStatus(QueueService, healthpb.HealthCheckResponse_SERVING)
	return &HealthReporter{
		server: server,
		queue:  queue,
		logger: logger.Named("health"),
		last:   healthpb.HealthCheckResponse_SERVING,
	}, nil
}

// Server returns the health server to register on a gRPC server.
func (h *HealthReporter) Server() healthpb.HealthServer {
	return h.server
}

// Update recomputes the queue serving status once.
func (h *HealthReporter) Update() {
	status := healthpb.HealthCheckResponse_SERVING
	if h.queue.Info().IsFull() {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	if status != h.last {
		h.logger.Info("queue health changed", zap.Stringer("status", status))
		h.last = status
	}
	h.server.SetServingStatus(QueueService, status)
}

// Run updates the status every interval until ctx is canceled, then marks every service NOT_SERVING.
func (h *HealthReporter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		h.Update()
		select {
		case <-ctx.Done():
			h.server.Shutdown()
			return
		case <-ticker.C:
		}
	}
}
