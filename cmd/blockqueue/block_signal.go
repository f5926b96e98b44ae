//go:build !zmq

package main

import (
	"context"

	"go.uber.org/zap"
)

// startBlockSignal is a no-op without the zmq build tag; the follower falls back to polling.
func startBlockSignal(_ context.Context, addr string, logger *zap.Logger) (<-chan struct{}, error) {
	if addr != "" {
		logger.Warn("zmq support not compiled in, polling only", zap.String("addr", addr))
	}
	return nil, nil
}
