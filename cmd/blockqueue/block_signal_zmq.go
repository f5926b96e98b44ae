//go:build zmq

package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"slices"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/pebbe/zmq4"
	"go.uber.org/zap"
)

const (
	hashBlockTopic = "hashblock"
	zmqPollTimeout = time.Second
)

// startBlockSignal subscribes to bitcoind hashblock notifications and turns each one into a follower wake-up.
// Notifications coalesce while the follower is busy. The socket is closed when ctx ends.
func startBlockSignal(ctx context.Context, addr string, logger *zap.Logger) (<-chan struct{}, error) {
	if addr == "" {
		return nil, nil
	}

	sock, err := zmq4.NewSocket(zmq4.SUB)
	if err != nil {
		return nil, fmt.Errorf("create zmq socket: %w", err)
	}
	if err := subscribe(sock, addr); err != nil {
		_ = sock.Close()
		return nil, fmt.Errorf("subscribe %s: %w", addr, err)
	}

	logger = logger.Named("zmq").With(zap.String("addr", addr))
	logger.Info("subscribed to block notifications")

	wake := make(chan struct{}, 1)
	go func() {
		defer func() {
			if err := sock.Close(); err != nil {
				logger.Warn("close zmq socket", zap.Error(err))
			}
		}()

		poller := zmq4.NewPoller()
		poller.Add(sock, zmq4.POLLIN)
		for ctx.Err() == nil {
			ready, err := poller.Poll(zmqPollTimeout)
			if err != nil {
				logger.Warn("zmq poll failed", zap.Error(err))
				continue
			}
			if len(ready) == 0 {
				continue
			}

			parts, err := sock.RecvMessageBytes(0)
			if err != nil {
				logger.Warn("zmq receive failed", zap.Error(err))
				continue
			}
			hash, seq, err := parseHashBlock(parts)
			if err != nil {
				logger.Warn("skip zmq message", zap.Error(err))
				continue
			}
			logger.Debug("block announced", zap.Stringer("hash", hash), zap.Uint32("seq", seq))

			select {
			case wake <- struct{}{}:
			default:
			}
		}
	}()

	return wake, nil
}

func subscribe(sock *zmq4.Socket, addr string) error {
	if err := sock.SetSubscribe(hashBlockTopic); err != nil {
		return err
	}
	return sock.Connect(addr)
}

// parseHashBlock decodes a [topic, hash, sequence] notification. bitcoind sends the hash in display order.
func parseHashBlock(parts [][]byte) (chainhash.Hash, uint32, error) {
	if len(parts) != 3 || string(parts[0]) != hashBlockTopic {
		return chainhash.Hash{}, 0, fmt.Errorf("unexpected message with %d parts", len(parts))
	}
	if len(parts[1]) != chainhash.HashSize || len(parts[2]) != 4 {
		return chainhash.Hash{}, 0, fmt.Errorf("malformed hashblock payload")
	}

	display := slices.Clone(parts[1])
	slices.Reverse(display)
	hash, err := chainhash.NewHash(display)
	if err != nil {
		return chainhash.Hash{}, 0, err
	}
	return *hash, binary.LittleEndian.Uint32(parts[2]), nil
}
