// Package bitcoin feeds blocks from a bitcoin node into the block queue.
package bitcoin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/blockqueue/internal/blockqueue"
	"github.com/goodnatureofminers/blockqueue/internal/clock"
	"github.com/goodnatureofminers/blockqueue/pkg/safe"
	"github.com/goodnatureofminers/blockqueue/pkg/workerpool"
)

// Options tunes the follower. Zero values select defaults.
type Options struct {
	PollInterval   time.Duration
	MaxBatch       int
	FetchWorkers   int
	BackoffInitial time.Duration
	BackoffMax     time.Duration
}

func (o Options) withDefaults() Options {
	if o.PollInterval <= 0 {
		o.PollInterval = defaultPollInterval
	}
	if o.MaxBatch <= 0 {
		o.MaxBatch = defaultMaxBatch
	}
	if o.FetchWorkers <= 0 {
		o.FetchWorkers = defaultFetchWorkers
	}
	if o.BackoffInitial <= 0 {
		o.BackoffInitial = defaultBackoffInitial
	}
	if o.BackoffMax <= 0 {
		o.BackoffMax = defaultBackoffMax
	}
	return o
}

type target struct {
	height uint64
	hash   chainhash.Hash
}

// Follower polls a node for new blocks and enqueues the ones the queue does not know yet.
type Follower struct {
	client  RPCClient
	queue   Queue
	chain   Chain
	metrics Metrics
	opts    Options
	logger  *zap.Logger

	// cursor is the highest height enqueued so far.
	cursor  uint64
	backoff clock.Backoff
}

// NewFollower constructs a Follower.
func NewFollower(client RPCClient, queue Queue, chain Chain, metrics Metrics, opts Options, logger *zap.Logger) (*Follower, error) {
	if client == nil {
		return nil, errors.New("follower rpc client is required")
	}
	if queue == nil {
		return nil, errors.New("follower queue is required")
	}
	if chain == nil {
		return nil, errors.New("follower chain is required")
	}
	if metrics == nil {
		return nil, errors.New("follower metrics is required")
	}
	if logger == nil {
		return nil, errors.New("follower logger is required")
	}
	opts = opts.withDefaults()

	return &Follower{
		client:  client,
		queue:   queue,
		chain:   chain,
		metrics: metrics,
		opts:    opts,
		logger:  logger.Named("follower"),
		backoff: clock.Backoff{Initial: opts.BackoffInitial, Max: opts.BackoffMax},
	}, nil
}

// Run syncs on every poll interval or signal until ctx is canceled.
func (f *Follower) Run(ctx context.Context, signals <-chan struct{}) error {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-signals:
		case <-timer.C:
		}

		enqueued, err := f.Sync(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			f.logger.Error("sync failed", zap.Error(err))
		} else if enqueued > 0 {
			f.logger.Info("blocks enqueued", zap.Int("count", enqueued), zap.Uint64("cursor", f.cursor))
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		// A full batch means the node is further ahead, so poll again immediately.
		if enqueued >= f.opts.MaxBatch {
			timer.Reset(0)
		} else {
			timer.Reset(f.opts.PollInterval)
		}
	}
}

// Sync enqueues up to MaxBatch blocks the queue has not seen, ancestors first, and returns how many were admitted.
func (f *Follower) Sync(ctx context.Context) (enqueued int, err error) {
	started := time.Now()
	defer func() {
		f.metrics.ObserveSync(enqueued, err, started)
	}()

	count, err := f.client.GetBlockCount()
	if err != nil {
		return 0, fmt.Errorf("get block count: %w", err)
	}
	remoteTip, err := safe.Uint64(count)
	if err != nil {
		return 0, fmt.Errorf("node tip: %w", err)
	}

	_, localTip := f.chain.Tip()
	known := max(localTip, f.cursor)
	batch := uint64(f.opts.MaxBatch)

	var targets []target
	if remoteTip > known+batch {
		// The node is more than a batch ahead; catch up by height.
		targets, err = f.targetsByHeight(ctx, known+1, known+batch)
	} else {
		var found bool
		targets, found, err = f.walkBack(remoteTip)
		if err == nil && !found {
			targets, err = f.targetsByHeight(ctx, known+1, min(remoteTip, known+batch))
		}
	}
	if err != nil {
		return 0, err
	}
	if len(targets) == 0 {
		return 0, nil
	}

	raws, err := workerpool.Map(ctx, f.opts.FetchWorkers, targets, f.fetch, nil)
	if err != nil {
		return 0, err
	}
	return f.enqueue(ctx, targets, raws)
}

// walkBack follows parent links from the node tip until it meets a hash the queue or chain knows.
// It returns the unknown blocks ancestors first.
func (f *Follower) walkBack(remoteTip uint64) ([]target, bool, error) {
	height, err := safe.Int64(remoteTip)
	if err != nil {
		return nil, false, err
	}
	hash, err := f.client.GetBlockHash(height)
	if err != nil {
		return nil, false, fmt.Errorf("get tip hash: %w", err)
	}

	var reversed []target
	current := target{height: remoteTip, hash: *hash}
	for len(reversed) < f.opts.MaxBatch {
		if f.queue.BlockStatus(current.hash) != blockqueue.StatusUnknown {
			return reverse(reversed), true, nil
		}
		reversed = append(reversed, current)
		if current.height == 0 {
			return reverse(reversed), true, nil
		}

		header, err := f.client.GetBlockHeader(&current.hash)
		if err != nil {
			return nil, false, fmt.Errorf("get header %s: %w", current.hash, err)
		}
		current = target{height: current.height - 1, hash: header.PrevBlock}
	}
	return nil, false, nil
}

func (f *Follower) targetsByHeight(ctx context.Context, from, to uint64) ([]target, error) {
	if from > to {
		return nil, nil
	}
	heights := make([]uint64, 0, to-from+1)
	for h := from; h <= to; h++ {
		heights = append(heights, h)
	}

	return workerpool.Map(ctx, f.opts.FetchWorkers, heights, func(_ context.Context, h uint64) (target, error) {
		height, err := safe.Int64(h)
		if err != nil {
			return target{}, err
		}
		hash, err := f.client.GetBlockHash(height)
		if err != nil {
			return target{}, fmt.Errorf("get block hash %d: %w", h, err)
		}
		return target{height: h, hash: *hash}, nil
	}, nil)
}

func (f *Follower) fetch(_ context.Context, t target) ([]byte, error) {
	block, err := f.client.GetBlock(&t.hash)
	if err != nil {
		return nil, fmt.Errorf("get block %s: %w", t.hash, err)
	}
	var buf bytes.Buffer
	buf.Grow(block.SerializeSize())
	if err := block.Serialize(&buf); err != nil {
		return nil, fmt.Errorf("serialize block %s: %w", t.hash, err)
	}
	return buf.Bytes(), nil
}

// enqueue admits raws in order, backing off while the queue is full.
func (f *Follower) enqueue(ctx context.Context, targets []target, raws [][]byte) (int, error) {
	enqueued := 0
	for i := 0; i < len(raws); {
		err := f.queue.Enqueue(raws[i])
		switch {
		case err == nil:
			enqueued++
		case errors.Is(err, blockqueue.ErrFull):
			f.metrics.ObserveBackoff()
			if waitErr := f.backoff.Wait(ctx); waitErr != nil {
				return enqueued, waitErr
			}
			continue
		case errors.Is(err, blockqueue.ErrDuplicate), errors.Is(err, blockqueue.ErrAlreadyQueued):
		case errors.Is(err, blockqueue.ErrKnownBad):
			f.logger.Warn("node served a known bad block",
				zap.Stringer("hash", targets[i].hash), zap.Uint64("height", targets[i].height))
			return enqueued, nil
		default:
			return enqueued, fmt.Errorf("enqueue block %s: %w", targets[i].hash, err)
		}

		f.backoff.Reset()
		f.cursor = max(f.cursor, targets[i].height)
		i++
	}
	return enqueued, nil
}

func reverse(in []target) []target {
	out := make([]target, len(in))
	for i, t := range in {
		out[len(in)-1-i] = t
	}
	return out
}
