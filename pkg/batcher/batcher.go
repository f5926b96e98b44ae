// Package batcher provides a generic buffered batch processor with rate limiting.
package batcher

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

// ErrStopped is returned by Add after Stop.
var ErrStopped = errors.New("batcher stopped")

// Options configures when a Batcher flushes.
type Options struct {
	// FlushSize flushes as soon as this many items are buffered.
	FlushSize int
	// FlushInterval flushes a partial buffer after this long.
	FlushInterval time.Duration
	// RPS caps flushes per second.
	RPS int
}

// Batcher buffers items and flushes them either by size or interval.
// Items added before Stop are always handed to the callback.
type Batcher[T any] struct {
	flushCallback func(context.Context, []T) error
	itemsCh       chan T
	opts          Options
	rl            ratelimit.Limiter
	logger        *zap.Logger

	wg       sync.WaitGroup
	stop     chan struct{}
	stopOnce sync.Once
}

// New constructs a Batcher.
func New[T any](logger *zap.Logger, flushCallback func(context.Context, []T) error, opts Options) (*Batcher[T], error) {
	if logger == nil {
		return nil, errors.New("batcher logger is required")
	}
	if flushCallback == nil {
		return nil, errors.New("batcher flush callback is required")
	}
	if opts.FlushSize <= 0 || opts.FlushInterval <= 0 || opts.RPS <= 0 {
		return nil, errors.New("batcher flush size, interval and rps must be positive")
	}

	return &Batcher[T]{
		logger:        logger,
		flushCallback: flushCallback,
		itemsCh:       make(chan T, opts.FlushSize*2),
		opts:          opts,
		rl:            ratelimit.New(opts.RPS),
		stop:          make(chan struct{}),
	}, nil
}

// Start begins the background flushing loop.
func (b *Batcher[T]) Start(ctx context.Context) {
	b.wg.Add(1)
	go b.run(ctx)
}

// Stop flushes buffered items and waits for the loop to exit. It is safe to call more than once.
func (b *Batcher[T]) Stop() {
	b.stopOnce.Do(func() {
		close(b.stop)
	})
	b.wg.Wait()
}

// Add queues an item for batching, respecting context cancellation.
func (b *Batcher[T]) Add(ctx context.Context, item T) error {
	select {
	case <-b.stop:
		return ErrStopped
	default:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.stop:
		return ErrStopped
	case b.itemsCh <- item:
		return nil
	}
}

func (b *Batcher[T]) run(ctx context.Context) {
	defer b.wg.Done()

	ticker := time.NewTicker(b.opts.FlushInterval)
	defer ticker.Stop()

	buf := make([]T, 0, b.opts.FlushSize)

	flush := func(ctx context.Context) {
		if len(buf) == 0 {
			return
		}

		b.rl.Take()
		batch := make([]T, len(buf))
		copy(batch, buf)
		buf = buf[:0]

		if err := b.flushCallback(ctx, batch); err != nil {
			b.logger.Error("batch not flushed", zap.Int("size", len(batch)), zap.Error(err))
			return
		}
		b.logger.Debug("batch flushed", zap.Int("size", len(batch)))
	}

	// drain hands over whatever producers managed to enqueue before shutdown.
	drain := func() {
		final := context.WithoutCancel(ctx)
		for {
			select {
			case item := <-b.itemsCh:
				buf = append(buf, item)
				if len(buf) >= b.opts.FlushSize {
					flush(final)
				}
			default:
				flush(final)
				return
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			drain()
			return

		case <-b.stop:
			drain()
			return

		case item := <-b.itemsCh:
			buf = append(buf, item)
			if len(buf) >= b.opts.FlushSize {
				flush(ctx)
			}

		case <-ticker.C:
			flush(ctx)
		}
	}
}
