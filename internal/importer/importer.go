// Package importer drains verified blocks from the queue and persists them.
package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/blockqueue/internal/blockqueue"
	"github.com/goodnatureofminers/blockqueue/internal/chain"
	"github.com/goodnatureofminers/blockqueue/internal/clock"
	"github.com/goodnatureofminers/blockqueue/internal/model"
	"github.com/goodnatureofminers/blockqueue/pkg/batcher"
	"github.com/goodnatureofminers/blockqueue/pkg/safe"
)

var (
	// ErrCheckpointMismatch rejects a block whose hash differs from the checkpoint at its height.
	ErrCheckpointMismatch = errors.New("block does not match checkpoint")
	// ErrUnknownParentHeight is reported when a drained block's parent height cannot be resolved.
	ErrUnknownParentHeight = errors.New("parent height unknown")
	// ErrParentImportFailed is reported for a block whose parent failed to import after the block was staged.
	ErrParentImportFailed = errors.New("parent import failed")
)

// Options tunes draining and persistence. Zero values select defaults.
type Options struct {
	DrainSize     int
	PollInterval  time.Duration
	FlushSize     int
	FlushInterval time.Duration
	FlushRPS      int
	MaxRetries    int
	RetryDelay    time.Duration
}

func (o Options) withDefaults() Options {
	if o.DrainSize <= 0 {
		o.DrainSize = defaultDrainSize
	}
	if o.PollInterval <= 0 {
		o.PollInterval = defaultPollInterval
	}
	if o.FlushSize <= 0 {
		o.FlushSize = defaultFlushSize
	}
	if o.FlushInterval <= 0 {
		o.FlushInterval = defaultFlushInterval
	}
	if o.FlushRPS <= 0 {
		o.FlushRPS = defaultFlushRPS
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaultMaxRetries
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = defaultRetryDelay
	}
	return o
}

type pendingRow struct {
	hash   chainhash.Hash
	parent chainhash.Hash
	row    model.Block
}

// Service moves ready blocks from the queue into the repository and reports each outcome back.
type Service struct {
	queue       Queue
	chain       Chain
	repo        Repository
	metrics     Metrics
	network     model.Network
	checkpoints map[uint64]chainhash.Hash
	// failed holds recently failed hashes so staged descendants are never inserted.
	failed *lru.Cache[chainhash.Hash, struct{}]
	opts   Options
	logger *zap.Logger
}

// NewService wires an importer for network.
func NewService(
	network model.Network,
	queue Queue,
	chain Chain,
	repo Repository,
	metrics Metrics,
	opts Options,
	logger *zap.Logger,
) (*Service, error) {
	if queue == nil {
		return nil, errors.New("importer queue is required")
	}
	if chain == nil {
		return nil, errors.New("importer chain is required")
	}
	if repo == nil {
		return nil, errors.New("importer repository is required")
	}
	if metrics == nil {
		return nil, errors.New("importer metrics is required")
	}
	if logger == nil {
		return nil, errors.New("importer logger is required")
	}
	params, err := network.Params()
	if err != nil {
		return nil, err
	}

	checkpoints := make(map[uint64]chainhash.Hash, len(params.Checkpoints))
	for _, cp := range params.Checkpoints {
		height, err := safe.Uint64(cp.Height)
		if err != nil {
			return nil, fmt.Errorf("checkpoint height: %w", err)
		}
		checkpoints[height] = *cp.Hash
	}

	failed, err := lru.New[chainhash.Hash, struct{}](defaultFailedCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed block cache: %w", err)
	}

	return &Service{
		queue:       queue,
		chain:       chain,
		repo:        repo,
		metrics:     metrics,
		network:     network,
		checkpoints: checkpoints,
		failed:      failed,
		opts:        opts.withDefaults(),
		logger:      logger.Named("importer").With(zap.String("network", string(network))),
	}, nil
}

// Run drains the queue until ctx is canceled. Rows already handed to the batcher are flushed before it returns.
func (s *Service) Run(ctx context.Context) error {
	b, err := batcher.New(s.logger, s.persist, batcher.Options{
		FlushSize:     s.opts.FlushSize,
		FlushInterval: s.opts.FlushInterval,
		RPS:           s.opts.FlushRPS,
	})
	if err != nil {
		return fmt.Errorf("create batcher: %w", err)
	}
	b.Start(ctx)
	defer b.Stop()

	s.logger.Info("importer started")
	for {
		blocks := s.queue.Drain(s.opts.DrainSize)
		for _, block := range blocks {
			s.stage(ctx, b, block)
		}
		if len(blocks) > 0 {
			continue
		}
		if err := clock.Sleep(ctx, s.opts.PollInterval); err != nil {
			s.logger.Info("importer stopped")
			return nil
		}
	}
}

// stage resolves the block height and hands its row to the batcher. Blocks that cannot be staged are reported
// as failed imports.
func (s *Service) stage(ctx context.Context, b *batcher.Batcher[pendingRow], block *blockqueue.StagedBlock) {
	if s.failed.Contains(block.Parent) {
		s.failed.Add(block.Hash, struct{}{})
		s.reject(block.Hash, "failed_parent", fmt.Errorf("%w: %s", ErrParentImportFailed, block.Parent))
		return
	}

	parentHeight, ok := s.chain.HeightOf(block.Parent)
	if !ok {
		s.reject(block.Hash, "unknown_parent", fmt.Errorf("%w: %s", ErrUnknownParentHeight, block.Parent))
		return
	}
	height := parentHeight + 1

	if want, ok := s.checkpoints[height]; ok && want != block.Hash {
		s.reject(block.Hash, "checkpoint", fmt.Errorf("%w at height %d: want %s", ErrCheckpointMismatch, height, want))
		return
	}

	row, err := chain.BlockRecord(block, s.network, height)
	if err != nil {
		s.reject(block.Hash, "convert", err)
		return
	}

	s.chain.Remember(block.Header, height)
	if err := b.Add(ctx, pendingRow{hash: block.Hash, parent: block.Parent, row: row}); err != nil {
		// Shutting down: the block stays importing and is lost with the process.
		s.chain.Forget(block.Hash)
		s.logger.Warn("block not staged", zap.Stringer("hash", block.Hash), zap.Error(err))
	}
}

func (s *Service) reject(hash chainhash.Hash, reason string, err error) {
	s.metrics.ObserveRejected(reason)
	s.logger.Warn("block rejected by importer", zap.Stringer("hash", hash), zap.String("reason", reason), zap.Error(err))
	s.queue.ReportOutcome(hash, err)
}

// persist is the batcher callback. Blocks whose parent failed earlier are reported failed without touching the
// repository. The rest are inserted with retries and every one of them is reported.
func (s *Service) persist(ctx context.Context, batch []pendingRow) (err error) {
	items := s.dropOrphaned(batch)
	if len(items) == 0 {
		return nil
	}

	start := time.Now()
	defer func() {
		s.metrics.ObserveFlush(len(items), err, start)
	}()

	rows := make([]model.Block, len(items))
	for i, item := range items {
		rows[i] = item.row
	}

	for attempt := 1; ; attempt++ {
		err = s.repo.InsertBlocks(ctx, rows)
		if err == nil || attempt >= s.opts.MaxRetries {
			break
		}
		s.logger.Warn("insert blocks failed, retrying", zap.Int("attempt", attempt), zap.Error(err))
		if sleepErr := clock.Sleep(ctx, s.opts.RetryDelay*time.Duration(attempt)); sleepErr != nil {
			break
		}
	}

	if err != nil {
		for _, item := range items {
			s.failed.Add(item.hash, struct{}{})
			s.chain.Forget(item.hash)
			s.queue.ReportOutcome(item.hash, err)
		}
		return fmt.Errorf("persist %d blocks: %w", len(items), err)
	}

	for _, item := range items {
		s.chain.Persisted(item.hash)
		s.queue.ReportOutcome(item.hash, nil)
	}
	s.logger.Debug("blocks imported", zap.Int("count", len(items)), zap.Uint64("last_height", rows[len(rows)-1].Height))
	return nil
}

// dropOrphaned reports the items descending from a failed block and returns the others in order. Items are
// ancestor first, so a skipped block also skips its children later in the batch.
func (s *Service) dropOrphaned(items []pendingRow) []pendingRow {
	kept := items[:0:0]
	for _, item := range items {
		if !s.failed.Contains(item.parent) {
			kept = append(kept, item)
			continue
		}
		s.failed.Add(item.hash, struct{}{})
		s.chain.Forget(item.hash)
		s.reject(item.hash, "failed_parent", fmt.Errorf("%w: %s", ErrParentImportFailed, item.parent))
	}
	return kept
}
