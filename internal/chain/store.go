// Package chain tracks the persisted and currently importing chain for the block queue.
package chain

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/blockqueue/internal/model"
	"github.com/goodnatureofminers/blockqueue/internal/repository/clickhouse"
)

// Options tunes the store caches. Zero values select defaults.
type Options struct {
	CacheSize    int
	MissCacheTTL time.Duration
	QueryTimeout time.Duration
}

type record struct {
	header wire.BlockHeader
	height uint64
}

// Store answers chain membership queries from memory, falling back to the repository.
// Blocks handed to the importer are pinned until they are persisted or forgotten.
type Store struct {
	network model.Network
	repo    Repository
	timeout time.Duration
	logger  *zap.Logger

	records *lru.Cache[chainhash.Hash, record]
	misses  *expirable.LRU[chainhash.Hash, struct{}]

	mu        sync.RWMutex
	importing map[chainhash.Hash]record
	tipHash   chainhash.Hash
	tipHeight uint64
}

// NewStore builds a store seeded with the network genesis block.
func NewStore(network model.Network, repo Repository, opts Options, logger *zap.Logger) (*Store, error) {
	if repo == nil {
		return nil, errors.New("chain repository is required")
	}
	if logger == nil {
		return nil, errors.New("chain logger is required")
	}
	params, err := network.Params()
	if err != nil {
		return nil, err
	}

	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}
	if opts.MissCacheTTL <= 0 {
		opts.MissCacheTTL = defaultMissCacheTTL
	}
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = defaultQueryTimeout
	}

	records, err := lru.New[chainhash.Hash, record](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create header cache: %w", err)
	}

	s := &Store{
		network:   network,
		repo:      repo,
		timeout:   opts.QueryTimeout,
		logger:    logger.Named("chain").With(zap.String("network", string(network))),
		records:   records,
		misses:    expirable.NewLRU[chainhash.Hash, struct{}](defaultMissCacheCap, nil, opts.MissCacheTTL),
		importing: make(map[chainhash.Hash]record),
	}
	s.seedGenesis(params)
	return s, nil
}

func (s *Store) seedGenesis(params *chaincfg.Params) {
	header := params.GenesisBlock.Header
	s.records.Add(*params.GenesisHash, record{header: header})
	s.tipHash = *params.GenesisHash
}

// IsKnown reports whether hash is persisted or being imported.
func (s *Store) IsKnown(hash chainhash.Hash) bool {
	_, ok := s.lookup(hash)
	return ok
}

// HeaderOf returns the header of a known block.
func (s *Store) HeaderOf(hash chainhash.Hash) (*wire.BlockHeader, bool) {
	rec, ok := s.lookup(hash)
	if !ok {
		return nil, false
	}
	header := rec.header
	return &header, true
}

// HeightOf returns the height of a known block.
func (s *Store) HeightOf(hash chainhash.Hash) (uint64, bool) {
	rec, ok := s.lookup(hash)
	if !ok {
		return 0, false
	}
	return rec.height, true
}

// Tip returns the highest persisted block seen by the store.
func (s *Store) Tip() (chainhash.Hash, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tipHash, s.tipHeight
}

// Remember pins a block that the importer is about to persist.
func (s *Store) Remember(header wire.BlockHeader, height uint64) {
	hash := header.BlockHash()

	s.mu.Lock()
	s.importing[hash] = record{header: header, height: height}
	s.mu.Unlock()

	s.misses.Remove(hash)
}

// Persisted moves a pinned block into the header cache.
func (s *Store) Persisted(hash chainhash.Hash) {
	s.mu.Lock()
	rec, ok := s.importing[hash]
	if ok {
		delete(s.importing, hash)
		s.advanceTip(hash, rec.height)
	}
	s.mu.Unlock()

	if ok {
		s.records.Add(hash, rec)
	}
}

// Forget unpins a block whose import failed.
func (s *Store) Forget(hash chainhash.Hash) {
	s.mu.Lock()
	delete(s.importing, hash)
	s.mu.Unlock()
}

// Warm loads up to n of the highest persisted blocks into the header cache.
func (s *Store) Warm(ctx context.Context, n uint64) (int, error) {
	blocks, err := s.repo.RecentBlocks(ctx, s.network, n)
	if err != nil {
		return 0, fmt.Errorf("load recent blocks: %w", err)
	}

	loaded := 0
	for _, block := range blocks {
		header, err := HeaderFromBlock(block)
		if err != nil {
			s.logger.Warn("skip unreadable stored block", zap.String("hash", block.Hash), zap.Error(err))
			continue
		}
		hash := header.BlockHash()
		s.records.Add(hash, record{header: header, height: block.Height})
		s.misses.Remove(hash)

		s.mu.Lock()
		s.advanceTip(hash, block.Height)
		s.mu.Unlock()
		loaded++
	}
	return loaded, nil
}

// advanceTip must be called with mu held.
func (s *Store) advanceTip(hash chainhash.Hash, height uint64) {
	if height > s.tipHeight {
		s.tipHash = hash
		s.tipHeight = height
	}
}

func (s *Store) lookup(hash chainhash.Hash) (record, bool) {
	s.mu.RLock()
	rec, ok := s.importing[hash]
	s.mu.RUnlock()
	if ok {
		return rec, true
	}
	if rec, ok = s.records.Get(hash); ok {
		return rec, true
	}
	if s.misses.Contains(hash) {
		return record{}, false
	}

	rec, err := s.load(hash)
	switch {
	case err == nil:
		s.records.Add(hash, rec)
		return rec, true
	case errors.Is(err, clickhouse.ErrNotFound):
		s.misses.Add(hash, struct{}{})
	default:
		s.logger.Error("lookup block", zap.Stringer("hash", hash), zap.Error(err))
	}
	return record{}, false
}

func (s *Store) load(hash chainhash.Hash) (record, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	block, err := s.repo.BlockByHash(ctx, s.network, hash.String())
	if err != nil {
		return record{}, err
	}
	header, err := HeaderFromBlock(block)
	if err != nil {
		return record{}, err
	}
	if got := header.BlockHash(); got != hash {
		return record{}, fmt.Errorf("stored header hashes to %s, want %s", got, hash)
	}
	return record{header: header, height: block.Height}, nil
}
