package blockqueue

import (
	"fmt"
	"runtime"
)

const (
	// defaultMaxBytes mirrors the 50 MiB queue cache budget of full nodes.
	defaultMaxBytes   uint64 = 50 * 1024 * 1024
	defaultMaxBlocks         = 8192
	defaultMaxPending        = 1024
)

// EvictionPolicy selects which pending orphan is dropped when the pending index is full.
type EvictionPolicy string

const (
	// EvictOldest drops the orphan admitted first.
	EvictOldest EvictionPolicy = "oldest"
	// EvictDeepest drops the tip of the longest disconnected pending chain.
	EvictDeepest EvictionPolicy = "deepest"
)

// Config holds queue limits. Zero values fall back to defaults.
type Config struct {
	// MaxBytes caps the raw bytes staged in the queue.
	MaxBytes uint64
	// MaxBlocks caps the number of staged blocks.
	MaxBlocks int
	// MaxPending caps verified blocks waiting for a parent.
	MaxPending int
	// Eviction picks the orphan dropped when MaxPending is reached.
	Eviction EvictionPolicy
	// Workers is the size of the verification pool.
	Workers int
	// MaxReorgDepth prunes bad-block entries after this many successful imports. Zero keeps them forever.
	MaxReorgDepth uint64
	// StrictInvariants panics on internal invariant violations instead of logging them.
	StrictInvariants bool
}

// DefaultConfig returns the default limits.
func DefaultConfig() Config {
	return Config{
		MaxBytes:   defaultMaxBytes,
		MaxBlocks:  defaultMaxBlocks,
		MaxPending: defaultMaxPending,
		Eviction:   EvictOldest,
		Workers:    runtime.NumCPU(),
	}
}

func (c Config) withDefaults() (Config, error) {
	def := DefaultConfig()
	if c.MaxBytes == 0 {
		c.MaxBytes = def.MaxBytes
	}
	if c.MaxBlocks == 0 {
		c.MaxBlocks = def.MaxBlocks
	}
	if c.MaxPending == 0 {
		c.MaxPending = def.MaxPending
	}
	if c.Eviction == "" {
		c.Eviction = def.Eviction
	}
	if c.Workers == 0 {
		c.Workers = def.Workers
	}

	if c.MaxBlocks < 0 || c.MaxPending < 0 || c.Workers < 0 {
		return c, fmt.Errorf("negative queue limit: blocks=%d pending=%d workers=%d", c.MaxBlocks, c.MaxPending, c.Workers)
	}
	switch c.Eviction {
	case EvictOldest, EvictDeepest:
	default:
		return c, fmt.Errorf("unknown eviction policy %q", c.Eviction)
	}
	return c, nil
}
