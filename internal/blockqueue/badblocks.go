package blockqueue

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

type badEntry struct {
	reason error
	// watermark is the import count when the entry was recorded.
	watermark uint64
}

// badBlockRegistry remembers invalid hashes. It is not safe for concurrent use; the queue lock guards it.
type badBlockRegistry struct {
	entries   map[chainhash.Hash]badEntry
	watermark uint64
	maxDepth  uint64
}

func newBadBlockRegistry(maxDepth uint64) *badBlockRegistry {
	return &badBlockRegistry{
		entries:  make(map[chainhash.Hash]badEntry),
		maxDepth: maxDepth,
	}
}

func (r *badBlockRegistry) markBad(hash chainhash.Hash, reason error) {
	if _, ok := r.entries[hash]; ok {
		return
	}
	r.entries[hash] = badEntry{reason: reason, watermark: r.watermark}
}

// isBad reports whether hash, or its parent, is registered. A block with a bad parent is registered itself so the
// next query for any of its children is a single lookup.
func (r *badBlockRegistry) isBad(hash, parent chainhash.Hash) bool {
	if _, ok := r.entries[hash]; ok {
		return true
	}
	if _, ok := r.entries[parent]; ok {
		r.markBad(hash, fmt.Errorf("%w: parent %s", ErrBadAncestor, parent))
		return true
	}
	return false
}

func (r *badBlockRegistry) contains(hash chainhash.Hash) bool {
	_, ok := r.entries[hash]
	return ok
}

// reason returns the recorded reason, or nil when hash is not registered.
func (r *badBlockRegistry) reason(hash chainhash.Hash) error {
	e, ok := r.entries[hash]
	if !ok {
		return nil
	}
	return e.reason
}

// advance records one successful import and prunes entries buried deeper than maxDepth.
func (r *badBlockRegistry) advance() int {
	r.watermark++
	if r.maxDepth == 0 || r.watermark <= r.maxDepth {
		return 0
	}

	pruned := 0
	for hash, e := range r.entries {
		if r.watermark-e.watermark > r.maxDepth {
			delete(r.entries, hash)
			pruned++
		}
	}
	return pruned
}

func (r *badBlockRegistry) len() int {
	return len(r.entries)
}
