package blockqueue

import (
	"fmt"
	"sync"
)

// Reservation is capacity held by one staged block.
type Reservation struct {
	size     uint64
	released bool
}

// Size returns the reserved byte count.
func (r *Reservation) Size() uint64 {
	return r.size
}

// capacityTracker accounts staged bytes and blocks against fixed ceilings.
// Admission fails closed: nothing already staged is evicted to make room.
type capacityTracker struct {
	mu        sync.Mutex
	maxBytes  uint64
	maxBlocks int
	bytes     uint64
	blocks    int
	violation func(msg string)
}

func newCapacityTracker(maxBytes uint64, maxBlocks int, violation func(msg string)) *capacityTracker {
	return &capacityTracker{
		maxBytes:  maxBytes,
		maxBlocks: maxBlocks,
		violation: violation,
	}
}

// reserve claims size bytes and one block slot, or returns ErrFull without blocking.
func (c *capacityTracker) reserve(size uint64) (*Reservation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.blocks+1 > c.maxBlocks || size > c.maxBytes-c.bytes {
		return nil, ErrFull
	}
	c.bytes += size
	c.blocks++
	return &Reservation{size: size}, nil
}

// release returns exactly what r reserved. Releasing twice is an invariant violation.
func (c *capacityTracker) release(r *Reservation) {
	if r == nil {
		c.violation("release of nil capacity reservation")
		return
	}

	c.mu.Lock()
	if r.released {
		c.mu.Unlock()
		c.violation(fmt.Sprintf("double release of capacity reservation (%d bytes)", r.size))
		return
	}
	if c.blocks == 0 || c.bytes < r.size {
		bytes, blocks := c.bytes, c.blocks
		c.mu.Unlock()
		c.violation(fmt.Sprintf("capacity underflow: releasing %d bytes with %d bytes / %d blocks staged", r.size, bytes, blocks))
		return
	}
	r.released = true
	c.bytes -= r.size
	c.blocks--
	c.mu.Unlock()
}

// usage returns staged bytes and blocks.
func (c *capacityTracker) usage() (uint64, int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.bytes, c.blocks
}
