package blockqueue

import (
	"slices"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/ef-ds/deque"
)

// pendingIndex holds verified blocks whose parent is not yet available, keyed by parent hash.
// It is not safe for concurrent use; the queue lock guards it.
type pendingIndex struct {
	byParent map[chainhash.Hash][]*entry
	byHash   map[chainhash.Hash]*entry
	// order is the pending insertion order. Entries taken out of the index stay here until they reach the front
	// or the deque is compacted.
	order  deque.Deque
	policy EvictionPolicy
	max    int
}

func newPendingIndex(limit int, policy EvictionPolicy) *pendingIndex {
	return &pendingIndex{
		byParent: make(map[chainhash.Hash][]*entry),
		byHash:   make(map[chainhash.Hash]*entry),
		policy:   policy,
		max:      limit,
	}
}

// waitOn parks e under parent and returns the entries evicted to stay within the limit.
// The returned entries may include e itself.
func (p *pendingIndex) waitOn(parent chainhash.Hash, e *entry) []*entry {
	if _, ok := p.byHash[e.hash]; ok {
		return nil
	}
	p.byParent[parent] = append(p.byParent[parent], e)
	p.byHash[e.hash] = e
	p.order.PushBack(e)

	var evicted []*entry
	for len(p.byHash) > p.max {
		victim := p.victim()
		if victim == nil {
			break
		}
		p.remove(victim)
		evicted = append(evicted, victim)
	}
	p.compact()
	return evicted
}

// takeChildren removes and returns the children of parent in admission order.
func (p *pendingIndex) takeChildren(parent chainhash.Hash) []*entry {
	children, ok := p.byParent[parent]
	if !ok {
		return nil
	}
	delete(p.byParent, parent)
	for _, child := range children {
		delete(p.byHash, child.hash)
	}

	slices.SortStableFunc(children, func(a, b *entry) int {
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		default:
			return 0
		}
	})
	return children
}

// remove drops e from the index if it is still parked.
func (p *pendingIndex) remove(e *entry) bool {
	if p.byHash[e.hash] != e {
		return false
	}
	delete(p.byHash, e.hash)

	siblings := p.byParent[e.parent]
	for i, s := range siblings {
		if s == e {
			siblings = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	if len(siblings) == 0 {
		delete(p.byParent, e.parent)
	} else {
		p.byParent[e.parent] = siblings
	}
	return true
}

// takeAll empties the index and returns every parked entry in pending order.
func (p *pendingIndex) takeAll() []*entry {
	all := make([]*entry, 0, len(p.byHash))
	for p.order.Len() > 0 {
		v, _ := p.order.PopFront()
		e := v.(*entry)
		if p.byHash[e.hash] == e {
			all = append(all, e)
			delete(p.byHash, e.hash)
		}
	}
	p.byParent = make(map[chainhash.Hash][]*entry)
	return all
}

func (p *pendingIndex) contains(hash chainhash.Hash) bool {
	_, ok := p.byHash[hash]
	return ok
}

func (p *pendingIndex) len() int {
	return len(p.byHash)
}

func (p *pendingIndex) victim() *entry {
	if p.policy == EvictDeepest {
		return p.deepest()
	}
	return p.oldest()
}

// oldest pops stale entries off the front of the order deque until it finds a parked one.
func (p *pendingIndex) oldest() *entry {
	for p.order.Len() > 0 {
		v, _ := p.order.Front()
		e := v.(*entry)
		if p.byHash[e.hash] == e {
			return e
		}
		p.order.PopFront()
	}
	return nil
}

// deepest returns the entry with the most pending ancestors, the oldest admission winning ties.
func (p *pendingIndex) deepest() *entry {
	depth := make(map[chainhash.Hash]int, len(p.byHash))
	var (
		best      *entry
		bestDepth int
		chain     []*entry
	)
	for _, e := range p.byHash {
		chain = chain[:0]
		cur := e
		base := 0
		for {
			if d, ok := depth[cur.hash]; ok {
				base = d
				break
			}
			chain = append(chain, cur)
			parent, ok := p.byHash[cur.parent]
			if !ok {
				break
			}
			cur = parent
		}
		for i := len(chain) - 1; i >= 0; i-- {
			base++
			depth[chain[i].hash] = base
		}

		d := depth[e.hash]
		if best == nil || d > bestDepth || (d == bestDepth && e.seq < best.seq) {
			best, bestDepth = e, d
		}
	}
	return best
}

// compact rebuilds the order deque once stale entries dominate it.
func (p *pendingIndex) compact() {
	if p.order.Len() <= 2*len(p.byHash)+16 {
		return
	}
	var fresh deque.Deque
	for p.order.Len() > 0 {
		v, _ := p.order.PopFront()
		e := v.(*entry)
		if p.byHash[e.hash] == e {
			fresh.PushBack(e)
		}
	}
	p.order = fresh
}
