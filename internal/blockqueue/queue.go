// Package blockqueue stages blocks received out of order, verifies them in parallel and releases them to the chain
// importer strictly parent before child.
package blockqueue

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime/debug"
	"sync"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/ef-ds/deque"
	"go.uber.org/zap"
)

type blockState int

const (
	stateVerifying blockState = iota
	statePending
	stateReady
	stateImporting
)

func (s blockState) String() string {
	switch s {
	case stateVerifying:
		return "verifying"
	case statePending:
		return "pending"
	case stateReady:
		return "ready"
	case stateImporting:
		return "importing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// entry is the queue's bookkeeping for one hash. block is dropped once the importer owns it; header stays so that
// children arriving later can still be checked against it.
type entry struct {
	block       *StagedBlock
	hash        chainhash.Hash
	parent      chainhash.Hash
	header      wire.BlockHeader
	seq         uint64
	state       blockState
	reservation *Reservation
}

// Status is a point-in-time view of the queue.
type Status struct {
	// Queued counts blocks staged in the queue: verifying, pending and ready.
	Queued      int
	Verifying   int
	Ready       int
	Pending     int
	Importing   int
	StagedBytes uint64
	BadBlocks   int
}

// BlockStatus is the queue's view of a single hash.
type BlockStatus int

const (
	StatusUnknown BlockStatus = iota
	StatusQueued
	StatusBad
	StatusInChain
)

func (s BlockStatus) String() string {
	switch s {
	case StatusUnknown:
		return "unknown"
	case StatusQueued:
		return "queued"
	case StatusBad:
		return "bad"
	case StatusInChain:
		return "in_chain"
	default:
		return fmt.Sprintf("block_status(%d)", int(s))
	}
}

// QueueInfo summarises queue occupancy for producers and health checks.
type QueueInfo struct {
	Unverified int
	Verified   int
	Importing  int
	MaxBlocks  int
	MaxBytes   uint64
	Bytes      uint64
}

// TotalQueueSize counts every block the queue still holds or the importer has not answered for.
func (i QueueInfo) TotalQueueSize() int {
	return i.Unverified + i.Verified + i.Importing
}

// IsEmpty reports whether nothing is staged or importing.
func (i QueueInfo) IsEmpty() bool {
	return i.TotalQueueSize() == 0
}

// IsFull reports whether the next admission would fail on the block ceiling.
func (i QueueInfo) IsFull() bool {
	return i.Unverified+i.Verified >= i.MaxBlocks || i.Bytes >= i.MaxBytes
}

// Queue is the orchestrator. All ordering state is guarded by mu; verification runs outside it.
type Queue struct {
	cfg      Config
	engine   Engine
	chain    Chain
	metrics  Metrics
	logger   *zap.Logger
	verifier *verifier
	capacity *capacityTracker

	mu        sync.Mutex
	entries   map[chainhash.Hash]*entry
	pending   *pendingIndex
	bad       *badBlockRegistry
	imported  *importedSet
	ready     deque.Deque
	readyLen  int
	verifying int
	importing int
	seq       uint64
	idle      chan struct{}
	closed    bool
	started   bool
	loopDone  chan struct{}
}

// New builds a Queue. Call Start to begin processing verification results and Close to tear it down.
func New(cfg Config, engine Engine, chain Chain, metrics Metrics, logger *zap.Logger) (*Queue, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, fmt.Errorf("block queue config: %w", err)
	}
	if engine == nil {
		return nil, errors.New("consensus engine is required")
	}
	if chain == nil {
		return nil, errors.New("chain is required")
	}
	if metrics == nil {
		return nil, errors.New("block queue metrics is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	q := &Queue{
		cfg:      cfg,
		engine:   engine,
		chain:    chain,
		metrics:  metrics,
		logger:   logger,
		entries:  make(map[chainhash.Hash]*entry),
		pending:  newPendingIndex(cfg.MaxPending, cfg.Eviction),
		bad:      newBadBlockRegistry(cfg.MaxReorgDepth),
		imported: newImportedSet(importedWindow(cfg.MaxReorgDepth)),
		loopDone: make(chan struct{}),
	}
	q.capacity = newCapacityTracker(cfg.MaxBytes, cfg.MaxBlocks, q.invariant)
	q.verifier = newVerifier(engine, cfg.Workers, cfg.MaxBlocks, metrics, logger.Named("verifier"))
	return q, nil
}

// Start launches the loop that applies verification results.
func (q *Queue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.started = true
	go q.run()
}

// Close stops admissions, waits for in-flight verifications and applies their results. Ready blocks stay
// drainable; pending blocks stay parked until DiscardPending.
func (q *Queue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	started := q.started
	q.mu.Unlock()

	q.verifier.stop()
	if started {
		<-q.loopDone
	} else {
		for res := range q.verifier.results {
			q.complete(res)
		}
	}

	status := q.Status()
	q.logger.Info("block queue closed",
		zap.Int("ready", status.Ready),
		zap.Int("pending", status.Pending),
		zap.Int("importing", status.Importing))
	return nil
}

func (q *Queue) run() {
	defer close(q.loopDone)
	for res := range q.verifier.results {
		q.complete(res)
	}
}

// Enqueue admits raw block bytes. It never blocks on capacity; ErrFull tells the producer to back off.
func (q *Queue) Enqueue(raw []byte) (err error) {
	defer func() {
		q.metrics.ObserveAdmission(err)
	}()

	block, err := decodeBlock(raw)
	if err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}
	if q.bad.isBad(block.Hash, block.Parent) {
		// Children parked while this hash was unknown can never connect now.
		q.quarantine(block.Hash)
		q.publishStatus()
		return ErrKnownBad
	}
	if e, ok := q.entries[block.Hash]; ok {
		if e.state == stateImporting {
			return ErrAlreadyQueued
		}
		return ErrDuplicate
	}
	if _, ok := q.imported.lookup(block.Hash); ok || q.chain.IsKnown(block.Hash) {
		return ErrAlreadyQueued
	}

	reservation, err := q.capacity.reserve(block.Size())
	if err != nil {
		return err
	}

	q.seq++
	e := &entry{
		block:       block,
		hash:        block.Hash,
		parent:      block.Parent,
		header:      block.Header,
		seq:         q.seq,
		state:       stateVerifying,
		reservation: reservation,
	}
	q.entries[e.hash] = e
	q.verifying++
	q.verifier.submit(ticket{seq: e.seq, block: block})

	q.logger.Debug("block admitted",
		zap.Stringer("hash", e.hash),
		zap.Stringer("parent", e.parent),
		zap.Uint64("ticket", e.seq),
		zap.Int("size", len(block.Raw)))
	q.publishStatus()
	return nil
}

// complete applies one verification result.
func (q *Queue) complete(res verifyResult) {
	q.mu.Lock()
	defer q.mu.Unlock()

	e, ok := q.entries[res.block.Hash]
	if !ok || e.seq != res.seq || e.state != stateVerifying {
		q.logger.Debug("dropping result for discarded ticket",
			zap.Uint64("ticket", res.seq),
			zap.Stringer("hash", res.block.Hash))
		return
	}
	q.verifying--
	defer q.signalIdle()
	defer q.publishStatus()

	switch {
	case res.state != TicketVerified:
		q.logger.Info("block failed verification",
			zap.Stringer("hash", e.hash),
			zap.Error(res.err))
		q.reject(e, res.err)
	case q.bad.isBad(e.hash, e.parent):
		q.reject(e, q.bad.reason(e.hash))
	default:
		q.release(e)
	}
}

// release runs the cascade: e and every pending descendant whose parent becomes available are appended to the
// ready sequence. Uses an explicit work list so a long reversed chain cannot grow the stack.
func (q *Queue) release(root *entry) {
	released := 0
	work := []*entry{root}
	for len(work) > 0 {
		e := work[len(work)-1]
		work[len(work)-1] = nil
		work = work[:len(work)-1]

		parent, ok := q.parentHeader(e)
		if !ok {
			q.park(e)
			continue
		}
		if parent != nil {
			if err := q.verifyWithParent(e, parent); err != nil {
				q.logger.Info("block failed parent checks",
					zap.Stringer("hash", e.hash),
					zap.Stringer("parent", e.parent),
					zap.Error(err))
				q.reject(e, err)
				continue
			}
		}

		e.state = stateReady
		q.ready.PushBack(e)
		q.readyLen++
		released++

		// Children are pushed in reverse so that the earliest admitted sibling is released first.
		children := q.pending.takeChildren(e.hash)
		for i := len(children) - 1; i >= 0; i-- {
			work = append(work, children[i])
		}
	}
	if released > 0 {
		q.metrics.ObserveRelease(released)
	}
}

// verifyWithParent runs the engine's parent checks on the orchestrator goroutine. A panic becomes a KindPanic
// rejection of e.
func (q *Queue) verifyWithParent(e *entry, parent *wire.BlockHeader) (err error) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("parent check panicked",
				zap.Stringer("hash", e.hash),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
			err = NewVerificationError(KindPanic, fmt.Errorf("%v", r))
		}
	}()
	return q.engine.VerifyWithParent(&e.header, parent)
}

// parentHeader reports whether e's parent is available for ordering and returns its header when one is known.
// A chain-resident parent without a retrievable header is still available; the parent-context check is skipped.
func (q *Queue) parentHeader(e *entry) (*wire.BlockHeader, bool) {
	if p, ok := q.entries[e.parent]; ok {
		if p.state == stateReady || p.state == stateImporting {
			return &p.header, true
		}
		return nil, false
	}
	if header, ok := q.imported.lookup(e.parent); ok {
		if header == nil {
			header, _ = q.chain.HeaderOf(e.parent)
		}
		return header, true
	}
	if !q.chain.IsKnown(e.parent) {
		return nil, false
	}
	header, ok := q.chain.HeaderOf(e.parent)
	if !ok {
		q.logger.Warn("known parent has no header, skipping parent checks",
			zap.Stringer("hash", e.hash),
			zap.Stringer("parent", e.parent))
		return nil, true
	}
	return header, true
}

func (q *Queue) park(e *entry) {
	e.state = statePending
	evicted := q.pending.waitOn(e.parent, e)
	for _, victim := range evicted {
		q.drop(victim)
		q.logger.Debug("evicted pending orphan",
			zap.Stringer("hash", victim.hash),
			zap.Stringer("parent", victim.parent),
			zap.String("policy", string(q.cfg.Eviction)))
	}
	if len(evicted) > 0 {
		q.metrics.ObserveEviction(len(evicted))
	}
}

// reject marks e bad, drops it and quarantines its pending subtree.
func (q *Queue) reject(e *entry, reason error) {
	q.bad.markBad(e.hash, reason)
	q.drop(e)
	q.quarantine(e.hash)
}

// quarantine marks every pending descendant of root bad and drops it.
func (q *Queue) quarantine(root chainhash.Hash) {
	work := []chainhash.Hash{root}
	for len(work) > 0 {
		hash := work[len(work)-1]
		work = work[:len(work)-1]

		for _, child := range q.pending.takeChildren(hash) {
			q.bad.markBad(child.hash, fmt.Errorf("%w: parent %s", ErrBadAncestor, hash))
			q.drop(child)
			work = append(work, child.hash)
		}
	}
}

// drop forgets e and returns its capacity. Ready entries are left in the deque and skipped by Drain.
func (q *Queue) drop(e *entry) {
	if q.entries[e.hash] == e {
		delete(q.entries, e.hash)
	}
	switch e.state {
	case statePending:
		q.pending.remove(e)
	case stateReady:
		q.readyLen--
	case stateImporting:
		q.importing--
		e.block = nil
		return
	}
	q.capacity.release(e.reservation)
	e.block = nil
}

// Drain removes up to maxCount blocks from the front of the ready sequence. Ownership moves to the caller, which must
// answer each block with ReportOutcome.
func (q *Queue) Drain(maxCount int) []*StagedBlock {
	if maxCount <= 0 {
		return nil
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]*StagedBlock, 0, min(maxCount, q.readyLen))
	for len(out) < maxCount && q.ready.Len() > 0 {
		v, _ := q.ready.PopFront()
		e := v.(*entry)
		if q.entries[e.hash] != e || e.state != stateReady {
			continue
		}
		q.readyLen--
		q.capacity.release(e.reservation)
		e.state = stateImporting
		q.importing++
		out = append(out, e.block)
		e.block = nil
	}

	if len(out) > 0 {
		q.metrics.ObserveDrain(len(out))
		q.publishStatus()
	}
	return out
}

// ReportOutcome records the importer's verdict on hash. Success marks the hash imported and releases any pending
// children, so it doubles as the signal that a hash imported through another path is now known. Failure quarantines
// the hash together with every descendant the queue still tracks, including blocks the importer already holds.
// A hash that turned bad while importing stays bad whatever its own outcome.
func (q *Queue) ReportOutcome(hash chainhash.Hash, importErr error) {
	q.metrics.ObserveOutcome(importErr)

	q.mu.Lock()
	defer q.mu.Unlock()
	defer q.publishStatus()

	e, ok := q.entries[hash]
	if ok && e.state != stateImporting {
		q.invariant(fmt.Sprintf("outcome reported for block %s in state %s", hash, e.state))
		return
	}

	if q.bad.contains(hash) {
		if ok {
			q.drop(e)
		}
		q.logger.Info("outcome for a quarantined block ignored",
			zap.Stringer("hash", hash),
			zap.NamedError("import_error", importErr),
			zap.NamedError("reason", q.bad.reason(hash)))
		return
	}

	if importErr == nil {
		var header *wire.BlockHeader
		if ok {
			h := e.header
			header = &h
			q.drop(e)
		}
		q.imported.record(hash, header)
		if pruned := q.bad.advance(); pruned > 0 {
			q.logger.Debug("pruned bad blocks", zap.Int("count", pruned))
		}
		children := q.pending.takeChildren(hash)
		for _, child := range children {
			q.release(child)
		}
		return
	}

	q.logger.Warn("block import failed", zap.Stringer("hash", hash), zap.Error(importErr))
	if ok {
		q.drop(e)
	}
	q.bad.markBad(hash, &ImportError{Hash: hash, Err: importErr})

	poisoned := q.poisonImporting(hash)
	for root := range poisoned {
		q.quarantine(root)
	}
	q.invalidateReady(poisoned)
}

// poisonImporting marks every importing descendant of root bad. The entries stay owned by the importer until their
// own outcome arrives. It returns root together with the poisoned hashes.
func (q *Queue) poisonImporting(root chainhash.Hash) map[chainhash.Hash]struct{} {
	poisoned := map[chainhash.Hash]struct{}{root: {}}
	if q.importing == 0 {
		return poisoned
	}

	children := make(map[chainhash.Hash][]*entry)
	for _, e := range q.entries {
		if e.state == stateImporting {
			children[e.parent] = append(children[e.parent], e)
		}
	}

	work := []chainhash.Hash{root}
	for len(work) > 0 {
		hash := work[len(work)-1]
		work = work[:len(work)-1]

		for _, child := range children[hash] {
			if _, seen := poisoned[child.hash]; seen {
				continue
			}
			q.bad.markBad(child.hash, fmt.Errorf("%w: parent %s", ErrBadAncestor, hash))
			q.logger.Info("importing block quarantined",
				zap.Stringer("hash", child.hash),
				zap.Stringer("parent", hash))
			poisoned[child.hash] = struct{}{}
			work = append(work, child.hash)
		}
	}
	return poisoned
}

// invalidateReady removes ready descendants of the poisoned hashes. The ready sequence is ancestor first, so one pass
// finds every descendant.
func (q *Queue) invalidateReady(poisoned map[chainhash.Hash]struct{}) {
	n := q.ready.Len()
	for i := 0; i < n; i++ {
		v, _ := q.ready.PopFront()
		e := v.(*entry)
		if q.entries[e.hash] != e || e.state != stateReady {
			continue
		}
		if _, bad := poisoned[e.parent]; bad {
			poisoned[e.hash] = struct{}{}
			q.bad.markBad(e.hash, fmt.Errorf("%w: parent %s", ErrBadAncestor, e.parent))
			q.drop(e)
			q.quarantine(e.hash)
			continue
		}
		q.ready.PushBack(e)
	}
}

// DiscardPending drops every block parked waiting for a parent and returns how many were dropped.
func (q *Queue) DiscardPending() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	parked := q.pending.takeAll()
	for _, e := range parked {
		if q.entries[e.hash] == e {
			delete(q.entries, e.hash)
		}
		q.capacity.release(e.reservation)
		e.block = nil
	}
	if len(parked) > 0 {
		q.logger.Info("discarded pending blocks", zap.Int("count", len(parked)))
		q.publishStatus()
	}
	return len(parked)
}

// Settle blocks until every admitted block has finished verification or ctx is done. Results are only applied by
// the loop launched in Start, so without it Settle returns ErrNotStarted instead of waiting.
func (q *Queue) Settle(ctx context.Context) error {
	for {
		q.mu.Lock()
		if q.verifying == 0 {
			q.mu.Unlock()
			return nil
		}
		if !q.started {
			q.mu.Unlock()
			return ErrNotStarted
		}
		if q.idle == nil {
			q.idle = make(chan struct{})
		}
		idle := q.idle
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-idle:
		}
	}
}

func (q *Queue) signalIdle() {
	if q.verifying == 0 && q.idle != nil {
		close(q.idle)
		q.idle = nil
	}
}

// Status returns current counters.
func (q *Queue) Status() Status {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.statusLocked()
}

func (q *Queue) statusLocked() Status {
	bytes, _ := q.capacity.usage()
	pending := q.pending.len()
	return Status{
		Queued:      q.verifying + pending + q.readyLen,
		Verifying:   q.verifying,
		Ready:       q.readyLen,
		Pending:     pending,
		Importing:   q.importing,
		StagedBytes: bytes,
		BadBlocks:   q.bad.len(),
	}
}

func (q *Queue) publishStatus() {
	q.metrics.SetStatus(q.statusLocked())
}

// Info returns occupancy for producers and health checks.
func (q *Queue) Info() QueueInfo {
	q.mu.Lock()
	defer q.mu.Unlock()

	bytes, _ := q.capacity.usage()
	return QueueInfo{
		Unverified: q.verifying,
		Verified:   q.pending.len() + q.readyLen,
		Importing:  q.importing,
		MaxBlocks:  q.cfg.MaxBlocks,
		MaxBytes:   q.cfg.MaxBytes,
		Bytes:      bytes,
	}
}

// BlockStatus reports what the queue knows about hash.
func (q *Queue) BlockStatus(hash chainhash.Hash) BlockStatus {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.bad.contains(hash) {
		return StatusBad
	}
	if _, ok := q.entries[hash]; ok {
		return StatusQueued
	}
	if _, ok := q.imported.lookup(hash); ok || q.chain.IsKnown(hash) {
		return StatusInChain
	}
	return StatusUnknown
}

// BadReason returns why hash was rejected, or nil when it is not known bad.
func (q *Queue) BadReason(hash chainhash.Hash) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.bad.reason(hash)
}

// importedWindow keeps imported hashes as long as bad blocks are kept, or a fixed window when they are kept forever.
func importedWindow(maxReorgDepth uint64) int {
	if maxReorgDepth == 0 || maxReorgDepth > math.MaxInt32 {
		return defaultImportedWindow
	}
	return int(maxReorgDepth)
}

// invariant reports a programming error: a panic under StrictInvariants, a log line otherwise.
func (q *Queue) invariant(msg string) {
	if q.cfg.StrictInvariants {
		panic("blockqueue invariant violated: " + msg)
	}
	q.logger.Error("invariant violated", zap.String("detail", msg))
}
