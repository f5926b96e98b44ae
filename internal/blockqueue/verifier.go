package blockqueue

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/gammazero/workerpool"
	"go.uber.org/zap"
)

// verifier runs Engine.VerifyBasic on a fixed pool of workers. Results go to the completion channel; a ticket is
// answered at most once.
type verifier struct {
	engine  Engine
	pool    *workerpool.WorkerPool
	results chan verifyResult
	metrics Metrics
	logger  *zap.Logger
}

// newVerifier sizes the completion channel to the block ceiling, so with at most that many tickets outstanding a
// worker never blocks on delivery.
func newVerifier(engine Engine, workers, capacity int, metrics Metrics, logger *zap.Logger) *verifier {
	return &verifier{
		engine:  engine,
		pool:    workerpool.New(workers),
		results: make(chan verifyResult, capacity),
		metrics: metrics,
		logger:  logger,
	}
}

func (v *verifier) submit(t ticket) {
	v.pool.Submit(func() {
		v.results <- v.verify(t)
	})
}

func (v *verifier) verify(t ticket) (res verifyResult) {
	started := time.Now()
	res = verifyResult{seq: t.seq, block: t.block, state: TicketPending}

	defer func() {
		if r := recover(); r != nil {
			v.logger.Error("verification panicked",
				zap.Stringer("hash", t.block.Hash),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
			res.state = TicketRejected
			res.err = NewVerificationError(KindPanic, fmt.Errorf("%v", r))
		}
		v.metrics.ObserveVerification(resultLabel(res), started)
	}()

	if err := v.engine.VerifyBasic(&t.block.Header, t.block.Block); err != nil {
		res.state = TicketRejected
		res.err = err
		return res
	}
	res.state = TicketVerified
	return res
}

// stop waits for queued and running verifications, then closes the completion channel.
func (v *verifier) stop() {
	v.pool.StopWait()
	close(v.results)
}

func resultLabel(res verifyResult) string {
	if res.state == TicketVerified {
		return "verified"
	}
	if kind := verificationKind(res.err); kind != "" {
		return string(kind)
	}
	return "rejected"
}
