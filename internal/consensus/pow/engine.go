// Package pow implements the block queue consensus engine for bitcoin proof-of-work chains.
package pow

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/wire"
	"github.com/goodnatureofminers/blockqueue/internal/blockqueue"
)

// Engine runs context-free block sanity checks and the header checks that only need the parent.
// Median-time-past and exact retarget validation need deeper ancestry and are left to the importer.
type Engine struct {
	params           *chaincfg.Params
	timeSource       blockchain.MedianTimeSource
	strictTimestamps bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithStrictTimestamps requires every block to be timestamped strictly after its parent.
func WithStrictTimestamps() Option {
	return func(e *Engine) {
		e.strictTimestamps = true
	}
}

// WithTimeSource replaces the network-adjusted clock used for the future timestamp limit.
func WithTimeSource(source blockchain.MedianTimeSource) Option {
	return func(e *Engine) {
		e.timeSource = source
	}
}

// New returns an engine for the given network.
func New(params *chaincfg.Params, opts ...Option) (*Engine, error) {
	if params == nil {
		return nil, errors.New("chain params are required")
	}
	e := &Engine{
		params:     params,
		timeSource: blockchain.NewMedianTime(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// VerifyBasic checks proof of work, the future timestamp limit and body consistency.
func (e *Engine) VerifyBasic(header *wire.BlockHeader, block *btcutil.Block) error {
	if header == nil || block == nil {
		return blockqueue.NewVerificationError(blockqueue.KindMalformedHeader, errors.New("missing header or body"))
	}
	if hash := header.BlockHash(); hash != *block.Hash() {
		return blockqueue.NewVerificationError(blockqueue.KindBodyMismatch,
			fmt.Errorf("header %s does not belong to block %s", hash, block.Hash()))
	}

	return classify(blockchain.CheckBlockSanity(block, e.params.PowLimit, e.timeSource))
}

// VerifyWithParent checks the difficulty transition from parent and, when enabled, timestamp monotonicity.
func (e *Engine) VerifyWithParent(header, parent *wire.BlockHeader) error {
	if header == nil || parent == nil {
		return blockqueue.NewVerificationError(blockqueue.KindMalformedHeader, errors.New("missing header"))
	}
	if parentHash := parent.BlockHash(); header.PrevBlock != parentHash {
		return blockqueue.NewVerificationError(blockqueue.KindMalformedHeader,
			fmt.Errorf("previous block %s does not match parent %s", header.PrevBlock, parentHash))
	}
	if err := e.checkDifficultyTransition(header.Bits, parent.Bits); err != nil {
		return blockqueue.NewVerificationError(blockqueue.KindSeal, err)
	}
	if e.strictTimestamps && !header.Timestamp.After(parent.Timestamp) {
		return blockqueue.NewVerificationError(blockqueue.KindTimestamp,
			fmt.Errorf("timestamp %s is not after parent timestamp %s", header.Timestamp, parent.Timestamp))
	}
	return nil
}

// checkDifficultyTransition bounds a target change to the retarget adjustment factor. Networks that allow
// minimum-difficulty blocks may switch to and from the proof-of-work limit at any height.
func (e *Engine) checkDifficultyTransition(bits, parentBits uint32) error {
	if bits == parentBits {
		return nil
	}
	if e.params.PoWNoRetargeting {
		return fmt.Errorf("difficulty bits %08x differ from parent bits %08x", bits, parentBits)
	}
	if e.params.ReduceMinDifficulty && (bits == e.params.PowLimitBits || parentBits == e.params.PowLimitBits) {
		return nil
	}

	factor := big.NewInt(e.params.RetargetAdjustmentFactor)
	parentTarget := blockchain.CompactToBig(parentBits)
	target := blockchain.CompactToBig(bits)

	easiest := new(big.Int).Mul(parentTarget, factor)
	if easiest.Cmp(e.params.PowLimit) > 0 {
		easiest.Set(e.params.PowLimit)
	}
	// Retargeting encodes the new target in compact form, which truncates, so the bound is compared the same way.
	hardest := blockchain.CompactToBig(blockchain.BigToCompact(new(big.Int).Div(parentTarget, factor)))

	if target.Cmp(easiest) > 0 || target.Cmp(hardest) < 0 {
		return fmt.Errorf("difficulty bits %08x are outside the allowed range from parent bits %08x", bits, parentBits)
	}
	return nil
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	var ruleErr blockchain.RuleError
	if !errors.As(err, &ruleErr) {
		return blockqueue.NewVerificationError(blockqueue.KindMalformedHeader, err)
	}
	return blockqueue.NewVerificationError(kindOf(ruleErr.ErrorCode), ruleErr)
}

func kindOf(code blockchain.ErrorCode) blockqueue.VerificationKind {
	switch code {
	case blockchain.ErrHighHash, blockchain.ErrUnexpectedDifficulty, blockchain.ErrDifficultyTooLow:
		return blockqueue.KindSeal
	case blockchain.ErrInvalidTime, blockchain.ErrTimeTooNew, blockchain.ErrTimeTooOld:
		return blockqueue.KindTimestamp
	default:
		return blockqueue.KindBodyMismatch
	}
}
