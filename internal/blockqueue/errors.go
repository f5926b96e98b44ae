package blockqueue

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Admission errors. They are returned by Enqueue before any verification work is spent and are always recoverable
// by the caller.
var (
	// ErrFull means the byte or block ceiling would be exceeded.
	ErrFull = errors.New("block queue is full")
	// ErrDuplicate means the hash is already staged in the queue.
	ErrDuplicate = errors.New("block already staged")
	// ErrAlreadyQueued means the hash was handed to the importer or is already part of the known chain.
	ErrAlreadyQueued = errors.New("block already queued for import or known to the chain")
	// ErrKnownBad means the hash or one of its ancestors was rejected earlier.
	ErrKnownBad = errors.New("block is known bad")
	// ErrClosed means the queue no longer accepts blocks.
	ErrClosed = errors.New("block queue is closed")
)

// ErrBadAncestor is the reason recorded for blocks quarantined because an ancestor is bad.
var ErrBadAncestor = errors.New("block descends from a bad block")

// ErrNotStarted is returned by Settle when verifications are outstanding and Start was never called.
var ErrNotStarted = errors.New("block queue is not started")

// IsAdmissionError reports whether err is one of the admission errors.
func IsAdmissionError(err error) bool {
	return errors.Is(err, ErrFull) ||
		errors.Is(err, ErrDuplicate) ||
		errors.Is(err, ErrAlreadyQueued) ||
		errors.Is(err, ErrKnownBad) ||
		errors.Is(err, ErrClosed)
}

// VerificationKind classifies verification failures.
type VerificationKind string

const (
	KindMalformedHeader VerificationKind = "malformed_header"
	KindSeal            VerificationKind = "seal"
	KindTimestamp       VerificationKind = "timestamp"
	KindBodyMismatch    VerificationKind = "body_mismatch"
	KindPanic           VerificationKind = "panic"
)

// VerificationError is a structural or parent-context check failure. It is never retried.
type VerificationError struct {
	Kind VerificationKind
	Err  error
}

// NewVerificationError wraps err with the given kind.
func NewVerificationError(kind VerificationKind, err error) *VerificationError {
	return &VerificationError{Kind: kind, Err: err}
}

func (e *VerificationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("verification failed: %s", e.Kind)
	}
	return fmt.Sprintf("verification failed: %s: %v", e.Kind, e.Err)
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}

// ImportError is a failure reported by the importer after execution.
type ImportError struct {
	Hash chainhash.Hash
	Err  error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import of block %s failed: %v", e.Hash, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// verificationKind returns the kind of err, or "" when err is not a VerificationError.
func verificationKind(err error) VerificationKind {
	var verr *VerificationError
	if errors.As(err, &verr) {
		return verr.Kind
	}
	return ""
}
