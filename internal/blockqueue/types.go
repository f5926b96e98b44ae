package blockqueue

import (
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Engine runs consensus checks. Implementations must be safe for concurrent use.
	Engine interface {
		// VerifyBasic runs context-free structural and seal checks.
		VerifyBasic(header *wire.BlockHeader, block *btcutil.Block) error
		// VerifyWithParent runs checks that need the immediate ancestor.
		VerifyWithParent(header, parent *wire.BlockHeader) error
	}

	// Chain answers questions about the persisted or currently importing chain.
	Chain interface {
		IsKnown(hash chainhash.Hash) bool
		HeaderOf(hash chainhash.Hash) (*wire.BlockHeader, bool)
	}

	// Metrics records queue activity.
	Metrics interface {
		ObserveAdmission(err error)
		ObserveVerification(kind string, started time.Time)
		ObserveRelease(count int)
		ObserveDrain(count int)
		ObserveOutcome(err error)
		ObserveEviction(count int)
		SetStatus(status Status)
	}
)
