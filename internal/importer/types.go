package importer

import (
	"context"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/goodnatureofminers/blockqueue/internal/blockqueue"
	"github.com/goodnatureofminers/blockqueue/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Queue interface {
		Drain(maxCount int) []*blockqueue.StagedBlock
		ReportOutcome(hash chainhash.Hash, err error)
	}

	Chain interface {
		HeightOf(hash chainhash.Hash) (uint64, bool)
		Remember(header wire.BlockHeader, height uint64)
		Persisted(hash chainhash.Hash)
		Forget(hash chainhash.Hash)
	}

	Repository interface {
		InsertBlocks(ctx context.Context, blocks []model.Block) error
	}

	Metrics interface {
		ObserveFlush(size int, err error, started time.Time)
		ObserveRejected(reason string)
	}
)
