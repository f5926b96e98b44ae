package bitcoin

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/goodnatureofminers/blockqueue/internal/blockqueue"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	RPCClient interface {
		GetBlockCount() (int64, error)
		GetBlockHash(blockHeight int64) (*chainhash.Hash, error)
		GetBlockHeader(blockHash *chainhash.Hash) (*wire.BlockHeader, error)
		GetBlock(blockHash *chainhash.Hash) (*wire.MsgBlock, error)
	}

	Queue interface {
		Enqueue(raw []byte) error
		BlockStatus(hash chainhash.Hash) blockqueue.BlockStatus
	}

	Chain interface {
		Tip() (chainhash.Hash, uint64)
	}

	Metrics interface {
		ObserveSync(enqueued int, err error, started time.Time)
		ObserveBackoff()
	}
)
