package transport

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/goodnatureofminers/blockqueue/internal/blockqueue"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// QueueReader is the read-only queue surface exposed to operators.
	QueueReader interface {
		Status() blockqueue.Status
		Info() blockqueue.QueueInfo
		BlockStatus(hash chainhash.Hash) blockqueue.BlockStatus
		BadReason(hash chainhash.Hash) error
	}
)
