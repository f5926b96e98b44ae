// Package rpcclient decorates the btcd RPC client with call metrics.
package rpcclient

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/rpcclient"
	"github.com/btcsuite/btcd/wire"
)

type (
	RPCMetrics interface {
		Observe(operation string, err error, started time.Time)
	}

	// Client is the subset of the node RPC API the block source calls.
	Client interface {
		GetBlockCount() (int64, error)
		GetBlockHash(blockHeight int64) (*chainhash.Hash, error)
		GetBlockHeader(blockHash *chainhash.Hash) (*wire.BlockHeader, error)
		GetBlock(blockHash *chainhash.Hash) (*wire.MsgBlock, error)
	}
)

var _ Client = (*rpcclient.Client)(nil)

type ObservedClient struct {
	client     Client
	rpcMetrics RPCMetrics
}

func NewObservedClient(client Client, rpcMetrics RPCMetrics) *ObservedClient {
	return &ObservedClient{
		client:     client,
		rpcMetrics: rpcMetrics,
	}
}

func (r *ObservedClient) GetBlockCount() (count int64, err error) {
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("get_block_count", err, started)
	}()
	return r.client.GetBlockCount()
}

func (r *ObservedClient) GetBlockHash(blockHeight int64) (hash *chainhash.Hash, err error) {
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("get_block_hash", err, started)
	}()
	return r.client.GetBlockHash(blockHeight)
}

func (r *ObservedClient) GetBlockHeader(blockHash *chainhash.Hash) (header *wire.BlockHeader, err error) {
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("get_block_header", err, started)
	}()
	return r.client.GetBlockHeader(blockHash)
}

func (r *ObservedClient) GetBlock(blockHash *chainhash.Hash) (block *wire.MsgBlock, err error) {
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("get_block", err, started)
	}()
	return r.client.GetBlock(blockHash)
}
