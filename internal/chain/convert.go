package chain

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/goodnatureofminers/blockqueue/internal/blockqueue"
	"github.com/goodnatureofminers/blockqueue/internal/model"
	"github.com/goodnatureofminers/blockqueue/pkg/safe"
)

// BlockRecord converts a drained block into its stored row.
func BlockRecord(block *blockqueue.StagedBlock, network model.Network, height uint64) (model.Block, error) {
	size, err := safe.Uint32(len(block.Raw))
	if err != nil {
		return model.Block{}, fmt.Errorf("block %s size: %w", block.Hash, err)
	}
	txCount, err := safe.Uint32(len(block.Block.Transactions()))
	if err != nil {
		return model.Block{}, fmt.Errorf("block %s tx count: %w", block.Hash, err)
	}

	return model.Block{
		Network:    network,
		Height:     height,
		Hash:       block.Hash.String(),
		PrevHash:   block.Parent.String(),
		Timestamp:  block.Header.Timestamp.UTC(),
		Version:    block.Header.Version,
		MerkleRoot: block.Header.MerkleRoot.String(),
		Bits:       block.Header.Bits,
		Nonce:      block.Header.Nonce,
		Size:       size,
		TXCount:    txCount,
	}, nil
}

// HeaderFromBlock rebuilds the wire header of a stored block.
func HeaderFromBlock(block model.Block) (wire.BlockHeader, error) {
	prev, err := chainhash.NewHashFromStr(block.PrevHash)
	if err != nil {
		return wire.BlockHeader{}, fmt.Errorf("parse prev hash: %w", err)
	}
	merkle, err := chainhash.NewHashFromStr(block.MerkleRoot)
	if err != nil {
		return wire.BlockHeader{}, fmt.Errorf("parse merkle root: %w", err)
	}

	return wire.BlockHeader{
		Version:    block.Version,
		PrevBlock:  *prev,
		MerkleRoot: *merkle,
		Timestamp:  block.Timestamp,
		Bits:       block.Bits,
		Nonce:      block.Nonce,
	}, nil
}
