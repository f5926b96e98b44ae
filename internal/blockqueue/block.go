package blockqueue

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// StagedBlock is an admitted block. It is immutable once created.
type StagedBlock struct {
	Hash   chainhash.Hash
	Parent chainhash.Hash
	Header wire.BlockHeader
	Block  *btcutil.Block
	Raw    []byte
}

// Size returns the number of raw bytes accounted against the byte budget.
func (b *StagedBlock) Size() uint64 {
	return uint64(len(b.Raw))
}

// decodeBlock copies raw and parses it with the bitcoin wire codec.
func decodeBlock(raw []byte) (*StagedBlock, error) {
	if len(raw) < wire.MaxBlockHeaderPayload {
		return nil, NewVerificationError(KindMalformedHeader,
			fmt.Errorf("block is %d bytes, shorter than a header", len(raw)))
	}

	data := make([]byte, len(raw))
	copy(data, raw)

	block, err := btcutil.NewBlockFromBytes(data)
	if err != nil {
		return nil, NewVerificationError(KindMalformedHeader, fmt.Errorf("decode block: %w", err))
	}
	header := block.MsgBlock().Header

	return &StagedBlock{
		Hash:   *block.Hash(),
		Parent: header.PrevBlock,
		Header: header,
		Block:  block,
		Raw:    data,
	}, nil
}

// TicketState is the result slot of a verification ticket.
type TicketState int

const (
	TicketPending TicketState = iota
	TicketVerified
	TicketRejected
)

func (s TicketState) String() string {
	switch s {
	case TicketPending:
		return "pending"
	case TicketVerified:
		return "verified"
	case TicketRejected:
		return "rejected"
	default:
		return fmt.Sprintf("ticket_state(%d)", int(s))
	}
}

// ticket is handed to the verification pool. seq is assigned at admission and never reused.
type ticket struct {
	seq   uint64
	block *StagedBlock
}

// verifyResult is delivered on the completion channel, at most once per ticket.
type verifyResult struct {
	seq   uint64
	block *StagedBlock
	state TicketState
	err   error
}
