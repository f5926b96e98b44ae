// Package model defines the records the block queue persists.
package model

import "time"

// Block is an imported block header persisted to ClickHouse.
type Block struct {
	Network    Network
	Height     uint64
	Hash       string
	PrevHash   string
	Timestamp  time.Time
	Version    int32
	MerkleRoot string
	Bits       uint32
	Nonce      uint32
	Size       uint32
	TXCount    uint32
}
