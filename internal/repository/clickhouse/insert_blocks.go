package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockqueue/internal/model"
)

const insertBlocksQuery = `
INSERT INTO queue_blocks (
	network,
	height,
	hash,
	prev_hash,
	timestamp,
	version,
	merkleroot,
	bits,
	nonce,
	size,
	tx_count
) VALUES`

// InsertBlocks stores block rows in ClickHouse.
func (r *Repository) InsertBlocks(ctx context.Context, blocks []model.Block) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_blocks", firstNetwork(blocks), err, start)
	}()

	if len(blocks) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, insertBlocksQuery)
	if err != nil {
		return fmt.Errorf("prepare blocks batch: %w", err)
	}

	for _, block := range blocks {
		if err = batch.Append(
			string(block.Network),
			block.Height,
			block.Hash,
			block.PrevHash,
			block.Timestamp,
			block.Version,
			block.MerkleRoot,
			block.Bits,
			block.Nonce,
			block.Size,
			block.TXCount,
		); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("append block %s: %w", block.Hash, err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert blocks: %w", err)
	}
	return nil
}

func firstNetwork(blocks []model.Block) model.Network {
	if len(blocks) == 0 {
		return ""
	}
	return blocks[0].Network
}
