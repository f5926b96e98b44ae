package clickhouse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockqueue/internal/model"
)

const blockColumns = `network,
	height,
	hash,
	prev_hash,
	timestamp,
	version,
	merkleroot,
	bits,
	nonce,
	size,
	tx_count`

const recentBlocksQuery = `
SELECT ` + blockColumns + `
FROM queue_blocks FINAL
WHERE network = ?
ORDER BY height DESC
LIMIT ?`

// RecentBlocks returns up to limit blocks with the greatest heights, highest first.
func (r *Repository) RecentBlocks(ctx context.Context, network model.Network, limit uint64) (blocks []model.Block, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("recent_blocks", network, err, start)
	}()

	rows, err := r.conn.Query(ctx, recentBlocksQuery, string(network), limit)
	if err != nil {
		return nil, fmt.Errorf("query recent blocks: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	for rows.Next() {
		block, scanErr := scanBlock(rows)
		if scanErr != nil {
			err = scanErr
			return nil, err
		}
		blocks = append(blocks, block)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent blocks: %w", err)
	}
	return blocks, nil
}

func scanBlock(rows Rows) (model.Block, error) {
	var (
		block   model.Block
		network string
	)
	if err := rows.Scan(
		&network,
		&block.Height,
		&block.Hash,
		&block.PrevHash,
		&block.Timestamp,
		&block.Version,
		&block.MerkleRoot,
		&block.Bits,
		&block.Nonce,
		&block.Size,
		&block.TXCount,
	); err != nil {
		return model.Block{}, fmt.Errorf("scan block: %w", err)
	}
	block.Network = model.Network(network)
	return block, nil
}

func ignoreNotFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
