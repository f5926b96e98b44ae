package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockqueue/internal/model"
)

const blockByHashQuery = `
SELECT ` + blockColumns + `
FROM queue_blocks FINAL
WHERE network = ? AND hash = ?
LIMIT 1`

// BlockByHash returns the stored block with the given hash or ErrNotFound.
func (r *Repository) BlockByHash(ctx context.Context, network model.Network, hash string) (block model.Block, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("block_by_hash", network, ignoreNotFound(err), start)
	}()

	rows, err := r.conn.Query(ctx, blockByHashQuery, string(network), hash)
	if err != nil {
		return model.Block{}, fmt.Errorf("query block by hash: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return model.Block{}, fmt.Errorf("iterate block by hash: %w", err)
		}
		err = ErrNotFound
		return model.Block{}, err
	}
	if block, err = scanBlock(rows); err != nil {
		return model.Block{}, err
	}
	if err = rows.Err(); err != nil {
		return model.Block{}, fmt.Errorf("iterate block by hash: %w", err)
	}
	return block, nil
}
