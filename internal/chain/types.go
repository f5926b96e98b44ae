package chain

import (
	"context"

	"github.com/goodnatureofminers/blockqueue/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Repository reads persisted blocks.
	Repository interface {
		BlockByHash(ctx context.Context, network model.Network, hash string) (model.Block, error)
		RecentBlocks(ctx context.Context, network model.Network, limit uint64) ([]model.Block, error)
	}
)
