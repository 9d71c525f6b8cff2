package storage

import (
	"context"
	"io"
	"math/big"

	"github.com/aman-zulfiqar/amm-quote-engine/internal/models"
)

// PoolStore defines the interface for the pool registry consumed by the
// pricing engine. The engine only ever reads snapshots; writes belong to the
// seeding/execution path.
type PoolStore interface {
	// GetPool loads one pool by identifier
	GetPool(ctx context.Context, id string) (*models.Pool, error)

	// ListPools returns pools in ascending identifier order, strictly after
	// afterID when it is non-empty. A non-positive limit selects the store's
	// default page size; larger limits are clamped to its maximum.
	ListPools(ctx context.Context, afterID string, limit int) ([]*models.Pool, error)

	// UpsertPool stores a pool snapshot
	UpsertPool(ctx context.Context, pool *models.Pool) error

	// DeletePool removes a pool by identifier
	DeletePool(ctx context.Context, id string) error
}

// SupplyQuerier resolves the total supply of a liquidity-token denom.
type SupplyQuerier interface {
	TotalSupply(ctx context.Context, denom string) (*big.Int, error)
}

// ConfigStore holds the contract-wide admin record.
type ConfigStore interface {
	GetConfig(ctx context.Context) (*models.Config, error)
	SetConfig(ctx context.Context, cfg *models.Config) error
}

// QuoteStore defines the interface for persistent quote-history storage.
type QuoteStore interface {
	// InsertQuote records one served pricing query
	InsertQuote(ctx context.Context, quote *models.QuoteRecord) error

	// Ping checks if the store is reachable
	Ping(ctx context.Context) error

	// Close closes the store connection
	io.Closer
}
