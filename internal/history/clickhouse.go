// Package history persists served pricing queries to ClickHouse for
// analytics. Recording is best-effort; a failed insert never fails the quote.
package history

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/aman-zulfiqar/amm-quote-engine/internal/models"
)

// Options configures the ClickHouse connection.
type Options struct {
	Addr     string
	Database string
	Username string
	Password string
}

type ClickHouseStore struct {
	conn driver.Conn
}

func NewClickHouseStore(ctx context.Context, opts Options) (*ClickHouseStore, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{opts.Addr},
		Auth: clickhouse.Auth{
			Database: opts.Database,
			Username: opts.Username,
			Password: opts.Password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return &ClickHouseStore{conn: conn}, nil
}

func (c *ClickHouseStore) InsertQuote(ctx context.Context, quote *models.QuoteRecord) error {
	query := `
		INSERT INTO quotes (
			timestamp, pool_identifier, direction, offer_denom, ask_denom,
			amount_in, amount_out, spread_amount, total_fees, took_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	err := c.conn.Exec(ctx, query,
		quote.Timestamp,
		quote.PoolID,
		quote.Direction,
		quote.OfferDenom,
		quote.AskDenom,
		quote.AmountIn,
		quote.AmountOut,
		quote.Spread,
		quote.TotalFees,
		quote.TookMs,
	)
	if err != nil {
		return fmt.Errorf("failed to insert quote: %w", err)
	}
	return nil
}

func (c *ClickHouseStore) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

func (c *ClickHouseStore) Close() error {
	return c.conn.Close()
}
