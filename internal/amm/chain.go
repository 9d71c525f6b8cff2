package amm

import (
	"context"
	"fmt"
	"math/big"

	"github.com/aman-zulfiqar/amm-quote-engine/internal/models"
)

// PoolGetter supplies pool snapshots to the multi-hop composer.
type PoolGetter interface {
	GetPool(ctx context.Context, id string) (*models.Pool, error)
}

// SimulateChain threads the offer amount through the operations in order,
// feeding each hop's return amount into the next. The first failing hop
// aborts the whole chain.
func (s *Simulator) SimulateChain(ctx context.Context, pools PoolGetter, offerAmount *big.Int, operations []models.SwapOperation) (*big.Int, error) {
	if len(operations) == 0 {
		return nil, ErrNoSwapOperations
	}

	amount := new(big.Int).Set(offerAmount)
	for i, op := range operations {
		pool, err := pools.GetPool(ctx, op.PoolID)
		if err != nil {
			return nil, fmt.Errorf("hop %d: %w", i, err)
		}
		res, err := s.Simulate(pool, models.NewCoin(op.TokenInDenom, amount), op.TokenOutDenom)
		if err != nil {
			return nil, fmt.Errorf("hop %d: %w", i, err)
		}
		amount = res.ReturnAmount
	}
	return amount, nil
}

// ReverseSimulateChain walks the operations right to left starting from the
// desired ask amount, pricing each hop with its input and output roles
// swapped, and returns the initial amount the chain requires.
func (s *Simulator) ReverseSimulateChain(ctx context.Context, pools PoolGetter, askAmount *big.Int, operations []models.SwapOperation) (*big.Int, error) {
	if len(operations) == 0 {
		return nil, ErrNoSwapOperations
	}

	amount := new(big.Int).Set(askAmount)
	for i := len(operations) - 1; i >= 0; i-- {
		op := operations[i]
		pool, err := pools.GetPool(ctx, op.PoolID)
		if err != nil {
			return nil, fmt.Errorf("hop %d: %w", i, err)
		}
		res, err := s.Simulate(pool, models.NewCoin(op.TokenOutDenom, amount), op.TokenInDenom)
		if err != nil {
			return nil, fmt.Errorf("hop %d: %w", i, err)
		}
		amount = res.ReturnAmount
	}
	return amount, nil
}
