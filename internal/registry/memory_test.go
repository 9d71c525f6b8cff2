package registry

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aman-zulfiqar/amm-quote-engine/internal/models"
)

func TestMemoryStore_UpsertAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.UpsertPool(ctx, testPool("p1")))

	pool, err := store.GetPool(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", pool.ID)

	_, err = store.GetPool(ctx, "nothere")
	assert.ErrorIs(t, err, ErrPoolNotFound)
}

func TestMemoryStore_ListPagination(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for _, id := range []string{"pc", "pa", "pb"} {
		require.NoError(t, store.UpsertPool(ctx, testPool(id)))
	}

	page, err := store.ListPools(ctx, "", 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "pa", page[0].ID)
	assert.Equal(t, "pb", page[1].ID)

	page, err = store.ListPools(ctx, "pb", 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "pc", page[0].ID)
}

func TestMemoryStore_SupplyAndConfig(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	supply, err := store.TotalSupply(ctx, "factory/p1/lp")
	require.NoError(t, err)
	assert.Zero(t, supply.Sign())

	require.NoError(t, store.SetSupply(ctx, "factory/p1/lp", big.NewInt(500)))
	supply, err = store.TotalSupply(ctx, "factory/p1/lp")
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(500), supply)

	_, err = store.GetConfig(ctx)
	assert.ErrorIs(t, err, ErrConfigNotFound)

	require.NoError(t, store.SetConfig(ctx, &models.Config{FeeCollectorAddr: "collector1"}))
	cfg, err := store.GetConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "collector1", cfg.FeeCollectorAddr)
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.UpsertPool(ctx, testPool("p1")))
	require.NoError(t, store.DeletePool(ctx, "p1"))

	_, err := store.GetPool(ctx, "p1")
	assert.ErrorIs(t, err, ErrPoolNotFound)
}

func TestValidateIdentifier(t *testing.T) {
	assert.NoError(t, ValidateIdentifier("uatom-uusdx.1"))
	assert.NoError(t, ValidateIdentifier("factory/p1/lp"))
	assert.Error(t, ValidateIdentifier(""))
	assert.Error(t, ValidateIdentifier("has space"))
	assert.Error(t, ValidateIdentifier("colon:separated"))
}
