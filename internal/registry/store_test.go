package registry

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aman-zulfiqar/amm-quote-engine/internal/models"
)

func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   1, // Use different DB for tests
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Test connection
	err := client.Ping(ctx).Err()
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	// Clear test DB
	err = client.FlushDB(ctx).Err()
	require.NoError(t, err)

	return client
}

func cleanupTestRedis(_ *testing.T, client *redis.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_ = client.FlushDB(ctx).Err()
	_ = client.Close()
}

func testPool(id string) *models.Pool {
	return &models.Pool{
		ID: id,
		Assets: []models.PoolAsset{
			{Denom: "uatom", Decimals: 6, Amount: big.NewInt(10_000_000)},
			{Denom: "uusdx", Decimals: 6, Amount: big.NewInt(40_000_000)},
		},
		Type:    models.ConstantProductType(),
		Fees:    models.FeeSchedule{SwapFee: models.MustRate("0.003")},
		LPDenom: "factory/" + id + "/lp",
	}
}

func TestStore_UpsertAndGet(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(t, client)

	store, err := NewStore(client)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.UpsertPool(ctx, testPool("p1")))

	pool, err := store.GetPool(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", pool.ID)
	assert.Equal(t, big.NewInt(40_000_000), pool.Assets[1].Amount)
	assert.Equal(t, "0.003", pool.Fees.SwapFee.String())
}

func TestStore_GetMissing(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(t, client)

	store, err := NewStore(client)
	require.NoError(t, err)

	_, err = store.GetPool(context.Background(), "nothere")
	assert.ErrorIs(t, err, ErrPoolNotFound)
}

func TestStore_UpsertRejectsBadPool(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(t, client)

	store, err := NewStore(client)
	require.NoError(t, err)
	ctx := context.Background()

	bad := testPool("spaces not allowed")
	assert.Error(t, store.UpsertPool(ctx, bad))

	single := testPool("p1")
	single.Assets = single.Assets[:1]
	assert.Error(t, store.UpsertPool(ctx, single))
}

func TestStore_ListPagination(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(t, client)

	store, err := NewStoreWithLimits(client, 2, 3)
	require.NoError(t, err)
	ctx := context.Background()

	for _, id := range []string{"pd", "pb", "pa", "pc", "pe"} {
		require.NoError(t, store.UpsertPool(ctx, testPool(id)))
	}

	// zero limit falls back to the default
	page, err := store.ListPools(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "pa", page[0].ID)
	assert.Equal(t, "pb", page[1].ID)

	// cursor is exclusive
	page, err = store.ListPools(ctx, "pb", 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "pc", page[0].ID)
	assert.Equal(t, "pd", page[1].ID)

	// oversized limits clamp to the max
	page, err = store.ListPools(ctx, "", 100)
	require.NoError(t, err)
	assert.Len(t, page, 3)

	// cursor past the end yields an empty page
	page, err = store.ListPools(ctx, "pe", 2)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestStore_Delete(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(t, client)

	store, err := NewStore(client)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.UpsertPool(ctx, testPool("p1")))
	require.NoError(t, store.DeletePool(ctx, "p1"))

	_, err = store.GetPool(ctx, "p1")
	assert.ErrorIs(t, err, ErrPoolNotFound)

	page, err := store.ListPools(ctx, "", 10)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestStore_Supply(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(t, client)

	store, err := NewStore(client)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.SetSupply(ctx, "factory/p1/lp", big.NewInt(123_456)))

	supply, err := store.TotalSupply(ctx, "factory/p1/lp")
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(123_456), supply)

	// unknown denoms report zero, not an error
	supply, err = store.TotalSupply(ctx, "factory/unknown/lp")
	require.NoError(t, err)
	assert.Zero(t, supply.Sign())
}

func TestStore_Config(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(t, client)

	store, err := NewStore(client)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.GetConfig(ctx)
	assert.ErrorIs(t, err, ErrConfigNotFound)

	cfg := &models.Config{
		FeeCollectorAddr: "collector1",
		PoolCreationFee:  models.NewCoin("uatom", big.NewInt(1_000_000)),
		FeatureToggle: models.FeatureToggle{
			WithdrawalsEnabled: true,
			DepositsEnabled:    true,
			SwapsEnabled:       true,
		},
	}
	require.NoError(t, store.SetConfig(ctx, cfg))

	got, err := store.GetConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "collector1", got.FeeCollectorAddr)
	assert.True(t, got.FeatureToggle.SwapsEnabled)
	assert.Equal(t, big.NewInt(1_000_000), got.PoolCreationFee.Amount)
}

func TestNewStoreWithLimits_Validation(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer client.Close()

	_, err := NewStoreWithLimits(nil, 10, 100)
	assert.Error(t, err)
	_, err = NewStoreWithLimits(client, 0, 100)
	assert.Error(t, err)
	_, err = NewStoreWithLimits(client, 50, 10)
	assert.Error(t, err)
}
