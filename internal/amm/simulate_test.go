package amm

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aman-zulfiqar/amm-quote-engine/internal/models"
)

func asset(denom string, decimals uint8, amount int64) models.PoolAsset {
	return models.PoolAsset{Denom: denom, Decimals: decimals, Amount: big.NewInt(amount)}
}

func cpPool(id string, fees models.FeeSchedule, assets ...models.PoolAsset) *models.Pool {
	return &models.Pool{
		ID:      id,
		Assets:  assets,
		Type:    models.ConstantProductType(),
		Fees:    fees,
		LPDenom: "factory/" + id + "/lp",
	}
}

func stablePool(id string, amp uint64, fees models.FeeSchedule, assets ...models.PoolAsset) *models.Pool {
	return &models.Pool{
		ID:      id,
		Assets:  assets,
		Type:    models.StableSwapType(amp),
		Fees:    fees,
		LPDenom: "factory/" + id + "/lp",
	}
}

func noFees() models.FeeSchedule {
	return models.FeeSchedule{}
}

func TestSimulate_ConstantProductNoFees(t *testing.T) {
	// balanced 1:1 pool, zero fees: 1000 in yields 999 out after slippage
	pool := cpPool("p1", noFees(),
		asset("uusdx", 6, 1_000_000),
		asset("uusdy", 6, 1_000_000),
	)

	res, err := NewSimulator().Simulate(pool, models.NewCoin("uusdx", big.NewInt(1000)), "uusdy")
	require.NoError(t, err)

	assert.Equal(t, big.NewInt(999), res.ReturnAmount)
	assert.Equal(t, big.NewInt(1), res.SpreadAmount)
	assert.Zero(t, res.SwapFeeAmount.Sign())
	assert.Zero(t, res.ProtocolFeeAmount.Sign())
	assert.Zero(t, res.BurnFeeAmount.Sign())
	assert.Zero(t, res.ExtraFeesAmount.Sign())
}

func TestSimulate_ConstantProductWithFees(t *testing.T) {
	fees := models.FeeSchedule{
		SwapFee:     models.MustRate("0.003"),
		ProtocolFee: models.MustRate("0.001"),
	}
	pool := cpPool("p1", fees,
		asset("uusdx", 6, 1_000_000),
		asset("uusdy", 6, 1_000_000),
	)

	res, err := NewSimulator().Simulate(pool, models.NewCoin("uusdx", big.NewInt(1000)), "uusdy")
	require.NoError(t, err)

	// curve output 999, swap fee floor(999*0.003)=2, protocol floor(999*0.001)=0
	assert.Equal(t, big.NewInt(997), res.ReturnAmount)
	assert.Equal(t, big.NewInt(1), res.SpreadAmount)
	assert.Equal(t, big.NewInt(2), res.SwapFeeAmount)
	assert.Equal(t, big.NewInt(0), res.ProtocolFeeAmount)
}

func TestSimulate_ExtraFees(t *testing.T) {
	fees := models.FeeSchedule{
		SwapFee:   models.MustRate("0.003"),
		ExtraFees: []models.Rate{models.MustRate("0.01"), models.MustRate("0.02")},
	}
	pool := cpPool("p1", fees,
		asset("uusdx", 6, 100_000_000),
		asset("uusdy", 6, 100_000_000),
	)

	res, err := NewSimulator().Simulate(pool, models.NewCoin("uusdx", big.NewInt(100_000)), "uusdy")
	require.NoError(t, err)

	// curve output floor(1e8*1e5/(1e8+1e5)) = 99900
	assert.Equal(t, big.NewInt(299), res.SwapFeeAmount)
	// extra fees aggregate: floor(99900*0.01) + floor(99900*0.02) = 999 + 1998
	assert.Equal(t, big.NewInt(2997), res.ExtraFeesAmount)
	assert.Equal(t, big.NewInt(99900-299-2997), res.ReturnAmount)
}

func TestSimulate_AssetMismatch(t *testing.T) {
	pool := cpPool("p1", noFees(),
		asset("uusdx", 6, 1_000_000),
		asset("uusdy", 6, 1_000_000),
	)
	sim := NewSimulator()

	_, err := sim.Simulate(pool, models.NewCoin("nothere", big.NewInt(1000)), "uusdy")
	assert.ErrorIs(t, err, ErrAssetMismatch)

	_, err = sim.Simulate(pool, models.NewCoin("uusdx", big.NewInt(1000)), "nothere")
	assert.ErrorIs(t, err, ErrAssetMismatch)
}

func TestSimulate_EmptyReserves(t *testing.T) {
	pool := cpPool("p1", noFees(),
		asset("uusdx", 6, 0),
		asset("uusdy", 6, 1_000_000),
	)

	_, err := NewSimulator().Simulate(pool, models.NewCoin("uusdx", big.NewInt(1000)), "uusdy")
	assert.ErrorIs(t, err, ErrEmptyReserves)
}

func TestSimulate_UnknownPoolType(t *testing.T) {
	pool := cpPool("p1", noFees(),
		asset("uusdx", 6, 1_000_000),
		asset("uusdy", 6, 1_000_000),
	)
	pool.Type = models.PoolType{Kind: "mystery_curve"}

	_, err := NewSimulator().Simulate(pool, models.NewCoin("uusdx", big.NewInt(1000)), "uusdy")
	assert.ErrorIs(t, err, ErrUnknownPoolType)
}

func TestSimulate_InvalidFeeSchedule(t *testing.T) {
	fees := models.FeeSchedule{
		SwapFee:     models.MustRate("0.6"),
		ProtocolFee: models.MustRate("0.5"),
	}
	pool := cpPool("p1", fees,
		asset("uusdx", 6, 1_000_000),
		asset("uusdy", 6, 1_000_000),
	)

	_, err := NewSimulator().Simulate(pool, models.NewCoin("uusdx", big.NewInt(1000)), "uusdy")
	assert.ErrorIs(t, err, ErrInvalidFees)
}

func TestReverseSimulate_ConstantProduct(t *testing.T) {
	fees := models.FeeSchedule{
		SwapFee:     models.MustRate("0.003"),
		ProtocolFee: models.MustRate("0.001"),
	}
	pool := cpPool("p1", fees,
		asset("uusdx", 6, 1_000_000),
		asset("uusdy", 6, 1_000_000),
	)

	res, err := NewSimulator().ReverseSimulate(pool, models.NewCoin("uusdy", big.NewInt(997)), "uusdx")
	require.NoError(t, err)

	// before fees = ceil(997/0.996) = 1002, offer = ceil(1e6*1002/998998) = 1004
	assert.Equal(t, big.NewInt(1004), res.OfferAmount)
	assert.Equal(t, big.NewInt(2), res.SpreadAmount)
	assert.Equal(t, big.NewInt(3), res.SwapFeeAmount)
	assert.Equal(t, big.NewInt(1), res.ProtocolFeeAmount)
}

func TestReverseSimulate_DrainsPool(t *testing.T) {
	pool := cpPool("p1", noFees(),
		asset("uusdx", 6, 1_000_000),
		asset("uusdy", 6, 1_000_000),
	)

	_, err := NewSimulator().ReverseSimulate(pool, models.NewCoin("uusdy", big.NewInt(1_000_000)), "uusdx")
	assert.ErrorIs(t, err, ErrUnderflow)
}

func TestForwardReverse_RoundTrip(t *testing.T) {
	// reverse-simulating a forward result recovers the original offer amount
	// within the curve's rounding bound
	fees := models.FeeSchedule{
		SwapFee:     models.MustRate("0.003"),
		ProtocolFee: models.MustRate("0.001"),
	}
	pool := cpPool("p1", fees,
		asset("uusdx", 6, 50_000_000),
		asset("uusdy", 6, 80_000_000),
	)
	sim := NewSimulator()

	offer := big.NewInt(250_000)
	fwd, err := sim.Simulate(pool, models.NewCoin("uusdx", offer), "uusdy")
	require.NoError(t, err)

	rev, err := sim.ReverseSimulate(pool, models.NewCoin("uusdy", fwd.ReturnAmount), "uusdx")
	require.NoError(t, err)

	diff := new(big.Int).Sub(rev.OfferAmount, offer)
	assert.LessOrEqual(t, diff.CmpAbs(big.NewInt(5)), 0,
		"round trip drifted: offered %s, recovered %s", offer, rev.OfferAmount)
}

func TestResolveAssets_OrderIndependent(t *testing.T) {
	pool := cpPool("p1", noFees(),
		asset("uusdx", 6, 1_000_000),
		asset("uusdy", 8, 2_000_000),
	)

	// the offer side always follows the first argument, not pool order
	res, err := ResolveAssets(pool, "uusdy", "uusdx")
	require.NoError(t, err)
	assert.Equal(t, "uusdy", res.Offer.Denom)
	assert.Equal(t, "uusdx", res.Ask.Denom)
	assert.Equal(t, 1, res.OfferIndex)
	assert.Equal(t, 0, res.AskIndex)
	assert.Equal(t, uint8(8), res.OfferDecimals)
	assert.Equal(t, uint8(6), res.AskDecimals)
}

func TestAssetDecimals(t *testing.T) {
	pool := cpPool("p1", noFees(),
		asset("uusdx", 6, 1_000_000),
		asset("uusdy", 8, 2_000_000),
	)

	dec, err := AssetDecimals(pool, "uusdy")
	require.NoError(t, err)
	assert.Equal(t, uint8(8), dec)

	_, err = AssetDecimals(pool, "nothere")
	assert.ErrorIs(t, err, ErrAssetMismatch)
}
