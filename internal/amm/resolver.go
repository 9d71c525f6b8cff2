package amm

import (
	"fmt"

	"github.com/aman-zulfiqar/amm-quote-engine/internal/models"
)

// ResolvedAssets is the outcome of matching an offer/ask denom pair against a
// pool's asset list. The offer side always corresponds to the first requested
// denom regardless of its position in the pool.
type ResolvedAssets struct {
	Offer         models.PoolAsset
	Ask           models.PoolAsset
	OfferIndex    int
	AskIndex      int
	OfferDecimals uint8
	AskDecimals   uint8
}

// ResolveAssets locates the offer and ask assets inside the pool. Fails with
// ErrAssetMismatch if either denom is absent.
func ResolveAssets(pool *models.Pool, offerDenom, askDenom string) (ResolvedAssets, error) {
	offerIdx, askIdx := -1, -1
	for i, asset := range pool.Assets {
		switch asset.Denom {
		case offerDenom:
			offerIdx = i
		case askDenom:
			askIdx = i
		}
	}
	if offerIdx < 0 {
		return ResolvedAssets{}, fmt.Errorf("%w: %q in pool %q", ErrAssetMismatch, offerDenom, pool.ID)
	}
	if askIdx < 0 {
		return ResolvedAssets{}, fmt.Errorf("%w: %q in pool %q", ErrAssetMismatch, askDenom, pool.ID)
	}

	return ResolvedAssets{
		Offer:         pool.Assets[offerIdx],
		Ask:           pool.Assets[askIdx],
		OfferIndex:    offerIdx,
		AskIndex:      askIdx,
		OfferDecimals: pool.Assets[offerIdx].Decimals,
		AskDecimals:   pool.Assets[askIdx].Decimals,
	}, nil
}

// AssetDecimals returns the declared decimals for a single denom in the pool.
func AssetDecimals(pool *models.Pool, denom string) (uint8, error) {
	for _, asset := range pool.Assets {
		if asset.Denom == denom {
			return asset.Decimals, nil
		}
	}
	return 0, fmt.Errorf("%w: %q in pool %q", ErrAssetMismatch, denom, pool.ID)
}
