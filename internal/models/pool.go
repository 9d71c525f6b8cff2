package models

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// PoolKind selects the pricing curve family of a pool.
type PoolKind string

const (
	// ConstantProduct is the x*y=k curve.
	ConstantProduct PoolKind = "constant_product"
	// StableSwap is the low-slippage curve parameterized by an amplification
	// coefficient.
	StableSwap PoolKind = "stable_swap"
)

// PoolType is the tagged curve descriptor. Amp is only meaningful for
// StableSwap pools.
type PoolType struct {
	Kind PoolKind `json:"kind"`
	Amp  uint64   `json:"amp,omitempty"`
}

func ConstantProductType() PoolType {
	return PoolType{Kind: ConstantProduct}
}

func StableSwapType(amp uint64) PoolType {
	return PoolType{Kind: StableSwap, Amp: amp}
}

// PoolAsset is one reserve entry of a pool. Decimals is fixed at pool
// creation and never changes.
type PoolAsset struct {
	Denom    string
	Decimals uint8
	Amount   *big.Int
}

type poolAssetJSON struct {
	Denom    string `json:"denom"`
	Decimals uint8  `json:"decimals"`
	Amount   string `json:"amount"`
}

func (a PoolAsset) MarshalJSON() ([]byte, error) {
	amount := "0"
	if a.Amount != nil {
		amount = a.Amount.String()
	}
	return json.Marshal(poolAssetJSON{Denom: a.Denom, Decimals: a.Decimals, Amount: amount})
}

func (a *PoolAsset) UnmarshalJSON(data []byte) error {
	var raw poolAssetJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	amount, err := ParseAmount(raw.Amount)
	if err != nil {
		return fmt.Errorf("pool asset %q: %w", raw.Denom, err)
	}
	a.Denom = raw.Denom
	a.Decimals = raw.Decimals
	a.Amount = amount
	return nil
}

// FeeSchedule is the set of fractional fee rates applied to a swap. The sum
// of all rates must be strictly below 1.
type FeeSchedule struct {
	SwapFee     Rate   `json:"swap_fee"`
	ProtocolFee Rate   `json:"protocol_fee"`
	BurnFee     Rate   `json:"burn_fee"`
	ExtraFees   []Rate `json:"extra_fees,omitempty"`
}

// Pool is a read-only snapshot of one liquidity pool. The pricing engine
// never mutates it; reserve updates belong to the execution path.
type Pool struct {
	ID      string      `json:"pool_identifier"`
	Assets  []PoolAsset `json:"assets"`
	Type    PoolType    `json:"pool_type"`
	Fees    FeeSchedule `json:"pool_fees"`
	LPDenom string      `json:"lp_denom"`
}

// SwapOperation is a single hop of a multi-hop trade.
type SwapOperation struct {
	TokenInDenom  string `json:"token_in_denom"`
	TokenOutDenom string `json:"token_out_denom"`
	PoolID        string `json:"pool_identifier"`
}
