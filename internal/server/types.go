package server

import "github.com/aman-zulfiqar/amm-quote-engine/internal/models"

// ErrorResponse represents a standardized error response format
type ErrorResponse struct {
	Error   string `json:"error"`             // Human-readable error message
	Code    int    `json:"code"`              // HTTP status code
	Details any    `json:"details,omitempty"` // Additional error details (dev mode only)
}

// HealthResponse represents the health check response
type HealthResponse struct {
	OK bool `json:"ok"`
}

// AssetDecimalsResponse reports the declared decimals for one denom of a pool
type AssetDecimalsResponse struct {
	PoolID   string `json:"pool_identifier"`
	Denom    string `json:"denom"`
	Decimals uint8  `json:"decimals"`
}

// PoolInfoResponse pairs a pool snapshot with the total supply of its
// liquidity token
type PoolInfoResponse struct {
	Pool       *models.Pool `json:"pool_info"`
	TotalShare string       `json:"total_share"`
}

// PoolsResponse represents one page of the pool listing
type PoolsResponse struct {
	Pools []PoolInfoResponse `json:"pools"`
}

// SimulationRequest asks for a forward swap price
type SimulationRequest struct {
	OfferAsset models.Coin `json:"offer_asset"`
	AskDenom   string      `json:"ask_asset_denom"`
	PoolID     string      `json:"pool_identifier"`
}

// SimulationResponse carries the forward pricing result; amounts are decimal
// strings in the ask asset's native precision
type SimulationResponse struct {
	ReturnAmount      string `json:"return_amount"`
	SpreadAmount      string `json:"spread_amount"`
	SwapFeeAmount     string `json:"swap_fee_amount"`
	ProtocolFeeAmount string `json:"protocol_fee_amount"`
	BurnFeeAmount     string `json:"burn_fee_amount"`
	ExtraFeesAmount   string `json:"extra_fees_amount"`
}

// ReverseSimulationRequest asks for the offer amount needed to receive an
// exact ask amount
type ReverseSimulationRequest struct {
	AskAsset   models.Coin `json:"ask_asset"`
	OfferDenom string      `json:"offer_asset_denom"`
	PoolID     string      `json:"pool_identifier"`
}

// ReverseSimulationResponse carries the reverse pricing result
type ReverseSimulationResponse struct {
	OfferAmount       string `json:"offer_amount"`
	SpreadAmount      string `json:"spread_amount"`
	SwapFeeAmount     string `json:"swap_fee_amount"`
	ProtocolFeeAmount string `json:"protocol_fee_amount"`
	BurnFeeAmount     string `json:"burn_fee_amount"`
}

// ChainSimulationRequest prices an amount through an ordered sequence of
// swap operations
type ChainSimulationRequest struct {
	OfferAmount string                 `json:"offer_amount"`
	Operations  []models.SwapOperation `json:"operations"`
}

// ReverseChainSimulationRequest prices the initial amount required to end a
// chain with an exact ask amount
type ReverseChainSimulationRequest struct {
	AskAmount  string                 `json:"ask_amount"`
	Operations []models.SwapOperation `json:"operations"`
}

// ChainSimulationResponse carries the final (or initial, for reverse) amount
// of a chain simulation
type ChainSimulationResponse struct {
	Amount string `json:"amount"`
}
