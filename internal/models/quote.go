package models

import "time"

// QuoteRecord is one served pricing query, persisted for analytics.
type QuoteRecord struct {
	Timestamp  time.Time `json:"timestamp"`
	PoolID     string    `json:"pool_identifier"`
	Direction  string    `json:"direction"` // "simulate" or "reverse_simulate"
	OfferDenom string    `json:"offer_denom"`
	AskDenom   string    `json:"ask_denom"`
	AmountIn   string    `json:"amount_in"`
	AmountOut  string    `json:"amount_out"`
	Spread     string    `json:"spread_amount"`
	TotalFees  string    `json:"total_fees"`
	TookMs     int64     `json:"took_ms"`
}
