package models

// FeatureToggle gates the mutating entry points of the execution path. The
// pricing engine serves it verbatim and does not interpret it.
type FeatureToggle struct {
	WithdrawalsEnabled bool `json:"withdrawals_enabled"`
	DepositsEnabled    bool `json:"deposits_enabled"`
	SwapsEnabled       bool `json:"swaps_enabled"`
}

// Config is the contract-wide admin record.
type Config struct {
	FeeCollectorAddr string        `json:"fee_collector_addr"`
	PoolCreationFee  Coin          `json:"pool_creation_fee"`
	FeatureToggle    FeatureToggle `json:"feature_toggle"`
}
