package models

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// Coin is a denominated token amount. Amounts are unsigned integers in the
// token's native precision and serialize as decimal strings so that 128-bit
// values survive JSON round trips.
type Coin struct {
	Denom  string
	Amount *big.Int
}

func NewCoin(denom string, amount *big.Int) Coin {
	return Coin{Denom: denom, Amount: amount}
}

type coinJSON struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

func (c Coin) MarshalJSON() ([]byte, error) {
	amount := "0"
	if c.Amount != nil {
		amount = c.Amount.String()
	}
	return json.Marshal(coinJSON{Denom: c.Denom, Amount: amount})
}

func (c *Coin) UnmarshalJSON(data []byte) error {
	var raw coinJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	amount, err := ParseAmount(raw.Amount)
	if err != nil {
		return fmt.Errorf("coin %q: %w", raw.Denom, err)
	}
	c.Denom = raw.Denom
	c.Amount = amount
	return nil
}

// ParseAmount parses a non-negative base-10 integer amount.
func ParseAmount(s string) (*big.Int, error) {
	if s == "" {
		return nil, fmt.Errorf("amount is required")
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("amount %q must not be negative", s)
	}
	return v, nil
}
