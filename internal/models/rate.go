package models

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
)

// RateDecimals is the fixed-point precision used for fee rates.
const RateDecimals = 18

var rateUnit = new(big.Int).Exp(big.NewInt(10), big.NewInt(RateDecimals), nil)

// Rate is a non-negative fixed-point fraction with 18 decimal places,
// serialized as a decimal string (e.g. "0.003" for 0.3%).
type Rate struct {
	atomics big.Int
}

// ZeroRate returns the zero fraction.
func ZeroRate() Rate {
	return Rate{}
}

// NewRateFromAtomics builds a Rate from a raw 18-decimal fixed-point value.
func NewRateFromAtomics(v *big.Int) Rate {
	var r Rate
	if v != nil {
		r.atomics.Set(v)
	}
	return r
}

// ParseRate parses a decimal string with up to 18 fractional digits.
func ParseRate(s string) (Rate, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Rate{}, fmt.Errorf("rate is required")
	}
	if strings.HasPrefix(s, "-") {
		return Rate{}, fmt.Errorf("rate %q must not be negative", s)
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > RateDecimals {
		return Rate{}, fmt.Errorf("rate %q exceeds %d decimal places", s, RateDecimals)
	}
	frac += strings.Repeat("0", RateDecimals-len(frac))

	v, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return Rate{}, fmt.Errorf("invalid rate %q", s)
	}
	return NewRateFromAtomics(v), nil
}

// MustRate is ParseRate for literals; panics on malformed input.
func MustRate(s string) Rate {
	r, err := ParseRate(s)
	if err != nil {
		panic(err)
	}
	return r
}

// Atomics returns a copy of the raw 18-decimal fixed-point value.
func (r Rate) Atomics() *big.Int {
	return new(big.Int).Set(&r.atomics)
}

func (r Rate) IsZero() bool {
	return r.atomics.Sign() == 0
}

// Apply computes floor(amount * r).
func (r Rate) Apply(amount *big.Int) *big.Int {
	out := new(big.Int).Mul(amount, &r.atomics)
	return out.Quo(out, rateUnit)
}

func (r Rate) String() string {
	q, rem := new(big.Int).QuoRem(&r.atomics, rateUnit, new(big.Int))
	if rem.Sign() == 0 {
		return q.String()
	}
	frac := strings.TrimRight(fmt.Sprintf("%018s", rem.String()), "0")
	return q.String() + "." + frac
}

func (r Rate) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Rate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseRate(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
