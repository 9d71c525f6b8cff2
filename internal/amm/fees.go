package amm

import (
	"fmt"
	"math/big"

	"github.com/aman-zulfiqar/amm-quote-engine/internal/models"
)

// FeeBreakdown holds the individual fee amounts of one swap, as integers in
// the ask asset's native precision. ExtraFees aggregates all extra fee
// entries into a single amount.
type FeeBreakdown struct {
	SwapFee     *big.Int
	ProtocolFee *big.Int
	BurnFee     *big.Int
	ExtraFees   *big.Int
}

// Total sums every fee component.
func (f FeeBreakdown) Total() *big.Int {
	out := new(big.Int).Add(f.SwapFee, f.ProtocolFee)
	out.Add(out, f.BurnFee)
	out.Add(out, f.ExtraFees)
	return out
}

// ValidateFees checks that all rates of the schedule sum strictly below 1.
// The bound keeps the reverse fee inversion well-defined.
func ValidateFees(fees models.FeeSchedule) error {
	total := totalFeeRate(fees)
	if total.Cmp(OneWide()) >= 0 {
		return fmt.Errorf("%w: total is %s", ErrInvalidFees, total)
	}
	return nil
}

// totalFeeRate sums swap, protocol, burn and extra rates in wide form.
func totalFeeRate(fees models.FeeSchedule) WideDec {
	total := WideFromRate(fees.SwapFee)
	total = total.Add(WideFromRate(fees.ProtocolFee))
	total = total.Add(WideFromRate(fees.BurnFee))
	for _, extra := range fees.ExtraFees {
		total = total.Add(WideFromRate(extra))
	}
	return total
}

// ComputeFees applies every rate of the schedule to the base amount,
// truncating each component to an integer.
func ComputeFees(fees models.FeeSchedule, base *big.Int) (FeeBreakdown, error) {
	out := FeeBreakdown{
		SwapFee:     fees.SwapFee.Apply(base),
		ProtocolFee: fees.ProtocolFee.Apply(base),
		BurnFee:     fees.BurnFee.Apply(base),
		ExtraFees:   big.NewInt(0),
	}
	for _, extra := range fees.ExtraFees {
		out.ExtraFees.Add(out.ExtraFees, extra.Apply(base))
	}
	for _, amount := range []*big.Int{out.SwapFee, out.ProtocolFee, out.BurnFee, out.ExtraFees} {
		if _, err := checkAmount(amount); err != nil {
			return FeeBreakdown{}, fmt.Errorf("fee amount: %w", err)
		}
	}
	return out, nil
}
