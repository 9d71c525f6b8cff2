package amm

import (
	"fmt"
	"math/big"

	"github.com/aman-zulfiqar/amm-quote-engine/internal/models"
)

// ceilDiv returns ceil(a/b) for positive b.
func ceilDiv(a, b *big.Int) *big.Int {
	out, rem := new(big.Int).QuoRem(a, b, new(big.Int))
	if rem.Sign() != 0 {
		out.Add(out, big.NewInt(1))
	}
	return out
}

// constantProductOut prices a forward swap on the x*y=k curve. It returns
// the fee-free curve output and the spread against the spot price, both in
// the ask asset's native precision.
func constantProductOut(offerReserve, askReserve, offerAmount *big.Int) (curveOut, spread *big.Int, err error) {
	if offerReserve.Sign() == 0 || askReserve.Sign() == 0 {
		return nil, nil, ErrEmptyReserves
	}

	// curveOut = Ra * dO / (Ro + dO)
	denom := new(big.Int).Add(offerReserve, offerAmount)
	curveOut = new(big.Int).Mul(askReserve, offerAmount)
	curveOut.Quo(curveOut, denom)

	// spot output at the pre-trade exchange rate; the shortfall against it
	// is the slippage caused by finite liquidity
	spot := new(big.Int).Mul(offerAmount, askReserve)
	spot.Quo(spot, offerReserve)
	spread = saturatingSub(spot, curveOut)

	return curveOut, spread, nil
}

// constantProductOfferAmount inverts the forward formula: it finds the offer
// amount whose post-fee output equals askAmount, along with the fee breakdown
// computed on the corresponding before-fee amount.
func constantProductOfferAmount(offerReserve, askReserve, askAmount *big.Int, fees models.FeeSchedule) (*ReverseSwapComputation, error) {
	if err := ValidateFees(fees); err != nil {
		return nil, err
	}
	if offerReserve.Sign() == 0 || askReserve.Sign() == 0 {
		return nil, ErrEmptyReserves
	}

	// beforeFees = ask / (1 - total fee rate), rounded up so the buyer never
	// receives less than requested. A divisor of zero means fees sum to one
	// exactly; the inversion is skipped rather than treated as fatal.
	oneMinus, err := OneWide().Sub(totalFeeRate(fees))
	if err != nil {
		return nil, fmt.Errorf("fee inversion: %w", err)
	}
	beforeFees := new(big.Int).Set(askAmount)
	if !oneMinus.IsZero() {
		beforeFees.Mul(askAmount, wideUnit)
		beforeFees = ceilDiv(beforeFees, &oneMinus.v)
	}

	if beforeFees.Cmp(askReserve) >= 0 {
		return nil, fmt.Errorf("%w: ask amount drains the pool reserve", ErrUnderflow)
	}

	// dO = Ro * beforeFees / (Ra - beforeFees), rounded up
	remaining := new(big.Int).Sub(askReserve, beforeFees)
	offerAmount := new(big.Int).Mul(offerReserve, beforeFees)
	offerAmount = ceilDiv(offerAmount, remaining)
	if _, err := checkAmount(offerAmount); err != nil {
		return nil, fmt.Errorf("offer amount: %w", err)
	}

	// spread relative to the spot value of the computed input
	spot := new(big.Int).Mul(offerAmount, askReserve)
	spot.Quo(spot, offerReserve)
	spread := saturatingSub(spot, beforeFees)

	breakdown, err := ComputeFees(fees, beforeFees)
	if err != nil {
		return nil, err
	}

	return &ReverseSwapComputation{
		OfferAmount:       offerAmount,
		SpreadAmount:      spread,
		SwapFeeAmount:     breakdown.SwapFee,
		ProtocolFeeAmount: breakdown.ProtocolFee,
		BurnFeeAmount:     breakdown.BurnFee,
	}, nil
}
