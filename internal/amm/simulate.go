package amm

import (
	"fmt"
	"math/big"

	"github.com/aman-zulfiqar/amm-quote-engine/internal/models"
)

// SwapComputation is the result of one forward pricing call. All amounts are
// integers in the ask asset's native precision.
type SwapComputation struct {
	ReturnAmount      *big.Int
	SpreadAmount      *big.Int
	SwapFeeAmount     *big.Int
	ProtocolFeeAmount *big.Int
	BurnFeeAmount     *big.Int
	ExtraFeesAmount   *big.Int
}

// ReverseSwapComputation is the result of one reverse pricing call. The offer
// and spread amounts are in the offer asset's precision, the fee amounts in
// the ask asset's precision.
type ReverseSwapComputation struct {
	OfferAmount       *big.Int
	SpreadAmount      *big.Int
	SwapFeeAmount     *big.Int
	ProtocolFeeAmount *big.Int
	BurnFeeAmount     *big.Int
}

// Simulator prices swaps against pool snapshots. The zero value is not
// usable; construct with NewSimulator.
type Simulator struct {
	y YSolver
}

// NewSimulator returns a Simulator backed by the default Newton solver.
func NewSimulator() *Simulator {
	return &Simulator{y: NewtonSolver{}}
}

// NewSimulatorWithSolver injects an alternative stable invariant solver.
func NewSimulatorWithSolver(y YSolver) *Simulator {
	return &Simulator{y: y}
}

// Simulate prices swapping the offer coin for the ask denom in the given
// pool. The pool snapshot is read, never mutated.
func (s *Simulator) Simulate(pool *models.Pool, offer models.Coin, askDenom string) (*SwapComputation, error) {
	res, err := ResolveAssets(pool, offer.Denom, askDenom)
	if err != nil {
		return nil, err
	}
	if err := ValidateFees(pool.Fees); err != nil {
		return nil, err
	}

	var curveOut, spread *big.Int
	switch pool.Type.Kind {
	case models.ConstantProduct:
		curveOut, spread, err = constantProductOut(res.Offer.Amount, res.Ask.Amount, offer.Amount)
	case models.StableSwap:
		curveOut, spread, err = s.stableSwapOut(res, offer.Amount, pool.Type.Amp, uint64(len(pool.Assets)))
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownPoolType, pool.Type.Kind)
	}
	if err != nil {
		return nil, err
	}

	breakdown, err := ComputeFees(pool.Fees, curveOut)
	if err != nil {
		return nil, err
	}

	returnAmount := new(big.Int).Sub(curveOut, breakdown.Total())
	if _, err := checkAmount(returnAmount); err != nil {
		return nil, fmt.Errorf("return amount: %w", err)
	}

	return &SwapComputation{
		ReturnAmount:      returnAmount,
		SpreadAmount:      spread,
		SwapFeeAmount:     breakdown.SwapFee,
		ProtocolFeeAmount: breakdown.ProtocolFee,
		BurnFeeAmount:     breakdown.BurnFee,
		ExtraFeesAmount:   breakdown.ExtraFees,
	}, nil
}

// ReverseSimulate prices the offer amount required to receive the ask coin
// from the given pool.
func (s *Simulator) ReverseSimulate(pool *models.Pool, ask models.Coin, offerDenom string) (*ReverseSwapComputation, error) {
	res, err := ResolveAssets(pool, offerDenom, ask.Denom)
	if err != nil {
		return nil, err
	}

	switch pool.Type.Kind {
	case models.ConstantProduct:
		return constantProductOfferAmount(res.Offer.Amount, res.Ask.Amount, ask.Amount, pool.Fees)
	case models.StableSwap:
		return s.stableOfferAmount(res, ask.Amount, pool.Type.Amp, uint64(len(pool.Assets)), pool.Fees)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPoolType, pool.Type.Kind)
	}
}

// stableSwapOut prices a forward swap on the stable curve. Both reserves and
// the offer amount are rescaled to the common precision before the invariant
// solve; the output comes back in ask precision.
func (s *Simulator) stableSwapOut(res ResolvedAssets, offerAmount *big.Int, amp, nAssets uint64) (curveOut, spread *big.Int, err error) {
	offerWide, err := ToWide(res.Offer.Amount, res.OfferDecimals)
	if err != nil {
		return nil, nil, err
	}
	askWide, err := ToWide(res.Ask.Amount, res.AskDecimals)
	if err != nil {
		return nil, nil, err
	}
	amountWide, err := ToWide(offerAmount, res.OfferDecimals)
	if err != nil {
		return nil, nil, err
	}

	maxPrecision := max(res.OfferDecimals, res.AskDecimals)
	newAskPool, err := s.y.SolveY(
		nAssets,
		offerWide.toScaled(maxPrecision),
		askWide.toScaled(maxPrecision),
		amountWide.toScaled(maxPrecision),
		amp,
		SimulateDirection,
	)
	if err != nil {
		return nil, nil, err
	}

	outScaled := new(big.Int).Sub(askWide.toScaled(maxPrecision), newAskPool)
	if outScaled.Sign() < 0 {
		return nil, nil, fmt.Errorf("curve output: %w", ErrUnderflow)
	}
	outNative, err := rescaleDown(outScaled, maxPrecision, res.AskDecimals)
	if err != nil {
		return nil, nil, err
	}
	if _, err := checkAmount(outNative); err != nil {
		return nil, nil, fmt.Errorf("curve output: %w", err)
	}

	// the ideal stable rate is 1:1; spread is the shortfall against the
	// offered amount expressed in ask precision
	idealOut, err := amountWide.ToInt(res.AskDecimals)
	if err != nil {
		return nil, nil, err
	}
	return outNative, saturatingSub(idealOut, outNative), nil
}

// stableOfferAmount prices a reverse swap on the stable curve: the before-fee
// target output is derived by inverting the combined fee rate, then the
// invariant is solved for the offer reserve that produces it.
func (s *Simulator) stableOfferAmount(res ResolvedAssets, askAmount *big.Int, amp, nAssets uint64, fees models.FeeSchedule) (*ReverseSwapComputation, error) {
	oneMinusFees := OneWide()
	for _, rate := range []models.Rate{fees.ProtocolFee, fees.SwapFee, fees.BurnFee} {
		var err error
		oneMinusFees, err = oneMinusFees.Sub(WideFromRate(rate))
		if err != nil {
			return nil, fmt.Errorf("%w: fees exceed 1", ErrInvalidFees)
		}
	}

	askWide, err := ToWide(askAmount, res.AskDecimals)
	if err != nil {
		return nil, err
	}
	beforeFees := oneMinusFees.Inv().Mul(askWide)

	beforeFeesOffer, err := beforeFees.ToInt(res.OfferDecimals)
	if err != nil {
		return nil, err
	}
	beforeFeesAsk, err := beforeFees.ToInt(res.AskDecimals)
	if err != nil {
		return nil, err
	}

	offerWide, err := ToWide(res.Offer.Amount, res.OfferDecimals)
	if err != nil {
		return nil, err
	}
	askPoolWide, err := ToWide(res.Ask.Amount, res.AskDecimals)
	if err != nil {
		return nil, err
	}

	maxPrecision := max(res.OfferDecimals, res.AskDecimals)
	newOfferPool, err := s.y.SolveY(
		nAssets,
		offerWide.toScaled(maxPrecision),
		askPoolWide.toScaled(maxPrecision),
		beforeFees.toScaled(maxPrecision),
		amp,
		ReverseSimulateDirection,
	)
	if err != nil {
		return nil, err
	}

	currentOfferPool, err := offerWide.ToInt(maxPrecision)
	if err != nil {
		return nil, err
	}
	offerScaled := new(big.Int).Sub(newOfferPool, currentOfferPool)
	if offerScaled.Sign() < 0 {
		return nil, fmt.Errorf("offer amount: %w", ErrUnderflow)
	}

	offerAmount, err := rescaleDown(offerScaled, maxPrecision, res.OfferDecimals)
	if err != nil {
		return nil, err
	}
	if _, err := checkAmount(offerAmount); err != nil {
		return nil, fmt.Errorf("offer amount: %w", err)
	}

	swapFee, err := checkAmount(fees.SwapFee.Apply(beforeFeesAsk))
	if err != nil {
		return nil, fmt.Errorf("swap fee: %w", err)
	}
	protocolFee, err := checkAmount(fees.ProtocolFee.Apply(beforeFeesAsk))
	if err != nil {
		return nil, fmt.Errorf("protocol fee: %w", err)
	}
	burnFee, err := checkAmount(fees.BurnFee.Apply(beforeFeesAsk))
	if err != nil {
		return nil, fmt.Errorf("burn fee: %w", err)
	}

	return &ReverseSwapComputation{
		OfferAmount:       offerAmount,
		SpreadAmount:      saturatingSub(offerAmount, beforeFeesOffer),
		SwapFeeAmount:     swapFee,
		ProtocolFeeAmount: protocolFee,
		BurnFeeAmount:     burnFee,
	}, nil
}

// rescaleDown converts a scaled integer from the common swap precision down
// to an asset's native precision. The common precision is the maximum of both
// asset precisions, so scaling up can only mean the invariant was violated;
// that branch fails fast instead of silently multiplying.
func rescaleDown(v *big.Int, from, to uint8) (*big.Int, error) {
	switch {
	case from == to:
		return v, nil
	case from > to:
		return new(big.Int).Quo(v, pow10(from-to)), nil
	default:
		return nil, fmt.Errorf("%w: common precision %d below native precision %d", ErrPrecision, from, to)
	}
}
