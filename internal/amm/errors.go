// Package amm implements the swap-pricing core: precision normalization,
// asset resolution, fee decomposition, the constant-product and stable-swap
// solvers, and forward/reverse simulation for single swaps and swap chains.
// Everything in this package is pure computation over pool snapshots.
package amm

import "errors"

var (
	// ErrAssetMismatch is returned when a requested denom is not part of the pool.
	ErrAssetMismatch = errors.New("asset mismatch: denom not found in pool")

	// ErrNoSwapOperations is returned when a swap chain is empty.
	ErrNoSwapOperations = errors.New("no swap operations provided")

	// ErrOverflow is returned when a value exceeds the 128-bit amount range.
	ErrOverflow = errors.New("arithmetic overflow")

	// ErrUnderflow is returned when a checked subtraction would go negative.
	ErrUnderflow = errors.New("arithmetic underflow")

	// ErrDivideByZero is returned on division by a zero value.
	ErrDivideByZero = errors.New("division by zero")

	// ErrInvalidFees is returned when the fee rates of a pool sum to 1 or more.
	ErrInvalidFees = errors.New("invalid fee schedule: total fee rate must be below 1")

	// ErrEmptyReserves is returned when a pool side has no liquidity.
	ErrEmptyReserves = errors.New("pool has empty reserves")

	// ErrConvergence is returned when the stable invariant solver hits its
	// iteration cap without converging.
	ErrConvergence = errors.New("stable invariant solver did not converge")

	// ErrInvalidAmp is returned for stable pools with a zero amplification
	// coefficient.
	ErrInvalidAmp = errors.New("amplification coefficient must be positive")

	// ErrUnknownPoolType is returned when a pool carries a curve kind the
	// simulators have no arm for.
	ErrUnknownPoolType = errors.New("unknown pool type")

	// ErrPrecision flags a violation of the max-precision invariant: the
	// common precision of a swap is the maximum of both asset precisions and
	// can never be below either of them.
	ErrPrecision = errors.New("precision invariant violated")
)
