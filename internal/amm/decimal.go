package amm

import (
	"fmt"
	"math/big"

	"github.com/aman-zulfiqar/amm-quote-engine/internal/models"
)

// MaxDecimals is the precision of the wide fixed-point intermediate. No
// supported asset may declare more native decimals than this.
const MaxDecimals = 18

var (
	wideUnit   = pow10(MaxDecimals)
	maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
)

func pow10(n uint8) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// WideDec is the fixed-point intermediate used for cross-precision math: an
// unbounded integer scaled by 10^18. It never crosses the package boundary;
// amounts enter and leave as native-precision integers.
type WideDec struct {
	v big.Int
}

func ZeroWide() WideDec {
	return WideDec{}
}

func OneWide() WideDec {
	var w WideDec
	w.v.Set(wideUnit)
	return w
}

// WideFromRate lifts a fee rate into the wide representation. Rates already
// carry 18 decimals, so this is a direct copy.
func WideFromRate(r models.Rate) WideDec {
	var w WideDec
	w.v.Set(r.Atomics())
	return w
}

// ToWide scales an integer amount with the given native decimals up to the
// wide fixed-point representation.
func ToWide(amount *big.Int, decimals uint8) (WideDec, error) {
	if decimals > MaxDecimals {
		return WideDec{}, fmt.Errorf("%w: %d decimals exceed the wide precision of %d", ErrPrecision, decimals, MaxDecimals)
	}
	if amount.Sign() < 0 {
		return WideDec{}, fmt.Errorf("%w: negative amount", ErrUnderflow)
	}
	var w WideDec
	w.v.Mul(amount, pow10(MaxDecimals-decimals))
	return w, nil
}

// ToInt scales the value back down to an integer with the given native
// decimals, truncating any finer precision. Fails with ErrOverflow if the
// result does not fit the 128-bit amount range.
func (w WideDec) ToInt(decimals uint8) (*big.Int, error) {
	out := w.toScaled(decimals)
	if out.Cmp(maxUint128) > 0 {
		return nil, fmt.Errorf("%w: value exceeds 128 bits at %d decimals", ErrOverflow, decimals)
	}
	return out, nil
}

// toScaled truncates to the given precision without the 128-bit bound. Used
// for solver-internal values that stay in wide arithmetic.
func (w WideDec) toScaled(decimals uint8) *big.Int {
	out := new(big.Int).Mul(&w.v, pow10(decimals))
	return out.Quo(out, wideUnit)
}

func (w WideDec) Add(o WideDec) WideDec {
	var out WideDec
	out.v.Add(&w.v, &o.v)
	return out
}

// Sub is a checked subtraction; wide values are unsigned.
func (w WideDec) Sub(o WideDec) (WideDec, error) {
	if w.v.Cmp(&o.v) < 0 {
		return WideDec{}, ErrUnderflow
	}
	var out WideDec
	out.v.Sub(&w.v, &o.v)
	return out, nil
}

func (w WideDec) Mul(o WideDec) WideDec {
	var out WideDec
	out.v.Mul(&w.v, &o.v)
	out.v.Quo(&out.v, wideUnit)
	return out
}

func (w WideDec) Quo(o WideDec) (WideDec, error) {
	if o.v.Sign() == 0 {
		return WideDec{}, ErrDivideByZero
	}
	var out WideDec
	out.v.Mul(&w.v, wideUnit)
	out.v.Quo(&out.v, &o.v)
	return out, nil
}

// Inv returns 1/w, or 1 when w is zero. The zero fallback mirrors the
// fee-inversion guard: a combined fee rate of exactly 1 leaves the amount
// uninverted instead of dividing by zero.
func (w WideDec) Inv() WideDec {
	if w.v.Sign() == 0 {
		return OneWide()
	}
	out, _ := OneWide().Quo(w)
	return out
}

func (w WideDec) Cmp(o WideDec) int {
	return w.v.Cmp(&o.v)
}

func (w WideDec) IsZero() bool {
	return w.v.Sign() == 0
}

func (w WideDec) String() string {
	q, r := new(big.Int).QuoRem(&w.v, wideUnit, new(big.Int))
	return fmt.Sprintf("%s.%018s", q.String(), r.String())
}

// checkAmount bounds an integer amount to the 128-bit range.
func checkAmount(v *big.Int) (*big.Int, error) {
	if v.Sign() < 0 {
		return nil, ErrUnderflow
	}
	if v.Cmp(maxUint128) > 0 {
		return nil, ErrOverflow
	}
	return v, nil
}

// saturatingSub returns a-b floored at zero.
func saturatingSub(a, b *big.Int) *big.Int {
	if a.Cmp(b) <= 0 {
		return big.NewInt(0)
	}
	return new(big.Int).Sub(a, b)
}
