// Package black prices European options on forwards and futures under the
// Black '76 model and derives delta and gamma from the same pricing function
// by forward-mode automatic differentiation.
//
// Every numeric argument is a numeric.Value: either a scalar, held constant
// across the batch, or a one-dimensional array. Arrays must share one length
// (or have length 1).
//
//	prices, err := black.Price(black.Inputs{
//		Spot:   numeric.Array(100, 90, 80),
//		Strike: numeric.Scalar(120),
//		Expiry: numeric.Scalar(1),
//		Vol:    numeric.Array(0.3, 0.25, 0.4),
//	})
package black

import (
	perrors "black76/internal/errors"
	"black76/internal/numeric"
)

// Inputs is a batch of market scenarios.
type Inputs struct {
	Spot   numeric.Value
	Strike numeric.Value
	Expiry numeric.Value
	Vol    numeric.Value

	// DiscountRate defaults to zero when unset.
	DiscountRate numeric.Value
	// DividendRate defaults to zeros when unset.
	DividendRate numeric.Value
	// IsCall selects calls (true) or puts (false) per element. When unset all
	// elements are priced as calls and the put branch is never evaluated.
	IsCall numeric.Mask

	Precision numeric.Precision
}

// Func is a batched pricing pipeline: Price, Delta, Gamma and
// FutureOptionPrice all satisfy it.
type Func func(Inputs) ([]float64, error)

// Result holds price, delta and gamma of one evaluation.
type Result struct {
	Price []float64
	Delta []float64
	Gamma []float64
}

// batch is Inputs after normalization: every field broadcast to n elements,
// spot/strike/expiry/vol cast to the target precision.
type batch struct {
	n         int
	spot      []float64
	strike    []float64
	expiry    []float64
	vol       []float64
	rate      []float64
	dividend  []float64
	isCall    []bool
	precision numeric.Precision
}

func (in Inputs) required() error {
	for _, f := range []struct {
		name string
		v    numeric.Value
	}{
		{"spot", in.Spot},
		{"strike", in.Strike},
		{"expiry", in.Expiry},
		{"vol", in.Vol},
	} {
		if !f.v.IsSet() {
			return perrors.NewValidationError(f.name, nil, "required")
		}
	}
	return nil
}

// nonEmpty rejects arrays that were supplied with no elements.
func (in Inputs) nonEmpty() error {
	for _, f := range []struct {
		name string
		n    int
		set  bool
	}{
		{"spot", in.Spot.Len(), in.Spot.IsSet()},
		{"strike", in.Strike.Len(), in.Strike.IsSet()},
		{"expiry", in.Expiry.Len(), in.Expiry.IsSet()},
		{"vol", in.Vol.Len(), in.Vol.IsSet()},
		{"discount_rate", in.DiscountRate.Len(), in.DiscountRate.IsSet()},
		{"dividend_rate", in.DividendRate.Len(), in.DividendRate.IsSet()},
		{"is_call", in.IsCall.Len(), in.IsCall.IsSet()},
	} {
		if f.set && f.n == 0 {
			return perrors.NewValidationError(f.name, 0, "empty array")
		}
	}
	return nil
}

// Len returns the broadcast length of the inputs.
func (in Inputs) Len() (int, error) {
	if err := in.required(); err != nil {
		return 0, err
	}
	if err := in.nonEmpty(); err != nil {
		return 0, err
	}
	return numeric.CommonLength(
		numeric.Field{Name: "spot", Len: in.Spot.Len()},
		numeric.Field{Name: "strike", Len: in.Strike.Len()},
		numeric.Field{Name: "expiry", Len: in.Expiry.Len()},
		numeric.Field{Name: "vol", Len: in.Vol.Len()},
		numeric.Field{Name: "discount_rate", Len: in.DiscountRate.Len()},
		numeric.Field{Name: "dividend_rate", Len: in.DividendRate.Len()},
		numeric.Field{Name: "is_call", Len: in.IsCall.Len()},
	)
}

func prepare(in Inputs) (*batch, error) {
	n, err := in.Len()
	if err != nil {
		return nil, err
	}

	b := &batch{n: n, precision: in.Precision.Resolve()}

	var spot, strike, expiry, vol []float64
	if spot, err = in.Spot.Broadcast("spot", n); err != nil {
		return nil, err
	}
	if strike, err = in.Strike.Broadcast("strike", n); err != nil {
		return nil, err
	}
	if expiry, err = in.Expiry.Broadcast("expiry", n); err != nil {
		return nil, err
	}
	if vol, err = in.Vol.Broadcast("vol", n); err != nil {
		return nil, err
	}
	cast := numeric.Cast(b.precision, spot, strike, expiry, vol)
	b.spot, b.strike, b.expiry, b.vol = cast[0], cast[1], cast[2], cast[3]

	// Rates keep the caller's precision.
	rate := in.DiscountRate
	if !rate.IsSet() {
		rate = numeric.Scalar(0)
	}
	if b.rate, err = rate.Broadcast("discount_rate", n); err != nil {
		return nil, err
	}

	dividend := in.DividendRate
	if !dividend.IsSet() {
		dividend = numeric.Zeros(n)
	}
	if b.dividend, err = dividend.Broadcast("dividend_rate", n); err != nil {
		return nil, err
	}

	if in.IsCall.IsSet() {
		if b.isCall, err = in.IsCall.Broadcast("is_call", n); err != nil {
			return nil, err
		}
	}

	return b, nil
}
