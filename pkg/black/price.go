package black

import (
	"fmt"
	"strings"

	"black76/internal/autodiff"
	perrors "black76/internal/errors"
	"black76/internal/numeric"
)

// Convention selects how the masked (call/put) path is discounted.
type Convention int

const (
	// SpotConvention discounts selected calls and puts by exp(-r T). Without a
	// call/put mask the carry factor exp((r - q) T) is applied instead.
	SpotConvention Convention = iota
	// CarryConvention scales the selected value by exp((r - q) T) on both paths.
	// Quotes for options on futures with discounting follow this convention.
	CarryConvention
)

// String returns the configuration name of the convention.
func (c Convention) String() string {
	if c == CarryConvention {
		return "carry"
	}
	return "spot"
}

// ParseConvention parses "spot" or "carry"; the empty string yields
// SpotConvention.
func ParseConvention(s string) (Convention, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "spot":
		return SpotConvention, nil
	case "carry", "future", "futures":
		return CarryConvention, nil
	}
	return SpotConvention, fmt.Errorf("%w: unknown convention %q", perrors.ErrInvalidInput, s)
}

// scenario is one element of a batch lifted to dual numbers.
type scenario struct {
	spot, strike, expiry, vol, rate, dividend autodiff.Dual

	masked bool
	isCall bool
}

// assemble is the Black '76 pricing pipeline for a single scenario. Price,
// delta and gamma all come from this one function.
func assemble(s scenario, conv Convention) autodiff.Dual {
	forward, discount := forwardAndDiscount(s.spot, s.rate, s.dividend, s.expiry)
	call := undiscountedCall(forward, s.strike, s.expiry, s.vol, s.rate)

	if !s.masked {
		return discount.Mul(call)
	}

	selected := selectPayoff(s.isCall, call, forward, s.strike)
	if conv == CarryConvention {
		return discount.Mul(selected)
	}
	// The masked path ignores the dividend rate when discounting.
	return autodiff.Exp(s.rate.Mul(s.expiry).Neg()).Mul(selected)
}

// evaluate runs the pipeline over every element of b. With seedSpot set the
// spot is the differentiation variable.
func (b *batch) evaluate(conv Convention, seedSpot bool) []autodiff.Dual {
	out := make([]autodiff.Dual, b.n)
	for i := range out {
		spot := autodiff.Const(b.spot[i])
		if seedSpot {
			spot = autodiff.Var(b.spot[i])
		}
		s := scenario{
			spot:     spot,
			strike:   autodiff.Const(b.strike[i]),
			expiry:   autodiff.Const(b.expiry[i]),
			vol:      autodiff.Const(b.vol[i]),
			rate:     autodiff.Const(b.rate[i]),
			dividend: autodiff.Const(b.dividend[i]),
		}
		if b.isCall != nil {
			s.masked = true
			s.isCall = b.isCall[i]
		}
		out[i] = assemble(s, conv)
	}
	return out
}

func project(p numeric.Precision, ds []autodiff.Dual, pick func(autodiff.Dual) float64) []float64 {
	out := make([]float64, len(ds))
	for i, d := range ds {
		out[i] = p.Round(pick(d))
	}
	return out
}

func value(d autodiff.Dual) float64  { return d.V }
func first(d autodiff.Dual) float64  { return d.D1 }
func second(d autodiff.Dual) float64 { return d.D2 }

// PriceWith prices the batch under the given discounting convention.
func PriceWith(in Inputs, conv Convention) ([]float64, error) {
	b, err := prepare(in)
	if err != nil {
		return nil, err
	}
	return project(b.precision, b.evaluate(conv, false), value), nil
}

// Price returns Black '76 prices, one per scenario.
func Price(in Inputs) ([]float64, error) {
	return PriceWith(in, SpotConvention)
}

// FutureOptionPrice returns prices of options on futures under the carry
// convention. Without a call/put mask it equals Price.
func FutureOptionPrice(in Inputs) ([]float64, error) {
	return PriceWith(in, CarryConvention)
}
