package black

import (
	"black76/internal/autodiff"
)

// forwardAndDiscount grows spot by the cost of carry to expiry:
//
//	discount = exp((r - q) * T)
//	forward  = discount * spot
func forwardAndDiscount(spot, rate, dividend, expiry autodiff.Dual) (forward, discount autodiff.Dual) {
	discount = autodiff.Exp(rate.Sub(dividend).Mul(expiry))
	forward = discount.Mul(spot)
	return forward, discount
}

// ForwardAndDiscount converts spot prices into Black-model forwards and carry
// factors elementwise. All slices must have the same length.
func ForwardAndDiscount(spot, discountRate, dividendRate, expiry []float64) (forward, discount []float64) {
	forward = make([]float64, len(spot))
	discount = make([]float64, len(spot))
	for i := range spot {
		f, d := forwardAndDiscount(
			autodiff.Const(spot[i]),
			autodiff.Const(discountRate[i]),
			autodiff.Const(dividendRate[i]),
			autodiff.Const(expiry[i]),
		)
		forward[i], discount[i] = f.V, d.V
	}
	return forward, discount
}
