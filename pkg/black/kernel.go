package black

import (
	"black76/internal/autodiff"
)

// undiscountedCall is the shared Black-Scholes call kernel on a forward:
//
//	d1 = (ln(F/K) + (r + v^2/2) T) / (v sqrt(T))
//	d2 = d1 - v sqrt(T)
//	C  = F N(d1) - K N(d2)
//
// Inputs outside the domain (non-positive F, K, T or v) propagate NaN/Inf.
func undiscountedCall(forward, strike, expiry, vol, rate autodiff.Dual) autodiff.Dual {
	volSqrtT := vol.Mul(autodiff.Sqrt(expiry))
	drift := rate.Add(vol.Mul(vol).Scale(0.5)).Mul(expiry)
	d1 := autodiff.Log(forward.Div(strike)).Add(drift).Div(volSqrtT)
	d2 := d1.Sub(volSqrtT)
	return forward.Mul(autodiff.NormCDF(d1)).Sub(strike.Mul(autodiff.NormCDF(d2)))
}

// UndiscountedCall evaluates the call kernel elementwise. All slices must have
// the same length.
func UndiscountedCall(forward, strike, expiry, vol, rate []float64) []float64 {
	out := make([]float64, len(forward))
	for i := range forward {
		out[i] = undiscountedCall(
			autodiff.Const(forward[i]),
			autodiff.Const(strike[i]),
			autodiff.Const(expiry[i]),
			autodiff.Const(vol[i]),
			autodiff.Const(rate[i]),
		).V
	}
	return out
}
