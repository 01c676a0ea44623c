package black

import (
	"black76/internal/autodiff"
)

// undiscountedPut applies put-call parity: P = C - (F - K).
func undiscountedPut(call, forward, strike autodiff.Dual) autodiff.Dual {
	return call.Sub(forward.Sub(strike))
}

func selectPayoff(isCall bool, call, forward, strike autodiff.Dual) autodiff.Dual {
	return autodiff.Where(isCall, call, undiscountedPut(call, forward, strike))
}

// UndiscountedPut derives undiscounted put prices from undiscounted calls by
// put-call parity. All slices must have the same length.
func UndiscountedPut(call, forward, strike []float64) []float64 {
	out := make([]float64, len(call))
	for i := range call {
		out[i] = undiscountedPut(
			autodiff.Const(call[i]),
			autodiff.Const(forward[i]),
			autodiff.Const(strike[i]),
		).V
	}
	return out
}
