// Package autodiff implements second-order forward-mode automatic
// differentiation with respect to a single seed variable.
//
// A Dual carries a value together with its first and second derivatives. Every
// elementary operation propagates both derivatives exactly, so any function
// written in terms of Dual yields the value and both derivatives in one
// evaluation:
//
//	x := autodiff.Var(100)
//	y := autodiff.Exp(x.Scale(0.01)).Mul(x)
//	y.V, y.D1, y.D2 // value, first and second derivative at 100
package autodiff

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Dual is a truncated second-order jet: V is f(x), D1 the first derivative
// and D2 the second derivative at x.
type Dual struct {
	V  float64
	D1 float64
	D2 float64
}

// Const returns a constant (zero derivatives).
func Const(v float64) Dual {
	return Dual{V: v}
}

// Var returns the seed variable x = v (dx/dx = 1).
func Var(v float64) Dual {
	return Dual{V: v, D1: 1}
}

// Add returns a + b.
func (a Dual) Add(b Dual) Dual {
	return Dual{V: a.V + b.V, D1: a.D1 + b.D1, D2: a.D2 + b.D2}
}

// Sub returns a - b.
func (a Dual) Sub(b Dual) Dual {
	return Dual{V: a.V - b.V, D1: a.D1 - b.D1, D2: a.D2 - b.D2}
}

// Neg returns -a.
func (a Dual) Neg() Dual {
	return Dual{V: -a.V, D1: -a.D1, D2: -a.D2}
}

// Scale returns c * a for a constant c.
func (a Dual) Scale(c float64) Dual {
	return Dual{V: c * a.V, D1: c * a.D1, D2: c * a.D2}
}

// Mul returns a * b.
func (a Dual) Mul(b Dual) Dual {
	return Dual{
		V:  a.V * b.V,
		D1: a.D1*b.V + a.V*b.D1,
		D2: a.D2*b.V + 2*a.D1*b.D1 + a.V*b.D2,
	}
}

// Div returns a / b.
func (a Dual) Div(b Dual) Dual {
	return a.Mul(Recip(b))
}

// chain applies a scalar function h to a, given h, its first derivative and
// its second derivative evaluated at a.V as h0, h1 and h2.
func chain(a Dual, h0, h1, h2 float64) Dual {
	return Dual{
		V:  h0,
		D1: h1 * a.D1,
		D2: h2*a.D1*a.D1 + h1*a.D2,
	}
}

// Recip returns 1 / a.
func Recip(a Dual) Dual {
	inv := 1 / a.V
	return chain(a, inv, -inv*inv, 2*inv*inv*inv)
}

// Exp returns e^a.
func Exp(a Dual) Dual {
	e := math.Exp(a.V)
	return chain(a, e, e, e)
}

// Log returns the natural logarithm of a.
func Log(a Dual) Dual {
	inv := 1 / a.V
	return chain(a, math.Log(a.V), inv, -inv*inv)
}

// Sqrt returns the square root of a.
func Sqrt(a Dual) Dual {
	s := math.Sqrt(a.V)
	return chain(a, s, 0.5/s, -0.25/(s*a.V))
}

// NormCDF returns the standard normal cumulative distribution of a.
func NormCDF(a Dual) Dual {
	pdf := distuv.UnitNormal.Prob(a.V)
	return chain(a, distuv.UnitNormal.CDF(a.V), pdf, -a.V*pdf)
}

// Where returns a if cond holds and b otherwise, derivatives included.
func Where(cond bool, a, b Dual) Dual {
	if cond {
		return a
	}
	return b
}
