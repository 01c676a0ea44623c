// Package numeric normalizes heterogeneous pricing inputs: scalars and arrays
// are carried in tagged containers, cast to a common floating-point precision
// and broadcast to a common length.
package numeric

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"

	perrors "black76/internal/errors"
)

// Precision selects the floating-point width inputs are cast to.
type Precision int

const (
	// Default leaves the choice to the pipeline, which uses Float64.
	Default Precision = iota
	Float32
	Float64
)

// String returns the dtype name of the precision.
func (p Precision) String() string {
	switch p {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "default"
	}
}

// Resolve maps Default to Float64.
func (p Precision) Resolve() Precision {
	if p == Default {
		return Float64
	}
	return p
}

// ParsePrecision parses "float32", "float64" (or "f32", "f64", "single",
// "double"). The empty string yields Default.
func ParsePrecision(s string) (Precision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return Default, nil
	case "float32", "f32", "single":
		return Float32, nil
	case "float64", "f64", "double":
		return Float64, nil
	}
	return Default, fmt.Errorf("%w: %q", perrors.ErrInvalidPrecision, s)
}

// Round rounds x to the precision's representable set.
func (p Precision) Round(x float64) float64 {
	if p == Float32 {
		return float64(float32(x))
	}
	return x
}

// Value is a scalar or a one-dimensional array of float64. The zero Value is
// "unset" and is used for optional arguments.
type Value struct {
	data   []float64
	scalar bool
}

// Scalar wraps a bare number.
func Scalar(x float64) Value {
	return Value{data: []float64{x}, scalar: true}
}

// Array wraps a homogeneous array. The slice is copied.
func Array(xs ...float64) Value {
	data := make([]float64, len(xs))
	copy(data, xs)
	return Value{data: data}
}

// Zeros returns an array of n zeros.
func Zeros(n int) Value {
	return Value{data: make([]float64, n)}
}

// IsSet reports whether the value was supplied.
func (v Value) IsSet() bool { return v.data != nil }

// IsScalar reports whether the value is a bare number.
func (v Value) IsScalar() bool { return v.scalar }

// Len returns the number of elements; scalars have length 1.
func (v Value) Len() int { return len(v.data) }

// At returns element i, holding scalars and length-1 arrays fixed.
func (v Value) At(i int) float64 {
	if len(v.data) == 1 {
		return v.data[0]
	}
	return v.data[i]
}

// Slice returns a copy of the underlying elements.
func (v Value) Slice() []float64 {
	out := make([]float64, len(v.data))
	copy(out, v.data)
	return out
}

// Index returns element i of an array as a length-1 array, or the scalar itself.
func (v Value) Index(i int) Value {
	if !v.IsSet() || v.scalar {
		return v
	}
	return Value{data: []float64{v.At(i)}}
}

// Broadcast expands the value to n elements. A value that is neither a scalar
// nor of length 1 or n yields a ShapeError naming field.
func (v Value) Broadcast(field string, n int) ([]float64, error) {
	if v.Len() != 1 && v.Len() != n {
		return nil, perrors.NewShapeError(field, v.Len(), n)
	}
	out := make([]float64, n)
	if v.Len() == 1 {
		floats.AddConst(v.data[0], out)
		return out, nil
	}
	copy(out, v.data)
	return out, nil
}

// Mask is a scalar or array of booleans; the zero Mask is unset.
type Mask struct {
	data   []bool
	scalar bool
}

// ScalarMask wraps a single flag applied to the whole batch.
func ScalarMask(b bool) Mask {
	return Mask{data: []bool{b}, scalar: true}
}

// MaskOf wraps an array of flags. The slice is copied.
func MaskOf(bs ...bool) Mask {
	data := make([]bool, len(bs))
	copy(data, bs)
	return Mask{data: data}
}

func (m Mask) IsSet() bool    { return m.data != nil }
func (m Mask) IsScalar() bool { return m.scalar }
func (m Mask) Len() int       { return len(m.data) }

// At returns flag i, holding scalars and length-1 masks fixed.
func (m Mask) At(i int) bool {
	if len(m.data) == 1 {
		return m.data[0]
	}
	return m.data[i]
}

// Index returns flag i of an array mask as a length-1 mask, or the scalar itself.
func (m Mask) Index(i int) Mask {
	if !m.IsSet() || m.scalar {
		return m
	}
	return Mask{data: []bool{m.At(i)}}
}

// Broadcast expands the mask to n flags.
func (m Mask) Broadcast(field string, n int) ([]bool, error) {
	if m.Len() != 1 && m.Len() != n {
		return nil, perrors.NewShapeError(field, m.Len(), n)
	}
	out := make([]bool, n)
	for i := range out {
		out[i] = m.At(i)
	}
	return out, nil
}

// Field names a value for shape diagnostics.
type Field struct {
	Name string
	Len  int
}

// CommonLength returns the broadcast length of the given fields: the single
// length shared by every field longer than 1, or 1 when all are scalars.
// Fields with zero length are unset and ignored; callers reject supplied
// empty arrays before asking for the length.
func CommonLength(fields ...Field) (int, error) {
	n := 1
	for _, f := range fields {
		if f.Len <= 1 {
			continue
		}
		if n == 1 {
			n = f.Len
			continue
		}
		if f.Len != n {
			return 0, perrors.NewShapeError(f.Name, f.Len, n)
		}
	}
	return n, nil
}

// Cast returns copies of xs rounded to precision p (Default resolves to
// Float64). Shapes are preserved.
func Cast(p Precision, xs ...[]float64) [][]float64 {
	p = p.Resolve()
	out := make([][]float64, len(xs))
	for i, x := range xs {
		c := make([]float64, len(x))
		copy(c, x)
		if p == Float32 {
			for j := range c {
				c[j] = p.Round(c[j])
			}
		}
		out[i] = c
	}
	return out
}
