package black

import (
	"fmt"

	perrors "black76/internal/errors"
	"black76/internal/numeric"
)

// Axis is the batch axis of an argument: 0 when the argument is mapped over,
// NoAxis when it is shared by every element.
type Axis int

const (
	NoAxis    Axis = -1
	BatchAxis Axis = 0
)

func (a Axis) String() string {
	if a == NoAxis {
		return "none"
	}
	return fmt.Sprintf("%d", int(a))
}

// ArgAxis is the broadcast rule of one named argument.
type ArgAxis struct {
	Name string
	Axis Axis
}

// Spec is the per-argument broadcast specification, in the fixed order
// spot, strike, expiry, vol, discount_rate[, dividend_rate][, is_call[, precision]].
type Spec []ArgAxis

// Equal reports whether both specifications map the same arguments the same way.
func (s Spec) Equal(o Spec) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

func axisOf(v numeric.Value) Axis {
	if !v.IsSet() || v.IsScalar() {
		return NoAxis
	}
	return BatchAxis
}

// BroadcastSpec classifies each argument of in: arrays are mapped over axis 0,
// scalars are shared. A supplied dividend rate or call/put mask is always
// mapped; precision, recorded only when a mask is supplied too, is shared.
func BroadcastSpec(in Inputs) Spec {
	spec := Spec{
		{Name: "spot", Axis: axisOf(in.Spot)},
		{Name: "strike", Axis: axisOf(in.Strike)},
		{Name: "expiry", Axis: axisOf(in.Expiry)},
		{Name: "vol", Axis: axisOf(in.Vol)},
		{Name: "discount_rate", Axis: axisOf(in.DiscountRate)},
	}

	if in.DividendRate.IsSet() {
		spec = append(spec, ArgAxis{Name: "dividend_rate", Axis: BatchAxis})
	}

	if in.IsCall.IsSet() {
		spec = append(spec, ArgAxis{Name: "is_call", Axis: BatchAxis})

		if in.Precision != numeric.Default {
			spec = append(spec, ArgAxis{Name: "precision", Axis: NoAxis})
		}
	}

	return spec
}

// Batched is a vectorized pipeline built by Vectorize.
type Batched func(Inputs) ([]float64, error)

// Vectorize builds a batched version of fn whose broadcast specification is
// derived once from template. The returned function applies fn independently
// to each element of the batch axis, holding shared arguments fixed, and
// rejects inputs whose scalar/array layout differs from the template.
func Vectorize(fn Func, template Inputs) (Batched, error) {
	if fn == nil {
		return nil, perrors.NewValidationError("fn", nil, "required")
	}
	if err := template.required(); err != nil {
		return nil, err
	}
	spec := BroadcastSpec(template)

	return func(in Inputs) ([]float64, error) {
		if got := BroadcastSpec(in); !got.Equal(spec) {
			return nil, fmt.Errorf("%w: inputs do not match vectorized layout %v, got %v",
				perrors.ErrShapeMismatch, spec, got)
		}

		n, err := batchLength(spec, in)
		if err != nil {
			return nil, err
		}

		out := make([]float64, 0, n)
		for i := 0; i < n; i++ {
			res, err := fn(element(spec, in, i))
			if err != nil {
				return nil, err
			}
			if len(res) != 1 {
				return nil, fmt.Errorf("%w: element %d produced %d values",
					perrors.ErrShapeMismatch, i, len(res))
			}
			out = append(out, res[0])
		}
		return out, nil
	}, nil
}

func lengthOf(in Inputs, name string) int {
	switch name {
	case "spot":
		return in.Spot.Len()
	case "strike":
		return in.Strike.Len()
	case "expiry":
		return in.Expiry.Len()
	case "vol":
		return in.Vol.Len()
	case "discount_rate":
		return in.DiscountRate.Len()
	case "dividend_rate":
		return in.DividendRate.Len()
	case "is_call":
		return in.IsCall.Len()
	}
	return 0
}

// batchLength is the common length of the mapped arguments; 1 when nothing
// is mapped.
func batchLength(spec Spec, in Inputs) (int, error) {
	var fields []numeric.Field
	for _, a := range spec {
		if a.Axis == BatchAxis {
			fields = append(fields, numeric.Field{Name: a.Name, Len: lengthOf(in, a.Name)})
		}
	}
	return numeric.CommonLength(fields...)
}

// element slices out scenario i of every mapped argument.
func element(spec Spec, in Inputs, i int) Inputs {
	out := in
	for _, a := range spec {
		if a.Axis != BatchAxis {
			continue
		}
		switch a.Name {
		case "spot":
			out.Spot = in.Spot.Index(i)
		case "strike":
			out.Strike = in.Strike.Index(i)
		case "expiry":
			out.Expiry = in.Expiry.Index(i)
		case "vol":
			out.Vol = in.Vol.Index(i)
		case "discount_rate":
			out.DiscountRate = in.DiscountRate.Index(i)
		case "dividend_rate":
			out.DividendRate = in.DividendRate.Index(i)
		case "is_call":
			out.IsCall = in.IsCall.Index(i)
		}
	}
	return out
}
