package black

import (
	"testing"

	perrors "black76/internal/errors"
	"black76/internal/numeric"
)

func TestBroadcastSpec(t *testing.T) {
	tests := []struct {
		name string
		in   Inputs
		want Spec
	}{
		{
			name: "all scalars",
			in: Inputs{
				Spot: numeric.Scalar(100), Strike: numeric.Scalar(110),
				Expiry: numeric.Scalar(1), Vol: numeric.Scalar(0.3), DiscountRate: numeric.Scalar(0),
			},
			want: Spec{{"spot", NoAxis}, {"strike", NoAxis}, {"expiry", NoAxis}, {"vol", NoAxis}, {"discount_rate", NoAxis}},
		},
		{
			name: "arrays and scalars",
			in: Inputs{
				Spot: numeric.Array(100, 90), Strike: numeric.Scalar(110),
				Expiry: numeric.Scalar(1), Vol: numeric.Array(0.3, 0.2), DiscountRate: numeric.Array(0.01, 0.02),
			},
			want: Spec{{"spot", BatchAxis}, {"strike", NoAxis}, {"expiry", NoAxis}, {"vol", BatchAxis}, {"discount_rate", BatchAxis}},
		},
		{
			name: "dividend always mapped",
			in: Inputs{
				Spot: numeric.Array(100, 90), Strike: numeric.Scalar(110),
				Expiry: numeric.Scalar(1), Vol: numeric.Scalar(0.3), DividendRate: numeric.Scalar(0.01),
			},
			want: Spec{{"spot", BatchAxis}, {"strike", NoAxis}, {"expiry", NoAxis}, {"vol", NoAxis}, {"discount_rate", NoAxis}, {"dividend_rate", BatchAxis}},
		},
		{
			name: "mask and precision",
			in: Inputs{
				Spot: numeric.Array(100, 90), Strike: numeric.Scalar(110),
				Expiry: numeric.Scalar(1), Vol: numeric.Scalar(0.3),
				IsCall: numeric.MaskOf(true, false), Precision: numeric.Float32,
			},
			want: Spec{{"spot", BatchAxis}, {"strike", NoAxis}, {"expiry", NoAxis}, {"vol", NoAxis}, {"discount_rate", NoAxis}, {"is_call", BatchAxis}, {"precision", NoAxis}},
		},
		{
			name: "precision without mask is not recorded",
			in: Inputs{
				Spot: numeric.Array(100, 90), Strike: numeric.Scalar(110),
				Expiry: numeric.Scalar(1), Vol: numeric.Scalar(0.3), Precision: numeric.Float32,
			},
			want: Spec{{"spot", BatchAxis}, {"strike", NoAxis}, {"expiry", NoAxis}, {"vol", NoAxis}, {"discount_rate", NoAxis}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BroadcastSpec(tt.in)
			if !got.Equal(tt.want) {
				t.Fatalf("spec mismatch:\n got=%v\nwant=%v", got, tt.want)
			}
		})
	}
}

func TestVectorize_MatchesBatchedPrice(t *testing.T) {
	in := mixedInputs()
	in.DiscountRate = numeric.Array(0.01, 0.0125, 0.02, 0.03, 0.05)

	for name, fn := range map[string]Func{"price": Price, "delta": Delta, "gamma": Gamma, "future": FutureOptionPrice} {
		t.Run(name, func(t *testing.T) {
			vfn, err := Vectorize(fn, in)
			if err != nil {
				t.Fatalf("vectorize err: %v", err)
			}
			got, err := vfn(in)
			if err != nil {
				t.Fatalf("vectorized call err: %v", err)
			}
			want, err := fn(in)
			if err != nil {
				t.Fatalf("batched call err: %v", err)
			}
			assertClose(t, got, want, 1e-6)
		})
	}
}

func TestVectorize_ReferenceBatch(t *testing.T) {
	in := Inputs{
		Spot:   numeric.Array(100, 90, 80, 110, 120),
		Strike: numeric.Scalar(120),
		Expiry: numeric.Scalar(1),
		Vol:    numeric.Array(.3, .25, .4, .2, .1),
	}
	vfn, err := Vectorize(Price, in)
	if err != nil {
		t.Fatalf("vectorize err: %v", err)
	}
	got, err := vfn(in)
	if err != nil {
		t.Fatalf("vectorized call err: %v", err)
	}
	assertClose(t, got, []float64{5.440567, 1.602787, 3.140933, 5.010391, 4.7853127}, tol)
}

func TestVectorize_AllScalarsDegenerates(t *testing.T) {
	in := Inputs{
		Spot:   numeric.Scalar(100),
		Strike: numeric.Scalar(110),
		Expiry: numeric.Scalar(1),
		Vol:    numeric.Scalar(0.3),
	}
	vfn, err := Vectorize(Price, in)
	if err != nil {
		t.Fatalf("vectorize err: %v", err)
	}
	got, err := vfn(in)
	if err != nil {
		t.Fatalf("vectorized call err: %v", err)
	}
	assertClose(t, got, []float64{8.141012}, 1e-5)
}

func TestVectorize_ReusedWithNewData(t *testing.T) {
	template := Inputs{
		Spot:   numeric.Array(100, 90),
		Strike: numeric.Scalar(120),
		Expiry: numeric.Scalar(1),
		Vol:    numeric.Array(.3, .25),
	}
	vfn, err := Vectorize(Price, template)
	if err != nil {
		t.Fatalf("vectorize err: %v", err)
	}

	got, err := vfn(Inputs{
		Spot:   numeric.Array(80, 110, 120),
		Strike: numeric.Scalar(120),
		Expiry: numeric.Scalar(1),
		Vol:    numeric.Array(.4, .2, .1),
	})
	if err != nil {
		t.Fatalf("vectorized call err: %v", err)
	}
	assertClose(t, got, []float64{3.140933, 5.010391, 4.7853127}, tol)
}

func TestVectorize_LayoutMismatch(t *testing.T) {
	template := Inputs{
		Spot:   numeric.Array(100, 90),
		Strike: numeric.Scalar(120),
		Expiry: numeric.Scalar(1),
		Vol:    numeric.Scalar(0.3),
	}
	vfn, err := Vectorize(Price, template)
	if err != nil {
		t.Fatalf("vectorize err: %v", err)
	}

	other := template
	other.Strike = numeric.Array(120, 110)
	if _, err := vfn(other); !perrors.Is(err, perrors.ErrShapeMismatch) {
		t.Fatalf("expected shape mismatch for changed layout, got %v", err)
	}

	other = template
	other.Spot = numeric.Array(100, 90, 80)
	other.Vol = numeric.Scalar(0.3)
	if _, err := vfn(other); err != nil {
		t.Fatalf("longer batch with same layout should succeed: %v", err)
	}
}

func TestVectorize_BatchLengthMismatch(t *testing.T) {
	in := Inputs{
		Spot:   numeric.Array(100, 90, 80),
		Strike: numeric.Scalar(120),
		Expiry: numeric.Scalar(1),
		Vol:    numeric.Array(.3, .25),
	}
	vfn, err := Vectorize(Price, in)
	if err != nil {
		t.Fatalf("vectorize err: %v", err)
	}
	if _, err := vfn(in); !perrors.Is(err, perrors.ErrShapeMismatch) {
		t.Fatalf("expected shape mismatch, got %v", err)
	}
}

func TestVectorize_RequiresFunction(t *testing.T) {
	if _, err := Vectorize(nil, Inputs{}); !perrors.Is(err, perrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
