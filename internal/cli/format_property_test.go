package cli

import (
	"math"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// For any finite value, FormatValue has exactly six decimals and parses back
// to within half a unit in the last place.
func TestProperty_FormatValueRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("FormatValue keeps six decimals and the value", prop.ForAll(
		func(x float64) bool {
			formatted := FormatValue(x)

			parts := strings.Split(formatted, ".")
			if len(parts) != 2 || len(parts[1]) != 6 {
				t.Logf("Expected six decimals for %f, got %s", x, formatted)
				return false
			}

			parsed, err := strconv.ParseFloat(formatted, 64)
			if err != nil {
				return false
			}
			return math.Abs(parsed-x) <= 5e-7*(1+math.Abs(x)*1e-9)
		},
		gen.Float64Range(-1e6, 1e6),
	))

	properties.Property("FormatSigned marks positive values", prop.ForAll(
		func(x float64) bool {
			s := FormatSigned(x)
			if x > 0 {
				return strings.HasPrefix(s, "+")
			}
			return !strings.HasPrefix(s, "+")
		},
		gen.Float64Range(-1e3, 1e3),
	))

	properties.Property("TruncateString never exceeds the limit", prop.ForAll(
		func(s string, maxLen int) bool {
			out := TruncateString(s, maxLen)
			if len(s) <= maxLen {
				return out == s
			}
			return len(out) == maxLen
		},
		gen.AlphaString(),
		gen.IntRange(1, 40),
	))

	properties.TestingRun(t)
}

func TestFormatValue_NonFinite(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{math.NaN(), "NaN"},
		{math.Inf(1), "+Inf"},
		{math.Inf(-1), "-Inf"},
		{8.1410118, "8.141012"},
		{0, "0.000000"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.in); got != tt.want {
			t.Errorf("FormatValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{250 * time.Microsecond, "250µs"},
		{1500 * time.Microsecond, "1.5ms"},
		{2500 * time.Millisecond, "2.50s"},
		{90 * time.Second, "1m 30s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
