// Package scenario converts market scenarios between CSV files, stored models
// and batched pricing inputs.
package scenario

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	perrors "black76/internal/errors"
	"black76/internal/models"
	"black76/internal/numeric"
	"black76/pkg/black"
)

// ReadCSV parses scenarios from CSV with the header
// label,spot,strike,expiry,vol,discount_rate,dividend_rate,type.
// Only spot, strike, expiry and vol are mandatory columns.
func ReadCSV(r io.Reader) ([]models.Scenario, error) {
	var scenarios []models.Scenario
	if err := gocsv.Unmarshal(r, &scenarios); err != nil {
		return nil, perrors.Wrap(err, "parsing scenarios")
	}
	if len(scenarios) == 0 {
		return nil, perrors.NewValidationError("scenarios", 0, "file contains no rows")
	}
	if err := ValidateTypes(scenarios); err != nil {
		return nil, err
	}
	return scenarios, nil
}

// ValidateTypes rejects the first scenario whose option type is neither a
// call nor a put. Rows are numbered from 1 after the header.
func ValidateTypes(scenarios []models.Scenario) error {
	for i, s := range scenarios {
		if _, err := models.ParseOptionType(s.Type); err != nil {
			return perrors.NewValidationError(fmt.Sprintf("type (row %d)", i+1), s.Type, "expected call or put")
		}
	}
	return nil
}

// ReadFile parses a scenario CSV file.
func ReadFile(path string) ([]models.Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, perrors.Wrap(err, "opening scenario file")
	}
	defer f.Close()
	return ReadCSV(f)
}

// WriteResultsCSV writes run results as CSV.
func WriteResultsCSV(w io.Writer, results []models.RunResult) error {
	if err := gocsv.Marshal(&results, w); err != nil {
		return perrors.Wrap(err, "writing results")
	}
	return nil
}

// WriteResultsFile writes run results to a CSV file.
func WriteResultsFile(path string, results []models.RunResult) error {
	f, err := os.Create(path)
	if err != nil {
		return perrors.Wrapf(err, "creating results file %s", path)
	}
	if err := WriteResultsCSV(f, results); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// HasTypes reports whether any scenario names its option type explicitly.
func HasTypes(scenarios []models.Scenario) bool {
	for _, s := range scenarios {
		if strings.TrimSpace(s.Type) != "" {
			return true
		}
	}
	return false
}

// ToInputs lays scenarios out as one batch. A call/put mask is attached only
// when at least one scenario names its type; otherwise everything is priced as
// a call without a mask.
func ToInputs(scenarios []models.Scenario, precision numeric.Precision) black.Inputs {
	n := len(scenarios)
	spot, strike, expiry := make([]float64, n), make([]float64, n), make([]float64, n)
	vol, rate, div := make([]float64, n), make([]float64, n), make([]float64, n)
	calls := make([]bool, n)

	for i, s := range scenarios {
		spot[i], strike[i], expiry[i], vol[i] = s.Spot, s.Strike, s.Expiry, s.Vol
		rate[i], div[i] = s.DiscountRate, s.DividendRate
		calls[i] = s.IsCall()
	}

	in := black.Inputs{
		Spot:         numeric.Array(spot...),
		Strike:       numeric.Array(strike...),
		Expiry:       numeric.Array(expiry...),
		Vol:          numeric.Array(vol...),
		DiscountRate: numeric.Array(rate...),
		DividendRate: numeric.Array(div...),
		Precision:    precision,
	}
	if HasTypes(scenarios) {
		in.IsCall = numeric.MaskOf(calls...)
	}
	return in
}

// ParseValue parses a command-line number list: "100" is a scalar,
// "100,90,80" an array.
func ParseValue(field, s string) (numeric.Value, error) {
	parts := strings.Split(s, ",")
	xs := make([]float64, 0, len(parts))
	for _, p := range parts {
		x, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return numeric.Value{}, perrors.NewValidationError(field, p, "not a number")
		}
		xs = append(xs, x)
	}
	if len(xs) == 1 && !strings.Contains(s, ",") {
		return numeric.Scalar(xs[0]), nil
	}
	return numeric.Array(xs...), nil
}

// ParseMask parses a call/put list such as "call,put,c,p,true,false" with the
// same vocabulary as the CSV type column. Empty entries are rejected.
func ParseMask(field, s string) (numeric.Mask, error) {
	parts := strings.Split(s, ",")
	flags := make([]bool, 0, len(parts))
	for _, p := range parts {
		t, err := models.ParseOptionType(p)
		if err != nil || strings.TrimSpace(p) == "" {
			return numeric.Mask{}, perrors.NewValidationError(field, p, "expected call or put")
		}
		flags = append(flags, t == models.OptionTypeCall)
	}
	if len(flags) == 1 && !strings.Contains(s, ",") {
		return numeric.ScalarMask(flags[0]), nil
	}
	return numeric.MaskOf(flags...), nil
}
