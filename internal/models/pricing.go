// Package models contains the data types shared by the pricing harness.
package models

import (
	"strings"
	"time"

	perrors "black76/internal/errors"
)

// OptionType is CALL or PUT.
type OptionType string

const (
	OptionTypeCall OptionType = "CALL"
	OptionTypePut  OptionType = "PUT"
)

// ParseOptionType accepts call/put in any case, plus c/p, true/false, t/f
// and 1/0. The empty string is a call.
func ParseOptionType(s string) (OptionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "call", "c", "true", "t", "1":
		return OptionTypeCall, nil
	case "put", "p", "false", "f", "0":
		return OptionTypePut, nil
	}
	return "", perrors.NewValidationError("type", s, "expected call or put")
}

// Scenario is one set of market inputs for a European option.
type Scenario struct {
	ID           int64   `csv:"-" json:"id,omitempty"`
	SetName      string  `csv:"-" json:"set,omitempty"`
	Label        string  `csv:"label" json:"label,omitempty"`
	Spot         float64 `csv:"spot" json:"spot"`
	Strike       float64 `csv:"strike" json:"strike"`
	Expiry       float64 `csv:"expiry" json:"expiry"`
	Vol          float64 `csv:"vol" json:"vol"`
	DiscountRate float64 `csv:"discount_rate" json:"discount_rate"`
	DividendRate float64 `csv:"dividend_rate" json:"dividend_rate"`
	Type         string  `csv:"type" json:"type"`
}

// IsCall reports whether the scenario prices a call. Unrecognised types are
// rejected on import, so they never reach a stored scenario.
func (s Scenario) IsCall() bool {
	t, err := ParseOptionType(s.Type)
	return err != nil || t == OptionTypeCall
}

// ScenarioSet summarizes a stored set of scenarios.
type ScenarioSet struct {
	Name      string    `json:"name"`
	Count     int       `json:"count"`
	CreatedAt time.Time `json:"created_at"`
}

// RunResult is the outcome of pricing one scenario.
type RunResult struct {
	ScenarioID int64   `csv:"scenario_id" json:"scenario_id"`
	Label      string  `csv:"label" json:"label,omitempty"`
	Price      float64 `csv:"price" json:"price"`
	Delta      float64 `csv:"delta" json:"delta"`
	Gamma      float64 `csv:"gamma" json:"gamma"`
}

// PricingRun is a batch evaluation of a scenario set.
type PricingRun struct {
	ID         string        `json:"id"`
	SetName    string        `json:"set"`
	Convention string        `json:"convention"`
	Precision  string        `json:"precision"`
	CreatedAt  time.Time     `json:"created_at"`
	Duration   time.Duration `json:"duration"`
	Results    []RunResult   `json:"results,omitempty"`
}
