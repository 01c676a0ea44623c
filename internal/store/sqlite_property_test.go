package store

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"black76/internal/models"
)

// Property: saving a scenario set and reading it back returns the same
// scenarios in the same order.
func TestProperty_ScenarioRoundTrip(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "property.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	typeGen := gen.OneConstOf("call", "put", "")
	set := 0

	properties.Property("scenario round-trip preserves data and order", prop.ForAll(
		func(count int, spot, vol float64, optionType string) bool {
			ctx := context.Background()
			set++
			name := fmt.Sprintf("set_%d", set)

			scenarios := make([]models.Scenario, count)
			for i := range scenarios {
				scenarios[i] = models.Scenario{
					Label:        fmt.Sprintf("s%d", i),
					Spot:         spot + float64(i),
					Strike:       spot * 1.1,
					Expiry:       0.5 + float64(i)/4,
					Vol:          vol,
					DiscountRate: 0.01 * float64(i%5),
					Type:         optionType,
				}
			}

			if err := store.SaveScenarios(ctx, name, scenarios); err != nil {
				t.Logf("Failed to save scenarios: %v", err)
				return false
			}

			retrieved, err := store.GetScenarios(ctx, name)
			if err != nil {
				t.Logf("Failed to get scenarios: %v", err)
				return false
			}
			if len(retrieved) != len(scenarios) {
				return false
			}

			for i := range scenarios {
				want, got := scenarios[i], retrieved[i]
				if got.Label != want.Label || got.Type != want.Type || got.ID != want.ID {
					return false
				}
				if math.Abs(got.Spot-want.Spot) > 1e-12 || math.Abs(got.Expiry-want.Expiry) > 1e-12 {
					return false
				}
				if math.Abs(got.Vol-want.Vol) > 1e-12 || math.Abs(got.DiscountRate-want.DiscountRate) > 1e-12 {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 20),
		gen.Float64Range(1, 500),
		gen.Float64Range(0.01, 1),
		typeGen,
	))

	properties.TestingRun(t)
}
