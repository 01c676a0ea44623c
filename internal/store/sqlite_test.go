package store

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "black76/internal/errors"
	"black76/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleScenarios() []models.Scenario {
	return []models.Scenario{
		{Label: "a", Spot: 100, Strike: 120, Expiry: 1, Vol: 0.3, Type: "call"},
		{Label: "b", Spot: 90, Strike: 75, Expiry: 1, Vol: 0.25, Type: "put"},
		{Label: "c", Spot: 80, Strike: 75, Expiry: 1, Vol: 0.4, DiscountRate: 0.05, DividendRate: 0.01},
	}
}

func TestScenarios_SaveAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	scenarios := sampleScenarios()
	require.NoError(t, s.SaveScenarios(ctx, "desk", scenarios))
	for _, sc := range scenarios {
		assert.NotZero(t, sc.ID)
		assert.Equal(t, "desk", sc.SetName)
	}

	got, err := s.GetScenarios(ctx, "desk")
	require.NoError(t, err)
	assert.Equal(t, scenarios, got)
}

func TestScenarios_SaveReplacesSet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveScenarios(ctx, "desk", sampleScenarios()))
	require.NoError(t, s.SaveScenarios(ctx, "desk", sampleScenarios()[:1]))

	got, err := s.GetScenarios(ctx, "desk")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestScenarios_EmptySetName(t *testing.T) {
	s := newTestStore(t)
	err := s.SaveScenarios(context.Background(), "", sampleScenarios())
	assert.ErrorIs(t, err, perrors.ErrInvalidInput)
}

func TestScenarios_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetScenarios(ctx, "missing")
	assert.ErrorIs(t, err, perrors.ErrScenarioSetNotFound)

	err = s.DeleteScenarioSet(ctx, "missing")
	assert.ErrorIs(t, err, perrors.ErrScenarioSetNotFound)
}

func TestListScenarioSets(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveScenarios(ctx, "b-set", sampleScenarios()))
	require.NoError(t, s.SaveScenarios(ctx, "a-set", sampleScenarios()[:2]))

	sets, err := s.ListScenarioSets(ctx)
	require.NoError(t, err)
	require.Len(t, sets, 2)
	assert.Equal(t, "a-set", sets[0].Name)
	assert.Equal(t, 2, sets[0].Count)
	assert.Equal(t, 3, sets[1].Count)
	assert.False(t, sets[0].CreatedAt.IsZero())

	require.NoError(t, s.DeleteScenarioSet(ctx, "a-set"))
	sets, err = s.ListScenarioSets(ctx)
	require.NoError(t, err)
	assert.Len(t, sets, 1)
}

func TestRuns_SaveAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := &models.PricingRun{
		SetName:    "desk",
		Convention: "spot",
		Precision:  "float64",
		Duration:   1500 * time.Microsecond,
		Results: []models.RunResult{
			{ScenarioID: 1, Label: "a", Price: 5.440563, Delta: 0.36, Gamma: 0.013},
			{ScenarioID: 2, Label: "b", Price: math.NaN(), Delta: math.NaN(), Gamma: math.NaN()},
		},
	}
	require.NoError(t, s.SaveRun(ctx, run))
	require.NotEmpty(t, run.ID)

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.SetName, got.SetName)
	assert.Equal(t, run.Duration, got.Duration)
	assert.True(t, run.CreatedAt.Equal(got.CreatedAt))
	require.Len(t, got.Results, 2)
	assert.InDelta(t, 5.440563, got.Results[0].Price, 1e-12)
	assert.Equal(t, "a", got.Results[0].Label)
	assert.True(t, math.IsNaN(got.Results[1].Price))
}

func TestRuns_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetRun(context.Background(), "run_missing")
	assert.ErrorIs(t, err, perrors.ErrRunNotFound)
}

func TestListRuns_FilterAndLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	for i, set := range []string{"desk", "desk", "book"} {
		run := &models.PricingRun{
			ID:         set + "-" + string(rune('0'+i)),
			SetName:    set,
			Convention: "spot",
			Precision:  "float32",
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, s.SaveRun(ctx, run))
	}

	runs, err := s.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "book-2", runs[0].ID)

	runs, err = s.ListRuns(ctx, RunFilter{SetName: "desk", Limit: 1})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "desk-1", runs[0].ID)
	assert.Empty(t, runs[0].Results)
}

func TestRuns_DuplicateIDIsDatabaseError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := &models.PricingRun{ID: "dup", SetName: "desk", Convention: "spot", Precision: "float64"}
	require.NoError(t, s.SaveRun(ctx, run))
	err := s.SaveRun(ctx, run)
	assert.ErrorIs(t, err, perrors.ErrDatabaseError)
}
