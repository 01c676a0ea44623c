// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"black76/internal/models"
)

// DataStore defines the interface for data persistence.
type DataStore interface {
	// Scenario sets
	SaveScenarios(ctx context.Context, set string, scenarios []models.Scenario) error
	GetScenarios(ctx context.Context, set string) ([]models.Scenario, error)
	ListScenarioSets(ctx context.Context) ([]models.ScenarioSet, error)
	DeleteScenarioSet(ctx context.Context, set string) error

	// Pricing runs
	SaveRun(ctx context.Context, run *models.PricingRun) error
	GetRun(ctx context.Context, id string) (*models.PricingRun, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]models.PricingRun, error)

	Close() error
}

// RunFilter narrows ListRuns.
type RunFilter struct {
	SetName string
	Limit   int
}
