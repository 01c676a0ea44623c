package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	perrors "black76/internal/errors"
	"black76/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db    *sql.DB
	retry RetryConfig
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, perrors.NewStoreError("open", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db, retry: DefaultRetryConfig()}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, perrors.NewStoreError("init schema", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Market scenarios grouped into named sets
	CREATE TABLE IF NOT EXISTS scenarios (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		set_name TEXT NOT NULL,
		position INTEGER NOT NULL,
		label TEXT,
		spot REAL NOT NULL,
		strike REAL NOT NULL,
		expiry REAL NOT NULL,
		vol REAL NOT NULL,
		discount_rate REAL NOT NULL DEFAULT 0,
		dividend_rate REAL NOT NULL DEFAULT 0,
		option_type TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(set_name, position)
	);

	-- Batch evaluations of a scenario set
	CREATE TABLE IF NOT EXISTS pricing_runs (
		id TEXT PRIMARY KEY,
		set_name TEXT NOT NULL,
		convention TEXT NOT NULL,
		precision TEXT NOT NULL,
		duration INTEGER NOT NULL,
		created_at DATETIME NOT NULL
	);

	-- Per-scenario results of a run
	CREATE TABLE IF NOT EXISTS run_results (
		run_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		scenario_id INTEGER,
		label TEXT,
		price REAL,
		delta REAL,
		gamma REAL,
		PRIMARY KEY (run_id, position),
		FOREIGN KEY (run_id) REFERENCES pricing_runs(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_scenarios_set ON scenarios(set_name);
	CREATE INDEX IF NOT EXISTS idx_runs_set ON pricing_runs(set_name, created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Scenario Methods
// ============================================================================

// SaveScenarios replaces the scenario set with the given scenarios, keeping
// their order. Assigned IDs are written back into the slice.
func (s *SQLiteStore) SaveScenarios(ctx context.Context, set string, scenarios []models.Scenario) error {
	if set == "" {
		return perrors.NewValidationError("set", set, "must not be empty")
	}
	return withRetry(ctx, s.retry, "save_scenarios", func() error {
		return s.saveScenarios(ctx, set, scenarios)
	})
}

func (s *SQLiteStore) saveScenarios(ctx context.Context, set string, scenarios []models.Scenario) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return perrors.NewStoreError("save scenarios", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM scenarios WHERE set_name = ?", set); err != nil {
		return perrors.NewStoreError("save scenarios", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO scenarios (set_name, position, label, spot, strike, expiry, vol, discount_rate, dividend_rate, option_type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return perrors.NewStoreError("save scenarios", err)
	}
	defer stmt.Close()

	for i := range scenarios {
		sc := &scenarios[i]
		res, err := stmt.ExecContext(ctx, set, i, sc.Label, sc.Spot, sc.Strike, sc.Expiry, sc.Vol, sc.DiscountRate, sc.DividendRate, sc.Type)
		if err != nil {
			return perrors.NewStoreError("save scenarios", err)
		}
		if id, err := res.LastInsertId(); err == nil {
			sc.ID = id
		}
		sc.SetName = set
	}

	if err := tx.Commit(); err != nil {
		return perrors.NewStoreError("save scenarios", err)
	}
	return nil
}

// GetScenarios returns the scenarios of a set in insertion order.
func (s *SQLiteStore) GetScenarios(ctx context.Context, set string) ([]models.Scenario, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, set_name, label, spot, strike, expiry, vol, discount_rate, dividend_rate, option_type
		FROM scenarios WHERE set_name = ? ORDER BY position
	`, set)
	if err != nil {
		return nil, perrors.NewStoreError("get scenarios", err)
	}
	defer rows.Close()

	var scenarios []models.Scenario
	for rows.Next() {
		var sc models.Scenario
		var label, optionType sql.NullString
		if err := rows.Scan(&sc.ID, &sc.SetName, &label, &sc.Spot, &sc.Strike, &sc.Expiry, &sc.Vol, &sc.DiscountRate, &sc.DividendRate, &optionType); err != nil {
			return nil, perrors.NewStoreError("scan scenario", err)
		}
		sc.Label = label.String
		sc.Type = optionType.String
		scenarios = append(scenarios, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, perrors.NewStoreError("get scenarios", err)
	}

	if len(scenarios) == 0 {
		return nil, fmt.Errorf("%w: %s", perrors.ErrScenarioSetNotFound, set)
	}
	return scenarios, nil
}

// ListScenarioSets returns every stored set with its size.
func (s *SQLiteStore) ListScenarioSets(ctx context.Context) ([]models.ScenarioSet, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT set_name, COUNT(*), MIN(created_at)
		FROM scenarios GROUP BY set_name ORDER BY set_name
	`)
	if err != nil {
		return nil, perrors.NewStoreError("list scenario sets", err)
	}
	defer rows.Close()

	var sets []models.ScenarioSet
	for rows.Next() {
		var set models.ScenarioSet
		var created sql.NullString
		if err := rows.Scan(&set.Name, &set.Count, &created); err != nil {
			return nil, perrors.NewStoreError("scan scenario set", err)
		}
		if created.Valid {
			set.CreatedAt = parseTimestamp(created.String)
		}
		sets = append(sets, set)
	}
	return sets, rows.Err()
}

// DeleteScenarioSet removes a set.
func (s *SQLiteStore) DeleteScenarioSet(ctx context.Context, set string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM scenarios WHERE set_name = ?", set)
	if err != nil {
		return perrors.NewStoreError("delete scenario set", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", perrors.ErrScenarioSetNotFound, set)
	}
	return nil
}

// ============================================================================
// Pricing Run Methods
// ============================================================================

// SaveRun stores a run and its results. An empty ID is generated. Writes are
// retried while another process holds the database lock.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *models.PricingRun) error {
	if run.ID == "" {
		run.ID = fmt.Sprintf("run_%d", time.Now().UnixNano())
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	return withRetry(ctx, s.retry, "save_run", func() error {
		return s.saveRun(ctx, run)
	})
}

func (s *SQLiteStore) saveRun(ctx context.Context, run *models.PricingRun) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return perrors.NewStoreError("save run", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO pricing_runs (id, set_name, convention, precision, duration, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.SetName, run.Convention, run.Precision, run.Duration.Nanoseconds(), run.CreatedAt.UTC())
	if err != nil {
		return perrors.NewStoreError("save run", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_results (run_id, position, scenario_id, label, price, delta, gamma)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return perrors.NewStoreError("save run", err)
	}
	defer stmt.Close()

	for i, r := range run.Results {
		if _, err := stmt.ExecContext(ctx, run.ID, i, r.ScenarioID, r.Label, nullable(r.Price), nullable(r.Delta), nullable(r.Gamma)); err != nil {
			return perrors.NewStoreError("save run result", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return perrors.NewStoreError("save run", err)
	}
	return nil
}

// GetRun returns a run with its results.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*models.PricingRun, error) {
	var run models.PricingRun
	var durationNs int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, set_name, convention, precision, duration, created_at FROM pricing_runs WHERE id = ?
	`, id).Scan(&run.ID, &run.SetName, &run.Convention, &run.Precision, &durationNs, &run.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", perrors.ErrRunNotFound, id)
	}
	if err != nil {
		return nil, perrors.NewStoreError("get run", err)
	}
	run.Duration = time.Duration(durationNs)

	rows, err := s.db.QueryContext(ctx, `
		SELECT scenario_id, label, price, delta, gamma FROM run_results WHERE run_id = ? ORDER BY position
	`, id)
	if err != nil {
		return nil, perrors.NewStoreError("get run results", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r models.RunResult
		var label sql.NullString
		var price, delta, gamma sql.NullFloat64
		if err := rows.Scan(&r.ScenarioID, &label, &price, &delta, &gamma); err != nil {
			return nil, perrors.NewStoreError("scan run result", err)
		}
		r.Label = label.String
		r.Price, r.Delta, r.Gamma = fromNullable(price), fromNullable(delta), fromNullable(gamma)
		run.Results = append(run.Results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, perrors.NewStoreError("get run results", err)
	}

	return &run, nil
}

// ListRuns returns runs newest first, without results.
func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]models.PricingRun, error) {
	query := "SELECT id, set_name, convention, precision, duration, created_at FROM pricing_runs WHERE 1=1"
	args := []interface{}{}

	if filter.SetName != "" {
		query += " AND set_name = ?"
		args = append(args, filter.SetName)
	}

	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, perrors.NewStoreError("list runs", err)
	}
	defer rows.Close()

	var runs []models.PricingRun
	for rows.Next() {
		var run models.PricingRun
		var durationNs int64
		if err := rows.Scan(&run.ID, &run.SetName, &run.Convention, &run.Precision, &durationNs, &run.CreatedAt); err != nil {
			return nil, perrors.NewStoreError("scan run", err)
		}
		run.Duration = time.Duration(durationNs)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
