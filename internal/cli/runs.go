package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"black76/internal/logging"
	"black76/internal/models"
	"black76/internal/numeric"
	"black76/internal/scenario"
	"black76/internal/store"
	"black76/pkg/black"
)

// resultRow is a RunResult in JSON output. NaN becomes null.
type resultRow struct {
	ScenarioID int64    `json:"scenario_id"`
	Label      string   `json:"label,omitempty"`
	Price      *float64 `json:"price"`
	Delta      *float64 `json:"delta"`
	Gamma      *float64 `json:"gamma"`
}

// runReport is a PricingRun in JSON output.
type runReport struct {
	ID         string      `json:"id,omitempty"`
	SetName    string      `json:"set"`
	Convention string      `json:"convention"`
	Precision  string      `json:"precision"`
	CreatedAt  time.Time   `json:"created_at"`
	DurationUs int64       `json:"duration_us"`
	Results    []resultRow `json:"results,omitempty"`
}

func newRunReport(run *models.PricingRun) runReport {
	report := runReport{
		ID:         run.ID,
		SetName:    run.SetName,
		Convention: run.Convention,
		Precision:  run.Precision,
		CreatedAt:  run.CreatedAt,
		DurationUs: run.Duration.Microseconds(),
	}
	for _, r := range run.Results {
		report.Results = append(report.Results, resultRow{
			ScenarioID: r.ScenarioID,
			Label:      r.Label,
			Price:      jsonFloat(r.Price),
			Delta:      jsonFloat(r.Delta),
			Gamma:      jsonFloat(r.Gamma),
		})
	}
	return report
}

// priceScenarios evaluates a scenario set in one batch.
func priceScenarios(set string, scenarios []models.Scenario, precision numeric.Precision, conv black.Convention) (*models.PricingRun, error) {
	start := time.Now()
	res, err := black.GreeksWith(scenario.ToInputs(scenarios, precision), conv)
	if err != nil {
		return nil, err
	}

	run := &models.PricingRun{
		SetName:    set,
		Convention: conv.String(),
		Precision:  precision.Resolve().String(),
		CreatedAt:  start,
		Duration:   time.Since(start),
		Results:    make([]models.RunResult, len(scenarios)),
	}
	for i, s := range scenarios {
		run.Results[i] = models.RunResult{
			ScenarioID: s.ID,
			Label:      s.Label,
			Price:      res.Price[i],
			Delta:      res.Delta[i],
			Gamma:      res.Gamma[i],
		}
	}
	return run, nil
}

func renderRun(output *Output, run *models.PricingRun) error {
	if output.IsJSON() {
		return output.JSON(newRunReport(run))
	}

	table := NewTable(output, "ID", "Label", "Price", "Delta", "Gamma")
	for _, r := range run.Results {
		table.AddRow(
			strconv.FormatInt(r.ScenarioID, 10),
			TruncateString(r.Label, 20),
			output.Value(r.Price),
			output.Signed(r.Delta),
			output.Value(r.Gamma),
		)
	}
	table.Render()

	summary := fmt.Sprintf("%d scenarios from %q, %s, %s discounting, %s",
		len(run.Results), run.SetName, run.Precision, run.Convention, FormatDuration(run.Duration))
	if run.ID != "" {
		summary += ", run " + run.ID
	}
	output.Dim("%s", summary)
	return nil
}

// addRunCommands adds run and the runs group.
func addRunCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newRunCmd(app))

	runs := &cobra.Command{
		Use:   "runs",
		Short: "Inspect saved pricing runs",
	}
	runs.AddCommand(newRunsListCmd(app))
	runs.AddCommand(newRunsShowCmd(app))
	runs.AddCommand(newRunsExportCmd(app))
	rootCmd.AddCommand(runs)
}

func newRunCmd(app *App) *cobra.Command {
	var (
		precision  string
		convention string
		save       bool
	)

	cmd := &cobra.Command{
		Use:   "run <set>",
		Short: "Price, delta and gamma for every scenario of a set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set := args[0]
			output := NewOutput(cmd)
			logger := logging.WithScenarioSet(app.Logger, set)

			p := app.Config.Precision()
			if cmd.Flags().Changed("precision") {
				parsed, err := numeric.ParsePrecision(precision)
				if err != nil {
					return err
				}
				p = parsed
			}
			conv := app.Config.Convention()
			if cmd.Flags().Changed("convention") {
				parsed, err := black.ParseConvention(convention)
				if err != nil {
					return err
				}
				conv = parsed
			}

			ds, err := app.Store()
			if err != nil {
				return err
			}

			ctx := app.Context(logger)
			scenarios, err := ds.GetScenarios(ctx, set)
			if err != nil {
				return err
			}

			run, err := priceScenarios(set, scenarios, p, conv)
			if err != nil {
				return err
			}
			logging.LogRun(logger, "run", len(run.Results), run.Precision, run.Convention, run.Duration)

			if save {
				start := time.Now()
				err := ds.SaveRun(ctx, run)
				logging.LogStoreCall(logger, "save_run", time.Since(start), err)
				if err != nil {
					return err
				}
			}

			return renderRun(output, run)
		},
	}

	cmd.Flags().StringVar(&precision, "precision", "", "float32 or float64 (default from config)")
	cmd.Flags().StringVar(&convention, "convention", "", "spot or carry discounting (default from config)")
	cmd.Flags().BoolVar(&save, "save", false, "store the run for later inspection")

	return cmd
}

func newRunsListCmd(app *App) *cobra.Command {
	var filter store.RunFilter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			ds, err := app.Store()
			if err != nil {
				return err
			}

			runs, err := ds.ListRuns(app.Context(app.Logger), filter)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				reports := make([]runReport, len(runs))
				for i := range runs {
					reports[i] = newRunReport(&runs[i])
				}
				return output.JSON(reports)
			}
			if len(runs) == 0 {
				output.Info("No saved runs. Use 'blackctl run <set> --save'.")
				return nil
			}

			table := NewTable(output, "Run", "Set", "Precision", "Convention", "Duration", "Created")
			for _, r := range runs {
				table.AddRow(r.ID, r.SetName, r.Precision, r.Convention, FormatDuration(r.Duration), FormatDateTime(r.CreatedAt))
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.SetName, "set", "", "only runs of this scenario set")
	cmd.Flags().IntVar(&filter.Limit, "limit", 20, "maximum number of runs")

	return cmd
}

func newRunsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the results of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := app.Store()
			if err != nil {
				return err
			}

			run, err := ds.GetRun(app.Context(app.Logger), args[0])
			if err != nil {
				return err
			}
			return renderRun(NewOutput(cmd), run)
		},
	}
}

func newRunsExportCmd(app *App) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "export <run-id>",
		Short: "Export the results of a saved run as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := app.Store()
			if err != nil {
				return err
			}

			run, err := ds.GetRun(app.Context(app.Logger), args[0])
			if err != nil {
				return err
			}

			if path == "" {
				return scenario.WriteResultsCSV(cmd.OutOrStdout(), run.Results)
			}
			if err := scenario.WriteResultsFile(path, run.Results); err != nil {
				return err
			}
			NewOutput(cmd).Success("✓ Wrote %d results to %s", len(run.Results), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "output", "o", "", "output file (default: stdout)")

	return cmd
}
