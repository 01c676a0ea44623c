package cli

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"black76/internal/logging"
	"black76/internal/scenario"
)

// addScenarioCommands adds the scenario set commands.
func addScenarioCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:     "scenarios",
		Aliases: []string{"sc"},
		Short:   "Manage stored scenario sets",
		Long: `Scenario sets are named batches of market inputs imported from CSV.

The CSV header is label,spot,strike,expiry,vol,discount_rate,dividend_rate,type.
Only spot, strike, expiry and vol are required. When no row names a type
every scenario is priced as a call.`,
	}

	cmd.AddCommand(newScenarioImportCmd(app))
	cmd.AddCommand(newScenarioListCmd(app))
	cmd.AddCommand(newScenarioShowCmd(app))
	cmd.AddCommand(newScenarioDeleteCmd(app))

	rootCmd.AddCommand(cmd)
}

func newScenarioImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <set> <file.csv>",
		Short: "Import a scenario set from CSV, replacing any set of the same name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, path := args[0], args[1]
			output := NewOutput(cmd)

			scenarios, err := scenario.ReadFile(path)
			if err != nil {
				return err
			}

			ds, err := app.Store()
			if err != nil {
				return err
			}

			logger := logging.WithScenarioSet(app.Logger, set)
			start := time.Now()
			err = ds.SaveScenarios(app.Context(logger), set, scenarios)
			logging.LogStoreCall(logger, "save_scenarios", time.Since(start), err)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{"set": set, "count": len(scenarios)})
			}
			output.Success("✓ Imported %d scenarios into %q", len(scenarios), set)
			return nil
		},
	}
}

func newScenarioListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List scenario sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			ds, err := app.Store()
			if err != nil {
				return err
			}

			sets, err := ds.ListScenarioSets(app.Context(app.Logger))
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(sets)
			}
			if len(sets) == 0 {
				output.Info("No scenario sets. Import one with 'blackctl scenarios import <set> <file.csv>'.")
				return nil
			}

			table := NewTable(output, "Set", "Scenarios", "Created")
			for _, s := range sets {
				table.AddRow(s.Name, strconv.Itoa(s.Count), FormatDateTime(s.CreatedAt))
			}
			table.Render()
			return nil
		},
	}
}

func newScenarioShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <set>",
		Short: "Show the scenarios of a set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			ds, err := app.Store()
			if err != nil {
				return err
			}

			scenarios, err := ds.GetScenarios(app.Context(app.Logger), args[0])
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(scenarios)
			}

			table := NewTable(output, "ID", "Label", "Spot", "Strike", "Expiry", "Vol", "Rate", "Div", "Type")
			for _, s := range scenarios {
				typ := s.Type
				if typ == "" {
					typ = "-"
				}
				table.AddRow(
					strconv.FormatInt(s.ID, 10),
					TruncateString(s.Label, 20),
					FormatValue(s.Spot),
					FormatValue(s.Strike),
					FormatValue(s.Expiry),
					FormatValue(s.Vol),
					FormatRate(s.DiscountRate),
					FormatRate(s.DividendRate),
					typ,
				)
			}
			table.Render()
			output.Dim("%d scenarios in %q", len(scenarios), args[0])
			return nil
		},
	}
}

func newScenarioDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <set>",
		Short: "Delete a scenario set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			ds, err := app.Store()
			if err != nil {
				return err
			}

			logger := logging.WithScenarioSet(app.Logger, args[0])
			start := time.Now()
			err = ds.DeleteScenarioSet(app.Context(logger), args[0])
			logging.LogStoreCall(logger, "delete_scenarios", time.Since(start), err)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"deleted": args[0]})
			}
			output.Success("✓ Deleted %q", args[0])
			return nil
		},
	}
}
