// Package cli provides the command-line interface for the pricing library.
package cli

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"black76/internal/config"
	"black76/internal/logging"
	"black76/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-10-01"
)

// App holds the application dependencies.
type App struct {
	Config    *config.Config
	ConfigDir string
	Logger    zerolog.Logger

	storeOnce sync.Once
	store     store.DataStore
	storeErr  error
}

// Store opens the SQLite store on first use. Pricing commands never touch it.
func (a *App) Store() (store.DataStore, error) {
	a.storeOnce.Do(func() {
		if a.store != nil {
			return
		}
		start := time.Now()
		a.store, a.storeErr = store.NewSQLiteStore(a.Config.Store.Path)
		logging.LogStoreCall(a.Logger, "open", time.Since(start), a.storeErr)
	})
	return a.store, a.storeErr
}

// Close releases the store if it was opened.
func (a *App) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

// Context returns a background context carrying logger for store calls.
func (a *App) Context(logger zerolog.Logger) context.Context {
	return logging.WithLogger(context.Background(), logger)
}

// Execute runs the CLI with the process arguments.
func Execute(cfg *config.Config, logger zerolog.Logger) error {
	app := &App{
		Config:    cfg,
		ConfigDir: config.DefaultConfigDir(),
		Logger:    logger,
	}
	return runRoot(app, newRootCmd(app))
}

// runRoot executes root and closes the store whether or not the command
// succeeded; cobra skips post-run hooks after a failed RunE.
func runRoot(app *App, root *cobra.Command) error {
	defer app.Close()
	return root.Execute()
}

func newRootCmd(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "blackctl",
		Short: "Black-76 option pricing with automatic Greeks",
		Long: `blackctl prices European options on forwards with the Black '76 model.

Delta and gamma are derived from the pricing function by automatic
differentiation. Every input accepts a single number or a comma separated
list; lists are priced as one batch and single numbers are broadcast.

Scenario sets can be imported from CSV, evaluated in batch and the runs
kept in a local SQLite database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if dir, _ := cmd.Flags().GetString("config"); dir != "" {
				cfg, err := config.Load(dir)
				if err != nil {
					return err
				}
				app.Config = cfg
				app.ConfigDir = dir
				app.Logger = logging.NewLoggerWithConfig(cfg.LogConfig())
			}

			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/blackctl)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addCoreCommands(rootCmd, app)
	addPricingCommands(rootCmd, app)
	addScenarioCommands(rootCmd, app)
	addRunCommands(rootCmd, app)

	return rootCmd
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("blackctl v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": app.ConfigDir})
			} else {
				output.Println(app.ConfigDir)
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Bold("Pricing")
	output.Printf("  Precision:      %s\n", cfg.Precision().Resolve())
	output.Printf("  Convention:     %s\n", cfg.Convention())
	output.Printf("  Discount Rate:  %s\n", FormatRate(cfg.Pricing.DiscountRate))
	output.Printf("  Dividend Rate:  %s\n", FormatRate(cfg.Pricing.DividendRate))
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:          %s\n", cfg.Logging.Level)
	output.Printf("  Console:        %v\n", cfg.Logging.Console)
	output.Printf("  File:           %v\n", cfg.Logging.File)
	if cfg.Logging.File {
		output.Printf("  File Path:      %s\n", cfg.Logging.FilePath)
	}
	output.Println()

	output.Bold("Store")
	output.Printf("  Path:           %s\n", cfg.Store.Path)

	return nil
}
