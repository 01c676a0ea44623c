// Command blackctl prices options with the Black '76 model.
package main

import (
	"fmt"
	"os"

	"black76/internal/cli"
	"black76/internal/config"
	"black76/internal/logging"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLoggerWithConfig(cfg.LogConfig())

	if err := cli.Execute(cfg, logger); err != nil {
		logger.Debug().Err(err).Msg("command failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
