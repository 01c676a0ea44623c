package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# blackctl configuration

[pricing]
# Floating-point precision: "float32" or "float64"
precision = "float64"
# Discounting of call/put selections: "spot" (exp(-rT)) or "carry" (exp((r-q)T))
convention = "spot"
# Rates used when a command omits --rate / --div
discount_rate = 0.0
dividend_rate = 0.0

[logging]
# debug, info, warn, error
level = "info"
console = true
file = false
# Rotated by size; sizes in megabytes, age in days
max_size = 50
max_backups = 5
max_age = 30

[store]
# SQLite database for scenario sets and pricing runs
# path = "~/.config/blackctl/blackctl.db"
`

// createTemplateConfig writes the commented template if no config exists.
func createTemplateConfig(configDir, name string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, name+".toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return nil
}
