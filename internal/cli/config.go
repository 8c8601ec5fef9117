package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is consulted when no --config flag is given.
const DefaultConfigPath = "proptune.yaml"

// Config holds file-based defaults for the recommend command. Flags set on
// the command line take precedence over config file values.
type Config struct {
	// Policy is the merge policy name: replace, sum, or max.
	Policy string `yaml:"policy"`

	// Output is the path the recommendation JSON is written to.
	Output string `yaml:"output"`

	// Database is the history store path. Empty disables history.
	Database string `yaml:"database"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Policy: "replace",
		Output: "results.out",
	}
}

// LoadConfig reads a YAML config file over the defaults. A missing file at
// the default path is fine; a missing file named explicitly is an error.
func LoadConfig(path string, explicit bool) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
