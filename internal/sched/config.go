package sched

import (
	"os"

	yaml "github.com/goccy/go-yaml"
)

// Config mirrors config.yml
type Config struct {
	DataDir         string `yaml:"data_dir"`         // "" = platform data directory
	LogLevel        string `yaml:"log_level"`        // "info" (by default)
	History         bool   `yaml:"history"`          // true (by default)
	HistoryFile     string `yaml:"history_file"`     // "" = history.csv in the data directory
	DefaultPriority int    `yaml:"default_priority"` // 1 (by default)
}

// If the config file is not found, we use default values
func defaultConfig() Config {
	return Config{
		LogLevel:        "info",
		History:         true,
		DefaultPriority: MinPriority,
	}
}

// LoadConfig reads YAML and overrides defaults; empty path = defaults only.
// A file that exists but does not parse is reported.
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return defaultConfig(), err
	}

	// sanity clamps
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	cfg.DefaultPriority = clampPriority(cfg.DefaultPriority)

	return cfg, nil
}
