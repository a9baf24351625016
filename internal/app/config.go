package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// ConfigPath points at a .hcl file or a directory of .hcl files.
	ConfigPath string

	LogFormat string
	LogLevel  string

	// MockReplay feeds the configured mock events into a local registry
	// after startup. Dev aid; ignored in the embedded environment.
	MockReplay bool
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ConfigPath == "" {
		return nil, errors.New("ConfigPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
