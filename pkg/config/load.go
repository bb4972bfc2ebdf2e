package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// Environment variables are not consulted; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	return load(path, false)
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention CADENCE_SECTION_FIELD (e.g., CADENCE_WAIT_STRATEGY).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	return load(path, true)
}

// Parse decodes YAML configuration from memory, applies defaults and validates.
func Parse(data []byte) (*Config, error) {
	cfg, err := parse(data)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func load(path string, env bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	if env {
		applyEnvOverrides(cfg)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration file %q: %w", path, err)
	}

	return cfg, nil
}

func parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(&cfg)
	return &cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables use the format CADENCE_SECTION_FIELD. Values that
// fail to parse are ignored.
func applyEnvOverrides(cfg *Config) {
	// Telemetry overrides
	if val := os.Getenv("CADENCE_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("CADENCE_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	overrideBool("CADENCE_TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	if val := os.Getenv("CADENCE_TELEMETRY_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.ListenAddress = val
	}
	overrideBool("CADENCE_TELEMETRY_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	if val := os.Getenv("CADENCE_TELEMETRY_TRACING_EXPORTER"); val != "" {
		cfg.Telemetry.Tracing.Exporter = val
	}
	if val := os.Getenv("CADENCE_TELEMETRY_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
	if val := os.Getenv("CADENCE_TELEMETRY_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}

	// Wait overrides
	if val := os.Getenv("CADENCE_WAIT_STRATEGY"); val != "" {
		cfg.Wait.Strategy = val
	}
	overrideDuration("CADENCE_WAIT_INTERVAL", &cfg.Wait.Interval)
	overrideDuration("CADENCE_WAIT_MAX_WAIT", &cfg.Wait.MaxWait)

	// History overrides
	overrideBool("CADENCE_HISTORY_ENABLED", &cfg.History.Enabled)
	if val := os.Getenv("CADENCE_HISTORY_DRIVER"); val != "" {
		cfg.History.Driver = val
	}
	if val := os.Getenv("CADENCE_HISTORY_PATH"); val != "" {
		cfg.History.Path = val
	}
	overrideDuration("CADENCE_HISTORY_RETENTION_MAX_AGE", &cfg.History.Retention.MaxAge)
	if val := os.Getenv("CADENCE_HISTORY_RETENTION_SCHEDULE"); val != "" {
		cfg.History.Retention.Schedule = val
	}
}

func overrideBool(key string, dst *bool) {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

func overrideDuration(key string, dst *time.Duration) {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}
