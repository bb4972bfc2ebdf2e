package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "wait.strategy").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. All validation errors are collected and
// returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)
	errs = append(errs, validateWait(&cfg.Wait)...)
	errs = append(errs, validateHistory(&cfg.History)...)
	errs = append(errs, validateChains(cfg.Chains)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: "must be one of: debug, info, warn, error",
		})
	}
	switch cfg.Logging.Format {
	case "json", "text", "console":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: "must be one of: json, text, console",
		})
	}

	if !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "path must start with /",
		})
	}
	for i := 1; i < len(cfg.Metrics.DurationBuckets); i++ {
		if cfg.Metrics.DurationBuckets[i] <= cfg.Metrics.DurationBuckets[i-1] {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.duration_buckets",
				Message: "buckets must be strictly increasing",
			})
			break
		}
	}

	switch cfg.Tracing.Sampler {
	case "always", "never", "ratio":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: "must be one of: always, never, ratio",
		})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0.0 and 1.0",
		})
	}
	switch cfg.Tracing.Exporter {
	case "otlp", "stdout":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.exporter",
			Message: "must be one of: otlp, stdout",
		})
	}
	if cfg.Tracing.Enabled && cfg.Tracing.Exporter == "otlp" && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "endpoint is required for the otlp exporter",
		})
	}

	return errs
}

func validateWait(cfg *WaitConfig) []FieldError {
	var errs []FieldError

	switch cfg.Strategy {
	case "spin", "yield", "sleep":
	default:
		errs = append(errs, FieldError{
			Field:   "wait.strategy",
			Message: "must be one of: spin, yield, sleep",
		})
	}
	if cfg.Interval < 0 {
		errs = append(errs, FieldError{
			Field:   "wait.interval",
			Message: "interval must be non-negative",
		})
	}
	if cfg.MaxWait < 0 {
		errs = append(errs, FieldError{
			Field:   "wait.max_wait",
			Message: "max wait must be non-negative",
		})
	}

	return errs
}

func validateHistory(cfg *HistoryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Driver {
	case "sqlite", "sqlite3":
		if cfg.Path == "" {
			errs = append(errs, FieldError{
				Field:   "history.path",
				Message: "path is required for SQLite drivers",
			})
		}
	case "memory":
	default:
		errs = append(errs, FieldError{
			Field:   "history.driver",
			Message: "must be one of: sqlite, sqlite3, memory",
		})
	}
	if cfg.BusyTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "history.busy_timeout",
			Message: "busy timeout must be non-negative",
		})
	}
	if cfg.Retention.MaxAge < 0 {
		errs = append(errs, FieldError{
			Field:   "history.retention.max_age",
			Message: "max age must be non-negative",
		})
	}
	if _, err := cron.ParseStandard(cfg.Retention.Schedule); err != nil {
		errs = append(errs, FieldError{
			Field:   "history.retention.schedule",
			Message: fmt.Sprintf("invalid cron expression: %v", err),
		})
	}

	return errs
}

// gateTypes are the policy types that only throttle and never complete.
var gateTypes = map[string]bool{"rate": true, "schedule": true}

// Warnings reports settings that pass Validate but are unlikely to behave
// as intended. A rate or schedule policy in a chain with gate "any" does not
// throttle when another member admits every iteration.
func Warnings(cfg *Config) []FieldError {
	var warns []FieldError

	for i, chain := range cfg.Chains {
		if chain.Gate == "all" {
			continue
		}

		open := false
		for _, p := range chain.Policies {
			if !gateTypes[p.Type] {
				open = true
				break
			}
		}
		if !open {
			continue
		}

		for j, p := range chain.Policies {
			if gateTypes[p.Type] {
				warns = append(warns, FieldError{
					Field:   fmt.Sprintf("chains[%d].policies[%d]", i, j),
					Message: fmt.Sprintf("%s does not throttle under gate %q while other members admit every iteration; use gate: all", p.Type, chain.Gate),
				})
			}
		}
	}

	return warns
}

func validateChains(chains []ChainConfig) []FieldError {
	var errs []FieldError

	seen := make(map[string]int, len(chains))
	for i, chain := range chains {
		prefix := fmt.Sprintf("chains[%d]", i)

		if chain.Name == "" {
			errs = append(errs, FieldError{
				Field:   prefix + ".name",
				Message: "field is required",
			})
		} else if first, ok := seen[chain.Name]; ok {
			errs = append(errs, FieldError{
				Field:   prefix + ".name",
				Message: fmt.Sprintf("duplicate chain name %q (first defined at chains[%d])", chain.Name, first),
			})
		} else {
			seen[chain.Name] = i
		}

		switch chain.Gate {
		case "any", "all":
		default:
			errs = append(errs, FieldError{
				Field:   prefix + ".gate",
				Message: "must be one of: any, all",
			})
		}

		for j, p := range chain.Policies {
			errs = append(errs, validatePolicy(fmt.Sprintf("%s.policies[%d]", prefix, j), &p)...)
		}
	}

	return errs
}

// validatePolicy checks fields that are invalid for every policy type.
func validatePolicy(prefix string, cfg *PolicyConfig) []FieldError {
	var errs []FieldError

	if cfg.Type == "" {
		errs = append(errs, FieldError{
			Field:   prefix + ".type",
			Message: "field is required",
		})
	}
	if cfg.Timeout < 0 {
		errs = append(errs, FieldError{
			Field:   prefix + ".timeout",
			Message: "timeout must be non-negative",
		})
	}
	if cfg.Rate < 0 {
		errs = append(errs, FieldError{
			Field:   prefix + ".rate",
			Message: "rate must be non-negative",
		})
	}
	if cfg.Burst < 0 {
		errs = append(errs, FieldError{
			Field:   prefix + ".burst",
			Message: "burst must be non-negative",
		})
	}

	return errs
}
