// Package config provides configuration management for cadence.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides. It describes the named
// policy chains a runner can apply together with the ambient telemetry, wait
// strategy and run history settings.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("cadence.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("cadence.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention CADENCE_SECTION_FIELD.
// For example:
//
//   - CADENCE_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//   - CADENCE_WAIT_STRATEGY overrides wait.strategy
//   - CADENCE_HISTORY_PATH overrides history.path
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Validation
//
// All validation errors are collected and reported together with field paths:
//
//	configuration validation failed with 2 errors:
//	  - chains[0].name: field is required
//	  - wait.strategy: must be one of: spin, yield, sleep
//
// Policy parameters are checked structurally here; type-specific checks
// happen when the policies registry builds a chain.
//
// # Example Configuration
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "text"
//
//	wait:
//	  strategy: "sleep"
//	  interval: "50ms"
//
//	history:
//	  enabled: true
//	  driver: "sqlite"
//	  path: "data/history.db"
//
//	chains:
//	  - name: "poll"
//	    gate: "all"
//	    policies:
//	      - type: "rate"
//	        rate: 2
//	      - type: "count"
//	        amount: 10
//	      - type: "timeout"
//	        timeout: "1m"
//
// # Thread Safety
//
// The singleton accessors are thread-safe. A loaded Config value is not
// synchronized; treat it as read-only after loading.
package config
