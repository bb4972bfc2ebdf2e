package config

import "time"

// Config is the root configuration structure for cadence.
type Config struct {
	// Telemetry contains logging, metrics and tracing configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Wait selects how loops suspend while a policy gate is closed.
	Wait WaitConfig `yaml:"wait"`

	// History configures the run history store.
	History HistoryConfig `yaml:"history"`

	// Chains lists the named policy chains available to the runner.
	Chains []ChainConfig `yaml:"chains"`
}

// Chain returns the chain configuration with the given name.
func (c *Config) Chain(name string) (*ChainConfig, bool) {
	for i := range c.Chains {
		if c.Chains[i].Name == name {
			return &c.Chains[i], true
		}
	}
	return nil, false
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains OpenTelemetry tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether loop metrics are collected.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// ListenAddress is where the metrics endpoint is served.
	// Empty means metrics are collected but not served.
	ListenAddress string `yaml:"listen_address"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "cadence"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "loop"
	Subsystem string `yaml:"subsystem"`

	// DurationBuckets defines histogram buckets for loop duration (seconds).
	// Default: [0.001, 0.01, 0.1, 1, 10, 60, 300]
	DurationBuckets []float64 `yaml:"duration_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "always"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Only used when Sampler is "ratio".
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Exporter determines the trace exporter to use.
	// Options: "otlp", "stdout"
	// Default: "stdout"
	Exporter string `yaml:"exporter"`

	// Endpoint is the OTLP collector endpoint (e.g., "localhost:4317").
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS for the OTLP connection.
	Insecure bool `yaml:"insecure"`

	// ServiceName is the service name in traces.
	// Default: "cadence"
	ServiceName string `yaml:"service_name"`
}

// WaitConfig selects the wait strategy for closed gates.
type WaitConfig struct {
	// Strategy is the suspension strategy.
	// Options: "spin", "yield", "sleep"
	// Default: "yield"
	Strategy string `yaml:"strategy"`

	// Interval is the sleep between gate evaluations for "sleep".
	// Default: 10ms
	Interval time.Duration `yaml:"interval"`

	// MaxWait bounds a single wait; zero waits indefinitely.
	MaxWait time.Duration `yaml:"max_wait"`
}

// HistoryConfig configures the run history store.
type HistoryConfig struct {
	// Enabled controls whether finished loops are recorded.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Driver selects the store backend.
	// Options: "sqlite" (pure Go), "sqlite3" (cgo), "memory"
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// Path is the database file for SQLite drivers.
	// Default: "data/history.db"
	Path string `yaml:"path"`

	// BusyTimeout is how long SQLite waits for locks.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// Retention configures automatic pruning.
	Retention RetentionConfig `yaml:"retention"`
}

// RetentionConfig configures history pruning.
type RetentionConfig struct {
	// MaxAge is how long runs are kept; zero keeps them forever.
	MaxAge time.Duration `yaml:"max_age"`

	// Schedule is the cron expression for automatic pruning.
	// Default: "0 3 * * *" (daily at 3 AM)
	Schedule string `yaml:"schedule"`
}

// ChainConfig describes a named policy chain.
type ChainConfig struct {
	// Name identifies the chain.
	Name string `yaml:"name"`

	// Gate selects how member gates combine.
	// Options: "any" (a chain: one open gate admits), "all" (every gate must admit)
	// Default: "any"
	Gate string `yaml:"gate"`

	// Policies lists the chain members in order.
	Policies []PolicyConfig `yaml:"policies"`
}

// PolicyConfig describes one policy. Only the fields relevant to Type are read.
type PolicyConfig struct {
	// Type is the registered policy type (e.g., "count", "timeout").
	Type string `yaml:"type"`

	// Amount is the iteration bound for "count".
	Amount uint64 `yaml:"amount"`

	// Timeout is the duration bound for "timeout".
	Timeout time.Duration `yaml:"timeout"`

	// Rate is the average iterations per second for "rate".
	Rate float64 `yaml:"rate"`

	// Burst is the bucket capacity for "rate".
	Burst int `yaml:"burst"`

	// Schedule is the cron expression for "schedule".
	Schedule string `yaml:"schedule"`

	// Expression is the CEL completion condition for "expr".
	Expression string `yaml:"expression"`
}
