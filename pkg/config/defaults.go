package config

import "time"

// Default values for configuration fields.
const (
	// Telemetry defaults
	DefaultLoggingLevel       = "info"
	DefaultLoggingFormat      = "text"
	DefaultMetricsPath        = "/metrics"
	DefaultMetricsNamespace   = "cadence"
	DefaultMetricsSubsystem   = "loop"
	DefaultTracingSampler     = "always"
	DefaultTracingSampleRatio = 1.0
	DefaultTracingExporter    = "stdout"
	DefaultTracingServiceName = "cadence"

	// Wait defaults
	DefaultWaitStrategy = "yield"
	DefaultWaitInterval = 10 * time.Millisecond

	// History defaults
	DefaultHistoryDriver            = "sqlite"
	DefaultHistoryPath              = "data/history.db"
	DefaultHistoryBusyTimeout       = 5 * time.Second
	DefaultHistoryRetentionSchedule = "0 3 * * *"

	// Chain defaults
	DefaultChainGate = "any"
)

// DefaultDurationBuckets are histogram buckets for loop duration in seconds.
var DefaultDurationBuckets = []float64{0.001, 0.01, 0.1, 1, 10, 60, 300}

// ApplyDefaults fills zero-valued fields with their defaults.
func ApplyDefaults(cfg *Config) {
	applyTelemetryDefaults(&cfg.Telemetry)
	applyWaitDefaults(&cfg.Wait)
	applyHistoryDefaults(&cfg.History)

	for i := range cfg.Chains {
		if cfg.Chains[i].Gate == "" {
			cfg.Chains[i].Gate = DefaultChainGate
		}
	}
}

func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLoggingFormat
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Subsystem == "" {
		cfg.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(cfg.Metrics.DurationBuckets) == 0 {
		cfg.Metrics.DurationBuckets = append([]float64(nil), DefaultDurationBuckets...)
	}

	if cfg.Tracing.Sampler == "" {
		cfg.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Tracing.SampleRatio == 0 {
		cfg.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if cfg.Tracing.Exporter == "" {
		cfg.Tracing.Exporter = DefaultTracingExporter
	}
	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = DefaultTracingServiceName
	}
}

func applyWaitDefaults(cfg *WaitConfig) {
	if cfg.Strategy == "" {
		cfg.Strategy = DefaultWaitStrategy
	}
	if cfg.Interval == 0 {
		cfg.Interval = DefaultWaitInterval
	}
}

func applyHistoryDefaults(cfg *HistoryConfig) {
	if cfg.Driver == "" {
		cfg.Driver = DefaultHistoryDriver
	}
	if cfg.Path == "" {
		cfg.Path = DefaultHistoryPath
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = DefaultHistoryBusyTimeout
	}
	if cfg.Retention.Schedule == "" {
		cfg.Retention.Schedule = DefaultHistoryRetentionSchedule
	}
}

// NewDefaultConfig returns a configuration with every default applied and
// no chains.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
