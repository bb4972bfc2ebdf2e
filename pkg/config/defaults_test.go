package config

import (
	"testing"
	"time"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{Chains: []ChainConfig{{Name: "c"}}}
	ApplyDefaults(cfg)

	if cfg.Telemetry.Logging.Level != DefaultLoggingLevel {
		t.Errorf("expected level %q, got %q", DefaultLoggingLevel, cfg.Telemetry.Logging.Level)
	}
	if cfg.Telemetry.Metrics.Namespace != DefaultMetricsNamespace {
		t.Errorf("expected namespace %q, got %q", DefaultMetricsNamespace, cfg.Telemetry.Metrics.Namespace)
	}
	if len(cfg.Telemetry.Metrics.DurationBuckets) != len(DefaultDurationBuckets) {
		t.Errorf("expected %d buckets, got %d", len(DefaultDurationBuckets), len(cfg.Telemetry.Metrics.DurationBuckets))
	}
	if cfg.Telemetry.Tracing.SampleRatio != DefaultTracingSampleRatio {
		t.Errorf("expected ratio %v, got %v", DefaultTracingSampleRatio, cfg.Telemetry.Tracing.SampleRatio)
	}
	if cfg.Wait.Interval != DefaultWaitInterval {
		t.Errorf("expected interval %v, got %v", DefaultWaitInterval, cfg.Wait.Interval)
	}
	if cfg.History.BusyTimeout != DefaultHistoryBusyTimeout {
		t.Errorf("expected busy timeout %v, got %v", DefaultHistoryBusyTimeout, cfg.History.BusyTimeout)
	}
	if cfg.History.Retention.Schedule != DefaultHistoryRetentionSchedule {
		t.Errorf("expected schedule %q, got %q", DefaultHistoryRetentionSchedule, cfg.History.Retention.Schedule)
	}
	if cfg.Chains[0].Gate != DefaultChainGate {
		t.Errorf("expected gate %q, got %q", DefaultChainGate, cfg.Chains[0].Gate)
	}
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Wait:    WaitConfig{Strategy: "spin", Interval: time.Second},
		History: HistoryConfig{Driver: "sqlite3", Path: "runs.db"},
	}
	ApplyDefaults(cfg)

	if cfg.Wait.Strategy != "spin" {
		t.Errorf("expected strategy spin, got %q", cfg.Wait.Strategy)
	}
	if cfg.Wait.Interval != time.Second {
		t.Errorf("expected interval 1s, got %v", cfg.Wait.Interval)
	}
	if cfg.History.Driver != "sqlite3" || cfg.History.Path != "runs.db" {
		t.Errorf("expected sqlite3/runs.db, got %s/%s", cfg.History.Driver, cfg.History.Path)
	}
}

func TestApplyDefaults_BucketsNotShared(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Telemetry.Metrics.DurationBuckets[0] = 42

	if DefaultDurationBuckets[0] == 42 {
		t.Error("expected default buckets to be copied")
	}
}

func TestNewDefaultConfig_IsValid(t *testing.T) {
	if err := Validate(NewDefaultConfig()); err != nil {
		t.Errorf("expected default config to validate, got %v", err)
	}
}
