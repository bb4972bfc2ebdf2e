package config

import "sync/atomic"

// current is the process-wide configuration installed by Initialize or
// SetConfig.
var current atomic.Pointer[Config]

// Initialize loads path with environment overrides and installs the result
// as the process-wide configuration. Once a configuration is installed,
// later calls keep it. A failed load installs nothing, so Initialize can be
// retried.
func Initialize(path string) error {
	if current.Load() != nil {
		return nil
	}

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		return err
	}
	current.CompareAndSwap(nil, cfg)
	return nil
}

// GetConfig returns the installed configuration, or nil.
func GetConfig() *Config {
	return current.Load()
}

// SetConfig replaces the installed configuration, for example after the
// Watcher reports a valid reload.
func SetConfig(cfg *Config) {
	current.Store(cfg)
}
