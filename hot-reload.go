// hot-reload.go: dynamic configuration with Argus integration
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package fixmap

import (
	"sync"
	"time"

	"github.com/agilira/argus"
)

// HotConfig watches a configuration file with Argus and keeps the most recent
// valid Config. It never touches a map: maps have no internal locking, so the
// goroutine that owns a map applies reloaded settings with ApplyTo.
type HotConfig struct {
	watcher *argus.Watcher
	logger  Logger
	mu      sync.RWMutex
	config  Config

	// OnReload is called after configuration is successfully reloaded.
	// This callback is optional and must be fast and non-blocking.
	OnReload func(oldConfig, newConfig Config)
}

// HotConfigOptions configures hot reload behavior.
type HotConfigOptions struct {
	// ConfigPath is the path to the configuration file to watch.
	// Supports JSON, YAML, TOML, HCL, INI, Properties formats.
	ConfigPath string

	// PollInterval is how often to check for configuration changes.
	// Default: 1 second. Minimum: 100ms.
	PollInterval time.Duration

	// OnReload is called after configuration is successfully reloaded.
	OnReload func(oldConfig, newConfig Config)

	// Logger for hot reload operations. Default: NoOpLogger.
	Logger Logger
}

// NewHotConfig creates a watcher for opts.ConfigPath. Call Start to begin
// polling.
//
// Example configuration file (YAML):
//
//	fixmap:
//	  capacity: 4096
//	  index_width: standard
//	  hash: xxh3
//	  load_factor_warning: 0.9
//
// Supported configuration keys:
//   - fixmap.load_factor_warning (float): warning threshold in (0, 1]
//   - fixmap.capacity (int): power of two within the index width limit
//   - fixmap.index_width (string): "standard" or "extended"
//   - fixmap.hash (string): "fnv1a", "xxhash", "xxh3" or "murmur3"
//
// Only load_factor_warning can be applied to a live map. The other keys fix
// the layout of a map and take effect when a map is built from GetConfig.
func NewHotConfig(opts HotConfigOptions) (*HotConfig, error) {
	if opts.ConfigPath == "" {
		return nil, NewErrInvalidConfig("config_path", "")
	}

	if opts.PollInterval == 0 {
		opts.PollInterval = 1 * time.Second
	} else if opts.PollInterval < 100*time.Millisecond {
		opts.PollInterval = 100 * time.Millisecond
	}

	if opts.Logger == nil {
		opts.Logger = NoOpLogger{}
	}

	hc := &HotConfig{
		logger:   opts.Logger,
		OnReload: opts.OnReload,
		config:   DefaultConfig(),
	}

	argusConfig := argus.Config{
		PollInterval: opts.PollInterval,
	}

	watcher, err := argus.UniversalConfigWatcherWithConfig(opts.ConfigPath, hc.handleConfigChange, argusConfig)
	if err != nil {
		return nil, err
	}
	hc.watcher = watcher

	return hc, nil
}

// Start begins watching the configuration file for changes.
func (hc *HotConfig) Start() error {
	// Argus returns ARGUS_WATCHER_BUSY on a second Start
	if hc.watcher.IsRunning() {
		return nil
	}
	return hc.watcher.Start()
}

// Stop stops watching the configuration file.
func (hc *HotConfig) Stop() error {
	return hc.watcher.Stop()
}

// GetConfig returns the current configuration (thread-safe).
func (hc *HotConfig) GetConfig() Config {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return hc.config
}

// ApplyTo pushes the live-tunable settings of the current configuration into
// r. It must run on the goroutine that owns r.
func (hc *HotConfig) ApplyTo(r Reconfigurable) error {
	cfg := hc.GetConfig()
	return r.SetLoadFactorWarning(cfg.LoadFactorWarning)
}

// handleConfigChange is called by Argus when configuration changes.
func (hc *HotConfig) handleConfigChange(configData map[string]interface{}) {
	hc.mu.Lock()
	oldConfig := hc.config
	newConfig := hc.parseConfig(configData)
	hc.config = newConfig
	hc.mu.Unlock()

	hc.reportChanges(oldConfig, newConfig)

	if hc.OnReload != nil {
		hc.OnReload(oldConfig, newConfig)
	}
}

// parsePositiveInt extracts a positive integer from interface{} value.
// Supports both int and float64 types (YAML/JSON may vary).
func parsePositiveInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		if v > 0 {
			return v, true
		}
	case int64:
		if v > 0 {
			return int(v), true
		}
	case float64:
		if v > 0 && v == float64(int(v)) {
			return int(v), true
		}
	}
	return 0, false
}

// parseRatio extracts a float64 in (0, 1].
func parseRatio(value interface{}) (float64, bool) {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case int:
		f = float64(v)
	default:
		return 0, false
	}
	return f, validLoadFactor(f)
}

// parseConfig extracts map configuration from Argus config data. Invalid
// values are logged and keep their defaults.
func (hc *HotConfig) parseConfig(data map[string]interface{}) Config {
	config := DefaultConfig()
	config.Logger = hc.logger

	// Argus might nest the section or provide it directly
	section, ok := data["fixmap"].(map[string]interface{})
	if !ok {
		section = data
	}

	if raw, present := section["load_factor_warning"]; present {
		if ratio, ok := parseRatio(raw); ok {
			config.LoadFactorWarning = ratio
		} else {
			hc.logger.Warn("fixmap: ignoring invalid load_factor_warning", "value", raw)
		}
	}

	if raw, present := section["index_width"]; present {
		name, isString := raw.(string)
		if width, ok := ParseIndexWidth(name); isString && ok {
			config.IndexWidth = width
		} else {
			hc.logger.Warn("fixmap: ignoring invalid index_width", "value", raw)
		}
	}

	if raw, present := section["hash"]; present {
		name, isString := raw.(string)
		if algo, ok := ParseHashAlgorithm(name); isString && ok {
			config.HashAlgorithm = algo
		} else {
			hc.logger.Warn("fixmap: ignoring invalid hash", "value", raw)
		}
	}

	// Capacity is checked against the width parsed above
	if raw, present := section["capacity"]; present {
		if capacity, ok := parsePositiveInt(raw); ok && validCapacity(capacity, config.IndexWidth) {
			config.Capacity = capacity
		} else {
			hc.logger.Warn("fixmap: ignoring invalid capacity",
				"value", raw,
				"index_width", config.IndexWidth.String())
		}
	}

	return config
}

// reportChanges logs settings that only a rebuilt map can pick up.
func (hc *HotConfig) reportChanges(old, new Config) {
	if old.Capacity != new.Capacity || old.IndexWidth != new.IndexWidth || old.HashAlgorithm != new.HashAlgorithm {
		hc.logger.Info("fixmap: layout settings changed, rebuild maps to apply",
			"capacity", new.Capacity,
			"index_width", new.IndexWidth.String(),
			"hash", new.HashAlgorithm.String())
	}
	if old.LoadFactorWarning != new.LoadFactorWarning {
		hc.logger.Debug("fixmap: load factor warning reloaded",
			"old", old.LoadFactorWarning,
			"new", new.LoadFactorWarning)
	}
}
