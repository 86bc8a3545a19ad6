package config

import "time"

// SettingsCacheConfig controls how long an availability settings snapshot
// may be served before it is reloaded from MySQL.  The snapshot is kept
// in process and, when a Redis client is available, shared under Key so
// that every instance sees the same freshness window.
type SettingsCacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Key     string
}

// LoadSettingsCacheConfig reads SETTINGS_CACHE_* variables.  Defaults are
// used when variables are not set.
func LoadSettingsCacheConfig() SettingsCacheConfig {
	cfg := SettingsCacheConfig{
		Enabled: envBool("SETTINGS_CACHE_ENABLED", true),
		TTL:     envDur("SETTINGS_CACHE_TTL", 10*time.Minute),
		Key:     envStr("SETTINGS_CACHE_KEY", "settings:availability"),
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 10 * time.Minute
	}
	return cfg
}
