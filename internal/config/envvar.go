package config

import "os"

// Environment variable names for tinydb configuration.
const (
	EnvDir      = "TINYDB_DIR"       // Base directory for store files
	EnvName     = "TINYDB_NAME"      // Store name
	EnvJSON     = "TINYDB_JSON"      // Enable JSON output ("1" or "true")
	EnvLogLevel = "TINYDB_LOG_LEVEL" // debug, info, warn or error
)

// ApplyEnvOverrides overrides cfg with any tinydb environment variables
// that are set. The overrides are not persisted.
func ApplyEnvOverrides(cfg *Config) {
	if dir := os.Getenv(EnvDir); dir != "" {
		cfg.Dir = dir
	}
	if name := os.Getenv(EnvName); name != "" {
		cfg.Name = name
	}
	if v := os.Getenv(EnvJSON); v == "1" || v == "true" {
		cfg.JSON = true
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.Log.Level = level
	}
}
