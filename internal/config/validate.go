package config

import (
	"fmt"
	"strings"

	"tinydb/internal/logging"
	"tinydb/internal/respath"
)

// Validate checks cfg. It returns an error describing every invalid value
// found, or nil if all values are valid.
func Validate(cfg Config) error {
	var errs []string

	if err := respath.ValidateName(cfg.Name); err != nil {
		errs = append(errs, fmt.Sprintf("name: %v", err))
	}

	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, fmt.Sprintf(
			"log.level: invalid value %q (allowed: %s)",
			cfg.Log.Level, strings.Join(logging.LevelNames, ", ")))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
}
