package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks invariants that would otherwise surface as confusing
// runtime failures.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Paths.Database) == "" {
		problems = append(problems, "paths.database must not be empty")
	}

	switch c.Logging.Format {
	case "", "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format: unsupported value %q", c.Logging.Format))
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("logging.level: unsupported value %q", c.Logging.Level))
	}

	if c.Fix.MinTitleLength < 1 {
		problems = append(problems, "fix.min_title_length must be at least 1")
	}
	if c.Fix.BatchSize < 1 {
		problems = append(problems, "fix.batch_size must be at least 1")
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}
