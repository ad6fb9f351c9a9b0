// Package testsupport provides shared helpers for package tests: temp-dir
// configs, library stores, and seed records.
package testsupport

import (
	"path/filepath"
	"testing"

	"retitle/internal/config"
)

// NewConfig produces a config seeded with unique temp paths per test.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.Database = filepath.Join(base, "library.db")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	return &cfg
}
