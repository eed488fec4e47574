// Package testsupport provides shared scaffolding for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"postforge/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields, applies any provided options, and creates the
// directory tree.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.PostsDir = filepath.Join(base, "posts")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.LinkedIn.Email = "user@example.com"
	cfg.LinkedIn.Password = "secret"

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithMinQueueSize overrides the generation top-up threshold.
func WithMinQueueSize(size int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Schedule.MinQueueSize = size
	}
}

// WithMaxPostsPerDay overrides the publishing daily cap.
func WithMaxPostsPerDay(limit int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Schedule.MaxPostsPerDay = limit
	}
}

// WithSelectionPolicy overrides the unit selection policy.
func WithSelectionPolicy(policy string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Schedule.SelectionPolicy = policy
	}
}
