package testsupport

import (
	"path/filepath"
	"testing"

	"rawsort/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The input root is <base>/incoming and the template writes under <base>/sorted.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Sort.InputDir = filepath.Join(base, "incoming")
	cfgVal.Sort.Template = filepath.Join(base, "sorted", "[year]", "[month]", "[day]", "[filename]")
	cfgVal.Sort.NoPrompts = true
	cfgVal.Watch.DebounceMS = 20
	cfgVal.Manifest.Path = filepath.Join(base, "state", "manifest.db")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithTemplate overrides the destination template on the test config.
func WithTemplate(template string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Sort.Template = template
	}
}

// WithDatePolicy overrides the missing-date policy on the test config.
func WithDatePolicy(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Sort.DatePolicy = policy
	}
}

// WithoutManifest disables the SQLite run record.
func WithoutManifest() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Manifest.Enabled = false
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Sort.InputDir)
}
