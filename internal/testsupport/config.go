package testsupport

import (
	"path/filepath"
	"testing"

	"stacks/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.CatalogPath = filepath.Join(base, "catalog", "titles.json")
	cfgVal.Paths.ThumbsDir = filepath.Join(base, "thumbs")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")

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

// WithFolderTokens overrides the folder identifier token count on the test config.
func WithFolderTokens(count int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Dedupe.FolderTokens = count
	}
}

// WithCatalogTokens overrides the catalog identifier token count on the test config.
func WithCatalogTokens(count int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Dedupe.CatalogTokens = count
	}
}

// WithWarnGap overrides the alignment warning threshold on the test config.
func WithWarnGap(gap float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Alignment.WarnGap = gap
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.ThumbsDir)
}
