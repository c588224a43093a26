package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"fieldlens/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config rooted in unique temp directories per test.
// The stub vision provider is selected so no test reaches the network.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.OutputsDir = filepath.Join(base, "outputs")
	cfgVal.Paths.CacheDir = filepath.Join(base, "cache")
	cfgVal.Paths.TemplateDir = filepath.Join(base, "templates")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Portal.DBPath = filepath.Join(base, "portal.db")
	cfgVal.Vision.Provider = "stub"
	cfgVal.Analysis.CacheEnabled = false

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithVisionKey selects the openai provider with the given API key.
func WithVisionKey(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Vision.Provider = "openai"
		b.cfg.Vision.APIKey = key
	}
}

// WithCacheEnabled turns the analysis disk cache on.
func WithCacheEnabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Analysis.CacheEnabled = true
	}
}

// WithTemplate installs a gallery template with the given body.
func WithTemplate(name, body string) ConfigOption {
	return func(b *configBuilder) {
		if err := os.MkdirAll(b.cfg.Paths.TemplateDir, 0o755); err != nil {
			b.t.Fatalf("mkdir template dir: %v", err)
		}
		path := filepath.Join(b.cfg.Paths.TemplateDir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			b.t.Fatalf("write template %s: %v", name, err)
		}
		b.cfg.Web.TemplateName = name
	}
}
