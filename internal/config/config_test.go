package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"fieldlens/internal/config"
)

func TestLoadDefaultsUseEnvKeyAndExpandPaths(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("XDG_CACHE_HOME", "")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantOutputs := filepath.Join(tempHome, "fieldlens", "reports")
	if cfg.Paths.OutputsDir != wantOutputs {
		t.Fatalf("unexpected outputs dir: got %q want %q", cfg.Paths.OutputsDir, wantOutputs)
	}
	if cfg.Paths.CacheDir != filepath.Join(tempHome, ".cache", "fieldlens") {
		t.Fatalf("unexpected cache dir: %q", cfg.Paths.CacheDir)
	}
	if cfg.Vision.APIKey != "test-key" {
		t.Fatalf("expected vision key from env, got %q", cfg.Vision.APIKey)
	}
	if cfg.Vision.Provider != "openai" {
		t.Fatalf("unexpected vision provider: %q", cfg.Vision.Provider)
	}
	if cfg.Vision.Model != config.Default().Vision.Model {
		t.Fatalf("unexpected vision model: %q", cfg.Vision.Model)
	}
	if cfg.Analysis.Concurrency != 3 {
		t.Fatalf("unexpected analysis concurrency: %d", cfg.Analysis.Concurrency)
	}
	if !cfg.Analysis.CacheEnabled {
		t.Fatal("expected analysis cache enabled by default")
	}
	if cfg.Portal.TokenTTLHours != 720 {
		t.Fatalf("unexpected token ttl: %d", cfg.Portal.TokenTTLHours)
	}
	if cfg.Portal.BaseURL != "http://localhost:8000" {
		t.Fatalf("unexpected portal base url: %q", cfg.Portal.BaseURL)
	}
	if cfg.Logging.Format != "auto" {
		t.Fatalf("unexpected log format: %q", cfg.Logging.Format)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}

	for _, dir := range []string{cfg.Paths.OutputsDir, cfg.Paths.CacheDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "fieldlens.toml")

	type payload struct {
		Analysis struct {
			Concurrency int `toml:"concurrency"`
		} `toml:"analysis"`
		Vision struct {
			Model   string `toml:"model"`
			BaseURL string `toml:"base_url"`
		} `toml:"vision"`
		Severity struct {
			ExtraCritical []string `toml:"extra_critical"`
		} `toml:"severity"`
		Portal struct {
			BaseURL string `toml:"base_url"`
		} `toml:"portal"`
	}
	custom := payload{}
	custom.Analysis.Concurrency = 5
	custom.Vision.Model = "gpt-5-mini"
	custom.Vision.BaseURL = "https://example.com/v1/"
	custom.Severity.ExtraCritical = []string{" Sinkhole ", "sinkhole", "", "radon"}
	custom.Portal.BaseURL = "https://reports.example.com/"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Analysis.Concurrency != 5 {
		t.Fatalf("expected concurrency 5, got %d", cfg.Analysis.Concurrency)
	}
	if cfg.Vision.Model != "gpt-5-mini" {
		t.Fatalf("expected model override, got %q", cfg.Vision.Model)
	}
	if cfg.Vision.BaseURL != "https://example.com/v1" {
		t.Fatalf("expected trimmed base url, got %q", cfg.Vision.BaseURL)
	}
	if cfg.Portal.BaseURL != "https://reports.example.com" {
		t.Fatalf("expected trimmed portal base url, got %q", cfg.Portal.BaseURL)
	}
	want := []string{"sinkhole", "radon"}
	if len(cfg.Severity.ExtraCritical) != len(want) {
		t.Fatalf("unexpected extra critical keywords: %v", cfg.Severity.ExtraCritical)
	}
	for i, keyword := range want {
		if cfg.Severity.ExtraCritical[i] != keyword {
			t.Fatalf("unexpected keyword at %d: got %q want %q", i, cfg.Severity.ExtraCritical[i], keyword)
		}
	}
}

func TestEnvKeyOverridesConfigFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "fieldlens.toml")

	type payload struct {
		Vision struct {
			APIKey string `toml:"api_key"`
		} `toml:"vision"`
	}
	custom := payload{}
	custom.Vision.APIKey = "file-key"

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	t.Setenv("OPENAI_API_KEY", "env-key")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Vision.APIKey != "env-key" {
		t.Errorf("expected vision key from env, got %q", cfg.Vision.APIKey)
	}

	// Without the env var the file value stands.
	t.Setenv("OPENAI_API_KEY", "")
	os.Unsetenv("OPENAI_API_KEY")

	cfg, _, _, err = config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Vision.APIKey != "file-key" {
		t.Errorf("expected vision key from file, got %q", cfg.Vision.APIKey)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "your_openai_api_key_here") {
		t.Fatalf("sample config missing placeholder vision key: %s", contents)
	}

	// Validate it decodes
	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if !strings.Contains(cfg.Paths.OutputsDir, "fieldlens") {
		t.Fatalf("expected outputs dir to mention fieldlens, got %q", cfg.Paths.OutputsDir)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Analysis.Concurrency = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive concurrency")
	}

	cfg = config.Default()
	cfg.Vision.Provider = "watson"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown vision provider")
	}

	cfg = config.Default()
	cfg.Vision.TimeoutSeconds = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive timeout")
	}

	cfg = config.Default()
	cfg.Vision.MaxRetries = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative retries")
	}

	cfg = config.Default()
	cfg.Web.TemplateName = "../gallery.html"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for template name with path separators")
	}

	cfg = config.Default()
	cfg.Portal.TokenTTLHours = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive token ttl")
	}
}

func TestShareURL(t *testing.T) {
	cfg := config.Default()
	cfg.Portal.BaseURL = "https://reports.example.com"
	got := cfg.ShareURL("abc123")
	want := "https://reports.example.com/r/abc123"
	if got != want {
		t.Fatalf("unexpected share url: got %q want %q", got, want)
	}
}
