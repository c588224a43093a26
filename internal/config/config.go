package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	OutputsDir  string `toml:"outputs_dir"`
	CacheDir    string `toml:"cache_dir"`
	TemplateDir string `toml:"template_dir"`
	LogDir      string `toml:"log_dir"`
}

// Analysis contains configuration for the photo analysis stage.
type Analysis struct {
	Concurrency  int  `toml:"concurrency"`
	CacheEnabled bool `toml:"cache_enabled"`
}

// Vision contains connection settings for the vision model API.
type Vision struct {
	Provider       string `toml:"provider"`
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxRetries     int    `toml:"max_retries"`
}

// PDF contains branding configuration for the PDF report.
type PDF struct {
	BusinessName  string `toml:"business_name"`
	BusinessLine1 string `toml:"business_line1"`
	BusinessLine2 string `toml:"business_line2"`
	BannerPath    string `toml:"banner_path"`
}

// Web contains configuration for the HTML gallery output.
type Web struct {
	TemplateName string `toml:"template_name"`
}

// Severity contains extra classification keywords appended to the
// built-in rule table.
type Severity struct {
	ExtraCritical  []string `toml:"extra_critical"`
	ExtraImportant []string `toml:"extra_important"`
}

// Portal contains configuration for the client portal registry.
type Portal struct {
	DBPath        string `toml:"db_path"`
	BaseURL       string `toml:"base_url"`
	TokenTTLHours int    `toml:"token_ttl_hours"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for FieldLens.
//
// Configuration sections by subsystem:
//   - Paths: outputs, cache, template, and log directories
//   - Analysis: worker pool size and the analysis disk cache toggle
//   - Vision: vision model provider, credentials, model, and timeouts
//   - PDF: cover page branding (prepared-by block, banner image)
//   - Web: gallery template selection
//   - Severity: extra keywords appended to the built-in severity table
//   - Portal: portal database, share link base URL, and token TTL
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Analysis Analysis `toml:"analysis"`
	Vision   Vision   `toml:"vision"`
	PDF      PDF      `toml:"pdf"`
	Web      Web      `toml:"web"`
	Severity Severity `toml:"severity"`
	Portal   Portal   `toml:"portal"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/fieldlens/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. A local .env file is
// applied to the process environment first (without overriding variables
// already set) so credential fallbacks behave the same in every entry point.
func Load(path string) (*Config, string, bool, error) {
	_ = godotenv.Load()

	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/fieldlens/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("fieldlens.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a report run writes to.
// TemplateDir is created on a best-effort basis since the gallery renderer
// falls back to a built-in page when no template is installed.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputsDir, c.Paths.CacheDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.TemplateDir) != "" {
		_ = os.MkdirAll(c.Paths.TemplateDir, 0o755)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultCacheDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "fieldlens")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/fieldlens"
	}
	return filepath.Join(home, ".cache", "fieldlens")
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	sample := sampleConfig

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// ShareURL builds the portal link for a view token.
func (c *Config) ShareURL(token string) string {
	return fmt.Sprintf("%s/r/%s", c.Portal.BaseURL, token)
}
