package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeVision(); err != nil {
		return err
	}
	if err := c.normalizePDF(); err != nil {
		return err
	}
	c.normalizeWeb()
	c.normalizeSeverity()
	if err := c.normalizePortal(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputsDir) == "" {
		c.Paths.OutputsDir = defaultOutputsDir
	}
	if c.Paths.OutputsDir, err = expandPath(c.Paths.OutputsDir); err != nil {
		return fmt.Errorf("paths.outputs_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir()
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.TemplateDir) == "" {
		c.Paths.TemplateDir = defaultTemplateDir
	}
	if c.Paths.TemplateDir, err = expandPath(c.Paths.TemplateDir); err != nil {
		return fmt.Errorf("paths.template_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeVision() error {
	c.Vision.Provider = strings.ToLower(strings.TrimSpace(c.Vision.Provider))
	if c.Vision.Provider == "" {
		c.Vision.Provider = defaultVisionProvider
	}
	c.Vision.APIKey = strings.TrimSpace(c.Vision.APIKey)
	// OPENAI_API_KEY always overrides the file value.
	if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok && strings.TrimSpace(value) != "" {
		c.Vision.APIKey = strings.TrimSpace(value)
	}
	c.Vision.BaseURL = strings.TrimRight(strings.TrimSpace(c.Vision.BaseURL), "/")
	if c.Vision.BaseURL == "" {
		c.Vision.BaseURL = defaultVisionBaseURL
	}
	c.Vision.Model = strings.TrimSpace(c.Vision.Model)
	if c.Vision.Model == "" {
		if value, ok := os.LookupEnv("VISION_MODEL"); ok {
			c.Vision.Model = strings.TrimSpace(value)
		}
	}
	if c.Vision.Model == "" {
		c.Vision.Model = defaultVisionModel
	}
	return nil
}

func (c *Config) normalizePDF() error {
	c.PDF.BusinessName = strings.TrimSpace(c.PDF.BusinessName)
	c.PDF.BusinessLine1 = strings.TrimSpace(c.PDF.BusinessLine1)
	c.PDF.BusinessLine2 = strings.TrimSpace(c.PDF.BusinessLine2)
	c.PDF.BannerPath = strings.TrimSpace(c.PDF.BannerPath)
	if c.PDF.BannerPath != "" {
		var err error
		if c.PDF.BannerPath, err = expandPath(c.PDF.BannerPath); err != nil {
			return fmt.Errorf("pdf.banner_path: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeWeb() {
	c.Web.TemplateName = strings.TrimSpace(c.Web.TemplateName)
	if c.Web.TemplateName == "" {
		c.Web.TemplateName = defaultWebTemplateName
	}
}

func (c *Config) normalizeSeverity() {
	c.Severity.ExtraCritical = normalizeKeywords(c.Severity.ExtraCritical)
	c.Severity.ExtraImportant = normalizeKeywords(c.Severity.ExtraImportant)
}

func normalizeKeywords(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	keywords := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		normalized := strings.ToLower(strings.TrimSpace(value))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		keywords = append(keywords, normalized)
	}
	if len(keywords) == 0 {
		return nil
	}
	return keywords
}

func (c *Config) normalizePortal() error {
	var err error
	if strings.TrimSpace(c.Portal.DBPath) == "" {
		c.Portal.DBPath = defaultPortalDBPath
	}
	if c.Portal.DBPath, err = expandPath(c.Portal.DBPath); err != nil {
		return fmt.Errorf("portal.db_path: %w", err)
	}
	c.Portal.BaseURL = strings.TrimRight(strings.TrimSpace(c.Portal.BaseURL), "/")
	if c.Portal.BaseURL == "" {
		c.Portal.BaseURL = defaultPortalBaseURL
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "auto":
		c.Logging.Format = "auto"
	case "console", "json":
	default:
		c.Logging.Format = "auto"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
