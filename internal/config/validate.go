package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
//
// The vision API key is deliberately not required here: commands that never
// call the analyzer (reports list, portal revoke) must load cleanly without
// one. The vision client reports a missing key when it is constructed.
func (c *Config) Validate() error {
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	if err := c.validateVision(); err != nil {
		return err
	}
	if err := c.validateWeb(); err != nil {
		return err
	}
	if err := c.validatePortal(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	if c.Analysis.Concurrency < 1 {
		return errors.New("analysis.concurrency must be positive")
	}
	return nil
}

func (c *Config) validateVision() error {
	switch c.Vision.Provider {
	case "openai", "stub":
	default:
		return fmt.Errorf("vision.provider must be \"openai\" or \"stub\", got %q", c.Vision.Provider)
	}
	if strings.TrimSpace(c.Vision.BaseURL) == "" {
		return errors.New("vision.base_url must be set")
	}
	if c.Vision.TimeoutSeconds <= 0 {
		return errors.New("vision.timeout_seconds must be positive")
	}
	if c.Vision.MaxRetries < 0 {
		return errors.New("vision.max_retries must be >= 0")
	}
	return nil
}

func (c *Config) validateWeb() error {
	if strings.ContainsAny(c.Web.TemplateName, `/\`) {
		return errors.New("web.template_name must be a bare file name")
	}
	return nil
}

func (c *Config) validatePortal() error {
	if strings.TrimSpace(c.Portal.BaseURL) == "" {
		return errors.New("portal.base_url must be set")
	}
	if c.Portal.TokenTTLHours <= 0 {
		return errors.New("portal.token_ttl_hours must be positive")
	}
	return nil
}
