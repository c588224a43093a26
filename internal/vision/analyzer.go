package vision

import (
	"context"
	"fmt"
	"log/slog"

	"fieldlens/internal/config"
	"fieldlens/internal/logging"
)

// Analyzer turns one photo into free-text inspection notes. Calls may take
// arbitrarily long and may fail; the fan-out executor handles both.
type Analyzer interface {
	Analyze(ctx context.Context, imagePath string) (string, error)
}

// New builds the analyzer the configuration asks for, wrapped in the disk
// cache when analysis.cache_enabled is set.
func New(cfg *config.Config, logger *slog.Logger) (Analyzer, error) {
	log := logging.WithComponent(logger, "vision")

	var analyzer Analyzer
	switch cfg.Vision.Provider {
	case "stub":
		analyzer = NewStub()
	case "openai":
		client, err := NewClient(Config{
			APIKey:         cfg.Vision.APIKey,
			BaseURL:        cfg.Vision.BaseURL,
			Model:          cfg.Vision.Model,
			TimeoutSeconds: cfg.Vision.TimeoutSeconds,
			MaxRetries:     cfg.Vision.MaxRetries,
		})
		if err != nil {
			return nil, err
		}
		analyzer = client
	default:
		return nil, fmt.Errorf("unknown vision provider %q", cfg.Vision.Provider)
	}

	if cfg.Analysis.CacheEnabled {
		analyzer = WithCache(analyzer, cfg.Paths.CacheDir, cfg.Vision.Model, log)
	}
	return analyzer, nil
}
