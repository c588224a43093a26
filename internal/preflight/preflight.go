package preflight

import (
	"context"

	"fieldlens/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Checks without a configured subject are skipped rather than failed.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Outputs directory", cfg.Paths.OutputsDir))
	results = append(results, CheckDirectoryAccess("Cache directory", cfg.Paths.CacheDir))

	if cfg.Vision.Provider != "stub" {
		results = append(results, CheckVisionAPI(ctx, cfg))
	}
	results = append(results, CheckTemplate(cfg))
	results = append(results, CheckPortalDB(cfg))

	return results
}
