package vision

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"fieldlens/internal/logging"
)

// cachingAnalyzer wraps an Analyzer with a content-addressed disk cache.
// Keys cover the image bytes, the model, and the prompt version, so editing
// either invalidates old entries. Cache failures are never fatal: unreadable
// entries are misses, failed writes are logged and dropped.
type cachingAnalyzer struct {
	inner  Analyzer
	dir    string
	model  string
	logger *slog.Logger
}

// WithCache wraps analyzer with the disk cache rooted at dir.
func WithCache(analyzer Analyzer, dir, model string, logger *slog.Logger) Analyzer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &cachingAnalyzer{inner: analyzer, dir: dir, model: model, logger: logger}
}

func (c *cachingAnalyzer) Analyze(ctx context.Context, imagePath string) (string, error) {
	key, keyErr := c.cacheKey(imagePath)
	if keyErr == nil {
		if text, ok := c.get(key); ok {
			c.logger.Debug("analysis cache hit", logging.FieldImage, filepath.Base(imagePath))
			return text, nil
		}
	}

	text, err := c.inner.Analyze(ctx, imagePath)
	if err != nil {
		return "", err
	}
	// Empty responses are not cached so a flaky run can recover later.
	if keyErr == nil && strings.TrimSpace(text) != "" {
		c.put(key, text)
	}
	return text, nil
}

func (c *cachingAnalyzer) cacheKey(imagePath string) (string, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("read image for cache key: %w", err)
	}
	h := sha256.New()
	h.Write(data)
	h.Write([]byte(c.model))
	h.Write([]byte(promptVersion))
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (c *cachingAnalyzer) get(key string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(c.dir, key+".txt"))
	if err != nil {
		return "", false
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", false
	}
	return text, true
}

func (c *cachingAnalyzer) put(key, text string) {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		c.logger.Warn("analysis cache unavailable", logging.Error(err))
		return
	}
	path := filepath.Join(c.dir, key+".txt")
	if err := os.WriteFile(path, []byte(strings.TrimSpace(text)+"\n"), 0o644); err != nil {
		c.logger.Warn("analysis cache write failed", logging.Error(err))
	}
}
