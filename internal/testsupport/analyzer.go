package testsupport

import (
	"context"
	"fmt"
	"path/filepath"
)

// ScriptedAnalyzer returns canned analysis text keyed by image file
// name; names mapped to an error fail that call. Unscripted images get
// a minimal all-clear response.
type ScriptedAnalyzer struct {
	Responses map[string]string
	Failures  map[string]error
}

// Analyze implements vision.Analyzer.
func (s *ScriptedAnalyzer) Analyze(_ context.Context, imagePath string) (string, error) {
	name := filepath.Base(imagePath)
	if err, ok := s.Failures[name]; ok {
		return "", err
	}
	if text, ok := s.Responses[name]; ok {
		return text, nil
	}
	return fmt.Sprintf("Location: Unspecified\nObservations:\n- Photo %s reviewed\nPotential Issues:\n- None\nRecommendations:\n- None\n", name), nil
}
