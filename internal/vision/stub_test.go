package vision

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStubIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	image := filepath.Join(dir, "porch.jpg")
	if err := os.WriteFile(image, []byte("jpeg bytes"), 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}

	stub := NewStub()
	first, err := stub.Analyze(context.Background(), image)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	second, err := stub.Analyze(context.Background(), image)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if first != second {
		t.Fatalf("stub output changed between runs:\n%s\n---\n%s", first, second)
	}
	for _, section := range []string{"Location:", "Observations:", "Potential Issues:", "Recommendations:"} {
		if !strings.Contains(first, section) {
			t.Fatalf("stub output missing %q section:\n%s", section, first)
		}
	}
}
