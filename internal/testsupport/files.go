package testsupport

import (
	"archive/zip"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

// WriteImage writes a real encoded image at path; the encoding follows
// the extension (.png saves PNG, anything else JPEG).
func WriteImage(t testing.TB, path string, width, height int) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	img := imaging.New(width, height, color.NRGBA{R: 120, G: 140, B: 160, A: 255})
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("save image %s: %v", path, err)
	}
}

// WriteImageZip builds a ZIP archive of real encoded images, one entry
// per name.
func WriteImageZip(t testing.TB, zipPath string, names ...string) {
	t.Helper()

	stage := t.TempDir()
	out, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("create zip %s: %v", zipPath, err)
	}
	defer out.Close()

	w := zip.NewWriter(out)
	for _, name := range names {
		src := filepath.Join(stage, filepath.Base(name))
		WriteImage(t, src, 64, 48)
		data, err := os.ReadFile(src)
		if err != nil {
			t.Fatalf("read staged image: %v", err)
		}
		entry, err := w.Create(name)
		if err != nil {
			t.Fatalf("zip entry %s: %v", name, err)
		}
		if _, err := entry.Write(data); err != nil {
			t.Fatalf("write zip entry %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Fatalf("close zip file: %v", err)
	}
}
