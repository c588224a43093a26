// Package imageproc resizes and re-encodes inspection photos for the
// surfaces that consume them: the analyzer payload, the PDF embed, and the
// web gallery copy. Each surface has a fixed long-side cap and encoding
// quality; images already within bounds are never upscaled.
package imageproc

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	// Photo sets may contain WebP; imaging decodes it once the format is
	// registered with the image package.
	_ "golang.org/x/image/webp"
)

const (
	analysisMaxEdge = 1600
	analysisQuality = 88
	pdfMaxEdge      = 1200
	pdfQuality      = 80
	webMaxEdge      = 1920
	webQuality      = 85
)

// AnalysisPayload returns a downscaled copy of the photo for model analysis,
// along with its MIME type. PNG sources stay PNG; everything else is
// re-encoded as JPEG. The copy is capped at 1600 px on the long side so
// upload time stays bounded while the archived original keeps full quality.
func AnalysisPayload(path string) ([]byte, string, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("open image: %w", err)
	}
	img = imaging.Fit(img, analysisMaxEdge, analysisMaxEdge, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if strings.EqualFold(filepath.Ext(path), ".png") {
		if err := imaging.Encode(buf, img, imaging.PNG); err != nil {
			return nil, "", fmt.Errorf("encode analysis copy: %w", err)
		}
		return buf.Bytes(), "image/png", nil
	}
	if err := imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(analysisQuality)); err != nil {
		return nil, "", fmt.Errorf("encode analysis copy: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}

// PDFJPEG returns a print-optimized JPEG of the photo for embedding in the
// PDF report: long side capped at 1200 px, quality 80, always JPEG
// regardless of the source format.
func PDFJPEG(path string) ([]byte, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	img = imaging.Fit(img, pdfMaxEdge, pdfMaxEdge, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(pdfQuality)); err != nil {
		return nil, fmt.Errorf("encode pdf copy: %w", err)
	}
	return buf.Bytes(), nil
}

// WebExt returns the file extension the web gallery copy of the named photo
// uses. PNG sources stay PNG; every other format is re-encoded as JPEG.
func WebExt(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".png") {
		return ".png"
	}
	return ".jpg"
}

// WriteWebCopy writes a browser-sized copy of src to dst, capped at 1920 px
// on the long side. The encoding follows the dst extension: .png saves PNG,
// anything else saves JPEG at quality 85.
func WriteWebCopy(src, dst string) error {
	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	img = imaging.Fit(img, webMaxEdge, webMaxEdge, imaging.Lanczos)

	if strings.EqualFold(filepath.Ext(dst), ".png") {
		if err := imaging.Save(img, dst); err != nil {
			return fmt.Errorf("save web copy: %w", err)
		}
		return nil
	}
	if err := imaging.Save(img, dst, imaging.JPEGQuality(webQuality)); err != nil {
		return fmt.Errorf("save web copy: %w", err)
	}
	return nil
}
