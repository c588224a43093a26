// Package layout owns the on-disk shape of a finished report: a
// timestamped directory under the outputs root holding renamed source
// photos, per-photo analysis transcripts, and the pdf/web artifact
// subdirectories. Directory names never collide and existing runs are
// never overwritten.
package layout

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fieldlens/internal/fileutil"
	"fieldlens/internal/imageproc"
	"fieldlens/internal/textutil"
)

// maxCollisionSuffix bounds the rename loop when a directory name is
// already taken. Hitting it means the outputs root is being hammered
// with identical hints inside one second, which is an operator problem.
const maxCollisionSuffix = 100

// ErrExists reports that every candidate directory name was taken.
var ErrExists = errors.New("report directory name exhausted")

// Layout is the directory skeleton for one report run.
type Layout struct {
	Root        string
	Dir         string
	DirName     string
	PhotosDir   string
	AnalysisDir string
	PDFDir      string
	WebDir      string
}

// Create builds the report directory under root using the hint and
// timestamp, appending _2, _3, ... when the name is taken. All artifact
// subdirectories exist on return.
func Create(root, hint string, now time.Time) (*Layout, error) {
	base := strings.ToLower(textutil.SanitizeStem(hint)) + "_" + now.Format("20060102_150405")

	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create outputs root: %w", err)
	}

	var dir string
	var dirName string
	for suffix := 1; ; suffix++ {
		if suffix > maxCollisionSuffix {
			return nil, fmt.Errorf("%w: %q under %s", ErrExists, base, root)
		}
		dirName = base
		if suffix > 1 {
			dirName = fmt.Sprintf("%s_%d", base, suffix)
		}
		dir = filepath.Join(root, dirName)
		err := os.Mkdir(dir, 0o755)
		if err == nil {
			break
		}
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		return nil, fmt.Errorf("create report directory: %w", err)
	}

	l := &Layout{
		Root:        root,
		Dir:         dir,
		DirName:     dirName,
		PhotosDir:   filepath.Join(dir, "photos"),
		AnalysisDir: filepath.Join(dir, "analysis"),
		PDFDir:      filepath.Join(dir, "pdf"),
		WebDir:      filepath.Join(dir, "web"),
	}
	for _, sub := range []string{l.PhotosDir, l.AnalysisDir, l.PDFDir, l.WebDir, l.WebPhotosDir()} {
		if err := os.MkdirAll(sub, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", filepath.Base(sub), err)
		}
	}
	return l, nil
}

// WebPhotosDir is where browser-sized photo copies live, relative to
// the gallery page as "photos/".
func (l *Layout) WebPhotosDir() string {
	return filepath.Join(l.WebDir, "photos")
}

// PhotoName returns the archived name for a source photo, ordinal first
// so directory listings follow report order. The stem is lowercased and
// underscored the same way report directories are.
func PhotoName(index int, original string) string {
	return fmt.Sprintf("%03d_%s%s", index, sanitizedStem(original), strings.ToLower(filepath.Ext(original)))
}

func sanitizedStem(name string) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return strings.ToLower(textutil.SanitizeStem(stem))
}

// WebPhotoName returns the gallery copy's file name. The extension
// follows the web transcode rules: PNG stays PNG, everything else
// becomes JPEG.
func WebPhotoName(index int, original string) string {
	return fmt.Sprintf("photo_%03d%s", index, imageproc.WebExt(original))
}

// PlacePhoto copies the original photo into photos/ under its archived
// name, verifying the copy, and returns the destination path.
func (l *Layout) PlacePhoto(index int, srcPath string) (string, error) {
	dst := filepath.Join(l.PhotosDir, PhotoName(index, filepath.Base(srcPath)))
	if err := fileutil.CopyFileVerified(srcPath, dst); err != nil {
		return "", fmt.Errorf("archive photo %s: %w", filepath.Base(srcPath), err)
	}
	return dst, nil
}

// PlaceWebPhoto writes the browser-sized copy into web/photos/ and
// returns its path relative to the gallery page.
func (l *Layout) PlaceWebPhoto(index int, srcPath string) (string, error) {
	name := WebPhotoName(index, filepath.Base(srcPath))
	dst := filepath.Join(l.WebPhotosDir(), name)
	if err := imageproc.WriteWebCopy(srcPath, dst); err != nil {
		return "", fmt.Errorf("web copy %s: %w", filepath.Base(srcPath), err)
	}
	return filepath.ToSlash(filepath.Join("photos", name)), nil
}

// WriteAnalysis stores the raw model transcript for one photo and
// returns the path written.
func (l *Layout) WriteAnalysis(index int, original, text string) (string, error) {
	path := filepath.Join(l.AnalysisDir, fmt.Sprintf("%03d_%s_analysis.txt", index, sanitizedStem(original)))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write analysis transcript: %w", err)
	}
	return path, nil
}

// PDFPath is the report PDF's location for a given document stem.
func (l *Layout) PDFPath(stem string) string {
	return filepath.Join(l.PDFDir, strings.ToLower(textutil.SanitizeStem(stem))+".pdf")
}

// JSONPath is the machine-readable report's top-level location.
func (l *Layout) JSONPath() string {
	return filepath.Join(l.Dir, "report_data.json")
}

// WebJSONPath is the gallery's copy of the machine-readable report.
func (l *Layout) WebJSONPath() string {
	return filepath.Join(l.WebDir, "report.json")
}

// HTMLPath is the gallery page's location.
func (l *Layout) HTMLPath() string {
	return filepath.Join(l.WebDir, "index.html")
}

// SummaryPath is the human-readable run summary's location.
func (l *Layout) SummaryPath() string {
	return filepath.Join(l.Dir, "summary.txt")
}
