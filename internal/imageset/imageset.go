// Package imageset resolves a run's input (a ZIP archive or a directory)
// into the ordered photo set the rest of the pipeline works from.
//
// Ordering is fixed once here: entries are sorted by path and numbered from
// one, and every downstream artifact (archival copies, analysis text, PDF
// pages, gallery entries) keys off that sequence.
package imageset

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoImages reports that the input contained nothing analyzable. The
// pipeline aborts before any analysis call when it sees this.
var ErrNoImages = errors.New("no images found in input")

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".bmp":  {},
	".webp": {},
}

// ImageRef locates one photo in the ordered input set.
type ImageRef struct {
	// Index is the 1-based sequence position used for artifact numbering.
	Index int
	// Path is the absolute location of the readable image file.
	Path string
	// Name is the original file name as it appeared in the input.
	Name string
}

// Collect resolves source into an ordered, extension-filtered photo set.
// ZIP archives are extracted to a temporary directory; the returned cleanup
// removes it and is always non-nil. Directories are read in place.
func Collect(source string) ([]ImageRef, func(), error) {
	cleanup := func() {}

	info, err := os.Stat(source)
	if err != nil {
		return nil, cleanup, fmt.Errorf("stat input: %w", err)
	}

	root := source
	if !info.IsDir() {
		if !strings.EqualFold(filepath.Ext(source), ".zip") {
			return nil, cleanup, fmt.Errorf("input must be a zip archive or a directory: %s", source)
		}
		extracted, remove, err := extractArchive(source)
		if err != nil {
			return nil, cleanup, err
		}
		cleanup = remove
		root = imageRoot(extracted)
	}

	refs, err := listImages(root)
	if err != nil {
		return nil, cleanup, err
	}
	if len(refs) == 0 {
		return nil, cleanup, ErrNoImages
	}
	return refs, cleanup, nil
}

func extractArchive(zipPath string) (string, func(), error) {
	tempDir, err := os.MkdirTemp("", "fieldlens-photos-")
	if err != nil {
		return "", func() {}, fmt.Errorf("create extraction directory: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(tempDir) }

	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		cleanup()
		return "", func() {}, fmt.Errorf("open archive: %w", err)
	}
	defer reader.Close()

	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		target := filepath.Join(tempDir, filepath.FromSlash(entry.Name))
		if !strings.HasPrefix(target, tempDir+string(os.PathSeparator)) {
			cleanup()
			return "", func() {}, fmt.Errorf("archive entry escapes extraction directory: %s", entry.Name)
		}
		if err := writeEntry(entry, target); err != nil {
			cleanup()
			return "", func() {}, err
		}
	}
	return tempDir, cleanup, nil
}

func writeEntry(entry *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create entry directory: %w", err)
	}
	src, err := entry.Open()
	if err != nil {
		return fmt.Errorf("open archive entry %s: %w", entry.Name, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create extracted file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("extract %s: %w", entry.Name, err)
	}
	return nil
}

// conventionalRoots are subfolder names that, when present at the top of an
// extracted archive, scope the scan to the curated photo folder instead of
// stray siblings.
var conventionalRoots = []string{"photos", "images", "pictures"}

func imageRoot(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return dir
	}
	for _, want := range conventionalRoots {
		for _, entry := range entries {
			if entry.IsDir() && strings.EqualFold(entry.Name(), want) {
				return filepath.Join(dir, entry.Name())
			}
		}
	}
	return dir
}

func listImages(root string) ([]ImageRef, error) {
	var refs []ImageRef
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		name := d.Name()
		// Hidden files cover macOS archive junk (.DS_Store, ._resource forks).
		if strings.HasPrefix(name, ".") {
			return nil
		}
		if _, ok := imageExtensions[strings.ToLower(filepath.Ext(name))]; !ok {
			return nil
		}
		refs = append(refs, ImageRef{Path: path, Name: name})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan images: %w", err)
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Path < refs[j].Path })
	for i := range refs {
		refs[i].Index = i + 1
	}
	return refs, nil
}
