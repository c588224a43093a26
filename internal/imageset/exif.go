package imageset

import (
	"os"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// EarliestTakenAt returns the oldest capture timestamp recorded in the set's
// EXIF data. ok is false when no photo carries a readable timestamp, which
// is common for screenshots and stripped exports.
func EarliestTakenAt(refs []ImageRef) (earliest time.Time, ok bool) {
	for _, ref := range refs {
		taken, err := takenAt(ref.Path)
		if err != nil {
			continue
		}
		if !ok || taken.Before(earliest) {
			earliest = taken
			ok = true
		}
	}
	return earliest, ok
}

func takenAt(path string) (time.Time, error) {
	file, err := os.Open(path)
	if err != nil {
		return time.Time{}, err
	}
	defer file.Close()

	exifData, err := exif.Decode(file)
	if err != nil {
		return time.Time{}, err
	}
	// DateTime prefers DateTimeOriginal and falls back to the modified tag.
	return exifData.DateTime()
}
