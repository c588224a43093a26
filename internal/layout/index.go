package layout

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const (
	indexFileName = "reports_index.json"
	indexLockName = "reports_index.lock"
)

// IndexEntry is one row of the outputs root's report index.
type IndexEntry struct {
	ReportID        string    `json:"report_id"`
	Dir             string    `json:"dir"`
	ClientName      string    `json:"client_name,omitempty"`
	PropertyAddress string    `json:"property_address,omitempty"`
	InspectionDate  string    `json:"inspection_date,omitempty"`
	PhotoCount      int       `json:"photo_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// UpsertIndex records the run in reports_index.json at the outputs
// root, replacing any existing entry with the same report id. The file
// is flock-guarded so concurrent runs against one outputs root do not
// lose entries.
func UpsertIndex(root string, entry IndexEntry) error {
	lock := flock.New(filepath.Join(root, indexLockName))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock report index: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	entries, err := readIndexLocked(root)
	if err != nil {
		return err
	}

	replaced := false
	for i := range entries {
		if entries[i].ReportID == entry.ReportID {
			entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, entry)
	}

	payload, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report index: %w", err)
	}
	path := filepath.Join(root, indexFileName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(payload, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report index: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace report index: %w", err)
	}
	return nil
}

// ReadIndex loads reports_index.json from the outputs root. A missing
// file is an empty index.
func ReadIndex(root string) ([]IndexEntry, error) {
	lock := flock.New(filepath.Join(root, indexLockName))
	if err := lock.RLock(); err != nil {
		return nil, fmt.Errorf("lock report index: %w", err)
	}
	defer func() { _ = lock.Unlock() }()
	return readIndexLocked(root)
}

func readIndexLocked(root string) ([]IndexEntry, error) {
	data, err := os.ReadFile(filepath.Join(root, indexFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read report index: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var entries []IndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse report index: %w", err)
	}
	return entries, nil
}
