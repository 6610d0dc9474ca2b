package watermark

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// fileRecord is the on-disk shape: {"last_sent": "<RFC3339>"}.
type fileRecord struct {
	LastSent string `json:"last_sent"`
}

// FileStore keeps one JSON file per website under a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating watermark dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// LastSent implements Store. A missing file means "never sent".
func (s *FileStore) LastSent(_ context.Context, websiteID string) (time.Time, error) {
	data, err := os.ReadFile(s.path(websiteID))
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("reading watermark: %w", err)
	}

	var rec fileRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return time.Time{}, fmt.Errorf("parsing watermark: %w", err)
	}
	t, err := time.Parse(time.RFC3339, rec.LastSent)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing watermark timestamp: %w", err)
	}
	return t, nil
}

// SetLastSent implements Store. The write is atomic via rename so a crash
// mid-write cannot corrupt the record.
func (s *FileStore) SetLastSent(_ context.Context, websiteID string, t time.Time) error {
	data, err := json.Marshal(fileRecord{LastSent: t.Format(time.RFC3339)})
	if err != nil {
		return fmt.Errorf("encoding watermark: %w", err)
	}

	path := s.path(websiteID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing watermark: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("committing watermark: %w", err)
	}
	return nil
}

// path sanitizes the website id into a filename.
func (s *FileStore) path(websiteID string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, websiteID)
	return filepath.Join(s.dir, name+".json")
}
