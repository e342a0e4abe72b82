package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/user/scrapekit/internal/entity"
)

// legacyTimestamp is the naive ISO-8601 layout written by older cache files.
const legacyTimestamp = "2006-01-02T15:04:05.999999"

// headerFile is the on-disk layout of the header cache.
type headerFile struct {
	Headers   []entity.HeaderSet `json:"headers"`
	Timestamp string             `json:"timestamp"`
}

// HeaderStoreImpl keeps the header snapshot in a single JSON file.
type HeaderStoreImpl struct {
	path string
	mu   sync.Mutex
}

// NewHeaderStore creates a new instance of HeaderStoreImpl.
func NewHeaderStore(path string) *HeaderStoreImpl {
	return &HeaderStoreImpl{path: path}
}

// Load reads the snapshot. A missing file yields an empty snapshot.
func (s *HeaderStoreImpl) Load(_ context.Context) (*entity.HeaderSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return &entity.HeaderSnapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header cache: %w", err)
	}

	var f headerFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode header cache %s: %w", s.path, err)
	}
	snap := &entity.HeaderSnapshot{Headers: f.Headers}
	if f.Timestamp != "" {
		ts, err := parseTimestamp(f.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("decode header cache timestamp %q: %w", f.Timestamp, err)
		}
		snap.FetchedAt = ts
	}
	return snap, nil
}

// Save replaces the file atomically.
func (s *HeaderStoreImpl) Save(_ context.Context, snap *entity.HeaderSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(headerFile{
		Headers:   snap.Headers,
		Timestamp: snap.FetchedAt.Format(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create header cache dir: %w", err)
		}
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp header cache: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write header cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// parseTimestamp accepts RFC 3339 and the naive legacy layout, read as local time.
func parseTimestamp(v string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return ts, nil
	}
	return time.ParseInLocation(legacyTimestamp, v, time.Local)
}
