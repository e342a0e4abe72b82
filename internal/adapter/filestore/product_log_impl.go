package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/user/scrapekit/internal/entity"
)

type productLine struct {
	URL     string                `json:"url"`
	AIParse *entity.ProductRecord `json:"ai_parse"`
}

// ProductLogImpl appends every parsed record as one JSON line.
type ProductLogImpl struct {
	path string
	mu   sync.Mutex
}

// NewProductLog creates a new instance of ProductLogImpl.
func NewProductLog(path string) *ProductLogImpl {
	return &ProductLogImpl{path: path}
}

// Path returns the log file location.
func (l *ProductLogImpl) Path() string { return l.path }

// Save appends {"url": ..., "ai_parse": {...}} to the log.
func (l *ProductLogImpl) Save(_ context.Context, record *entity.ProductRecord) error {
	line, err := json.Marshal(productLine{URL: record.URL, AIParse: record})
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create product log dir: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open product log: %w", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		f.Close()
		return fmt.Errorf("append product log: %w", err)
	}
	return f.Close()
}
