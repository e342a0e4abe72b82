package repository

import (
	"context"

	"github.com/user/scrapekit/internal/entity"
)

// GenerativeModel is the hosted generative-AI service used for extraction.
type GenerativeModel interface {
	// UploadFile uploads a local file and returns it in whatever state the service reports.
	UploadFile(ctx context.Context, path, mimeType string) (*entity.AIFile, error)
	// GetFile refreshes the state of an uploaded file.
	GetFile(ctx context.Context, name string) (*entity.AIFile, error)
	// GenerateJSON prompts the model with the files attached and returns its raw text answer.
	GenerateJSON(ctx context.Context, prompt string, files ...*entity.AIFile) (string, error)
}

// PageInspector summarizes raw HTML without calling any external service.
type PageInspector interface {
	Inspect(html string) (*entity.PageSummary, error)
}

// ProductStore persists parsed product records.
type ProductStore interface {
	Save(ctx context.Context, record *entity.ProductRecord) error
}

// ProductCatalog is a ProductStore that can be queried back.
type ProductCatalog interface {
	ProductStore
	// FindByURL returns nil, nil when no record exists for url.
	FindByURL(ctx context.Context, url string) (*entity.ProductRecord, error)
	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]entity.ProductRecord, error)
}
