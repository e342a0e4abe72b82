package repository

import (
	"context"

	"github.com/user/scrapekit/internal/entity"
)

// HeaderStore persists the header snapshot between runs.
type HeaderStore interface {
	// Load returns the stored snapshot, or an empty one if nothing is stored.
	Load(ctx context.Context) (*entity.HeaderSnapshot, error)
	// Save replaces the stored snapshot.
	Save(ctx context.Context, snapshot *entity.HeaderSnapshot) error
}

// HeaderProvider fetches fresh browser header sets from a remote service.
type HeaderProvider interface {
	FetchHeaders(ctx context.Context) ([]entity.HeaderSet, error)
}
