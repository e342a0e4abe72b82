package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/user/scrapekit/internal/entity"
	"github.com/user/scrapekit/internal/repository"
)

type memHeaderStore struct {
	mu      sync.Mutex
	snap    *entity.HeaderSnapshot
	loadErr error
	saveErr error
	saves   int
}

func (s *memHeaderStore) Load(context.Context) (*entity.HeaderSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.snap == nil {
		return &entity.HeaderSnapshot{}, nil
	}
	cp := *s.snap
	return &cp, nil
}

func (s *memHeaderStore) Save(_ context.Context, snap *entity.HeaderSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	cp := *snap
	s.snap = &cp
	return nil
}

type fakeProvider struct {
	headers []entity.HeaderSet
	err     error
	calls   int
}

func (p *fakeProvider) FetchHeaders(context.Context) ([]entity.HeaderSet, error) {
	p.calls++
	return p.headers, p.err
}

// staticHeaders is a HeaderCache that always returns the same sets.
type staticHeaders struct {
	headers []entity.HeaderSet
}

func (s staticHeaders) Get(context.Context) ([]entity.HeaderSet, error) {
	if len(s.headers) == 0 {
		return nil, fmt.Errorf("%w: header API unreachable", repository.ErrNoHeaders)
	}
	return s.headers, nil
}

func (s staticHeaders) Random(ctx context.Context) (entity.HeaderSet, error) {
	h, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	return h[0], nil
}

func (s staticHeaders) Refresh(ctx context.Context) ([]entity.HeaderSet, error) { return s.Get(ctx) }

func (s staticHeaders) Snapshot(context.Context) (*entity.HeaderSnapshot, error) {
	return &entity.HeaderSnapshot{Headers: s.headers}, nil
}

type memProductStore struct {
	records []*entity.ProductRecord
	err     error
}

func (s *memProductStore) Save(_ context.Context, r *entity.ProductRecord) error {
	if s.err != nil {
		return s.err
	}
	cp := *r
	s.records = append(s.records, &cp)
	return nil
}
