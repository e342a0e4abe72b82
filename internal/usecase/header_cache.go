package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/user/scrapekit/internal/entity"
	"github.com/user/scrapekit/internal/repository"
	"github.com/user/scrapekit/pkg/metrics"
	"go.uber.org/zap"
)

// DefaultHeadersMaxAge is how long a fetched header list stays fresh.
const DefaultHeadersMaxAge = 12 * time.Hour

var errEmptyHeaders = errors.New("headers API returned no header sets")

// HeaderCache hands out browser header sets, refetching them when the cached
// list is empty or stale.
type HeaderCache interface {
	Get(ctx context.Context) ([]entity.HeaderSet, error)
	Random(ctx context.Context) (entity.HeaderSet, error)
	Refresh(ctx context.Context) ([]entity.HeaderSet, error)
	Snapshot(ctx context.Context) (*entity.HeaderSnapshot, error)
}

type headerCacheUseCase struct {
	store    repository.HeaderStore
	provider repository.HeaderProvider
	maxAge   time.Duration
	now      func() time.Time
	pick     func(n int) int
	logger   *zap.Logger
}

// HeaderCacheOption customizes a HeaderCache.
type HeaderCacheOption func(*headerCacheUseCase)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) HeaderCacheOption {
	return func(uc *headerCacheUseCase) { uc.now = now }
}

// WithPicker replaces the random index chooser used by Random.
func WithPicker(pick func(n int) int) HeaderCacheOption {
	return func(uc *headerCacheUseCase) { uc.pick = pick }
}

// NewHeaderCache creates a HeaderCache. A non-positive maxAge selects DefaultHeadersMaxAge.
func NewHeaderCache(
	store repository.HeaderStore,
	provider repository.HeaderProvider,
	maxAge time.Duration,
	logger *zap.Logger,
	opts ...HeaderCacheOption,
) HeaderCache {
	if maxAge <= 0 {
		maxAge = DefaultHeadersMaxAge
	}
	uc := &headerCacheUseCase{
		store:    store,
		provider: provider,
		maxAge:   maxAge,
		now:      time.Now,
		pick:     rand.IntN,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Get returns the cached header sets, refreshing them first when the cache is
// empty or older than maxAge. A failed refresh falls back to stale headers.
func (uc *headerCacheUseCase) Get(ctx context.Context) ([]entity.HeaderSet, error) {
	snap := uc.load(ctx)
	if !snap.Stale(uc.now(), uc.maxAge) {
		return snap.Headers, nil
	}

	fresh, err := uc.Refresh(ctx)
	if err == nil {
		return fresh, nil
	}
	if len(snap.Headers) > 0 {
		uc.logger.Warn("Header refresh failed, using stale cache",
			zap.Time("fetched_at", snap.FetchedAt), zap.Int("count", len(snap.Headers)), zap.Error(err))
		return snap.Headers, nil
	}
	return nil, fmt.Errorf("%w: %w", repository.ErrNoHeaders, err)
}

// Random picks one header set uniformly.
func (uc *headerCacheUseCase) Random(ctx context.Context) (entity.HeaderSet, error) {
	headers, err := uc.Get(ctx)
	if err != nil {
		return nil, err
	}
	if len(headers) == 0 {
		return nil, repository.ErrNoHeaders
	}
	return headers[uc.pick(len(headers))], nil
}

// Refresh fetches a new header list and saves it. Empty results are not saved.
func (uc *headerCacheUseCase) Refresh(ctx context.Context) ([]entity.HeaderSet, error) {
	headers, err := uc.provider.FetchHeaders(ctx)
	if err != nil {
		metrics.HeaderFetchesTotal.WithLabelValues("failure").Inc()
		uc.logger.Error("Error fetching headers", zap.Error(err))
		return nil, err
	}
	if len(headers) == 0 {
		metrics.HeaderFetchesTotal.WithLabelValues("empty").Inc()
		uc.logger.Warn("Headers API returned an empty list")
		return nil, errEmptyHeaders
	}
	metrics.HeaderFetchesTotal.WithLabelValues("success").Inc()

	now := uc.now()
	uc.logger.Info("Fetched headers successfully", zap.Int("count", len(headers)), zap.Time("at", now))

	snap := &entity.HeaderSnapshot{Headers: headers, FetchedAt: now}
	if err := uc.store.Save(ctx, snap); err != nil {
		// The fresh list is still usable for this run.
		uc.logger.Error("Failed to save headers", zap.Error(err))
	} else {
		uc.logger.Info("Saved headers to cache", zap.Time("at", now))
	}
	return headers, nil
}

// Snapshot returns the stored snapshot without refreshing it.
func (uc *headerCacheUseCase) Snapshot(ctx context.Context) (*entity.HeaderSnapshot, error) {
	return uc.store.Load(ctx)
}

func (uc *headerCacheUseCase) load(ctx context.Context) *entity.HeaderSnapshot {
	snap, err := uc.store.Load(ctx)
	if err != nil {
		uc.logger.Warn("Failed to load header cache", zap.Error(err))
		return &entity.HeaderSnapshot{}
	}
	if snap == nil {
		return &entity.HeaderSnapshot{}
	}
	return snap
}
