package usecase

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/user/scrapekit/internal/entity"
	"github.com/user/scrapekit/internal/repository"
	"github.com/user/scrapekit/pkg/metrics"
	"github.com/user/scrapekit/pkg/retry"
	"github.com/user/scrapekit/pkg/utils"
	"go.uber.org/zap"
)

// PageSaver renders pages and saves their HTML to disk.
type PageSaver interface {
	Save(ctx context.Context, req entity.PageRequest) (*entity.PageCapture, error)
}

// PageSaverConfig holds the page saving settings.
type PageSaverConfig struct {
	HTMLDir       string
	DefaultEngine string
	Retries       int
	RetryDelay    time.Duration
}

type pageSaverUseCase struct {
	headers  HeaderCache
	fetchers map[string]repository.PageFetcher
	cfg      PageSaverConfig
	logger   *zap.Logger
}

// NewPageSaver creates a PageSaver using the given fetchers, keyed by their engine name.
func NewPageSaver(headers HeaderCache, cfg PageSaverConfig, logger *zap.Logger, fetchers ...repository.PageFetcher) PageSaver {
	byEngine := make(map[string]repository.PageFetcher, len(fetchers))
	for _, f := range fetchers {
		byEngine[f.Engine()] = f
	}
	if cfg.Retries < 1 {
		cfg.Retries = 1
	}
	return &pageSaverUseCase{
		headers:  headers,
		fetchers: byEngine,
		cfg:      cfg,
		logger:   logger,
	}
}

// Save fetches req.URL with a random header set and writes the HTML to
// <HTMLDir>/<OutputFile>, retrying up to Retries times.
func (uc *pageSaverUseCase) Save(ctx context.Context, req entity.PageRequest) (*entity.PageCapture, error) {
	if _, err := url.ParseRequestURI(req.URL); err != nil {
		return nil, fmt.Errorf("%w: url %q: %w", repository.ErrInvalidInput, req.URL, err)
	}
	outputPath, err := uc.outputPath(req)
	if err != nil {
		return nil, err
	}

	engine := req.Engine
	if engine == "" {
		engine = uc.cfg.DefaultEngine
	}
	fetcher, ok := uc.fetchers[engine]
	if !ok {
		return nil, fmt.Errorf("%w: unknown fetch engine %q", repository.ErrInvalidInput, engine)
	}

	header, err := uc.headers.Random(ctx)
	if err != nil {
		return nil, err
	}
	requestHeaders := header.BrowserHeaders()

	log := uc.logger.With(zap.String("url", req.URL), zap.String("engine", engine))
	start := time.Now()
	attempts := 0

	_, err = retry.Do(ctx, retry.Fixed(uc.cfg.Retries, uc.cfg.RetryDelay), func(ctx context.Context) (struct{}, error) {
		attempts++
		html, err := fetcher.Fetch(ctx, req.URL, requestHeaders)
		if err == nil {
			err = writeHTML(outputPath, html)
		}
		if err != nil {
			metrics.PageCapturesTotal.WithLabelValues(engine, "failure").Inc()
			log.Warn("Page fetch attempt failed", zap.Int("attempt", attempts), zap.Error(err))
			return struct{}{}, err
		}
		return struct{}{}, nil
	})
	duration := time.Since(start)
	metrics.PageCaptureDuration.WithLabelValues(engine).Observe(duration.Seconds())

	if err != nil {
		log.Error("All retries failed, giving up", zap.Int("attempts", attempts), zap.Error(err))
		return nil, fmt.Errorf("%w: %s: %w", repository.ErrFetchFailed, req.URL, err)
	}

	metrics.PageCapturesTotal.WithLabelValues(engine, "success").Inc()
	log.Info("HTML saved", zap.String("path", outputPath), zap.Int("attempts", attempts), zap.Duration("duration", duration))

	return &entity.PageCapture{
		URL:       req.URL,
		Path:      outputPath,
		Engine:    engine,
		UserAgent: header.UserAgent(),
		Attempts:  attempts,
		Duration:  duration,
		SavedAt:   time.Now(),
	}, nil
}

// outputPath resolves the target file inside HTMLDir. An empty name is
// derived from the URL hash.
func (uc *pageSaverUseCase) outputPath(req entity.PageRequest) (string, error) {
	name := strings.TrimSpace(req.OutputFile)
	if name == "" {
		name = utils.HashURL(req.URL)[:16] + ".html"
	}
	return resolveInside(uc.cfg.HTMLDir, name)
}

// resolveInside joins name onto dir. The result must name an entry strictly
// below dir; absolute names, dir itself and anything above it are rejected.
func resolveInside(dir, name string) (string, error) {
	base, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	target := filepath.Join(base, name)
	rel, err := filepath.Rel(base, target)
	if err != nil || filepath.IsAbs(name) || rel == "." || rel == ".." ||
		strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: output file %q must stay inside %s", repository.ErrInvalidInput, name, dir)
	}
	return target, nil
}

func writeHTML(path, html string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return fmt.Errorf("write html: %w", err)
	}
	return nil
}
