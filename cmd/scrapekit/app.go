package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/user/scrapekit/internal/adapter/chromedp_fetcher"
	"github.com/user/scrapekit/internal/adapter/filestore"
	"github.com/user/scrapekit/internal/adapter/gemini"
	"github.com/user/scrapekit/internal/adapter/htmlinspect"
	"github.com/user/scrapekit/internal/adapter/http_fetcher"
	"github.com/user/scrapekit/internal/adapter/postgres"
	"github.com/user/scrapekit/internal/adapter/redis"
	"github.com/user/scrapekit/internal/adapter/scrapeops"
	"github.com/user/scrapekit/internal/adapter/sqlite"
	"github.com/user/scrapekit/internal/adapter/ytdlp"
	"github.com/user/scrapekit/internal/repository"
	"github.com/user/scrapekit/internal/usecase"
	"github.com/user/scrapekit/pkg/config"
	"github.com/user/scrapekit/pkg/logger"
	"go.uber.org/zap"
)

const redisPingTimeout = 5 * time.Second

// app holds the configuration and the lazily built components of one invocation.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	headers usecase.HeaderCache
	closers []func()
}

func newApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("could not load config: %w", err)
	}

	log, syncLog, err := logger.New(logger.Options{Dir: cfg.LogDir, Level: cfg.LogLevel, Stderr: cfg.LogStderr})
	if err != nil {
		return nil, fmt.Errorf("could not create logger: %w", err)
	}
	a := &app{cfg: cfg, logger: log, closers: []func(){syncLog}}

	store, err := a.headerStore()
	if err != nil {
		a.Close()
		return nil, err
	}
	provider := scrapeops.NewProvider(scrapeops.Options{
		APIKey:        cfg.ScrapeOpsAPIKey,
		Endpoint:      cfg.ScrapeOpsEndpoint,
		NumResults:    cfg.ScrapeOpsNumHeaders,
		RatePerSecond: cfg.ScrapeOpsRateLimit,
	}, log)
	a.headers = usecase.NewHeaderCache(store, provider, cfg.HeadersMaxAge, log)
	return a, nil
}

func (a *app) headerStore() (repository.HeaderStore, error) {
	switch a.cfg.HeadersCacheBackend {
	case "redis":
		client := goredis.NewClient(&goredis.Options{
			Addr:     a.cfg.RedisAddr,
			Password: a.cfg.RedisPassword,
			DB:       a.cfg.RedisDB,
		})
		a.closers = append(a.closers, func() { client.Close() })
		store := redis.NewHeaderStore(client, a.cfg.RedisHeadersKey)

		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			a.logger.Error("Unable to connect to Redis", zap.String("addr", a.cfg.RedisAddr), zap.Error(err))
			return nil, fmt.Errorf("redis %s: %w", a.cfg.RedisAddr, err)
		}
		a.logger.Info("Using redis header cache", zap.String("addr", a.cfg.RedisAddr), zap.String("key", a.cfg.RedisHeadersKey))
		return store, nil
	default:
		return filestore.NewHeaderStore(a.cfg.HeadersCachePath), nil
	}
}

func (a *app) pageSaver() usecase.PageSaver {
	browser := chromedp_fetcher.NewChromedpFetcher(chromedp_fetcher.Options{
		PageLoadTimeout: a.cfg.PageLoadTimeout,
		ScrollStep:      a.cfg.ScrollStep,
		ScrollWait:      a.cfg.ScrollWait,
	}, a.logger)
	plain := http_fetcher.NewHTTPFetcher(http_fetcher.Options{
		Timeout:          a.cfg.PageLoadTimeout,
		CloudflareBypass: a.cfg.CloudflareBypass,
	}, a.logger)

	return usecase.NewPageSaver(a.headers, usecase.PageSaverConfig{
		HTMLDir:       a.cfg.HTMLDir,
		DefaultEngine: a.cfg.FetchEngine,
		Retries:       a.cfg.FetchRetries,
		RetryDelay:    a.cfg.FetchRetryDelay,
	}, a.logger, browser, plain)
}

// productParser returns nil, nil when no AI key is configured.
func (a *app) productParser(ctx context.Context) (usecase.ProductParser, error) {
	if a.cfg.GeminiAPIKey == "" {
		return nil, nil
	}
	model, err := gemini.NewModel(ctx, gemini.Options{
		APIKey:  a.cfg.GeminiAPIKey,
		Model:   a.cfg.GeminiModel,
		Timeout: a.cfg.AIRequestTimeout,
	})
	if err != nil {
		return nil, err
	}

	productLog := filestore.NewProductLog(filepath.Join(a.cfg.HTMLDir, a.cfg.AILogFile))
	a.logger.Debug("Appending parsed records", zap.String("path", productLog.Path()))
	stores := []repository.ProductStore{productLog}
	db, err := a.productDB(ctx)
	if err != nil {
		return nil, err
	}
	if db != nil {
		stores = append(stores, db)
	}

	rc := usecase.DefaultProductRetry()
	rc.Attempts = a.cfg.AIRetries
	return usecase.NewProductParser(model, htmlinspect.New(), usecase.ProductParserConfig{
		PollInterval: a.cfg.AIPollInterval,
		Retry:        rc,
	}, a.logger, stores...), nil
}

// productDB opens the record store named by DATABASE_URL, if any.
func (a *app) productDB(ctx context.Context) (repository.ProductCatalog, error) {
	kind, target := storeKind(a.cfg.DatabaseURL)
	switch kind {
	case "postgres":
		pool, err := postgres.Connect(ctx, target)
		if err != nil {
			return nil, err
		}
		repo := postgres.NewProductRepo(pool)
		a.closers = append(a.closers, func() { repo.Close() })
		a.logger.Info("PostgreSQL connection pool established")
		return repo, nil
	case "sqlite":
		repo, err := sqlite.Open(target)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { repo.Close() })
		a.logger.Info("SQLite product store opened", zap.String("path", target))
		return repo, nil
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported DATABASE_URL %q", a.cfg.DatabaseURL)
	}
}

func (a *app) audioDownloader() usecase.AudioDownloader {
	return usecase.NewAudioDownloader(a.headers, ytdlp.NewFetcher(a.cfg.YtdlpPath, a.logger), usecase.AudioConfig{
		Dir:        a.cfg.AudioDir,
		Format:     a.cfg.AudioFormat,
		Quality:    a.cfg.AudioQuality,
		Retries:    a.cfg.AudioRetries,
		RetryDelay: a.cfg.AudioRetryDelay,
	}, a.logger)
}

// Close releases resources in reverse order of creation.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// storeKind classifies a DATABASE_URL: postgres URLs are passed to pgx as is,
// sqlite targets are reduced to a file path.
func storeKind(databaseURL string) (kind, target string) {
	u := strings.TrimSpace(databaseURL)
	switch {
	case u == "":
		return "", ""
	case strings.HasPrefix(u, "postgres://"), strings.HasPrefix(u, "postgresql://"):
		return "postgres", u
	case strings.HasPrefix(u, "sqlite://"):
		return "sqlite", strings.TrimPrefix(u, "sqlite://")
	case strings.HasPrefix(u, "sqlite:"):
		return "sqlite", strings.TrimPrefix(u, "sqlite:")
	case strings.HasSuffix(u, ".db"), strings.HasSuffix(u, ".sqlite"):
		return "sqlite", u
	default:
		return "unsupported", u
	}
}
