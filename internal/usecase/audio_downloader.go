package usecase

import (
	"context"
	"fmt"
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

// AudioDownloader fetches and transcodes song audio found by a search query.
type AudioDownloader interface {
	Download(ctx context.Context, req entity.AudioRequest) (string, error)
}

// AudioConfig holds the download settings.
type AudioConfig struct {
	Dir        string
	Format     string // audio codec, e.g. "mp3"
	Quality    string // e.g. "192"
	Retries    int
	RetryDelay time.Duration
}

type audioDownloaderUseCase struct {
	headers HeaderCache
	fetcher repository.AudioFetcher
	cfg     AudioConfig
	logger  *zap.Logger
}

// NewAudioDownloader creates an AudioDownloader.
func NewAudioDownloader(headers HeaderCache, fetcher repository.AudioFetcher, cfg AudioConfig, logger *zap.Logger) AudioDownloader {
	if cfg.Retries < 1 {
		cfg.Retries = 1
	}
	if cfg.Format == "" {
		cfg.Format = "mp3"
	}
	if cfg.Quality == "" {
		cfg.Quality = "192"
	}
	return &audioDownloaderUseCase{headers: headers, fetcher: fetcher, cfg: cfg, logger: logger}
}

// Download searches "<title> <artist> audio", takes the first hit and saves it
// as <Dir>/<OutputFile>.<ext>. It returns the output template passed to the downloader.
func (uc *audioDownloaderUseCase) Download(ctx context.Context, req entity.AudioRequest) (string, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Artist = strings.TrimSpace(req.Artist)
	if req.Title == "" {
		return "", fmt.Errorf("%w: song title is required", repository.ErrInvalidInput)
	}

	header, err := uc.headers.Random(ctx)
	if err != nil {
		uc.logger.Error("No headers available, cannot proceed with download", zap.Error(err))
		return "", err
	}

	output, err := uc.outputBase(req)
	if err != nil {
		return "", err
	}
	outputDir := filepath.Dir(output)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		uc.logger.Error("Error creating output directory", zap.String("dir", outputDir), zap.Error(err))
		return "", fmt.Errorf("create output dir: %w", err)
	}

	job := entity.AudioJob{
		Target:         "ytsearch1:" + req.Query(),
		OutputTemplate: output + ".%(ext)s",
		Format:         "bestaudio/best",
		AudioFormat:    uc.cfg.Format,
		AudioQuality:   uc.cfg.Quality,
		Headers:        header.BrowserHeaderLines(),
		GeoLocation:    strings.TrimSpace(req.GeoLocation),
	}

	log := uc.logger.With(zap.String("title", req.Title), zap.String("artist", req.Artist))
	log.Info("Starting download", zap.String("target", job.Target), zap.String("output", job.OutputTemplate))

	cfg := retry.Fixed(uc.cfg.Retries, uc.cfg.RetryDelay)
	cfg.OnRetry = func(attempt int, wait time.Duration, err error) {
		log.Warn("Download attempt failed, retrying", zap.Int("attempt", attempt), zap.Duration("wait", wait), zap.Error(err))
	}
	_, err = retry.Do(ctx, cfg, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, uc.fetcher.Download(ctx, job)
	})
	if err != nil {
		metrics.AudioDownloadsTotal.WithLabelValues("failure").Inc()
		log.Error("Error downloading song", zap.Error(err))
		return "", fmt.Errorf("%w: %s: %w", repository.ErrDownloadFailed, req.Query(), err)
	}

	metrics.AudioDownloadsTotal.WithLabelValues("success").Inc()
	log.Info("Download finished", zap.String("output", job.OutputTemplate))
	return job.OutputTemplate, nil
}

// outputBase returns the output path without extension. An empty name is
// derived from title and artist; names may contain sub-directories.
func (uc *audioDownloaderUseCase) outputBase(req entity.AudioRequest) (string, error) {
	name := strings.TrimSpace(req.OutputFile)
	if name == "" {
		name = utils.SafeFileName(req.Title + " " + req.Artist)
	}
	return resolveInside(uc.cfg.Dir, name)
}
