package repository

import (
	"context"

	"github.com/user/scrapekit/internal/entity"
)

// AudioFetcher runs one download-and-transcode job.
type AudioFetcher interface {
	Download(ctx context.Context, job entity.AudioJob) error
}
