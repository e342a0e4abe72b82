package http_fetcher

import (
	"context"
	"fmt"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Engine is the name this fetcher registers under.
const Engine = "http"

// Options configures the plain HTTP fetcher.
type Options struct {
	Timeout          time.Duration
	CloudflareBypass bool
}

// HTTPFetcher downloads raw HTML without running scripts.
type HTTPFetcher struct {
	http   *resty.Client
	logger *zap.Logger
}

// NewHTTPFetcher creates a new fetcher implementation using resty.
func NewHTTPFetcher(opts Options, logger *zap.Logger) *HTTPFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	client := resty.New()
	client.SetTimeout(opts.Timeout)
	if opts.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}
	return &HTTPFetcher{http: client, logger: logger}
}

func (f *HTTPFetcher) Engine() string { return Engine }

// Fetch GETs url with the given headers and returns the body. Non-2xx
// responses are errors.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string, headers map[string]string) (string, error) {
	res, err := f.http.R().
		SetContext(ctx).
		SetHeaders(headers).
		Get(url)
	if err != nil {
		return "", fmt.Errorf("get %s: %w", url, err)
	}
	if res.IsError() {
		return "", fmt.Errorf("get %s: unexpected status %s", url, res.Status())
	}

	f.logger.Debug("Page downloaded", zap.String("url", url), zap.Duration("took", res.Time()), zap.Int("bytes", len(res.Body())))
	return res.String(), nil
}
