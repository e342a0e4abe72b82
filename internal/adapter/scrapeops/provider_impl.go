package scrapeops

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/user/scrapekit/internal/entity"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultEndpoint is the browser-headers API.
const DefaultEndpoint = "https://headers.scrapeops.io/v1/browser-headers"

// Options configures the provider.
type Options struct {
	APIKey     string
	Endpoint   string
	NumResults int
	// RatePerSecond caps outgoing requests; 0 disables the limiter.
	RatePerSecond float64
	Timeout       time.Duration
}

type headersResponse struct {
	Result []entity.HeaderSet `json:"result"`
}

// ProviderImpl fetches browser header sets from the ScrapeOps API.
type ProviderImpl struct {
	http   *resty.Client
	opts   Options
	logger *zap.Logger
}

// NewProvider creates a new instance of ProviderImpl.
func NewProvider(opts Options, logger *zap.Logger) *ProviderImpl {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.NumResults <= 0 {
		opts.NumResults = 50
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	client := resty.New()
	client.SetTimeout(opts.Timeout)
	if opts.RatePerSecond > 0 {
		limiter := rate.NewLimiter(rate.Limit(opts.RatePerSecond), 1)
		client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return limiter.Wait(req.Context())
		})
	}

	return &ProviderImpl{http: client, opts: opts, logger: logger}
}

// FetchHeaders requests NumResults header sets.
func (p *ProviderImpl) FetchHeaders(ctx context.Context) ([]entity.HeaderSet, error) {
	if p.opts.APIKey == "" {
		return nil, fmt.Errorf("scrapeops: api key is not configured")
	}

	var body headersResponse
	res, err := p.http.R().
		SetContext(ctx).
		SetQueryParam("api_key", p.opts.APIKey).
		SetQueryParam("num_results", strconv.Itoa(p.opts.NumResults)).
		SetResult(&body).
		Get(p.opts.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("scrapeops request: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("scrapeops: unexpected status %s", res.Status())
	}

	p.logger.Info("Fetched headers successfully", zap.Int("count", len(body.Result)))
	return body.Result, nil
}
