package chromedp_fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Engine is the name this fetcher registers under.
const Engine = "browser"

// Options configures the headless browser.
type Options struct {
	PageLoadTimeout time.Duration
	ScrollStep      int
	ScrollWait      time.Duration
	// ExecPath overrides the Chrome binary lookup.
	ExecPath string
}

// ChromedpFetcher renders pages in headless Chrome and returns the final DOM.
type ChromedpFetcher struct {
	opts   Options
	logger *zap.Logger
}

// NewChromedpFetcher creates a new fetcher implementation using chromedp.
func NewChromedpFetcher(opts Options, logger *zap.Logger) *ChromedpFetcher {
	if opts.PageLoadTimeout <= 0 {
		opts.PageLoadTimeout = 30 * time.Second
	}
	if opts.ScrollStep <= 0 {
		opts.ScrollStep = 1000
	}
	if opts.ScrollWait <= 0 {
		opts.ScrollWait = time.Second
	}
	return &ChromedpFetcher{opts: opts, logger: logger}
}

func (c *ChromedpFetcher) Engine() string { return Engine }

// Fetch starts a fresh browser with the given User-Agent, sends the other
// headers on every request, scrolls once to trigger lazy content and returns
// the page HTML.
func (c *ChromedpFetcher) Fetch(ctx context.Context, url string, headers map[string]string) (string, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, c.allocatorOptions(headers["User-Agent"])...)
	defer cancelAlloc()

	taskCtx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(c.logger.Sugar().Debugf))
	defer cancel()

	taskCtx, cancel = context.WithTimeout(taskCtx, c.opts.PageLoadTimeout)
	defer cancel()

	extra := network.Headers{}
	for k, v := range headers {
		if k == "User-Agent" {
			continue
		}
		extra[k] = v
	}

	var html string
	var scrolled bool
	start := time.Now()
	err := chromedp.Run(taskCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(extra),
		chromedp.Navigate(url),
		chromedp.Evaluate(fmt.Sprintf("window.scrollBy(0, %d); true", c.opts.ScrollStep), &scrolled),
		chromedp.Sleep(c.opts.ScrollWait),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", url, err)
	}

	c.logger.Debug("Page rendered", zap.String("url", url), zap.Duration("took", time.Since(start)), zap.Int("bytes", len(html)))
	return html, nil
}

func (c *ChromedpFetcher) allocatorOptions(userAgent string) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if userAgent != "" {
		opts = append(opts, chromedp.UserAgent(userAgent))
	}
	if c.opts.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.opts.ExecPath))
	}
	return opts
}
