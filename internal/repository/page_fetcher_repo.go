package repository

import "context"

// PageFetcher loads a URL with the given request headers and returns its HTML.
type PageFetcher interface {
	// Engine names the fetch mechanism, e.g. "browser" or "http".
	Engine() string
	Fetch(ctx context.Context, url string, headers map[string]string) (string, error)
}
