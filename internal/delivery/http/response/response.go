package response

import (
	"time"

	"github.com/user/scrapekit/internal/entity"
)

// HeadersResponse describes the cached header list.
type HeadersResponse struct {
	Count     int                `json:"count"`
	FetchedAt *time.Time         `json:"fetched_at,omitempty"`
	Headers   []entity.HeaderSet `json:"headers"`
}

// SavePageResponse is returned after a page was saved.
type SavePageResponse struct {
	Status  string                `json:"status"`
	Capture *entity.PageCapture   `json:"capture"`
	Product *entity.ProductRecord `json:"product,omitempty"`
	// ParseError is set when the page was saved but extraction failed.
	ParseError string `json:"parse_error,omitempty"`
}

// DownloadAudioResponse is returned after a download finished.
type DownloadAudioResponse struct {
	Status string `json:"status"`
	Output string `json:"output"`
}
