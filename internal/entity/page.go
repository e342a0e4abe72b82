package entity

import "time"

// PageRequest asks for a page to be rendered and saved.
type PageRequest struct {
	URL        string
	OutputFile string
	Engine     string // "browser" or "http"; empty selects the default
}

// PageCapture describes a saved page.
type PageCapture struct {
	URL       string        `json:"url"`
	Path      string        `json:"path"`
	Engine    string        `json:"engine"`
	UserAgent string        `json:"user_agent,omitempty"`
	Attempts  int           `json:"attempts"`
	Duration  time.Duration `json:"duration_ns"`
	SavedAt   time.Time     `json:"saved_at"`
}
