package entity

import "time"

// ProductRecord is the structured product data extracted from a saved page.
type ProductRecord struct {
	URL         string    `json:"url"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	BestImage   string    `json:"best_image"`
	ParsedAt    time.Time `json:"-"`
}

// Empty reports whether the model returned no product data.
func (r *ProductRecord) Empty() bool {
	return r.Title == "" && r.Description == "" && r.BestImage == ""
}

// AIFileState mirrors the processing state of an uploaded file.
type AIFileState string

const (
	AIFileStateProcessing AIFileState = "PROCESSING"
	AIFileStateActive     AIFileState = "ACTIVE"
	AIFileStateFailed     AIFileState = "FAILED"
)

// AIFile is a file uploaded to the generative-AI service.
type AIFile struct {
	Name     string
	URI      string
	MIMEType string
	State    AIFileState
}

// PageSummary holds what a quick HTML inspection found before the AI call.
type PageSummary struct {
	Title       string
	Description string
	Image       string
	TextLength  int
	Captcha     bool
}
