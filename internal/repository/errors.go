package repository

import "errors"

var (
	// ErrInvalidInput is returned for malformed requests such as a bad URL or output name.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoHeaders is returned when no browser header set can be provided.
	ErrNoHeaders = errors.New("no browser headers available")
	// ErrFetchFailed is returned when a page could not be saved after all retries.
	ErrFetchFailed = errors.New("page fetch failed")
	// ErrFileProcessingFailed is returned when the AI service rejects an uploaded file.
	ErrFileProcessingFailed = errors.New("uploaded file processing failed")
	// ErrInvalidPage is returned when saved HTML has no usable content.
	ErrInvalidPage = errors.New("page has no usable content")
	// ErrDownloadFailed is returned when audio could not be downloaded after all retries.
	ErrDownloadFailed = errors.New("audio download failed")
)
