package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/user/scrapekit/internal/delivery/http/request"
	"github.com/user/scrapekit/internal/delivery/http/response"
	"github.com/user/scrapekit/internal/entity"
	"github.com/user/scrapekit/internal/repository"
	"github.com/user/scrapekit/internal/usecase"
	"go.uber.org/zap"
)

type Handler struct {
	headers usecase.HeaderCache
	pages   usecase.PageSaver
	parser  usecase.ProductParser // nil when no AI key is configured
	audio   usecase.AudioDownloader
	logger  *zap.Logger
}

func NewHandler(
	headers usecase.HeaderCache,
	pages usecase.PageSaver,
	parser usecase.ProductParser,
	audio usecase.AudioDownloader,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		headers: headers,
		pages:   pages,
		parser:  parser,
		audio:   audio,
		logger:  logger,
	}
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleGetHeaders returns the cached header list. ?refresh=true forces a refetch.
func (h *Handler) HandleGetHeaders(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("refresh") == "true" {
		if _, err := h.headers.Refresh(r.Context()); err != nil {
			h.logger.Error("Failed to refresh headers", zap.Error(err))
			h.writeJSONError(w, "Could not refresh headers", http.StatusBadGateway)
			return
		}
	}

	snap, err := h.headers.Snapshot(r.Context())
	if err != nil {
		h.logger.Error("Failed to load header cache", zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := response.HeadersResponse{Count: len(snap.Headers), Headers: snap.Headers}
	if resp.Headers == nil {
		resp.Headers = []entity.HeaderSet{}
	}
	if !snap.FetchedAt.IsZero() {
		resp.FetchedAt = &snap.FetchedAt
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleSavePage(w http.ResponseWriter, r *http.Request) {
	var req request.SavePageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if _, err := url.ParseRequestURI(req.URL); err != nil {
		h.writeJSONError(w, "Invalid URL format", http.StatusBadRequest)
		return
	}
	if req.Parse && h.parser == nil {
		h.writeJSONError(w, "AI parsing is not configured", http.StatusBadRequest)
		return
	}

	capture, err := h.pages.Save(r.Context(), entity.PageRequest{
		URL:        req.URL,
		OutputFile: req.OutputFile,
		Engine:     req.Engine,
	})
	if err != nil {
		h.writeUseCaseError(w, "Failed to save page", err)
		return
	}

	resp := response.SavePageResponse{Status: "success", Capture: capture}
	status := http.StatusCreated
	if req.Parse {
		product, err := h.parser.Parse(r.Context(), req.URL, capture.Path)
		if err != nil {
			h.logger.Warn("Page saved but AI parse failed", zap.String("url", req.URL), zap.Error(err))
			resp.Status = "partial"
			resp.ParseError = err.Error()
			status = parseFailureStatus(product, err)
		}
		resp.Product = product
	}
	h.writeJSON(w, status, resp)
}

// parseFailureStatus picks the status of a save whose AI parse failed. The
// page is on disk either way, so the body always carries the capture.
// A record that was produced but not stored is still a 201.
func parseFailureStatus(product *entity.ProductRecord, err error) int {
	switch {
	case errors.Is(err, repository.ErrInvalidPage):
		return http.StatusUnprocessableEntity
	case product != nil:
		return http.StatusCreated
	default:
		return http.StatusBadGateway
	}
}

func (h *Handler) HandleDownloadAudio(w http.ResponseWriter, r *http.Request) {
	var req request.DownloadAudioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	output, err := h.audio.Download(r.Context(), entity.AudioRequest{
		Title:       req.Title,
		Artist:      req.Artist,
		OutputFile:  req.OutputFile,
		GeoLocation: req.Geo,
	})
	if err != nil {
		h.writeUseCaseError(w, "Failed to download audio", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, response.DownloadAudioResponse{Status: "success", Output: output})
}

// writeUseCaseError maps sentinel errors to status codes.
func (h *Handler) writeUseCaseError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, repository.ErrInvalidInput):
		h.writeJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, repository.ErrNoHeaders):
		h.writeJSONError(w, err.Error(), http.StatusServiceUnavailable)
	case errors.Is(err, repository.ErrFetchFailed),
		errors.Is(err, repository.ErrDownloadFailed):
		h.logger.Error(msg, zap.Error(err))
		h.writeJSONError(w, err.Error(), http.StatusBadGateway)
	default:
		h.logger.Error(msg, zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
