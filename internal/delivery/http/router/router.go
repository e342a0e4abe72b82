package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/user/scrapekit/internal/delivery/http/handler"
	"github.com/user/scrapekit/internal/delivery/http/middleware"
	"go.uber.org/zap"
)

// RequestTimeout bounds a single API call; page rendering with retries and
// audio downloads can take minutes.
const RequestTimeout = 10 * time.Minute

func New(h *handler.Handler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics)
	r.Use(chimw.Recoverer)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/api/health", h.HandleHealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Use(chimw.Timeout(RequestTimeout))
		r.Get("/headers", h.HandleGetHeaders)
		r.Post("/pages", h.HandleSavePage)
		r.Post("/audio", h.HandleDownloadAudio)
	})

	return r
}
