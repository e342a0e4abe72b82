package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/user/scrapekit/internal/delivery/http/handler"
	"github.com/user/scrapekit/internal/delivery/http/router"
	"go.uber.org/zap"
)

var flagPort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(flagConfig)
		if err != nil {
			return err
		}
		defer a.Close()

		port := a.cfg.ServerPort
		if flagPort != "" {
			port = flagPort
		}

		parser, err := a.productParser(cmd.Context())
		if err != nil {
			return err
		}
		if parser == nil {
			a.logger.Warn("GEMINI_API_KEY is not set, AI parsing is disabled")
		}

		h := handler.NewHandler(a.headers, a.pageSaver(), parser, a.audioDownloader(), a.logger)
		server := &http.Server{
			Addr:              ":" + port,
			Handler:           router.New(h, a.logger),
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       120 * time.Second,
		}
		return serve(cmd.Context(), server, a.logger)
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagPort, "port", "", "listen port (default from SERVER_PORT)")
}

// serve runs server until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, server *http.Server, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("could not start server", zap.Error(err))
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		return err
	}
	logger.Info("server exiting")
	return nil
}
