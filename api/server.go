package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pdftext/config"
	"pdftext/file"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// Server represents the API server
type Server struct {
	cfg     *config.Config
	handler http.Handler
	logger  *zap.Logger
}

// NewServer creates a new API server
func NewServer(cfg *config.Config, core *file.Core, logger *zap.Logger) *Server {
	router := mux.NewRouter()
	router.Use(requestIDMiddleware, loggingMiddleware(logger))

	extract := NewExtractHandler(core, cfg.MaxUploadBytes, logger)
	router.HandleFunc("/api/extract", extract.Extract).Methods(http.MethodPost)
	router.HandleFunc("/health", Health).Methods(http.MethodGet)

	allowedOrigins := strings.Split(cfg.CORSAllowedOrigins, ",")
	for i, origin := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(origin)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	})

	return &Server{
		cfg:     cfg,
		handler: c.Handler(router),
		logger:  logger,
	}
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              ":" + strconv.Itoa(s.cfg.AppPort),
		Handler:           s.handler,
		ReadHeaderTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting API server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("Server shutdown error", zap.Error(err))
		return err
	}

	s.logger.Info("Server stopped gracefully")
	return nil
}
