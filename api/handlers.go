package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"time"

	"pdftext/file"

	"github.com/google/uuid"
	"github.com/samber/mo"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

type contextKey string

const requestIDKey contextKey = "request_id"

// ExtractHandler serves PDF text extraction over HTTP
type ExtractHandler struct {
	core           *file.Core
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewExtractHandler creates a new extraction handler
func NewExtractHandler(core *file.Core, maxUploadBytes int64, logger *zap.Logger) *ExtractHandler {
	return &ExtractHandler{
		core:           core,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// Extract accepts either a multipart upload with a "file" part holding raw
// PDF bytes, or a request body holding the base64 encoded PDF. Extraction
// failures are still answered with 200 and success=false.
func (h *ExtractHandler) Extract(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(zap.String("request_id", RequestID(r.Context())))
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	var res mo.Result[string]

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		f, header, err := r.FormFile("file")
		if err != nil {
			h.rejectBody(w, logger, err)
			return
		}
		defer f.Close()

		logger.Info("File received", zap.String("filename", header.Filename), zap.Int64("bytes", header.Size))
		res = h.core.ExtractReader(f)
	} else {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			h.rejectBody(w, logger, err)
			return
		}
		if len(bytes.TrimSpace(body)) == 0 {
			h.rejectBody(w, logger, http.ErrMissingFile)
			return
		}

		logger.Info("Payload received", zap.Int("bytes", len(body)))
		res = h.core.Extract(string(body))
	}

	if res.IsError() {
		logger.Warn("PDF extraction failed", zap.Error(res.Error()))
	} else {
		logger.Info("PDF extracted", zap.Int("chars", len(res.OrEmpty())))
	}

	writeJSON(w, http.StatusOK, file.NewResult(res))
}

func (h *ExtractHandler) rejectBody(w http.ResponseWriter, logger *zap.Logger, err error) {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		logger.Warn("Upload too large", zap.Int64("limit", maxErr.Limit))
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "File too large"})
	case errors.Is(err, http.ErrMissingFile):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No file provided"})
	default:
		logger.Warn("Invalid upload", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid upload: " + err.Error()})
	}
}

// Health reports liveness
func Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// RequestID returns the request ID stored by the request ID middleware.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func loggingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info("Request handled",
				zap.String("request_id", RequestID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)))
		})
	}
}
