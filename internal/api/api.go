// Package api implements the scamguard HTTP API server.
package api

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Veraticus/scamguard/internal/service"
)

// maxBodyBytes bounds the size of a request body.
const maxBodyBytes = 1 << 20

// Server is the scamguard HTTP API server.
type Server struct {
	analyzer service.ReloadableAnalyzer
	metrics  *Metrics
	mux      *http.ServeMux
	server   *http.Server
	now      func() time.Time
	addr     string
}

// New creates a new API server that serves analyzer on addr.
func New(addr string, analyzer service.ReloadableAnalyzer) *Server {
	s := &Server{
		addr:     addr,
		analyzer: analyzer,
		metrics:  NewMetrics(),
		now:      time.Now,
	}
	s.mux = http.NewServeMux()
	s.registerRoutes()
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	s.metrics.SetModelLoaded(analyzer.Statistics().ModelLoaded)
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/stats", s.handleStats)
	s.mux.HandleFunc("POST /api/model/reload", s.handleReload)
	s.mux.Handle("GET /metrics", s.metrics.Handler())
}

// EnableTLS makes ListenAndServe serve HTTPS with cert.
func (s *Server) EnableTLS(cert tls.Certificate) {
	s.server.TLSConfig = &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}
}

// ListenAndServe starts the HTTP server and blocks until ctx is cancelled or
// the server fails. On cancellation it shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if s.server.TLSConfig != nil {
			slog.Info("scamguard API server listening", "addr", s.addr, "scheme", "https")
			errCh <- s.server.ListenAndServeTLS("", "")
			return
		}
		slog.Info("scamguard API server listening", "addr", s.addr, "scheme", "http")
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		slog.Info("Shutting down API server")
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	}
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// readJSON decodes a JSON request body into v.
func readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if r.Body == nil {
		return fmt.Errorf("empty request body")
	}
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return dec.Decode(v)
}
