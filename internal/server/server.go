// Package server exposes the HTTP API that wires the parser, the analysis
// client and the history store together.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mikhail/competitor-monitor/internal/config"
	"github.com/mikhail/competitor-monitor/internal/history"
	"github.com/mikhail/competitor-monitor/internal/types"
)

// ServiceName and Version identify the service in /health responses.
const (
	ServiceName = "Competitor Monitor"
	Version     = "1.0.0"
)

// webDir holds the optional static landing page.
const webDir = "web"

// Analyzer is what the handlers need from the analysis client. A nil
// Analyzer means no API credential is configured; every analysis endpoint
// then short-circuits with a structured failure.
type Analyzer interface {
	AnalyzeText(ctx context.Context, text string) (*types.TextAnalysis, error)
	AnalyzeImage(ctx context.Context, data []byte, filename string) (*types.ImageAnalysis, error)
}

// Parser is what the handlers need from the extraction service.
type Parser interface {
	Parse(ctx context.Context, url string) *types.ExtractedContent
}

// Server is the HTTP orchestrator.
type Server struct {
	settings   *config.Settings
	analyzer   Analyzer
	parser     Parser
	history    *history.Store
	httpServer *http.Server
	log        *logrus.Entry
}

// New wires the components into a server. analyzer may be nil when no
// OpenAI key is configured.
func New(settings *config.Settings, analyzer Analyzer, parser Parser, store *history.Store, log *logrus.Logger) *Server {
	s := &Server{
		settings: settings,
		analyzer: analyzer,
		parser:   parser,
		history:  store,
		log:      log.WithField("component", "server"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /analyze_text", s.handleAnalyzeText)
	mux.HandleFunc("POST /analyze_image", s.handleAnalyzeImage)
	mux.HandleFunc("POST /parse_demo", s.handleParseDemo)
	mux.HandleFunc("GET /history", s.handleGetHistory)
	mux.HandleFunc("DELETE /history", s.handleClearHistory)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /favicon.ico", s.handleFavicon)
	mux.HandleFunc("GET /{$}", s.handleRoot)

	if info, err := os.Stat(webDir); err == nil && info.IsDir() {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(webDir))))
	}

	s.httpServer = &http.Server{
		Addr:         settings.Addr(),
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler exposes the routed handler chain, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start listens until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.httpServer.Addr).Info("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-stop:
	}

	s.log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// withCORS mirrors the permissive policy the desktop client and web page
// rely on.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging logs each request with its duration.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start).String(),
		}).Info("request handled")
	})
}

// jsonResponse writes a JSON body. Domain failures are carried in the body
// with a success status; transport-level error codes are reserved for
// genuinely broken requests.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.WithError(err).Error("failed to encode JSON response")
	}
}

// handleRoot serves the static landing page if one is present, else a JSON
// hint pointing at the API.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	index := filepath.Join(webDir, "index.html")
	if _, err := os.Stat(index); err == nil {
		http.ServeFile(w, r, index)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"message": "API is running. See /health for status.",
		"web_ui":  "/static/index.html",
	})
}

func (s *Server) handleFavicon(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// handleHealth reports liveness and whether analysis is configured.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, HealthResponse{
		Status:           "healthy",
		Service:          ServiceName,
		Version:          Version,
		OpenAIConfigured: s.analyzer != nil,
	})
}
