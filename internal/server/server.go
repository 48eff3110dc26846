package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/raysh454/visitor-counter/internal/app"
	"github.com/raysh454/visitor-counter/internal/dom"
	"github.com/raysh454/visitor-counter/internal/logging"
)

// Server serves the configured page with the visitor count filled in. Every
// request to "/" is one page load.
type Server struct {
	cfg    Config
	router chi.Router
	logger logging.Logger
}

func NewServer(cfg Config) (*Server, error) {
	if cfg.Widget == nil {
		return nil, errors.New("server requires a counter widget")
	}
	if cfg.PagePath == "" {
		return nil, errors.New("server requires a page path")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewStdoutLogger("Server")
	}

	s := &Server{
		cfg:    cfg,
		router: chi.NewRouter(),
		logger: logger,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := s.router

	r.Use(s.corsMiddleware)

	r.Get("/", s.handlePage)
	r.Get("/healthz", s.handleHealth)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Max-Age", "86400")

		next.ServeHTTP(w, r)
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.logger.Info("http_request",
		logging.Field{Key: "method", Value: r.Method},
		logging.Field{Key: "path", Value: r.URL.Path})

	s.router.ServeHTTP(w, r)
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s,
		ReadHeaderTimeout: 15 * time.Second,
	}
}

// handlePage renders the page once per request. A failed count still serves
// the page as written.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	raw, err := os.ReadFile(s.cfg.PagePath)
	if err != nil {
		s.logger.Warn("reading page", logging.Field{Key: "path", Value: s.cfg.PagePath}, logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, "page unavailable")
		return
	}

	target, err := dom.NewDocumentTarget(bytes.NewReader(raw), s.cfg.Widget.Config().ElementID)
	if err != nil {
		s.logger.Warn("parsing page", logging.Field{Key: "error", Value: err.Error()})
		writeHTML(w, raw)
		return
	}

	loader := app.NewLoader(s.cfg.Widget, s.logger)
	if out := loader.OnReady(r.Context(), target); out.Failed() || !out.Applied {
		writeHTML(w, raw)
		return
	}

	page, err := target.HTML()
	if err != nil {
		s.logger.Warn("serializing page", logging.Field{Key: "error", Value: err.Error()})
		writeHTML(w, raw)
		return
	}
	writeHTML(w, []byte(page))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- response helpers ---

func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", fmt.Sprint(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
