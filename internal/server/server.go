// Package server serves a built site snapshot for local preview. Legacy paths
// from the redirect table answer with permanent redirects.
package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-blog/internal/generator"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Server holds the latest build and routes requests against it.
type Server struct {
	snapshot atomic.Pointer[generator.BuildResult]
	logger   interfaces.Logger
	router   chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New builds the router. Until Update is called every content route
// answers 503.
func New(opts ...Option) *Server {
	s := &Server{logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.router = s.routes()
	return s
}

// Update swaps the served snapshot. Safe to call while serving.
func (s *Server) Update(result *generator.BuildResult) {
	if result == nil {
		return
	}
	s.snapshot.Store(result)
	s.logger.Info("server.snapshot.updated", "artifacts", len(result.Artifacts))
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(recoverer(s.logger))
	r.Use(requestLogger(s.logger))

	r.Get("/healthz", s.health)
	r.Get("/api/posts/{slug}", s.post)
	r.Get("/*", s.content)
	return r
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	status := "ok"
	if s.snapshot.Load() == nil {
		status = "starting"
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": status})
}

func (s *Server) post(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot.Load()
	if snap == nil || snap.Index == nil {
		http.Error(w, "site not built yet", http.StatusServiceUnavailable)
		return
	}
	record, ok := snap.Index.Lookup(chi.URLParam(r, "slug"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) content(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot.Load()
	if snap == nil || snap.Index == nil {
		http.Error(w, "site not built yet", http.StatusServiceUnavailable)
		return
	}

	if artifact, ok := snap.Artifact(r.URL.Path); ok {
		w.Header().Set("Content-Type", artifact.ContentType+"; charset=utf-8")
		w.Header().Set("ETag", `"`+artifact.Checksum+`"`)
		if match := r.Header.Get("If-None-Match"); match != "" && strings.Trim(match, `"`) == artifact.Checksum {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(artifact.Content)
		return
	}

	legacy := r.URL.Path
	if len(legacy) > 1 {
		legacy = strings.TrimSuffix(legacy, "/")
	}
	if target, ok := snap.Index.Redirect(legacy); ok {
		s.logger.Debug("server.redirect", "from", legacy, "to", target)
		http.Redirect(w, r, target, http.StatusMovedPermanently)
		return
	}
	http.NotFound(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
