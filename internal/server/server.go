// Package server exposes a local repository read-only over HTTP so build
// tools can use it as a Maven remote.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/gradlerepo/pkg/repository"
)

const shutdownTimeout = 5 * time.Second

// Server serves the files below a repository base.
type Server struct {
	resolver *repository.Resolver
	logger   *log.Logger
	router   chi.Router
}

// New creates a Server for resolver's base. A nil logger uses log.Default().
func New(resolver *repository.Resolver, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{resolver: resolver, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Get("/healthz", s.handleHealth)
	r.Get("/artifacts/{version}", s.handleArtifacts)
	r.Get("/*", s.handleFile)
	r.Head("/*", s.handleFile)
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Serving repository", "addr", addr, "base", s.resolver.Base())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

// handleArtifacts lists the artifact ids of the resolver's group that have
// a binary for the requested version.
func (s *Server) handleArtifacts(w http.ResponseWriter, r *http.Request) {
	version := chi.URLParam(r, "version")
	entries, err := os.ReadDir(s.resolver.GroupDir())
	if err != nil && !os.IsNotExist(err) {
		http.Error(w, "cannot list repository", http.StatusInternalServerError)
		return
	}

	ids := []string{}
	for _, e := range entries {
		if e.IsDir() && repository.Exists(s.resolver.BinaryPath(e.Name(), version)) {
			ids = append(ids, e.Name())
		}
	}
	sort.Strings(ids)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"groupId":   s.resolver.GroupID(),
		"version":   version,
		"artifacts": ids,
	})
}

// handleFile serves regular files only; directories and paths escaping the
// base are not found.
func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if rel == "" || strings.Contains(rel, "..") {
		http.NotFound(w, r)
		return
	}
	path := filepath.Join(s.resolver.Base(), filepath.FromSlash(rel))
	if !repository.Exists(path) {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, path)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path,
			"status", ww.Status(), "bytes", ww.BytesWritten(), "duration", time.Since(start))
	})
}
