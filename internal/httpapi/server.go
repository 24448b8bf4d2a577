// Package httpapi exposes the last fetch snapshot over HTTP.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/jhyun-dev/court-watcher/internal/court"
)

const requestTimeout = 10 * time.Second

// Server serves the read-only query surface.
type Server struct {
	store *court.SnapshotStore
	log   logrus.FieldLogger
}

// New creates a Server reading from the given snapshot store.
func New(store *court.SnapshotStore, log logrus.FieldLogger) *Server {
	return &Server{store: store, log: log}
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Get("/court", s.handleCourt)

	return r
}

type courtResponse struct {
	Data court.Snapshot `json:"data"`
	Code int            `json:"code"`
}

// handleCourt returns the latest un-deduplicated fetch result as-is.
func (s *Server) handleCourt(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, courtResponse{
		Data: s.store.Latest(),
		Code: http.StatusOK,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.WithError(err).Error("writing response failed")
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		next.ServeHTTP(w, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(started).String(),
		}).Debug("request handled")
	})
}
