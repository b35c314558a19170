// Package server is the HTTP adapter: a JSON API standing in for the
// interactive evaluation form.
package server

import (
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ppiankov/gonogo/internal/pipeline"
	"github.com/ppiankov/gonogo/internal/worker"
)

// maxBodyBytes bounds request bodies; an input record is a few KB at most
const maxBodyBytes = 1 << 20

// NewRouter creates the API router with all endpoints.
// A nil limiter disables rate limiting.
func NewRouter(p *pipeline.Pipeline, limiter *worker.Limiter) http.Handler {
	r := mux.NewRouter()
	h := NewAssessmentHandler(p)

	r.Use(logMiddleware)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()
	if limiter != nil {
		v1.Use(rateLimitMiddleware(limiter))
	}

	v1.HandleFunc("/rubric", h.Rubric).Methods("GET")
	v1.HandleFunc("/assessments", h.Assess).Methods("POST")
	v1.HandleFunc("/reports", h.Report).Methods("POST")

	return r
}

// statusRecorder captures the status code for request logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond))
	})
}

// rateLimitMiddleware rejects clients that exceed their per-IP budget
func rateLimitMiddleware(limiter *worker.Limiter) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientIP(r)) {
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
