package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/ppiankov/gonogo/internal/model"
	"github.com/ppiankov/gonogo/internal/pipeline"
	"github.com/ppiankov/gonogo/internal/worker"
)

const (
	shutdownTimeout = 30 * time.Second
	pruneInterval   = time.Minute
	clientIdle      = 10 * time.Minute
)

// Server serves the JSON API until its context is cancelled
type Server struct {
	srv     *http.Server
	limiter *worker.Limiter
}

// New creates a server for p using cfg's address and rate limits
func New(cfg model.ServerConfig, p *pipeline.Pipeline) *Server {
	limiter := worker.NewLimiter(cfg.RequestsPerSecond, cfg.Burst)

	return &Server{
		limiter: limiter,
		srv: &http.Server{
			Addr:              cfg.Addr,
			Handler:           NewRouter(p, limiter),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Run listens until ctx is cancelled, then drains in-flight requests
func (s *Server) Run(ctx context.Context) error {
	go s.limiter.PruneEvery(ctx, pruneInterval, clientIdle)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", s.srv.Addr)
		log.Println("Endpoints:")
		log.Println("  GET  /health")
		log.Println("  GET  /v1/rubric")
		log.Println("  POST /v1/assessments")
		log.Println("  POST /v1/reports?format=pdf|html|md")

		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Println("Server exited")
	return nil
}
