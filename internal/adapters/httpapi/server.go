// Package httpapi exposes video processing over HTTP.
package httpapi

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/devbush/ytlingo/internal/application"
	"github.com/devbush/ytlingo/internal/ports"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Processor runs the full transcript and audio pipeline
type Processor interface {
	Process(ctx context.Context, req application.ProcessRequest) (*application.ProcessResult, error)
}

// Artifacts serves and maintains stored audio
type Artifacts interface {
	Open(ctx context.Context, jobID string) (io.ReadSeekCloser, *ports.ArtifactInfo, error)
	Sweep(ctx context.Context, maxAge time.Duration) (int, error)
}

// Options configures the server
type Options struct {
	AllowedOrigins []string
	RateLimit      float64 // process-video requests per second, <= 0 disables
	RateBurst      int
	MaxBodyBytes   int64
}

// Server is the HTTP front end
type Server struct {
	processor Processor
	artifacts Artifacts
	logger    zerolog.Logger
	opts      Options
	limiter   *rate.Limiter
	handler   http.Handler
}

// NewServer creates a server and builds its routes
func NewServer(processor Processor, artifacts Artifacts, logger zerolog.Logger, opts Options) *Server {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 64 * 1024
	}

	s := &Server{
		processor: processor,
		artifacts: artifacts,
		logger:    logger,
		opts:      opts,
	}
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	mux := http.NewServeMux()
	mux.Handle("POST /process-video", s.rateLimit(http.HandlerFunc(s.handleProcess)))
	mux.HandleFunc("GET /audio/{job_id}", s.handleAudio)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /cleanup", s.handleCleanup)

	s.handler = s.requestLogger(s.cors(mux))
	return s
}

// Handler returns the root handler with middleware applied
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully. In-flight requests get shutdownTimeout to finish.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return s.logger.WithContext(context.Background())
		},
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("server listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
