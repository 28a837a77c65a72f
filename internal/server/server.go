// Package server exposes the recommender over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tunematch/internal/logger"
	"tunematch/internal/recommender"
)

// Options tunes request handling.
type Options struct {
	DefaultRecommendations int
	MaxRecommendations     int
	MaxBatchNames          int
	RateLimitRPS           float64
	RateLimitBurst         int
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		DefaultRecommendations: 5,
		MaxRecommendations:     50,
		MaxBatchNames:          100,
		RateLimitRPS:           20,
		RateLimitBurst:         40,
	}
}

// Server routes HTTP requests to an engine.
type Server struct {
	engine  *recommender.Engine
	opts    Options
	limiter *RateLimiter
	router  *mux.Router
}

// New builds the router over engine.
func New(engine *recommender.Engine, opts Options) *Server {
	if opts.MaxBatchNames <= 0 {
		opts.MaxBatchNames = DefaultOptions().MaxBatchNames
	}
	s := &Server{
		engine:  engine,
		opts:    opts,
		limiter: NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst),
		router:  mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(recoveryMiddleware, requestIDMiddleware, accessLogMiddleware, corsMiddleware)

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.Use(s.limiter.Middleware)
	api.HandleFunc("/songs", s.handleSong).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/recommendations", s.handleRecommendations).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/recommendations/batch", s.handleBatch).Methods(http.MethodPost, http.MethodOptions)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 15 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	logger.Info("tunematch listening", logger.String("addr", addr))

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-serverErr
	}
}
