// Copyright (C) 2026 Ashlen
//
// This file is part of relaypick – https://github.com/anthesis/relaypick
//
// SPDX-License-Identifier: ISC

// Package api serves weighted relay samples over HTTP for long-lived use.
// The relay document is loaded once at startup; each request draws its
// own sample, so concurrent callers never share sampling state beyond the
// mutex-guarded random source.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/anthesis/relaypick/pkg/filter"
	"github.com/anthesis/relaypick/pkg/metrics"
	"github.com/anthesis/relaypick/pkg/relay"
	"github.com/anthesis/relaypick/pkg/sampling"
)

// Server serves relay samples over HTTP.
type Server struct {
	server  *http.Server
	relays  []relay.Relay
	sampler *sampling.Sampler
	logger  *slog.Logger
}

// ServerConfig holds configuration for the sample server.
type ServerConfig struct {
	Address string
	Relays  []relay.Relay
	Sampler *sampling.Sampler
	Logger  *slog.Logger
}

// NewServer creates a sample HTTP server.
func NewServer(cfg ServerConfig) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Sampler == nil {
		cfg.Sampler = sampling.New(nil)
	}

	s := &Server{
		relays:  cfg.Relays,
		sampler: cfg.Sampler,
		logger:  cfg.Logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/sample", s.handleSample)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	s.server = &http.Server{
		Addr:         cfg.Address,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	metrics.RelaysLoaded.Set(float64(len(cfg.Relays)))

	return s
}

// Handler exposes the mux for testing.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start begins serving. It blocks until the context is canceled.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		s.logger.Info("sample server starting", "address", s.server.Addr, "relays", len(s.relays))
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("sample server error: %w", err)
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		return s.shutdown()
	case err := <-errChan:
		return err
	}
}

// shutdown gracefully stops the server.
func (s *Server) shutdown() error {
	s.logger.Info("sample server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("sample server shutdown error: %w", err)
	}
	return nil
}

// handleSample answers GET /v1/sample. Query parameters mirror the CLI:
// n, active, owned, location, provider.
func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodGet {
		metrics.SampleRequestsTotal.WithLabelValues("method_not_allowed").Inc()
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	criteria, n, err := criteriaFromQuery(r)
	if err != nil {
		metrics.SampleRequestsTotal.WithLabelValues("bad_request").Inc()
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	filtered := filter.Apply(criteria, s.relays)
	population, weights := relay.Endpoints(filtered)

	sample, err := s.sampler.WeightedWithoutReplacement(population, weights, n)
	if err != nil {
		metrics.SampleRequestsTotal.WithLabelValues("bad_request").Inc()
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	metrics.SampleRequestsTotal.WithLabelValues("ok").Inc()
	metrics.SampledHostnamesTotal.Add(float64(len(sample)))
	metrics.SampleDuration.Observe(time.Since(start).Seconds())

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(strings.Join(sample, "\n") + "\n"))

	s.logger.Debug("sample served",
		"filtered", len(filtered),
		"returned", len(sample),
		"remote", r.RemoteAddr,
	)
}

// criteriaFromQuery builds filter criteria and the sample count from
// request query parameters.
func criteriaFromQuery(r *http.Request) (filter.Criteria, int, error) {
	q := r.URL.Query()
	var criteria filter.Criteria

	criteria.ActiveOnly = q.Get("active") == "true"
	criteria.OwnedOnly = q.Get("owned") == "true"

	if expr := q.Get("location"); expr != "" {
		p, err := filter.CompilePattern(expr)
		if err != nil {
			return criteria, 0, fmt.Errorf("location %w", err)
		}
		criteria.Location = p
	}
	if expr := q.Get("provider"); expr != "" {
		p, err := filter.CompilePattern(expr)
		if err != nil {
			return criteria, 0, fmt.Errorf("provider %w", err)
		}
		criteria.Provider = p
	}

	n := 5
	if raw := q.Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return criteria, 0, fmt.Errorf("invalid n %q", raw)
		}
		n = parsed
	}

	return criteria, n, nil
}
