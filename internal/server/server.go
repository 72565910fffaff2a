// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package server exposes a graph.Store as the query service the console talks
// to: five POST endpoints returning the canonical {"results": [...]} envelope,
// plus health, version, manifest and metrics routes. The same queries are
// served over gRPC by a hand-registered service using protobuf Struct messages.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"modgraph/cli/internal/graph"
	"modgraph/cli/internal/logging"
	"modgraph/cli/internal/metrics"

	"github.com/pterm/pterm"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 5 * time.Second
)

// Config holds the settings of a query server.
type Config struct {
	// HTTPAddr is the listen address of the HTTP API, e.g. ":8080".
	HTTPAddr string
	// GRPCAddr enables the gRPC listener when set.
	GRPCAddr string
	// GRPCOrigin is advertised in /manifest.json, e.g. "grpc://localhost:9090".
	GRPCOrigin string
	// AllowedOrigin is sent as Access-Control-Allow-Origin. Defaults to "*".
	AllowedOrigin string
	Version       string
	// StoreName labels the triples gauge.
	StoreName string
	Logger    *pterm.Logger
}

// Server answers graph queries over HTTP and gRPC.
type Server struct {
	store  graph.Store
	cfg    Config
	logger *pterm.Logger
}

// New creates a server for store.
func New(store graph.Store, cfg Config) *Server {
	if cfg.AllowedOrigin == "" {
		cfg.AllowedOrigin = "*"
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	if cfg.StoreName == "" {
		cfg.StoreName = "memory"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Server{store: store, cfg: cfg, logger: logger}
}

// Serve listens on the configured addresses and blocks until ctx is cancelled
// or a listener fails.
func (s *Server) Serve(ctx context.Context) error {
	httpLn, err := net.Listen("tcp", s.cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listen http %s: %w", s.cfg.HTTPAddr, err)
	}
	var grpcLn net.Listener
	if s.cfg.GRPCAddr != "" {
		grpcLn, err = net.Listen("tcp", s.cfg.GRPCAddr)
		if err != nil {
			_ = httpLn.Close()
			return fmt.Errorf("listen grpc %s: %w", s.cfg.GRPCAddr, err)
		}
	}
	return s.ServeListeners(ctx, httpLn, grpcLn)
}

// ServeListeners serves on already bound listeners. grpcLn may be nil.
func (s *Server) ServeListeners(ctx context.Context, httpLn, grpcLn net.Listener) error {
	s.recordTriples(ctx)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("query service listening", s.logger.Args("http", httpLn.Addr().String()))
	eg.Go(func() error {
		if err := srv.Serve(httpLn); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	var gs *grpc.Server
	if grpcLn != nil {
		gs = s.GRPCServer()
		s.logger.Info("query service listening", s.logger.Args("grpc", grpcLn.Addr().String()))
		eg.Go(func() error {
			if err := gs.Serve(grpcLn); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return fmt.Errorf("grpc server: %w", err)
			}
			return nil
		})
	}

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.logger.Debug("shutting down query service")
		if gs != nil {
			gs.GracefulStop()
		}
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

func (s *Server) recordTriples(ctx context.Context) {
	n, err := s.store.Count(ctx)
	if err != nil {
		logging.LogFailure(s.logger, "count triples", err)
		return
	}
	metrics.Triples.WithLabelValues(s.cfg.StoreName).Set(float64(n))
}
