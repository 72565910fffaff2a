// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package bridge selects the transport between the console and the query
// service. Both transports implement backend.API; callers never see which one
// is in use except through Close.
package bridge

import (
	"context"
	"fmt"
	"strings"
	"time"

	"modgraph/cli/internal/backend"
	"modgraph/cli/internal/bridge/grpcclient"
	"modgraph/cli/internal/manifest"

	"github.com/pterm/pterm"
)

// Transport names accepted in configuration.
const (
	TransportHTTP = "http"
	TransportGRPC = "grpc"
)

// Options configures a connection to the query service.
type Options struct {
	Transport string
	BaseURL   string
	// GRPCAddr overrides the gRPC origin published in the manifest.
	GRPCAddr string
	Timeout  time.Duration
	Logger   *pterm.Logger
}

// Conn is a backend.API plus the resources behind it.
type Conn struct {
	backend.API
	close func() error
}

// Close releases transport resources.
func (c *Conn) Close() error {
	if c.close == nil {
		return nil
	}
	return c.close()
}

// New resolves endpoints for opts.BaseURL and returns a connection over the
// configured transport.
func New(ctx context.Context, opts Options) (*Conn, error) {
	m := manifest.GetEndpoints(ctx, nil, opts.BaseURL, opts.Logger)

	switch strings.ToLower(strings.TrimSpace(opts.Transport)) {
	case "", TransportHTTP:
		api := backend.New(opts.BaseURL, m.HTTP, backend.WithTimeout(opts.Timeout), backend.WithLogger(opts.Logger))
		return &Conn{API: api}, nil
	case TransportGRPC:
		addr, secure := grpcTarget(opts.GRPCAddr, m)
		if addr == "" {
			return nil, fmt.Errorf("grpc transport needs an address: set grpc_addr or publish grpc.query_origin in the manifest")
		}
		c, err := grpcclient.Dial(addr, secure)
		if err != nil {
			return nil, err
		}
		return &Conn{API: withTimeout(c, opts.Timeout), close: c.Close}, nil
	default:
		return nil, fmt.Errorf("unknown transport %q (use %s or %s)", opts.Transport, TransportHTTP, TransportGRPC)
	}
}

// grpcTarget picks the explicit address over the manifest origin.
// An explicit "grpcs://" prefix asks for TLS.
func grpcTarget(explicit string, m *manifest.Manifest) (string, bool) {
	explicit = strings.TrimSpace(explicit)
	switch {
	case strings.HasPrefix(explicit, "grpcs://"):
		return strings.TrimPrefix(explicit, "grpcs://"), true
	case strings.HasPrefix(explicit, "grpc://"):
		return strings.TrimPrefix(explicit, "grpc://"), false
	case explicit != "":
		return explicit, false
	}
	return m.GRPCAddress(), m.GRPCSecure()
}
