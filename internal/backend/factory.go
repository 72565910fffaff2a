// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"net/http"
	"time"

	"modgraph/cli/internal/manifest"

	"github.com/pterm/pterm"
)

// Option customizes the HTTP client.
type Option func(*HTTP)

// WithTimeout sets the per-request timeout. Zero or negative keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(h *HTTP) {
		if d > 0 {
			h.client.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying client (used by tests and custom transports).
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTP) {
		if c != nil {
			h.client = c
		}
	}
}

// WithLogger routes request diagnostics to logger.
func WithLogger(l *pterm.Logger) Option {
	return func(h *HTTP) {
		if l != nil {
			h.logger = l
		}
	}
}

// New creates the HTTP implementation of API for baseURL and the manifest endpoints.
func New(baseURL string, endpoints manifest.HTTPEndpoints, opts ...Option) API {
	return newHTTP(baseURL, endpoints, opts...)
}
