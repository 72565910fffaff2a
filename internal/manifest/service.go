// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

package manifest

import (
	"context"
	"net/http"

	"github.com/pterm/pterm"
)

// GetEndpoints returns the endpoint layout for baseURL, using the RAM cache if available.
// A backend that does not publish a manifest gets the canonical layout; the
// fallback is cached too so the lookup happens once per process.
func GetEndpoints(ctx context.Context, client *http.Client, baseURL string, logger *pterm.Logger) *Manifest {
	if cached := GetCached(baseURL); cached != nil {
		return cached
	}

	m, err := fetchFromServer(ctx, client, baseURL)
	if err != nil {
		if logger != nil {
			logger.Debug("manifest unavailable, using default endpoints", logger.Args("base_url", baseURL, "error", err))
		}
		m = Defaults()
	}

	SetCached(baseURL, m)
	return m
}
