// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"strings"

	"modgraph/cli/internal/config"
	"modgraph/cli/internal/dsn"
	"modgraph/cli/internal/graph"
	"modgraph/cli/internal/keychain"
)

// openStore opens the graph store selected by settings.Store.
// It returns the store and the driver name used for metrics labels.
func openStore(ctx context.Context) (graph.Store, string, error) {
	switch driver := strings.ToLower(settings.Store.Driver); driver {
	case "", config.DriverMemory:
		return graph.NewMemoryStore(), config.DriverMemory, nil
	case config.DriverPostgres:
		raw, source, err := resolveDSN()
		if err != nil {
			return nil, "", err
		}
		normalized, err := dsn.Parse(raw)
		if err != nil {
			return nil, "", fmt.Errorf("DSN from %s: %w", source, err)
		}
		logger.Debug("opening postgres store", logger.Args("source", source, "table", settings.Store.Table))
		s, err := graph.OpenPostgres(ctx, normalized, settings.Store.Table)
		if err != nil {
			return nil, "", err
		}
		return s, config.DriverPostgres, nil
	default:
		return nil, "", fmt.Errorf("unknown store driver %q", settings.Store.Driver)
	}
}

// resolveDSN finds the graph-store DSN in the environment or the keychain.
func resolveDSN() (string, string, error) {
	var source config.DSNSource
	if km, err := keychain.GetManager(); err == nil {
		source = km
	} else {
		logger.Debug("keychain unavailable", logger.Args("error", err))
	}
	return config.ResolveDSN(source)
}
