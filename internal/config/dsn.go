// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

package config

import (
	"errors"
	"os"
	"strings"
)

// DSNSource is where a stored DSN can be loaded from, usually the keychain.
type DSNSource interface {
	LoadDBDSN() (string, error)
}

// ErrNoDSN is returned when no graph-store DSN is configured anywhere.
var ErrNoDSN = errors.New("no graph store DSN configured: set MODGRAPH_DSN or run 'modgraph connect'")

// ResolveDSN returns the first DSN found in MODGRAPH_DSN, DATABASE_URL and
// then store, together with a name for where it came from. store may be nil.
func ResolveDSN(store DSNSource) (dsn, source string, err error) {
	return resolveDSN(os.LookupEnv, store)
}

func resolveDSN(lookup func(string) (string, bool), store DSNSource) (string, string, error) {
	for _, key := range []string{"MODGRAPH_DSN", "DATABASE_URL"} {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), key, nil
		}
	}
	if store != nil {
		if v, err := store.LoadDBDSN(); err == nil && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), "keychain", nil
		}
	}
	return "", "", ErrNoDSN
}
