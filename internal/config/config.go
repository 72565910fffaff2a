// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; the graph-store DSN lives in the
// environment or the OS keychain.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"modgraph/cli/internal/xdg"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Config holds non-sensitive CLI settings.
type Config struct {
	LogLevel  string        `json:"log_level"`
	LogFormat string        `json:"log_format"`
	Backend   BackendConfig `json:"backend"`
	Server    ServerConfig  `json:"server"`
	Store     StoreConfig   `json:"store"`
}

// BackendConfig tells the console where the query service lives.
type BackendConfig struct {
	BaseURL        string `json:"base_url"`
	Transport      string `json:"transport"`
	GRPCAddr       string `json:"grpc_addr"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// ServerConfig configures `modgraph serve`.
type ServerConfig struct {
	Listen        string `json:"listen"`
	GRPCListen    string `json:"grpc_listen"`
	GRPCOrigin    string `json:"grpc_origin"`
	AllowedOrigin string `json:"allowed_origin"`
}

// StoreConfig selects the graph store behind the server.
type StoreConfig struct {
	Driver  string `json:"driver"`
	Dataset string `json:"dataset"`
	Table   string `json:"table"`
}

// Defaults returns the configuration used when no file exists.
func Defaults() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: "text",
		Backend: BackendConfig{
			BaseURL:        "http://localhost:8080",
			Transport:      "http",
			TimeoutSeconds: 10,
		},
		Server: ServerConfig{
			Listen:        ":8080",
			AllowedOrigin: "*",
		},
		Store: StoreConfig{
			Driver: DriverMemory,
			Table:  "triples",
		},
	}
}

// Timeout returns the backend request timeout.
func (c Config) Timeout() time.Duration {
	if c.Backend.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

// Path returns the path to the config file.
func Path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config file over Defaults and applies MODGRAPH_* overrides.
// A missing file is not an error.
func Load() (Config, error) {
	p, err := Path()
	if err != nil {
		return Defaults(), err
	}
	c, err := LoadFile(p)
	if err != nil {
		return c, err
	}
	err = ApplyEnv(&c, os.LookupEnv)
	return c, err
}

// LoadFile reads path over Defaults without looking at the environment.
func LoadFile(path string) (Config, error) {
	c := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return c, err
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return Defaults(), fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}

// ApplyEnv overrides c from the environment variables reported by lookup.
func ApplyEnv(c *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str("MODGRAPH_LOG_LEVEL", &c.LogLevel)
	str("MODGRAPH_LOG_FORMAT", &c.LogFormat)
	str("MODGRAPH_BASE_URL", &c.Backend.BaseURL)
	str("MODGRAPH_TRANSPORT", &c.Backend.Transport)
	str("MODGRAPH_GRPC_ADDR", &c.Backend.GRPCAddr)
	str("MODGRAPH_LISTEN", &c.Server.Listen)
	str("MODGRAPH_GRPC_LISTEN", &c.Server.GRPCListen)
	str("MODGRAPH_GRPC_ORIGIN", &c.Server.GRPCOrigin)
	str("MODGRAPH_CORS_ORIGIN", &c.Server.AllowedOrigin)
	str("MODGRAPH_STORE", &c.Store.Driver)
	str("MODGRAPH_DATASET", &c.Store.Dataset)
	str("MODGRAPH_TABLE", &c.Store.Table)

	if v, ok := lookup("MODGRAPH_TIMEOUT"); ok && strings.TrimSpace(v) != "" {
		secs, err := parseSeconds(v)
		if err != nil {
			return fmt.Errorf("MODGRAPH_TIMEOUT: %w", err)
		}
		c.Backend.TimeoutSeconds = secs
	}
	return c.Validate()
}

// parseSeconds accepts "15" or a Go duration such as "1m30s".
func parseSeconds(v string) (int, error) {
	v = strings.TrimSpace(v)
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return n, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < time.Second {
		return 0, fmt.Errorf("invalid timeout %q", v)
	}
	return int(d / time.Second), nil
}

// Validate rejects unknown enum values.
func (c Config) Validate() error {
	switch strings.ToLower(c.Backend.Transport) {
	case "", "http", "grpc":
	default:
		return fmt.Errorf("unknown transport %q (use http or grpc)", c.Backend.Transport)
	}
	switch strings.ToLower(c.Store.Driver) {
	case "", DriverMemory, DriverPostgres:
	default:
		return fmt.Errorf("unknown store driver %q (use %s or %s)", c.Store.Driver, DriverMemory, DriverPostgres)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (use text or json)", c.LogFormat)
	}
	return nil
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := Path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}
