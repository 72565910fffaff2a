// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package manifest handles dynamic backend endpoint configuration.
// A backend may publish its endpoint paths at /manifest.json; when it does not,
// the console falls back to the canonical paths returned by Defaults.
package manifest

import (
	"net/url"
	"strings"
)

// Manifest represents the endpoint configuration published by a query backend.
type Manifest struct {
	Version int           `json:"version"`
	GRPC    GRPCEndpoints `json:"grpc"`
	HTTP    HTTPEndpoints `json:"http"`
}

// GRPCEndpoints contains gRPC service addresses.
type GRPCEndpoints struct {
	Query string `json:"query_origin"` // e.g. "grpc://localhost:9090" or "grpcs://graph.example.org"
}

// HTTPEndpoints contains REST endpoint paths relative to the base URL.
type HTTPEndpoints struct {
	ModuleFilter   string `json:"module_filter"`   // e.g. "/module-filter"
	ObjectRelation string `json:"object_relation"` // e.g. "/object-relation"
	ModuleProperty string `json:"module_property"` // e.g. "/module-property"
	RelationRanges string `json:"relation_ranges"` // e.g. "/relation-ranges"
	ModuleDomain   string `json:"module_domain"`   // e.g. "/module-domain"
	Health         string `json:"health"`
	Version        string `json:"version"`
}

// Defaults returns the canonical endpoint layout.
func Defaults() *Manifest {
	return &Manifest{
		Version: 1,
		HTTP: HTTPEndpoints{
			ModuleFilter:   "/module-filter",
			ObjectRelation: "/object-relation",
			ModuleProperty: "/module-property",
			RelationRanges: "/relation-ranges",
			ModuleDomain:   "/module-domain",
			Health:         "/healthz",
			Version:        "/version",
		},
	}
}

// withDefaults fills empty paths from Defaults so a partial manifest stays usable.
func (m *Manifest) withDefaults() *Manifest {
	d := Defaults()
	out := *m
	fill := func(dst *string, def string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = def
		}
	}
	fill(&out.HTTP.ModuleFilter, d.HTTP.ModuleFilter)
	fill(&out.HTTP.ObjectRelation, d.HTTP.ObjectRelation)
	fill(&out.HTTP.ModuleProperty, d.HTTP.ModuleProperty)
	fill(&out.HTTP.RelationRanges, d.HTTP.RelationRanges)
	fill(&out.HTTP.ModuleDomain, d.HTTP.ModuleDomain)
	fill(&out.HTTP.Health, d.HTTP.Health)
	fill(&out.HTTP.Version, d.HTTP.Version)
	return &out
}

// GRPCAddress extracts the host:port from the query origin.
func (m *Manifest) GRPCAddress() string {
	u, err := url.Parse(m.GRPC.Query)
	if err != nil {
		return ""
	}
	return u.Host
}

// GRPCSecure reports whether the query origin asks for TLS.
func (m *Manifest) GRPCSecure() bool {
	return strings.HasPrefix(m.GRPC.Query, "grpcs://") || strings.HasPrefix(m.GRPC.Query, "https://")
}
