// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package model defines the wire shapes shared by the HTTP and gRPC transports.
// Request and response bodies are identical on both transports: HTTP carries
// them as JSON, gRPC carries the same JSON object inside a google.protobuf.Struct.
package model

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

// ModuleFilterRequest asks for the modules of a study program.
// Subject is the legacy name of the same field and is only read by servers.
type ModuleFilterRequest struct {
	Module  string `json:"module"`
	Subject string `json:"subject,omitempty"`
}

// Program returns the requested program, preferring the current field name.
func (r ModuleFilterRequest) Program() string {
	if r.Module != "" {
		return r.Module
	}
	return r.Subject
}

// ObjectRelationRequest asks for modules whose relation points at Obj.
type ObjectRelationRequest struct {
	Obj      string `json:"obj"`
	Relation string `json:"relation"`
}

// ModulePropertyRequest asks for the values of Relation on one module.
type ModulePropertyRequest struct {
	Module   string `json:"module"`
	Relation string `json:"relation"`
}

// RelationRangeRequest asks for the distinct object values of Relation.
type RelationRangeRequest struct {
	Relation string `json:"relation"`
}

// ModuleDomainRequest asks for every module name. It has no fields.
type ModuleDomainRequest struct{}

// Row is one result row. Which fields are set depends on the endpoint.
type Row struct {
	ModuleName     string `json:"module_name,omitempty"`
	Description    string `json:"description,omitempty"`
	ModuleProperty string `json:"module_property,omitempty"`
}

// Envelope is the canonical response body of every query endpoint.
type Envelope struct {
	Results []Row `json:"results"`
}

// ErrorBody is returned with every non-2xx response.
type ErrorBody struct {
	Error string `json:"error"`
}

// VersionInfo is returned by the version endpoint.
type VersionInfo struct {
	Version string `json:"version"`
}

// Fully qualified gRPC names of the query service.
const (
	ServiceName          = "modgraph.v1.QueryService"
	MethodModuleFilter   = "ModuleFilter"
	MethodObjectRelation = "ObjectRelation"
	MethodModuleProperty = "ModuleProperty"
	MethodRelationRanges = "RelationRanges"
	MethodModuleDomain   = "ModuleDomain"
	MethodVersion        = "Version"
)

// FullMethod returns the "/service/method" path used on the wire.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// ToStruct converts a JSON-tagged value into a protobuf Struct.
func ToStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode struct: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("encode struct: %w", err)
	}
	return structpb.NewStruct(m)
}

// FromStruct decodes a protobuf Struct into a JSON-tagged value.
func FromStruct(s *structpb.Struct, out any) error {
	if s == nil {
		return fmt.Errorf("decode struct: empty message")
	}
	b, err := s.MarshalJSON()
	if err != nil {
		return fmt.Errorf("decode struct: %w", err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode struct: %w", err)
	}
	return nil
}
