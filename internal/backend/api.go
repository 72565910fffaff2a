// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend provides the client side of the query service contract.
// It defines the five graph queries the console issues plus a version probe,
// and an HTTP implementation that speaks the canonical JSON envelope.
package backend

import (
	"context"

	"modgraph/cli/internal/bridge/model"
)

// API defines backend operations the console depends on.
// Implementations may call HTTP or gRPC endpoints or provide fakes for tests.
// Every query returns the rows of the canonical envelope; failures are
// *errors.E values tagged http_status, transport or decode.
type API interface {
	GetVersion(ctx context.Context) (string, error)
	// ModulesForProgram lists modules offered in a study program (POST module-filter).
	ModulesForProgram(ctx context.Context, program string) ([]model.Row, error)
	// ModulesByRelation lists modules whose relation points at object (POST object-relation).
	ModulesByRelation(ctx context.Context, relation, object string) ([]model.Row, error)
	// ModuleProperty lists the values of relation on one module (POST module-property).
	ModuleProperty(ctx context.Context, module, relation string) ([]model.Row, error)
	// RelationRange lists the distinct objects of relation (POST relation-ranges).
	RelationRange(ctx context.Context, relation string) ([]model.Row, error)
	// ModuleDomain lists every module name (POST module-domain).
	ModuleDomain(ctx context.Context) ([]model.Row, error)
}
