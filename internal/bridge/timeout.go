// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

package bridge

import (
	"context"
	"time"

	"modgraph/cli/internal/backend"
	"modgraph/cli/internal/bridge/model"
)

// timeoutAPI bounds every call with a per-request deadline, mirroring the
// HTTP client's timeout for transports that have none of their own.
type timeoutAPI struct {
	next backend.API
	d    time.Duration
}

func withTimeout(next backend.API, d time.Duration) backend.API {
	if d <= 0 {
		d = 10 * time.Second
	}
	return &timeoutAPI{next: next, d: d}
}

func (t *timeoutAPI) GetVersion(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.next.GetVersion(ctx)
}

func (t *timeoutAPI) ModulesForProgram(ctx context.Context, program string) ([]model.Row, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.next.ModulesForProgram(ctx, program)
}

func (t *timeoutAPI) ModulesByRelation(ctx context.Context, relation, object string) ([]model.Row, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.next.ModulesByRelation(ctx, relation, object)
}

func (t *timeoutAPI) ModuleProperty(ctx context.Context, module, relation string) ([]model.Row, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.next.ModuleProperty(ctx, module, relation)
}

func (t *timeoutAPI) RelationRange(ctx context.Context, relation string) ([]model.Row, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.next.RelationRange(ctx, relation)
}

func (t *timeoutAPI) ModuleDomain(ctx context.Context) ([]model.Row, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.next.ModuleDomain(ctx)
}
