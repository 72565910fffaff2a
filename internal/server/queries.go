// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

package server

import (
	"context"
	stderrors "errors"
	"strings"

	"modgraph/cli/internal/bridge/model"
	apperrors "modgraph/cli/internal/errors"
	"modgraph/cli/internal/graph"
)

// The query layer is shared by the HTTP handlers and the gRPC service.
// Every function returns a non-nil slice on success so the envelope is always
// {"results": [...]}, never {"results": null}.

func (s *Server) moduleFilter(ctx context.Context, req model.ModuleFilterRequest) ([]model.Row, error) {
	program, err := required("module", req.Program())
	if err != nil {
		return nil, err
	}
	refs, err := s.store.ModulesForProgram(ctx, program)
	if err != nil {
		return nil, storeError("module filter", err)
	}
	rows := make([]model.Row, 0, len(refs))
	for _, ref := range refs {
		rows = append(rows, model.Row{ModuleName: ref.Name})
	}
	return rows, nil
}

func (s *Server) objectRelation(ctx context.Context, req model.ObjectRelationRequest) ([]model.Row, error) {
	relation, err := checkRelation(req.Relation)
	if err != nil {
		return nil, err
	}
	object, err := required("obj", req.Obj)
	if err != nil {
		return nil, err
	}
	refs, err := s.store.ModulesByRelation(ctx, relation, object)
	if err != nil {
		return nil, storeError("object relation", err)
	}
	rows := make([]model.Row, 0, len(refs))
	for _, ref := range refs {
		rows = append(rows, model.Row{ModuleName: ref.Name, Description: ref.Description})
	}
	return rows, nil
}

func (s *Server) moduleProperty(ctx context.Context, req model.ModulePropertyRequest) ([]model.Row, error) {
	module, err := required("module", req.Module)
	if err != nil {
		return nil, err
	}
	relation, err := checkRelation(req.Relation)
	if err != nil {
		return nil, err
	}
	values, err := s.store.ModuleProperty(ctx, module, relation)
	if err != nil {
		return nil, storeError("module property", err)
	}
	rows := make([]model.Row, 0, len(values))
	for _, v := range values {
		rows = append(rows, model.Row{ModuleProperty: v})
	}
	return rows, nil
}

func (s *Server) relationRanges(ctx context.Context, req model.RelationRangeRequest) ([]model.Row, error) {
	relation, err := checkRelation(req.Relation)
	if err != nil {
		return nil, err
	}
	values, err := s.store.RelationRange(ctx, relation)
	if err != nil {
		return nil, storeError("relation ranges", err)
	}
	return nameRows(values), nil
}

func (s *Server) moduleDomain(ctx context.Context, _ model.ModuleDomainRequest) ([]model.Row, error) {
	names, err := s.store.ModuleDomain(ctx)
	if err != nil {
		return nil, storeError("module domain", err)
	}
	return nameRows(names), nil
}

func nameRows(values []string) []model.Row {
	rows := make([]model.Row, 0, len(values))
	for _, v := range values {
		rows = append(rows, model.Row{ModuleName: v})
	}
	return rows
}

func required(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", apperrors.New(apperrors.InvalidInput, "missing required field "+field)
	}
	return value, nil
}

// checkRelation checks presence and catalog membership before the store is touched.
func checkRelation(value string) (string, error) {
	value, err := required("relation", value)
	if err != nil {
		return "", err
	}
	if _, err := graph.RelationPredicate(value); err != nil {
		return "", err
	}
	return value, nil
}

// storeError keeps input errors raised by the store and tags everything else.
func storeError(op string, err error) error {
	if apperrors.Is(err, apperrors.InvalidInput) {
		return err
	}
	return apperrors.Wrap(apperrors.Store, op, err)
}

// publicMessage returns the text sent to clients for err. Store failures are
// reported generically; the cause is logged server side.
func publicMessage(err error) string {
	if apperrors.Is(err, apperrors.InvalidInput) {
		if e, ok := innermost(err, apperrors.InvalidInput); ok {
			return e.Message
		}
	}
	return "graph store query failed"
}

func innermost(err error, kind apperrors.Kind) (*apperrors.E, bool) {
	var found *apperrors.E
	for err != nil {
		var e *apperrors.E
		if !stderrors.As(err, &e) {
			break
		}
		if e.Kind == kind {
			found = e
		}
		err = e.Err
	}
	return found, found != nil
}
