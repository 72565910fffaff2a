// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

package graph

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"modgraph/cli/internal/catalog"
	apperrors "modgraph/cli/internal/errors"
)

// ModuleRef is a module returned by a lookup: its decoded name and aim.
type ModuleRef struct {
	Name        string
	Description string
}

// Store answers the console queries over a triple set.
type Store interface {
	// Insert adds triples; duplicates are ignored.
	Insert(ctx context.Context, triples []Triple) error
	// ModulesForProgram lists modules whose application range includes program.
	ModulesForProgram(ctx context.Context, program string) ([]ModuleRef, error)
	// ModulesByRelation lists modules whose relation points at object.
	ModulesByRelation(ctx context.Context, relation, object string) ([]ModuleRef, error)
	// ModuleProperty lists the values of relation on the module named module.
	ModuleProperty(ctx context.Context, module, relation string) ([]string, error)
	// RelationRange lists the distinct values relation points at.
	RelationRange(ctx context.Context, relation string) ([]string, error)
	// ModuleDomain lists every module name.
	ModuleDomain(ctx context.Context) ([]string, error)
	// Count returns the number of stored triples.
	Count(ctx context.Context) (int, error)
	Close()
}

// RelationPredicate maps a catalog relation id (or label) to its predicate IRI.
func RelationPredicate(relation string) (string, error) {
	rel, ok := catalog.Relation(relation)
	if !ok {
		return "", apperrors.New(apperrors.InvalidInput, "unknown relation "+strconv.Quote(relation))
	}
	return Schema(rel.ID), nil
}

// ObjectTerm converts a user-supplied object value into the term stored for relation.
// ECTS values are numbers, lecturers, levels and offerings are data IRIs, and
// everything else is a string literal.
func ObjectTerm(relation, object string) (Term, error) {
	pred, err := RelationPredicate(relation)
	if err != nil {
		return Term{}, err
	}
	object = strings.TrimSpace(object)
	switch pred {
	case PredECTS:
		t, ok := NumberTerm(object)
		if !ok {
			return Term{}, apperrors.New(apperrors.InvalidInput, "ECTS value must be a number: "+strconv.Quote(object))
		}
		return t, nil
	case PredTaughtBy, PredLevel, PredOfferedIn:
		return IRI(Data(object)), nil
	default:
		return Literal(EncodeWS(object), XSDString), nil
	}
}

// sortValues orders values numerically when every value is a number and
// lexically otherwise, and removes duplicates.
func sortValues(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	numeric := true
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
		if _, ok := NumberTerm(v); !ok {
			numeric = false
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if numeric {
			a, _ := strconv.ParseFloat(out[i], 64)
			b, _ := strconv.ParseFloat(out[j], 64)
			return a < b
		}
		return out[i] < out[j]
	})
	return out
}

// sortRefs orders refs by name then description and drops exact duplicates.
func sortRefs(refs []ModuleRef) []ModuleRef {
	seen := make(map[ModuleRef]struct{}, len(refs))
	out := refs[:0]
	for _, r := range refs {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Description < out[j].Description
	})
	return out
}
