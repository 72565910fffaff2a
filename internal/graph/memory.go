// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

package graph

import (
	"context"
	"sync"
)

// MemoryStore is an indexed in-process triple store.
type MemoryStore struct {
	mu sync.RWMutex
	// seen deduplicates inserts
	seen map[tripleKey]struct{}
	// bySubject maps subject -> predicate -> objects in insertion order
	bySubject map[string]map[string][]Term
	// byObject maps predicate -> object key -> subjects in insertion order
	byObject map[string]map[string][]string
	// byPredicate maps predicate -> objects in insertion order
	byPredicate map[string][]Term
	count       int
}

type tripleKey struct {
	subject, predicate, object string
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		seen:        make(map[tripleKey]struct{}),
		bySubject:   make(map[string]map[string][]Term),
		byObject:    make(map[string]map[string][]string),
		byPredicate: make(map[string][]Term),
	}
}

func (s *MemoryStore) Insert(ctx context.Context, triples []Triple) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range triples {
		if err := ctx.Err(); err != nil {
			return err
		}
		k := tripleKey{t.Subject, t.Predicate, t.Object.key()}
		if _, dup := s.seen[k]; dup {
			continue
		}
		s.seen[k] = struct{}{}
		s.count++

		preds := s.bySubject[t.Subject]
		if preds == nil {
			preds = make(map[string][]Term)
			s.bySubject[t.Subject] = preds
		}
		preds[t.Predicate] = append(preds[t.Predicate], t.Object)

		objs := s.byObject[t.Predicate]
		if objs == nil {
			objs = make(map[string][]string)
			s.byObject[t.Predicate] = objs
		}
		objs[t.Object.key()] = append(objs[t.Object.key()], t.Subject)

		s.byPredicate[t.Predicate] = append(s.byPredicate[t.Predicate], t.Object)
	}
	return nil
}

func (s *MemoryStore) ModulesForProgram(ctx context.Context, program string) ([]ModuleRef, error) {
	return s.modulesWhere(PredApplicationRange, IRI(Data(program))), nil
}

func (s *MemoryStore) ModulesByRelation(ctx context.Context, relation, object string) ([]ModuleRef, error) {
	term, err := ObjectTerm(relation, object)
	if err != nil {
		return nil, err
	}
	pred, _ := RelationPredicate(relation)
	return s.modulesWhere(pred, term), nil
}

func (s *MemoryStore) ModuleProperty(ctx context.Context, module, relation string) ([]string, error) {
	pred, err := RelationPredicate(relation)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var values []string
	for _, subject := range s.byObject[PredModuleName][Literal(EncodeWS(module), "").key()] {
		for _, obj := range s.bySubject[subject][pred] {
			values = append(values, obj.Display())
		}
	}
	return sortValues(values), nil
}

func (s *MemoryStore) RelationRange(ctx context.Context, relation string) ([]string, error) {
	pred, err := RelationPredicate(relation)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var values []string
	for _, obj := range s.byPredicate[pred] {
		values = append(values, obj.Display())
	}
	return sortValues(values), nil
}

func (s *MemoryStore) ModuleDomain(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var names []string
	for _, obj := range s.byPredicate[PredModuleName] {
		names = append(names, obj.Display())
	}
	return sortValues(names), nil
}

func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count, nil
}

func (s *MemoryStore) Close() {}

// modulesWhere returns name and aim of every subject with pred -> obj.
func (s *MemoryStore) modulesWhere(pred string, obj Term) []ModuleRef {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var refs []ModuleRef
	for _, subject := range s.byObject[pred][obj.key()] {
		props := s.bySubject[subject]
		desc := ""
		if aims := props[PredAim]; len(aims) > 0 {
			desc = aims[0].Display()
		}
		for _, name := range props[PredModuleName] {
			refs = append(refs, ModuleRef{Name: name.Display(), Description: desc})
		}
	}
	return sortRefs(refs)
}
