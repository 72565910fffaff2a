// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package console implements the query console state container.
//
// All state changes go through Reduce, a pure function from (State, Action) to
// the next State plus the side effects to start. Every async slot (relation
// range, module domain, main query) carries a monotonically increasing token;
// a completion whose token is no longer the latest for its slot is dropped.
// Session wraps the reducer behind a mutex and runs effects as cancellable
// goroutines against a backend.API.
package console

import (
	"modgraph/cli/internal/catalog"
)

// Result row keys.
const (
	ColModuleName     = "module_name"
	ColDescription    = "description"
	ColModuleProperty = "module_property"
)

// Row is one displayed result row keyed by column.
type Row map[string]string

// Slot identifies an async task lane. At most one task per slot is current.
type Slot int

const (
	SlotRange Slot = iota
	SlotDomain
	SlotQuery
	slotCount
)

func (s Slot) String() string {
	switch s {
	case SlotRange:
		return "relation range"
	case SlotDomain:
		return "module domain"
	case SlotQuery:
		return "query"
	default:
		return "unknown"
	}
}

// State is the full console state. Values are treated as immutable: the
// reducer replaces slices instead of mutating them.
type State struct {
	Mode catalog.Mode

	// Subject is the program id (programs mode) or module name (property mode).
	Subject      string
	SubjectLabel string
	Relation     string
	Object       string

	// ObjectOptions holds the non-empty values of the last relation range.
	ObjectOptions []string
	// ModuleOptions holds the non-empty values of the module domain.
	ModuleOptions []string

	ObjectsLoading bool
	ModulesLoading bool
	Running        bool

	Results []Row
	// Err is the last failure of any slot, shown inline. It never blocks input.
	Err error

	tokens [slotCount]uint64
}

// NewState returns the initial state: programs mode, nothing selected.
func NewState() State {
	return State{Mode: catalog.ModePrograms}
}

// Token returns the latest token issued for slot.
func (s State) Token(slot Slot) uint64 { return s.tokens[slot] }

// Busy reports whether any slot is waiting for a response.
func (s State) Busy() bool {
	return s.ObjectsLoading || s.ModulesLoading || s.Running
}

// CanRun reports whether every field the current mode requires is set.
func (s State) CanRun() bool {
	switch s.Mode {
	case catalog.ModePrograms:
		return s.Subject != ""
	case catalog.ModeModules:
		return s.Relation != "" && s.Object != ""
	case catalog.ModeProperty:
		return s.Subject != "" && s.Relation != ""
	default:
		return false
	}
}

// Clone returns a deep copy safe to hand to other goroutines.
func (s State) Clone() State {
	c := s
	c.ObjectOptions = append([]string(nil), s.ObjectOptions...)
	c.ModuleOptions = append([]string(nil), s.ModuleOptions...)
	if s.Results != nil {
		c.Results = make([]Row, len(s.Results))
		for i, r := range s.Results {
			row := make(Row, len(r))
			for k, v := range r {
				row[k] = v
			}
			c.Results[i] = row
		}
	}
	return c
}
