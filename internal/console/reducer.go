// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

package console

import (
	stderrors "errors"
	"slices"

	"modgraph/cli/internal/bridge/model"
	"modgraph/cli/internal/catalog"
	apperrors "modgraph/cli/internal/errors"
)

// Action is a user event or a task completion.
type Action interface{ action() }

// SwitchMode selects a query tab.
type SwitchMode struct{ Mode catalog.Mode }

// SelectSubject picks a study program (programs mode) or module (property mode).
type SelectSubject struct{ Subject string }

// SelectRelation picks a relation by id or label.
type SelectRelation struct{ Relation string }

// SelectObject picks one of the loaded object options.
type SelectObject struct{ Object string }

// Run issues the main query of the current mode.
type Run struct{}

// Done reports the outcome of an effect.
type Done struct {
	Effect Effect
	Rows   []model.Row
	Err    error
}

func (SwitchMode) action()     {}
func (SelectSubject) action()  {}
func (SelectRelation) action() {}
func (SelectObject) action()   {}
func (Run) action()            {}
func (Done) action()           {}

// EffectKind names the side effect to run.
type EffectKind int

const (
	FetchRange EffectKind = iota
	FetchDomain
	RunQuery
	// Cancel aborts whatever task currently occupies the slot.
	Cancel
)

// Effect is a side effect requested by the reducer. Inputs are captured at
// issue time so a completion never depends on state that changed meanwhile.
type Effect struct {
	Kind     EffectKind
	Slot     Slot
	Token    uint64
	Mode     catalog.Mode
	Subject  string
	Relation string
	Object   string
}

// ErrStale marks a completion that lost to a newer request in its slot.
var ErrStale = stderrors.New("stale response")

// Reduce applies a to s. On error the returned state equals s and no effects run.
func Reduce(s State, a Action) (State, []Effect, error) {
	switch a := a.(type) {
	case SwitchMode:
		return switchMode(s, a.Mode)
	case SelectSubject:
		return selectSubject(s, a.Subject)
	case SelectRelation:
		return selectRelation(s, a.Relation)
	case SelectObject:
		return selectObject(s, a.Object)
	case Run:
		return run(s)
	case Done:
		return done(s, a)
	default:
		return s, nil, apperrors.New(apperrors.InvalidInput, "unknown action")
	}
}

// switchMode clears every selection field and the result set, invalidates all
// in-flight tokens, and loads the module domain when entering property mode.
func switchMode(s State, m catalog.Mode) (State, []Effect, error) {
	if _, ok := catalog.ModeByID(string(m)); !ok {
		return s, nil, apperrors.New(apperrors.InvalidInput, "unknown mode "+string(m))
	}
	if m == s.Mode {
		return s, nil, nil
	}

	next := State{Mode: m, tokens: s.tokens}
	effects := make([]Effect, 0, int(slotCount)+1)
	for slot := Slot(0); slot < slotCount; slot++ {
		next.tokens[slot]++
		effects = append(effects, Effect{Kind: Cancel, Slot: slot, Token: next.tokens[slot]})
	}
	if m == catalog.ModeProperty {
		next.ModulesLoading = true
		effects = append(effects, Effect{Kind: FetchDomain, Slot: SlotDomain, Token: next.tokens[SlotDomain], Mode: m})
	}
	return next, effects, nil
}

func selectSubject(s State, subject string) (State, []Effect, error) {
	switch s.Mode {
	case catalog.ModePrograms:
		p, ok := catalog.Program(subject)
		if !ok {
			return s, nil, apperrors.New(apperrors.InvalidInput, "unknown study program "+subject)
		}
		s.Subject, s.SubjectLabel = p.ID, p.Label
		return s, nil, nil
	case catalog.ModeProperty:
		if s.ModulesLoading {
			return s, nil, apperrors.New(apperrors.NotReady, "module list is still loading")
		}
		if !slices.Contains(s.ModuleOptions, subject) {
			return s, nil, apperrors.New(apperrors.InvalidInput, "unknown module "+subject)
		}
		s.Subject, s.SubjectLabel = subject, subject
		return s, nil, nil
	default:
		return s, nil, apperrors.New(apperrors.InvalidInput, "this mode has no subject")
	}
}

// selectRelation clears the object before anything else in filter mode and
// starts the range query for the new relation.
func selectRelation(s State, relation string) (State, []Effect, error) {
	if s.Mode == catalog.ModePrograms {
		return s, nil, apperrors.New(apperrors.InvalidInput, "this mode has no relation")
	}
	rel, ok := catalog.Relation(relation)
	if !ok {
		return s, nil, apperrors.New(apperrors.InvalidInput, "unknown relation "+relation)
	}
	s.Relation = rel.ID
	if s.Mode != catalog.ModeModules {
		return s, nil, nil
	}

	s.Object = ""
	s.ObjectOptions = nil
	s.ObjectsLoading = true
	s.tokens[SlotRange]++
	return s, []Effect{{
		Kind:     FetchRange,
		Slot:     SlotRange,
		Token:    s.tokens[SlotRange],
		Mode:     s.Mode,
		Relation: rel.ID,
	}}, nil
}

func selectObject(s State, object string) (State, []Effect, error) {
	if s.Mode != catalog.ModeModules {
		return s, nil, apperrors.New(apperrors.InvalidInput, "this mode has no object")
	}
	if s.ObjectsLoading {
		return s, nil, apperrors.New(apperrors.NotReady, "object values are still loading")
	}
	if !slices.Contains(s.ObjectOptions, object) {
		return s, nil, apperrors.New(apperrors.InvalidInput, "unknown object "+object)
	}
	s.Object = object
	return s, nil, nil
}

func run(s State) (State, []Effect, error) {
	if !s.CanRun() {
		return s, nil, apperrors.New(apperrors.NotReady, "required fields are not set")
	}
	s.tokens[SlotQuery]++
	s.Running = true
	s.Err = nil
	return s, []Effect{{
		Kind:     RunQuery,
		Slot:     SlotQuery,
		Token:    s.tokens[SlotQuery],
		Mode:     s.Mode,
		Subject:  s.Subject,
		Relation: s.Relation,
		Object:   s.Object,
	}}, nil
}

// done applies a completion. Failures leave results and options untouched and
// surface only through Err.
func done(s State, d Done) (State, []Effect, error) {
	e := d.Effect
	if e.Slot < 0 || e.Slot >= slotCount || e.Token != s.tokens[e.Slot] {
		return s, nil, ErrStale
	}

	switch e.Kind {
	case FetchRange:
		s.ObjectsLoading = false
		if d.Err != nil {
			s.Err = d.Err
			return s, nil, nil
		}
		s.ObjectOptions = moduleNames(d.Rows)
	case FetchDomain:
		s.ModulesLoading = false
		if d.Err != nil {
			s.Err = d.Err
			return s, nil, nil
		}
		s.ModuleOptions = moduleNames(d.Rows)
	case RunQuery:
		s.Running = false
		if d.Err != nil {
			s.Err = d.Err
			return s, nil, nil
		}
		s.Results = resultRows(e, d.Rows)
		s.Err = nil
	default:
		return s, nil, ErrStale
	}
	return s, nil, nil
}

// moduleNames keeps the non-empty module_name values in response order.
func moduleNames(rows []model.Row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		if r.ModuleName != "" {
			out = append(out, r.ModuleName)
		}
	}
	return out
}

// resultRows shapes response rows for the mode the query was issued in.
// Property rows are labelled with the subject held when the query started.
func resultRows(e Effect, rows []model.Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		switch e.Mode {
		case catalog.ModePrograms:
			out = append(out, Row{ColModuleName: r.ModuleName})
		case catalog.ModeModules:
			out = append(out, Row{ColModuleName: r.ModuleName, ColDescription: r.Description})
		case catalog.ModeProperty:
			out = append(out, Row{ColModuleName: e.Subject, ColModuleProperty: r.ModuleProperty})
		}
	}
	return out
}
