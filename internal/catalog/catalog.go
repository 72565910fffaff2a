// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package catalog holds the fixed option sets offered by the console: the study
// programs, the relations that can be queried, and the query modes.
//
// Program identifiers are sent to the backend verbatim. Spaces inside them are
// already encoded with the literal "[WS]" token used by the knowledge graph.
package catalog

import "strings"

// Mode identifies one of the independent query tabs.
type Mode string

const (
	// ModePrograms lists modules available for a study program.
	ModePrograms Mode = "programs"
	// ModeModules filters modules by a relation and an object value.
	ModeModules Mode = "modules"
	// ModeProperty reads one relation of a single module.
	ModeProperty Mode = "main"
)

// Option is a selectable value with a display label.
type Option struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

var programs = []Option{
	{ID: "M.Sc.[WS]Mannheim[WS]Master[WS]in[WS]Data[WS]Science", Label: "MMDS"},
	{ID: "B.Sc.[WS]Wirtschaftsinformatik", Label: "B.Sc. Business Informatics"},
	{ID: "M.Sc.[WS]Wirtschaftsinformatik", Label: "M.Sc. Business Informatics"},
	{ID: "B.Sc.[WS]Wirtschaftsmathematik", Label: "B.Sc. Mathematics in Business and Economics"},
	{ID: "M.Sc.[WS]Wirtschaftsmathematik", Label: "M.Sc. Mathematics in Business and Economics"},
}

var relations = []Option{
	{ID: "hasECTS", Label: "ECTS"},
	{ID: "hasLevel", Label: "Level"},
	{ID: "taughtBy", Label: "Lecturer"},
	{ID: "hasType", Label: "Type"},
	{ID: "offeredIn", Label: "Offering"},
	{ID: "hasLanguage", Label: "Language"},
}

var modes = []Option{
	{ID: string(ModePrograms), Label: "Programs"},
	{ID: string(ModeModules), Label: "Filter by relation"},
	{ID: string(ModeProperty), Label: "Module property"},
}

// Programs returns the study programs in display order.
func Programs() []Option { return clone(programs) }

// Relations returns the queryable relations in display order.
func Relations() []Option { return clone(relations) }

// Modes returns the query modes in display order.
func Modes() []Option { return clone(modes) }

// Program resolves a program by identifier or label, case-insensitively.
func Program(key string) (Option, bool) { return lookup(programs, key) }

// Relation resolves a relation by identifier or label, case-insensitively.
func Relation(key string) (Option, bool) { return lookup(relations, key) }

// ModeByID resolves a mode by identifier or label.
func ModeByID(key string) (Mode, bool) {
	o, ok := lookup(modes, key)
	return Mode(o.ID), ok
}

// Label returns the display label for a mode.
func (m Mode) Label() string {
	for _, o := range modes {
		if o.ID == string(m) {
			return o.Label
		}
	}
	return string(m)
}

func lookup(opts []Option, key string) (Option, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Option{}, false
	}
	for _, o := range opts {
		if o.ID == key {
			return o, true
		}
	}
	for _, o := range opts {
		if strings.EqualFold(o.ID, key) || strings.EqualFold(o.Label, key) {
			return o, true
		}
	}
	return Option{}, false
}

func clone(opts []Option) []Option {
	out := make([]Option, len(opts))
	copy(out, opts)
	return out
}
