// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

package console

import (
	"encoding/json"
	"io"
	"strings"

	"modgraph/cli/internal/catalog"
	"modgraph/cli/internal/httperrors"

	"github.com/pterm/pterm"
)

// Placeholder is shown instead of a table while there are no results.
const Placeholder = "No results yet. Run a query to see results."

// Column is one result column.
type Column struct {
	Key    string
	Header string
}

// Columns returns the result columns of mode.
func Columns(mode catalog.Mode) []Column {
	switch mode {
	case catalog.ModePrograms:
		return []Column{{ColModuleName, "Module"}}
	case catalog.ModeModules:
		return []Column{{ColModuleName, "Module"}, {ColDescription, "Description"}}
	case catalog.ModeProperty:
		return []Column{{ColModuleName, "Module"}, {ColModuleProperty, "Value"}}
	default:
		return nil
	}
}

// RenderTable renders the result set of s, or Placeholder when it is empty.
func RenderTable(s State) (string, error) {
	if len(s.Results) == 0 {
		return Placeholder, nil
	}
	cols := Columns(s.Mode)
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Header
	}
	data := pterm.TableData{header}
	for _, r := range s.Results {
		line := make([]string, len(cols))
		for i, c := range cols {
			line[i] = r[c.Key]
		}
		data = append(data, line)
	}
	return pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Srender()
}

// RenderStatus returns a short description of the current selection and, when
// present, the last error on its own line.
func RenderStatus(s State) string {
	var b strings.Builder
	b.WriteString(s.Mode.Label())

	field := func(name, value string) {
		if value == "" {
			value = "-"
		}
		b.WriteString(" | " + name + ": " + value)
	}
	switch s.Mode {
	case catalog.ModePrograms:
		field("program", s.SubjectLabel)
	case catalog.ModeModules:
		field("relation", relationLabel(s.Relation))
		switch {
		case s.ObjectsLoading:
			field("object", "loading...")
		default:
			field("object", s.Object)
		}
	case catalog.ModeProperty:
		if s.ModulesLoading {
			field("module", "loading...")
		} else {
			field("module", s.Subject)
		}
		field("relation", relationLabel(s.Relation))
	}
	if s.Running {
		b.WriteString(" | running")
	}
	if s.Err != nil {
		b.WriteString("\n" + httperrors.Describe(s.Err))
	}
	return b.String()
}

// WriteJSON writes the results of s as the canonical envelope.
func WriteJSON(w io.Writer, s State) error {
	results := s.Results
	if results == nil {
		results = []Row{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string][]Row{"results": results})
}

func relationLabel(id string) string {
	if rel, ok := catalog.Relation(id); ok {
		return rel.Label
	}
	return id
}
