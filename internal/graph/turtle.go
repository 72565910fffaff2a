// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

package graph

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

var turtlePrefixes = []struct{ prefix, iri string }{
	{"ex", SchemaNS},
	{"in", DataNS},
	{"rdf", RDFNS},
	{"xsd", XSDNS},
}

// WriteTurtle serializes triples as Turtle, grouping statements by subject.
// Subjects are written in sorted order so the output is stable.
func WriteTurtle(w io.Writer, triples []Triple) error {
	var sb strings.Builder
	for _, p := range turtlePrefixes {
		fmt.Fprintf(&sb, "@prefix %s: <%s> .\n", p.prefix, p.iri)
	}
	sb.WriteString("\n")

	bySubject := map[string][]Triple{}
	var subjects []string
	for _, t := range triples {
		if _, ok := bySubject[t.Subject]; !ok {
			subjects = append(subjects, t.Subject)
		}
		bySubject[t.Subject] = append(bySubject[t.Subject], t)
	}
	sort.Strings(subjects)

	for _, subject := range subjects {
		sb.WriteString(compactIRI(subject))
		sb.WriteString("\n")
		ts := bySubject[subject]
		for i, t := range ts {
			pred := compactIRI(t.Predicate)
			if t.Predicate == RDFType {
				pred = "a"
			}
			fmt.Fprintf(&sb, "    %s %s", pred, formatObject(t.Object))
			if i < len(ts)-1 {
				sb.WriteString(" ;\n")
			} else {
				sb.WriteString(" .\n")
			}
		}
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func compactIRI(iri string) string {
	for _, p := range turtlePrefixes {
		if local, ok := strings.CutPrefix(iri, p.iri); ok && isPrefixedLocal(local) {
			return p.prefix + ":" + local
		}
	}
	return "<" + iri + ">"
}

// isPrefixedLocal reports whether local can be written after "prefix:" as is.
func isPrefixedLocal(local string) bool {
	if local == "" {
		return false
	}
	for _, r := range local {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}

func formatObject(t Term) string {
	if t.IsIRI() {
		return compactIRI(t.Value)
	}
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`).Replace(t.Value)
	if t.Datatype == "" || t.Datatype == XSDString {
		return `"` + escaped + `"`
	}
	return `"` + escaped + `"^^` + compactIRI(t.Datatype)
}
