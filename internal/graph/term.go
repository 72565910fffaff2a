// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package graph holds the study-module knowledge graph: the triple model, the
// conversion from module records to triples, and the stores that answer the
// five console queries.
//
// Identifiers and literal values are stored with spaces replaced by the literal
// token "[WS]". Query inputs are encoded the same way before matching, and
// every value handed back to callers is decoded again.
package graph

import (
	"strings"
)

// Namespaces used by the graph.
const (
	SchemaNS = "http://example.org/schema/"
	DataNS   = "http://example.org/data/"
	RDFNS    = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	XSDNS    = "http://www.w3.org/2001/XMLSchema#"

	RDFType    = RDFNS + "type"
	XSDString  = XSDNS + "string"
	XSDInteger = XSDNS + "integer"
	XSDDecimal = XSDNS + "decimal"
)

// WS is the token that stands for a space inside identifiers.
const WS = "[WS]"

// EncodeWS trims s and replaces inner spaces with WS. Already encoded input is unchanged.
func EncodeWS(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", WS)
}

// DecodeWS replaces every WS token with a space.
func DecodeWS(s string) string {
	return strings.ReplaceAll(s, WS, " ")
}

// Schema returns the IRI of a schema term such as "hasECTS" or "Module".
func Schema(name string) string { return SchemaNS + name }

// Data returns the IRI of a data entity, encoding spaces in local.
func Data(local string) string { return DataNS + EncodeWS(local) }

// TermKind distinguishes IRIs from literals.
type TermKind uint8

const (
	KindIRI TermKind = iota
	KindLiteral
)

// Term is the object position of a triple.
type Term struct {
	Kind     TermKind
	Value    string
	Datatype string
}

// IRI builds an IRI term.
func IRI(v string) Term { return Term{Kind: KindIRI, Value: v} }

// Literal builds a typed literal term. An empty datatype means xsd:string.
func Literal(v, datatype string) Term {
	if datatype == "" {
		datatype = XSDString
	}
	return Term{Kind: KindLiteral, Value: v, Datatype: datatype}
}

// IsIRI reports whether t is an IRI.
func (t Term) IsIRI() bool { return t.Kind == KindIRI }

// Display returns the human-readable form: the local name of data IRIs, the
// lexical form of literals, with WS decoded in both cases.
func (t Term) Display() string {
	v := t.Value
	if t.Kind == KindIRI {
		v = localName(v)
	}
	return DecodeWS(v)
}

// key identifies a term for equality regardless of literal datatype.
func (t Term) key() string {
	if t.Kind == KindIRI {
		return "i:" + t.Value
	}
	return "l:" + t.Value
}

func localName(iri string) string {
	for _, ns := range []string{DataNS, SchemaNS} {
		if strings.HasPrefix(iri, ns) {
			return strings.TrimPrefix(iri, ns)
		}
	}
	if i := strings.LastIndexAny(iri, "/#"); i >= 0 && i < len(iri)-1 {
		return iri[i+1:]
	}
	return iri
}

// Triple is one subject-predicate-object statement. Subject and Predicate are IRIs.
type Triple struct {
	Subject   string
	Predicate string
	Object    Term
}
