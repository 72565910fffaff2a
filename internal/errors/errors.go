// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package errors defines typed errors with categories for user-friendly reporting.
// Every failure that crosses a package boundary (HTTP status, transport, decoding,
// store access) carries a machine-readable Kind so the console can apply one
// uniform failure policy and the presenters can pick a message.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// HTTPStatus indicates the backend answered with a non-2xx status.
	HTTPStatus Kind = "http_status"
	// Transport indicates the request never produced a response.
	Transport Kind = "transport"
	// Decode indicates the response body did not match the expected envelope.
	Decode Kind = "decode"
	// NotReady indicates a query was run before its required fields were set.
	NotReady Kind = "not_ready"
	// InvalidInput indicates a rejected selection or request body.
	InvalidInput Kind = "invalid_input"
	// Store indicates a graph store failure.
	Store Kind = "store"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// KindOf returns the Kind of the outermost *E in err's chain, or "" when none.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	for err != nil {
		var e *E
		if !stderrors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Err
	}
	return false
}
