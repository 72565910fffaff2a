// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	base := stderrors.New("connection reset")
	wrapped := fmt.Errorf("module filter: %w", Wrap(Transport, "request failed", base))

	assert.Equal(t, Transport, KindOf(wrapped))
	assert.Equal(t, Kind(""), KindOf(base))
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.ErrorIs(t, wrapped, base)
}

func TestIsWalksNestedKinds(t *testing.T) {
	inner := New(HTTPStatus, "status 502")
	outer := Wrap(Store, "query failed", inner)

	assert.True(t, Is(outer, Store))
	assert.True(t, Is(outer, HTTPStatus))
	assert.False(t, Is(outer, Decode))
}

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *E
		want string
	}{
		{"without cause", New(NotReady, "relation is required"), "not_ready: relation is required"},
		{"with cause", Wrap(Decode, "bad envelope", stderrors.New("unexpected EOF")), "decode: bad envelope: unexpected EOF"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}
