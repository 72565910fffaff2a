// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

package httperrors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	apperrors "modgraph/cli/internal/errors"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{"server status", apperrors.Wrap(apperrors.HTTPStatus, "module filter", &APIError{StatusCode: 502}), CategoryServer},
		{"client status", &APIError{StatusCode: 400, Message: "relation is required"}, CategoryClient},
		{"decode", apperrors.Wrap(apperrors.Decode, "bad envelope", errors.New("json: cannot unmarshal array")), CategoryDecode},
		{"deadline", apperrors.Wrap(apperrors.Transport, "post", context.DeadlineExceeded), CategoryTimeout},
		{"canceled", fmt.Errorf("post: %w", context.Canceled), CategoryCanceled},
		{"dns", &net.DNSError{Err: "no such host", Name: "graph.invalid"}, CategoryDNS},
		{"refused", &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, CategoryRefused},
		{"tls", errors.New("tls: failed to verify certificate"), CategoryTLS},
		{"other transport", apperrors.Wrap(apperrors.Transport, "post", errors.New("EOF")), CategoryNetwork},
		{"unexpected", errors.New("weird"), CategoryUnexpected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "", Describe(nil))
	assert.Equal(t,
		"The query service failed (status 503). Previous results are kept.",
		Describe(apperrors.Wrap(apperrors.HTTPStatus, "run", &APIError{StatusCode: 503})))
	assert.Equal(t,
		"The query was rejected (status 400): unknown relation",
		Describe(&APIError{StatusCode: 400, Message: "unknown relation"}))
	assert.Equal(t,
		"Cannot reach the query service: EOF",
		Describe(apperrors.Wrap(apperrors.Transport, "post", errors.New("EOF"))))
}

func TestAPIErrorMessage(t *testing.T) {
	assert.Equal(t, "backend returned status 500", (&APIError{StatusCode: 500}).Error())
	assert.Equal(t, "backend returned status 404: not found", (&APIError{StatusCode: 404, Message: "not found"}).Error())
}

func TestExtractHostFromURL(t *testing.T) {
	assert.Equal(t, "localhost:8080", ExtractHostFromURL("http://localhost:8080/module-filter"))
	assert.Equal(t, "server", ExtractHostFromURL("::bad"))
}
