// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"errors"
	"fmt"
	"testing"

	"github.com/pterm/pterm"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestParseRPCError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want RPCErrorType
	}{
		{"invalid argument", status.Error(codes.InvalidArgument, "relation is required"), RPCErrorInvalidArgument},
		{"deadline", status.Error(codes.DeadlineExceeded, "slow"), RPCErrorTimeout},
		{"unavailable", status.Error(codes.Unavailable, "down"), RPCErrorUnavailable},
		{"internal", status.Error(codes.Internal, "boom"), RPCErrorInternal},
		{"wrapped status", fmt.Errorf("module filter: %w", status.Error(codes.Canceled, "stop")), RPCErrorCanceled},
		{"reset by message", errors.New("stream error: RST_STREAM"), RPCErrorNetwork},
		{"plain", errors.New("something odd"), RPCErrorUnknown},
		{"nil", nil, RPCErrorUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseRPCError(tt.err); got != tt.want {
				t.Errorf("ParseRPCError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatRPCError(t *testing.T) {
	got := FormatRPCError(status.Error(codes.Internal, "open postgres://u:p@db/kg failed"))
	want := "query service failed internally: open postgres://*:*@db/kg failed"
	if got != want {
		t.Errorf("FormatRPCError() = %q, want %q", got, want)
	}
	if FormatRPCError(nil) != "" {
		t.Error("FormatRPCError(nil) should be empty")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]pterm.LogLevel{
		"debug":   pterm.LogLevelDebug,
		" WARN ":  pterm.LogLevelWarn,
		"error":   pterm.LogLevelError,
		"off":     pterm.LogLevelDisabled,
		"":        pterm.LogLevelInfo,
		"chatter": pterm.LogLevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
