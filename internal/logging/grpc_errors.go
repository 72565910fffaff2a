// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"errors"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// RPCErrorType represents the category of a gRPC failure.
type RPCErrorType int

const (
	RPCErrorUnknown RPCErrorType = iota
	RPCErrorNetwork
	RPCErrorTimeout
	RPCErrorInternal
	RPCErrorUnavailable
	RPCErrorInvalidArgument
	RPCErrorCanceled
)

// ParseRPCError categorizes a gRPC error, using its status code when present
// and falling back to message patterns for errors that lost their status.
func ParseRPCError(err error) RPCErrorType {
	if err == nil {
		return RPCErrorUnknown
	}
	var se interface{ GRPCStatus() *status.Status }
	if errors.As(err, &se) {
		switch se.GRPCStatus().Code() {
		case codes.InvalidArgument, codes.FailedPrecondition, codes.NotFound:
			return RPCErrorInvalidArgument
		case codes.DeadlineExceeded:
			return RPCErrorTimeout
		case codes.Unavailable:
			return RPCErrorUnavailable
		case codes.Internal, codes.DataLoss:
			return RPCErrorInternal
		case codes.Canceled:
			return RPCErrorCanceled
		}
	}

	lower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lower, "rst_stream") || strings.Contains(lower, "connection reset"):
		return RPCErrorNetwork
	case strings.Contains(lower, "internal_error"):
		return RPCErrorInternal
	case strings.Contains(lower, "unavailable"):
		return RPCErrorUnavailable
	case strings.Contains(lower, "deadline") || strings.Contains(lower, "timeout"):
		return RPCErrorTimeout
	}
	return RPCErrorUnknown
}

// FormatRPCError returns a one-line, masked description of a gRPC failure.
func FormatRPCError(err error) string {
	if err == nil {
		return ""
	}
	detail := err.Error()
	if st, ok := status.FromError(err); ok {
		detail = st.Message()
	}
	detail = Mask(strings.TrimSpace(detail))

	var summary string
	switch ParseRPCError(err) {
	case RPCErrorNetwork:
		summary = "connection to the query service was interrupted"
	case RPCErrorTimeout:
		summary = "query service timed out"
	case RPCErrorInternal:
		summary = "query service failed internally"
	case RPCErrorUnavailable:
		summary = "query service is unavailable"
	case RPCErrorInvalidArgument:
		summary = "query service rejected the request"
	case RPCErrorCanceled:
		summary = "request was canceled"
	default:
		summary = "query service call failed"
	}
	if detail == "" {
		return summary
	}
	return summary + ": " + detail
}
