// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package grpcclient provides a gRPC-backed implementation of backend.API.
// Requests and responses travel as google.protobuf.Struct messages that carry
// the same JSON shapes as the HTTP endpoints, so both transports share one
// wire contract and one set of model types.
package grpcclient

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"

	"modgraph/cli/internal/bridge/model"
	apperrors "modgraph/cli/internal/errors"
	"modgraph/cli/internal/httperrors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client implements backend.API using unary calls on the query service.
type Client struct {
	conn *grpc.ClientConn
}

// Dial creates a client for addr. With secure set, TLS is used and a missing
// port defaults to 443. Extra options are appended (tests pass a bufconn dialer).
func Dial(addr string, secure bool, opts ...grpc.DialOption) (*Client, error) {
	target := addr
	var creds credentials.TransportCredentials
	if secure {
		host := addr
		if h, _, err := net.SplitHostPort(addr); err == nil {
			host = h
		} else {
			target = net.JoinHostPort(addr, "443")
		}
		creds = credentials.NewTLS(&tls.Config{ServerName: host, MinVersion: tls.VersionTLS12})
	} else {
		creds = insecure.NewCredentials()
	}

	dialOpts := append([]grpc.DialOption{grpc.WithTransportCredentials(creds)}, opts...)
	conn, err := grpc.NewClient(target, dialOpts...)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Transport, "dial query service", err)
	}
	return &Client{conn: conn}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func (c *Client) GetVersion(ctx context.Context) (string, error) {
	resp, err := c.call(ctx, "version", model.MethodVersion, struct{}{})
	if err != nil {
		return "", err
	}
	var out model.VersionInfo
	if err := model.FromStruct(resp, &out); err != nil {
		return "", apperrors.Wrap(apperrors.Decode, "version", err)
	}
	if out.Version == "" {
		return "unknown", nil
	}
	return out.Version, nil
}

func (c *Client) ModulesForProgram(ctx context.Context, program string) ([]model.Row, error) {
	return c.query(ctx, "module filter", model.MethodModuleFilter, model.ModuleFilterRequest{Module: program})
}

func (c *Client) ModulesByRelation(ctx context.Context, relation, object string) ([]model.Row, error) {
	return c.query(ctx, "object relation", model.MethodObjectRelation, model.ObjectRelationRequest{Obj: object, Relation: relation})
}

func (c *Client) ModuleProperty(ctx context.Context, module, relation string) ([]model.Row, error) {
	return c.query(ctx, "module property", model.MethodModuleProperty, model.ModulePropertyRequest{Module: module, Relation: relation})
}

func (c *Client) RelationRange(ctx context.Context, relation string) ([]model.Row, error) {
	return c.query(ctx, "relation ranges", model.MethodRelationRanges, model.RelationRangeRequest{Relation: relation})
}

func (c *Client) ModuleDomain(ctx context.Context) ([]model.Row, error) {
	return c.query(ctx, "module domain", model.MethodModuleDomain, model.ModuleDomainRequest{})
}

func (c *Client) query(ctx context.Context, op, method string, req any) ([]model.Row, error) {
	resp, err := c.call(ctx, op, method, req)
	if err != nil {
		return nil, err
	}
	results, ok := resp.GetFields()["results"]
	if !ok || results.GetListValue() == nil {
		return nil, apperrors.New(apperrors.Decode, op+`: response has no "results" list`)
	}
	var env model.Envelope
	if err := model.FromStruct(resp, &env); err != nil {
		return nil, apperrors.Wrap(apperrors.Decode, op, err)
	}
	return env.Results, nil
}

func (c *Client) call(ctx context.Context, op, method string, req any) (*structpb.Struct, error) {
	in, err := model.ToStruct(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.InvalidInput, op, err)
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, model.FullMethod(method), in, out); err != nil {
		return nil, classify(op, err)
	}
	return out, nil
}

// classify maps a gRPC failure onto the same kinds the HTTP client reports.
// Status codes that mean "the service answered" become http_status errors with
// the equivalent HTTP status so presenters treat both transports alike.
func classify(op string, err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return apperrors.Wrap(apperrors.Transport, op, err)
	}
	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		return apperrors.Wrap(apperrors.Transport, op, err)
	}
	return apperrors.Wrap(apperrors.HTTPStatus, op, &httperrors.APIError{
		StatusCode: httpStatus(st.Code()),
		Message:    st.Message(),
	})
}

func httpStatus(code codes.Code) int {
	switch code {
	case codes.InvalidArgument, codes.FailedPrecondition, codes.OutOfRange:
		return http.StatusBadRequest
	case codes.NotFound:
		return http.StatusNotFound
	case codes.Unimplemented:
		return http.StatusNotImplemented
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
