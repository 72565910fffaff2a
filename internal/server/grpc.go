// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

package server

import (
	"context"
	"time"

	"modgraph/cli/internal/bridge/model"
	apperrors "modgraph/cli/internal/errors"
	"modgraph/cli/internal/logging"
	"modgraph/cli/internal/metrics"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// queryService is the handler type registered for modgraph.v1.QueryService.
type queryService interface {
	handleRPC(ctx context.Context, method string, in *structpb.Struct) (*structpb.Struct, error)
}

var queryServiceDesc = grpc.ServiceDesc{
	ServiceName: model.ServiceName,
	HandlerType: (*queryService)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: model.MethodModuleFilter, Handler: unaryHandler(model.MethodModuleFilter)},
		{MethodName: model.MethodObjectRelation, Handler: unaryHandler(model.MethodObjectRelation)},
		{MethodName: model.MethodModuleProperty, Handler: unaryHandler(model.MethodModuleProperty)},
		{MethodName: model.MethodRelationRanges, Handler: unaryHandler(model.MethodRelationRanges)},
		{MethodName: model.MethodModuleDomain, Handler: unaryHandler(model.MethodModuleDomain)},
		{MethodName: model.MethodVersion, Handler: unaryHandler(model.MethodVersion)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "modgraph/v1/query.proto",
}

func unaryHandler(method string) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return srv.(queryService).handleRPC(ctx, method, req.(*structpb.Struct))
		}
		if interceptor == nil {
			return handler(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: model.FullMethod(method)}
		return interceptor(ctx, in, info, handler)
	}
}

// GRPCServer returns a gRPC server with the query service registered.
func (s *Server) GRPCServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(s.rpcRecovery, s.rpcInstrument)}, opts...)
	gs := grpc.NewServer(opts...)
	gs.RegisterService(&queryServiceDesc, s)
	return gs
}

func (s *Server) handleRPC(ctx context.Context, method string, in *structpb.Struct) (*structpb.Struct, error) {
	switch method {
	case model.MethodModuleFilter:
		return rpcQuery(ctx, s, in, s.moduleFilter)
	case model.MethodObjectRelation:
		return rpcQuery(ctx, s, in, s.objectRelation)
	case model.MethodModuleProperty:
		return rpcQuery(ctx, s, in, s.moduleProperty)
	case model.MethodRelationRanges:
		return rpcQuery(ctx, s, in, s.relationRanges)
	case model.MethodModuleDomain:
		return rpcQuery(ctx, s, in, s.moduleDomain)
	case model.MethodVersion:
		return model.ToStruct(model.VersionInfo{Version: s.cfg.Version})
	default:
		return nil, status.Errorf(codes.Unimplemented, "unknown method %s", method)
	}
}

func rpcQuery[T any](ctx context.Context, s *Server, in *structpb.Struct, query func(context.Context, T) ([]model.Row, error)) (*structpb.Struct, error) {
	var req T
	if err := model.FromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, "request must be a JSON object")
	}
	rows, err := query(ctx, req)
	if err != nil {
		if !apperrors.Is(err, apperrors.InvalidInput) {
			logging.LogFailure(s.logger, "rpc", err)
		}
		return nil, rpcError(err)
	}
	out, err := model.ToStruct(model.Envelope{Results: rows})
	if err != nil {
		return nil, status.Error(codes.Internal, "encode response")
	}
	return out, nil
}

func rpcError(err error) error {
	if apperrors.Is(err, apperrors.InvalidInput) {
		return status.Error(codes.InvalidArgument, publicMessage(err))
	}
	return status.Error(codes.Internal, publicMessage(err))
}

func (s *Server) rpcRecovery(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("panic recovered in rpc", s.logger.Args("method", info.FullMethod, "error", rec))
			err = status.Error(codes.Internal, "internal server error")
		}
	}()
	return handler(ctx, req)
}

func (s *Server) rpcInstrument(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	duration := time.Since(start)

	code := status.Code(err)
	if err != nil {
		s.logger.Debug("rpc error", s.logger.Args("method", info.FullMethod, "error", logging.FormatRPCError(err)))
	}
	s.logger.Debug("rpc request", s.logger.Args("method", info.FullMethod, "code", code.String(), "duration", duration.String()))
	metrics.RPCRequestDuration.WithLabelValues(info.FullMethod).Observe(duration.Seconds())
	metrics.RPCRequestsTotal.WithLabelValues(info.FullMethod, code.String()).Inc()
	return resp, err
}
