// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"modgraph/cli/internal/bridge/model"
	apperrors "modgraph/cli/internal/errors"
	"modgraph/cli/internal/logging"
	"modgraph/cli/internal/manifest"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns the HTTP API.
func (s *Server) Handler() http.Handler {
	paths := manifest.Defaults().HTTP

	r := chi.NewRouter()
	r.Use(middleware.RequestID, echoRequestID, s.instrument, s.recovery, s.cors)

	r.Post(paths.ModuleFilter, queryHandler(s, s.moduleFilter))
	r.Post(paths.ObjectRelation, queryHandler(s, s.objectRelation))
	r.Post(paths.ModuleProperty, queryHandler(s, s.moduleProperty))
	r.Post(paths.RelationRanges, queryHandler(s, s.relationRanges))
	r.Post(paths.ModuleDomain, queryHandler(s, s.moduleDomain))

	r.Get(paths.Health, s.handleHealth)
	r.Get(paths.Version, s.handleVersion)
	r.Get("/manifest.json", s.handleManifest)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, model.ErrorBody{Error: "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, model.ErrorBody{Error: "method not allowed"})
	})
	return r
}

// queryHandler decodes a T from the request body, runs query and writes the
// envelope or an error body.
func queryHandler[T any](s *Server, query func(context.Context, T) ([]model.Row, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req T
		if status, err := decodeBody(w, r, &req); err != nil {
			writeJSON(w, status, model.ErrorBody{Error: err.Error()})
			return
		}
		rows, err := query(r.Context(), req)
		if err != nil {
			s.writeQueryError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, model.Envelope{Results: rows})
	}
}

// decodeBody reads at most maxBodyBytes of JSON. An empty body decodes as {}.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) (int, error) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(body).Decode(dst)
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil, errors.Is(err, io.EOF):
		return 0, nil
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, errors.New("request body too large")
	default:
		return http.StatusBadRequest, errors.New("request body must be a JSON object")
	}
}

func (s *Server) writeQueryError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if apperrors.Is(err, apperrors.InvalidInput) {
		status = http.StatusBadRequest
	} else {
		logging.LogFailure(s.logger, r.URL.Path, err)
	}
	writeJSON(w, status, model.ErrorBody{Error: publicMessage(err)})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, model.VersionInfo{Version: s.cfg.Version})
}

func (s *Server) handleManifest(w http.ResponseWriter, _ *http.Request) {
	m := manifest.Defaults()
	m.GRPC.Query = s.cfg.GRPCOrigin
	writeJSON(w, http.StatusOK, m)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
