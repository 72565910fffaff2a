// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"modgraph/cli/internal/bridge/model"
	apperrors "modgraph/cli/internal/errors"
	"modgraph/cli/internal/httperrors"
	"modgraph/cli/internal/logging"
	"modgraph/cli/internal/manifest"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
)

// RequestIDHeader carries a per-request id that the server echoes in its logs.
const RequestIDHeader = "X-Request-ID"

const maxResponseBytes = 8 << 20

// HTTP implements API over the JSON endpoints.
type HTTP struct {
	// baseURL is the origin all endpoint paths are joined to (e.g. "http://localhost:8080")
	baseURL string
	// endpoints contains the URL paths for the query endpoints
	endpoints manifest.HTTPEndpoints
	// client is the underlying HTTP client with configured timeout
	client *http.Client
	logger *pterm.Logger
}

// newHTTP creates a new HTTP client with the given base URL and endpoints.
// It configures a 10-second timeout unless overridden.
func newHTTP(baseURL string, endpoints manifest.HTTPEndpoints, opts ...Option) *HTTP {
	h := &HTTP{
		baseURL:   strings.TrimRight(baseURL, "/"),
		endpoints: endpoints,
		client:    &http.Client{Timeout: 10 * time.Second},
		logger:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// GetVersion calls GET version and returns the version string when available.
func (h *HTTP) GetVersion(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+h.endpoints.Version, nil)
	if err != nil {
		return "", err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return "", apperrors.Wrap(apperrors.Transport, "version", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "unknown", nil
	}
	var out model.VersionInfo
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", apperrors.Wrap(apperrors.Decode, "version", err)
	}
	if out.Version == "" {
		return "unknown", nil
	}
	return out.Version, nil
}

// ModulesForProgram posts {"module": program} to the module-filter endpoint.
func (h *HTTP) ModulesForProgram(ctx context.Context, program string) ([]model.Row, error) {
	return h.post(ctx, "module filter", h.endpoints.ModuleFilter, model.ModuleFilterRequest{Module: program})
}

// ModulesByRelation posts {"obj", "relation"} to the object-relation endpoint.
func (h *HTTP) ModulesByRelation(ctx context.Context, relation, object string) ([]model.Row, error) {
	return h.post(ctx, "object relation", h.endpoints.ObjectRelation, model.ObjectRelationRequest{Obj: object, Relation: relation})
}

// ModuleProperty posts {"module", "relation"} to the module-property endpoint.
func (h *HTTP) ModuleProperty(ctx context.Context, module, relation string) ([]model.Row, error) {
	return h.post(ctx, "module property", h.endpoints.ModuleProperty, model.ModulePropertyRequest{Module: module, Relation: relation})
}

// RelationRange posts {"relation"} to the relation-ranges endpoint.
func (h *HTTP) RelationRange(ctx context.Context, relation string) ([]model.Row, error) {
	return h.post(ctx, "relation ranges", h.endpoints.RelationRanges, model.RelationRangeRequest{Relation: relation})
}

// ModuleDomain posts {} to the module-domain endpoint.
func (h *HTTP) ModuleDomain(ctx context.Context) ([]model.Row, error) {
	return h.post(ctx, "module domain", h.endpoints.ModuleDomain, model.ModuleDomainRequest{})
}

// post sends body as JSON and decodes the canonical envelope.
func (h *HTTP) post(ctx context.Context, op, path string, body any) ([]model.Row, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.InvalidInput, op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Transport, op, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Transport, op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Transport, op, err)
	}

	h.logger.Debug("backend call", h.logger.Args(
		"op", op,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start).String(),
	))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.Wrap(apperrors.HTTPStatus, op, &httperrors.APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(raw),
		})
	}

	rows, err := decodeEnvelope(raw)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Decode, op, err)
	}
	return rows, nil
}

// decodeEnvelope accepts only {"results": [...]}. A bare array, a missing
// results key, or a non-list results value is rejected.
func decodeEnvelope(raw []byte) ([]model.Row, error) {
	var env struct {
		Results *[]model.Row `json:"results"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	if env.Results == nil {
		return nil, errMissingResults
	}
	return *env.Results, nil
}

var errMissingResults = apperrors.New(apperrors.Decode, `response has no "results" list`)

// errorMessage extracts {"error": "..."} or falls back to the trimmed body text.
func errorMessage(raw []byte) string {
	var body model.ErrorBody
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		return body.Error
	}
	msg := strings.TrimSpace(string(raw))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
