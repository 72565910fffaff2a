// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"modgraph/cli/internal/backend"
	"modgraph/cli/internal/bridge/model"
	apperrors "modgraph/cli/internal/errors"
	"modgraph/cli/internal/graph"
	"modgraph/cli/internal/httperrors"
	"modgraph/cli/internal/manifest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mmds = "M.Sc.[WS]Mannheim[WS]Master[WS]in[WS]Data[WS]Science"

func fixtureStore(t *testing.T) *graph.MemoryStore {
	t.Helper()
	modules, err := graph.LoadModules("../graph/testdata/modules.json")
	require.NoError(t, err)
	store := graph.NewMemoryStore()
	_, err = graph.LoadInto(context.Background(), store, modules)
	require.NoError(t, err)
	return store
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return New(fixtureStore(t), Config{Version: "1.2.3", GRPCOrigin: "grpc://localhost:9090"})
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestQueryEndpoints(t *testing.T) {
	h := newTestServer(t).Handler()

	tests := []struct {
		name string
		path string
		body string
		want string
	}{
		{
			name: "module filter",
			path: "/module-filter",
			body: `{"module": "` + mmds + `"}`,
			want: `{"results": [{"module_name": "Machine Learning"}]}`,
		},
		{
			name: "legacy subject key",
			path: "/module-filter",
			body: `{"subject": "` + mmds + `"}`,
			want: `{"results": [{"module_name": "Machine Learning"}]}`,
		},
		{
			name: "object relation",
			path: "/object-relation",
			body: `{"obj": "8", "relation": "hasECTS"}`,
			want: `{"results": [{"module_name": "Machine Learning", "description": "Understand ML models."}]}`,
		},
		{
			name: "module property",
			path: "/module-property",
			body: `{"module": "Machine Learning", "relation": "taughtBy"}`,
			want: `{"results": [{"module_property": "Dr New"}, {"module_property": "Prof AI"}]}`,
		},
		{
			name: "relation ranges",
			path: "/relation-ranges",
			body: `{"relation": "hasLevel"}`,
			want: `{"results": [{"module_name": "Bachelor"}, {"module_name": "Master"}]}`,
		},
		{
			name: "module domain",
			path: "/module-domain",
			body: `{}`,
			want: `{"results": [{"module_name": "Data Structures and Algorithms"}, {"module_name": "Introduction to Programming"}, {"module_name": "Machine Learning"}]}`,
		},
		{
			name: "module domain without body",
			path: "/module-domain",
			body: ``,
			want: `{"results": [{"module_name": "Data Structures and Algorithms"}, {"module_name": "Introduction to Programming"}, {"module_name": "Machine Learning"}]}`,
		},
		{
			name: "empty result is an empty list",
			path: "/object-relation",
			body: `{"obj": "French", "relation": "hasLanguage"}`,
			want: `{"results": []}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, h, tt.path, tt.body)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.want, rec.Body.String())
		})
	}
}

func TestQueryValidation(t *testing.T) {
	h := newTestServer(t).Handler()

	tests := []struct {
		name    string
		path    string
		body    string
		status  int
		message string
	}{
		{"missing module", "/module-filter", `{}`, http.StatusBadRequest, "missing required field module"},
		{"missing relation", "/object-relation", `{"obj": "6"}`, http.StatusBadRequest, "missing required field relation"},
		{"missing object", "/object-relation", `{"relation": "hasECTS"}`, http.StatusBadRequest, "missing required field obj"},
		{"unknown relation", "/relation-ranges", `{"relation": "hasColor"}`, http.StatusBadRequest, "unknown relation"},
		{"non numeric ects", "/object-relation", `{"obj": "six", "relation": "hasECTS"}`, http.StatusBadRequest, "ECTS value must be a number"},
		{"malformed json", "/module-property", `{"module":`, http.StatusBadRequest, "JSON object"},
		{"body too large", "/module-filter", `{"module": "` + strings.Repeat("x", maxBodyBytes) + `"}`, http.StatusRequestEntityTooLarge, "too large"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, h, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			var body model.ErrorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Contains(t, body.Error, tt.message)
		})
	}
}

// brokenStore fails every query.
type brokenStore struct{ graph.MemoryStore }

var errDisk = errors.New("disk on fire: password=hunter2")

func (*brokenStore) ModulesForProgram(context.Context, string) ([]graph.ModuleRef, error) {
	return nil, errDisk
}

func (*brokenStore) ModuleDomain(context.Context) ([]string, error) { return nil, errDisk }

func TestStoreFailureIs500(t *testing.T) {
	h := New(&brokenStore{}, Config{}).Handler()

	rec := post(t, h, "/module-filter", `{"module": "x"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error": "graph store query failed"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "hunter2")
}

func TestServiceRoutes(t *testing.T) {
	h := newTestServer(t).Handler()

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	rec := get("/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())

	rec = get("/version")
	assert.JSONEq(t, `{"version": "1.2.3"}`, rec.Body.String())

	rec = get("/manifest.json")
	var m manifest.Manifest
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	assert.Equal(t, "grpc://localhost:9090", m.GRPC.Query)
	assert.Equal(t, "/module-filter", m.HTTP.ModuleFilter)
	assert.Equal(t, 1, m.Version)

	rec = get("/module-filter")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = get("/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = get("/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "modgraph_http_requests_total")
}

func TestMiddleware(t *testing.T) {
	h := newTestServer(t).Handler()

	req := httptest.NewRequest(http.MethodOptions, "/module-filter", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader), "an id is generated when none is sent")
	assert.NotEqual(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

// panicStore panics on the module-domain query.
type panicStore struct{ graph.MemoryStore }

func (*panicStore) ModuleDomain(context.Context) ([]string, error) { panic("index corrupted") }

func TestRecoveredPanicIsCounted(t *testing.T) {
	h := New(&panicStore{}, Config{}).Handler()
	route := manifest.Defaults().HTTP.ModuleDomain

	rec := post(t, h, route, `{}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error": "internal server error"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	scrape := httptest.NewRecorder()
	h.ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, scrape.Body.String(),
		`modgraph_http_requests_total{method="POST",route="`+route+`",status="500"}`)
}

func TestRecoveryMiddleware(t *testing.T) {
	s := New(graph.NewMemoryStore(), Config{})
	h := s.recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error": "internal server error"}`, rec.Body.String())
}

func TestHTTPClientAgainstServer(t *testing.T) {
	ts := httptest.NewServer(newTestServer(t).Handler())
	defer ts.Close()

	api := backend.New(ts.URL, manifest.Defaults().HTTP)
	ctx := context.Background()

	rows, err := api.ModulesForProgram(ctx, "B.Sc.[WS]Wirtschaftsinformatik")
	require.NoError(t, err)
	assert.Equal(t, []model.Row{{ModuleName: "Data Structures and Algorithms"}, {ModuleName: "Introduction to Programming"}}, rows)

	rows, err = api.RelationRange(ctx, "hasECTS")
	require.NoError(t, err)
	assert.Equal(t, []model.Row{{ModuleName: "6"}, {ModuleName: "8"}}, rows)

	rows, err = api.ModulesByRelation(ctx, "hasLanguage", "Klingon")
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = api.ModulesByRelation(ctx, "hasColor", "red")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.HTTPStatus))
	var apiErr *httperrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "unknown relation")

	version, err := api.GetVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", version)
}

func TestServeListenersShutsDown(t *testing.T) {
	s := newTestServer(t)
	ln := httptest.NewUnstartedServer(nil).Listener
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.ServeListeners(ctx, ln, nil) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	assert.NoError(t, <-done)
}
