package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jwebster45206/logos-engine/internal/services"
	"github.com/jwebster45206/logos-engine/pkg/capability"
	"github.com/jwebster45206/logos-engine/pkg/turn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postTool(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/tools/execute", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestToolsHandler_ExperimentGate(t *testing.T) {
	backend := &services.MockBackend{}
	store := services.NewMockStore()
	handler := NewToolsHandler(testEngine(), nil, backend, store, testLogger())

	rr := postTool(t, handler, `{"turn":{"trust":0.25},"call":{"name":"world_create_room","args":{"name":"Archive","description":"Dusty."}}}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var result capability.Result
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&result))
	assert.False(t, result.Success)
	assert.Equal(t, capability.ExperimentRequiredMessage, result.Message)
	assert.Empty(t, backend.InvokeCalls)
	assert.Empty(t, store.RecordCalls)

	rr = postTool(t, handler, `{"turn":{"trust":0.25},"call":{"name":"world_create_room","args":{"name":"Archive","description":"Dusty.","experimentId":"exp-1"}}}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&result))
	assert.True(t, result.Success)
	require.Len(t, backend.InvokeCalls, 1)
	assert.Equal(t, "Archive", backend.InvokeCalls[0].Args["name"])
	require.Len(t, store.RecordCalls, 1)
	assert.Equal(t, "exp-1", store.RecordCalls[0].ExperimentID)
	assert.Equal(t, "entity-1", store.RecordCalls[0].EntityID)
}

func TestToolsHandler_UnavailableTool(t *testing.T) {
	backend := &services.MockBackend{}
	handler := NewToolsHandler(testEngine(), nil, backend, nil, testLogger())

	rr := postTool(t, handler, `{"turn":{"trust":0.1},"call":{"name":"director_override"}}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var result capability.Result
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&result))
	assert.False(t, result.Success)
	assert.Empty(t, backend.InvokeCalls)
}

func TestToolsHandler_Errors(t *testing.T) {
	failing := &services.MockBackend{
		InvokeFunc: func(ctx context.Context, call capability.Call) (capability.Result, error) {
			return capability.Result{}, errors.New("world engine unreachable")
		},
	}

	tests := []struct {
		name    string
		handler *ToolsHandler
		method  string
		body    string
		status  int
	}{
		{name: "wrong method", handler: NewToolsHandler(testEngine(), nil, &services.MockBackend{}, nil, testLogger()), method: http.MethodGet, status: http.StatusMethodNotAllowed},
		{name: "no backend", handler: NewToolsHandler(testEngine(), nil, nil, nil, testLogger()), method: http.MethodPost, body: `{"call":{"name":"query_player"}}`, status: http.StatusServiceUnavailable},
		{name: "invalid json", handler: NewToolsHandler(testEngine(), nil, &services.MockBackend{}, nil, testLogger()), method: http.MethodPost, body: `{`, status: http.StatusBadRequest},
		{name: "missing name", handler: NewToolsHandler(testEngine(), nil, &services.MockBackend{}, nil, testLogger()), method: http.MethodPost, body: `{"call":{}}`, status: http.StatusBadRequest},
		{name: "backend failure", handler: NewToolsHandler(testEngine(), nil, failing, nil, testLogger()), method: http.MethodPost, body: `{"call":{"name":"query_player"}}`, status: http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/v1/tools/execute", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			tt.handler.ServeHTTP(rr, req)
			assert.Equal(t, tt.status, rr.Code)
			assert.NotEmpty(t, decodeError(t, rr))
		})
	}
}

func TestToolsHandler_LayerOverrideCannotOpenGate(t *testing.T) {
	body := `{"turn":{"player_id":"p1","layer_override":5},"call":{"name":"world_create_room","args":{"name":"Archive"}}}`

	tests := []struct {
		name   string
		reader turn.SnapshotReader
	}{
		{name: "stored low-trust player", reader: func() turn.SnapshotReader {
			store := services.NewMockStore()
			store.SetSnapshot(&turn.Snapshot{Trust: 0.05})
			return store
		}()},
		{name: "no trust store", reader: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &services.MockBackend{}
			handler := NewToolsHandler(testEngine(), tt.reader, backend, nil, testLogger())

			rr := postTool(t, handler, body)
			require.Equal(t, http.StatusOK, rr.Code)

			var result capability.Result
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&result))
			assert.False(t, result.Success)
			assert.Equal(t, capability.ExperimentRequiredMessage, result.Message)
			assert.Empty(t, backend.InvokeCalls)
		})
	}
}
