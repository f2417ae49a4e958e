package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jwebster45206/logos-engine/internal/services"
)

func TestHealthHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		setupStore     func() services.Store
		worldEnabled   bool
		expectedStatus int
		expectedHealth string
		expectedStore  string
		expectedWorld  string
	}{
		{
			name:           "all healthy",
			setupStore:     func() services.Store { return services.NewMockStore() },
			worldEnabled:   true,
			expectedStatus: http.StatusOK,
			expectedHealth: "healthy",
			expectedStore:  "healthy",
			expectedWorld:  "configured",
		},
		{
			name: "unhealthy store",
			setupStore: func() services.Store {
				store := services.NewMockStore()
				store.SetPingError(errors.New("connection failed"))
				return store
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedHealth: "degraded",
			expectedStore:  "unhealthy",
			expectedWorld:  "disabled",
		},
		{
			name:           "no store configured",
			setupStore:     func() services.Store { return nil },
			expectedStatus: http.StatusOK,
			expectedHealth: "healthy",
			expectedStore:  "disabled",
			expectedWorld:  "disabled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(tt.setupStore(), tt.worldEnabled, testLogger())

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, rr.Code)
			}
			if rr.Header().Get("Content-Type") != "application/json" {
				t.Errorf("Expected Content-Type application/json, got %s", rr.Header().Get("Content-Type"))
			}

			var response HealthResponse
			if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if response.Status != tt.expectedHealth {
				t.Errorf("Expected status '%s', got '%s'", tt.expectedHealth, response.Status)
			}
			if response.Service != "logos-engine" {
				t.Errorf("Expected service 'logos-engine', got '%s'", response.Service)
			}
			if response.Components["trust_store"] != tt.expectedStore {
				t.Errorf("Expected trust_store '%s', got '%s'", tt.expectedStore, response.Components["trust_store"])
			}
			if response.Components["world_engine"] != tt.expectedWorld {
				t.Errorf("Expected world_engine '%s', got '%s'", tt.expectedWorld, response.Components["world_engine"])
			}
		})
	}
}
