package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/jwebster45206/logos-engine/pkg/fourthwall"
	"github.com/jwebster45206/logos-engine/pkg/turn"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Reduce noise in tests
	}))
}

func testEngine() *turn.Engine {
	return turn.NewEngine(nil, nil, nil, fourthwall.Constant(1.0), testLogger())
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var response ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&response))
	return response.Error
}
