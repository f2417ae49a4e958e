package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/jwebster45206/logos-engine/internal/logger"
	"github.com/jwebster45206/logos-engine/pkg/capability"
	"github.com/jwebster45206/logos-engine/pkg/turn"
)

// ToolRequest is the body of POST /v1/tools/execute. Turn carries the same
// gating inputs as a turn request; only the layer and capability fields are
// read.
type ToolRequest struct {
	Turn turn.Request    `json:"turn"`
	Call capability.Call `json:"call"`
}

// ToolsHandler runs one tool call through the availability check and the
// experiment gate before forwarding it.
type ToolsHandler struct {
	engine  *turn.Engine
	reader  turn.SnapshotReader
	backend capability.Backend
	links   capability.LinkRecorder
	logger  *slog.Logger
}

// NewToolsHandler creates a tools handler. reader and links may be nil; a nil
// backend disables execution.
func NewToolsHandler(engine *turn.Engine, reader turn.SnapshotReader, backend capability.Backend, links capability.LinkRecorder, logger *slog.Logger) *ToolsHandler {
	return &ToolsHandler{
		engine:  engine,
		reader:  reader,
		backend: backend,
		links:   links,
		logger:  logger,
	}
}

func (h *ToolsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.logger.Warn("Method not allowed for tools endpoint", "method", r.Method, "path", r.URL.Path)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
		return
	}

	if h.backend == nil {
		writeError(w, h.logger, http.StatusServiceUnavailable, "Tool execution is not configured.")
		return
	}

	var req ToolRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.logger.Warn("Invalid tool request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body. Expected JSON with 'turn' and 'call' fields.")
		return
	}
	if strings.TrimSpace(req.Call.Name) == "" {
		writeError(w, h.logger, http.StatusBadRequest, "call.name is required.")
		return
	}

	log := logger.WithPlayerID(h.logger, req.Turn.PlayerID)
	ctx := r.Context()
	if err := applySnapshot(ctx, h.reader, &req.Turn, log); err != nil {
		log.Error("Failed to read player snapshot", "error", err)
		writeError(w, h.logger, http.StatusServiceUnavailable, "Trust store unavailable.")
		return
	}

	result, err := h.engine.Executor(&req.Turn, h.backend, h.links).Execute(ctx, req.Call)
	if err != nil {
		log.Error("Tool call failed", "error", err, "tool", req.Call.Name)
		writeError(w, h.logger, http.StatusBadGateway, "Tool call failed.")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, result)
}
