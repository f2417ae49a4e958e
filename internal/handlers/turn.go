package handlers

import (
	"log/slog"
	"net/http"

	"github.com/jwebster45206/logos-engine/internal/logger"
	"github.com/jwebster45206/logos-engine/pkg/turn"
)

// TurnHandler serves POST /v1/turn: it returns the directive and tool list
// for one turn.
type TurnHandler struct {
	engine *turn.Engine
	reader turn.SnapshotReader
	logger *slog.Logger
}

// NewTurnHandler creates a turn handler. reader may be nil.
func NewTurnHandler(engine *turn.Engine, reader turn.SnapshotReader, logger *slog.Logger) *TurnHandler {
	return &TurnHandler{
		engine: engine,
		reader: reader,
		logger: logger,
	}
}

func (h *TurnHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.logger.Warn("Method not allowed for turn endpoint", "method", r.Method, "path", r.URL.Path)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
		return
	}

	var req turn.Request
	if err := decodeBody(w, r, &req); err != nil {
		h.logger.Warn("Invalid turn request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body. Expected a JSON turn request.")
		return
	}

	log := logger.WithPlayerID(h.logger, req.PlayerID)
	ctx := r.Context()
	if err := applySnapshot(ctx, h.reader, &req, log); err != nil {
		log.Error("Failed to read player snapshot", "error", err)
		writeError(w, h.logger, http.StatusServiceUnavailable, "Trust store unavailable.")
		return
	}

	resp, err := h.engine.Compose(ctx, &req)
	if err != nil {
		log.Error("Failed to compose turn", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to compose turn.")
		return
	}

	log.Info("Turn composed",
		"layer", int(resp.Layer),
		"stages", len(resp.Stages),
		"tools", len(resp.Tools))
	writeJSON(w, h.logger, http.StatusOK, resp)
}
