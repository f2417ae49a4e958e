package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/jwebster45206/logos-engine/pkg/turn"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 1 << 20

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Error encoding response", "error", err, "status", status)
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	writeJSON(w, logger, status, ErrorResponse{Error: message})
}

// decodeBody decodes a JSON body into v, rejecting trailing data.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("unexpected data after JSON body")
	}
	return nil
}

// applySnapshot overlays the stored snapshot for req.PlayerID when a reader
// is configured. An unknown player keeps the request's own values.
func applySnapshot(ctx context.Context, reader turn.SnapshotReader, req *turn.Request, logger *slog.Logger) error {
	if reader == nil || req.PlayerID == "" {
		return nil
	}
	snapshot, err := reader.ReadSnapshot(ctx, req.PlayerID)
	if err != nil {
		if errors.Is(err, turn.ErrSnapshotNotFound) {
			logger.Debug("No stored snapshot, using request values")
			return nil
		}
		return err
	}
	req.ApplySnapshot(snapshot)
	return nil
}
