package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jwebster45206/logos-engine/pkg/session"
	"github.com/jwebster45206/logos-engine/pkg/turn"
)

// sampleRequest is the turn inspected when no file is given: a returning
// player in the middle of the night.
func sampleRequest() *turn.Request {
	now := time.Now().UTC()
	return &turn.Request{
		PlayerID: "console",
		Trust:    0.45,
		Session: &session.Context{
			Handle:               "wren",
			CurrentTime:          time.Date(now.Year(), now.Month(), now.Day(), 2, 30, 0, 0, time.UTC),
			SessionCount:         5,
			DaysSinceLastSession: 10,
		},
	}
}

// loadRequest reads a turn request file. An empty path yields the sample.
func loadRequest(path string) (*turn.Request, error) {
	if path == "" {
		return sampleRequest(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var req turn.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &req, nil
}
