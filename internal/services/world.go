package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/jwebster45206/logos-engine/pkg/capability"
)

// MutationsPath is the world engine endpoint that performs tool calls.
const MutationsPath = "/v1/mutations"

// WorldEngineClient forwards tool calls to the world engine over HTTP.
type WorldEngineClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ capability.Backend = (*WorldEngineClient)(nil)

type mutationRequest struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args"`
}

// NewWorldEngineClient creates a client for the world engine at baseURL.
func NewWorldEngineClient(baseURL string, timeout time.Duration, logger *slog.Logger) *WorldEngineClient {
	return &WorldEngineClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Invoke posts the call unchanged and relays the world engine's result.
// A 4xx answer carrying a result body is relayed as a failed result; other
// non-200 answers are errors.
func (c *WorldEngineClient) Invoke(ctx context.Context, call capability.Call) (capability.Result, error) {
	args := call.Args
	if args == nil {
		args = map[string]any{}
	}
	reqBody, err := json.Marshal(mutationRequest{Tool: call.Name, Args: args})
	if err != nil {
		return capability.Result{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+MutationsPath, bytes.NewBuffer(reqBody))
	if err != nil {
		return capability.Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return capability.Result{}, fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return capability.Result{}, fmt.Errorf("failed to read response body: %w", err)
	}

	var result capability.Result
	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.Unmarshal(body, &result); err != nil {
			return capability.Result{}, fmt.Errorf("failed to parse response: %w", err)
		}
	case resp.StatusCode >= 400 && resp.StatusCode < 500 && json.Unmarshal(body, &result) == nil && result.Message != "":
		result.Success = false
	default:
		return capability.Result{}, fmt.Errorf("world engine request failed with status %d: %s", resp.StatusCode, string(body))
	}

	c.logger.Debug("World engine call completed",
		"tool", call.Name,
		"success", result.Success,
		"entity_id", result.EntityID)
	return result, nil
}
