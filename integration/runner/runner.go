package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/logos-engine/pkg/disclosure"
	"github.com/jwebster45206/logos-engine/pkg/turn"
)

type ErrorHandlingMode string

const ErrorHandlingExit ErrorHandlingMode = "exit"
const ErrorHandlingContinue ErrorHandlingMode = "continue"

// TurnPath is the API route each step posts to.
const TurnPath = "/v1/turn"

// Runner executes integration tests against a running logos-engine API
type Runner struct {
	BaseURL           string
	Client            *http.Client
	Timeout           time.Duration
	Logger            func(format string, args ...interface{})
	ErrorHandlingMode ErrorHandlingMode
}

// NewRunner creates a new test runner
func NewRunner(baseURL string) *Runner {
	return &Runner{
		BaseURL:           strings.TrimSuffix(baseURL, "/"),
		Client:            &http.Client{Timeout: 60 * time.Second},
		Timeout:           30 * time.Second,
		Logger:            func(string, ...interface{}) {},
		ErrorHandlingMode: ErrorHandlingContinue,
	}
}

// LoadTestSuite loads a test suite from a JSON file
func LoadTestSuite(filename string) (TestSuite, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return TestSuite{}, fmt.Errorf("failed to read test file %s: %w", filename, err)
	}

	var suite TestSuite
	if err := json.Unmarshal(content, &suite); err != nil {
		return TestSuite{}, fmt.Errorf("failed to parse JSON in %s: %w", filename, err)
	}

	return suite, nil
}

// LoadTestSuiteWithExpansion loads a test suite and expands it if it's a sequence
// Returns a list of actual test suites (expanded from the sequence if needed)
func LoadTestSuiteWithExpansion(filename string, casesDir string) ([]TestJob, error) {
	suite, err := LoadTestSuite(filename)
	if err != nil {
		return nil, err
	}

	if !suite.IsSequence() {
		return []TestJob{{
			Name:     suite.Name,
			Suite:    suite,
			CaseFile: filename,
		}}, nil
	}

	var jobs []TestJob
	for _, caseFile := range suite.Cases {
		casePath := filepath.Join(casesDir, caseFile)

		// Recursively load (in case a sequence references another sequence)
		subJobs, err := LoadTestSuiteWithExpansion(casePath, casesDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load case '%s' referenced by sequence '%s': %w", caseFile, suite.Name, err)
		}

		jobs = append(jobs, subJobs...)
	}

	return jobs, nil
}

// RunSuite executes a complete test suite under a fresh player id
func (r *Runner) RunSuite(ctx context.Context, suite TestSuite) (TestRunResult, error) {
	start := time.Now()
	result := TestRunResult{
		Job: TestJob{
			Name:  suite.Name,
			Suite: suite,
		},
		Results:  make([]TestResult, 0, len(suite.Steps)),
		PlayerID: uuid.New().String(),
	}

	for i, step := range suite.Steps {
		r.Logger("    [%d/%d] Running step: %s", i+1, len(suite.Steps), step.Name)
		stepResult := r.runStep(ctx, result.PlayerID, suite.SeedTurn, step)
		stepResult.TestName = suite.Name
		result.Results = append(result.Results, stepResult)

		if stepResult.Error != nil {
			r.Logger("    [%d/%d] ✗ %s: %v", i+1, len(suite.Steps), step.Name, stepResult.Error)
			if result.Error == nil {
				result.Error = fmt.Errorf("step %d (%s) failed: %w", i, step.Name, stepResult.Error)
			}
			if r.ErrorHandlingMode == ErrorHandlingExit {
				break
			}
			continue
		}

		r.Logger("    [%d/%d] ✓ %s (%v)", i+1, len(suite.Steps), step.Name, stepResult.Duration)
	}

	result.Duration = time.Since(start)
	return result, result.Error
}

// buildRequest applies a step's overrides to a copy of the seed request.
func buildRequest(playerID string, seed turn.Request, step TestStep) turn.Request {
	req := seed
	req.PlayerID = playerID
	if step.Trust != nil {
		req.Trust = disclosure.TrustScore(*step.Trust)
	}
	if step.LayerOverride != nil {
		n := *step.LayerOverride
		req.LayerOverride = &n
	}
	if len(step.EngineState) > 0 {
		req.EngineState = step.EngineState
	}
	return req
}

// runStep executes a single test step and checks expectations
// Will retry once on timeout errors without backoff
func (r *Runner) runStep(ctx context.Context, playerID string, seed turn.Request, step TestStep) TestResult {
	var result TestResult
	for attempt := 1; attempt <= 2; attempt++ {
		result = r.executeStep(ctx, playerID, seed, step)
		if result.Success || !isTimeout(result.Error) || attempt == 2 {
			return result
		}
		r.Logger("    Timeout detected, retrying step: %s", step.Name)
	}
	return result
}

func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

// executeStep performs the actual step execution
func (r *Runner) executeStep(ctx context.Context, playerID string, seed turn.Request, step TestStep) TestResult {
	start := time.Now()
	result := TestResult{
		StepName: step.Name,
	}

	stepCtx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	resp, err := r.postTurn(stepCtx, buildRequest(playerID, seed, step))
	if err != nil {
		result.Error = fmt.Errorf("failed to post turn: %w", err)
		result.Duration = time.Since(start)
		return result
	}
	result.Directive = resp.Directive

	if err := CheckExpectations(step.Expectations, resp); err != nil {
		result.Error = fmt.Errorf("expectation failed: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	result.Success = true
	result.Duration = time.Since(start)
	return result
}

func (r *Runner) postTurn(ctx context.Context, req turn.Request) (*turn.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal turn request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.BaseURL+TurnPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create POST request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.Client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("turn returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out turn.Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode turn response: %w", err)
	}
	return &out, nil
}

// CheckExpectations compares a turn response against exp and returns the
// first mismatch.
func CheckExpectations(exp Expectations, resp *turn.Response) error {
	if exp.Layer != nil && int(resp.Layer) != *exp.Layer {
		return fmt.Errorf("expected layer %d, got %d", *exp.Layer, int(resp.Layer))
	}
	if exp.LayerName != nil && resp.LayerName != *exp.LayerName {
		return fmt.Errorf("expected layer name %q, got %q", *exp.LayerName, resp.LayerName)
	}
	if exp.Stages != nil && !slices.Equal(exp.Stages, resp.Stages) {
		return fmt.Errorf("expected stages %v, got %v", exp.Stages, resp.Stages)
	}
	if exp.AllowOps != nil && resp.AllowOps != *exp.AllowOps {
		return fmt.Errorf("expected allow_ops to be %t, got %t", *exp.AllowOps, resp.AllowOps)
	}
	if exp.AllowDirector != nil && resp.AllowDirector != *exp.AllowDirector {
		return fmt.Errorf("expected allow_director to be %t, got %t", *exp.AllowDirector, resp.AllowDirector)
	}

	names := resp.Tools.Names()
	for _, name := range exp.ToolsInclude {
		if !slices.Contains(names, name) {
			return fmt.Errorf("expected tool '%s' to be available. Actual tools: %v", name, names)
		}
	}
	for _, name := range exp.ToolsExclude {
		if slices.Contains(names, name) {
			return fmt.Errorf("tool '%s' should not be available. Actual tools: %v", name, names)
		}
	}
	for _, w := range exp.Warnings {
		if !slices.Contains(resp.Warnings, w) {
			return fmt.Errorf("expected warning %q, got %v", w, resp.Warnings)
		}
	}

	for _, text := range exp.DirectiveContains {
		if !strings.Contains(resp.Directive, text) {
			return fmt.Errorf("expected directive to contain '%s', but it didn't", text)
		}
	}
	for _, text := range exp.DirectiveNotContains {
		if strings.Contains(resp.Directive, text) {
			return fmt.Errorf("expected directive to NOT contain '%s', but it did", text)
		}
	}
	if exp.DirectiveRegex != "" {
		re, err := regexp.Compile(exp.DirectiveRegex)
		if err != nil {
			return fmt.Errorf("invalid regex pattern: %w", err)
		}
		if !re.MatchString(resp.Directive) {
			return fmt.Errorf("directive didn't match regex pattern: %s", exp.DirectiveRegex)
		}
	}
	if exp.DirectiveMinLength != nil && len(resp.Directive) < *exp.DirectiveMinLength {
		return fmt.Errorf("expected directive length >= %d, got %d", *exp.DirectiveMinLength, len(resp.Directive))
	}
	if exp.DirectiveMaxLength != nil && len(resp.Directive) > *exp.DirectiveMaxLength {
		return fmt.Errorf("expected directive length <= %d, got %d", *exp.DirectiveMaxLength, len(resp.Directive))
	}

	return nil
}
