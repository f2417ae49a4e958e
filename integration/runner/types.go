package runner

import (
	"encoding/json"
	"time"

	"github.com/jwebster45206/logos-engine/pkg/turn"
)

// TestSuite defines a sequence of turns sent for one player.
// Can either be a regular test with Steps, or a suite that references other Cases
type TestSuite struct {
	Name     string       `json:"name"`
	SeedTurn turn.Request `json:"seed_turn,omitempty"` // Base request for every step
	Steps    []TestStep   `json:"steps,omitempty"`
	Cases    []string     `json:"cases,omitempty"` // Used for suite tests (list of case files)
}

// IsSequence returns true if this is a suite that sequences other cases
func (ts *TestSuite) IsSequence() bool {
	return len(ts.Cases) > 0
}

// TestStep is one turn: the seed request with the step's overrides applied.
type TestStep struct {
	Name          string          `json:"name,omitempty"`
	Trust         *float64        `json:"trust,omitempty"`
	LayerOverride *int            `json:"layer_override,omitempty"`
	EngineState   json.RawMessage `json:"engine_state,omitempty"`
	Expectations  Expectations    `json:"expect"`
}

// Expectations defines what to check in the turn response
type Expectations struct {
	Layer         *int     `json:"layer,omitempty"`
	LayerName     *string  `json:"layer_name,omitempty"`
	Stages        []string `json:"stages,omitempty"` // Exact stage order
	AllowOps      *bool    `json:"allow_ops,omitempty"`
	AllowDirector *bool    `json:"allow_director,omitempty"`
	ToolsInclude  []string `json:"tools_include,omitempty"`
	ToolsExclude  []string `json:"tools_exclude,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`

	// Directive Analysis
	DirectiveContains    []string `json:"directive_contains,omitempty"`
	DirectiveNotContains []string `json:"directive_not_contains,omitempty"`
	DirectiveRegex       string   `json:"directive_regex,omitempty"`
	DirectiveMinLength   *int     `json:"directive_min_length,omitempty"`
	DirectiveMaxLength   *int     `json:"directive_max_length,omitempty"`
}

// TestResult contains the outcome of running a test step
type TestResult struct {
	TestName  string
	StepName  string
	Success   bool
	Error     error
	Duration  time.Duration
	Directive string
}

// TestJob represents a test suite to be executed
type TestJob struct {
	Name     string
	Suite    TestSuite
	CaseFile string
}

// TestRunResult contains the results of running an entire test suite
type TestRunResult struct {
	Job      TestJob
	Results  []TestResult
	PlayerID string
	Duration time.Duration
	Error    error
}
