package capability

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/logos-engine/pkg/disclosure"
)

// ExperimentIDArg is the call argument linking a world change to an experiment.
const ExperimentIDArg = "experimentId"

// ExperimentRequiredMessage is returned when a world-mutating call at a low
// layer is not linked to an experiment.
const ExperimentRequiredMessage = "World changes at this stage must belong to an active experiment. Provide experimentId for an active experiment, or describe the change in narration instead."

// MaxGatedLayer is the highest layer at which world-mutating calls need an
// experiment id.
const MaxGatedLayer = disclosure.LayerCracks

// ExperimentRef is a behavioral experiment as supplied by the experiment store.
type ExperimentRef struct {
	ID         string `json:"id"`
	Hypothesis string `json:"hypothesis,omitempty"`
	Status     string `json:"status,omitempty"` // e.g. "active", "concluded"
}

// IsActive reports whether the experiment is running.
func (e *ExperimentRef) IsActive() bool {
	return e != nil && e.ID != "" && strings.EqualFold(e.Status, "active")
}

// Call is a tool invocation requested by the generator.
type Call struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// ExperimentID returns the call's experiment id when it is a string with at
// least one non-space character.
func (c Call) ExperimentID() (string, bool) {
	v, ok := c.Args[ExperimentIDArg]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// Result is the structured outcome relayed to the generator as tool output.
type Result struct {
	Success  bool           `json:"success"`
	Message  string         `json:"message,omitempty"`
	EntityID string         `json:"entityId,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// Backend performs tool calls. World-mutating calls reach it only after the
// experiment gate has passed them.
type Backend interface {
	Invoke(ctx context.Context, call Call) (Result, error)
}

// Link associates an entity created or changed by a tool call with the
// experiment it belongs to.
type Link struct {
	ID           string    `json:"id"`
	ExperimentID string    `json:"experiment_id"`
	EntityID     string    `json:"entity_id,omitempty"`
	Tool         string    `json:"tool"`
	Layer        int       `json:"layer"`
	At           time.Time `json:"at"`
}

// LinkRecorder is the side channel for experiment links.
type LinkRecorder interface {
	Record(ctx context.Context, link Link) error
}

// SlogRecorder writes experiment links to a structured logger.
type SlogRecorder struct {
	Logger *slog.Logger
}

// Record implements LinkRecorder.
func (r SlogRecorder) Record(ctx context.Context, link Link) error {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "Experiment link recorded",
		"link_id", link.ID,
		"experiment_id", link.ExperimentID,
		"entity_id", link.EntityID,
		"tool", link.Tool,
		"layer", link.Layer)
	return nil
}

// CheckExperiment applies the experiment gate to a call for tool at layer.
// It returns a rejection and false when the call must not reach the backend.
func CheckExperiment(layer disclosure.Layer, tool Tool, call Call) (Result, bool) {
	if !tool.WorldMutating || layer > MaxGatedLayer {
		return Result{}, true
	}
	if _, ok := call.ExperimentID(); ok {
		return Result{}, true
	}
	return Result{Success: false, Message: ExperimentRequiredMessage}, false
}

// Executor runs tool calls for one turn: it refuses tools that are not listed,
// applies the experiment gate, forwards to the backend and records links.
type Executor struct {
	layer     disclosure.Layer
	available ToolSet
	backend   Backend
	links     LinkRecorder
	logger    *slog.Logger
	now       func() time.Time
}

// NewExecutor creates an executor. links may be nil to skip link recording.
func NewExecutor(layer disclosure.Layer, available ToolSet, backend Backend, links LinkRecorder, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		layer:     layer,
		available: available,
		backend:   backend,
		links:     links,
		logger:    logger,
		now:       time.Now,
	}
}

// Execute runs call. Refusals are ordinary results with Success false; an
// error means the backend itself failed.
func (e *Executor) Execute(ctx context.Context, call Call) (Result, error) {
	tool, ok := e.available.Get(call.Name)
	if !ok {
		e.logger.Warn("Tool call refused: not available", "tool", call.Name, "layer", int(e.layer))
		return Result{Success: false, Message: fmt.Sprintf("Tool %q is not available right now.", call.Name)}, nil
	}

	if rejection, ok := CheckExperiment(e.layer, tool, call); !ok {
		e.logger.Info("World change blocked by experiment gate", "tool", call.Name, "layer", int(e.layer))
		return rejection, nil
	}

	if e.backend == nil {
		return Result{}, fmt.Errorf("no backend configured for tool %q", call.Name)
	}

	result, err := e.backend.Invoke(ctx, call)
	if err != nil {
		return Result{}, fmt.Errorf("tool %s failed: %w", call.Name, err)
	}

	if experimentID, ok := call.ExperimentID(); ok && result.Success && e.links != nil {
		link := Link{
			ID:           uuid.NewString(),
			ExperimentID: experimentID,
			EntityID:     result.EntityID,
			Tool:         call.Name,
			Layer:        int(e.layer),
			At:           e.now().UTC(),
		}
		if err := e.links.Record(ctx, link); err != nil {
			e.logger.Error("Failed to record experiment link", "error", err, "experiment_id", experimentID, "tool", call.Name)
		}
	}

	return result, nil
}

// Layer returns the layer the executor gates against.
func (e *Executor) Layer() disclosure.Layer {
	return e.layer
}
