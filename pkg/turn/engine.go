package turn

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jwebster45206/logos-engine/pkg/capability"
	"github.com/jwebster45206/logos-engine/pkg/disclosure"
	"github.com/jwebster45206/logos-engine/pkg/enginestate"
	"github.com/jwebster45206/logos-engine/pkg/fourthwall"
	"github.com/jwebster45206/logos-engine/pkg/prompts"
)

// WarningEngineStateOmitted is reported when a malformed engine-state blob
// was dropped from the directive.
const WarningEngineStateOmitted = "engine_state omitted: malformed blob"

// Engine runs the resolver, composer and capability gate for a turn. Its
// tables are read-only, so one Engine serves concurrent turns.
type Engine struct {
	personas *disclosure.PersonaSet
	registry *fourthwall.Registry
	catalog  capability.ToolSet
	rnd      fourthwall.RandomSource
	logger   *slog.Logger
}

// NewEngine creates an engine. nil arguments fall back to the embedded
// personas, the default registry, the default catalog and a time-seeded
// random source.
func NewEngine(personas *disclosure.PersonaSet, registry *fourthwall.Registry, catalog capability.ToolSet, rnd fourthwall.RandomSource, logger *slog.Logger) *Engine {
	if personas == nil {
		personas = disclosure.DefaultPersonas()
	}
	if registry == nil {
		registry = fourthwall.DefaultRegistry()
	}
	if catalog == nil {
		catalog = capability.DefaultCatalog()
	}
	if rnd == nil {
		rnd = fourthwall.NewLockedSource(uint64(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		personas: personas,
		registry: registry,
		catalog:  catalog,
		rnd:      rnd,
		logger:   logger,
	}
}

// Catalog returns the engine's tool catalog.
func (e *Engine) Catalog() capability.ToolSet {
	return e.catalog
}

// Tools returns the tools available for req.
func (e *Engine) Tools(req *Request) capability.ToolSet {
	return capability.Available(req.Axes(), e.catalog, req.AvailableTools, req.ExperimentScope)
}

// Compose builds the directive and tool list for one turn. A malformed
// engine-state blob is logged and left out; the turn still succeeds.
func (e *Engine) Compose(ctx context.Context, req *Request) (*Response, error) {
	layer := req.Layer()
	axes := req.Axes()

	resp := &Response{
		PlayerID:      req.PlayerID,
		Layer:         layer,
		LayerName:     layer.Name(),
		Tools:         e.Tools(req),
		AllowOps:      axes.AllowOps(),
		AllowDirector: axes.AllowDirector(),
	}

	status, err := enginestate.Parse(req.EngineState)
	if err != nil {
		e.logger.WarnContext(ctx, "Omitting engine state from directive",
			"player_id", req.PlayerID,
			"error", err)
		resp.Warnings = append(resp.Warnings, WarningEngineStateOmitted)
		status = nil
	}

	dir := req.Director
	if dir != nil && dir.Experiment == nil {
		if exp := req.activeExperiment(); exp != nil {
			withExp := *dir
			withExp.Experiment = exp
			dir = &withExp
		}
	}

	stages, err := prompts.New().
		WithLayer(layer).
		WithPersonas(e.personas).
		WithRegistry(e.registry).
		WithRandom(e.rnd).
		WithSession(req.Session).
		WithDirector(dir).
		WithEngineStatus(status, req.LastCommand).
		WithIdentity(req.Identity).
		BuildStages()
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(stages))
	resp.Stages = make([]string, len(stages))
	for i, s := range stages {
		texts[i] = s.Text
		resp.Stages[i] = s.Name
	}
	resp.Directive = strings.Join(texts, prompts.StageSeparator)

	e.logger.DebugContext(ctx, "Turn composed",
		"player_id", req.PlayerID,
		"layer", int(layer),
		"stages", resp.Stages,
		"tools", len(resp.Tools))

	return resp, nil
}

// Executor returns a tool executor bound to req's available tools and the
// layer its trust resolves to. The layer override never reaches the
// experiment gate.
func (e *Engine) Executor(req *Request, backend capability.Backend, links capability.LinkRecorder) *capability.Executor {
	return capability.NewExecutor(req.TrustLayer(), e.Tools(req), backend, links, e.logger)
}

