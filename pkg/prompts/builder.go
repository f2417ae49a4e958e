package prompts

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/logos-engine/pkg/director"
	"github.com/jwebster45206/logos-engine/pkg/disclosure"
	"github.com/jwebster45206/logos-engine/pkg/enginestate"
	"github.com/jwebster45206/logos-engine/pkg/fourthwall"
	"github.com/jwebster45206/logos-engine/pkg/identity"
	"github.com/jwebster45206/logos-engine/pkg/session"
	"github.com/jwebster45206/logos-engine/pkg/textfilter"
)

// StageSeparator joins non-empty stages in the directive.
const StageSeparator = "\n\n"

// Stage names, in composition order.
const (
	StagePersona    = "persona"
	StageFourthWall = "fourth_wall"
	StagePhase      = "phase_guidance"
	StageEngine     = "engine_state"
	StageIdentity   = "identity"
)

// Stage is one non-empty section of the composed directive.
type Stage struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// Builder composes the narrator directive for one turn using a fluent
// interface. Stages always appear in the same order and empty stages are
// omitted without placeholders.
type Builder struct {
	layer       disclosure.Layer
	personas    *disclosure.PersonaSet
	session     *session.Context
	registry    *fourthwall.Registry
	rnd         fourthwall.RandomSource
	director    *director.State
	engineBlob  []byte
	engineState *enginestate.Status
	lastCommand *enginestate.CommandResult
	identity    *identity.State
}

// New creates a builder using the embedded personas and the default trigger
// registry.
func New() *Builder {
	return &Builder{
		personas: disclosure.DefaultPersonas(),
		registry: fourthwall.DefaultRegistry(),
	}
}

// WithLayer sets the resolved disclosure layer.
func (b *Builder) WithLayer(l disclosure.Layer) *Builder {
	b.layer = disclosure.Clamp(int(l))
	return b
}

// WithPersonas replaces the persona set. nil keeps the current one.
func (b *Builder) WithPersonas(p *disclosure.PersonaSet) *Builder {
	if p != nil {
		b.personas = p
	}
	return b
}

// WithSession sets the session snapshot.
func (b *Builder) WithSession(ctx *session.Context) *Builder {
	b.session = ctx
	return b
}

// WithRegistry replaces the trigger registry. nil disables fourth-wall hints.
func (b *Builder) WithRegistry(r *fourthwall.Registry) *Builder {
	b.registry = r
	return b
}

// WithRandom sets the random source for trigger jitter.
func (b *Builder) WithRandom(rnd fourthwall.RandomSource) *Builder {
	b.rnd = rnd
	return b
}

// WithDirector sets the director snapshot.
func (b *Builder) WithDirector(s *director.State) *Builder {
	b.director = s
	return b
}

// WithEngineState sets the raw engine-state blob and the last command result.
// The blob is parsed during Build.
func (b *Builder) WithEngineState(blob []byte, last *enginestate.CommandResult) *Builder {
	b.engineBlob = blob
	b.engineState = nil
	b.lastCommand = last
	return b
}

// WithEngineStatus sets an already parsed engine status.
func (b *Builder) WithEngineStatus(s *enginestate.Status, last *enginestate.CommandResult) *Builder {
	b.engineBlob = nil
	b.engineState = s
	b.lastCommand = last
	return b
}

// WithIdentity sets the identity flags.
func (b *Builder) WithIdentity(s *identity.State) *Builder {
	b.identity = s
	return b
}

// Build returns the composed directive.
func (b *Builder) Build() (string, error) {
	stages, err := b.BuildStages()
	if err != nil {
		return "", err
	}
	texts := make([]string, len(stages))
	for i, s := range stages {
		texts[i] = s.Text
	}
	return strings.Join(texts, StageSeparator), nil
}

// BuildStages returns the non-empty stages in composition order. An
// unparsable engine-state blob fails with enginestate.ErrMalformedState.
func (b *Builder) BuildStages() ([]Stage, error) {
	if b.personas == nil {
		return nil, fmt.Errorf("persona set is required")
	}

	// Parse first so a bad blob costs no random draws.
	status := b.engineState
	if status == nil && len(b.engineBlob) > 0 {
		parsed, err := enginestate.Parse(b.engineBlob)
		if err != nil {
			return nil, fmt.Errorf("error building engine state block: %w", err)
		}
		status = parsed
	}

	stages := make([]Stage, 0, 5)
	add := func(name, text string) {
		if text = strings.TrimSpace(text); text != "" {
			stages = append(stages, Stage{Name: name, Text: text})
		}
	}

	// 1. Persona
	add(StagePersona, b.personas.Render(b.layer, b.personaData()))

	// 2. Fourth-wall hints
	if b.layer >= disclosure.LayerCracks && b.registry != nil {
		add(StageFourthWall, b.registry.BuildBlock(b.session, b.layer, b.rnd))
	}

	// 3. Director phase guidance
	if b.layer >= disclosure.LayerAcknowledged && b.director != nil {
		add(StagePhase, director.BuildGuidance(b.director))
	}

	// 4. Engine state
	if status != nil {
		add(StageEngine, enginestate.Render(status, b.lastCommand))
	}

	// 5. Identity
	add(StageIdentity, identity.BuildBlock(b.identity))

	return stages, nil
}

func (b *Builder) personaData() disclosure.PersonaData {
	if b.session == nil {
		return disclosure.PersonaData{}
	}
	return disclosure.PersonaData{
		Handle:       textfilter.SanitizeHandle(b.session.Handle),
		SessionCount: b.session.SessionCount,
	}
}
