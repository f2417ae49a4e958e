package turn

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jwebster45206/logos-engine/pkg/capability"
	"github.com/jwebster45206/logos-engine/pkg/director"
	"github.com/jwebster45206/logos-engine/pkg/disclosure"
	"github.com/jwebster45206/logos-engine/pkg/enginestate"
	"github.com/jwebster45206/logos-engine/pkg/identity"
	"github.com/jwebster45206/logos-engine/pkg/session"
)

// ErrSnapshotNotFound is returned by a SnapshotReader for an unknown player.
var ErrSnapshotNotFound = errors.New("player snapshot not found")

// Request is everything the caller supplies for one turn.
type Request struct {
	PlayerID      string                `json:"player_id,omitempty"`
	Trust         disclosure.TrustScore `json:"trust"`
	LayerOverride *int                  `json:"layer_override,omitempty"`

	Session  *session.Context `json:"session,omitempty"`
	Director *director.State  `json:"director,omitempty"`
	Identity *identity.State  `json:"identity,omitempty"`

	EngineState json.RawMessage            `json:"engine_state,omitempty"`
	LastCommand *enginestate.CommandResult `json:"last_command,omitempty"`

	AccessTier int  `json:"access_tier"`
	FullAccess bool `json:"full_access"`

	// AvailableTools is the player's unlocked tool list. Absent or null means
	// no list was supplied; an empty array lists nothing.
	AvailableTools  []string                    `json:"available_tools"`
	ExperimentScope *capability.ExperimentScope `json:"experiment_scope,omitempty"`
	Experiments     []capability.ExperimentRef  `json:"experiments,omitempty"`
}

// Response is the engine's output for one turn.
type Response struct {
	PlayerID      string             `json:"player_id,omitempty"`
	Layer         disclosure.Layer   `json:"layer"`
	LayerName     string             `json:"layer_name"`
	Directive     string             `json:"directive"`
	Stages        []string           `json:"stages"`
	Tools         capability.ToolSet `json:"tools"`
	AllowOps      bool               `json:"allow_ops"`
	AllowDirector bool               `json:"allow_director"`
	Warnings      []string           `json:"warnings,omitempty"`
}

// Snapshot is the trust store's persisted view of a player.
type Snapshot struct {
	Trust          disclosure.TrustScore `json:"trust"`
	AvailableTools []string              `json:"available_tools"`
	Director       *director.State       `json:"director,omitempty"`
	Identity       *identity.State       `json:"identity,omitempty"`
	AccessTier     int                   `json:"access_tier"`
	FullAccess     bool                  `json:"full_access"`
}

// SnapshotReader reads player snapshots from the trust store. The engine
// never writes to it.
type SnapshotReader interface {
	ReadSnapshot(ctx context.Context, playerID string) (*Snapshot, error)
}

// ApplySnapshot overlays a persisted snapshot onto the request. The store is
// authoritative for trust, the layer and the capability axes, so any layer
// override is cleared; director and identity state from the request win when
// present.
func (r *Request) ApplySnapshot(s *Snapshot) {
	if s == nil {
		return
	}
	r.Trust = s.Trust
	r.LayerOverride = nil
	r.AccessTier = s.AccessTier
	r.FullAccess = s.FullAccess
	r.AvailableTools = s.AvailableTools
	if r.Director == nil {
		r.Director = s.Director
	}
	if r.Identity == nil {
		r.Identity = s.Identity
	}
}

// Axes returns the capability axes for the request.
func (r *Request) Axes() capability.Axes {
	return capability.Axes{
		AccessTier:    r.AccessTier,
		TrustScore:    r.Trust.Float64(),
		HasFullAccess: r.FullAccess,
	}
}

// Layer resolves the disclosure layer for the request.
func (r *Request) Layer() disclosure.Layer {
	return disclosure.Resolve(r.Trust.Float64(), r.LayerOverride)
}

// TrustLayer resolves the layer from trust alone, ignoring any override.
func (r *Request) TrustLayer() disclosure.Layer {
	return disclosure.Resolve(r.Trust.Float64(), nil)
}

// activeExperiment returns the first active experiment supplied.
func (r *Request) activeExperiment() *capability.ExperimentRef {
	for i := range r.Experiments {
		if r.Experiments[i].IsActive() {
			return &r.Experiments[i]
		}
	}
	return nil
}
