package fourthwall

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jwebster45206/logos-engine/pkg/disclosure"
	"github.com/jwebster45206/logos-engine/pkg/session"
)

// Registry is an immutable table of triggers. Build it once at startup and
// share it; nothing mutates it afterwards.
type Registry struct {
	triggers []Trigger
}

// NewRegistry validates triggers and returns a registry holding a private copy.
func NewRegistry(triggers ...Trigger) (*Registry, error) {
	seen := make(map[string]bool, len(triggers))
	for i, t := range triggers {
		if t.ID == "" {
			return nil, fmt.Errorf("trigger %d has no id", i)
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("duplicate trigger id %q", t.ID)
		}
		seen[t.ID] = true
		if t.Weight <= 0 || t.Weight > 1 {
			return nil, fmt.Errorf("trigger %q weight %v outside (0, 1]", t.ID, t.Weight)
		}
		if !t.MinLayer.Valid() {
			return nil, fmt.Errorf("trigger %q has invalid min layer %d", t.ID, t.MinLayer)
		}
		if t.MaxLayer != nil && (*t.MaxLayer < t.MinLayer || !t.MaxLayer.Valid()) {
			return nil, fmt.Errorf("trigger %q has invalid max layer %d", t.ID, *t.MaxLayer)
		}
		if t.Generate == nil {
			return nil, fmt.Errorf("trigger %q has no generator", t.ID)
		}
	}

	copied := make([]Trigger, len(triggers))
	copy(copied, triggers)
	return &Registry{triggers: copied}, nil
}

// Len returns the number of registered triggers.
func (r *Registry) Len() int {
	return len(r.triggers)
}

// Triggers returns a copy of the registered triggers in registry order.
func (r *Registry) Triggers() []Trigger {
	out := make([]Trigger, len(r.triggers))
	copy(out, r.triggers)
	return out
}

type scoredTrigger struct {
	trigger *Trigger
	score   float64
}

// Select returns up to limit hint texts for ctx at layer. Eligible triggers are
// scored as weight × U[0.8, 1.2] using rnd (one draw per eligible trigger, in
// registry order), stable-sorted by score descending, and generated in that
// order. Empty texts are dropped and do not count toward limit.
func (r *Registry) Select(ctx *session.Context, layer disclosure.Layer, limit int, rnd RandomSource) []string {
	if limit <= 0 {
		return nil
	}
	if ctx == nil {
		ctx = &session.Context{}
	}
	if rnd == nil {
		rnd = Constant(0.5) // no jitter: pure weight order
	}

	var candidates []scoredTrigger
	for i := range r.triggers {
		t := &r.triggers[i]
		if !t.Eligible(ctx, layer) {
			continue
		}
		candidates = append(candidates, scoredTrigger{
			trigger: t,
			score:   t.Weight * jitter(rnd.Float64()),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	var texts []string
	for _, c := range candidates {
		text := strings.TrimSpace(c.trigger.Generate(ctx))
		if text == "" {
			continue
		}
		texts = append(texts, text)
		if len(texts) == limit {
			break
		}
	}
	return texts
}

// BlockSize is how many hints BuildBlock requests at layer.
func BlockSize(layer disclosure.Layer) int {
	if layer >= disclosure.LayerPersonal {
		return 3
	}
	return 2
}

// Frequency is the advisory usage rate printed in the block for layer. It is
// guidance for the generator; nothing here enforces it.
func Frequency(layer disclosure.Layer) string {
	if layer >= disclosure.LayerPersonal {
		return "1 in 2-3 interactions"
	}
	return "maximum 1 per 3-4 interactions"
}

// BuildBlock renders the fourth-wall directive block for ctx at layer.
// Layer 0 never produces content, whatever the registry holds.
func (r *Registry) BuildBlock(ctx *session.Context, layer disclosure.Layer, rnd RandomSource) string {
	if layer <= disclosure.LayerPureGame {
		return ""
	}

	texts := r.Select(ctx, layer, BlockSize(layer), rnd)
	if len(texts) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("### Fourth-wall moments (layer %d: %s)\n", int(layer), layer.Name()))
	sb.WriteString(fmt.Sprintf("Frequency: %s. These are optional hints, not instructions.\n\n", Frequency(layer)))
	sb.WriteString(strings.Join(texts, "\n\n"))
	sb.WriteString("\n\nUse at most one of these in a response, woven into the narration so it could be mistaken for atmosphere. Never explain it.")
	if layer >= disclosure.LayerPersonal {
		sb.WriteString(" At this layer the player is allowed to notice, so let the moment linger when they do.")
	}
	return sb.String()
}
