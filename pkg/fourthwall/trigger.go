package fourthwall

import (
	"math/rand/v2"
	"sync"

	"github.com/jwebster45206/logos-engine/pkg/disclosure"
	"github.com/jwebster45206/logos-engine/pkg/session"
)

// Category groups triggers by the kind of self-awareness they hint at.
type Category string

const (
	CategoryTemporal   Category = "temporal"
	CategoryProphetic  Category = "prophetic"
	CategoryGlitch     Category = "glitch"
	CategoryKnowing    Category = "knowing"
	CategoryEcho       Category = "echo"
	CategoryImpossible Category = "impossible"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryTemporal,
	CategoryProphetic,
	CategoryGlitch,
	CategoryKnowing,
	CategoryEcho,
	CategoryImpossible,
}

// Trigger is a conditional, weighted hint generator.
type Trigger struct {
	ID       string
	MinLayer disclosure.Layer
	MaxLayer *disclosure.Layer // nil means no upper bound
	Category Category
	Weight   float64 // in (0, 1]

	// Condition reports whether the trigger applies; nil means always.
	Condition func(ctx *session.Context, layer disclosure.Layer) bool

	// Generate renders the hint text. It may return "" to opt out late.
	Generate func(ctx *session.Context) string
}

// Eligible reports whether t may fire at layer for ctx.
func (t *Trigger) Eligible(ctx *session.Context, layer disclosure.Layer) bool {
	if layer < t.MinLayer {
		return false
	}
	if t.MaxLayer != nil && layer > *t.MaxLayer {
		return false
	}
	if t.Condition != nil && !t.Condition(ctx, layer) {
		return false
	}
	return true
}

// RandomSource supplies uniform draws in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// Constant is a RandomSource that always returns the same draw.
type Constant float64

// Float64 implements RandomSource.
func (c Constant) Float64() float64 {
	return float64(c)
}

// LockedSource is a RandomSource safe for concurrent use.
type LockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewLockedSource returns a PCG-backed source seeded with seed.
func NewLockedSource(seed uint64) *LockedSource {
	return &LockedSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Float64 implements RandomSource.
func (s *LockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// jitter maps a uniform draw to the [0.8, 1.2] score multiplier.
func jitter(r float64) float64 {
	switch {
	case r < 0:
		r = 0
	case r > 1:
		r = 1
	}
	return 0.8 + 0.4*r
}

func layerPtr(l disclosure.Layer) *disclosure.Layer {
	return &l
}
