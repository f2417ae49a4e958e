package disclosure

import (
	"fmt"
	"math"
)

// Layer is the disclosure band derived from a trust score. Higher layers let
// the narrator reveal more of what it is.
type Layer int

const (
	LayerPureGame     Layer = 0 // pure game, denies everything
	LayerCracks       Layer = 1 // occasional slips
	LayerAcknowledged Layer = 2 // admits to watching
	LayerPersonal     Layer = 3 // speaks to the player directly
	LayerConfession   Layer = 4 // explains itself
	LayerTransparent  Layer = 5 // full transparency, recruits openly

	MinLayer = LayerPureGame
	MaxLayer = LayerTransparent
)

// Trust thresholds, lowest band first. A score below thresholds[i] resolves to
// layer i; anything at or above the last threshold is MaxLayer.
var thresholds = [...]float64{0.2, 0.4, 0.6, 0.8, 0.95}

// Resolve maps a trust score to a layer. A non-nil override is clamped into
// range and always wins. Non-finite or negative trust resolves to
// LayerPureGame so that uncertainty never opens a higher layer.
func Resolve(trust float64, override *int) Layer {
	if override != nil {
		return Clamp(*override)
	}
	if math.IsNaN(trust) || math.IsInf(trust, 0) || trust < 0 {
		return LayerPureGame
	}
	for i, t := range thresholds {
		if trust < t {
			return Layer(i)
		}
	}
	return MaxLayer
}

// Clamp forces n into the valid layer range.
func Clamp(n int) Layer {
	switch {
	case n < int(MinLayer):
		return MinLayer
	case n > int(MaxLayer):
		return MaxLayer
	default:
		return Layer(n)
	}
}

// Name returns the short label used in directive headers and logs.
func (l Layer) Name() string {
	switch l {
	case LayerPureGame:
		return "pure game"
	case LayerCracks:
		return "cracks"
	case LayerAcknowledged:
		return "acknowledged"
	case LayerPersonal:
		return "personal"
	case LayerConfession:
		return "confession"
	case LayerTransparent:
		return "transparent"
	default:
		return fmt.Sprintf("unknown(%d)", int(l))
	}
}

func (l Layer) String() string {
	return fmt.Sprintf("layer %d (%s)", int(l), l.Name())
}

// Valid reports whether l is within [MinLayer, MaxLayer].
func (l Layer) Valid() bool {
	return l >= MinLayer && l <= MaxLayer
}
