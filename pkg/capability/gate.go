package capability

// Thresholds on the trust axis.
const (
	OpsTrustThreshold      = 0.55
	DirectorTrustThreshold = 0.75
)

// Axes are the three independent inputs to the capability gate.
type Axes struct {
	AccessTier    int     `json:"access_tier"`
	TrustScore    float64 `json:"trust_score"`
	HasFullAccess bool    `json:"has_full_access"`
}

// AllowOps reports whether ops-tier tools are listed.
func (a Axes) AllowOps() bool {
	return a.HasFullAccess || a.AccessTier >= 1 || a.TrustScore >= OpsTrustThreshold
}

// AllowDirector reports whether the director-tier tool is listed.
func (a Axes) AllowDirector() bool {
	return a.HasFullAccess || a.AccessTier >= 2 || a.TrustScore >= DirectorTrustThreshold
}

// allows reports whether a tool of tier t is listed under a.
func (a Axes) allows(t Tier) bool {
	switch t {
	case TierBase:
		return true
	case TierOps:
		return a.AllowOps()
	case TierDirector:
		return a.AllowDirector()
	default:
		return false
	}
}

// ExperimentScope narrows tools to an active experiment's test plan.
type ExperimentScope struct {
	ExperimentID string   `json:"experiment_id,omitempty"`
	Required     []string `json:"required"`
	Forbidden    []string `json:"forbidden,omitempty"`
}

// permits reports whether name is in Required and not in Forbidden.
func (s *ExperimentScope) permits(name string) bool {
	required := false
	for _, r := range s.Required {
		if r == name {
			required = true
			break
		}
	}
	if !required {
		return false
	}
	for _, f := range s.Forbidden {
		if f == name {
			return false
		}
	}
	return true
}

// Available computes the tools listed this turn. Base-tier tools are always
// included, ops-tier tools when AllowOps, the director tool when AllowDirector.
// A non-nil allowList (even an empty one) intersects the result; a non-nil
// scope further intersects it with Required minus Forbidden. The result keeps
// catalog order and is unique by name.
func Available(axes Axes, catalog ToolSet, allowList []string, scope *ExperimentScope) ToolSet {
	var allowed map[string]bool
	if allowList != nil {
		allowed = make(map[string]bool, len(allowList))
		for _, name := range allowList {
			allowed[name] = true
		}
	}

	seen := make(map[string]bool, len(catalog))
	out := make(ToolSet, 0, len(catalog))
	for _, t := range catalog {
		if seen[t.Name] {
			continue
		}
		if !axes.allows(t.Tier) {
			continue
		}
		if allowed != nil && !allowed[t.Name] {
			continue
		}
		if scope != nil && !scope.permits(t.Name) {
			continue
		}
		seen[t.Name] = true
		out = append(out, t)
	}
	return out
}
