package capability

import "fmt"

// Tier is the access band a tool belongs to.
type Tier int

const (
	TierBase     Tier = iota // always listed
	TierOps                  // listed when ops access is allowed
	TierDirector             // listed when director access is allowed
)

func (t Tier) String() string {
	switch t {
	case TierBase:
		return "base"
	case TierOps:
		return "ops"
	case TierDirector:
		return "director"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// Tool describes a capability the narrator may invoke. The engine only reads
// Name, Tier and WorldMutating; the rest is passed through to the generator.
type Tool struct {
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Parameters    map[string]any `json:"parameters,omitempty"` // JSON schema
	Tier          Tier           `json:"-"`
	WorldMutating bool           `json:"-"`
}

// ToolSet is an ordered list of tools, unique by name.
type ToolSet []Tool

// Names returns the tool names in order.
func (s ToolSet) Names() []string {
	names := make([]string, len(s))
	for i, t := range s {
		names[i] = t.Name
	}
	return names
}

// Get returns the tool with the given name.
func (s ToolSet) Get(name string) (Tool, bool) {
	for _, t := range s {
		if t.Name == name {
			return t, true
		}
	}
	return Tool{}, false
}

// Has reports whether the set contains name.
func (s ToolSet) Has(name string) bool {
	_, ok := s.Get(name)
	return ok
}
