package disclosure

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"text/template"

	"github.com/jwebster45206/logos-engine/pkg/textfilter"
	"gopkg.in/yaml.v3"
)

//go:embed personas.yaml
var defaultPersonasYAML []byte

// ErrIncompletePersonas is returned when a persona set does not define every layer.
var ErrIncompletePersonas = errors.New("persona set must define every layer")

// Persona is the base narrator template for one layer.
type Persona struct {
	Layer    Layer  `yaml:"layer"`
	Name     string `yaml:"name"`
	Template string `yaml:"template"`

	tmpl *template.Template
}

// PersonaData fills the named slots of a persona template.
type PersonaData struct {
	Handle       string
	SessionCount int
	Layer        Layer
}

// Address is how the persona refers to the player: their handle when known.
func (d PersonaData) Address() string {
	if h := textfilter.SanitizeHandle(d.Handle); h != "" {
		return h
	}
	return "the player"
}

// PersonaSet holds one persona per layer. It is read-only once built and safe
// for concurrent use.
type PersonaSet struct {
	byLayer [MaxLayer + 1]*Persona
}

type personaFile struct {
	Personas []Persona `yaml:"personas"`
}

// ParsePersonas builds a PersonaSet from YAML. Layers present in data replace
// those in base; base may be nil. The result must cover every layer.
func ParsePersonas(data []byte, base *PersonaSet) (*PersonaSet, error) {
	var file personaFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse personas: %w", err)
	}

	set := &PersonaSet{}
	if base != nil {
		set.byLayer = base.byLayer
	}

	for i := range file.Personas {
		p := file.Personas[i]
		if !p.Layer.Valid() {
			return nil, fmt.Errorf("persona %q has invalid layer %d", p.Name, int(p.Layer))
		}
		tmpl, err := template.New(fmt.Sprintf("persona-%d", p.Layer)).
			Option("missingkey=error").
			Parse(p.Template)
		if err != nil {
			return nil, fmt.Errorf("failed to parse persona template for layer %d: %w", p.Layer, err)
		}
		p.tmpl = tmpl
		set.byLayer[p.Layer] = &p
	}

	for l, p := range set.byLayer {
		if p == nil {
			return nil, fmt.Errorf("%w: missing layer %d", ErrIncompletePersonas, l)
		}
	}
	return set, nil
}

var loadDefaultPersonas = sync.OnceValues(func() (*PersonaSet, error) {
	return ParsePersonas(defaultPersonasYAML, nil)
})

// DefaultPersonas returns the embedded persona set. It panics if the embedded
// asset is broken, which is a build defect.
func DefaultPersonas() *PersonaSet {
	set, err := loadDefaultPersonas()
	if err != nil {
		panic(fmt.Sprintf("embedded personas are invalid: %v", err))
	}
	return set
}

// LoadPersonas overlays the YAML file at path on the embedded defaults.
// An empty path or a missing file returns the defaults; invalid YAML is an error.
func LoadPersonas(path string) (*PersonaSet, error) {
	if path == "" {
		return DefaultPersonas(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultPersonas(), nil
		}
		return nil, fmt.Errorf("failed to read persona file: %w", err)
	}
	return ParsePersonas(data, DefaultPersonas())
}

// Get returns the persona for a layer, clamping out-of-range values.
func (s *PersonaSet) Get(l Layer) *Persona {
	return s.byLayer[Clamp(int(l))]
}

// Render renders the persona template for l. A template execution failure
// falls back to the raw template text so the narrator never loses its rules.
func (s *PersonaSet) Render(l Layer, data PersonaData) string {
	p := s.Get(l)
	data.Layer = p.Layer

	var sb strings.Builder
	if err := p.tmpl.Execute(&sb, data); err != nil {
		return strings.TrimSpace(p.Template)
	}
	return strings.TrimSpace(sb.String())
}
