package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/jwebster45206/logos-engine/pkg/capability"
	"github.com/jwebster45206/logos-engine/pkg/disclosure"
	"github.com/jwebster45206/logos-engine/pkg/enginestate"
	"github.com/jwebster45206/logos-engine/pkg/turn"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate <turn.json>...",
	Short: "Strictly validate turn request files",
	Long: "Decodes each file with unknown fields disallowed and reports values the\n" +
		"engine would silently normalize: invalid trust, out-of-range overrides,\n" +
		"unknown phases or tools, and malformed engine state.",
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	failed := 0
	for _, filename := range args {
		if err := (&TurnValidator{}).validateFile(filename); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", err)
			failed++
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", filename)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed validation", failed, len(args))
	}
	return nil
}

// TurnValidator collects problems found in one turn request file.
type TurnValidator struct {
	errors []string
}

func (v *TurnValidator) validateFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	if !json.Valid(data) {
		return fmt.Errorf("file %s contains invalid JSON", filename)
	}

	var req turn.Request
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return fmt.Errorf("file %s failed strict JSON unmarshaling: %w", filename, err)
	}

	v.validateRequest(&req)

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}
	return nil
}

func (v *TurnValidator) validateRequest(req *turn.Request) {
	trust := req.Trust.Float64()
	if math.IsNaN(trust) || math.IsInf(trust, 0) || trust < 0 || trust > 1 {
		v.addError("trust must be a number in [0,1], got %v", trust)
	}

	if req.LayerOverride != nil {
		if !disclosure.Layer(*req.LayerOverride).Valid() {
			v.addError("layer_override %d is outside 0-5 and would be clamped", *req.LayerOverride)
		}
	}

	if req.AccessTier < 0 {
		v.addError("access_tier must not be negative, got %d", req.AccessTier)
	}

	if req.Director != nil && req.Director.Phase != "" && !req.Director.Phase.Valid() {
		v.addError("director.phase %q is not a known phase", req.Director.Phase)
	}

	catalog := capability.DefaultCatalog()
	for _, name := range req.AvailableTools {
		if !catalog.Has(name) {
			v.addError("available_tools: unknown tool %q", name)
		}
	}
	if req.ExperimentScope != nil {
		for _, name := range append(append([]string{}, req.ExperimentScope.Required...), req.ExperimentScope.Forbidden...) {
			if !catalog.Has(name) {
				v.addError("experiment_scope: unknown tool %q", name)
			}
		}
	}

	if _, err := enginestate.Parse(req.EngineState); err != nil {
		v.addError("engine_state: %v", err)
	}

	if req.Session != nil && req.Session.Timezone != "" {
		if _, err := time.LoadLocation(req.Session.Timezone); err != nil {
			v.addError("session.timezone %q is not a known IANA zone", req.Session.Timezone)
		}
	}
}

func (v *TurnValidator) addError(format string, args ...any) {
	v.errors = append(v.errors, "  - "+fmt.Sprintf(format, args...))
}
