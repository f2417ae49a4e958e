package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jwebster45206/logos-engine/pkg/turn"
	"github.com/spf13/cobra"
)

func captureOutput(cmd *cobra.Command) (*bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	return &out, &errOut
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestRunLayer(t *testing.T) {
	out, _ := captureOutput(layerCmd)

	tests := []struct {
		arg  string
		want string
	}{
		{arg: "0.45", want: "layer 2 (acknowledged)"},
		{arg: "0.95", want: "layer 5 (transparent)"},
		{arg: "NaN", want: "layer 0 (pure game)"},
		{arg: "lots", want: "layer 0 (pure game)"},
		{arg: "-5", want: "layer 0 (pure game)"},
	}
	for _, tt := range tests {
		out.Reset()
		if err := runLayer(layerCmd, []string{tt.arg}); err != nil {
			t.Fatalf("runLayer(%s) failed: %v", tt.arg, err)
		}
		if got := strings.TrimSpace(out.String()); got != tt.want {
			t.Errorf("runLayer(%s) = %q, want %q", tt.arg, got, tt.want)
		}
	}

	// Overrides are clamped and always win.
	if err := layerCmd.Flags().Set("override", "7"); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := runLayer(layerCmd, []string{"0.1"}); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out.String()); got != "layer 5 (transparent)" {
		t.Errorf("override 7 = %q, want layer 5", got)
	}
}

func TestRunTools(t *testing.T) {
	out, _ := captureOutput(toolsCmd)
	toolsTrust, toolsTier, toolsFull, toolsAllow = 0.6, 0, false, nil

	if err := runTools(toolsCmd, nil); err != nil {
		t.Fatalf("runTools failed: %v", err)
	}
	got := out.String()
	if !strings.HasPrefix(got, "ops=true director=false\n") {
		t.Errorf("unexpected header in %q", got)
	}
	if !strings.Contains(got, "dossier_read") {
		t.Error("expected ops tools at trust 0.6")
	}
	if strings.Contains(got, "director_override") {
		t.Error("did not expect the director tool at trust 0.6")
	}
	if !strings.Contains(got, "experiment-gated") {
		t.Error("expected world-mutating tools to be annotated")
	}
}

const composeRequest = `{
	"trust": 0.45,
	"session": {"session_count": 5, "days_since_last_session": 10, "current_time": "2026-10-15T02:30:00Z"},
	"identity": {"agent_id": "A1", "signal_unstable": true}
}`

func TestRunCompose(t *testing.T) {
	path := writeFile(t, "turn.json", composeRequest)
	out, _ := captureOutput(composeCmd)
	personaFile = ""
	composeFixed = 1.0

	composeFormat = "text"
	if err := runCompose(composeCmd, []string{path}); err != nil {
		t.Fatalf("runCompose failed: %v", err)
	}
	text := out.String()
	if !strings.HasPrefix(text, "# layer 2 (acknowledged)") {
		t.Errorf("unexpected header in %q", text)
	}
	if !strings.Contains(text, "### Network identity") {
		t.Error("expected identity block")
	}

	out.Reset()
	composeFormat = "json"
	if err := runCompose(composeCmd, []string{path}); err != nil {
		t.Fatalf("runCompose json failed: %v", err)
	}
	var resp turn.Response
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("expected JSON output: %v", err)
	}
	if resp.Layer != 2 || resp.Directive == "" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestRunCompose_MissingFile(t *testing.T) {
	captureOutput(composeCmd)
	if err := runCompose(composeCmd, []string{filepath.Join(t.TempDir(), "nope.json")}); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestRunValidate(t *testing.T) {
	good := writeFile(t, "good.json", composeRequest)
	unknownField := writeFile(t, "unknown.json", `{"trust": 0.5, "trsut": 0.9}`)
	badValues := writeFile(t, "bad.json", `{
		"trust": "high",
		"layer_override": 9,
		"director": {"phase": "lunch"},
		"available_tools": ["teleport"],
		"engine_state": [1, 2],
		"session": {"timezone": "Mars/Olympus"}
	}`)

	out, errOut := captureOutput(validateCmd)
	if err := runValidate(validateCmd, []string{good}); err != nil {
		t.Fatalf("expected good file to validate: %v (%s)", err, errOut.String())
	}
	if !strings.Contains(out.String(), "good.json: ok") {
		t.Errorf("expected ok line, got %q", out.String())
	}

	errOut.Reset()
	if err := runValidate(validateCmd, []string{unknownField}); err == nil {
		t.Error("expected unknown field to fail")
	}
	if !strings.Contains(errOut.String(), "strict JSON") {
		t.Errorf("expected strict decode error, got %q", errOut.String())
	}

	errOut.Reset()
	if err := runValidate(validateCmd, []string{badValues, good}); err == nil {
		t.Error("expected bad values to fail")
	}
	report := errOut.String()
	for _, want := range []string{"trust must be", "layer_override 9", `phase "lunch"`, `unknown tool "teleport"`, "engine_state", "Mars/Olympus"} {
		if !strings.Contains(report, want) {
			t.Errorf("expected %q in report:\n%s", want, report)
		}
	}
}

func TestRunPersonas(t *testing.T) {
	out, _ := captureOutput(personasCmd)
	personaFile = ""
	personasRender = true

	if err := runPersonas(personasCmd, nil); err != nil {
		t.Fatalf("runPersonas failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{"layer 0: The Game", "layer 5: Transparent", "address the player by name: wren"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in output", want)
		}
	}
}
