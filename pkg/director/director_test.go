package director

import (
	"strings"
	"testing"

	"github.com/jwebster45206/logos-engine/pkg/capability"
)

func TestBuildGuidance_Empty(t *testing.T) {
	if got := BuildGuidance(nil); got != "" {
		t.Errorf("expected empty for nil state, got %q", got)
	}
	if got := BuildGuidance(&State{}); got != "" {
		t.Errorf("expected empty for empty phase, got %q", got)
	}
	if got := BuildGuidance(&State{Phase: "  "}); got != "" {
		t.Errorf("expected empty for blank phase, got %q", got)
	}
}

func TestBuildGuidance_EveryPhase(t *testing.T) {
	seen := make(map[string]Phase)
	for _, phase := range Phases {
		t.Run(string(phase), func(t *testing.T) {
			got := BuildGuidance(&State{Phase: phase})
			header := "### Director phase: " + strings.ToUpper(string(phase[:1])) + string(phase[1:])
			if !strings.HasPrefix(got, header) {
				t.Errorf("expected header %q, got %q", header, got)
			}
			body := strings.TrimPrefix(got, header+"\n")
			if other, dup := seen[body]; dup {
				t.Errorf("phase %s shares its paragraph with %s", phase, other)
			}
			seen[body] = phase
		})
	}
}

func TestBuildGuidance_Train(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{rate: 0.75, want: "75%"},
		{rate: 0, want: "0%"},
		{rate: 1, want: "100%"},
		{rate: 42, want: "42%"},
		{rate: -3, want: "0%"},
	}
	for _, tt := range tests {
		got := BuildGuidance(&State{Phase: PhaseTrain, SuccessRate: tt.rate})
		if !strings.Contains(got, "success rate so far is "+tt.want) {
			t.Errorf("rate %v: expected %q in %q", tt.rate, tt.want, got)
		}
	}
}

func TestBuildGuidance_Mission(t *testing.T) {
	withBrief := BuildGuidance(&State{Phase: PhaseMission, Mission: &Mission{Active: true, Brief: "Find the lighthouse keeper"}})
	if !strings.Contains(withBrief, "The brief: Find the lighthouse keeper.") {
		t.Errorf("expected brief in guidance, got %q", withBrief)
	}

	noBrief := BuildGuidance(&State{Phase: PhaseMission})
	if !strings.Contains(noBrief, "Issue one now") {
		t.Errorf("expected instruction to issue a mission, got %q", noBrief)
	}
}

func TestBuildGuidance_Puzzle(t *testing.T) {
	s := &State{
		Phase: PhaseProbe,
		Puzzle: &Puzzle{
			ID:         "pz-7",
			Status:     PuzzleStatusActive,
			Solution:   "the tide",
			CluesGiven: []string{"salt", "the moon"},
		},
	}
	got := BuildGuidance(s)
	for _, want := range []string{
		"Active puzzle:",
		"Never reveal the solution",
		"Call puzzle_solved only when",
		"Puzzle id: pz-7",
		"Solution (hidden): the tide",
		"Clues already given: salt; the moon",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in %q", want, got)
		}
	}

	s.Puzzle.Status = PuzzleStatusSolved
	if got := BuildGuidance(s); strings.Contains(got, "Active puzzle:") {
		t.Errorf("solved puzzle must not render the sub-block: %q", got)
	}
}

func TestBuildGuidance_AwaitingReport(t *testing.T) {
	tests := []struct {
		name    string
		mission *Mission
		want    bool
	}{
		{name: "active and awaiting", mission: &Mission{Active: true, AwaitingReport: true}, want: true},
		{name: "awaiting only", mission: &Mission{AwaitingReport: true}, want: false},
		{name: "active only", mission: &Mission{Active: true}, want: false},
		{name: "no mission", mission: nil, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildGuidance(&State{Phase: PhaseReport, Mission: tt.mission})
			if has := strings.Contains(got, "Awaiting report"); has != tt.want {
				t.Errorf("awaiting report block present = %v, want %v", has, tt.want)
			}
		})
	}
}

func TestBuildGuidance_Experiment(t *testing.T) {
	active := BuildGuidance(&State{
		Phase:      PhaseProbe,
		Experiment: &capability.ExperimentRef{ID: "exp-1", Hypothesis: "Players return after a glitch.", Status: "active"},
	})
	if !strings.Contains(active, "Active experiment: exp-1 (Players return after a glitch).") {
		t.Errorf("expected experiment line, got %q", active)
	}

	concluded := BuildGuidance(&State{
		Phase:      PhaseProbe,
		Experiment: &capability.ExperimentRef{ID: "exp-1", Status: "concluded"},
	})
	if strings.Contains(concluded, "Active experiment") {
		t.Errorf("concluded experiment must not be shown: %q", concluded)
	}
}

func TestBuildGuidance_SubBlockOrder(t *testing.T) {
	got := BuildGuidance(&State{
		Phase:      PhaseMission,
		Mission:    &Mission{Active: true, AwaitingReport: true, Brief: "Map the east wing."},
		Puzzle:     &Puzzle{ID: "p", Status: "active", Solution: "s"},
		Experiment: &capability.ExperimentRef{ID: "exp-2", Status: "active"},
	})
	puzzle := strings.Index(got, "Active puzzle:")
	report := strings.Index(got, "Awaiting report")
	experiment := strings.Index(got, "Active experiment")
	if !(puzzle > 0 && puzzle < report && report < experiment) {
		t.Errorf("unexpected sub-block order in %q", got)
	}
}

func TestPhase_Valid(t *testing.T) {
	if !PhaseNetwork.Valid() {
		t.Error("network should be valid")
	}
	if Phase("lunch").Valid() {
		t.Error("lunch should not be valid")
	}
}
