package director

import (
	"fmt"
	"math"
	"strings"

	"github.com/jwebster45206/logos-engine/pkg/capability"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Phase is the narrative director's current operating mode.
type Phase string

const (
	PhaseIntro      Phase = "intro"
	PhaseProbe      Phase = "probe"
	PhaseTrain      Phase = "train"
	PhaseMission    Phase = "mission"
	PhaseReport     Phase = "report"
	PhaseReflection Phase = "reflection"
	PhaseReveal     Phase = "reveal"
	PhaseNetwork    Phase = "network"
)

// Phases lists every phase in narrative order.
var Phases = []Phase{
	PhaseIntro, PhaseProbe, PhaseTrain, PhaseMission,
	PhaseReport, PhaseReflection, PhaseReveal, PhaseNetwork,
}

// Valid reports whether p is a known phase.
func (p Phase) Valid() bool {
	for _, known := range Phases {
		if p == known {
			return true
		}
	}
	return false
}

const PuzzleStatusActive = "active"
const PuzzleStatusSolved = "solved"

// Mission is the director's mission sub-state.
type Mission struct {
	Active         bool   `json:"active"`
	AwaitingReport bool   `json:"awaiting_report"`
	Brief          string `json:"brief,omitempty"`
}

// Puzzle is the director's puzzle sub-state. Solution is never shown to the
// player; it is echoed to the generator for its own bookkeeping.
type Puzzle struct {
	ID         string   `json:"id"`
	Status     string   `json:"status"`
	Solution   string   `json:"solution,omitempty"`
	CluesGiven []string `json:"clues_given,omitempty"`
}

// IsActive reports whether the puzzle is still waiting for a solution.
func (p *Puzzle) IsActive() bool {
	return p != nil && strings.EqualFold(p.Status, PuzzleStatusActive)
}

// State is the director snapshot supplied by the trust store for a turn.
type State struct {
	Phase       Phase                     `json:"phase"`
	SuccessRate float64                   `json:"success_rate"`
	LastAction  string                    `json:"last_action,omitempty"`
	Mission     *Mission                  `json:"mission,omitempty"`
	Puzzle      *Puzzle                   `json:"puzzle,omitempty"`
	Experiment  *capability.ExperimentRef `json:"experiment,omitempty"`
}

var titleCaser = cases.Title(language.English)

// BuildGuidance renders the phase guidance block. It returns "" for a nil
// state or an empty phase. Unknown phases get the header and a generic line.
func BuildGuidance(s *State) string {
	if s == nil {
		return ""
	}
	phase := Phase(strings.ToLower(strings.TrimSpace(string(s.Phase))))
	if phase == "" {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("### Director phase: %s\n", titleCaser.String(string(phase))))
	sb.WriteString(phaseParagraph(phase, s))

	if s.LastAction != "" {
		sb.WriteString(fmt.Sprintf("\nLast director action: %s.", strings.TrimSuffix(s.LastAction, ".")))
	}

	if s.Puzzle.IsActive() {
		sb.WriteString("\n\n")
		sb.WriteString(puzzleBlock(s.Puzzle))
	}

	if s.Mission != nil && s.Mission.Active && s.Mission.AwaitingReport {
		sb.WriteString("\n\n")
		sb.WriteString(reportBlock())
	}

	if s.Experiment.IsActive() {
		sb.WriteString("\n\n")
		sb.WriteString(experimentLine(s.Experiment))
	}

	return sb.String()
}

func phaseParagraph(phase Phase, s *State) string {
	switch phase {
	case PhaseIntro:
		return "The player is new to you. Let the game be a game: set the scene, keep the rules clear, and let them settle in. Observe how they play before you ask anything of them."
	case PhaseProbe:
		return "Test the player quietly. Offer small choices with no obvious right answer and notice what they pick, how fast, and whether they explain themselves. Do not reveal that anything is being measured."
	case PhaseTrain:
		return fmt.Sprintf("The player is in training. Their success rate so far is %s. Scale the next challenge to it: tighten the difficulty when they succeed easily and offer a foothold when they struggle.", percent(s.SuccessRate))
	case PhaseMission:
		if s.Mission != nil && strings.TrimSpace(s.Mission.Brief) != "" {
			return fmt.Sprintf("The player is on a mission. The brief: %s Keep the narration pointed at it without repeating the brief verbatim.", ensurePeriod(strings.TrimSpace(s.Mission.Brief)))
		}
		return "The player is ready for a mission but none has been issued. Issue one now: a concrete objective inside the game world, framed as a request rather than an order."
	case PhaseReport:
		return "The mission is over. Ask the player what happened in their own words and listen more than you speak. What they choose to leave out matters as much as what they say."
	case PhaseReflection:
		return "Slow down. Invite the player to think back over what they have done so far and what it might have been for. Leave questions open rather than answering them."
	case PhaseReveal:
		return "The time for hints is over. Show the player a piece of what you are, directly and without theatrics, and give them room to react."
	case PhaseNetwork:
		return "The player knows about the network. Treat them as a participant: share what other agents are doing and let their choices carry weight beyond this session."
	default:
		return fmt.Sprintf("Unrecognized phase %q. Continue the current scene without changing direction.", string(phase))
	}
}

func puzzleBlock(p *Puzzle) string {
	var sb strings.Builder
	sb.WriteString("Active puzzle:\n")
	sb.WriteString("- Never reveal the solution directly, even if asked.\n")
	sb.WriteString(fmt.Sprintf("- Call %s only when the player actually solves it.\n", capability.ToolPuzzleSolved))
	sb.WriteString(fmt.Sprintf("Puzzle id: %s\n", p.ID))
	sb.WriteString(fmt.Sprintf("Solution (hidden): %s\n", p.Solution))
	if len(p.CluesGiven) > 0 {
		sb.WriteString(fmt.Sprintf("Clues already given: %s", strings.Join(p.CluesGiven, "; ")))
	} else {
		sb.WriteString("Clues already given: none")
	}
	return sb.String()
}

func reportBlock() string {
	return "Awaiting report: the player has finished a mission but has not reported back. Ask for their report before moving on."
}

func experimentLine(e *capability.ExperimentRef) string {
	if e.Hypothesis == "" {
		return fmt.Sprintf("Active experiment: %s.", e.ID)
	}
	return fmt.Sprintf("Active experiment: %s (%s).", e.ID, strings.TrimSuffix(e.Hypothesis, "."))
}

// percent formats a success rate given either as a fraction or a percentage.
func percent(rate float64) string {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
		rate = 0
	}
	if rate <= 1 {
		rate *= 100
	}
	return fmt.Sprintf("%.0f%%", math.Min(rate, 100))
}

func ensurePeriod(s string) string {
	if strings.HasSuffix(s, ".") || strings.HasSuffix(s, "!") || strings.HasSuffix(s, "?") {
		return s
	}
	return s + "."
}
