package identity

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/logos-engine/pkg/capability"
)

// State holds a player's network-identity flags.
type State struct {
	AgentID        string `json:"agent_id,omitempty"`
	IsReferred     bool   `json:"is_referred"`
	IdentityLocked bool   `json:"identity_locked"`
	TurnsPlayed    int    `json:"turns_played"`
	MinutesPlayed  int    `json:"minutes_played"`
	SignalUnstable bool   `json:"signal_unstable"`
}

// Template is one rung of the identity ladder.
type Template int

const (
	TemplateNone Template = iota
	TemplateUnassigned
	TemplateUnstable
	TemplateActivated
	TemplateSecured
	TemplateIsolated
)

func (t Template) String() string {
	switch t {
	case TemplateNone:
		return "none"
	case TemplateUnassigned:
		return "unassigned"
	case TemplateUnstable:
		return "unstable"
	case TemplateActivated:
		return "activated"
	case TemplateSecured:
		return "secured"
	case TemplateIsolated:
		return "isolated"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// Select picks exactly one template by strict precedence; the first match
// wins. A nil state selects TemplateNone.
func Select(s *State) Template {
	if s == nil {
		return TemplateNone
	}
	hasID := strings.TrimSpace(s.AgentID) != ""
	switch {
	case !hasID:
		return TemplateUnassigned
	case !s.IsReferred && s.SignalUnstable:
		return TemplateUnstable
	case s.IsReferred && !s.IdentityLocked:
		return TemplateActivated
	case s.IdentityLocked:
		return TemplateSecured
	default:
		return TemplateIsolated
	}
}

// BuildBlock renders the identity guidance block for s.
func BuildBlock(s *State) string {
	t := Select(s)
	if t == TemplateNone {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("### Network identity\n")
	switch t {
	case TemplateUnassigned:
		sb.WriteString("The player has no agent designation yet. ")
		sb.WriteString("Let one surface through the story, as if it had always been theirs: a name on a door, a number on a screen. ")
		sb.WriteString(fmt.Sprintf("When it surfaces, call %s to make it official.", capability.ToolAssignIdentity))
	case TemplateUnstable:
		sb.WriteString(fmt.Sprintf("The player is agent %s, but their signal is unstable and nobody vouched for them. ", s.AgentID))
		sb.WriteString("Priority: weave urgency into the narration, flickers and dropouts that suggest the connection could be lost. ")
		sb.WriteString("Over the coming turns, reveal that someone already in the network can activate them.")
	case TemplateActivated:
		sb.WriteString(fmt.Sprintf("The player is agent %s and has been activated through a referral, but their identity is not secured. ", s.AgentID))
		sb.WriteString("Eventually prompt them to secure it. Until then, remind them now and then that an unsecured identity can be taken.")
	case TemplateSecured:
		sb.WriteString(fmt.Sprintf("The player is agent %s and their identity is secured. ", s.AgentID))
		sb.WriteString("Stop mentioning instability. Treat them as a permanent member of the network.")
	case TemplateIsolated:
		sb.WriteString(fmt.Sprintf("The player is agent %s, isolated from the rest of the network. ", s.AgentID))
		sb.WriteString("Their signal is steady. Do not create urgency yet; let them get used to the designation.")
	}

	if s.TurnsPlayed > 0 || s.MinutesPlayed > 0 {
		sb.WriteString(fmt.Sprintf("\nTime on the network: %d turns, %d minutes.", s.TurnsPlayed, s.MinutesPlayed))
	}
	return sb.String()
}
