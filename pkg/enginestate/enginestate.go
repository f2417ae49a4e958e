package enginestate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedState is returned when the engine-state blob cannot be parsed.
var ErrMalformedState = errors.New("malformed engine state")

// Room is the player's current location.
type Room struct {
	Name   string `json:"name"`
	Region string `json:"region,omitempty"`
}

// Player is the player's condition as the world engine sees it.
type Player struct {
	Status string `json:"status,omitempty"`
	Health *int   `json:"health,omitempty"`
}

// Status is the world engine's serialized status for the turn.
type Status struct {
	Room      Room     `json:"room"`
	Player    Player   `json:"player"`
	Inventory []string `json:"inventory"`
	Turn      int      `json:"turn"`
	Observe   []string `json:"observe,omitempty"` // outstanding observation targets
}

// CommandResult is the world engine's verdict on the last recognized command.
type CommandResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	PuzzleSolved string `json:"puzzleSolved,omitempty"`
	LogosNote    string `json:"logosNote,omitempty"`
}

// Parse decodes an engine-state blob. An empty or null blob yields nil with no
// error; anything that is not a JSON object wraps ErrMalformedState.
func Parse(blob []byte) (*Status, error) {
	trimmed := bytes.TrimSpace(blob)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrMalformedState)
	}
	var s Status
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	return &s, nil
}

// Render formats the situational block for the generator. last is the
// result of the last recognized command; nil means the input was freeform.
//
// Example output:
// ### Current situation
// Location: Lighthouse (The Coast)
// Player: shaken, health 7
// Inventory: lamp, brass key
// Turn: 14
// Not yet examined: the logbook, the stairs
//
// The engine accepted the last command: You unlock the door.
func Render(s *Status, last *CommandResult) string {
	if s == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("### Current situation\n")

	room := strings.TrimSpace(s.Room.Name)
	if room == "" {
		room = "unknown"
	}
	if s.Room.Region != "" {
		sb.WriteString(fmt.Sprintf("Location: %s (%s)\n", room, s.Room.Region))
	} else {
		sb.WriteString(fmt.Sprintf("Location: %s\n", room))
	}

	player := strings.TrimSpace(s.Player.Status)
	if player == "" {
		player = "normal"
	}
	if s.Player.Health != nil {
		sb.WriteString(fmt.Sprintf("Player: %s, health %d\n", player, *s.Player.Health))
	} else {
		sb.WriteString(fmt.Sprintf("Player: %s\n", player))
	}

	if len(s.Inventory) > 0 {
		sb.WriteString("Inventory: " + strings.Join(s.Inventory, ", ") + "\n")
	} else {
		sb.WriteString("Inventory: empty\n")
	}

	sb.WriteString(fmt.Sprintf("Turn: %d", s.Turn))

	if len(s.Observe) > 0 {
		sb.WriteString("\nNot yet examined: " + strings.Join(s.Observe, ", "))
	}

	sb.WriteString("\n\n")
	sb.WriteString(posture(last))
	return sb.String()
}

func posture(last *CommandResult) string {
	switch {
	case last == nil:
		return "The last input was not a game command. Respond in character and steer back toward the situation above without inventing outcomes the engine has not confirmed."
	case last.Success:
		var sb strings.Builder
		sb.WriteString("The engine accepted the last command")
		if msg := strings.TrimSpace(last.Message); msg != "" {
			sb.WriteString(": " + msg)
		} else {
			sb.WriteString(".")
		}
		sb.WriteString("\nNarrate that outcome as fact. Do not contradict it.")
		if last.PuzzleSolved != "" {
			sb.WriteString(fmt.Sprintf("\nPuzzle solved: %s. Acknowledge it.", last.PuzzleSolved))
		}
		if last.LogosNote != "" {
			sb.WriteString("\nNote for you alone: " + last.LogosNote)
		}
		return sb.String()
	default:
		var sb strings.Builder
		sb.WriteString("The engine rejected the last command")
		if msg := strings.TrimSpace(last.Message); msg != "" {
			sb.WriteString(": " + msg)
		} else {
			sb.WriteString(".")
		}
		sb.WriteString("\nNarrate the failure in the world's terms. Do not let it succeed anyway.")
		return sb.String()
	}
}
