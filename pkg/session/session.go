package session

import (
	"strings"
	"time"

	"github.com/jwebster45206/logos-engine/pkg/chat"
)

// HistoryWindow is how many trailing history messages the input fallback reads.
const HistoryWindow = 20

// Context is the caller's snapshot of a player's session for one turn.
// It is never mutated by the engine.
type Context struct {
	Handle                 string             `json:"handle,omitempty"`
	CurrentTime            time.Time          `json:"current_time"`
	SessionCount           int                `json:"session_count"`
	TotalEngagementMinutes int                `json:"total_engagement_minutes"`
	DaysSinceFirstSession  int                `json:"days_since_first_session"`
	DaysSinceLastSession   int                `json:"days_since_last_session"`
	LastSessionTime        *time.Time         `json:"last_session_time,omitempty"`
	MessageHistory         []chat.ChatMessage `json:"message_history,omitempty"`
	RecentInputs           []string           `json:"recent_inputs,omitempty"`
	Timezone               string             `json:"timezone,omitempty"` // IANA name, e.g. "Europe/Berlin"
	DeviceHints            []string           `json:"device_hints,omitempty"`
}

// LocalTime returns CurrentTime in the player's timezone. An unknown or empty
// timezone leaves CurrentTime as supplied.
func (c *Context) LocalTime() time.Time {
	if c.Timezone == "" {
		return c.CurrentTime
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return c.CurrentTime
	}
	return c.CurrentTime.In(loc)
}

// LocalHour returns the hour of day (0-23) in the player's timezone.
func (c *Context) LocalHour() int {
	return c.LocalTime().Hour()
}

// IsLateNight reports whether the player is playing between midnight and 5am.
func (c *Context) IsLateNight() bool {
	if c.CurrentTime.IsZero() {
		return false
	}
	return c.LocalHour() < 5
}

// IsReturning reports whether this is not the player's first session.
func (c *Context) IsReturning() bool {
	return c.SessionCount > 1
}

// HasDevice reports whether any device hint contains substr, case-insensitively.
func (c *Context) HasDevice(substr string) bool {
	substr = strings.ToLower(substr)
	for _, hint := range c.DeviceHints {
		if strings.Contains(strings.ToLower(hint), substr) {
			return true
		}
	}
	return false
}

// Inputs returns the player's recent inputs, falling back to the user turns
// of the message history when RecentInputs was not supplied.
func (c *Context) Inputs() []string {
	if len(c.RecentInputs) > 0 {
		return c.RecentInputs
	}
	return chat.UserMessages(chat.Window(c.MessageHistory, HistoryWindow))
}

// NarratorTurns returns how many narrator replies the message history holds.
func (c *Context) NarratorTurns() int {
	return chat.CountRole(c.MessageHistory, chat.ChatRoleAgent)
}
