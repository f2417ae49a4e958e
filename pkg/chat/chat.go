package chat

import "strings"

const (
	ChatRoleUser   = "user"      // Player
	ChatRoleAgent  = "assistant" // Narrator
	ChatRoleSystem = "system"    // Directive or engine note
)

// ChatMessage is a single role/content pair from a session's message history.
type ChatMessage struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// Window returns at most the last limit messages of history.
// A non-positive limit returns the full history.
func Window(history []ChatMessage, limit int) []ChatMessage {
	if limit <= 0 || len(history) <= limit {
		return history
	}
	return history[len(history)-limit:]
}

// UserMessages returns the non-blank player messages in history, oldest first.
func UserMessages(history []ChatMessage) []string {
	var out []string
	for _, msg := range history {
		if msg.Role != ChatRoleUser {
			continue
		}
		if content := strings.TrimSpace(msg.Content); content != "" {
			out = append(out, content)
		}
	}
	return out
}

// CountRole returns how many messages in history have the given role.
func CountRole(history []ChatMessage, role string) int {
	n := 0
	for _, msg := range history {
		if msg.Role == role {
			n++
		}
	}
	return n
}
