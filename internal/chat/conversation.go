package chat

import "strings"

// Role identifies which side of the conversation produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Display returns the label used when rendering a transcript into a prompt.
func (r Role) Display() string {
	switch r {
	case RoleUser:
		return "User"
	case RoleAssistant:
		return "Assistant"
	}
	return "Unknown"
}

// Turn is one transcript entry. Turns are immutable once appended.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

func UserTurn(content string) Turn {
	return Turn{Role: RoleUser, Content: content}
}

func AssistantTurn(content string) Turn {
	return Turn{Role: RoleAssistant, Content: content}
}

// Transcript is the ordered conversation history for one session, oldest
// first. A snapshot is taken at turn start and extended locally; the store
// holds the durable copy.
type Transcript []Turn

// Render flattens the transcript into the role-prefixed form every prompt
// builds on.
func (t Transcript) Render() string {
	var b strings.Builder
	for _, turn := range t {
		b.WriteString(turn.Role.Display())
		b.WriteString(": ")
		b.WriteString(turn.Content)
		b.WriteString("\n")
	}
	return b.String()
}

// With returns a new transcript extended by the given turns, leaving the
// receiver untouched.
func (t Transcript) With(turns ...Turn) Transcript {
	extended := make(Transcript, 0, len(t)+len(turns))
	extended = append(extended, t...)
	extended = append(extended, turns...)
	return extended
}
