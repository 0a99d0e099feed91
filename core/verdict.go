package core

// Verdict is the outcome of a single worthiness judgment. Rationale is carried
// internally between pipeline stages and never shown to the end user.
type Verdict struct {
	Worth     bool   `json:"worth"`
	Question  string `json:"question,omitempty"`
	Rationale string `json:"rationale,omitempty"`
}

// Message is one turn of a running dialogue.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation roles. Any other supplied role collapses to RoleUser.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// NormalizeRole maps arbitrary caller-supplied roles onto the two dialogue
// roles the completion providers accept. Historical clients send "ai" for
// assistant turns.
func NormalizeRole(role string) string {
	switch role {
	case RoleAssistant, "ai":
		return RoleAssistant
	default:
		return RoleUser
	}
}
