package model

import (
	"strings"
	"time"
)

// Role is the canonical speaker role of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// ParseRole maps a raw role string to a canonical role. The mapping is
// case-insensitive and synonym-aware: user/human, assistant/ai/model,
// system, tool/function. Unrecognized strings return ok=false; whether a
// caller falls back to RoleUser is a per-adapter decision and must be
// documented there.
func ParseRole(raw string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "user", "human":
		return RoleUser, true
	case "assistant", "ai", "model":
		return RoleAssistant, true
	case "system":
		return RoleSystem, true
	case "tool", "function":
		return RoleTool, true
	default:
		return "", false
	}
}

// Message is one normalized turn within a session. Content is never empty:
// whitespace-only messages are dropped during normalization instead of
// being represented.
type Message struct {
	Role       Role           `json:"role"`
	Content    string         `json:"content"`
	Timestamp  *time.Time     `json:"timestamp,omitempty"`
	ToolName   string         `json:"tool_name,omitempty"`
	ToolInput  map[string]any `json:"tool_input,omitempty"`
	ToolResult string         `json:"tool_result,omitempty"`
}

// Session is one normalized conversation extracted from a tool's on-disk
// history. Messages is never empty: a parse that yields zero messages
// produces no Session at all.
type Session struct {
	ID       string    `json:"id"`
	Provider Provider  `json:"provider"`
	Messages []Message `json:"messages"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	WorkingDir  string     `json:"working_dir,omitempty"`
	ProjectName string     `json:"project_name,omitempty"`
	Model       string     `json:"model,omitempty"`

	SourceFile  string  `json:"source_file"`
	SourceMtime float64 `json:"source_mtime"`

	Tags []string `json:"tags,omitempty"`
}

// Summary returns the first user message, flattened to one line and
// truncated, for use as a display title.
func (s *Session) Summary() string {
	for _, msg := range s.Messages {
		if msg.Role != RoleUser {
			continue
		}
		text := strings.TrimSpace(strings.ReplaceAll(msg.Content, "\n", " "))
		if len(text) > 100 {
			text = text[:100]
		}
		return text + "..."
	}
	return "Session"
}

// Counts returns the number of user and assistant messages.
func (s *Session) Counts() (user, assistant int) {
	for _, msg := range s.Messages {
		switch msg.Role {
		case RoleUser:
			user++
		case RoleAssistant:
			assistant++
		}
	}
	return user, assistant
}
