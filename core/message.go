package core

import (
	"encoding/json"
	"time"
)

// Message roles. The conversation log only ever contains these three; tool
// outcomes are folded back in as synthetic user messages.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ToolCall is the native wire shape of a single structured tool call as
// surfaced by a model backend: an opaque correlation id, the target tool
// name and the raw JSON argument string. Unified across vendors so
// downstream logic does not need per-provider branching.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// Message is one entry in a conversation log. Messages are append-only and
// owned exclusively by the session context that holds them; ToolCalls is set
// only on assistant messages that carried a native tool-call list, preserved
// verbatim for backend-side replay fidelity.
type Message struct {
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	Timestamp time.Time  `json:"timestamp"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// NewMessage creates a message stamped with the current time.
func NewMessage(role, content string) Message {
	return Message{Role: role, Content: content, Timestamp: time.Now()}
}

// NewAssistantTurn creates an assistant message carrying the raw model turn
// including any native tool-call structure.
func NewAssistantTurn(content string, calls []ToolCall) Message {
	m := NewMessage(RoleAssistant, content)
	m.ToolCalls = calls
	return m
}

// Clone returns a deep copy safe for independent mutation.
func (m Message) Clone() Message {
	out := m
	if m.ToolCalls != nil {
		out.ToolCalls = make([]ToolCall, len(m.ToolCalls))
		copy(out.ToolCalls, m.ToolCalls)
		for i, tc := range m.ToolCalls {
			out.ToolCalls[i].Arguments = append(json.RawMessage(nil), tc.Arguments...)
		}
	}
	return out
}
