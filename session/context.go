// Package session manages per-conversation state: the bounded message
// window an agent reasons over, a shared key/value state bag, project
// metadata and snapshot/restore of the whole bundle.
package session

import (
	"sync"

	"github.com/hupe1980/agentcore/core"
)

// DefaultMaxMessages bounds the conversation window when no explicit cap is
// configured.
const DefaultMaxMessages = 50

// Context is a bounded conversation history plus a session-scoped state
// bag. When the message count exceeds the cap, the oldest messages are
// dropped first. It is safe for concurrent use and implements
// core.StateStore.
type Context struct {
	mu          sync.RWMutex
	maxMessages int
	messages    []core.Message
	state       map[string]any
	project     *Project
}

// NewContext creates a conversation context capped at maxMessages. A
// non-positive cap falls back to DefaultMaxMessages.
func NewContext(maxMessages int) *Context {
	if maxMessages <= 0 {
		maxMessages = DefaultMaxMessages
	}

	return &Context{
		maxMessages: maxMessages,
		state:       make(map[string]any),
	}
}

// Append adds a message to the history, evicting the oldest messages when
// the cap is exceeded.
func (c *Context) Append(msg core.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = append(c.messages, msg)

	if over := len(c.messages) - c.maxMessages; over > 0 {
		c.messages = append([]core.Message(nil), c.messages[over:]...)
	}
}

// Messages returns a copy of the current history, oldest first.
func (c *Context) Messages() []core.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]core.Message, len(c.messages))
	for i, msg := range c.messages {
		out[i] = msg.Clone()
	}

	return out
}

// Len returns the number of retained messages.
func (c *Context) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.messages)
}

// MaxMessages returns the configured window cap.
func (c *Context) MaxMessages() int {
	return c.maxMessages
}

// Clear drops the history but keeps the state bag and project.
func (c *Context) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = nil
}

// GetState implements core.StateStore.
func (c *Context) GetState(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.state[key]

	return v, ok
}

// SetState implements core.StateStore.
func (c *Context) SetState(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state[key] = value
}

// SetProject attaches project metadata to the session.
func (c *Context) SetProject(p *Project) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.project = p
}

// Project returns the attached project metadata, or nil.
func (c *Context) Project() *Project {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.project
}
