package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hupe1980/agentcore/core"
)

// Snapshot is a serializable capture of a session: its message window, state
// bag and project metadata.
type Snapshot struct {
	TakenAt     time.Time      `json:"taken_at"`
	MaxMessages int            `json:"max_messages"`
	Messages    []core.Message `json:"messages"`
	State       map[string]any `json:"state,omitempty"`
	Project     *Project       `json:"project,omitempty"`
}

// Snapshot captures the current session state.
func (c *Context) Snapshot() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := &Snapshot{
		TakenAt:     time.Now().UTC(),
		MaxMessages: c.maxMessages,
		Messages:    make([]core.Message, len(c.messages)),
		Project:     c.project,
	}

	for i, msg := range c.messages {
		snap.Messages[i] = msg.Clone()
	}

	if len(c.state) > 0 {
		snap.State = make(map[string]any, len(c.state))
		for k, v := range c.state {
			snap.State[k] = v
		}
	}

	return snap
}

// Restore builds a session context from a snapshot. The snapshot's cap is
// honored, so histories longer than the cap are trimmed to the newest
// messages.
func Restore(snap *Snapshot) *Context {
	c := NewContext(snap.MaxMessages)

	for _, msg := range snap.Messages {
		c.Append(msg)
	}

	for k, v := range snap.State {
		c.SetState(k, v)
	}

	c.SetProject(snap.Project)

	return c
}

// MarshalSnapshot encodes a snapshot as JSON.
func MarshalSnapshot(snap *Snapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	return data, nil
}

// UnmarshalSnapshot decodes a snapshot from JSON.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	return &snap, nil
}
