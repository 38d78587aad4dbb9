// Package testutil provides small fixtures shared by package tests: trivial
// tool implementations with deterministic behavior and scope builders.
package testutil

import (
	"fmt"

	"github.com/hupe1980/agentcore/core"
	"github.com/hupe1980/agentcore/logging"
)

// MapStore is an in-memory core.StateStore.
type MapStore map[string]any

// GetState implements core.StateStore.
func (s MapStore) GetState(key string) (any, bool) {
	v, ok := s[key]
	return v, ok
}

// SetState implements core.StateStore.
func (s MapStore) SetState(key string, value any) {
	s[key] = value
}

// NewScope builds a tool scope with in-memory state and a no-op logger.
func NewScope(workDir string) core.Scope {
	return core.Scope{
		SessionKey: "test-session",
		AgentName:  "tester",
		WorkDir:    workDir,
		State:      MapStore{},
		Logger:     logging.NoOpLogger{},
	}
}

// EchoTool returns its "text" argument unchanged and appends its name to
// Order when one is attached, so tests can assert execution sequence.
type EchoTool struct {
	ToolName string
	Order    *[]string
}

// Name implements tool.Tool.
func (t *EchoTool) Name() string {
	if t.ToolName == "" {
		return "echo"
	}

	return t.ToolName
}

// Description implements tool.Tool.
func (t *EchoTool) Description() string { return "Echoes the text argument." }

// Parameters implements tool.Tool.
func (t *EchoTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text": map[string]any{"type": "string"},
		},
	}
}

// Call implements tool.Tool.
func (t *EchoTool) Call(tc *core.ToolContext, args map[string]any) (any, error) {
	if t.Order != nil {
		*t.Order = append(*t.Order, t.Name())
	}

	text, _ := args["text"].(string)

	return text, nil
}

// FailTool always returns an error.
type FailTool struct{}

// Name implements tool.Tool.
func (t *FailTool) Name() string { return "fail" }

// Description implements tool.Tool.
func (t *FailTool) Description() string { return "Always fails." }

// Parameters implements tool.Tool.
func (t *FailTool) Parameters() map[string]any {
	return map[string]any{"type": "object", "properties": map[string]any{}}
}

// Call implements tool.Tool.
func (t *FailTool) Call(*core.ToolContext, map[string]any) (any, error) {
	return nil, fmt.Errorf("intentional failure")
}

// PanicTool always panics.
type PanicTool struct{}

// Name implements tool.Tool.
func (t *PanicTool) Name() string { return "panic" }

// Description implements tool.Tool.
func (t *PanicTool) Description() string { return "Always panics." }

// Parameters implements tool.Tool.
func (t *PanicTool) Parameters() map[string]any {
	return map[string]any{"type": "object", "properties": map[string]any{}}
}

// Call implements tool.Tool.
func (t *PanicTool) Call(*core.ToolContext, map[string]any) (any, error) {
	panic("intentional panic")
}
