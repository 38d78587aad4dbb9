package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/agentcore/core"
)

// ToolDefinition declaratively exposes a callable tool to the model.
// InputSchema is a JSON Schema object (draft agnostic, minimal subset
// expected by the providers).
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

// Request captures the normalized model input assembled for one turn.
type Request struct {
	Messages []core.Message   `json:"messages"`
	Tools    []ToolDefinition `json:"tools,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is one complete model turn: display text, an optional native
// tool-call list and the provider's finish reason.
type Response struct {
	Text         string          `json:"text"`
	ToolCalls    []core.ToolCall `json:"tool_calls,omitempty"`
	FinishReason string          `json:"finish_reason"`
	Usage        *TokenUsage     `json:"usage,omitempty"`
}

// Backend is the minimal interface a model provider must implement.
// Generate performs one blocking turn; CheckAvailability performs a minimal
// round trip and is called once at startup by the manager.
type Backend interface {
	Name() string
	Generate(ctx context.Context, req Request) (*Response, error)
	CheckAvailability(ctx context.Context) bool
}

// MockBackend is a lightweight in-memory Backend useful for tests and
// examples. Turns are consumed in order; once the script is exhausted the
// last turn repeats.
type MockBackend struct {
	mu        sync.Mutex
	name      string
	turns     []Response
	idx       int
	calls     int
	available bool
	failWith  error
}

// NewMockBackend constructs an available MockBackend with the given scripted turns.
func NewMockBackend(name string, turns ...Response) *MockBackend {
	return &MockBackend{name: name, turns: turns, available: true}
}

// SetAvailable toggles the probe result.
func (m *MockBackend) SetAvailable(v bool) { m.mu.Lock(); m.available = v; m.mu.Unlock() }

// FailWith makes every Generate call return err.
func (m *MockBackend) FailWith(err error) { m.mu.Lock(); m.failWith = err; m.mu.Unlock() }

// Calls returns the number of Generate invocations observed.
func (m *MockBackend) Calls() int { m.mu.Lock(); defer m.mu.Unlock(); return m.calls }

// Name implements Backend.
func (m *MockBackend) Name() string { return m.name }

// CheckAvailability implements Backend.
func (m *MockBackend) CheckAvailability(context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.available
}

// Generate implements Backend returning the next scripted turn.
func (m *MockBackend) Generate(ctx context.Context, _ Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failWith != nil {
		return nil, m.failWith
	}
	if len(m.turns) == 0 {
		return nil, fmt.Errorf("mock backend %s has no scripted turns", m.name)
	}
	turn := m.turns[m.idx]
	if m.idx < len(m.turns)-1 {
		m.idx++
	}
	out := turn
	return &out, nil
}
