package core

import (
	"context"

	"github.com/hupe1980/agentcore/logging"
)

// StateStore is the minimal session key/value surface exposed to tools.
// The session context implements it; tests can supply a map-backed fake.
type StateStore interface {
	GetState(key string) (any, bool)
	SetState(key string, value any)
}

// Delegator routes a one-shot sub-task to a named agent and returns its
// single text result. Implementations must reject self-delegation and
// unknown agent names.
type Delegator interface {
	Delegate(ctx context.Context, caller, agent, request string) (string, error)
}

// Scope carries the per-invocation facts shared by every tool call in a
// batch. The dispatcher derives one ToolContext per call from a Scope.
type Scope struct {
	SessionKey string
	AgentName  string
	WorkDir    string
	State      StateStore
	Delegator  Delegator // nil when the agent may not delegate
	Logger     logging.Logger
}

// ToolContext provides a constrained, auditable surface for tool
// implementations invoked by an agent. Tools never see the registry, the
// dispatcher or other tools' state through this type.
type ToolContext struct {
	ctx    context.Context
	scope  Scope
	callID string
}

// NewToolContext binds a scope and correlation id to a tool invocation.
func NewToolContext(ctx context.Context, scope Scope, callID string) *ToolContext {
	if ctx == nil {
		ctx = context.Background()
	}
	if scope.Logger == nil {
		scope.Logger = logging.NoOpLogger{}
	}
	return &ToolContext{ctx: ctx, scope: scope, callID: callID}
}

// Context returns the context governing the tool invocation.
func (tc *ToolContext) Context() context.Context { return tc.ctx }

// SessionKey returns the owning session identifier.
func (tc *ToolContext) SessionKey() string { return tc.scope.SessionKey }

// AgentName returns the name of the agent that issued the call.
func (tc *ToolContext) AgentName() string { return tc.scope.AgentName }

// CallID returns the correlation id of this specific tool call. May be
// empty for calls recovered from the legacy inline grammar.
func (tc *ToolContext) CallID() string { return tc.callID }

// WorkDir returns the working directory tools should resolve relative
// paths against.
func (tc *ToolContext) WorkDir() string { return tc.scope.WorkDir }

// Logger returns the logger bound to this invocation.
func (tc *ToolContext) Logger() logging.Logger { return tc.scope.Logger }

// Delegator returns the delegation surface, or nil when the calling agent
// may not delegate.
func (tc *ToolContext) Delegator() Delegator { return tc.scope.Delegator }

// GetState retrieves a value from the session bag.
func (tc *ToolContext) GetState(key string) (any, bool) {
	if tc.scope.State == nil {
		return nil, false
	}
	return tc.scope.State.GetState(key)
}

// SetState records a value in the session bag.
func (tc *ToolContext) SetState(key string, value any) {
	if tc.scope.State != nil {
		tc.scope.State.SetState(key, value)
	}
}
