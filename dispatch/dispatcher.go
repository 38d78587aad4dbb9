// Package dispatch executes parsed tool call intents against a tool
// registry. Calls run strictly one at a time in the order the model issued
// them, and every failure is captured as an outcome rather than aborting the
// batch.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/agentcore/core"
	"github.com/hupe1980/agentcore/logging"
	"github.com/hupe1980/agentcore/tool"
)

// Dispatcher resolves tool call intents against a registry and runs them
// sequentially.
type Dispatcher struct {
	registry *tool.Registry
	logger   logging.Logger
}

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(registry *tool.Registry, logger logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}

	return &Dispatcher{registry: registry, logger: logger}
}

// Execute runs each intent in order and returns one outcome per intent,
// preserving input order. A failing, unknown or panicking tool never stops
// the batch; it yields a failed outcome and execution moves on.
func (d *Dispatcher) Execute(ctx context.Context, scope core.Scope, intents []core.ToolCallIntent) core.ToolBatchResult {
	var result core.ToolBatchResult

	for _, intent := range intents {
		result.Add(d.executeOne(ctx, scope, intent))
	}

	return result
}

func (d *Dispatcher) executeOne(ctx context.Context, scope core.Scope, intent core.ToolCallIntent) core.ToolOutcome {
	callID := intent.ID
	if callID == "" {
		callID = uuid.NewString()
	}

	outcome := core.ToolOutcome{Name: intent.Name, ID: callID}

	t, ok := d.registry.Get(intent.Name)
	if !ok {
		outcome.Error = fmt.Sprintf("tool %q is not available", intent.Name)

		d.logger.Warn("unknown tool requested", "tool", intent.Name)

		return outcome
	}

	start := time.Now()
	value, err := d.callSafe(ctx, scope, t, callID, intent.Params)
	logging.LogToolCall(d.logger, intent.Name, time.Since(start), err == nil, err)

	if err != nil {
		outcome.Error = err.Error()

		return outcome
	}

	outcome.Succeeded = true
	outcome.Result = value

	return outcome
}

// callSafe shields the dispatcher from panicking tool implementations.
func (d *Dispatcher) callSafe(ctx context.Context, scope core.Scope, t tool.Tool, callID string, params map[string]any) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool %q panicked: %v", t.Name(), r)
		}
	}()

	if params == nil {
		params = map[string]any{}
	}

	tc := core.NewToolContext(ctx, scope, callID)

	return t.Call(tc, params)
}
