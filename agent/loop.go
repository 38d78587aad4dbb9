// Package agent implements the iterative request-execution loop: the model
// is called, its output interpreted for tool call intents, the intents
// dispatched, and the results fed back until the agent signals completion,
// produces a plain answer, or hits its iteration cap.
package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hupe1980/agentcore/core"
	"github.com/hupe1980/agentcore/dispatch"
	"github.com/hupe1980/agentcore/logging"
	"github.com/hupe1980/agentcore/model"
	"github.com/hupe1980/agentcore/parse"
	"github.com/hupe1980/agentcore/session"
	"github.com/hupe1980/agentcore/tool"
)

// Fallback content when a terminating turn carries no usable text.
const completedFallback = "Task completed."

// LoopOptions configures optional loop collaborators.
type LoopOptions struct {
	// Logger used for loop progress. Defaults to a no-op logger.
	Logger logging.Logger

	// Delegator handles Task tool calls. Only consulted when the agent's
	// descriptor permits delegation.
	Delegator core.Delegator

	// WorkDir is the directory tools operate in. Defaults to ".".
	WorkDir string
}

// Loop drives a single agent through the generate/interpret/dispatch cycle.
type Loop struct {
	descriptor  core.AgentDescriptor
	models      *model.Manager
	registry    *tool.Registry
	dispatcher  *dispatch.Dispatcher
	interpreter *parse.Interpreter
	opts        LoopOptions
}

// NewLoop creates an agent loop for the given descriptor.
func NewLoop(descriptor core.AgentDescriptor, models *model.Manager, registry *tool.Registry, optFns ...func(o *LoopOptions)) *Loop {
	opts := LoopOptions{
		Logger:  logging.NoOpLogger{},
		WorkDir: ".",
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Loop{
		descriptor:  descriptor,
		models:      models,
		registry:    registry,
		dispatcher:  dispatch.NewDispatcher(registry, opts.Logger),
		interpreter: parse.NewInterpreter(opts.Logger),
		opts:        opts,
	}
}

// Descriptor returns the agent's descriptor.
func (l *Loop) Descriptor() core.AgentDescriptor {
	return l.descriptor
}

// capMessage is returned when the loop exhausts its iteration budget before
// the agent terminates.
func (l *Loop) capMessage() string {
	return fmt.Sprintf("Maximum iterations (%d) reached. Please use the Exit tool to terminate execution.", l.descriptor.IterationCap)
}

// Run executes the request against the conversation. It returns an error
// only when every model backend is exhausted; tool failures and the
// iteration cap are reported through the RunResult instead.
func (l *Loop) Run(ctx context.Context, sessionKey, request string, convo *session.Context) (core.RunResult, error) {
	convo.Append(core.NewMessage(core.RoleUser, request))

	scope := core.Scope{
		SessionKey: sessionKey,
		AgentName:  l.descriptor.Name,
		WorkDir:    l.opts.WorkDir,
		State:      convo,
		Logger:     l.opts.Logger,
	}
	if l.descriptor.MayDelegate {
		scope.Delegator = l.opts.Delegator
	}

	system := BuildInstruction(l.descriptor, l.registry, convo.Project(), l.opts.WorkDir)
	definitions := l.registry.Definitions(l.descriptor.Tools)

	iterations := 0
	for iterations < l.descriptor.IterationCap {
		iterations++

		l.opts.Logger.Debug("loop iteration", "agent", l.descriptor.Name, "iteration", iterations)

		messages := append([]core.Message{core.NewMessage(core.RoleSystem, system)}, convo.Messages()...)

		resp, err := l.models.Generate(ctx, model.Request{Messages: messages, Tools: definitions})
		if err != nil {
			return core.RunResult{Success: false, Error: err.Error()}, fmt.Errorf("agent %q: %w", l.descriptor.Name, err)
		}

		turn := l.interpreter.Interpret(resp.Text, resp.ToolCalls)

		convo.Append(core.NewAssistantTurn(resp.Text, intentsToCalls(turn.Calls)))

		if !turn.HasCalls() {
			content := turn.DisplayText
			if content == "" {
				content = completedFallback
			}

			return core.RunResult{Content: content, Success: true}, nil
		}

		if result, terminated := l.checkExit(turn); terminated {
			return result, nil
		}

		batch := l.dispatcher.Execute(ctx, scope, turn.Calls)
		convo.Append(core.NewMessage(core.RoleUser, "Tool execution results:\n"+dispatch.Digest(batch)))
	}

	// Hitting the iteration cap is a designed safety stop, not a failure.
	return core.RunResult{Content: l.capMessage(), Success: true}, nil
}

// checkExit scans the turn for a validly terminating Exit call. When one is
// found the loop ends immediately and the batch's remaining intents are
// discarded.
func (l *Loop) checkExit(turn parse.ParsedTurn) (core.RunResult, bool) {
	for _, intent := range turn.Calls {
		status, ok := tool.ExitStatus(intent)
		if !ok {
			continue
		}

		content := turn.DisplayText
		if content == "" {
			content = tool.ExitMessage(intent)
		}

		if content == "" {
			content = completedFallback
		}

		l.opts.Logger.Info("agent terminated via Exit", "agent", l.descriptor.Name, "status", status)

		return core.RunResult{Content: content, Success: status == tool.ExitStatusSuccess}, true
	}

	return core.RunResult{}, false
}

func intentsToCalls(intents []core.ToolCallIntent) []core.ToolCall {
	if len(intents) == 0 {
		return nil
	}

	calls := make([]core.ToolCall, 0, len(intents))
	for _, intent := range intents {
		args, err := marshalParams(intent.Params)
		if err != nil {
			args = []byte("{}")
		}

		calls = append(calls, core.ToolCall{ID: intent.ID, Name: intent.Name, Arguments: args})
	}

	return calls
}

func marshalParams(params map[string]any) (json.RawMessage, error) {
	if params == nil {
		return json.RawMessage("{}"), nil
	}

	return json.Marshal(params)
}
