package tool

import (
	"fmt"

	"github.com/hupe1980/agentcore/core"
)

// TaskTool hands a self-contained request to another agent and returns that
// agent's final answer as the tool result. Whether delegation is permitted
// is decided by the caller's scope: agents that may not delegate run with a
// nil delegator.
type TaskTool struct{}

// NewTaskTool creates the delegation tool.
func NewTaskTool() *TaskTool { return &TaskTool{} }

// Name implements Tool.
func (t *TaskTool) Name() string { return "Task" }

// Description implements Tool.
func (t *TaskTool) Description() string {
	return "Delegate a self-contained task to a specialized agent. The sub-agent works in isolation and returns a single final report; include every detail it needs in the prompt."
}

// Parameters implements Tool.
func (t *TaskTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"description": map[string]any{
				"type":        "string",
				"description": "Short (3-5 word) summary of the task.",
			},
			"prompt": map[string]any{
				"type":        "string",
				"description": "Complete task description for the sub-agent, including all required context.",
			},
			"subagent_type": map[string]any{
				"type":        "string",
				"description": "Name of the agent to delegate to.",
			},
		},
		"required": []string{"prompt", "subagent_type"},
	}
}

// Call implements Tool.
func (t *TaskTool) Call(tc *core.ToolContext, args map[string]any) (any, error) {
	delegator := tc.Delegator()
	if delegator == nil {
		return nil, NewToolError(t.Name(), "delegation is not permitted for this agent", CodeExecution)
	}

	prompt, _ := args["prompt"].(string)
	if prompt == "" {
		return nil, NewToolError(t.Name(), "prompt is required", CodeValidation)
	}

	agentName, _ := args["subagent_type"].(string)
	if agentName == "" {
		return nil, NewToolError(t.Name(), "subagent_type is required", CodeValidation)
	}

	report, err := delegator.Delegate(tc.Context(), tc.AgentName(), agentName, prompt)
	if err != nil {
		return nil, NewToolError(t.Name(), fmt.Sprintf("delegate to %q: %v", agentName, err), CodeExecution)
	}

	return report, nil
}
