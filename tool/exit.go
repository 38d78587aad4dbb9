package tool

import (
	"fmt"

	"github.com/hupe1980/agentcore/core"
)

// Exit statuses accepted by the Exit tool.
const (
	ExitStatusSuccess = "success"
	ExitStatusFailed  = "failed"
)

// ExitTool signals that the agent has finished its work. The agent loop
// watches for this tool by name and terminates when it is called with a
// valid status; any other status is rejected so the loop keeps running.
type ExitTool struct{}

// NewExitTool creates the termination tool.
func NewExitTool() *ExitTool { return &ExitTool{} }

// Name implements Tool.
func (t *ExitTool) Name() string { return "Exit" }

// Description implements Tool.
func (t *ExitTool) Description() string {
	return "Terminate execution with a final status. Call this when the task is complete (status 'success') or cannot be completed (status 'failed')."
}

// Parameters implements Tool.
func (t *ExitTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"status": map[string]any{
				"type":        "string",
				"enum":        []string{ExitStatusSuccess, ExitStatusFailed},
				"description": "Final execution status.",
			},
			"message": map[string]any{
				"type":        "string",
				"description": "Optional closing message summarizing the outcome.",
			},
		},
		"required": []string{"status"},
	}
}

// Call implements Tool.
func (t *ExitTool) Call(tc *core.ToolContext, args map[string]any) (any, error) {
	status, _ := args["status"].(string)
	if status != ExitStatusSuccess && status != ExitStatusFailed {
		return nil, NewToolError(t.Name(), fmt.Sprintf("status must be %q or %q, got %q", ExitStatusSuccess, ExitStatusFailed, status), CodeValidation)
	}

	message, _ := args["message"].(string)

	result := fmt.Sprintf("Execution terminated with status: %s", status)
	if message != "" {
		result += " - " + message
	}

	return map[string]any{
		"status":     status,
		"message":    message,
		"terminated": true,
		"result":     result,
	}, nil
}

// ExitStatus extracts the exit status from a tool call intent aimed at the
// Exit tool. It returns false when the intent does not carry a valid
// terminating status.
func ExitStatus(intent core.ToolCallIntent) (string, bool) {
	if intent.Name != "Exit" {
		return "", false
	}

	status, _ := intent.Params["status"].(string)
	if status != ExitStatusSuccess && status != ExitStatusFailed {
		return "", false
	}

	return status, true
}

// ExitMessage extracts the optional closing message from an Exit intent.
func ExitMessage(intent core.ToolCallIntent) string {
	message, _ := intent.Params["message"].(string)
	return message
}
