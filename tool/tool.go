// Package tool implements the capability subsystem that lets agents invoke
// structured tools (file I/O, shell execution, search, delegation) with
// schema validated arguments, consistent error handling and metadata for
// model guidance.
package tool

import (
	"fmt"

	"github.com/hupe1980/agentcore/core"
)

// Tool defines the interface for extending agent capabilities with external
// functions.
//
// Tool implementations should:
//   - Provide clear, descriptive names and descriptions
//   - Define proper JSON schema for parameters
//   - Never let an internal fault escape Call under normal dispatcher use
//   - Be thread-safe if used concurrently; any session table a tool keeps
//     (e.g. background process handles) is owned and synchronized by that
//     tool instance alone
type Tool interface {
	// Name returns the unique identifier for this tool.
	Name() string

	// Description returns a human-readable description of what this tool
	// does. It is provided to the model to help it decide when to call.
	Description() string

	// Parameters returns a JSON schema describing the expected input format.
	Parameters() map[string]any

	// Call executes the tool with decoded arguments and the constrained
	// per-invocation context.
	Call(tc *core.ToolContext, args map[string]any) (any, error)
}

// Error codes used across tool failures.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeExecution  = "EXECUTION_ERROR"
)

// ToolError represents errors that occur during tool execution.
type ToolError struct {
	Tool    string `json:"tool"`              // Name of the tool that failed
	Message string `json:"message"`           // Error message
	Code    string `json:"code"`              // Error code for categorization
	Details any    `json:"details,omitempty"` // Additional error details
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{Tool: tool, Message: message, Code: code}
}
