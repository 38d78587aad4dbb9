// Package core contains the leaf value types shared by every layer of
// agentcore: conversation messages, tool-call intents and outcomes, agent
// descriptors and the constrained execution surface handed to tools.
//
// The package has no dependencies on the higher layers (model, parse,
// dispatch, agent) so that all of them can exchange values without cycles.
package core

// RunResult is the terminal value returned to the top-level caller of an
// agent loop invocation. Content is always non-empty on a completed run;
// Error carries a human-readable failure description when Success is false.
// Raw internal faults are never exposed through this type.
type RunResult struct {
	Content string `json:"content"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
