package core

// ToolCallIntent is one normalized tool invocation extracted from a model
// turn, regardless of which wire encoding carried it. Intents are produced
// by the output interpreter, consumed exactly once by the dispatcher and
// never persisted beyond the turn that produced them.
type ToolCallIntent struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params"`
	// ID correlates the intent with the backend's native tool-call entry.
	// Empty for calls recovered from the legacy inline grammar.
	ID string `json:"id,omitempty"`
}

// ToolOutcome records the result of executing a single intent. Every intent
// in a batch yields at most one outcome; a failed outcome carries Error and
// a nil Result.
type ToolOutcome struct {
	Name      string `json:"name"`
	ID        string `json:"id,omitempty"`
	Succeeded bool   `json:"succeeded"`
	Result    any    `json:"result,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ToolBatchResult aggregates the ordered outcomes of one dispatched batch.
// Outcome order always matches intent order.
type ToolBatchResult struct {
	Outcomes     []ToolOutcome `json:"outcomes"`
	SuccessCount int           `json:"success_count"`
	FailureCount int           `json:"failure_count"`
}

// Add appends an outcome updating the aggregate counters.
func (r *ToolBatchResult) Add(o ToolOutcome) {
	r.Outcomes = append(r.Outcomes, o)
	if o.Succeeded {
		r.SuccessCount++
	} else {
		r.FailureCount++
	}
}

// HasFailures reports whether any outcome in the batch failed.
func (r *ToolBatchResult) HasFailures() bool { return r.FailureCount > 0 }
