package core

// AgentDescriptor is the immutable configuration of one agent identity.
// Descriptors are built once at startup from static configuration; behavioral
// differences between agents are data held here, not subtypes.
type AgentDescriptor struct {
	// Name is the logical identifier used for routing and delegation.
	Name string `json:"name"`
	// Description is surfaced to models choosing a delegation target.
	Description string `json:"description,omitempty"`
	// Capabilities are free-form tags folded into the system prompt.
	Capabilities []string `json:"capabilities,omitempty"`
	// Tools lists the enabled tool names. A nil slice enables every
	// registered tool; an empty non-nil slice enables none.
	Tools []string `json:"tools"`
	// MayDelegate grants access to the Task pseudo-tool. Delegated agent
	// instances always run with this forced to false, bounding the call
	// tree at depth two.
	MayDelegate bool `json:"may_delegate"`
	// IterationCap is the maximum number of model-call/dispatch rounds
	// before the loop force-terminates.
	IterationCap int `json:"iteration_cap"`
	// ContextWindow bounds the trailing slice of prior conversation
	// included in each turn's input.
	ContextWindow int `json:"context_window"`
}

// ToolEnabled reports whether the named tool is in this agent's active set.
func (d AgentDescriptor) ToolEnabled(name string) bool {
	if d.Tools == nil {
		return true
	}
	for _, t := range d.Tools {
		if t == name {
			return true
		}
	}
	return false
}

// Delegated derives the descriptor used when this agent is invoked as a
// delegation target: identical configuration with delegation revoked.
func (d AgentDescriptor) Delegated() AgentDescriptor {
	out := d
	out.MayDelegate = false
	return out
}
