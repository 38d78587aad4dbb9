package config

import "github.com/hupe1980/agentcore/core"

// Default limits applied by DefaultConfig.
const (
	defaultIterationCap  = 10
	defaultContextWindow = 50
)

// DefaultConfig returns the built-in configuration: Anthropic first with
// OpenAI as fallback, and the standard agent catalog.
func DefaultConfig() *Config {
	return &Config{
		Backends: BackendsConfig{
			Default:   "anthropic",
			Fallbacks: []string{"openai"},
		},
		Session: SessionConfig{MaxMessages: defaultContextWindow},
		Agents:  DefaultAgents(),
	}
}

// DefaultAgents returns the standard agent catalog. The main agent is the
// only one allowed to delegate; specialists see just the tools their role
// needs.
func DefaultAgents() []core.AgentDescriptor {
	return []core.AgentDescriptor{
		{
			Name:        "main",
			Description: "the primary coding assistant. You analyze requests, work through them with your tools, and delegate self-contained subtasks to specialist agents.",
			Capabilities: []string{
				"Software engineering tasks of any kind",
				"Delegating focused subtasks to specialist agents",
			},
			Tools:         nil, // all registered tools
			MayDelegate:   true,
			IterationCap:  defaultIterationCap,
			ContextWindow: defaultContextWindow,
		},
		{
			Name:        "code",
			Description: "a specialist for writing and modifying code.",
			Capabilities: []string{
				"Implementing features and fixing bugs",
				"Refactoring existing code",
			},
			Tools:         []string{"Read", "Write", "Edit", "MultiEdit", "TodoWrite", "Bash", "Glob", "Grep", "LS", "Exit"},
			IterationCap:  defaultIterationCap,
			ContextWindow: defaultContextWindow,
		},
		{
			Name:        "test",
			Description: "a specialist for running test suites and reporting results.",
			Capabilities: []string{
				"Running tests and interpreting failures",
			},
			Tools:         []string{"Bash", "Read", "Glob", "Grep", "LS", "Exit"},
			IterationCap:  defaultIterationCap,
			ContextWindow: defaultContextWindow,
		},
		{
			Name:        "debug",
			Description: "a specialist for diagnosing and fixing failures.",
			Capabilities: []string{
				"Reproducing and isolating bugs",
				"Applying minimal fixes",
			},
			Tools:         []string{"Bash", "Read", "Edit", "Glob", "Grep", "LS", "Exit"},
			IterationCap:  defaultIterationCap,
			ContextWindow: defaultContextWindow,
		},
		{
			Name:        "docs",
			Description: "a specialist for writing documentation.",
			Capabilities: []string{
				"Writing and updating documentation",
			},
			Tools:         []string{"Read", "Write", "Glob", "Grep", "LS", "Exit"},
			IterationCap:  defaultIterationCap,
			ContextWindow: defaultContextWindow,
		},
		{
			Name:        "general",
			Description: "a general-purpose agent for research and multi-step tasks.",
			Capabilities: []string{
				"Open-ended research across the workspace",
			},
			Tools:         []string{"Bash", "BashOutput", "KillBash", "Read", "Write", "Edit", "MultiEdit", "TodoWrite", "Glob", "Grep", "LS", "WebFetch", "Exit"},
			IterationCap:  defaultIterationCap,
			ContextWindow: defaultContextWindow,
		},
	}
}
