// Package config loads and validates runtime configuration: backend order,
// per-provider options, the agent catalog and session limits.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/hupe1980/agentcore/core"
)

// AnthropicConfig holds provider options for the Anthropic backend.
type AnthropicConfig struct {
	Model       string  `json:"model,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	APIKey      string  `json:"api_key,omitempty"`
}

// OpenAIConfig holds provider options for the OpenAI backend.
type OpenAIConfig struct {
	Model       string  `json:"model,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	APIKey      string  `json:"api_key,omitempty"`
}

// BackendsConfig selects the backend trial order and provider options.
type BackendsConfig struct {
	// Default is the backend tried first ("anthropic" or "openai").
	Default string `json:"default"`

	// Fallbacks are tried in order when the default fails.
	Fallbacks []string `json:"fallbacks,omitempty"`

	Anthropic AnthropicConfig `json:"anthropic,omitempty"`
	OpenAI    OpenAIConfig    `json:"openai,omitempty"`
}

// SessionConfig bounds per-session state.
type SessionConfig struct {
	// MaxMessages caps the conversation window.
	MaxMessages int `json:"max_messages"`
}

// Config is the full runtime configuration.
type Config struct {
	Backends  BackendsConfig         `json:"backends"`
	Agents    []core.AgentDescriptor `json:"agents"`
	Session   SessionConfig          `json:"session"`
	Workspace string                 `json:"workspace,omitempty"`
}

// Load reads a JSON configuration file and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config %s: %w", path, err)
	}

	return &cfg, nil
}

// Validate checks structural invariants: known backend names, unique agent
// names and positive limits.
func (c *Config) Validate() error {
	if !validBackendName(c.Backends.Default) {
		return fmt.Errorf("backends.default must be %q or %q, got %q", "anthropic", "openai", c.Backends.Default)
	}

	for _, name := range c.Backends.Fallbacks {
		if !validBackendName(name) {
			return fmt.Errorf("unknown fallback backend %q", name)
		}

		if name == c.Backends.Default {
			return fmt.Errorf("fallback backend %q duplicates the default", name)
		}
	}

	if len(c.Agents) == 0 {
		return fmt.Errorf("at least one agent must be configured")
	}

	seen := make(map[string]bool, len(c.Agents))
	for _, a := range c.Agents {
		if a.Name == "" {
			return fmt.Errorf("agent with empty name")
		}

		if seen[a.Name] {
			return fmt.Errorf("duplicate agent name %q", a.Name)
		}

		seen[a.Name] = true

		if a.IterationCap <= 0 {
			return fmt.Errorf("agent %q: iteration_cap must be positive", a.Name)
		}

		if a.ContextWindow < 0 {
			return fmt.Errorf("agent %q: context_window must not be negative", a.Name)
		}
	}

	if c.Session.MaxMessages < 0 {
		return fmt.Errorf("session.max_messages must not be negative")
	}

	return nil
}

func validBackendName(name string) bool {
	return name == "anthropic" || name == "openai"
}
