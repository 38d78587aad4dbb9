package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentcore/core"
)

func validConfig() *Config {
	return &Config{
		Backends: BackendsConfig{Default: "anthropic", Fallbacks: []string{"openai"}},
		Agents: []core.AgentDescriptor{
			{Name: "main", IterationCap: 10, ContextWindow: 50},
		},
		Session: SessionConfig{MaxMessages: 50},
	}
}

// -------------------- Validation Tests --------------------

func TestValidateAcceptsDefaults(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestValidateUnknownBackend(t *testing.T) {
	cfg := validConfig()
	cfg.Backends.Default = "llama"

	assert.ErrorContains(t, cfg.Validate(), "backends.default")
}

func TestValidateDuplicateFallback(t *testing.T) {
	cfg := validConfig()
	cfg.Backends.Fallbacks = []string{"anthropic"}

	assert.ErrorContains(t, cfg.Validate(), "duplicates the default")
}

func TestValidateDuplicateAgentNames(t *testing.T) {
	cfg := validConfig()
	cfg.Agents = append(cfg.Agents, core.AgentDescriptor{Name: "main", IterationCap: 5})

	assert.ErrorContains(t, cfg.Validate(), "duplicate agent name")
}

func TestValidateIterationCap(t *testing.T) {
	cfg := validConfig()
	cfg.Agents[0].IterationCap = 0

	assert.ErrorContains(t, cfg.Validate(), "iteration_cap")
}

func TestValidateRequiresAgents(t *testing.T) {
	cfg := validConfig()
	cfg.Agents = nil

	assert.ErrorContains(t, cfg.Validate(), "at least one agent")
}

// -------------------- Load Tests --------------------

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	content := `{
  "backends": {
    "default": "openai",
    "openai": {"model": "gpt-4o", "max_tokens": 2048}
  },
  "agents": [
    {"name": "main", "tools": null, "may_delegate": true, "iteration_cap": 8, "context_window": 30}
  ],
  "session": {"max_messages": 30},
  "workspace": "/tmp/work"
}`

	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.Backends.Default)
	assert.Equal(t, "gpt-4o", cfg.Backends.OpenAI.Model)
	require.Len(t, cfg.Agents, 1)
	assert.True(t, cfg.Agents[0].MayDelegate)
	assert.Equal(t, 8, cfg.Agents[0].IterationCap)
	assert.Equal(t, "/tmp/work", cfg.Workspace)
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")

	require.NoError(t, os.WriteFile(path, []byte(`{"backends": {"default": "nope"}}`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

// -------------------- Default Catalog Tests --------------------

func TestDefaultAgentsCatalog(t *testing.T) {
	agents := DefaultAgents()

	byName := make(map[string]core.AgentDescriptor, len(agents))
	for _, a := range agents {
		byName[a.Name] = a
	}

	require.Contains(t, byName, "main")
	assert.True(t, byName["main"].MayDelegate, "only main may delegate")
	assert.Nil(t, byName["main"].Tools, "main sees every tool")

	for name, a := range byName {
		if name == "main" {
			continue
		}

		assert.False(t, a.MayDelegate, "agent %s must not delegate", name)
		assert.True(t, a.ToolEnabled("Exit"), "agent %s needs the Exit tool", name)
	}
}
