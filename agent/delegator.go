package agent

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/hupe1980/agentcore/core"
	"github.com/hupe1980/agentcore/logging"
	"github.com/hupe1980/agentcore/model"
	"github.com/hupe1980/agentcore/session"
	"github.com/hupe1980/agentcore/tool"
)

// Delegator routes Task tool calls to registered agents. A delegated agent
// runs in a fresh, isolated session and with delegation disabled, so the
// delegation tree never grows deeper than one level.
type Delegator struct {
	mu       sync.RWMutex
	models   *model.Manager
	registry *tool.Registry
	logger   logging.Logger
	workDir  string
	agents   map[string]core.AgentDescriptor
}

// NewDelegator creates a delegator that builds sub-agent loops over the
// given model manager and tool registry.
func NewDelegator(models *model.Manager, registry *tool.Registry, workDir string, logger logging.Logger) *Delegator {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}

	return &Delegator{
		models:   models,
		registry: registry,
		logger:   logger,
		workDir:  workDir,
		agents:   make(map[string]core.AgentDescriptor),
	}
}

// Register makes an agent available as a delegation target.
func (d *Delegator) Register(descriptor core.AgentDescriptor) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if descriptor.Name == "" {
		return fmt.Errorf("cannot register agent with empty name")
	}

	if _, ok := d.agents[descriptor.Name]; ok {
		return fmt.Errorf("agent %q already registered", descriptor.Name)
	}

	d.agents[descriptor.Name] = descriptor

	return nil
}

// Agents returns the names of all registered delegation targets.
func (d *Delegator) Agents() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.agents))
	for name := range d.agents {
		names = append(names, name)
	}

	return names
}

// Delegate implements core.Delegator. The target runs with a fresh session
// context and a descriptor stripped of delegation rights.
func (d *Delegator) Delegate(ctx context.Context, caller, agentName, request string) (string, error) {
	if agentName == caller {
		return "", fmt.Errorf("agent %q cannot delegate to itself", caller)
	}

	d.mu.RLock()
	descriptor, ok := d.agents[agentName]
	d.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("unknown agent %q", agentName)
	}

	d.logger.Info("delegating task", "from", caller, "to", agentName)

	loop := NewLoop(descriptor.Delegated(), d.models, d.registry, func(o *LoopOptions) {
		o.Logger = d.logger
		o.WorkDir = d.workDir
	})

	convo := session.NewContext(descriptor.ContextWindow)

	result, err := loop.Run(ctx, "task-"+uuid.NewString(), request, convo)
	if err != nil {
		return "", err
	}

	if !result.Success && result.Error != "" {
		return "", fmt.Errorf("agent %q failed: %s", agentName, result.Error)
	}

	return result.Content, nil
}
