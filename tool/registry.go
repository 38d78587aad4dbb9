package tool

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hupe1980/agentcore/model"
)

// Registry holds the set of tools available to agents. It is safe for
// concurrent use.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool to the registry. Registering a second tool under an
// existing name is rejected.
func (r *Registry) Register(t Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := t.Name()
	if name == "" {
		return fmt.Errorf("cannot register tool with empty name")
	}

	if _, ok := r.tools[name]; ok {
		return fmt.Errorf("tool %q already registered", name)
	}

	r.tools[name] = t

	return nil
}

// MustRegister registers a tool and panics on conflict. Intended for static
// setup in main functions and tests.
func (r *Registry) MustRegister(t Tool) {
	if err := r.Register(t); err != nil {
		panic(err)
	}
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[name]

	return t, ok
}

// Names returns the sorted names of all registered tools.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Definitions returns model-facing tool definitions. If enabled is non-nil,
// only tools whose names appear in enabled are included; a nil slice means
// every registered tool.
func (r *Registry) Definitions(enabled []string) []model.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var allow map[string]bool
	if enabled != nil {
		allow = make(map[string]bool, len(enabled))
		for _, name := range enabled {
			allow[name] = true
		}
	}

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		if allow != nil && !allow[name] {
			continue
		}

		names = append(names, name)
	}

	sort.Strings(names)

	defs := make([]model.ToolDefinition, 0, len(names))
	for _, name := range names {
		t := r.tools[name]
		defs = append(defs, model.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: t.Parameters(),
		})
	}

	return defs
}
