// Package agentcore provides a high-level façade over the agent loop, model
// backend manager, tool registry and session store, enabling rapid
// construction of tool-using coding agents. Most applications interact with
// this package by:
//  1. Creating a Runtime via New() (optionally overriding the configuration,
//     tool registry or logger)
//  2. Registering extra agents or tools as needed
//  3. Executing requests synchronously with Execute()
//
// The façade wires the agent catalog from configuration, probes backends at
// startup and keeps one bounded conversation context per session key. All
// defaults are safe for local development; production deployments typically
// supply explicit backend credentials and a structured logger.
package agentcore

import (
	"context"
	"fmt"
	"sync"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/hupe1980/agentcore/agent"
	"github.com/hupe1980/agentcore/config"
	"github.com/hupe1980/agentcore/core"
	"github.com/hupe1980/agentcore/logging"
	"github.com/hupe1980/agentcore/model"
	"github.com/hupe1980/agentcore/model/anthropic"
	"github.com/hupe1980/agentcore/model/openai"
	"github.com/hupe1980/agentcore/session"
	"github.com/hupe1980/agentcore/tool"
)

// Options configures the Runtime instance.
type Options struct {
	// Config supplies backends, the agent catalog and session limits.
	// Defaults to config.DefaultConfig().
	Config *config.Config

	// Registry holds the available tools. Defaults to the builtin toolset.
	Registry *tool.Registry

	// Backends overrides the backends built from Config, mainly for tests.
	Backends []model.Backend

	// WorkDir is the directory tools operate in. Defaults to Config.Workspace
	// or ".".
	WorkDir string

	// SkipProbe disables the startup availability probe.
	SkipProbe bool

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Runtime is the high-level façade aggregating the model manager, tool
// registry, agent catalog and per-session conversation contexts.
type Runtime struct {
	opts      Options
	models    *model.Manager
	registry  *tool.Registry
	delegator *agent.Delegator
	logger    logging.Logger
	workDir   string

	mu       sync.Mutex
	loops    map[string]*agent.Loop
	sessions map[string]*session.Context
}

// New creates a new Runtime with optional overrides. Unset options fall back
// to the default configuration, the builtin toolset and backends built from
// the configuration.
func New(ctx context.Context, optFns ...func(o *Options)) (*Runtime, error) {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}

	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if opts.Registry == nil {
		opts.Registry = tool.NewBuiltinRegistry()
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	workDir := opts.WorkDir
	if workDir == "" {
		workDir = opts.Config.Workspace
	}

	if workDir == "" {
		workDir = "."
	}

	backends := opts.Backends
	if backends == nil {
		var err error

		backends, err = buildBackends(opts.Config.Backends)
		if err != nil {
			return nil, err
		}
	}

	models := model.NewManager(opts.Logger, backends...)

	if !opts.SkipProbe {
		models.Probe(ctx)
	}

	r := &Runtime{
		opts:      opts,
		models:    models,
		registry:  opts.Registry,
		delegator: agent.NewDelegator(models, opts.Registry, workDir, opts.Logger),
		logger:    opts.Logger,
		workDir:   workDir,
		loops:     make(map[string]*agent.Loop),
		sessions:  make(map[string]*session.Context),
	}

	for _, descriptor := range opts.Config.Agents {
		if err := r.RegisterAgent(descriptor); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// RegisterAgent adds an agent to the runtime and makes it available as a
// delegation target.
func (r *Runtime) RegisterAgent(descriptor core.AgentDescriptor) error {
	if err := r.delegator.Register(descriptor); err != nil {
		return err
	}

	loop := agent.NewLoop(descriptor, r.models, r.registry, func(o *agent.LoopOptions) {
		o.Logger = r.logger
		o.Delegator = r.delegator
		o.WorkDir = r.workDir
	})

	r.mu.Lock()
	r.loops[descriptor.Name] = loop
	r.mu.Unlock()

	return nil
}

// RegisterTool adds a tool to the runtime's registry.
func (r *Runtime) RegisterTool(t tool.Tool) error {
	return r.registry.Register(t)
}

// Agents returns the names of all registered agents.
func (r *Runtime) Agents() []string {
	return r.delegator.Agents()
}

// Execute runs a request through the named agent within the given session.
// Conversation state persists across calls sharing a session key.
func (r *Runtime) Execute(ctx context.Context, sessionKey, agentName, request string) (core.RunResult, error) {
	r.mu.Lock()

	loop, ok := r.loops[agentName]
	if !ok {
		r.mu.Unlock()
		return core.RunResult{}, fmt.Errorf("unknown agent %q", agentName)
	}

	convo, ok := r.sessions[sessionKey]
	if !ok {
		convo = r.newSession(loop.Descriptor())
		r.sessions[sessionKey] = convo
	}

	r.mu.Unlock()

	return loop.Run(ctx, sessionKey, request, convo)
}

// Session returns the conversation context for a session key, creating it
// with the named agent's limits if absent.
func (r *Runtime) Session(sessionKey, agentName string) (*session.Context, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if convo, ok := r.sessions[sessionKey]; ok {
		return convo, nil
	}

	loop, ok := r.loops[agentName]
	if !ok {
		return nil, fmt.Errorf("unknown agent %q", agentName)
	}

	convo := r.newSession(loop.Descriptor())
	r.sessions[sessionKey] = convo

	return convo, nil
}

// ScanWorkspace scans the runtime's working directory and attaches the
// resulting project manifest to the given session.
func (r *Runtime) ScanWorkspace(sessionKey, agentName string) error {
	convo, err := r.Session(sessionKey, agentName)
	if err != nil {
		return err
	}

	project, err := session.ScanProject(r.workDir)
	if err != nil {
		return err
	}

	convo.SetProject(project)

	return nil
}

func (r *Runtime) newSession(descriptor core.AgentDescriptor) *session.Context {
	max := descriptor.ContextWindow
	if max <= 0 {
		max = r.opts.Config.Session.MaxMessages
	}

	return session.NewContext(max)
}

func buildBackends(cfg config.BackendsConfig) ([]model.Backend, error) {
	order := append([]string{cfg.Default}, cfg.Fallbacks...)

	backends := make([]model.Backend, 0, len(order))

	for _, name := range order {
		switch name {
		case "anthropic":
			backends = append(backends, anthropic.New(func(o *anthropic.Options) {
				if cfg.Anthropic.Model != "" {
					o.Model = anthropicsdk.Model(cfg.Anthropic.Model)
				}
				if cfg.Anthropic.Temperature != 0 {
					o.Temperature = cfg.Anthropic.Temperature
				}
				if cfg.Anthropic.MaxTokens != 0 {
					o.MaxTokens = int64(cfg.Anthropic.MaxTokens)
				}
				if cfg.Anthropic.APIKey != "" {
					o.APIKey = cfg.Anthropic.APIKey
				}
			}))
		case "openai":
			backends = append(backends, openai.New(func(o *openai.Options) {
				if cfg.OpenAI.Model != "" {
					o.Model = cfg.OpenAI.Model
				}
				if cfg.OpenAI.Temperature != 0 {
					o.Temperature = cfg.OpenAI.Temperature
				}
				if cfg.OpenAI.MaxTokens != 0 {
					o.MaxCompletionTokens = int64(cfg.OpenAI.MaxTokens)
				}
				if cfg.OpenAI.APIKey != "" {
					o.APIKey = cfg.OpenAI.APIKey
				}
			}))
		default:
			return nil, fmt.Errorf("unknown backend %q", name)
		}
	}

	return backends, nil
}
