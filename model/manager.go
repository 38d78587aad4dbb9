package model

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/agentcore/logging"
)

// ExhaustedError reports that every configured backend failed or was
// unavailable for a generate call. It is the only model-layer failure that
// escapes to the loop's caller.
type ExhaustedError struct {
	Attempted []string
	LastErr   error
}

// Error implements error.
func (e *ExhaustedError) Error() string {
	msg := fmt.Sprintf("all model backends exhausted (attempted: %s)", strings.Join(e.Attempted, ", "))
	if e.LastErr != nil {
		msg += ": " + e.LastErr.Error()
	}
	return msg
}

// Unwrap exposes the last backend error for errors.Is/As chains.
func (e *ExhaustedError) Unwrap() error { return e.LastErr }

// Manager holds an ordered list of backends: one default followed by the
// declared fallback sequence. On call failure it tries the next backend
// silently and raises only once every backend has been exhausted.
type Manager struct {
	backends []Backend
	logger   logging.Logger

	mu        sync.RWMutex
	available map[string]bool
}

// NewManager constructs a manager over the given backend order. All
// backends are considered available until Probe is run.
func NewManager(logger logging.Logger, backends ...Backend) *Manager {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	available := make(map[string]bool, len(backends))
	for _, b := range backends {
		available[b.Name()] = true
	}
	return &Manager{backends: backends, logger: logger, available: available}
}

// Backends returns the configured backend names in fallback order.
func (m *Manager) Backends() []string {
	names := make([]string, len(m.backends))
	for i, b := range m.backends {
		names[i] = b.Name()
	}
	return names
}

// Probe checks every backend once with a minimal round trip, marking the
// unavailable ones. A backend panicking during its probe is marked
// unavailable rather than failing startup.
func (m *Manager) Probe(ctx context.Context) {
	for _, b := range m.backends {
		ok := m.probeOne(ctx, b)
		m.mu.Lock()
		m.available[b.Name()] = ok
		m.mu.Unlock()
		if !ok {
			m.logger.Warn("backend unavailable", "backend", b.Name())
			continue
		}
		m.logger.Info("backend available", "backend", b.Name())
	}
}

func (m *Manager) probeOne(ctx context.Context, b Backend) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("backend probe panicked", "backend", b.Name(), "recover", fmt.Sprintf("%v", r))
			ok = false
		}
	}()
	return b.CheckAvailability(ctx)
}

// IsAvailable reports the probed availability flag for a backend name.
func (m *Manager) IsAvailable(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.available[name]
}

// Generate tries each backend in order, skipping ones flagged unavailable,
// and returns the first successful response. A failing backend is passed
// over silently; only full exhaustion surfaces an *ExhaustedError.
func (m *Manager) Generate(ctx context.Context, req Request) (*Response, error) {
	attempted := make([]string, 0, len(m.backends))
	var lastErr error

	for _, b := range m.backends {
		attempted = append(attempted, b.Name())
		if !m.IsAvailable(b.Name()) {
			m.logger.Debug("skipping unavailable backend", "backend", b.Name())
			continue
		}

		start := time.Now()
		resp, err := m.generateOne(ctx, b, req)
		logging.LogModelCall(m.logger, b.Name(), time.Since(start), err)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}

	return nil, &ExhaustedError{Attempted: attempted, LastErr: lastErr}
}

// generateOne shields the manager from a panicking backend implementation.
func (m *Manager) generateOne(ctx context.Context, b Backend, req Request) (resp *Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp = nil
			err = fmt.Errorf("backend %s panicked: %v", b.Name(), r)
		}
	}()
	return b.Generate(ctx, req)
}
