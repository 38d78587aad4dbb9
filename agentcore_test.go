package agentcore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentcore/model"
)

func newTestRuntime(t *testing.T, backend model.Backend) *Runtime {
	t.Helper()

	runtime, err := New(context.Background(), func(o *Options) {
		o.Backends = []model.Backend{backend}
		o.SkipProbe = true
		o.WorkDir = t.TempDir()
	})
	require.NoError(t, err)

	return runtime
}

func TestRuntimeExecute(t *testing.T) {
	backend := model.NewMockBackend("mock", model.Response{Text: "done and dusted"})
	runtime := newTestRuntime(t, backend)

	result, err := runtime.Execute(context.Background(), "s1", "main", "do a thing")
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "done and dusted", result.Content)
}

func TestRuntimeUnknownAgent(t *testing.T) {
	runtime := newTestRuntime(t, model.NewMockBackend("mock", model.Response{Text: "x"}))

	_, err := runtime.Execute(context.Background(), "s1", "ghost", "hello")
	assert.ErrorContains(t, err, "unknown agent")
}

func TestRuntimeSessionPersistsAcrossCalls(t *testing.T) {
	backend := model.NewMockBackend("mock",
		model.Response{Text: "first answer"},
		model.Response{Text: "second answer"},
	)
	runtime := newTestRuntime(t, backend)

	_, err := runtime.Execute(context.Background(), "s1", "main", "first question")
	require.NoError(t, err)

	_, err = runtime.Execute(context.Background(), "s1", "main", "second question")
	require.NoError(t, err)

	convo, err := runtime.Session("s1", "main")
	require.NoError(t, err)

	// user, assistant, user, assistant
	assert.Equal(t, 4, convo.Len())
}

func TestRuntimeRegistersDefaultCatalog(t *testing.T) {
	runtime := newTestRuntime(t, model.NewMockBackend("mock", model.Response{Text: "x"}))

	agents := runtime.Agents()

	assert.Contains(t, agents, "main")
	assert.Contains(t, agents, "code")
	assert.Contains(t, agents, "test")
	assert.Contains(t, agents, "debug")
	assert.Contains(t, agents, "docs")
	assert.Contains(t, agents, "general")
}
