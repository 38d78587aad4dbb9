package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------- Fallback Tests --------------------

func TestGenerateFallsBackOnFailure(t *testing.T) {
	primary := NewMockBackend("primary", Response{Text: "unused"})
	primary.FailWith(errors.New("rate limited"))

	secondary := NewMockBackend("secondary", Response{Text: "from secondary"})

	m := NewManager(nil, primary, secondary)

	resp, err := m.Generate(context.Background(), Request{})

	require.NoError(t, err)
	assert.Equal(t, "from secondary", resp.Text)
	assert.Equal(t, 1, primary.Calls())
	assert.Equal(t, 1, secondary.Calls())
}

func TestGenerateSkipsUnavailableBackend(t *testing.T) {
	primary := NewMockBackend("primary", Response{Text: "unused"})
	primary.SetAvailable(false)

	secondary := NewMockBackend("secondary", Response{Text: "ok"})

	m := NewManager(nil, primary, secondary)
	m.Probe(context.Background())

	assert.False(t, m.IsAvailable("primary"))
	assert.True(t, m.IsAvailable("secondary"))

	resp, err := m.Generate(context.Background(), Request{})

	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Zero(t, primary.Calls(), "probed-out backend must not be tried")
}

func TestGenerateExhaustion(t *testing.T) {
	first := NewMockBackend("first")
	first.FailWith(errors.New("boom-1"))

	second := NewMockBackend("second")
	second.FailWith(errors.New("boom-2"))

	m := NewManager(nil, first, second)

	_, err := m.Generate(context.Background(), Request{})

	require.Error(t, err)

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, []string{"first", "second"}, exhausted.Attempted)
	assert.ErrorContains(t, exhausted.LastErr, "boom-2")
}

func TestGenerateShieldsPanickingBackend(t *testing.T) {
	panicky := &panicBackend{}
	fallback := NewMockBackend("fallback", Response{Text: "recovered"})

	m := NewManager(nil, panicky, fallback)

	resp, err := m.Generate(context.Background(), Request{})

	require.NoError(t, err)
	assert.Equal(t, "recovered", resp.Text)
}

func TestGenerateNoBackends(t *testing.T) {
	m := NewManager(nil)

	_, err := m.Generate(context.Background(), Request{})

	require.Error(t, err)
}

// -------------------- Probe Tests --------------------

func TestProbeSurvivesPanickingBackend(t *testing.T) {
	m := NewManager(nil, &panicBackend{}, NewMockBackend("ok", Response{Text: "x"}))

	assert.NotPanics(t, func() { m.Probe(context.Background()) })
	assert.False(t, m.IsAvailable("panicky"))
	assert.True(t, m.IsAvailable("ok"))
}

type panicBackend struct{}

func (p *panicBackend) Name() string { return "panicky" }

func (p *panicBackend) Generate(context.Context, Request) (*Response, error) {
	panic("backend blew up")
}

func (p *panicBackend) CheckAvailability(context.Context) bool {
	panic("probe blew up")
}
