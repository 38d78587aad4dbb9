package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentcore/core"
)

// -------------------- Window Tests --------------------

func TestContextDropsOldestBeyondCap(t *testing.T) {
	c := NewContext(10)

	for i := 0; i < 15; i++ {
		c.Append(core.NewMessage(core.RoleUser, fmt.Sprintf("msg-%d", i)))
	}

	msgs := c.Messages()

	require.Len(t, msgs, 10)
	assert.Equal(t, "msg-5", msgs[0].Content, "oldest messages are evicted first")
	assert.Equal(t, "msg-14", msgs[9].Content)
}

func TestContextDefaultsCap(t *testing.T) {
	c := NewContext(0)

	assert.Equal(t, DefaultMaxMessages, c.MaxMessages())
}

func TestContextMessagesReturnsCopies(t *testing.T) {
	c := NewContext(5)
	c.Append(core.NewMessage(core.RoleUser, "original"))

	msgs := c.Messages()
	msgs[0].Content = "mutated"

	assert.Equal(t, "original", c.Messages()[0].Content)
}

func TestContextStateBag(t *testing.T) {
	c := NewContext(5)

	_, ok := c.GetState("missing")
	assert.False(t, ok)

	c.SetState("todos", []string{"a", "b"})

	v, ok := c.GetState("todos")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, v)
}

func TestContextClearKeepsState(t *testing.T) {
	c := NewContext(5)
	c.Append(core.NewMessage(core.RoleUser, "hello"))
	c.SetState("k", "v")

	c.Clear()

	assert.Zero(t, c.Len())

	_, ok := c.GetState("k")
	assert.True(t, ok)
}

// -------------------- Snapshot Tests --------------------

func TestSnapshotRoundTrip(t *testing.T) {
	c := NewContext(10)
	c.Append(core.NewMessage(core.RoleUser, "question"))
	c.Append(core.NewMessage(core.RoleAssistant, "answer"))
	c.SetState("key", "value")

	data, err := MarshalSnapshot(c.Snapshot())
	require.NoError(t, err)

	snap, err := UnmarshalSnapshot(data)
	require.NoError(t, err)

	restored := Restore(snap)

	require.Equal(t, 2, restored.Len())
	assert.Equal(t, "question", restored.Messages()[0].Content)
	assert.Equal(t, 10, restored.MaxMessages())

	v, ok := restored.GetState("key")
	require.True(t, ok)
	assert.Equal(t, "value", v)
}

// -------------------- Project Scan Tests --------------------

func TestScanProjectPrunesDependencyDirs(t *testing.T) {
	root := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("package main"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "node_modules", "pkg"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "node_modules", "pkg", "index.js"), []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".git", "HEAD"), []byte("ref"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "internal"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "internal", "a.go"), []byte("package internal"), 0o644))

	p, err := ScanProject(root)
	require.NoError(t, err)

	assert.Contains(t, p.Files, "main.go")
	assert.Contains(t, p.Files, "internal/a.go")
	assert.NotContains(t, p.Files, "node_modules/pkg/index.js")
	assert.NotContains(t, p.Files, ".git/HEAD")
}

func TestProjectManifest(t *testing.T) {
	p := &Project{
		Name: "demo",
		Files: map[string]FileInfo{
			"b.go": {Size: 10},
			"a.go": {Size: 20},
		},
	}

	manifest := p.Manifest()

	assert.Contains(t, manifest, "Project: demo (2 files)")
	assert.Less(t, strings.Index(manifest, "a.go"), strings.Index(manifest, "b.go"), "listing is sorted")

	var nilProject *Project

	assert.Empty(t, nilProject.Manifest())
}
