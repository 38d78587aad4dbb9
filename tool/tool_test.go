package tool

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentcore/core"
	"github.com/hupe1980/agentcore/internal/testutil"
	"github.com/hupe1980/agentcore/logging"
)

func newToolContext(t *testing.T) *core.ToolContext {
	t.Helper()

	scope := core.Scope{
		SessionKey: "test-session",
		AgentName:  "tester",
		WorkDir:    t.TempDir(),
		State:      testutil.MapStore{},
		Logger:     logging.NoOpLogger{},
	}

	return core.NewToolContext(context.Background(), scope, "call-1")
}

// -------------------- Registry Tests --------------------

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(NewExitTool()))
	assert.Error(t, r.Register(NewExitTool()))
}

func TestRegistryDefinitionsFilter(t *testing.T) {
	r := NewBuiltinRegistry()

	all := r.Definitions(nil)
	assert.Len(t, all, len(r.Names()), "nil filter exposes every tool")

	subset := r.Definitions([]string{"Read", "Exit"})
	require.Len(t, subset, 2)
	assert.Equal(t, "Exit", subset[0].Name)
	assert.Equal(t, "Read", subset[1].Name)

	none := r.Definitions([]string{})
	assert.Empty(t, none, "an empty non-nil filter enables no tools")
}

func TestBuiltinRegistryToolset(t *testing.T) {
	names := NewBuiltinRegistry().Names()

	for _, name := range []string{
		"Bash", "BashOutput", "KillBash",
		"Read", "Write", "Edit", "MultiEdit",
		"Glob", "Grep", "LS",
		"WebFetch", "TodoWrite", "Task", "Exit",
	} {
		assert.Contains(t, names, name)
	}
}

// -------------------- FunctionTool Tests --------------------

type greetInput struct {
	Name  string `json:"name" description:"Who to greet"`
	Times *int   `json:"times" description:"Optional repeat count"`
}

func TestFunctionToolValidatesAndDecodes(t *testing.T) {
	ft, err := NewFunctionTool("greet", "Greets someone.", func(tc *core.ToolContext, in greetInput) (any, error) {
		return "hello " + in.Name, nil
	})
	require.NoError(t, err)

	out, err := ft.Call(newToolContext(t), map[string]any{"name": "world"})
	require.NoError(t, err)
	assert.Equal(t, "hello world", out)

	// Missing required field fails schema validation.
	_, err = ft.Call(newToolContext(t), map[string]any{})
	require.Error(t, err)

	var terr *ToolError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, CodeValidation, terr.Code)
}

// -------------------- Exit Tool Tests --------------------

func TestExitToolValidStatuses(t *testing.T) {
	e := NewExitTool()

	out, err := e.Call(newToolContext(t), map[string]any{"status": "success", "message": "done"})
	require.NoError(t, err)

	result, ok := out.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, result["terminated"])
	assert.Equal(t, "Execution terminated with status: success - done", result["result"])
}

func TestExitToolRejectsInvalidStatus(t *testing.T) {
	e := NewExitTool()

	_, err := e.Call(newToolContext(t), map[string]any{"status": "partial"})
	require.Error(t, err)

	var terr *ToolError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, CodeValidation, terr.Code)
}

func TestExitStatusExtraction(t *testing.T) {
	status, ok := ExitStatus(core.ToolCallIntent{Name: "Exit", Params: map[string]any{"status": "failed"}})
	require.True(t, ok)
	assert.Equal(t, ExitStatusFailed, status)

	_, ok = ExitStatus(core.ToolCallIntent{Name: "Exit", Params: map[string]any{"status": "done"}})
	assert.False(t, ok)

	_, ok = ExitStatus(core.ToolCallIntent{Name: "Read", Params: map[string]any{"status": "success"}})
	assert.False(t, ok)
}

// -------------------- Task Tool Tests --------------------

type stubDelegator struct {
	caller, agent, request string
}

func (s *stubDelegator) Delegate(_ context.Context, caller, agent, request string) (string, error) {
	s.caller, s.agent, s.request = caller, agent, request
	return "sub report", nil
}

func TestTaskToolRequiresDelegator(t *testing.T) {
	task := NewTaskTool()

	_, err := task.Call(newToolContext(t), map[string]any{"subagent_type": "code", "prompt": "x"})
	assert.ErrorContains(t, err, "not permitted")
}

func TestTaskToolDelegates(t *testing.T) {
	stub := &stubDelegator{}
	scope := core.Scope{
		AgentName: "main",
		WorkDir:   t.TempDir(),
		Delegator: stub,
		Logger:    logging.NoOpLogger{},
	}
	tc := core.NewToolContext(context.Background(), scope, "call-1")

	out, err := NewTaskTool().Call(tc, map[string]any{"subagent_type": "code", "prompt": "fix the bug"})
	require.NoError(t, err)

	assert.Equal(t, "sub report", out)
	assert.Equal(t, "main", stub.caller)
	assert.Equal(t, "code", stub.agent)
	assert.Equal(t, "fix the bug", stub.request)
}

// -------------------- File Tool Tests --------------------

func TestReadWriteEditRoundTrip(t *testing.T) {
	tc := newToolContext(t)
	path := filepath.Join(tc.WorkDir(), "notes.txt")

	_, err := NewWriteTool().Call(tc, map[string]any{"file_path": path, "content": "alpha\nbeta\ngamma\n"})
	require.NoError(t, err)

	out, err := NewReadTool().Call(tc, map[string]any{"file_path": path})
	require.NoError(t, err)
	assert.Contains(t, out, "1\talpha")
	assert.Contains(t, out, "2\tbeta")

	_, err = NewEditTool().Call(tc, map[string]any{
		"file_path":  path,
		"old_string": "beta",
		"new_string": "BETA",
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "alpha\nBETA\ngamma\n", string(data))
}

func TestEditToolRequiresUniqueMatch(t *testing.T) {
	tc := newToolContext(t)
	path := filepath.Join(tc.WorkDir(), "dup.txt")

	require.NoError(t, os.WriteFile(path, []byte("x x"), 0o644))

	_, err := NewEditTool().Call(tc, map[string]any{
		"file_path":  path,
		"old_string": "x",
		"new_string": "y",
	})
	assert.ErrorContains(t, err, "occurs 2 times")

	_, err = NewEditTool().Call(tc, map[string]any{
		"file_path":   path,
		"old_string":  "x",
		"new_string":  "y",
		"replace_all": true,
	})
	require.NoError(t, err)

	data, _ := os.ReadFile(path)
	assert.Equal(t, "y y", string(data))
}

func TestReadToolRelativePath(t *testing.T) {
	tc := newToolContext(t)

	require.NoError(t, os.WriteFile(filepath.Join(tc.WorkDir(), "rel.txt"), []byte("here"), 0o644))

	out, err := NewReadTool().Call(tc, map[string]any{"file_path": "rel.txt"})
	require.NoError(t, err)
	assert.Contains(t, out, "here")
}

func TestMultiEditToolAppliesSequentially(t *testing.T) {
	tc := newToolContext(t)
	path := filepath.Join(tc.WorkDir(), "multi.txt")

	require.NoError(t, os.WriteFile(path, []byte("alpha beta beta gamma"), 0o644))

	out, err := NewMultiEditTool().Call(tc, map[string]any{
		"file_path": path,
		"edits": []any{
			map[string]any{"old_string": "alpha", "new_string": "ALPHA"},
			map[string]any{"old_string": "beta", "new_string": "B", "replace_all": true},
		},
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Applied 2 edits")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ALPHA B B gamma", string(data))
}

func TestMultiEditToolIsAtomic(t *testing.T) {
	tc := newToolContext(t)
	path := filepath.Join(tc.WorkDir(), "atomic.txt")

	require.NoError(t, os.WriteFile(path, []byte("one two"), 0o644))

	// The second edit cannot match, so the first must not be written either.
	_, err := NewMultiEditTool().Call(tc, map[string]any{
		"file_path": path,
		"edits": []any{
			map[string]any{"old_string": "one", "new_string": "ONE"},
			map[string]any{"old_string": "missing", "new_string": "x"},
		},
	})
	assert.ErrorContains(t, err, "not found")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one two", string(data))
}

func TestMultiEditToolCreatesFile(t *testing.T) {
	tc := newToolContext(t)
	path := filepath.Join(tc.WorkDir(), "fresh", "new.txt")

	_, err := NewMultiEditTool().Call(tc, map[string]any{
		"file_path": path,
		"edits": []any{
			map[string]any{"old_string": "", "new_string": "hello world"},
			map[string]any{"old_string": "world", "new_string": "there"},
		},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello there", string(data))
}

// -------------------- TodoWrite Tool Tests --------------------

func TestTodoWriteToolTracksStatusAcrossCalls(t *testing.T) {
	tc := newToolContext(t)
	todo := NewTodoWriteTool()

	out, err := todo.Call(tc, map[string]any{
		"todos": []any{
			map[string]any{"id": "1", "content": "write parser", "status": "in_progress"},
			map[string]any{"id": "2", "content": "add tests", "status": "pending"},
		},
	})
	require.NoError(t, err)

	result, ok := out.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Updated 2 todos. Status: 1 pending, 1 in progress, 0 completed", result["result"])

	// A second call updates by id and keeps the list in the session bag.
	out, err = todo.Call(tc, map[string]any{
		"todos": []any{
			map[string]any{"id": "1", "content": "write parser", "status": "completed"},
		},
	})
	require.NoError(t, err)

	result = out.(map[string]any)
	assert.Equal(t, "Updated 1 todos. Status: 1 pending, 0 in progress, 1 completed", result["result"])

	todos, ok := result["todos"].([]TodoItem)
	require.True(t, ok)
	require.Len(t, todos, 2)
	assert.Equal(t, "completed", todos[0].Status)
	assert.Equal(t, "pending", todos[1].Status)
}

func TestTodoWriteToolRejectsInvalidStatus(t *testing.T) {
	tc := newToolContext(t)

	_, err := NewTodoWriteTool().Call(tc, map[string]any{
		"todos": []any{
			map[string]any{"id": "1", "content": "task", "status": "done"},
		},
	})
	assert.ErrorContains(t, err, `status must be "pending", "in_progress" or "completed"`)

	_, err = NewTodoWriteTool().Call(tc, map[string]any{"todos": "not a list"})
	assert.ErrorContains(t, err, "must be an array")
}

// -------------------- Search Tool Tests --------------------

func TestGlobToolRecursivePattern(t *testing.T) {
	tc := newToolContext(t)
	root := tc.WorkDir()

	require.NoError(t, os.MkdirAll(filepath.Join(root, "pkg", "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("package main"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "pkg", "sub", "deep.go"), []byte("package sub"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("# hi"), 0o644))

	out, err := NewGlobTool().Call(tc, map[string]any{"pattern": "**/*.go"})
	require.NoError(t, err)

	listing, ok := out.(string)
	require.True(t, ok)
	assert.Contains(t, listing, "main.go")
	assert.Contains(t, listing, "deep.go")
	assert.NotContains(t, listing, "README.md")
}

func TestGrepToolFindsMatches(t *testing.T) {
	tc := newToolContext(t)
	root := tc.WorkDir()

	require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), []byte("package a\nfunc Hello() {}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.txt"), []byte("func Hello in prose"), 0o644))

	out, err := NewGrepTool().Call(tc, map[string]any{"pattern": `func \w+\(`, "include": "*.go"})
	require.NoError(t, err)

	listing, ok := out.(string)
	require.True(t, ok)
	assert.Contains(t, listing, "a.go:2")
	assert.NotContains(t, listing, "b.txt")
}

func TestLSToolMarksDirectories(t *testing.T) {
	tc := newToolContext(t)
	root := tc.WorkDir()

	require.NoError(t, os.MkdirAll(filepath.Join(root, "dir"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "file.txt"), []byte("x"), 0o644))

	out, err := NewLSTool().Call(tc, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "dir/\nfile.txt", out)
}

// -------------------- Bash Tool Tests --------------------

func TestBashToolRunsCommand(t *testing.T) {
	bash, _, _ := NewBashToolSet()
	tc := newToolContext(t)

	out, err := bash.Call(tc, map[string]any{"command": "printf hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestBashToolReportsFailure(t *testing.T) {
	bash, _, _ := NewBashToolSet()
	tc := newToolContext(t)

	_, err := bash.Call(tc, map[string]any{"command": "exit 3"})
	require.Error(t, err)

	var terr *ToolError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, CodeExecution, terr.Code)
}

func TestBashToolBackgroundLifecycle(t *testing.T) {
	bash, bashOutput, killBash := NewBashToolSet()
	tc := newToolContext(t)

	out, err := bash.Call(tc, map[string]any{"command": "sleep 60", "run_in_background": true})
	require.NoError(t, err)

	started, ok := out.(map[string]any)
	require.True(t, ok)

	id, _ := started["bash_id"].(string)
	require.NotEmpty(t, id)

	polled, err := bashOutput.Call(tc, map[string]any{"bash_id": id})
	require.NoError(t, err)
	assert.Equal(t, "running", polled.(map[string]any)["status"])

	killed, err := killBash.Call(tc, map[string]any{"bash_id": id})
	require.NoError(t, err)
	assert.Equal(t, "killed", killed.(map[string]any)["status"])

	// The handle is gone after the kill.
	_, err = bashOutput.Call(tc, map[string]any{"bash_id": id})
	assert.Error(t, err)
}
