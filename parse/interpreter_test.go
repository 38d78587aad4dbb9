package parse

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentcore/core"
)

// -------------------- Native Encoding Tests --------------------

func TestInterpretNativePreferred(t *testing.T) {
	i := NewInterpreter(nil)

	// Inline markup in the text must be ignored when native calls exist.
	text := `Working on it. <Read>{"file_path": "a.go"}</Read>`
	native := []core.ToolCall{
		{ID: "call-1", Name: "Grep", Arguments: json.RawMessage(`{"pattern": "TODO"}`)},
	}

	turn := i.Interpret(text, native)

	require.Len(t, turn.Calls, 1)
	assert.Equal(t, "Grep", turn.Calls[0].Name)
	assert.Equal(t, "call-1", turn.Calls[0].ID)
	assert.Equal(t, "TODO", turn.Calls[0].Params["pattern"])
}

func TestInterpretNativeBadArguments(t *testing.T) {
	i := NewInterpreter(nil)

	native := []core.ToolCall{
		{ID: "call-1", Name: "Read", Arguments: json.RawMessage(`{not json`)},
	}

	turn := i.Interpret("", native)

	require.Len(t, turn.Calls, 1)
	assert.Empty(t, turn.Calls[0].Params)
	assert.Equal(t, "call-1", turn.Calls[0].ID, "id survives a bad argument payload")
}

// -------------------- Inline Grammar Tests --------------------

func TestInterpretTaggedForm(t *testing.T) {
	i := NewInterpreter(nil)

	text := "Let me read that file.\n<Read>{\"file_path\": \"main.go\"}</Read>\nDone soon."
	turn := i.Interpret(text, nil)

	require.Len(t, turn.Calls, 1)
	assert.Equal(t, "Read", turn.Calls[0].Name)
	assert.Equal(t, "main.go", turn.Calls[0].Params["file_path"])
	assert.Contains(t, turn.DisplayText, "Let me read that file.")
	assert.Contains(t, turn.DisplayText, "Done soon.")
	assert.NotContains(t, turn.DisplayText, "file_path")
}

func TestInterpretBracketAndKeywordForms(t *testing.T) {
	i := NewInterpreter(nil)

	text := `[Glob: {"pattern": "*.go"}]
TOOL_CALL: Bash {"command": "go vet ./..."}`
	turn := i.Interpret(text, nil)

	require.Len(t, turn.Calls, 2)
	assert.Equal(t, "Glob", turn.Calls[0].Name)
	assert.Equal(t, "Bash", turn.Calls[1].Name)
	assert.Equal(t, "go vet ./...", turn.Calls[1].Params["command"])
}

func TestInterpretOrderPreservedAcrossForms(t *testing.T) {
	i := NewInterpreter(nil)

	text := `TOOL_CALL: First {"n": 1}
<Second>{"n": 2}</Second>
[Third: {"n": 3}]`
	turn := i.Interpret(text, nil)

	require.Len(t, turn.Calls, 3)

	names := []string{turn.Calls[0].Name, turn.Calls[1].Name, turn.Calls[2].Name}
	assert.Equal(t, []string{"First", "Second", "Third"}, names)
}

func TestInterpretNestedJSONBody(t *testing.T) {
	i := NewInterpreter(nil)

	text := `<Write>{"file_path": "cfg.json", "content": "{\"nested\": {\"deep\": true}}"}</Write>`
	turn := i.Interpret(text, nil)

	require.Len(t, turn.Calls, 1)
	assert.Equal(t, "cfg.json", turn.Calls[0].Params["file_path"])
	assert.Contains(t, turn.Calls[0].Params["content"], "nested")
}

func TestInterpretMismatchedClosingTagIgnored(t *testing.T) {
	i := NewInterpreter(nil)

	text := `<Read>{"file_path": "a.go"}</Write>`
	turn := i.Interpret(text, nil)

	assert.False(t, turn.HasCalls())
}

// -------------------- Fallback & Cleanup Tests --------------------

func TestInterpretKVFallback(t *testing.T) {
	i := NewInterpreter(nil)

	text := `<Bash>{command="ls -la", timeout="5000", verbose="true"}</Bash>`
	turn := i.Interpret(text, nil)

	require.Len(t, turn.Calls, 1)

	params := turn.Calls[0].Params
	assert.Equal(t, "ls -la", params["command"])
	assert.Equal(t, 5000, params["timeout"])
	assert.Equal(t, true, params["verbose"])
}

func TestInterpretPlainTextIdempotent(t *testing.T) {
	i := NewInterpreter(nil)

	text := "The function returns a map[string]any with { braces } in prose."
	turn := i.Interpret(text, nil)

	assert.False(t, turn.HasCalls())
	assert.Equal(t, text, turn.DisplayText)
}

func TestInterpretDisplayTextCleanup(t *testing.T) {
	i := NewInterpreter(nil)

	text := "Before.\n\n\n<Read>{\"file_path\": \"x\"}</Read>\n\n\nAfter."
	turn := i.Interpret(text, nil)

	require.Len(t, turn.Calls, 1)
	assert.NotContains(t, turn.DisplayText, "\n\n\n")
	assert.Contains(t, turn.DisplayText, "Before.")
	assert.Contains(t, turn.DisplayText, "After.")
}

func TestInterpretExtractionIdempotent(t *testing.T) {
	i := NewInterpreter(nil)

	text := `Plan of attack.
<Read>{"file_path": "a.go"}</Read>
[Grep: {"pattern": "func"}]
TOOL_CALL: Bash {"command": "ls"}
Done.`

	turn := i.Interpret(text, nil)
	require.Len(t, turn.Calls, 3)

	again := i.Interpret(turn.DisplayText, nil)
	assert.False(t, again.HasCalls(), "display text must contain no further call matches")
}

func TestInterpretEmptyText(t *testing.T) {
	i := NewInterpreter(nil)

	turn := i.Interpret("", nil)

	assert.False(t, turn.HasCalls())
	assert.Empty(t, turn.DisplayText)
}
