package tool

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hupe1980/agentcore/core"
)

const (
	defaultReadLimit = 2000 // lines per Read call
	maxReadLineLen   = 2000 // characters per returned line
)

// resolvePath makes a tool path absolute relative to the agent's working
// directory.
func resolvePath(tc *core.ToolContext, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}

	return filepath.Join(tc.WorkDir(), path)
}

// ReadTool reads a file and returns its content with line numbers.
type ReadTool struct{}

// NewReadTool creates the file reading tool.
func NewReadTool() *ReadTool { return &ReadTool{} }

// Name implements Tool.
func (t *ReadTool) Name() string { return "Read" }

// Description implements Tool.
func (t *ReadTool) Description() string {
	return "Read a file from the filesystem. Returns numbered lines; use offset and limit for large files."
}

// Parameters implements Tool.
func (t *ReadTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"file_path": map[string]any{
				"type":        "string",
				"description": "Path to the file to read.",
			},
			"offset": map[string]any{
				"type":        "number",
				"description": "1-based line number to start reading from.",
			},
			"limit": map[string]any{
				"type":        "number",
				"description": "Maximum number of lines to return (default 2000).",
			},
		},
		"required": []string{"file_path"},
	}
}

// Call implements Tool.
func (t *ReadTool) Call(tc *core.ToolContext, args map[string]any) (any, error) {
	path, _ := args["file_path"].(string)
	if path == "" {
		return nil, NewToolError(t.Name(), "file_path is required", CodeValidation)
	}

	path = resolvePath(tc, path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewToolError(t.Name(), fmt.Sprintf("read %s: %v", path, err), CodeExecution)
	}

	lines := strings.Split(string(data), "\n")

	offset := 1
	if v, ok := args["offset"].(float64); ok && v > 0 {
		offset = int(v)
	}

	limit := defaultReadLimit
	if v, ok := args["limit"].(float64); ok && v > 0 {
		limit = int(v)
	}

	if offset > len(lines) {
		return nil, NewToolError(t.Name(), fmt.Sprintf("offset %d is beyond end of file (%d lines)", offset, len(lines)), CodeValidation)
	}

	end := offset - 1 + limit
	if end > len(lines) {
		end = len(lines)
	}

	var sb strings.Builder

	for i := offset - 1; i < end; i++ {
		line := lines[i]
		if len(line) > maxReadLineLen {
			line = line[:maxReadLineLen] + "..."
		}

		fmt.Fprintf(&sb, "%6d\t%s\n", i+1, line)
	}

	return sb.String(), nil
}

// WriteTool writes content to a file, creating parent directories as needed.
type WriteTool struct{}

// NewWriteTool creates the file writing tool.
func NewWriteTool() *WriteTool { return &WriteTool{} }

// Name implements Tool.
func (t *WriteTool) Name() string { return "Write" }

// Description implements Tool.
func (t *WriteTool) Description() string {
	return "Write content to a file, replacing any existing content. Parent directories are created automatically."
}

// Parameters implements Tool.
func (t *WriteTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"file_path": map[string]any{
				"type":        "string",
				"description": "Path to the file to write.",
			},
			"content": map[string]any{
				"type":        "string",
				"description": "Content to write.",
			},
		},
		"required": []string{"file_path", "content"},
	}
}

// Call implements Tool.
func (t *WriteTool) Call(tc *core.ToolContext, args map[string]any) (any, error) {
	path, _ := args["file_path"].(string)
	if path == "" {
		return nil, NewToolError(t.Name(), "file_path is required", CodeValidation)
	}

	content, ok := args["content"].(string)
	if !ok {
		return nil, NewToolError(t.Name(), "content is required", CodeValidation)
	}

	path = resolvePath(tc, path)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, NewToolError(t.Name(), fmt.Sprintf("create directory: %v", err), CodeExecution)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return nil, NewToolError(t.Name(), fmt.Sprintf("write %s: %v", path, err), CodeExecution)
	}

	return fmt.Sprintf("Wrote %d bytes to %s", len(content), path), nil
}

// EditTool performs an exact string replacement in a file.
type EditTool struct{}

// NewEditTool creates the file editing tool.
func NewEditTool() *EditTool { return &EditTool{} }

// Name implements Tool.
func (t *EditTool) Name() string { return "Edit" }

// Description implements Tool.
func (t *EditTool) Description() string {
	return "Replace an exact string in a file. The old string must be unique unless replace_all is set."
}

// Parameters implements Tool.
func (t *EditTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"file_path": map[string]any{
				"type":        "string",
				"description": "Path to the file to edit.",
			},
			"old_string": map[string]any{
				"type":        "string",
				"description": "Exact text to replace.",
			},
			"new_string": map[string]any{
				"type":        "string",
				"description": "Replacement text.",
			},
			"replace_all": map[string]any{
				"type":        "boolean",
				"description": "Replace every occurrence instead of requiring uniqueness.",
			},
		},
		"required": []string{"file_path", "old_string", "new_string"},
	}
}

// Call implements Tool.
func (t *EditTool) Call(tc *core.ToolContext, args map[string]any) (any, error) {
	path, _ := args["file_path"].(string)
	oldStr, _ := args["old_string"].(string)
	newStr, _ := args["new_string"].(string)

	if path == "" || oldStr == "" {
		return nil, NewToolError(t.Name(), "file_path and old_string are required", CodeValidation)
	}

	if oldStr == newStr {
		return nil, NewToolError(t.Name(), "old_string and new_string are identical", CodeValidation)
	}

	path = resolvePath(tc, path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewToolError(t.Name(), fmt.Sprintf("read %s: %v", path, err), CodeExecution)
	}

	content := string(data)
	count := strings.Count(content, oldStr)

	if count == 0 {
		return nil, NewToolError(t.Name(), "old_string not found in file", CodeValidation)
	}

	replaceAll, _ := args["replace_all"].(bool)
	if count > 1 && !replaceAll {
		return nil, NewToolError(t.Name(), fmt.Sprintf("old_string occurs %d times; provide more context or set replace_all", count), CodeValidation)
	}

	replaced := count
	if replaceAll {
		content = strings.ReplaceAll(content, oldStr, newStr)
	} else {
		content = strings.Replace(content, oldStr, newStr, 1)
		replaced = 1
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return nil, NewToolError(t.Name(), fmt.Sprintf("write %s: %v", path, err), CodeExecution)
	}

	return fmt.Sprintf("Replaced %d occurrence(s) in %s", replaced, path), nil
}

// MultiEditTool applies a sequence of exact string replacements to one file.
// Edits run in order, each on the result of the previous one, and the file is
// only written when every edit succeeds.
type MultiEditTool struct{}

// NewMultiEditTool creates the multi-edit tool.
func NewMultiEditTool() *MultiEditTool { return &MultiEditTool{} }

// Name implements Tool.
func (t *MultiEditTool) Name() string { return "MultiEdit" }

// Description implements Tool.
func (t *MultiEditTool) Description() string {
	return "Apply several find-and-replace edits to a single file in one atomic operation. Edits run in order; if any edit fails, none are applied. An empty old_string in the first edit creates the file."
}

// Parameters implements Tool.
func (t *MultiEditTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"file_path": map[string]any{
				"type":        "string",
				"description": "Path to the file to edit.",
			},
			"edits": map[string]any{
				"type":        "array",
				"description": "Edit operations to apply sequentially.",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"old_string": map[string]any{
							"type":        "string",
							"description": "Exact text to replace.",
						},
						"new_string": map[string]any{
							"type":        "string",
							"description": "Replacement text.",
						},
						"replace_all": map[string]any{
							"type":        "boolean",
							"description": "Replace every occurrence instead of requiring uniqueness.",
						},
					},
					"required": []string{"old_string", "new_string"},
				},
			},
		},
		"required": []string{"file_path", "edits"},
	}
}

// Call implements Tool.
func (t *MultiEditTool) Call(tc *core.ToolContext, args map[string]any) (any, error) {
	path, _ := args["file_path"].(string)
	if path == "" {
		return nil, NewToolError(t.Name(), "file_path is required", CodeValidation)
	}

	rawEdits, ok := args["edits"].([]any)
	if !ok || len(rawEdits) == 0 {
		return nil, NewToolError(t.Name(), "edits must be a non-empty array", CodeValidation)
	}

	path = resolvePath(tc, path)

	var content string

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		content = string(data)
	case os.IsNotExist(err):
		// A first edit with an empty old_string creates the file.
		first, _ := rawEdits[0].(map[string]any)
		if firstOld, _ := first["old_string"].(string); firstOld != "" {
			return nil, NewToolError(t.Name(), fmt.Sprintf("file does not exist: %s", path), CodeExecution)
		}
	default:
		return nil, NewToolError(t.Name(), fmt.Sprintf("read %s: %v", path, err), CodeExecution)
	}

	replaced := 0

	for i, raw := range rawEdits {
		edit, ok := raw.(map[string]any)
		if !ok {
			return nil, NewToolError(t.Name(), fmt.Sprintf("edits[%d] must be an object", i), CodeValidation)
		}

		oldStr, _ := edit["old_string"].(string)
		newStr, _ := edit["new_string"].(string)

		if oldStr == newStr {
			return nil, NewToolError(t.Name(), fmt.Sprintf("edits[%d]: old_string and new_string are identical", i), CodeValidation)
		}

		if oldStr == "" {
			if i != 0 || content != "" {
				return nil, NewToolError(t.Name(), fmt.Sprintf("edits[%d]: empty old_string is only valid as the first edit of a new file", i), CodeValidation)
			}

			content = newStr
			replaced++

			continue
		}

		count := strings.Count(content, oldStr)
		if count == 0 {
			return nil, NewToolError(t.Name(), fmt.Sprintf("edits[%d]: old_string not found in file", i), CodeValidation)
		}

		replaceAll, _ := edit["replace_all"].(bool)
		if count > 1 && !replaceAll {
			return nil, NewToolError(t.Name(), fmt.Sprintf("edits[%d]: old_string occurs %d times; provide more context or set replace_all", i, count), CodeValidation)
		}

		if replaceAll {
			content = strings.ReplaceAll(content, oldStr, newStr)
			replaced += count
		} else {
			content = strings.Replace(content, oldStr, newStr, 1)
			replaced++
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, NewToolError(t.Name(), fmt.Sprintf("create directory: %v", err), CodeExecution)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return nil, NewToolError(t.Name(), fmt.Sprintf("write %s: %v", path, err), CodeExecution)
	}

	return fmt.Sprintf("Applied %d edits (%d replacements) to %s", len(rawEdits), replaced, path), nil
}
