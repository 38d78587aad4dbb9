package tool

import (
	"fmt"

	"github.com/hupe1980/agentcore/core"
)

// todoStateKey is the session-state slot holding the task list.
const todoStateKey = "todos"

// TodoItem is a single entry in an agent's task list.
type TodoItem struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Status  string `json:"status"`
}

// Valid todo statuses.
const (
	TodoStatusPending    = "pending"
	TodoStatusInProgress = "in_progress"
	TodoStatusCompleted  = "completed"
)

func validTodoStatus(status string) bool {
	switch status {
	case TodoStatusPending, TodoStatusInProgress, TodoStatusCompleted:
		return true
	}

	return false
}

// TodoWriteTool maintains a structured task list in the session state bag.
// Entries are keyed by id: known ids are updated in place, new ids are
// appended, so the list keeps its original ordering across calls.
type TodoWriteTool struct{}

// NewTodoWriteTool creates the task list tool.
func NewTodoWriteTool() *TodoWriteTool { return &TodoWriteTool{} }

// Name implements Tool.
func (t *TodoWriteTool) Name() string { return "TodoWrite" }

// Description implements Tool.
func (t *TodoWriteTool) Description() string {
	return "Create and manage a structured task list for the current session. Each todo has an id, content and a status of pending, in_progress or completed."
}

// Parameters implements Tool.
func (t *TodoWriteTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"todos": map[string]any{
				"type":        "array",
				"description": "The updated todo list.",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id": map[string]any{
							"type":        "string",
							"description": "Stable identifier for the todo.",
						},
						"content": map[string]any{
							"type":        "string",
							"description": "What the task is.",
						},
						"status": map[string]any{
							"type": "string",
							"enum": []string{TodoStatusPending, TodoStatusInProgress, TodoStatusCompleted},
						},
					},
					"required": []string{"id", "content", "status"},
				},
			},
		},
		"required": []string{"todos"},
	}
}

// Call implements Tool.
func (t *TodoWriteTool) Call(tc *core.ToolContext, args map[string]any) (any, error) {
	raw, ok := args["todos"].([]any)
	if !ok {
		return nil, NewToolError(t.Name(), "todos must be an array of todo objects", CodeValidation)
	}

	updates := make([]TodoItem, 0, len(raw))

	for i, entry := range raw {
		obj, ok := entry.(map[string]any)
		if !ok {
			return nil, NewToolError(t.Name(), fmt.Sprintf("todos[%d] must be an object", i), CodeValidation)
		}

		item := TodoItem{}
		item.ID, _ = obj["id"].(string)
		item.Content, _ = obj["content"].(string)
		item.Status, _ = obj["status"].(string)

		if item.ID == "" || item.Content == "" {
			return nil, NewToolError(t.Name(), fmt.Sprintf("todos[%d] requires non-empty id and content", i), CodeValidation)
		}

		if !validTodoStatus(item.Status) {
			return nil, NewToolError(t.Name(), fmt.Sprintf("todos[%d] status must be %q, %q or %q, got %q", i, TodoStatusPending, TodoStatusInProgress, TodoStatusCompleted, item.Status), CodeValidation)
		}

		updates = append(updates, item)
	}

	todos := loadTodos(tc)

	for _, item := range updates {
		replaced := false

		for j := range todos {
			if todos[j].ID == item.ID {
				todos[j] = item
				replaced = true

				break
			}
		}

		if !replaced {
			todos = append(todos, item)
		}
	}

	tc.SetState(todoStateKey, todos)

	var pending, inProgress, completed int

	for _, item := range todos {
		switch item.Status {
		case TodoStatusPending:
			pending++
		case TodoStatusInProgress:
			inProgress++
		case TodoStatusCompleted:
			completed++
		}
	}

	return map[string]any{
		"result": fmt.Sprintf("Updated %d todos. Status: %d pending, %d in progress, %d completed", len(updates), pending, inProgress, completed),
		"todos":  todos,
		"counts": map[string]int{
			"pending":     pending,
			"in_progress": inProgress,
			"completed":   completed,
			"total":       len(todos),
		},
	}, nil
}

// loadTodos reads the current list from the session bag, returning a copy so
// in-flight edits never alias the stored slice.
func loadTodos(tc *core.ToolContext) []TodoItem {
	v, ok := tc.GetState(todoStateKey)
	if !ok {
		return nil
	}

	stored, ok := v.([]TodoItem)
	if !ok {
		return nil
	}

	out := make([]TodoItem, len(stored))
	copy(out, stored)

	return out
}
