package tools

import (
	"context"
	"encoding/json"
	"fmt"

	ports "github.com/taskmindhq/taskmind/taskmind/chat/ports"
)

const listTasksSchema = `{
	"type": "object",
	"properties": {
		"completed": {
			"type": "boolean",
			"description": "Filter by completion status. Omit to return all tasks."
		},
		"limit": {
			"type": "integer",
			"description": "Maximum number of tasks to return (default 50, max 100)"
		},
		"offset": {
			"type": "integer",
			"description": "Number of tasks to skip for pagination (default 0)"
		}
	},
	"required": []
}`

// ListTasksTool retrieves the caller's tasks.
type ListTasksTool struct {
	ts *Toolset
}

func NewListTasksTool(ts *Toolset) *ListTasksTool { return &ListTasksTool{ts: ts} }

func (t *ListTasksTool) Name() string { return "list_tasks" }

func (t *ListTasksTool) Description() string {
	return "List the user's tasks. Use this when the user asks what tasks they have, wants to see their list, or before completing or updating a task by title."
}

func (t *ListTasksTool) Schema() []byte { return []byte(listTasksSchema) }

func (t *ListTasksTool) Invoke(ctx context.Context, args json.RawMessage) (ports.ToolResult, error) {
	var params struct {
		Completed *bool `json:"completed"`
		Limit     int   `json:"limit"`
		Offset    int   `json:"offset"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return ports.ToolResult{}, fmt.Errorf("invalid list_tasks arguments: %w", err)
	}
	return t.ts.ListTasks(ctx, params.Completed, params.Limit, params.Offset), nil
}

var _ ports.Tool = (*ListTasksTool)(nil)
