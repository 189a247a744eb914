package tools

import (
	"context"
	"encoding/json"
	"fmt"

	ports "github.com/taskmindhq/taskmind/taskmind/chat/ports"
)

const updateTaskSchema = `{
	"type": "object",
	"properties": {
		"task_id": {
			"type": "integer",
			"description": "The ID of the task to update"
		},
		"title": {
			"type": "string",
			"description": "New title for the task (max 200 characters)"
		},
		"description": {
			"type": "string",
			"description": "New description for the task (max 1000 characters)"
		}
	},
	"required": ["task_id"]
}`

// UpdateTaskTool changes a task's title and/or description.
type UpdateTaskTool struct {
	ts *Toolset
}

func NewUpdateTaskTool(ts *Toolset) *UpdateTaskTool { return &UpdateTaskTool{ts: ts} }

func (t *UpdateTaskTool) Name() string { return "update_task" }

func (t *UpdateTaskTool) Description() string {
	return "Update a task's title or description. Use this when the user wants to rename, edit, or change a task."
}

func (t *UpdateTaskTool) Schema() []byte { return []byte(updateTaskSchema) }

func (t *UpdateTaskTool) Invoke(ctx context.Context, args json.RawMessage) (ports.ToolResult, error) {
	var params struct {
		TaskID      int64   `json:"task_id"`
		Title       *string `json:"title"`
		Description *string `json:"description"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return ports.ToolResult{}, fmt.Errorf("invalid update_task arguments: %w", err)
	}
	return t.ts.UpdateTask(ctx, params.TaskID, params.Title, params.Description), nil
}

var _ ports.Tool = (*UpdateTaskTool)(nil)
