package tools

import (
	"context"
	"encoding/json"
	"fmt"

	ports "github.com/taskmindhq/taskmind/taskmind/chat/ports"
)

const deleteTaskSchema = `{
	"type": "object",
	"properties": {
		"task_id": {
			"type": "integer",
			"description": "The ID of the task to delete"
		}
	},
	"required": ["task_id"]
}`

// DeleteTaskTool permanently removes a task.
type DeleteTaskTool struct {
	ts *Toolset
}

func NewDeleteTaskTool(ts *Toolset) *DeleteTaskTool { return &DeleteTaskTool{ts: ts} }

func (t *DeleteTaskTool) Name() string { return "delete_task" }

func (t *DeleteTaskTool) Description() string {
	return "Delete a task permanently. Use this only when the user explicitly asks to delete or remove a task."
}

func (t *DeleteTaskTool) Schema() []byte { return []byte(deleteTaskSchema) }

func (t *DeleteTaskTool) Invoke(ctx context.Context, args json.RawMessage) (ports.ToolResult, error) {
	var params struct {
		TaskID int64 `json:"task_id"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return ports.ToolResult{}, fmt.Errorf("invalid delete_task arguments: %w", err)
	}
	return t.ts.DeleteTask(ctx, params.TaskID), nil
}

var _ ports.Tool = (*DeleteTaskTool)(nil)
