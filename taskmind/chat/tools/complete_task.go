package tools

import (
	"context"
	"encoding/json"
	"fmt"

	ports "github.com/taskmindhq/taskmind/taskmind/chat/ports"
)

const completeTaskSchema = `{
	"type": "object",
	"properties": {
		"task_id": {
			"type": "integer",
			"description": "The ID of the task to mark"
		},
		"completed": {
			"type": "boolean",
			"description": "Completion state to set (default true)"
		}
	},
	"required": ["task_id"]
}`

// CompleteTaskTool marks a task completed or incomplete.
type CompleteTaskTool struct {
	ts *Toolset
}

func NewCompleteTaskTool(ts *Toolset) *CompleteTaskTool { return &CompleteTaskTool{ts: ts} }

func (t *CompleteTaskTool) Name() string { return "complete_task" }

func (t *CompleteTaskTool) Description() string {
	return "Mark a task as completed (or incomplete). Use this when the user says they finished, did, or completed a task."
}

func (t *CompleteTaskTool) Schema() []byte { return []byte(completeTaskSchema) }

func (t *CompleteTaskTool) Invoke(ctx context.Context, args json.RawMessage) (ports.ToolResult, error) {
	var params struct {
		TaskID    int64 `json:"task_id"`
		Completed *bool `json:"completed"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return ports.ToolResult{}, fmt.Errorf("invalid complete_task arguments: %w", err)
	}
	completed := true
	if params.Completed != nil {
		completed = *params.Completed
	}
	return t.ts.CompleteTask(ctx, params.TaskID, completed), nil
}

var _ ports.Tool = (*CompleteTaskTool)(nil)
