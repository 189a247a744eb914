package tools

import (
	"context"
	"encoding/json"
	"fmt"

	ports "github.com/taskmindhq/taskmind/taskmind/chat/ports"
)

const addTaskSchema = `{
	"type": "object",
	"properties": {
		"title": {
			"type": "string",
			"description": "The title of the task (required, max 200 characters)"
		},
		"description": {
			"type": "string",
			"description": "Optional description of the task (max 1000 characters)"
		}
	},
	"required": ["title"]
}`

// AddTaskTool creates a new task for the calling user.
type AddTaskTool struct {
	ts *Toolset
}

func NewAddTaskTool(ts *Toolset) *AddTaskTool { return &AddTaskTool{ts: ts} }

func (t *AddTaskTool) Name() string { return "add_task" }

func (t *AddTaskTool) Description() string {
	return "Create a new task for the user. Use this when the user wants to add, create, or remember a task."
}

func (t *AddTaskTool) Schema() []byte { return []byte(addTaskSchema) }

func (t *AddTaskTool) Invoke(ctx context.Context, args json.RawMessage) (ports.ToolResult, error) {
	var params struct {
		Title       string  `json:"title"`
		Description *string `json:"description"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return ports.ToolResult{}, fmt.Errorf("invalid add_task arguments: %w", err)
	}
	return t.ts.AddTask(ctx, params.Title, params.Description), nil
}

var _ ports.Tool = (*AddTaskTool)(nil)
