// Package tools exposes the task store as a fixed set of schema-described
// tools consumable by the model, plus the registry that dispatches them.
package tools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	ports "github.com/taskmindhq/taskmind/taskmind/chat/ports"
)

// TaskData is the wire shape of a task inside tool results.
type TaskData struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Completed   bool   `json:"completed"`
	UserID      string `json:"user_id"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

// TaskListData is the wire shape of a list_tasks result.
type TaskListData struct {
	Tasks  []TaskData `json:"tasks"`
	Total  int        `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}

// DeleteData is the wire shape of a delete_task result.
type DeleteData struct {
	Message       string `json:"message"`
	DeletedTaskID int64  `json:"deleted_task_id"`
}

// Success wraps data in a successful tool result.
func Success(data any) ports.ToolResult {
	return ports.ToolResult{Success: true, Data: data}
}

// Failure builds a failed tool result with a machine-readable code.
func Failure(code, message string) ports.ToolResult {
	return ports.ToolResult{Success: false, Error: &ports.ToolError{Code: code, Message: message}}
}

// Toolset binds the task store operations to one caller identity. It is cheap
// to construct per request; all state lives in the store.
type Toolset struct {
	tasks   ports.TaskStore
	ownerID string
	logger  zerolog.Logger
}

func NewToolset(tasks ports.TaskStore, ownerID string, logger zerolog.Logger) *Toolset {
	return &Toolset{tasks: tasks, ownerID: ownerID, logger: logger}
}

// AddTask creates a task and returns its wire representation.
func (t *Toolset) AddTask(ctx context.Context, title string, description *string) ports.ToolResult {
	task, err := t.tasks.Create(ctx, t.ownerID, title, description)
	if err != nil {
		return t.storeFailure(err, 0, "create task")
	}
	t.logger.Info().Int64("task_id", task.ID).Str("user_id", t.ownerID).Msg("created task")
	return Success(taskData(task))
}

// ListTasks retrieves the caller's tasks with optional completion filtering.
func (t *Toolset) ListTasks(ctx context.Context, completed *bool, limit, offset int) ports.ToolResult {
	filter := ports.TaskFilter{Completed: completed, Limit: limit, Offset: offset}
	tasks, total, err := t.tasks.List(ctx, t.ownerID, filter)
	if err != nil {
		return t.storeFailure(err, 0, "retrieve tasks")
	}

	list := make([]TaskData, 0, len(tasks))
	for _, task := range tasks {
		list = append(list, taskData(task))
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return Success(TaskListData{Tasks: list, Total: total, Limit: limit, Offset: offset})
}

// CompleteTask marks a task as completed or incomplete.
func (t *Toolset) CompleteTask(ctx context.Context, taskID int64, completed bool) ports.ToolResult {
	task, err := t.tasks.SetCompletion(ctx, t.ownerID, taskID, completed)
	if err != nil {
		return t.storeFailure(err, taskID, "update task")
	}
	return Success(taskData(task))
}

// UpdateTask updates title and/or description; nil fields stay unchanged.
func (t *Toolset) UpdateTask(ctx context.Context, taskID int64, title, description *string) ports.ToolResult {
	task, err := t.tasks.Update(ctx, t.ownerID, taskID, ports.TaskUpdate{Title: title, Description: description})
	if err != nil {
		return t.storeFailure(err, taskID, "update task")
	}
	return Success(taskData(task))
}

// DeleteTask permanently removes a task.
func (t *Toolset) DeleteTask(ctx context.Context, taskID int64) ports.ToolResult {
	if err := t.tasks.Delete(ctx, t.ownerID, taskID); err != nil {
		return t.storeFailure(err, taskID, "delete task")
	}
	return Success(DeleteData{Message: "Task deleted successfully", DeletedTaskID: taskID})
}

// storeFailure maps store errors onto the tool-result failure taxonomy.
func (t *Toolset) storeFailure(err error, taskID int64, action string) ports.ToolResult {
	if ve, ok := ports.AsValidationError(err); ok {
		return Failure(ports.CodeValidationError, ve.Message)
	}
	if errors.Is(err, ports.ErrTaskNotFound) {
		return Failure(ports.CodeNotFound, fmt.Sprintf("Task with ID %d not found", taskID))
	}
	if errors.Is(err, ports.ErrForbidden) {
		if action == "delete task" {
			return Failure(ports.CodeForbidden, "You don't have permission to delete this task")
		}
		return Failure(ports.CodeForbidden, "You don't have permission to modify this task")
	}
	t.logger.Error().Err(err).Str("user_id", t.ownerID).Msgf("failed to %s", action)
	return Failure(ports.CodeServerError, "Failed to "+action)
}

func taskData(task ports.Task) TaskData {
	data := TaskData{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		UserID:      task.OwnerID,
	}
	if !task.CreatedAt.IsZero() {
		data.CreatedAt = task.CreatedAt.Format(time.RFC3339)
	}
	if !task.UpdatedAt.IsZero() {
		data.UpdatedAt = task.UpdatedAt.Format(time.RFC3339)
	}
	return data
}
