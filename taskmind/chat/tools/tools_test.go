package tools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ports "github.com/taskmindhq/taskmind/taskmind/chat/ports"
	"github.com/taskmindhq/taskmind/taskmind/store"
)

func newTestToolset(t *testing.T, ownerID string) (*Toolset, *store.MemoryTaskStore) {
	t.Helper()
	tasks := store.NewMemoryTaskStore()
	return NewToolset(tasks, ownerID, zerolog.Nop()), tasks
}

func TestAddTaskCreatesForOwner(t *testing.T) {
	ts, _ := newTestToolset(t, "alice")

	desc := "2% milk"
	res := ts.AddTask(context.Background(), "Buy milk", &desc)
	require.True(t, res.Success)

	data, ok := res.Data.(TaskData)
	require.True(t, ok)
	assert.Equal(t, "Buy milk", data.Title)
	assert.Equal(t, "2% milk", data.Description)
	assert.Equal(t, "alice", data.UserID)
	assert.False(t, data.Completed)
	assert.NotEmpty(t, data.CreatedAt)
}

func TestAddTaskValidation(t *testing.T) {
	ts, _ := newTestToolset(t, "alice")

	res := ts.AddTask(context.Background(), "   ", nil)
	require.False(t, res.Success)
	require.NotNil(t, res.Error)
	assert.Equal(t, ports.CodeValidationError, res.Error.Code)
	assert.Equal(t, "Task title is required and cannot be empty", res.Error.Message)

	res = ts.AddTask(context.Background(), strings.Repeat("x", 201), nil)
	require.False(t, res.Success)
	assert.Equal(t, ports.CodeValidationError, res.Error.Code)
	assert.Equal(t, "Task title cannot exceed 200 characters", res.Error.Message)
}

func TestListTasksFiltersAndPaginates(t *testing.T) {
	ts, tasks := newTestToolset(t, "alice")
	ctx := context.Background()

	for _, title := range []string{"one", "two", "three"} {
		_, err := tasks.Create(ctx, "alice", title, nil)
		require.NoError(t, err)
	}
	_, err := tasks.SetCompletion(ctx, "alice", 1, true)
	require.NoError(t, err)
	_, err = tasks.Create(ctx, "bob", "not mine", nil)
	require.NoError(t, err)

	res := ts.ListTasks(ctx, nil, 0, 0)
	require.True(t, res.Success)
	data, ok := res.Data.(TaskListData)
	require.True(t, ok)
	assert.Equal(t, 3, data.Total)
	assert.Len(t, data.Tasks, 3)
	assert.Equal(t, 50, data.Limit)

	incomplete := false
	res = ts.ListTasks(ctx, &incomplete, 0, 0)
	data = res.Data.(TaskListData)
	assert.Equal(t, 2, data.Total)
	for _, task := range data.Tasks {
		assert.False(t, task.Completed)
		assert.Equal(t, "alice", task.UserID)
	}

	res = ts.ListTasks(ctx, nil, 2, 2)
	data = res.Data.(TaskListData)
	assert.Equal(t, 3, data.Total)
	assert.Len(t, data.Tasks, 1)
	assert.Equal(t, 2, data.Limit)
	assert.Equal(t, 2, data.Offset)
}

func TestCompleteTaskNotFoundAndForbidden(t *testing.T) {
	ts, tasks := newTestToolset(t, "alice")
	ctx := context.Background()

	res := ts.CompleteTask(ctx, 42, true)
	require.False(t, res.Success)
	assert.Equal(t, ports.CodeNotFound, res.Error.Code)
	assert.Equal(t, "Task with ID 42 not found", res.Error.Message)

	other, err := tasks.Create(ctx, "bob", "bob's task", nil)
	require.NoError(t, err)

	res = ts.CompleteTask(ctx, other.ID, true)
	require.False(t, res.Success)
	assert.Equal(t, ports.CodeForbidden, res.Error.Code)
	assert.Equal(t, "You don't have permission to modify this task", res.Error.Message)
}

func TestUpdateTaskPartialFields(t *testing.T) {
	ts, tasks := newTestToolset(t, "alice")
	ctx := context.Background()

	created, err := tasks.Create(ctx, "alice", "old title", nil)
	require.NoError(t, err)

	newTitle := "new title"
	res := ts.UpdateTask(ctx, created.ID, &newTitle, nil)
	require.True(t, res.Success)
	data := res.Data.(TaskData)
	assert.Equal(t, "new title", data.Title)
	assert.Equal(t, "", data.Description)
}

func TestDeleteTaskResultShape(t *testing.T) {
	ts, tasks := newTestToolset(t, "alice")
	ctx := context.Background()

	created, err := tasks.Create(ctx, "alice", "gone soon", nil)
	require.NoError(t, err)

	res := ts.DeleteTask(ctx, created.ID)
	require.True(t, res.Success)
	data, ok := res.Data.(DeleteData)
	require.True(t, ok)
	assert.Equal(t, "Task deleted successfully", data.Message)
	assert.Equal(t, created.ID, data.DeletedTaskID)

	other, err := tasks.Create(ctx, "bob", "bob's", nil)
	require.NoError(t, err)
	res = ts.DeleteTask(ctx, other.ID)
	require.False(t, res.Success)
	assert.Equal(t, "You don't have permission to delete this task", res.Error.Message)
}

func TestRegistrySpecsOrder(t *testing.T) {
	reg := NewRegistry(store.NewMemoryTaskStore(), "alice", zerolog.Nop())

	specs := reg.Specs()
	require.Len(t, specs, 5)
	names := make([]string, 0, len(specs))
	for _, spec := range specs {
		names = append(names, spec.Name)
		assert.NotEmpty(t, spec.Description)
		assert.True(t, json.Valid(spec.JSONSchema))
	}
	assert.Equal(t, []string{"add_task", "list_tasks", "complete_task", "update_task", "delete_task"}, names)
}

func TestRegistryUnknownTool(t *testing.T) {
	reg := NewRegistry(store.NewMemoryTaskStore(), "alice", zerolog.Nop())

	params, res := reg.Execute(context.Background(), "launch_rocket", json.RawMessage(`{}`))
	assert.Equal(t, json.RawMessage(`{}`), params)
	require.False(t, res.Success)
	assert.Equal(t, ports.CodeUnknownTool, res.Error.Code)
	assert.Equal(t, "Unknown tool: launch_rocket", res.Error.Message)
}

func TestRegistryMalformedArgsDefaultToEmpty(t *testing.T) {
	reg := NewRegistry(store.NewMemoryTaskStore(), "alice", zerolog.Nop())

	// Unparseable payload reaches the tool as {}, so add_task fails its own
	// title validation rather than erroring at the transport layer.
	params, res := reg.Execute(context.Background(), "add_task", json.RawMessage(`{"title": `))
	assert.Equal(t, json.RawMessage(`{}`), params)
	require.False(t, res.Success)
	assert.Equal(t, ports.CodeValidationError, res.Error.Code)
	assert.Equal(t, "Task title is required and cannot be empty", res.Error.Message)
}

func TestRegistryExecuteRoundTrip(t *testing.T) {
	tasks := store.NewMemoryTaskStore()
	reg := NewRegistry(tasks, "alice", zerolog.Nop())
	ctx := context.Background()

	params, res := reg.Execute(ctx, "add_task", json.RawMessage(`{"title":"Walk dog"}`))
	assert.Equal(t, json.RawMessage(`{"title":"Walk dog"}`), params)
	require.True(t, res.Success)
	created := res.Data.(TaskData)

	_, res = reg.Execute(ctx, "complete_task", json.RawMessage(`{"task_id":1}`))
	require.True(t, res.Success)
	assert.True(t, res.Data.(TaskData).Completed)
	assert.Equal(t, created.ID, res.Data.(TaskData).ID)

	_, res = reg.Execute(ctx, "list_tasks", json.RawMessage(`{"completed":true}`))
	require.True(t, res.Success)
	list := res.Data.(TaskListData)
	assert.Equal(t, 1, list.Total)
}
