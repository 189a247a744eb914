package chat

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ports "github.com/taskmindhq/taskmind/taskmind/chat/ports"
	"github.com/taskmindhq/taskmind/taskmind/store"
)

func newTestResolver(t *testing.T) (*Resolver, *store.MemoryTaskStore) {
	t.Helper()
	tasks := store.NewMemoryTaskStore()
	return NewResolver(tasks, zerolog.Nop()), tasks
}

func TestResolverGreeting(t *testing.T) {
	r, _ := newTestResolver(t)

	reply := r.Respond(context.Background(), "alice", "Hello there!")
	assert.Contains(t, reply.Text, "Hey there")
	assert.Empty(t, reply.ToolCalls)

	// Substring matching means "hi" fires inside unrelated words too.
	reply = r.Respond(context.Background(), "alice", "this")
	assert.Contains(t, reply.Text, "Hey there")
}

func TestResolverCreateCommand(t *testing.T) {
	r, tasks := newTestResolver(t)
	ctx := context.Background()

	reply := r.Respond(ctx, "alice", "create task: Buy groceries")
	assert.Equal(t, "✅ Created task: 'buy groceries' (ID: 1)", reply.Text)
	require.Len(t, reply.ToolCalls, 1)
	assert.Equal(t, "add_task", reply.ToolCalls[0].Tool)
	assert.True(t, reply.ToolCalls[0].Result.Success)

	listed, total, err := tasks.List(ctx, "alice", ports.TaskFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "buy groceries", listed[0].Title)

	reply = r.Respond(ctx, "alice", "create task:   ")
	assert.Contains(t, reply.Text, "What task would you like me to add?")
	assert.Empty(t, reply.ToolCalls)
}

func TestResolverNaturalCreate(t *testing.T) {
	r, _ := newTestResolver(t)
	ctx := context.Background()

	reply := r.Respond(ctx, "alice", "I need to buy groceries.")
	assert.Equal(t, "✅ Perfect! I've added 'buy groceries' to your task list (ID: 1). You're all set! 🎯", reply.Text)
	require.Len(t, reply.ToolCalls, 1)
	assert.Equal(t, "add_task", reply.ToolCalls[0].Tool)

	reply = r.Respond(ctx, "alice", "remind me to call mom")
	assert.Contains(t, reply.Text, "I've added 'call mom'")
}

func TestResolverListBeforeCreate(t *testing.T) {
	r, _ := newTestResolver(t)
	ctx := context.Background()

	// "what do i need to do" contains "i need to" but must read as a list
	// request, not a new task.
	reply := r.Respond(ctx, "alice", "What do I need to do today?")
	assert.Contains(t, reply.Text, "Your task list is completely empty")
	require.Len(t, reply.ToolCalls, 1)
	assert.Equal(t, "list_tasks", reply.ToolCalls[0].Tool)
}

func TestResolverListCommandEnumerates(t *testing.T) {
	r, tasks := newTestResolver(t)
	ctx := context.Background()

	for _, title := range []string{"walk dog", "water plants"} {
		_, err := tasks.Create(ctx, "alice", title, nil)
		require.NoError(t, err)
	}
	_, err := tasks.SetCompletion(ctx, "alice", 1, true)
	require.NoError(t, err)

	reply := r.Respond(ctx, "alice", "list tasks")
	assert.Contains(t, reply.Text, "📝 Your tasks:")
	assert.Contains(t, reply.Text, "✅ 1: walk dog")
	assert.Contains(t, reply.Text, "⏳ 2: water plants")
	require.Len(t, reply.ToolCalls, 1)
}

func TestResolverCompleteByID(t *testing.T) {
	r, tasks := newTestResolver(t)
	ctx := context.Background()

	created, err := tasks.Create(ctx, "alice", "walk dog", nil)
	require.NoError(t, err)

	reply := r.Respond(ctx, "alice", fmt.Sprintf("I finished task %d", created.ID))
	assert.Contains(t, reply.Text, "You completed 'walk dog'")
	require.Len(t, reply.ToolCalls, 1)
	assert.Equal(t, "complete_task", reply.ToolCalls[0].Tool)

	got, _, err := tasks.List(ctx, "alice", ports.TaskFilter{})
	require.NoError(t, err)
	assert.True(t, got[0].Completed)
}

func TestResolverCompleteByTitleDisambiguates(t *testing.T) {
	r, tasks := newTestResolver(t)
	ctx := context.Background()

	for _, title := range []string{"buy milk", "buy bread"} {
		_, err := tasks.Create(ctx, "alice", title, nil)
		require.NoError(t, err)
	}

	reply := r.Respond(ctx, "alice", "i finished buy")
	assert.Contains(t, reply.Text, "I found multiple tasks that might match")
	assert.Contains(t, reply.Text, "buy milk")
	assert.Contains(t, reply.Text, "buy bread")
	assert.Empty(t, reply.ToolCalls)

	reply = r.Respond(ctx, "alice", "i finished milk")
	assert.Contains(t, reply.Text, "I found and completed 'buy milk'")
	require.Len(t, reply.ToolCalls, 1)
}

func TestResolverUpdateByID(t *testing.T) {
	r, tasks := newTestResolver(t)
	ctx := context.Background()

	_, err := tasks.Create(ctx, "alice", "learn java", nil)
	require.NoError(t, err)

	reply := r.Respond(ctx, "alice", "update task 1 to python")
	assert.Equal(t, "✅ Perfect! I've updated the task to 'python' (ID: 1). All set! 🎯", reply.Text)
	require.Len(t, reply.ToolCalls, 1)
	assert.Equal(t, "update_task", reply.ToolCalls[0].Tool)
}

func TestResolverUpdateMissingTask(t *testing.T) {
	r, _ := newTestResolver(t)

	reply := r.Respond(context.Background(), "alice", "update task 1 to python")
	assert.Equal(t, "❌ I couldn't update that task: Task with ID 1 not found", reply.Text)
	assert.Empty(t, reply.ToolCalls)
}

func TestResolverProgressBands(t *testing.T) {
	r, tasks := newTestResolver(t)
	ctx := context.Background()

	reply := r.Respond(ctx, "alice", "how am i doing")
	assert.Contains(t, reply.Text, "You don't have any tasks yet")

	for _, title := range []string{"one", "two"} {
		_, err := tasks.Create(ctx, "alice", title, nil)
		require.NoError(t, err)
	}
	reply = r.Respond(ctx, "alice", "how am i doing")
	assert.Contains(t, reply.Text, "You have 2 tasks waiting")

	_, err := tasks.SetCompletion(ctx, "alice", 1, true)
	require.NoError(t, err)
	reply = r.Respond(ctx, "alice", "my progress")
	assert.Contains(t, reply.Text, "1/2 tasks completed")

	_, err = tasks.SetCompletion(ctx, "alice", 2, true)
	require.NoError(t, err)
	reply = r.Respond(ctx, "alice", "how many tasks")
	assert.Contains(t, reply.Text, "You've completed all 2 tasks")
}

func TestResolverUpdateByNamePrefersExactMatch(t *testing.T) {
	r, tasks := newTestResolver(t)
	ctx := context.Background()

	_, err := tasks.Create(ctx, "alice", "java", nil)
	require.NoError(t, err)
	_, err = tasks.Create(ctx, "alice", "java basics", nil)
	require.NoError(t, err)

	// "java" partially matches both titles but exactly matches only one.
	reply := r.Respond(ctx, "alice", "update task java to python")
	assert.Contains(t, reply.Text, "I've updated the task to 'python' (ID: 1)")
	require.Len(t, reply.ToolCalls, 1)
}

func TestResolverRuleOrder(t *testing.T) {
	r, _ := newTestResolver(t)

	assert.Equal(t, []string{
		"greeting", "list-natural", "create-natural", "complete-natural",
		"update-natural", "create-command", "list-command", "complete-command",
		"help", "thanks", "goodbye", "all-done", "progress",
	}, r.RuleNames())
}

func TestResolverFallback(t *testing.T) {
	r, _ := newTestResolver(t)

	reply := r.Respond(context.Background(), "alice", "qqq")
	assert.Contains(t, reply.Text, "Try saying things like")
	assert.Empty(t, reply.ToolCalls)
}
