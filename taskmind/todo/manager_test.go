package todo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndListTasks(t *testing.T) {
	m := NewManager()

	first := m.AddTask("walk dog", "around the block")
	second := m.AddTask("water plants", "")
	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)

	tasks := m.ListTasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "walk dog", tasks[0].Title)
	assert.False(t, tasks[0].Completed)

	// The returned slice is a copy.
	tasks[0].Title = "mutated"
	got, ok := m.GetTaskByID(first)
	require.True(t, ok)
	assert.Equal(t, "walk dog", got.Title)
}

func TestUpdateTask(t *testing.T) {
	m := NewManager()
	id := m.AddTask("old", "desc")

	newTitle := "new"
	assert.True(t, m.UpdateTask(id, &newTitle, nil))
	got, _ := m.GetTaskByID(id)
	assert.Equal(t, "new", got.Title)
	assert.Equal(t, "desc", got.Description)

	assert.False(t, m.UpdateTask(99, &newTitle, nil))
}

func TestDeleteTaskDoesNotReuseIDs(t *testing.T) {
	m := NewManager()
	id := m.AddTask("gone", "")

	assert.True(t, m.DeleteTask(id))
	assert.False(t, m.DeleteTask(id))

	next := m.AddTask("fresh", "")
	assert.Equal(t, id+1, next)
}

func TestToggleTaskStatus(t *testing.T) {
	m := NewManager()
	id := m.AddTask("flip me", "")

	assert.True(t, m.ToggleTaskStatus(id))
	got, _ := m.GetTaskByID(id)
	assert.True(t, got.Completed)

	assert.True(t, m.ToggleTaskStatus(id))
	got, _ = m.GetTaskByID(id)
	assert.False(t, got.Completed)

	assert.False(t, m.ToggleTaskStatus(42))
}
