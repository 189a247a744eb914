// Package todo holds the standalone console task list. It is deliberately
// separate from the server's task store: no owners, no persistence, ids local
// to one session.
package todo

// Task is a single console task.
type Task struct {
	ID          int
	Title       string
	Description string
	Completed   bool
}

// Manager owns an in-memory task list with monotonically increasing ids.
type Manager struct {
	tasks  []Task
	nextID int
}

func NewManager() *Manager {
	return &Manager{nextID: 1}
}

// AddTask appends a new incomplete task and returns its id.
func (m *Manager) AddTask(title, description string) int {
	id := m.nextID
	m.nextID++
	m.tasks = append(m.tasks, Task{ID: id, Title: title, Description: description})
	return id
}

// ListTasks returns a copy of all tasks in insertion order.
func (m *Manager) ListTasks() []Task {
	out := make([]Task, len(m.tasks))
	copy(out, m.tasks)
	return out
}

// GetTaskByID returns the task and true, or false when the id is unknown.
func (m *Manager) GetTaskByID(id int) (Task, bool) {
	for _, task := range m.tasks {
		if task.ID == id {
			return task, true
		}
	}
	return Task{}, false
}

// UpdateTask sets title and/or description; nil fields stay unchanged.
// It reports whether the task exists.
func (m *Manager) UpdateTask(id int, title, description *string) bool {
	for i := range m.tasks {
		if m.tasks[i].ID != id {
			continue
		}
		if title != nil {
			m.tasks[i].Title = *title
		}
		if description != nil {
			m.tasks[i].Description = *description
		}
		return true
	}
	return false
}

// DeleteTask removes the task and reports whether it existed. Ids are never
// reused.
func (m *Manager) DeleteTask(id int) bool {
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return true
		}
	}
	return false
}

// ToggleTaskStatus flips completion and reports whether the task exists.
func (m *Manager) ToggleTaskStatus(id int) bool {
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks[i].Completed = !m.tasks[i].Completed
			return true
		}
	}
	return false
}
