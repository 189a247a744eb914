package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	ports "github.com/taskmindhq/taskmind/taskmind/chat/ports"
)

// LibSQLTaskStore implements TaskStore on an embedded libsql database.
type LibSQLTaskStore struct {
	db *sql.DB
}

func NewLibSQLTaskStore(db *sql.DB) *LibSQLTaskStore {
	return &LibSQLTaskStore{db: db}
}

func (s *LibSQLTaskStore) Create(ctx context.Context, ownerID, title string, description *string) (ports.Task, error) {
	cleanTitle, err := validateTitle(title)
	if err != nil {
		return ports.Task{}, err
	}
	var cleanDesc string
	if description != nil {
		cleanDesc, err = validateDescription(*description)
		if err != nil {
			return ports.Task{}, err
		}
	}

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (user_id, title, description, completed, position, created_at, updated_at)
		VALUES (?, ?, ?, 0, 0, ?, ?)
	`, ownerID, cleanTitle, cleanDesc, now, now)
	if err != nil {
		return ports.Task{}, fmt.Errorf("failed to insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return ports.Task{}, fmt.Errorf("failed to read inserted task id: %w", err)
	}

	return ports.Task{
		ID:          id,
		OwnerID:     ownerID,
		Title:       cleanTitle,
		Description: cleanDesc,
		Completed:   false,
		Position:    0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (s *LibSQLTaskStore) List(ctx context.Context, ownerID string, filter ports.TaskFilter) ([]ports.Task, int, error) {
	filter = clampListFilter(filter)

	where := "WHERE user_id = ?"
	args := []any{ownerID}
	if filter.Completed != nil {
		where += " AND completed = ?"
		args = append(args, *filter.Completed)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	query := `
		SELECT id, user_id, title, description, completed, position, created_at, updated_at
		FROM tasks ` + where + `
		ORDER BY position ASC, created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`
	rows, err := s.db.QueryContext(ctx, query, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []ports.Task
	for rows.Next() {
		var t ports.Task
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.Completed, &t.Position, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating tasks: %w", err)
	}
	return tasks, total, nil
}

func (s *LibSQLTaskStore) SetCompletion(ctx context.Context, ownerID string, taskID int64, completed bool) (ports.Task, error) {
	task, err := s.getForMutation(ctx, ownerID, taskID)
	if err != nil {
		return ports.Task{}, err
	}

	now := time.Now().UTC()
	if _, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET completed = ?, updated_at = ? WHERE id = ?",
		completed, now, taskID,
	); err != nil {
		return ports.Task{}, fmt.Errorf("failed to update task completion: %w", err)
	}

	task.Completed = completed
	task.UpdatedAt = now
	return task, nil
}

func (s *LibSQLTaskStore) Update(ctx context.Context, ownerID string, taskID int64, update ports.TaskUpdate) (ports.Task, error) {
	task, err := s.getForMutation(ctx, ownerID, taskID)
	if err != nil {
		return ports.Task{}, err
	}

	if update.Title != nil {
		cleanTitle, err := validateTitle(*update.Title)
		if err != nil {
			return ports.Task{}, err
		}
		task.Title = cleanTitle
	}
	if update.Description != nil {
		cleanDesc, err := validateDescription(*update.Description)
		if err != nil {
			return ports.Task{}, err
		}
		task.Description = cleanDesc
	}

	now := time.Now().UTC()
	if _, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET title = ?, description = ?, updated_at = ? WHERE id = ?",
		task.Title, task.Description, now, taskID,
	); err != nil {
		return ports.Task{}, fmt.Errorf("failed to update task: %w", err)
	}

	task.UpdatedAt = now
	return task, nil
}

func (s *LibSQLTaskStore) Delete(ctx context.Context, ownerID string, taskID int64) error {
	if _, err := s.getForMutation(ctx, ownerID, taskID); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// getForMutation loads a task by id alone and only then checks ownership, so
// that ErrTaskNotFound takes precedence over ErrForbidden.
func (s *LibSQLTaskStore) getForMutation(ctx context.Context, ownerID string, taskID int64) (ports.Task, error) {
	var t ports.Task
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, description, completed, position, created_at, updated_at
		FROM tasks WHERE id = ?
	`, taskID).Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.Completed, &t.Position, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.Task{}, ports.ErrTaskNotFound
	}
	if err != nil {
		return ports.Task{}, fmt.Errorf("failed to load task %d: %w", taskID, err)
	}
	if t.OwnerID != ownerID {
		return ports.Task{}, ports.ErrForbidden
	}
	return t, nil
}

var _ ports.TaskStore = (*LibSQLTaskStore)(nil)
