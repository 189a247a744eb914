// Package store provides the persistent and in-memory implementations of the
// task and conversation stores.
package store

import (
	"fmt"
	"strings"

	ports "github.com/taskmindhq/taskmind/taskmind/chat/ports"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 1000
)

// validateTitle trims and checks a task title. Empty or whitespace-only
// titles and titles over the length cap are rejected. Returns the trimmed
// title on success.
func validateTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", &ports.ValidationError{Message: "Task title is required and cannot be empty"}
	}
	if len(trimmed) > maxTitleLen {
		return "", &ports.ValidationError{Message: fmt.Sprintf("Task title cannot exceed %d characters", maxTitleLen)}
	}
	return trimmed, nil
}

// validateDescription trims and checks an optional description.
func validateDescription(description string) (string, error) {
	trimmed := strings.TrimSpace(description)
	if len(trimmed) > maxDescriptionLen {
		return "", &ports.ValidationError{Message: fmt.Sprintf("Task description cannot exceed %d characters", maxDescriptionLen)}
	}
	return trimmed, nil
}

// clampListFilter applies the listing bounds: limit defaults to 50 and is
// capped to [1,100], offset is floored at 0.
func clampListFilter(filter ports.TaskFilter) ports.TaskFilter {
	if filter.Limit == 0 {
		filter.Limit = 50
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Limit < 1 {
		filter.Limit = 1
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return filter
}
