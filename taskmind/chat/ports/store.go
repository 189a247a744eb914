package chatports

import (
	"context"
	"time"
)

// Task is a single user-owned todo item.
type Task struct {
	ID          int64
	OwnerID     string
	Title       string
	Description string
	Completed   bool
	Position    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskFilter narrows and pages a task listing. A nil Completed means no
// completion filter.
type TaskFilter struct {
	Completed *bool
	Limit     int
	Offset    int
}

// TaskUpdate carries the fields of an update; nil fields are left unchanged.
type TaskUpdate struct {
	Title       *string
	Description *string
}

// TaskStore mediates all CRUD access to a user's tasks. Every operation takes
// the caller's identity and enforces ownership: a task that exists but belongs
// to someone else yields ErrForbidden, a task that does not exist at all
// yields ErrTaskNotFound (existence is checked first).
type TaskStore interface {
	Create(ctx context.Context, ownerID, title string, description *string) (Task, error)
	List(ctx context.Context, ownerID string, filter TaskFilter) ([]Task, int, error)
	SetCompletion(ctx context.Context, ownerID string, taskID int64, completed bool) (Task, error)
	Update(ctx context.Context, ownerID string, taskID int64, update TaskUpdate) (Task, error)
	Delete(ctx context.Context, ownerID string, taskID int64) error
}

// Conversation is one user's chat thread.
type Conversation struct {
	ID        string
	OwnerID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Message is one turn persisted within a conversation. Messages are
// append-only and never mutated after creation. ToolCalls is nil when the
// turn executed no tools.
type Message struct {
	ID             int64
	ConversationID string
	Role           string // "user" | "assistant"
	Content        string
	ToolCalls      []ToolCallRecord
	CreatedAt      time.Time
}

// ConversationStore persists conversations and their ordered messages.
type ConversationStore interface {
	CreateConversation(ctx context.Context, ownerID string) (Conversation, error)
	// GetConversation returns ErrConversationNotFound when the id does not
	// exist or belongs to a different owner.
	GetConversation(ctx context.Context, ownerID, id string) (Conversation, error)
	ListConversations(ctx context.Context, ownerID string, limit int) ([]Conversation, error)
	AppendMessage(ctx context.Context, conversationID, role, content string, toolCalls []ToolCallRecord) (Message, error)
	// ListMessages returns messages ascending by creation time (id as
	// tie-break). limit <= 0 means no limit.
	ListMessages(ctx context.Context, conversationID string, limit int) ([]Message, error)
	// RecentMessages returns the most recent limit messages, still in
	// ascending order.
	RecentMessages(ctx context.Context, conversationID string, limit int) ([]Message, error)
}
