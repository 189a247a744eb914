package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	ports "github.com/taskmindhq/taskmind/taskmind/chat/ports"
)

// MemoryTaskStore is an in-memory TaskStore. It backs the test suites and any
// deployment that does not need durability; semantics match the libsql store.
type MemoryTaskStore struct {
	mu     sync.RWMutex
	tasks  []ports.Task
	nextID int64
}

func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{nextID: 1}
}

func (s *MemoryTaskStore) Create(ctx context.Context, ownerID, title string, description *string) (ports.Task, error) {
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

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	task := ports.Task{
		ID:          s.nextID,
		OwnerID:     ownerID,
		Title:       cleanTitle,
		Description: cleanDesc,
		Completed:   false,
		Position:    0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.nextID++
	s.tasks = append(s.tasks, task)
	return task, nil
}

func (s *MemoryTaskStore) List(ctx context.Context, ownerID string, filter ports.TaskFilter) ([]ports.Task, int, error) {
	filter = clampListFilter(filter)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []ports.Task
	for _, t := range s.tasks {
		if t.OwnerID != ownerID {
			continue
		}
		if filter.Completed != nil && t.Completed != *filter.Completed {
			continue
		}
		matched = append(matched, t)
	}

	// Position ascending, then newest first, id as tie-break.
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Position != matched[j].Position {
			return matched[i].Position < matched[j].Position
		}
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	if filter.Offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[filter.Offset:]
	if len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}

	out := make([]ports.Task, len(matched))
	copy(out, matched)
	return out, total, nil
}

func (s *MemoryTaskStore) SetCompletion(ctx context.Context, ownerID string, taskID int64, completed bool) (ports.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(taskID)
	if idx < 0 {
		return ports.Task{}, ports.ErrTaskNotFound
	}
	if s.tasks[idx].OwnerID != ownerID {
		return ports.Task{}, ports.ErrForbidden
	}

	s.tasks[idx].Completed = completed
	s.tasks[idx].UpdatedAt = time.Now()
	return s.tasks[idx], nil
}

func (s *MemoryTaskStore) Update(ctx context.Context, ownerID string, taskID int64, update ports.TaskUpdate) (ports.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(taskID)
	if idx < 0 {
		return ports.Task{}, ports.ErrTaskNotFound
	}
	if s.tasks[idx].OwnerID != ownerID {
		return ports.Task{}, ports.ErrForbidden
	}

	// Validate everything before mutating so a bad field leaves the task
	// untouched.
	var cleanTitle, cleanDesc string
	var err error
	if update.Title != nil {
		cleanTitle, err = validateTitle(*update.Title)
		if err != nil {
			return ports.Task{}, err
		}
	}
	if update.Description != nil {
		cleanDesc, err = validateDescription(*update.Description)
		if err != nil {
			return ports.Task{}, err
		}
	}

	if update.Title != nil {
		s.tasks[idx].Title = cleanTitle
	}
	if update.Description != nil {
		s.tasks[idx].Description = cleanDesc
	}
	s.tasks[idx].UpdatedAt = time.Now()
	return s.tasks[idx], nil
}

func (s *MemoryTaskStore) Delete(ctx context.Context, ownerID string, taskID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(taskID)
	if idx < 0 {
		return ports.ErrTaskNotFound
	}
	if s.tasks[idx].OwnerID != ownerID {
		return ports.ErrForbidden
	}

	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	return nil
}

// indexOf looks a task up by id regardless of owner; callers check ownership
// afterwards so NotFound keeps precedence over Forbidden.
func (s *MemoryTaskStore) indexOf(taskID int64) int {
	for i, t := range s.tasks {
		if t.ID == taskID {
			return i
		}
	}
	return -1
}

// MemoryConversationStore is an in-memory ConversationStore with the same
// ordering guarantees as the libsql one.
type MemoryConversationStore struct {
	mu       sync.RWMutex
	convs    map[string]ports.Conversation
	messages map[string][]ports.Message
	nextMsg  int64
}

func NewMemoryConversationStore() *MemoryConversationStore {
	return &MemoryConversationStore{
		convs:    make(map[string]ports.Conversation),
		messages: make(map[string][]ports.Message),
		nextMsg:  1,
	}
}

func (s *MemoryConversationStore) CreateConversation(ctx context.Context, ownerID string) (ports.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	conv := ports.Conversation{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.convs[conv.ID] = conv
	return conv, nil
}

func (s *MemoryConversationStore) GetConversation(ctx context.Context, ownerID, id string) (ports.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.convs[id]
	if !ok || conv.OwnerID != ownerID {
		return ports.Conversation{}, ports.ErrConversationNotFound
	}
	return conv, nil
}

func (s *MemoryConversationStore) ListConversations(ctx context.Context, ownerID string, limit int) ([]ports.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []ports.Conversation
	for _, conv := range s.convs {
		if conv.OwnerID == ownerID {
			out = append(out, conv)
		}
	}
	// Most recently updated first.
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryConversationStore) AppendMessage(ctx context.Context, conversationID, role, content string, toolCalls []ports.ToolCallRecord) (ports.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.convs[conversationID]
	if !ok {
		return ports.Message{}, ports.ErrConversationNotFound
	}

	now := time.Now()
	msg := ports.Message{
		ID:             s.nextMsg,
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		ToolCalls:      toolCalls,
		CreatedAt:      now,
	}
	s.nextMsg++
	s.messages[conversationID] = append(s.messages[conversationID], msg)

	conv.UpdatedAt = now
	s.convs[conversationID] = conv
	return msg, nil
}

func (s *MemoryConversationStore) ListMessages(ctx context.Context, conversationID string, limit int) ([]ports.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[conversationID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[:limit]
	}
	out := make([]ports.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *MemoryConversationStore) RecentMessages(ctx context.Context, conversationID string, limit int) ([]ports.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[conversationID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]ports.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

var (
	_ ports.TaskStore         = (*MemoryTaskStore)(nil)
	_ ports.ConversationStore = (*MemoryConversationStore)(nil)
)
