package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	ports "github.com/taskmindhq/taskmind/taskmind/chat/ports"
)

// LibSQLConversationStore implements ConversationStore on an embedded libsql
// database. Tool call records are serialized as a JSON column; an empty record
// list is stored as NULL so "no tools used" is distinguishable at read time.
type LibSQLConversationStore struct {
	db *sql.DB
}

func NewLibSQLConversationStore(db *sql.DB) *LibSQLConversationStore {
	return &LibSQLConversationStore{db: db}
}

func (s *LibSQLConversationStore) CreateConversation(ctx context.Context, ownerID string) (ports.Conversation, error) {
	now := time.Now().UTC()
	conv := ports.Conversation{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO conversations (id, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, conv.ID, conv.OwnerID, conv.CreatedAt, conv.UpdatedAt); err != nil {
		return ports.Conversation{}, fmt.Errorf("failed to insert conversation: %w", err)
	}
	return conv, nil
}

func (s *LibSQLConversationStore) GetConversation(ctx context.Context, ownerID, id string) (ports.Conversation, error) {
	var conv ports.Conversation
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, created_at, updated_at
		FROM conversations WHERE id = ? AND user_id = ?
	`, id, ownerID).Scan(&conv.ID, &conv.OwnerID, &conv.CreatedAt, &conv.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.Conversation{}, ports.ErrConversationNotFound
	}
	if err != nil {
		return ports.Conversation{}, fmt.Errorf("failed to load conversation: %w", err)
	}
	return conv, nil
}

func (s *LibSQLConversationStore) ListConversations(ctx context.Context, ownerID string, limit int) ([]ports.Conversation, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, created_at, updated_at
		FROM conversations WHERE user_id = ?
		ORDER BY updated_at DESC
		LIMIT ?
	`, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	var convs []ports.Conversation
	for rows.Next() {
		var conv ports.Conversation
		if err := rows.Scan(&conv.ID, &conv.OwnerID, &conv.CreatedAt, &conv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		convs = append(convs, conv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversations: %w", err)
	}
	return convs, nil
}

func (s *LibSQLConversationStore) AppendMessage(ctx context.Context, conversationID, role, content string, toolCalls []ports.ToolCallRecord) (ports.Message, error) {
	var toolCallsJSON sql.NullString
	if len(toolCalls) > 0 {
		data, err := json.Marshal(toolCalls)
		if err != nil {
			return ports.Message{}, fmt.Errorf("failed to marshal tool calls: %w", err)
		}
		toolCallsJSON = sql.NullString{String: string(data), Valid: true}
	}

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (conversation_id, role, content, tool_calls, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, conversationID, role, content, toolCallsJSON, now)
	if err != nil {
		return ports.Message{}, fmt.Errorf("failed to insert message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return ports.Message{}, fmt.Errorf("failed to read inserted message id: %w", err)
	}

	if _, err := s.db.ExecContext(ctx,
		"UPDATE conversations SET updated_at = ? WHERE id = ?", now, conversationID,
	); err != nil {
		return ports.Message{}, fmt.Errorf("failed to touch conversation: %w", err)
	}

	return ports.Message{
		ID:             id,
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		ToolCalls:      toolCalls,
		CreatedAt:      now,
	}, nil
}

func (s *LibSQLConversationStore) ListMessages(ctx context.Context, conversationID string, limit int) ([]ports.Message, error) {
	query := `
		SELECT id, conversation_id, role, content, tool_calls, created_at
		FROM messages WHERE conversation_id = ?
		ORDER BY created_at ASC, id ASC
	`
	args := []any{conversationID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return s.queryMessages(ctx, query, args...)
}

func (s *LibSQLConversationStore) RecentMessages(ctx context.Context, conversationID string, limit int) ([]ports.Message, error) {
	if limit <= 0 {
		return s.ListMessages(ctx, conversationID, 0)
	}
	msgs, err := s.queryMessages(ctx, `
		SELECT id, conversation_id, role, content, tool_calls, created_at
		FROM messages WHERE conversation_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, conversationID, limit)
	if err != nil {
		return nil, err
	}
	// Reverse back to chronological order.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func (s *LibSQLConversationStore) queryMessages(ctx context.Context, query string, args ...any) ([]ports.Message, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var msgs []ports.Message
	for rows.Next() {
		var msg ports.Message
		var toolCallsJSON sql.NullString
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.Role, &msg.Content, &toolCallsJSON, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		if toolCallsJSON.Valid {
			if err := json.Unmarshal([]byte(toolCallsJSON.String), &msg.ToolCalls); err != nil {
				return nil, fmt.Errorf("failed to unmarshal tool calls: %w", err)
			}
		}
		msgs = append(msgs, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}
	return msgs, nil
}

var _ ports.ConversationStore = (*LibSQLConversationStore)(nil)
