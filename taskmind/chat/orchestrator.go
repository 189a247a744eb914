package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	ports "github.com/taskmindhq/taskmind/taskmind/chat/ports"
	"github.com/taskmindhq/taskmind/taskmind/chat/tools"
)

// Message roles as persisted and as sent to the provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

const systemPrompt = `You are a helpful task management assistant. You can help users create, list, update, complete, and delete their tasks through natural conversation.

Available tools:
- add_task(title, description=None): Create a new task
- list_tasks(completed=None, limit=50, offset=0): List tasks (completed=True/False/None for all)
- complete_task(task_id, completed=True): Mark task as complete/incomplete
- update_task(task_id, title=None, description=None): Update task details
- delete_task(task_id): Delete a task

Guidelines:
- Always confirm actions taken on behalf of the user
- Be conversational and helpful
- Ask for clarification when requests are ambiguous
- Provide clear feedback about task operations
- When listing tasks, format them nicely for the user
- For task completion, ask for confirmation before deleting tasks
- Be encouraging and supportive about productivity`

// degradedResponse is returned when tools ran but the follow-up completion
// failed. The tool effects are already applied at that point.
const degradedResponse = "I executed the requested actions, but had trouble generating a response."

// ChatError is a turn-level failure with a machine-readable code.
type ChatError struct {
	Code    string
	Message string
}

func (e *ChatError) Error() string { return e.Message }

// Config tunes one orchestrator instance. Zero values fall back to defaults.
type Config struct {
	HistoryLimit int
	Temperature  float32
	MaxTokens    int
}

func (c Config) withDefaults() Config {
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = 50
	}
	if c.Temperature == 0 {
		c.Temperature = 0.7
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 1000
	}
	return c
}

// TurnResult is the outcome of one successful chat turn.
type TurnResult struct {
	ConversationID string
	Response       string
	ToolCalls      []ports.ToolCallRecord
	CreatedAt      time.Time
}

// Orchestrator runs model-driven chat turns: it maintains conversation state,
// hands the tool catalog to the provider, executes requested tools
// sequentially, and asks the provider for a final user-facing response.
type Orchestrator struct {
	provider ports.Provider
	tasks    ports.TaskStore
	convs    ports.ConversationStore
	logger   zerolog.Logger
	cfg      Config
}

func NewOrchestrator(provider ports.Provider, tasks ports.TaskStore, convs ports.ConversationStore, logger zerolog.Logger, cfg Config) *Orchestrator {
	return &Orchestrator{
		provider: provider,
		tasks:    tasks,
		convs:    convs,
		logger:   logger,
		cfg:      cfg.withDefaults(),
	}
}

// SendMessage runs one chat turn for ownerID. An unknown or foreign
// conversationID silently starts a new conversation rather than failing.
// The turn is not transactional: a provider failure after the user message
// was persisted leaves that message in place.
func (o *Orchestrator) SendMessage(ctx context.Context, ownerID, conversationID, message string) (result *TurnResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			o.logger.Error().Interface("panic", rec).Str("user_id", ownerID).Msg("chat turn panicked")
			result = nil
			err = &ChatError{Code: ports.CodeProcessingError, Message: "Failed to process your message. Please try again."}
		}
	}()

	conv, err := o.resolveConversation(ctx, ownerID, conversationID)
	if err != nil {
		return nil, o.processingError(err, "failed to resolve conversation")
	}

	if _, err := o.convs.AppendMessage(ctx, conv.ID, RoleUser, message, nil); err != nil {
		return nil, o.processingError(err, "failed to persist user message")
	}

	history, err := o.convs.RecentMessages(ctx, conv.ID, o.cfg.HistoryLimit)
	if err != nil {
		return nil, o.processingError(err, "failed to load history")
	}

	convo := make([]ports.ChatMessage, 0, len(history)+1)
	convo = append(convo, ports.ChatMessage{Role: RoleSystem, Content: systemPrompt})
	for _, msg := range history {
		convo = append(convo, ports.ChatMessage{Role: msg.Role, Content: msg.Content})
	}

	registry := tools.NewRegistry(o.tasks, ownerID, o.logger)
	opts := ports.Options{Temperature: o.cfg.Temperature, MaxTokens: o.cfg.MaxTokens, ToolChoice: "auto"}

	completion, err := o.provider.Complete(ctx, convo, registry.Specs(), opts)
	if err != nil {
		o.logger.Error().Err(err).Str("user_id", ownerID).Msg("provider call failed")
		return nil, &ChatError{Code: ports.CodeProviderError, Message: fmt.Sprintf("Model provider error: %v", err)}
	}

	var executed []ports.ToolCallRecord
	content := completion.Content

	if len(completion.ToolCalls) > 0 {
		o.logger.Info().Int("count", len(completion.ToolCalls)).Str("conversation_id", conv.ID).Msg("executing tool calls")

		for _, call := range completion.ToolCalls {
			params, toolResult := registry.Execute(ctx, call.Name, call.Args)
			executed = append(executed, ports.ToolCallRecord{
				Tool:       call.Name,
				Parameters: params,
				Result:     toolResult,
			})

			resultJSON, merr := json.Marshal(toolResult)
			if merr != nil {
				return nil, o.processingError(merr, "failed to encode tool result")
			}
			convo = append(convo, ports.ChatMessage{
				Role:      RoleAssistant,
				ToolCalls: []ports.ToolInvocation{call},
			})
			convo = append(convo, ports.ChatMessage{
				Role:       RoleTool,
				Content:    string(resultJSON),
				ToolCallID: call.ID,
			})
		}

		// Second pass without tools to narrate the outcome. The tool effects
		// are already committed, so a failure here degrades the text only.
		final, ferr := o.provider.Complete(ctx, convo, nil, opts)
		if ferr != nil {
			o.logger.Error().Err(ferr).Str("conversation_id", conv.ID).Msg("final provider call failed")
			content = degradedResponse
		} else {
			content = final.Content
		}
	}

	assistantMsg, err := o.convs.AppendMessage(ctx, conv.ID, RoleAssistant, content, executed)
	if err != nil {
		return nil, o.processingError(err, "failed to persist assistant message")
	}

	return &TurnResult{
		ConversationID: conv.ID,
		Response:       content,
		ToolCalls:      executed,
		CreatedAt:      assistantMsg.CreatedAt,
	}, nil
}

// ListConversations returns the caller's conversations, most recent first.
func (o *Orchestrator) ListConversations(ctx context.Context, ownerID string) ([]ports.Conversation, error) {
	return o.convs.ListConversations(ctx, ownerID, 50)
}

// ConversationMessages returns the full transcript of one of the caller's
// conversations in chronological order.
func (o *Orchestrator) ConversationMessages(ctx context.Context, ownerID, conversationID string) ([]ports.Message, error) {
	if _, err := o.convs.GetConversation(ctx, ownerID, conversationID); err != nil {
		return nil, err
	}
	return o.convs.ListMessages(ctx, conversationID, 0)
}

func (o *Orchestrator) resolveConversation(ctx context.Context, ownerID, conversationID string) (ports.Conversation, error) {
	if conversationID != "" {
		conv, err := o.convs.GetConversation(ctx, ownerID, conversationID)
		if err == nil {
			return conv, nil
		}
		if !errors.Is(err, ports.ErrConversationNotFound) {
			return ports.Conversation{}, err
		}
		o.logger.Warn().Str("conversation_id", conversationID).Str("user_id", ownerID).Msg("conversation not found, starting a new one")
	}

	conv, err := o.convs.CreateConversation(ctx, ownerID)
	if err != nil {
		return ports.Conversation{}, err
	}
	o.logger.Info().Str("conversation_id", conv.ID).Str("user_id", ownerID).Msg("created conversation")
	return conv, nil
}

func (o *Orchestrator) processingError(err error, msg string) *ChatError {
	o.logger.Error().Err(err).Msg(msg)
	return &ChatError{Code: ports.CodeProcessingError, Message: "Failed to process your message. Please try again."}
}
