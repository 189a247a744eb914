package chat

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ports "github.com/taskmindhq/taskmind/taskmind/chat/ports"
	"github.com/taskmindhq/taskmind/taskmind/store"
)

type stubCall struct {
	messages []ports.ChatMessage
	tools    []ports.ToolSpec
	opts     ports.Options
}

// StubProvider replays a scripted queue of completions and records every call
// it receives.
type StubProvider struct {
	completions []ports.Completion
	errs        []error
	calls       []stubCall
}

func (s *StubProvider) Complete(ctx context.Context, messages []ports.ChatMessage, tools []ports.ToolSpec, opts ports.Options) (ports.Completion, error) {
	s.calls = append(s.calls, stubCall{messages: messages, tools: tools, opts: opts})
	i := len(s.calls) - 1
	if i < len(s.errs) && s.errs[i] != nil {
		return ports.Completion{}, s.errs[i]
	}
	if i < len(s.completions) {
		return s.completions[i], nil
	}
	return ports.Completion{Content: "ok"}, nil
}

func newTestOrchestrator(provider ports.Provider) (*Orchestrator, *store.MemoryTaskStore, *store.MemoryConversationStore) {
	tasks := store.NewMemoryTaskStore()
	convs := store.NewMemoryConversationStore()
	orch := NewOrchestrator(provider, tasks, convs, zerolog.Nop(), Config{})
	return orch, tasks, convs
}

func TestSendMessageDirectResponse(t *testing.T) {
	provider := &StubProvider{completions: []ports.Completion{{Content: "Hi! How can I help?"}}}
	orch, _, convs := newTestOrchestrator(provider)
	ctx := context.Background()

	result, err := orch.SendMessage(ctx, "alice", "", "hello")
	require.NoError(t, err)
	assert.Equal(t, "Hi! How can I help?", result.Response)
	assert.Empty(t, result.ToolCalls)
	assert.NotEmpty(t, result.ConversationID)

	msgs, err := convs.ListMessages(ctx, result.ConversationID, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, RoleUser, msgs[0].Role)
	assert.Equal(t, "hello", msgs[0].Content)
	assert.Equal(t, RoleAssistant, msgs[1].Role)
	assert.Nil(t, msgs[1].ToolCalls)

	// First provider call: system prompt plus the single user message, with
	// the full tool catalog attached.
	require.Len(t, provider.calls, 1)
	sent := provider.calls[0]
	require.Len(t, sent.messages, 2)
	assert.Equal(t, RoleSystem, sent.messages[0].Role)
	assert.Len(t, sent.tools, 5)
	assert.Equal(t, "auto", sent.opts.ToolChoice)
	assert.Equal(t, float32(0.7), sent.opts.Temperature)
	assert.Equal(t, 1000, sent.opts.MaxTokens)
}

func TestSendMessageConversationContinuity(t *testing.T) {
	provider := &StubProvider{completions: []ports.Completion{
		{Content: "first reply"},
		{Content: "second reply"},
	}}
	orch, _, _ := newTestOrchestrator(provider)
	ctx := context.Background()

	first, err := orch.SendMessage(ctx, "alice", "", "one")
	require.NoError(t, err)

	second, err := orch.SendMessage(ctx, "alice", first.ConversationID, "two")
	require.NoError(t, err)
	assert.Equal(t, first.ConversationID, second.ConversationID)

	// Second call sees system + user/assistant/user history.
	require.Len(t, provider.calls, 2)
	sent := provider.calls[1].messages
	require.Len(t, sent, 4)
	assert.Equal(t, "one", sent[1].Content)
	assert.Equal(t, "first reply", sent[2].Content)
	assert.Equal(t, "two", sent[3].Content)
}

func TestSendMessageUnknownConversationStartsNew(t *testing.T) {
	provider := &StubProvider{}
	orch, _, _ := newTestOrchestrator(provider)

	result, err := orch.SendMessage(context.Background(), "alice", "no-such-conversation", "hello")
	require.NoError(t, err)
	assert.NotEqual(t, "no-such-conversation", result.ConversationID)
}

func TestSendMessageToolRound(t *testing.T) {
	provider := &StubProvider{completions: []ports.Completion{
		{ToolCalls: []ports.ToolInvocation{{
			ID:   "call_1",
			Name: "add_task",
			Args: json.RawMessage(`{"title":"Walk dog"}`),
		}}},
		{Content: "Done! I added 'Walk dog' to your list."},
	}}
	orch, tasks, convs := newTestOrchestrator(provider)
	ctx := context.Background()

	result, err := orch.SendMessage(ctx, "alice", "", "add walk dog to my list")
	require.NoError(t, err)
	assert.Equal(t, "Done! I added 'Walk dog' to your list.", result.Response)
	require.Len(t, result.ToolCalls, 1)
	assert.Equal(t, "add_task", result.ToolCalls[0].Tool)
	assert.True(t, result.ToolCalls[0].Result.Success)

	// The tool actually ran against the store.
	listed, total, err := tasks.List(ctx, "alice", ports.TaskFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Walk dog", listed[0].Title)

	// Second provider call carries the tool exchange and no tool catalog.
	require.Len(t, provider.calls, 2)
	final := provider.calls[1]
	assert.Nil(t, final.tools)
	last := final.messages[len(final.messages)-1]
	assert.Equal(t, RoleTool, last.Role)
	assert.Equal(t, "call_1", last.ToolCallID)
	assert.Contains(t, last.Content, `"success":true`)

	// The assistant message persists the executed tool records.
	msgs, err := convs.ListMessages(ctx, result.ConversationID, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.Len(t, msgs[1].ToolCalls, 1)
	assert.Equal(t, "add_task", msgs[1].ToolCalls[0].Tool)
}

func TestSendMessageProviderFailureLeavesUserMessage(t *testing.T) {
	provider := &StubProvider{errs: []error{errors.New("upstream 502")}}
	orch, _, convs := newTestOrchestrator(provider)
	ctx := context.Background()

	conv, err := convs.CreateConversation(ctx, "alice")
	require.NoError(t, err)

	result, err := orch.SendMessage(ctx, "alice", conv.ID, "hello")
	assert.Nil(t, result)

	var chatErr *ChatError
	require.ErrorAs(t, err, &chatErr)
	assert.Equal(t, ports.CodeProviderError, chatErr.Code)

	// The turn is not transactional: the user message stays behind.
	msgs, err := convs.ListMessages(ctx, conv.ID, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, RoleUser, msgs[0].Role)
}

func TestSendMessageDegradedFinalResponse(t *testing.T) {
	provider := &StubProvider{
		completions: []ports.Completion{
			{ToolCalls: []ports.ToolInvocation{{
				ID:   "call_1",
				Name: "add_task",
				Args: json.RawMessage(`{"title":"Walk dog"}`),
			}}},
			{},
		},
		errs: []error{nil, errors.New("upstream timeout")},
	}
	orch, tasks, _ := newTestOrchestrator(provider)
	ctx := context.Background()

	result, err := orch.SendMessage(ctx, "alice", "", "add walk dog")
	require.NoError(t, err)
	assert.Equal(t, degradedResponse, result.Response)

	// The tool effect stands even though the narration failed.
	_, total, err := tasks.List(ctx, "alice", ports.TaskFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestSendMessageUnknownToolRecorded(t *testing.T) {
	provider := &StubProvider{completions: []ports.Completion{
		{ToolCalls: []ports.ToolInvocation{{
			ID:   "call_1",
			Name: "launch_rocket",
			Args: json.RawMessage(`{}`),
		}}},
		{Content: "I can't do that."},
	}}
	orch, _, _ := newTestOrchestrator(provider)

	result, err := orch.SendMessage(context.Background(), "alice", "", "launch the rocket")
	require.NoError(t, err)
	require.Len(t, result.ToolCalls, 1)
	require.False(t, result.ToolCalls[0].Result.Success)
	assert.Equal(t, ports.CodeUnknownTool, result.ToolCalls[0].Result.Error.Code)
}

func TestConversationMessagesOwnerScoped(t *testing.T) {
	provider := &StubProvider{}
	orch, _, convs := newTestOrchestrator(provider)
	ctx := context.Background()

	conv, err := convs.CreateConversation(ctx, "alice")
	require.NoError(t, err)

	_, err = orch.ConversationMessages(ctx, "bob", conv.ID)
	assert.ErrorIs(t, err, ports.ErrConversationNotFound)

	msgs, err := orch.ConversationMessages(ctx, "alice", conv.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
