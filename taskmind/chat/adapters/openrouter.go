// Package adapters contains concrete implementations of the chat ports.
package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	ports "github.com/taskmindhq/taskmind/taskmind/chat/ports"
)

const DefaultBaseURL = "https://openrouter.ai/api/v1"

type requestMessage struct {
	Role       string         `json:"role"`
	Content    *string        `json:"content"`
	ToolCalls  []wireToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
}

type wireToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function wireFunction `json:"function"`
}

type wireFunction struct {
	Name string `json:"name"`
	// Arguments is a JSON object serialized as a string, per the OpenAI
	// function-calling wire format.
	Arguments string `json:"arguments"`
}

type wireTool struct {
	Type     string       `json:"type"`
	Function wireToolSpec `json:"function"`
}

type wireToolSpec struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

type chatCompletionRequest struct {
	Model       string           `json:"model"`
	Messages    []requestMessage `json:"messages"`
	Tools       []wireTool       `json:"tools,omitempty"`
	ToolChoice  string           `json:"tool_choice,omitempty"`
	Temperature float32          `json:"temperature"`
	MaxTokens   int              `json:"max_tokens"`
}

type responseMessage struct {
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	ToolCalls []wireToolCall `json:"tool_calls,omitempty"`
}

type chatChoice struct {
	Index        int             `json:"index"`
	Message      responseMessage `json:"message"`
	FinishReason string          `json:"finish_reason"`
}

type chatCompletionResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
}

// OpenRouterClient is a Provider backed by OpenRouter's OpenAI-compatible
// chat completions API.
type OpenRouterClient struct {
	client  *http.Client
	apiKey  string
	baseURL string
	model   string
	logger  zerolog.Logger
}

func NewOpenRouterClient(apiKey, baseURL, model string, timeout time.Duration, logger zerolog.Logger) *OpenRouterClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OpenRouterClient{
		client:  &http.Client{Timeout: timeout},
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		logger:  logger,
	}
}

// Complete sends one chat completion request. A nil tools slice omits the
// tools and tool_choice fields entirely.
func (c *OpenRouterClient) Complete(ctx context.Context, messages []ports.ChatMessage, tools []ports.ToolSpec, opts ports.Options) (ports.Completion, error) {
	request := chatCompletionRequest{
		Model:       c.model,
		Messages:    toWireMessages(messages),
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}
	if len(tools) > 0 {
		request.Tools = toWireTools(tools)
		request.ToolChoice = opts.ToolChoice
	}

	response, err := c.post(ctx, "chat/completions", request)
	if err != nil {
		return ports.Completion{}, err
	}
	if len(response.Choices) == 0 {
		return ports.Completion{}, fmt.Errorf("completion response contained no choices")
	}

	choice := response.Choices[0].Message
	completion := ports.Completion{Content: choice.Content}
	for _, call := range choice.ToolCalls {
		completion.ToolCalls = append(completion.ToolCalls, ports.ToolInvocation{
			ID:   call.ID,
			Name: call.Function.Name,
			Args: json.RawMessage(call.Function.Arguments),
		})
	}
	return completion, nil
}

func (c *OpenRouterClient) post(ctx context.Context, endpoint string, body any) (*chatCompletionResponse, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error().Int("status", resp.StatusCode).Str("model", c.model).Msg("completion request rejected")
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var response chatCompletionResponse
	if err := json.Unmarshal(respBody, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &response, nil
}

func toWireMessages(messages []ports.ChatMessage) []requestMessage {
	out := make([]requestMessage, 0, len(messages))
	for _, msg := range messages {
		wire := requestMessage{Role: msg.Role, ToolCallID: msg.ToolCallID}
		// Assistant messages that only request tools carry a null content.
		if msg.Content != "" || len(msg.ToolCalls) == 0 {
			content := msg.Content
			wire.Content = &content
		}
		for _, call := range msg.ToolCalls {
			wire.ToolCalls = append(wire.ToolCalls, wireToolCall{
				ID:   call.ID,
				Type: "function",
				Function: wireFunction{
					Name:      call.Name,
					Arguments: string(call.Args),
				},
			})
		}
		out = append(out, wire)
	}
	return out
}

func toWireTools(tools []ports.ToolSpec) []wireTool {
	out := make([]wireTool, 0, len(tools))
	for _, tool := range tools {
		out = append(out, wireTool{
			Type: "function",
			Function: wireToolSpec{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.JSONSchema,
			},
		})
	}
	return out
}

var _ ports.Provider = (*OpenRouterClient)(nil)
