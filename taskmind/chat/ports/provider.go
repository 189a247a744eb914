package chatports

import (
	"context"
	"encoding/json"
)

// ToolInvocation is a model-requested function call with serialized arguments.
type ToolInvocation struct {
	ID   string
	Name string
	Args json.RawMessage
}

// ChatMessage is a single role-tagged message sent to or received from the
// completion provider. ToolCalls is set on assistant messages that requested
// tools; ToolCallID ties a "tool" role message back to the request it answers.
type ChatMessage struct {
	Role       string // "system", "user", "assistant", "tool"
	Content    string
	ToolCalls  []ToolInvocation
	ToolCallID string
}

// Options controls sampling and limits for one provider call.
type Options struct {
	Temperature float32
	MaxTokens   int
	// ToolChoice: "auto" | "none"; ignored when no tools are attached.
	ToolChoice string
}

// Completion is the provider's response: direct text content, or one or more
// requested tool invocations.
type Completion struct {
	Content   string
	ToolCalls []ToolInvocation
}

// Provider abstracts the external language-model completion API. A nil tools
// slice selects the without-tools call shape.
type Provider interface {
	Complete(ctx context.Context, messages []ChatMessage, tools []ToolSpec, opts Options) (Completion, error)
}
