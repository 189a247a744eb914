package chatports

import (
	"context"
	"encoding/json"
)

// Error codes surfaced in structured tool results and chat failures.
const (
	CodeValidationError    = "VALIDATION_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeForbidden          = "FORBIDDEN"
	CodeUnknownTool        = "UNKNOWN_TOOL"
	CodeToolExecutionError = "TOOL_EXECUTION_ERROR"
	CodeProviderError      = "PROVIDER_ERROR"
	CodeProcessingError    = "PROCESSING_ERROR"
	CodeServerError        = "SERVER_ERROR"
)

// ToolError is the failure half of a tool result.
type ToolError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ToolResult is the tagged outcome of a tool invocation: either Success with
// Data, or a ToolError. Tool results never carry Go errors across the adapter
// boundary.
type ToolResult struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ToolError `json:"error,omitempty"`
}

// ToolCallRecord captures one executed tool during a chat turn.
type ToolCallRecord struct {
	Tool       string          `json:"tool"`
	Parameters json.RawMessage `json:"parameters,omitempty"`
	Result     ToolResult      `json:"result"`
}

// ToolSpec describes a callable tool exposed to the model.
type ToolSpec struct {
	Name        string // unique logical name
	Description string // concise doc for model selection
	JSONSchema  []byte // JSON schema for the argument object
}

// Tool is the runtime that executes a tool call. Invoke returns a structured
// result for expected failures; the error return is reserved for unexpected
// internal faults, which the registry converts to a TOOL_EXECUTION_ERROR
// result rather than letting them escape.
type Tool interface {
	Name() string
	Description() string
	Schema() []byte
	Invoke(ctx context.Context, args json.RawMessage) (ToolResult, error)
}
