package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/xeipuuv/gojsonschema"

	ports "github.com/taskmindhq/taskmind/taskmind/chat/ports"
)

var emptyParams = json.RawMessage("{}")

// Registry holds the fixed tool catalog for one caller and dispatches
// invocations. Malformed argument payloads are normalized to an empty object
// here, before any tool sees them; the tools themselves validate fields.
type Registry struct {
	tools  map[string]ports.Tool
	order  []string
	logger zerolog.Logger
}

// NewRegistry builds the five-tool catalog bound to ownerID.
func NewRegistry(tasks ports.TaskStore, ownerID string, logger zerolog.Logger) *Registry {
	ts := NewToolset(tasks, ownerID, logger)
	r := &Registry{tools: make(map[string]ports.Tool), logger: logger}
	for _, tool := range []ports.Tool{
		NewAddTaskTool(ts),
		NewListTasksTool(ts),
		NewCompleteTaskTool(ts),
		NewUpdateTaskTool(ts),
		NewDeleteTaskTool(ts),
	} {
		r.tools[tool.Name()] = tool
		r.order = append(r.order, tool.Name())
	}
	return r
}

// Specs returns the tool catalog in registration order, in the shape the
// provider layer advertises to the model.
func (r *Registry) Specs() []ports.ToolSpec {
	specs := make([]ports.ToolSpec, 0, len(r.order))
	for _, name := range r.order {
		tool := r.tools[name]
		specs = append(specs, ports.ToolSpec{
			Name:        tool.Name(),
			Description: tool.Description(),
			JSONSchema:  tool.Schema(),
		})
	}
	return specs
}

// Execute dispatches one tool invocation. It returns the normalized argument
// payload that was actually passed to the tool alongside the result, so
// callers can persist exactly what ran.
func (r *Registry) Execute(ctx context.Context, name string, args json.RawMessage) (params json.RawMessage, result ports.ToolResult) {
	tool, ok := r.tools[name]
	if !ok {
		r.logger.Warn().Str("tool", name).Msg("model requested unknown tool")
		return emptyParams, Failure(ports.CodeUnknownTool, fmt.Sprintf("Unknown tool: %s", name))
	}

	params = r.normalizeArgs(tool, args)

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error().Interface("panic", rec).Str("tool", name).Msg("tool invocation panicked")
			result = Failure(ports.CodeToolExecutionError, fmt.Sprintf("Failed to execute %s", name))
		}
	}()

	res, err := tool.Invoke(ctx, params)
	if err != nil {
		r.logger.Error().Err(err).Str("tool", name).Msg("tool invocation failed")
		return params, Failure(ports.CodeToolExecutionError, fmt.Sprintf("Failed to execute %s", name))
	}
	return params, res
}

// normalizeArgs replaces unparseable payloads with an empty object and logs
// schema violations without blocking dispatch.
func (r *Registry) normalizeArgs(tool ports.Tool, args json.RawMessage) json.RawMessage {
	if len(args) == 0 || !json.Valid(args) {
		r.logger.Warn().Str("tool", tool.Name()).Msg("malformed tool arguments, defaulting to empty object")
		return emptyParams
	}

	schemaLoader := gojsonschema.NewBytesLoader(tool.Schema())
	docLoader := gojsonschema.NewBytesLoader(args)
	validation, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		r.logger.Warn().Err(err).Str("tool", tool.Name()).Msg("schema validation unavailable")
		return args
	}
	if !validation.Valid() {
		for _, desc := range validation.Errors() {
			r.logger.Warn().Str("tool", tool.Name()).Str("violation", desc.String()).Msg("tool arguments violate schema")
		}
	}
	return args
}
