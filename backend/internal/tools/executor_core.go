package tools

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"ollama-tools/backend/internal/adapter"
	apperrors "ollama-tools/backend/pkg/errors"
	"ollama-tools/backend/pkg/logger"
)

// ToolResult represents the result of a tool execution
type ToolResult struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	ErrorType string      `json:"error_type,omitempty"`
	Retryable bool        `json:"retryable,omitempty"`
	Message   string      `json:"message,omitempty"`
}

// Handler runs one tool with already decoded arguments
type Handler func(ctx context.Context, args map[string]interface{}) (*ToolResult, error)

type registeredTool struct {
	definition adapter.Tool
	handler    Handler
}

// Registry maps tool names to their definitions and handlers.
// It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]registeredTool
	logger *zap.Logger
}

// NewRegistry creates an empty tool registry
func NewRegistry() *Registry {
	return &Registry{
		tools:  make(map[string]registeredTool),
		logger: logger.Named("tools"),
	}
}

// Call runs the named tool and returns its typed error, if any
func (r *Registry) Call(ctx context.Context, toolCall adapter.ToolCall) (*ToolResult, error) {
	r.mu.RLock()
	tool, ok := r.tools[toolCall.Name]
	r.mu.RUnlock()

	if !ok {
		return nil, apperrors.NewToolNotFound(toolCall.Name)
	}

	args := toolCall.Arguments
	if args == nil {
		args = make(map[string]interface{})
	}

	r.logger.Debug("Executing tool",
		zap.String("tool", toolCall.Name),
		zap.String("call_id", toolCall.ID),
	)

	return tool.handler(ctx, args)
}

// Execute runs a tool call and returns the result. Failures are reported in
// the result, with ErrorType telling configuration, transport, decode and
// tool errors apart. Retryable marks transport failures worth another try.
func (r *Registry) Execute(ctx context.Context, toolCall adapter.ToolCall) *ToolResult {
	result, err := r.Call(ctx, toolCall)
	if err != nil {
		if apperrors.IsErrorType(err, apperrors.ErrorTypeTool) {
			r.logger.Warn("Unknown tool or invalid arguments",
				zap.String("tool", toolCall.Name),
				zap.Error(err),
			)
		} else {
			r.logger.Warn("Tool execution failed",
				zap.String("tool", toolCall.Name),
				zap.String("error_type", string(apperrors.KindOf(err))),
				zap.Error(err),
			)
		}
		return &ToolResult{
			Success:   false,
			Error:     err.Error(),
			ErrorType: string(apperrors.KindOf(err)),
			Retryable: apperrors.IsRetryable(err),
		}
	}
	if result == nil {
		result = &ToolResult{Success: true}
	}
	return result
}
