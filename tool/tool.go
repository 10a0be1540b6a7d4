// Package tool implements the capability subsystem that lets the execute
// loop invoke structured functions (APIs, computations, side-effects) with
// schema validated arguments, consistent error handling and category metadata
// for registry indexing.
package tool

import (
	"fmt"

	"github.com/hupe1980/taskmesh/core"
	"github.com/hupe1980/taskmesh/internal/util"
)

// Tool defines the interface for a named, schema-described capability.
//
// Tools are registered with the capability registry, either directly
// (always-on core tools) or as members of a togglable group, and resolved by
// name when the execute loop drives a plan item.
//
// Tool implementations should:
//   - Provide clear, descriptive names and descriptions
//   - Define proper JSON schema for parameters
//   - Handle errors gracefully
//   - Be thread-safe if used concurrently
type Tool interface {
	// Name returns the unique identifier for this tool.
	// Names should be descriptive and follow function naming conventions (snake_case recommended).
	Name() string

	// Description returns a human-readable description of what this tool does.
	Description() string

	// Categories returns the category labels under which the registry
	// indexes this tool. May be empty.
	Categories() []string

	// Parameters returns a JSON schema describing the expected input format.
	// This schema is used for parameter validation.
	Parameters() map[string]any

	// Call executes the tool with structured arguments and a ToolContext
	// carrying cancellation, correlation identifiers and the execution
	// context. Arguments are validated against the tool's schema.
	Call(toolCtx *core.ToolContext, args map[string]any) (any, error)
}

// ValidationError represents parameter validation errors with detailed information.
type ValidationError = util.ValidationError

// ToolError represents errors that occur during tool execution.
type ToolError struct {
	Tool    string `json:"tool"`              // Name of the tool that failed
	Message string `json:"message"`           // Error message
	Code    string `json:"code"`              // Error code for categorization
	Details any    `json:"details,omitempty"` // Additional error details
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{
		Tool:    tool,
		Message: message,
		Code:    code,
	}
}
