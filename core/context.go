package core

import (
	"context"
	"strings"

	"github.com/hupe1980/taskmesh/internal/util"
	"github.com/hupe1980/taskmesh/logging"
)

// ExecutionContext is the bundle of prompt, tool set, model, parameters and
// feature flags governing one unit of execution.
//
// Contract: mutation always yields a new context. Skill application and every
// With* helper deep-copy before changing anything, so a caller's context is
// never mutated in place and contexts can be shared across goroutines once
// built.
type ExecutionContext struct {
	BasePrompt   string          `json:"base_prompt,omitempty"`
	Tools        []string        `json:"tools,omitempty"`
	Model        string          `json:"model,omitempty"`
	Instructions []string        `json:"instructions,omitempty"`
	Parameters   map[string]any  `json:"parameters,omitempty"`
	Features     map[string]bool `json:"features,omitempty"`
}

// NewExecutionContext creates a context with the given base prompt and
// available tool names.
func NewExecutionContext(basePrompt string, tools ...string) *ExecutionContext {
	return &ExecutionContext{
		BasePrompt: basePrompt,
		Tools:      append([]string(nil), tools...),
		Parameters: map[string]any{},
		Features:   map[string]bool{},
	}
}

// Clone returns a deep copy safe for independent mutation.
func (c *ExecutionContext) Clone() *ExecutionContext {
	out := &ExecutionContext{
		BasePrompt:   c.BasePrompt,
		Model:        c.Model,
		Tools:        append([]string(nil), c.Tools...),
		Instructions: append([]string(nil), c.Instructions...),
		Parameters:   make(map[string]any, len(c.Parameters)),
		Features:     make(map[string]bool, len(c.Features)),
	}
	for k, v := range c.Parameters {
		out.Parameters[k] = v
	}
	for k, v := range c.Features {
		out.Features[k] = v
	}
	return out
}

// HasTool reports whether the named tool is available in this context.
func (c *ExecutionContext) HasTool(name string) bool {
	for _, t := range c.Tools {
		if t == name {
			return true
		}
	}
	return false
}

// AddTools unions the given tool names into the available set, preserving
// order and removing duplicates.
func (c *ExecutionContext) AddTools(names ...string) {
	for _, n := range names {
		if !c.HasTool(n) {
			c.Tools = append(c.Tools, n)
		}
	}
}

// RenderPrompt materializes the final prompt: the base prompt followed by the
// additional instructions, rendered against the parameter map using Go
// template syntax (plain text passes through untouched).
func (c *ExecutionContext) RenderPrompt() (string, error) {
	parts := make([]string, 0, len(c.Instructions)+1)
	if c.BasePrompt != "" {
		parts = append(parts, c.BasePrompt)
	}
	parts = append(parts, c.Instructions...)
	return util.RenderTemplate(strings.Join(parts, "\n\n"), c.Parameters)
}

// ToolContext carries per-call state into a tool invocation: the ambient
// cancellation context, correlation identifiers and the execution context the
// call runs under.
type ToolContext struct {
	ctx     context.Context
	itemID  string
	callID  string
	execCtx *ExecutionContext
	logger  logging.Logger
}

// NewToolContext constructs a ToolContext. A nil logger defaults to NoOp and
// a nil execution context to an empty one.
func NewToolContext(ctx context.Context, itemID, callID string, execCtx *ExecutionContext, logger logging.Logger) *ToolContext {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	if execCtx == nil {
		execCtx = NewExecutionContext("")
	}
	return &ToolContext{ctx: ctx, itemID: itemID, callID: callID, execCtx: execCtx, logger: logger}
}

// Context returns the ambient cancellation context for the call.
func (tc *ToolContext) Context() context.Context { return tc.ctx }

// ItemID returns the id of the TODO item that triggered the call.
func (tc *ToolContext) ItemID() string { return tc.itemID }

// CallID returns the unique id of this capability invocation.
func (tc *ToolContext) CallID() string { return tc.callID }

// Execution returns the execution context governing the call.
func (tc *ToolContext) Execution() *ExecutionContext { return tc.execCtx }

// Logger returns the structured logger for the call.
func (tc *ToolContext) Logger() logging.Logger { return tc.logger }
