package plan

import (
	"context"

	"github.com/hupe1980/taskmesh/core"
)

// ToolCall is one capability invocation proposed by a Planner.
type ToolCall struct {
	// Tool names the capability to invoke, resolved against the registry.
	Tool string
	// Args are the structured arguments validated against the tool schema.
	Args map[string]any
	// Risk optionally carries the planner's risk assessment for this call.
	// Calls at RiskMedium or above are routed through the approval gate
	// before they are invoked.
	Risk *core.RiskAssessment
}

// Attempt records a failed capability call for an item, handed back to the
// Planner so the retry can adjust arguments or switch tools. A successful
// call completes the item, so the planner only ever sees failed attempts.
type Attempt struct {
	Tool string
	Args map[string]any
	Err  string
}

// Planner proposes the next capability call for the active item. The loop
// consults the planner before every invocation, passing the previous failed
// attempt (nil on the first step of an item). Retrying the exact same call
// is allowed once; a second identical failure ends the item.
//
// Returning a nil call with a nil error completes the item without invoking
// any capability.
type Planner interface {
	NextCall(ctx context.Context, item core.TodoItem, execCtx *core.ExecutionContext, prev *Attempt) (*ToolCall, error)
}

// PlannerFunc adapts a plain function to the Planner interface.
type PlannerFunc func(ctx context.Context, item core.TodoItem, execCtx *core.ExecutionContext, prev *Attempt) (*ToolCall, error)

// NextCall implements Planner.
func (f PlannerFunc) NextCall(ctx context.Context, item core.TodoItem, execCtx *core.ExecutionContext, prev *Attempt) (*ToolCall, error) {
	return f(ctx, item, execCtx, prev)
}
