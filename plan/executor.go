package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hupe1980/taskmesh/approval"
	"github.com/hupe1980/taskmesh/core"
	"github.com/hupe1980/taskmesh/logging"
	"github.com/hupe1980/taskmesh/registry"
	"github.com/hupe1980/taskmesh/skill"
)

var (
	// ErrPlanRejected is returned when the approval gate rejects the plan
	// before execution starts. The rejection comment, if any, is attached.
	ErrPlanRejected = errors.New("plan rejected")

	// ErrStopped is returned when execution ends early because the user
	// answered stop, the context was cancelled, or Stop was called. The
	// partial Result is still returned alongside it.
	ErrStopped = errors.New("execution stopped")
)

const (
	// DefaultMaxAttempts bounds capability invocations per item.
	DefaultMaxAttempts = 3
	// DefaultMaxStagnantSteps bounds consecutive loop steps without any
	// item reaching a terminal status before the run is aborted and the
	// remaining items are failed.
	DefaultMaxStagnantSteps = 6
)

// Options configures an Executor.
type Options struct {
	// MaxAttempts is the per-item capability invocation budget.
	MaxAttempts int
	// MaxStagnantSteps is the stagnation guard threshold.
	MaxStagnantSteps int
	// BaseContext is the execution context each item starts from before
	// skill modulation. A minimal default is used when nil.
	BaseContext *core.ExecutionContext
	// Catalog resolves items onto skills. Optional; without it every item
	// runs on the unmodified base context.
	Catalog *skill.Catalog
	// Logger provides structured logging. Defaults to NoOp if nil.
	Logger logging.Logger
}

// Executor drives a plan item by item: resolve a skill, derive the execution
// context, consult the planner, gate risky calls, invoke the capability and
// advance item state. One Executor may run plans sequentially; Stop aborts
// the run in flight.
type Executor struct {
	registry *registry.Registry
	gate     *approval.Gate
	planner  Planner
	catalog  *skill.Catalog
	baseCtx  *core.ExecutionContext

	maxAttempts      int
	maxStagnantSteps int
	logger           logging.Logger
	stopped          atomic.Bool
}

// NewExecutor wires an execute loop over the given capability registry,
// approval gate and planner.
func NewExecutor(reg *registry.Registry, gate *approval.Gate, planner Planner, optFns ...func(o *Options)) *Executor {
	opts := Options{
		MaxAttempts:      DefaultMaxAttempts,
		MaxStagnantSteps: DefaultMaxStagnantSteps,
		Logger:           logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.MaxStagnantSteps <= 0 {
		opts.MaxStagnantSteps = DefaultMaxStagnantSteps
	}
	if opts.BaseContext == nil {
		opts.BaseContext = core.NewExecutionContext("")
	}

	return &Executor{
		registry:         reg,
		gate:             gate,
		planner:          planner,
		catalog:          opts.Catalog,
		baseCtx:          opts.BaseContext,
		maxAttempts:      opts.MaxAttempts,
		maxStagnantSteps: opts.MaxStagnantSteps,
		logger:           opts.Logger,
	}
}

// Stop signals a running Execute to abort before its next step. Remaining
// non-terminal items are failed and the partial result is returned with
// ErrStopped.
func (e *Executor) Stop() { e.stopped.Store(true) }

// failureRecord tracks repeated identical failures of one tool/args pair.
type failureRecord struct {
	lastErr string
	count   int
}

// itemState is the per-item loop bookkeeping, discarded once the item is
// terminal.
type itemState struct {
	attempts int
	prev     *Attempt
	failures map[string]*failureRecord
}

// Execute runs the plan to completion. The plan as a whole is submitted for
// approval first; items are then processed in order, each one completed on
// its first successful capability call or failed after exhausted attempts,
// repeated identical failures, rejection or stagnation. A failed item never
// aborts the rest of the plan.
func (e *Executor) Execute(ctx context.Context, p *core.Plan) (*Result, error) {
	start := time.Now()
	e.stopped.Store(false)

	log := e.logger

	if err := e.approvePlan(ctx, p); err != nil {
		return nil, err
	}

	states := make(map[string]*itemState)
	stagnant := 0

	for !p.Terminal() {
		if ctx.Err() != nil || e.stopped.Load() {
			e.failRemaining(p, "stopped before execution")
			return newResult(p.Items(), time.Since(start)), ErrStopped
		}

		item := p.Active()
		if item == nil {
			break
		}

		if item.Status == core.StatusPending {
			if err := p.Update(item.ID, (*core.TodoItem).MarkInProgress); err != nil {
				return nil, err
			}
		}

		st := states[item.ID]
		if st == nil {
			st = &itemState{failures: make(map[string]*failureRecord)}
			states[item.ID] = st
		}

		progressed, err := e.step(ctx, p, item, st)
		if err != nil {
			if errors.Is(err, ErrStopped) {
				e.failRemaining(p, "stopped before execution")
				return newResult(p.Items(), time.Since(start)), ErrStopped
			}
			return nil, err
		}

		if progressed {
			stagnant = 0
			delete(states, item.ID)
			continue
		}

		stagnant++
		if stagnant >= e.maxStagnantSteps {
			reason := fmt.Sprintf("no progress after %d steps", stagnant)
			log.Warn("plan.stagnation", "plan_id", p.ID, "item_id", item.ID, "steps", stagnant)
			e.failRemaining(p, reason)
			break
		}
	}

	res := newResult(p.Items(), time.Since(start))
	log.Info("plan.finished",
		"plan_id", p.ID,
		"completed", res.Completed,
		"failed", res.Failed,
		"duration", res.Duration.String(),
	)

	return res, nil
}

// approvePlan submits the whole plan to the gate before any work starts.
func (e *Executor) approvePlan(ctx context.Context, p *core.Plan) error {
	resp, err := e.gate.ApprovePlan(ctx, &core.PlanApprovalRequest{
		Items:   p.Items(),
		Request: p.Request,
	})
	if err != nil {
		return fmt.Errorf("plan approval: %w", err)
	}

	switch {
	case resp.Action.IsApproval():
		return nil
	case resp.Action == core.ActionStop:
		return ErrStopped
	default:
		if resp.Comment != "" {
			return fmt.Errorf("%w: %s", ErrPlanRejected, resp.Comment)
		}
		return ErrPlanRejected
	}
}

// step runs one loop iteration for the active item. It reports whether the
// item reached a terminal status.
func (e *Executor) step(ctx context.Context, p *core.Plan, item *core.TodoItem, st *itemState) (bool, error) {
	execCtx, err := e.deriveContext(ctx, item)
	if err != nil {
		return true, e.failItem(p, item.ID, fmt.Sprintf("skill resolution: %v", err))
	}

	call, err := e.planner.NextCall(ctx, item.Clone(), execCtx, st.prev)
	if err != nil {
		if ctx.Err() != nil {
			return false, ErrStopped
		}
		return true, e.failItem(p, item.ID, fmt.Sprintf("planner: %v", err))
	}

	// A nil call means the item needs no capability at all.
	if call == nil {
		if err := p.Update(item.ID, (*core.TodoItem).MarkCompleted); err != nil {
			return false, err
		}
		e.logger.Info("plan.item.completed", "plan_id", p.ID, "item_id", item.ID, "title", item.Title)
		return true, nil
	}

	if gated, reason := e.gateCall(ctx, item, call); gated {
		if reason == "" {
			return false, ErrStopped
		}
		return true, e.failItem(p, item.ID, reason)
	}

	st.attempts++
	_, callErr := e.invoke(ctx, item, execCtx, call)

	if callErr == nil {
		if err := p.Update(item.ID, (*core.TodoItem).MarkCompleted); err != nil {
			return false, err
		}
		e.logger.Info("plan.item.completed", "plan_id", p.ID, "item_id", item.ID, "tool", call.Tool)
		return true, nil
	}

	st.prev = &Attempt{Tool: call.Tool, Args: call.Args, Err: callErr.Error()}

	sig := callSignature(call)
	rec := st.failures[sig]
	if rec == nil || rec.lastErr != callErr.Error() {
		rec = &failureRecord{lastErr: callErr.Error()}
		st.failures[sig] = rec
	}
	rec.count++

	if rec.count >= 2 {
		return true, e.failItem(p, item.ID,
			fmt.Sprintf("call to %s failed twice identically: %s", call.Tool, callErr))
	}

	if st.attempts >= e.maxAttempts {
		return true, e.failItem(p, item.ID,
			fmt.Sprintf("exceeded %d attempts, last error: %s", e.maxAttempts, callErr))
	}

	e.logger.Warn("plan.item.attempt_failed",
		"plan_id", p.ID,
		"item_id", item.ID,
		"tool", call.Tool,
		"attempt", st.attempts,
		"error", callErr.Error(),
	)

	return false, nil
}

// deriveContext resolves the item onto a skill and applies it to the base
// context. Without a catalog or matching skill the base context is cloned
// unchanged.
func (e *Executor) deriveContext(ctx context.Context, item *core.TodoItem) (*core.ExecutionContext, error) {
	if e.catalog == nil {
		return e.baseCtx.Clone(), nil
	}

	sk, err := e.catalog.Resolve(ctx, skill.Task{
		Name:        item.SkillName,
		Description: item.Description,
		Specialized: item.Specialized,
	})
	if err != nil {
		return nil, err
	}
	if sk == nil {
		return e.baseCtx.Clone(), nil
	}

	e.logger.Debug("plan.item.skill", "item_id", item.ID, "skill", sk.Name)

	return sk.Apply(e.baseCtx), nil
}

// gateCall routes calls at RiskMedium or above through the approval gate.
// It returns (true, reason) when the call must not be invoked; an empty
// reason means stop the whole run.
func (e *Executor) gateCall(ctx context.Context, item *core.TodoItem, call *ToolCall) (bool, string) {
	if call.Risk == nil || call.Risk.Level < core.RiskMedium {
		return false, ""
	}

	resp, err := e.gate.ApproveTask(ctx, &core.TaskApprovalRequest{
		ItemID:      item.ID,
		Description: item.Description,
		Risk:        call.Risk,
		Context: map[string]any{
			"tool": call.Tool,
			"args": call.Args,
		},
	})
	if err != nil {
		return true, fmt.Sprintf("task approval: %v", err)
	}

	switch {
	case resp.Action.IsApproval():
		return false, ""
	case resp.Action == core.ActionStop:
		return true, ""
	default:
		reason := "rejected by approval gate"
		if resp.Comment != "" {
			reason = fmt.Sprintf("rejected by approval gate: %s", resp.Comment)
		}
		return true, reason
	}
}

// invoke resolves the tool and executes it with a fresh tool context.
func (e *Executor) invoke(ctx context.Context, item *core.TodoItem, execCtx *core.ExecutionContext, call *ToolCall) (any, error) {
	t, ok := e.registry.Get(call.Tool)
	if !ok {
		return nil, fmt.Errorf("tool %s not registered", call.Tool)
	}

	toolCtx := core.NewToolContext(ctx, item.ID, core.NewID(), execCtx, e.logger)

	return t.Call(toolCtx, call.Args)
}

// failItem moves the item to failed; the loop then proceeds to the next one.
func (e *Executor) failItem(p *core.Plan, itemID, reason string) error {
	e.logger.Warn("plan.item.failed", "plan_id", p.ID, "item_id", itemID, "reason", reason)
	return p.Update(itemID, func(t *core.TodoItem) error { return t.MarkFailed(reason) })
}

// failRemaining fails every non-terminal item, used on stop, cancel and
// stagnation.
func (e *Executor) failRemaining(p *core.Plan, reason string) {
	for _, it := range p.Items() {
		if !it.Status.IsTerminal() {
			_ = p.Update(it.ID, func(t *core.TodoItem) error { return t.MarkFailed(reason) })
		}
	}
}

// callSignature builds a stable identity for a tool/args pair used by the
// identical failure detector. JSON marshaling sorts map keys, so argument
// order never affects the signature.
func callSignature(call *ToolCall) string {
	args, err := json.Marshal(call.Args)
	if err != nil {
		args = []byte(fmt.Sprintf("%v", call.Args))
	}
	return call.Tool + ":" + string(args)
}
