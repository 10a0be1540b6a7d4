package approval

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/taskmesh/core"
	"github.com/hupe1980/taskmesh/logging"
)

// ErrNoDecider is returned when the gate is asked to resolve a request but no
// decision source was configured. This is a configuration error: it is fatal
// to the specific call, never silently approved.
var ErrNoDecider = errors.New("approval decider not configured")

// DefaultTitlePrefixLen bounds the first-item-title prefix used in plan
// pattern keys. Distinct plans whose first titles share this prefix (and item
// count) collide on the same key, a known limitation of the key scheme.
const DefaultTitlePrefixLen = 20

// Decider is the host-supplied decision source, one method per protocol.
// Implementations may block arbitrarily long (human input, model latency) and
// must honor ctx cancellation. The returned token has the form "action" or
// "action:comment".
type Decider interface {
	// DecidePlan resolves a plan-level sign-off request.
	DecidePlan(ctx context.Context, req *core.PlanApprovalRequest) (string, error)
	// DecideTask resolves a task-level request for a risky capability call.
	DecideTask(ctx context.Context, req *core.TaskApprovalRequest) (string, error)
}

// DeciderFunc adapts plain functions to the Decider interface.
type DeciderFunc struct {
	// Plan handles plan-level requests.
	Plan func(ctx context.Context, req *core.PlanApprovalRequest) (string, error)
	// Task handles task-level requests.
	Task func(ctx context.Context, req *core.TaskApprovalRequest) (string, error)
}

// DecidePlan implements Decider.
func (d DeciderFunc) DecidePlan(ctx context.Context, req *core.PlanApprovalRequest) (string, error) {
	if d.Plan == nil {
		return "", ErrNoDecider
	}
	return d.Plan(ctx, req)
}

// DecideTask implements Decider.
func (d DeciderFunc) DecideTask(ctx context.Context, req *core.TaskApprovalRequest) (string, error) {
	if d.Task == nil {
		return "", ErrNoDecider
	}
	return d.Task(ctx, req)
}

// Options configures a Gate.
type Options struct {
	// TitlePrefixLen bounds the title prefix in plan pattern keys.
	TitlePrefixLen int
	// Logger provides structured logging. Defaults to NoOp if nil.
	Logger logging.Logger
}

// Gate resolves approval requests. Both protocols (plan-level, task-level)
// share one pattern cache: an approve_always decision inserts the request's
// derived key so future matching requests short-circuit without consulting
// the decider. Safe for concurrent use.
type Gate struct {
	decider        Decider
	titlePrefixLen int
	logger         logging.Logger

	mu       sync.RWMutex
	patterns map[string]bool
}

// NewGate constructs a Gate around the given decision source. The decider
// must be configured before the first request is resolved.
func NewGate(decider Decider, optFns ...func(o *Options)) *Gate {
	opts := Options{
		TitlePrefixLen: DefaultTitlePrefixLen,
		Logger:         logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Gate{
		decider:        decider,
		titlePrefixLen: opts.TitlePrefixLen,
		logger:         opts.Logger,
		patterns:       make(map[string]bool),
	}
}

// ApprovePlan resolves a plan-level sign-off request.
func (g *Gate) ApprovePlan(ctx context.Context, req *core.PlanApprovalRequest) (*core.ApprovalResponse, error) {
	key := g.planPatternKey(req)
	return g.resolve(ctx, "plan", key, func(ctx context.Context) (string, error) {
		return g.decider.DecidePlan(ctx, req)
	})
}

// ApproveTask resolves a task-level request for a risky capability call.
func (g *Gate) ApproveTask(ctx context.Context, req *core.TaskApprovalRequest) (*core.ApprovalResponse, error) {
	key := g.taskPatternKey(req)
	return g.resolve(ctx, "task", key, func(ctx context.Context) (string, error) {
		return g.decider.DecideTask(ctx, req)
	})
}

// resolve runs the shared resolution sequence: pattern cache lookup, decider
// callback, token parsing with deny-by-default, and approve_always learning.
func (g *Gate) resolve(ctx context.Context, protocol, key string, decide func(context.Context) (string, error)) (*core.ApprovalResponse, error) {
	start := time.Now()

	g.mu.RLock()
	cached := g.patterns[key]
	g.mu.RUnlock()

	if cached {
		g.logger.Info("approval.cached", "protocol", protocol, "pattern", key)
		return &core.ApprovalResponse{Action: core.ActionApprove, Reason: "matched approved pattern " + key}, nil
	}

	if g.decider == nil {
		return nil, fmt.Errorf("%s approval: %w", protocol, ErrNoDecider)
	}

	token, err := decide(ctx)
	if err != nil {
		// A cancelled decision resolves to stop, never to a silent approve.
		if ctx.Err() != nil {
			g.logger.Warn("approval.cancelled", "protocol", protocol, "pattern", key)
			return &core.ApprovalResponse{Action: core.ActionStop, Reason: "decision cancelled: " + ctx.Err().Error()}, nil
		}
		return nil, fmt.Errorf("%s approval: decision source failed: %w", protocol, err)
	}

	action, comment := core.ParseAction(token)
	resp := &core.ApprovalResponse{Action: action, Comment: comment}

	rawAction, _, _ := strings.Cut(token, ":")
	if action == core.ActionReject && !core.KnownAction(rawAction) {
		resp.Reason = "unrecognized approval action"
	}

	if action == core.ActionApproveAlways {
		g.mu.Lock()
		g.patterns[key] = true
		g.mu.Unlock()
		resp.Reason = "pattern " + key + " approved for the session"
	}

	g.logger.Info("approval.resolved", "protocol", protocol, "pattern", key, "action", string(action), "duration_ms", time.Since(start).Milliseconds())
	return resp, nil
}

// ApprovedPatterns returns a snapshot of the learned pattern keys.
func (g *Gate) ApprovedPatterns() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, 0, len(g.patterns))
	for k := range g.patterns {
		out = append(out, k)
	}
	return out
}

// ClearPatterns empties the pattern cache. This is the only eviction; plan
// resets never clear learned patterns.
func (g *Gate) ClearPatterns() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.patterns = make(map[string]bool)
}

// planPatternKey derives the cache key for a plan-level request: item count
// plus a bounded-length prefix of the first item's title.
func (g *Gate) planPatternKey(req *core.PlanApprovalRequest) string {
	title := ""
	if len(req.Items) > 0 {
		title = req.Items[0].Title
	}
	if runes := []rune(title); len(runes) > g.titlePrefixLen {
		title = string(runes[:g.titlePrefixLen])
	}
	return fmt.Sprintf("plan:%d:%s", len(req.Items), title)
}

// taskPatternKey derives the cache key for a task-level request: risk
// category plus risk level.
func (g *Gate) taskPatternKey(req *core.TaskApprovalRequest) string {
	category, level := "", core.RiskLow
	if req.Risk != nil {
		category = req.Risk.Category
		level = req.Risk.Level
	}
	return fmt.Sprintf("task:%s:%s", category, level)
}
