// Package taskmesh provides a high-level façade over the plan executor and
// its collaborators (capability registry, approval gate, skill catalog &
// logging) enabling rapid construction of supervised task-execution systems.
// Most applications interact with this package by:
//  1. Creating a TaskMesh via New() with a planner and an approval decider
//  2. Registering core tools and optional capability groups
//  3. Building a plan and running it via ExecutePlan
//
// The façade delegates orchestration to plan.Executor while keeping setup and
// usage ergonomics concise. All defaults are safe for local development and
// testing; production deployments typically supply a persistent skill store
// and a structured logger.
package taskmesh

import (
	"context"

	"github.com/hupe1980/taskmesh/approval"
	"github.com/hupe1980/taskmesh/core"
	"github.com/hupe1980/taskmesh/logging"
	"github.com/hupe1980/taskmesh/plan"
	"github.com/hupe1980/taskmesh/registry"
	"github.com/hupe1980/taskmesh/skill"
	"github.com/hupe1980/taskmesh/tool"
)

// Options configures the TaskMesh instance.
type Options struct {
	// MaxAttempts is the per-item capability invocation budget.
	MaxAttempts int

	// MaxStagnantSteps bounds consecutive loop steps without progress
	// before the active item is force-failed.
	MaxStagnantSteps int

	// BaseContext is the execution context items start from before skill
	// modulation. A minimal default is used when nil.
	BaseContext *core.ExecutionContext

	// SkillStore persists runtime-registered skills (defaults to an
	// in-memory implementation if not provided).
	SkillStore skill.Store

	// SkillMatcher is the external decision function consulted for
	// specialized items without an explicit skill name. Optional.
	SkillMatcher skill.Matcher

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// TaskMesh is the high-level façade aggregating the executor and its services.
type TaskMesh struct {
	opts     Options
	registry *registry.Registry
	gate     *approval.Gate
	catalog  *skill.Catalog
	executor *plan.Executor
}

// New creates a new TaskMesh instance with optional overrides. Any unset
// service is initialized with an in-memory implementation.
func New(ctx context.Context, planner plan.Planner, decider approval.Decider, optFns ...func(o *Options)) (*TaskMesh, error) {
	opts := Options{
		MaxAttempts:      plan.DefaultMaxAttempts,
		MaxStagnantSteps: plan.DefaultMaxStagnantSteps,
		SkillStore:       skill.NewInMemoryStore(),
		Logger:           logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	catalog, err := skill.NewCatalog(ctx, func(o *skill.Options) {
		o.Store = opts.SkillStore
		o.Matcher = opts.SkillMatcher
		o.Logger = opts.Logger
	})
	if err != nil {
		return nil, err
	}

	reg := registry.New(func(o *registry.Options) {
		o.Logger = opts.Logger
	})

	gate := approval.NewGate(decider, func(o *approval.Options) {
		o.Logger = opts.Logger
	})

	executor := plan.NewExecutor(reg, gate, planner, func(o *plan.Options) {
		o.MaxAttempts = opts.MaxAttempts
		o.MaxStagnantSteps = opts.MaxStagnantSteps
		o.BaseContext = opts.BaseContext
		o.Catalog = catalog
		o.Logger = opts.Logger
	})

	return &TaskMesh{
		opts:     opts,
		registry: reg,
		gate:     gate,
		catalog:  catalog,
		executor: executor,
	}, nil
}

// Registry exposes the capability registry for tool and group registration.
func (m *TaskMesh) Registry() *registry.Registry { return m.registry }

// Gate exposes the approval gate, e.g. to inspect or clear cached patterns.
func (m *TaskMesh) Gate() *approval.Gate { return m.gate }

// Skills exposes the skill catalog for runtime registration and lookup.
func (m *TaskMesh) Skills() *skill.Catalog { return m.catalog }

// Executor exposes the underlying plan executor.
func (m *TaskMesh) Executor() *plan.Executor { return m.executor }

// RegisterTools adds always-on core tools to the registry.
func (m *TaskMesh) RegisterTools(tools ...tool.Tool) {
	m.registry.RegisterAll(tools...)
}

// ExecutePlan builds a plan from the request and item titles and runs it to
// completion.
func (m *TaskMesh) ExecutePlan(ctx context.Context, request string, titles ...string) (*plan.Result, error) {
	items := make([]*core.TodoItem, 0, len(titles))
	for _, title := range titles {
		items = append(items, core.NewTodoItem(title, title))
	}
	return m.executor.Execute(ctx, core.NewPlan(request, items...))
}

// Execute runs a pre-built plan to completion.
func (m *TaskMesh) Execute(ctx context.Context, p *core.Plan) (*plan.Result, error) {
	return m.executor.Execute(ctx, p)
}

// Stop aborts the run in flight before its next step.
func (m *TaskMesh) Stop() { m.executor.Stop() }

// Stats reports registry composition.
func (m *TaskMesh) Stats() registry.Stats { return m.registry.Stats() }
