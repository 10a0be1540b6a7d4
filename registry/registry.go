package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hupe1980/taskmesh/logging"
	"github.com/hupe1980/taskmesh/tool"
)

// ErrGroupNotFound is returned when enable/disable/toggle names an unknown
// group id.
var ErrGroupNotFound = errors.New("tool group not found")

// Options configures a Registry instance.
type Options struct {
	// Logger provides structured logging. Defaults to NoOp if nil.
	Logger logging.Logger
}

// Registry tracks which named tools are currently invocable. Tools registered
// directly are core (always-on); tools registered through a group are
// optional and appear only while their group is enabled.
//
// All methods are safe for concurrent use. Group enable/disable mutates the
// store, the category index and the active set under a single lock
// acquisition, so readers never observe a half-applied transition.
type Registry struct {
	mu sync.RWMutex

	tools      map[string]tool.Tool
	categories map[string]map[string]bool // category -> tool name set
	coreNames  map[string]bool            // names registered as always-on
	optional   map[string]bool            // names of currently active group tools
	groups     map[string]*Group
	enabled    map[string]bool // group id -> enabled flag

	logger logging.Logger
}

// New constructs an empty Registry.
func New(optFns ...func(o *Options)) *Registry {
	opts := Options{Logger: logging.NoOpLogger{}}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Registry{
		tools:      make(map[string]tool.Tool),
		categories: make(map[string]map[string]bool),
		coreNames:  make(map[string]bool),
		optional:   make(map[string]bool),
		groups:     make(map[string]*Group),
		enabled:    make(map[string]bool),
		logger:     opts.Logger,
	}
}

// Register inserts a core (always-on) tool by name with overwrite semantics:
// the last registration wins and the category index reflects only the latest
// tool's categories.
func (r *Registry) Register(t tool.Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registerLocked(t)
	r.coreNames[t.Name()] = true
	delete(r.optional, t.Name())
}

// RegisterAll registers every tool in order.
func (r *Registry) RegisterAll(tools ...tool.Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range tools {
		r.registerLocked(t)
		r.coreNames[t.Name()] = true
		delete(r.optional, t.Name())
	}
}

// registerLocked stores the tool and rebuilds its category index entries.
// Caller must hold the write lock.
func (r *Registry) registerLocked(t tool.Tool) {
	name := t.Name()
	r.removeFromCategoriesLocked(name)
	r.tools[name] = t
	for _, cat := range t.Categories() {
		if r.categories[cat] == nil {
			r.categories[cat] = make(map[string]bool)
		}
		r.categories[cat][name] = true
	}
	r.logger.Debug("registry.tool.registered", "tool", name, "categories", t.Categories())
}

// removeFromCategoriesLocked drops the name from every category index.
// Caller must hold the write lock.
func (r *Registry) removeFromCategoriesLocked(name string) {
	for cat, names := range r.categories {
		delete(names, name)
		if len(names) == 0 {
			delete(r.categories, cat)
		}
	}
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (tool.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Has reports whether a tool is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[name]
	return ok
}

// ByCategory returns the tools currently indexed under the category. Names
// whose tool entry is absent are filtered out, keeping the lookup defensive
// against index/store divergence.
func (r *Registry) ByCategory(category string) []tool.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names, ok := r.categories[category]
	if !ok {
		return nil
	}
	out := make([]tool.Tool, 0, len(names))
	for name := range names {
		if t, exists := r.tools[name]; exists {
			out = append(out, t)
		}
	}
	return out
}

// RegisterGroup makes a group known to the registry without activating it.
// Registering a group id twice replaces the earlier definition.
func (r *Registry) RegisterGroup(g *Group) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups[g.ID] = g
	if _, ok := r.enabled[g.ID]; !ok {
		r.enabled[g.ID] = false
	}
}

// Group returns the group definition for id.
func (r *Registry) Group(id string) (*Group, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.groups[id]
	return g, ok
}

// GroupEnabled reports whether the group is currently active.
func (r *Registry) GroupEnabled(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled[id]
}

// EnableGroup activates the group: the validation hook runs first and a hook
// failure aborts the activation without registering anything. On success
// every member tool is registered and recorded as optional-active.
// Re-enabling an already-enabled group is a no-op.
func (r *Registry) EnableGroup(ctx context.Context, id string) error {
	r.mu.RLock()
	g, ok := r.groups[id]
	alreadyEnabled := r.enabled[id]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, id)
	}
	if alreadyEnabled {
		return nil
	}

	// The validation hook may be slow (network, external process); run it
	// outside the lock so unrelated readers are not blocked.
	if g.OnEnable != nil {
		if err := g.OnEnable(ctx); err != nil {
			r.logger.Warn("registry.group.enable_failed", "group", id, "error", err.Error())
			return fmt.Errorf("enable group %s: validation failed: %w", id, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.enabled[id] { // raced with a concurrent enable
		return nil
	}
	for _, t := range g.Tools {
		r.registerLocked(t)
		r.optional[t.Name()] = true
		delete(r.coreNames, t.Name())
	}
	r.enabled[id] = true
	r.logger.Info("registry.group.enabled", "group", id, "tools", len(g.Tools))
	return nil
}

// DisableGroup unconditionally deactivates the group, removing every member
// tool from the store and from every category index. The cleanup hook then
// runs best-effort in a separate goroutine; its error is discarded and never
// reverts the disable.
func (r *Registry) DisableGroup(ctx context.Context, id string) error {
	r.mu.Lock()
	g, ok := r.groups[id]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrGroupNotFound, id)
	}
	r.enabled[id] = false
	for _, t := range g.Tools {
		name := t.Name()
		delete(r.tools, name)
		delete(r.optional, name)
		r.removeFromCategoriesLocked(name)
	}
	r.mu.Unlock()

	r.logger.Info("registry.group.disabled", "group", id)

	if g.OnDisable != nil {
		go func() {
			if err := g.OnDisable(ctx); err != nil {
				r.logger.Debug("registry.group.cleanup_error", "group", id, "error", err.Error())
			}
		}()
	}
	return nil
}

// ToggleGroup enables the group when disabled and disables it when enabled.
// It returns the resulting enabled state.
func (r *Registry) ToggleGroup(ctx context.Context, id string) (bool, error) {
	r.mu.RLock()
	_, ok := r.groups[id]
	enabled := r.enabled[id]
	r.mu.RUnlock()

	if !ok {
		return false, fmt.Errorf("%w: %s", ErrGroupNotFound, id)
	}
	if enabled {
		return false, r.DisableGroup(ctx, id)
	}
	if err := r.EnableGroup(ctx, id); err != nil {
		return false, err
	}
	return true, nil
}

// Stats summarizes the registry contents for host UIs.
type Stats struct {
	// TotalTools is the number of currently invocable tools.
	TotalTools int `json:"total_tools"`
	// CoreTools counts the always-on tools.
	CoreTools int `json:"core_tools"`
	// OptionalTools counts tools of currently enabled groups.
	OptionalTools int `json:"optional_tools"`
	// ByCategory maps each category to its current tool count.
	ByCategory map[string]int `json:"by_category"`
}

// Stats returns a consistent snapshot of tool counts.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := Stats{
		TotalTools: len(r.tools),
		ByCategory: make(map[string]int, len(r.categories)),
	}
	for name := range r.tools {
		if r.coreNames[name] {
			s.CoreTools++
		}
		if r.optional[name] {
			s.OptionalTools++
		}
	}
	for cat, names := range r.categories {
		count := 0
		for name := range names {
			if _, exists := r.tools[name]; exists {
				count++
			}
		}
		if count > 0 {
			s.ByCategory[cat] = count
		}
	}
	return s
}
