package skill

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/hupe1980/taskmesh/core"
	"github.com/hupe1980/taskmesh/logging"
)

// NoneSentinel is the answer a Matcher returns when no catalog skill fits.
const NoneSentinel = "none"

// ErrSkillPersist wraps a store failure during runtime registration. The
// registration itself remains effective; the error only reports that the
// skill was not persisted.
var ErrSkillPersist = errors.New("skill persistence failed")

// Ref is a minimal catalog reference presented to a Matcher.
type Ref struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Task describes the work a skill is being resolved for.
type Task struct {
	// Name optionally pins a catalog skill explicitly.
	Name string
	// Description is the free-text task description fed to the matcher.
	Description string
	// Specialized flags a high-complexity / behavior-changing / meta task
	// for which the matcher should be consulted.
	Specialized bool
}

// Matcher is the external decision function for skill matching. Given a task
// description and the catalog as name/description pairs it must answer with
// exactly one catalog name or the "none" sentinel; any other answer is
// treated as "none".
type Matcher interface {
	Match(ctx context.Context, taskDescription string, refs []Ref) (string, error)
}

// MatcherFunc adapts a plain function to the Matcher interface.
type MatcherFunc func(ctx context.Context, taskDescription string, refs []Ref) (string, error)

// Match implements Matcher.
func (f MatcherFunc) Match(ctx context.Context, taskDescription string, refs []Ref) (string, error) {
	return f(ctx, taskDescription, refs)
}

// Options configures a Catalog.
type Options struct {
	// Store optionally persists skill records. Records loaded at
	// construction override built-in skills with the same name.
	Store Store
	// Matcher is the external skill-matching function consulted for
	// specialized tasks without an explicit skill name.
	Matcher Matcher
	// Builtins replaces the default built-in skill set when non-nil.
	Builtins []core.Skill
	// Logger provides structured logging. Defaults to NoOp if nil.
	Logger logging.Logger
}

// Catalog holds the available skills and resolves tasks onto them. Safe for
// concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	skills  map[string]core.Skill
	store   Store
	matcher Matcher
	logger  logging.Logger
}

// NewCatalog builds a catalog: built-in skills first, then any persisted
// records layered over them (same name overrides the built-in default).
func NewCatalog(ctx context.Context, optFns ...func(o *Options)) (*Catalog, error) {
	opts := Options{
		Builtins: Builtins(),
		Logger:   logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	c := &Catalog{
		skills:  make(map[string]core.Skill, len(opts.Builtins)),
		store:   opts.Store,
		matcher: opts.Matcher,
		logger:  opts.Logger,
	}

	for _, s := range opts.Builtins {
		c.skills[s.Name] = s
	}

	if c.store != nil {
		persisted, err := c.store.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load persisted skills: %w", err)
		}
		for _, s := range persisted {
			c.skills[s.Name] = s
			c.logger.Debug("skill.catalog.loaded", "skill", s.Name)
		}
	}

	return c, nil
}

// Get returns the skill registered under name.
func (c *Catalog) Get(name string) (core.Skill, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.skills[name]
	return s, ok
}

// Refs returns the catalog as name/description pairs sorted by name, the
// shape presented to a Matcher.
func (c *Catalog) Refs() []Ref {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Ref, 0, len(c.skills))
	for _, s := range c.skills {
		out = append(out, Ref{Name: s.Name, Description: s.Description})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Register adds (or replaces) a skill at runtime and best-effort persists it.
// A persistence failure is reported via ErrSkillPersist but does not undo the
// registration: the skill is usable for the rest of the process lifetime.
func (c *Catalog) Register(ctx context.Context, s core.Skill) error {
	if err := validateName(s.Name); err != nil {
		return fmt.Errorf("register skill: %w", err)
	}

	c.mu.Lock()
	c.skills[s.Name] = s
	c.mu.Unlock()

	c.logger.Info("skill.catalog.registered", "skill", s.Name)

	if c.store == nil {
		return nil
	}
	if err := c.store.Save(ctx, s); err != nil {
		c.logger.Warn("skill.catalog.persist_failed", "skill", s.Name, "error", err.Error())
		return fmt.Errorf("%w: %s: %v", ErrSkillPersist, s.Name, err)
	}
	return nil
}

// Resolve maps a task onto a skill. An explicitly named, known skill wins.
// Otherwise the matcher is consulted only for specialized tasks; its answer
// must be exactly one catalog name; "none" or anything unrecognized yields
// no skill, letting the default context flow through unchanged.
func (c *Catalog) Resolve(ctx context.Context, task Task) (*core.Skill, error) {
	if task.Name != "" {
		if s, ok := c.Get(task.Name); ok {
			return &s, nil
		}
		c.logger.Warn("skill.catalog.unknown_name", "skill", task.Name)
		return nil, nil
	}

	if !task.Specialized || c.matcher == nil {
		return nil, nil
	}

	answer, err := c.matcher.Match(ctx, task.Description, c.Refs())
	if err != nil {
		return nil, fmt.Errorf("skill match: %w", err)
	}

	answer = strings.TrimSpace(strings.ToLower(answer))
	if answer == "" || answer == NoneSentinel {
		return nil, nil
	}
	if s, ok := c.Get(answer); ok {
		return &s, nil
	}

	c.logger.Debug("skill.catalog.match_ignored", "answer", answer)
	return nil, nil
}

// validateName enforces lowercase kebab-case skill names, 1-64 characters.
func validateName(name string) error {
	if len(name) == 0 || len(name) > 64 {
		return fmt.Errorf("skill name must be 1-64 characters")
	}
	if strings.HasPrefix(name, "-") || strings.HasSuffix(name, "-") {
		return fmt.Errorf("skill name cannot start or end with hyphen")
	}
	if strings.Contains(name, "--") {
		return fmt.Errorf("skill name cannot contain consecutive hyphens")
	}
	for _, r := range name {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return fmt.Errorf("skill name can only contain lowercase letters, numbers, and hyphens")
		}
	}
	return nil
}
