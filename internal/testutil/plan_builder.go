package testutil

import (
	"github.com/hupe1980/taskmesh/core"
)

// PlanBuilder helps construct plans with fluent chaining for tests.
// Example:
//
//	p := NewPlanBuilder("write report").Item("draft").Item("review").Build()
type PlanBuilder struct {
	request string
	items   []*core.TodoItem
}

// NewPlanBuilder creates a new builder for a plan with the given request text.
// Use chainable methods (Item, SkilledItem, SpecializedItem) then call Build.
func NewPlanBuilder(request string) *PlanBuilder {
	return &PlanBuilder{request: request}
}

// Item appends a plain pending item titled and described by title (chainable).
func (b *PlanBuilder) Item(title string) *PlanBuilder {
	b.items = append(b.items, core.NewTodoItem(title, title))
	return b
}

// SkilledItem appends a pending item pinned to a skill by name (chainable).
func (b *PlanBuilder) SkilledItem(title, skillName string) *PlanBuilder {
	it := core.NewTodoItem(title, title)
	it.SkillName = skillName
	b.items = append(b.items, it)
	return b
}

// SpecializedItem appends a pending item flagged for skill matching (chainable).
func (b *PlanBuilder) SpecializedItem(title, description string) *PlanBuilder {
	it := core.NewTodoItem(title, description)
	it.Specialized = true
	b.items = append(b.items, it)
	return b
}

// Build returns a *core.Plan owning the accumulated items.
func (b *PlanBuilder) Build() *core.Plan {
	return core.NewPlan(b.request, b.items...)
}
