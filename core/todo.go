package core

import (
	"fmt"
	"sync"
	"time"
)

// Status represents the lifecycle state of a TodoItem.
//
// Valid transitions: pending → in_progress → {completed | failed}. Completed
// and failed are terminal; the only way out of a terminal state is an
// explicit Reset of the whole plan.
type Status string

const (
	// StatusPending marks an item that has not been picked up yet.
	StatusPending Status = "pending"
	// StatusInProgress marks the single item currently being driven.
	StatusInProgress Status = "in_progress"
	// StatusCompleted marks an item whose capability call succeeded.
	StatusCompleted Status = "completed"
	// StatusFailed marks an item that exhausted its attempts or was rejected.
	StatusFailed Status = "failed"
)

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool { return s == StatusCompleted || s == StatusFailed }

// TodoItem is one unit of work tracked by the execute loop.
//
// Items are created when a plan is approved and mutated only by the loop.
// SkillName optionally pins a catalog skill by name; Specialized flags the
// item as high-complexity / behavior-changing so the loop consults the skill
// matcher. Error carries a human-readable failure description once the item
// is failed.
type TodoItem struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      Status     `json:"status"`
	SkillName   string     `json:"skill_name,omitempty"`
	Specialized bool       `json:"specialized,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// NewTodoItem creates a pending item with a generated ID.
func NewTodoItem(title, description string) *TodoItem {
	return &TodoItem{ID: NewID(), Title: title, Description: description, Status: StatusPending}
}

// MarkInProgress transitions a pending item to in_progress recording the
// start timestamp. Returns an error on any other starting state.
func (t *TodoItem) MarkInProgress() error {
	if t.Status != StatusPending {
		return fmt.Errorf("todo %s: cannot start from status %q", t.ID, t.Status)
	}
	now := time.Now().UTC()
	t.Status = StatusInProgress
	t.StartedAt = &now
	return nil
}

// MarkCompleted transitions an in_progress item to completed recording the
// completion timestamp.
func (t *TodoItem) MarkCompleted() error {
	if t.Status != StatusInProgress {
		return fmt.Errorf("todo %s: cannot complete from status %q", t.ID, t.Status)
	}
	now := time.Now().UTC()
	t.Status = StatusCompleted
	t.CompletedAt = &now
	return nil
}

// MarkFailed transitions a pending or in_progress item to failed with a
// human-readable reason.
func (t *TodoItem) MarkFailed(reason string) error {
	if t.Status.IsTerminal() {
		return fmt.Errorf("todo %s: cannot fail from status %q", t.ID, t.Status)
	}
	now := time.Now().UTC()
	t.Status = StatusFailed
	t.CompletedAt = &now
	t.Error = reason
	return nil
}

// Clone returns a copy of the item safe for handing to external consumers.
func (t *TodoItem) Clone() TodoItem {
	c := *t
	if t.StartedAt != nil {
		ts := *t.StartedAt
		c.StartedAt = &ts
	}
	if t.CompletedAt != nil {
		ts := *t.CompletedAt
		c.CompletedAt = &ts
	}
	return c
}

// Plan is an ordered list of TODO items plus the originating request text.
// It is safe for concurrent access; the execute loop is the only writer of
// item state but external observers may snapshot concurrently.
type Plan struct {
	ID      string
	Request string

	mu    sync.RWMutex
	items []*TodoItem
}

// NewPlan creates a plan with a generated ID owning the provided items.
func NewPlan(request string, items ...*TodoItem) *Plan {
	return &Plan{ID: NewID(), Request: request, items: items}
}

// Len returns the number of items in the plan.
func (p *Plan) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.items)
}

// Active returns the item currently in_progress, or the first pending item
// if none is in flight, or nil when every item is terminal.
func (p *Plan) Active() *TodoItem {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, it := range p.items {
		if it.Status == StatusInProgress {
			return it
		}
	}
	for _, it := range p.items {
		if it.Status == StatusPending {
			return it
		}
	}
	return nil
}

// Items returns a defensive snapshot of all items in plan order.
func (p *Plan) Items() []TodoItem {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]TodoItem, 0, len(p.items))
	for _, it := range p.items {
		out = append(out, it.Clone())
	}
	return out
}

// Update runs fn against the live item with the given id under the plan
// lock. It is the mutation point used by the execute loop.
func (p *Plan) Update(id string, fn func(*TodoItem) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, it := range p.items {
		if it.ID == id {
			return fn(it)
		}
	}
	return fmt.Errorf("todo %s: not found in plan %s", id, p.ID)
}

// Terminal reports whether every item reached a terminal status.
func (p *Plan) Terminal() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, it := range p.items {
		if !it.Status.IsTerminal() {
			return false
		}
	}
	return true
}

// Reset returns every item to pending, clearing timestamps and errors. It is
// the only transition out of a terminal item state and always applies to the
// whole plan.
func (p *Plan) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, it := range p.items {
		it.Status = StatusPending
		it.StartedAt = nil
		it.CompletedAt = nil
		it.Error = ""
	}
}
