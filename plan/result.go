package plan

import (
	"time"

	"github.com/hupe1980/taskmesh/core"
)

// Result summarizes a finished plan run. It is emitted only once every item
// reached a terminal status.
type Result struct {
	// Completed is the number of items that finished successfully.
	Completed int
	// Failed is the number of items that ended in a terminal failure.
	Failed int
	// Items is a snapshot of all items in plan order.
	Items []core.TodoItem
	// Duration covers the whole run including approval round-trips.
	Duration time.Duration
}

// Success reports whether every item completed.
func (r *Result) Success() bool { return r.Failed == 0 }

func newResult(items []core.TodoItem, dur time.Duration) *Result {
	res := &Result{Items: items, Duration: dur}
	for _, it := range items {
		switch it.Status {
		case core.StatusCompleted:
			res.Completed++
		case core.StatusFailed:
			res.Failed++
		}
	}
	return res
}
