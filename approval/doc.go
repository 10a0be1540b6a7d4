// Package approval implements the approval gate: it resolves approve/reject
// decisions for plan-level and task-level requests against a host-supplied
// decision source, with a learned cache of auto-approved patterns.
//
// The pattern cache is deliberately independent of plan resets: "approve
// this pattern forever" persists across multiple plans within a session and
// only an explicit ClearPatterns empties it.
package approval
