// Package plan implements the execute loop that drives a TODO plan to
// completion: sequential item processing, skill modulation of the execution
// context, risk-gated capability calls, bounded retries with identical
// failure detection, a stagnation guard and failure isolation so one failed
// item never aborts the rest of the plan.
package plan
