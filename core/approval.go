package core

import "strings"

// Action is the resolved outcome of an approval request.
type Action string

const (
	// ActionApprove allows the single request.
	ActionApprove Action = "approve"
	// ActionApproveAlways allows the request and caches its pattern so
	// matching future requests auto-approve.
	ActionApproveAlways Action = "approve_always"
	// ActionReject denies the request, optionally with a comment.
	ActionReject Action = "reject_with_comment"
	// ActionStop denies the request and asks the loop to halt entirely.
	ActionStop Action = "stop"
)

// IsApproval reports whether the action permits the gated operation.
func (a Action) IsApproval() bool { return a == ActionApprove || a == ActionApproveAlways }

// KnownAction reports whether s names one of the four recognized actions.
func KnownAction(s string) bool {
	switch Action(strings.ToLower(strings.TrimSpace(s))) {
	case ActionApprove, ActionApproveAlways, ActionReject, ActionStop:
		return true
	default:
		return false
	}
}

// ParseAction parses a raw decision token of the form "action" or
// "action:comment" into an action and optional free-text comment. Any
// unrecognized token resolves to ActionReject; the fail-safe default is
// always deny, never approve.
func ParseAction(token string) (Action, string) {
	raw, comment, _ := strings.Cut(token, ":")
	comment = strings.TrimSpace(comment)

	switch Action(strings.ToLower(strings.TrimSpace(raw))) {
	case ActionApprove:
		return ActionApprove, comment
	case ActionApproveAlways:
		return ActionApproveAlways, comment
	case ActionReject:
		return ActionReject, comment
	case ActionStop:
		return ActionStop, comment
	default:
		return ActionReject, comment
	}
}

// PlanApprovalRequest asks for sign-off on a whole plan before any item runs.
type PlanApprovalRequest struct {
	// Items is a snapshot of the plan's TODO list.
	Items []TodoItem `json:"items"`
	// Request is the originating user request text.
	Request string `json:"request,omitempty"`
}

// TaskApprovalRequest asks for sign-off on a single risky capability call.
type TaskApprovalRequest struct {
	ItemID      string          `json:"item_id"`
	Description string          `json:"description"`
	Risk        *RiskAssessment `json:"risk"`
	// Context carries optional extra detail for the decision source, e.g.
	// the tool name and arguments about to be executed.
	Context map[string]any `json:"context,omitempty"`
}

// ApprovalResponse is the gate's resolved decision.
type ApprovalResponse struct {
	Action Action `json:"action"`
	// Reason is a machine-oriented explanation (e.g. "cached pattern").
	Reason string `json:"reason,omitempty"`
	// Comment is free text supplied by the decision source.
	Comment string `json:"comment,omitempty"`
}
