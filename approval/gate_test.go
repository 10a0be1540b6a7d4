package approval

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/taskmesh/core"
)

func planDecider(answers ...string) (Decider, *int) {
	calls := 0
	return DeciderFunc{
		Plan: func(context.Context, *core.PlanApprovalRequest) (string, error) {
			answer := answers[calls]
			calls++
			return answer, nil
		},
	}, &calls
}

func planReq(titles ...string) *core.PlanApprovalRequest {
	items := make([]core.TodoItem, 0, len(titles))
	for _, title := range titles {
		items = append(items, core.NewTodoItem(title, title).Clone())
	}
	return &core.PlanApprovalRequest{Items: items, Request: "demo"}
}

func TestGate_Approve(t *testing.T) {
	d, calls := planDecider("approve")
	g := NewGate(d)

	resp, err := g.ApprovePlan(context.Background(), planReq("write report"))
	assert.NoError(t, err)
	assert.Equal(t, core.ActionApprove, resp.Action)
	assert.Equal(t, 1, *calls)
	assert.Empty(t, g.ApprovedPatterns())
}

func TestGate_ApproveAlwaysCachesPattern(t *testing.T) {
	d, calls := planDecider("approve_always")
	g := NewGate(d)

	resp, err := g.ApprovePlan(context.Background(), planReq("write report"))
	assert.NoError(t, err)
	assert.Equal(t, core.ActionApproveAlways, resp.Action)
	assert.Len(t, g.ApprovedPatterns(), 1)

	// The second structurally identical request never reaches the decider
	resp, err = g.ApprovePlan(context.Background(), planReq("write report"))
	assert.NoError(t, err)
	assert.Equal(t, core.ActionApprove, resp.Action)
	assert.Contains(t, resp.Reason, "matched approved pattern")
	assert.Equal(t, 1, *calls)
}

func TestGate_PatternKeyUsesItemCountAndTitlePrefix(t *testing.T) {
	d, calls := planDecider("approve_always", "approve")
	g := NewGate(d)

	_, err := g.ApprovePlan(context.Background(), planReq("write report"))
	assert.NoError(t, err)

	// Same title but different item count is a different pattern
	_, err = g.ApprovePlan(context.Background(), planReq("write report", "review report"))
	assert.NoError(t, err)
	assert.Equal(t, 2, *calls)
}

func TestGate_PatternKeyCollision(t *testing.T) {
	// Titles sharing the first 20 runes and item count collide: the second
	// plan is auto-approved from the first plan's approve_always.
	d, calls := planDecider("approve_always")
	g := NewGate(d)

	_, err := g.ApprovePlan(context.Background(), planReq("write annual report for finance"))
	assert.NoError(t, err)

	resp, err := g.ApprovePlan(context.Background(), planReq("write annual report for marketing"))
	assert.NoError(t, err)
	assert.Equal(t, core.ActionApprove, resp.Action)
	assert.Equal(t, 1, *calls)
}

func TestGate_RejectWithComment(t *testing.T) {
	d, _ := planDecider("reject_with_comment:too risky")
	g := NewGate(d)

	resp, err := g.ApprovePlan(context.Background(), planReq("wipe database"))
	assert.NoError(t, err)
	assert.Equal(t, core.ActionReject, resp.Action)
	assert.Equal(t, "too risky", resp.Comment)
	assert.Empty(t, g.ApprovedPatterns())
}

func TestGate_UnknownTokenRejects(t *testing.T) {
	d, _ := planDecider("sure, go ahead")
	g := NewGate(d)

	resp, err := g.ApprovePlan(context.Background(), planReq("a"))
	assert.NoError(t, err)
	assert.Equal(t, core.ActionReject, resp.Action)
	assert.Equal(t, "unrecognized approval action", resp.Reason)
}

func TestGate_CancelledDecisionStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	d := DeciderFunc{
		Plan: func(ctx context.Context, _ *core.PlanApprovalRequest) (string, error) {
			cancel()
			return "", ctx.Err()
		},
	}
	g := NewGate(d)

	resp, err := g.ApprovePlan(ctx, planReq("a"))
	assert.NoError(t, err)
	assert.Equal(t, core.ActionStop, resp.Action)
}

func TestGate_DeciderFailure(t *testing.T) {
	d := DeciderFunc{
		Plan: func(context.Context, *core.PlanApprovalRequest) (string, error) {
			return "", errors.New("ui crashed")
		},
	}
	g := NewGate(d)

	_, err := g.ApprovePlan(context.Background(), planReq("a"))
	assert.Error(t, err)
}

func TestGate_NoDecider(t *testing.T) {
	g := NewGate(nil)

	_, err := g.ApprovePlan(context.Background(), planReq("a"))
	assert.ErrorIs(t, err, ErrNoDecider)
}

func TestGate_TaskPatternCache(t *testing.T) {
	calls := 0
	d := DeciderFunc{
		Task: func(context.Context, *core.TaskApprovalRequest) (string, error) {
			calls++
			return "approve_always", nil
		},
	}
	g := NewGate(d)

	req := &core.TaskApprovalRequest{
		ItemID:      "item-1",
		Description: "delete the scratch file",
		Risk:        &core.RiskAssessment{Category: "file-deletion", Level: core.RiskMedium},
	}

	resp, err := g.ApproveTask(context.Background(), req)
	assert.NoError(t, err)
	assert.Equal(t, core.ActionApproveAlways, resp.Action)

	// Same category and level short-circuits regardless of the item
	other := &core.TaskApprovalRequest{
		ItemID:      "item-2",
		Description: "delete another file",
		Risk:        &core.RiskAssessment{Category: "file-deletion", Level: core.RiskMedium},
	}
	resp, err = g.ApproveTask(context.Background(), other)
	assert.NoError(t, err)
	assert.Equal(t, core.ActionApprove, resp.Action)
	assert.Equal(t, 1, calls)

	// A different level is a different pattern
	higher := &core.TaskApprovalRequest{
		ItemID:      "item-3",
		Description: "delete the system dir",
		Risk:        &core.RiskAssessment{Category: "file-deletion", Level: core.RiskHigh},
	}
	_, err = g.ApproveTask(context.Background(), higher)
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestGate_ClearPatterns(t *testing.T) {
	d, calls := planDecider("approve_always", "approve")
	g := NewGate(d)

	_, err := g.ApprovePlan(context.Background(), planReq("a"))
	assert.NoError(t, err)
	assert.Len(t, g.ApprovedPatterns(), 1)

	g.ClearPatterns()
	assert.Empty(t, g.ApprovedPatterns())

	_, err = g.ApprovePlan(context.Background(), planReq("a"))
	assert.NoError(t, err)
	assert.Equal(t, 2, *calls)
}
