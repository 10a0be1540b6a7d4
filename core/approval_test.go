package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		action  Action
		comment string
	}{
		{"plain approve", "approve", ActionApprove, ""},
		{"approve always", "approve_always", ActionApproveAlways, ""},
		{"stop", "stop", ActionStop, ""},
		{"reject with comment", "reject_with_comment:too risky", ActionReject, "too risky"},
		{"approve with comment", "approve:looks fine", ActionApprove, "looks fine"},
		{"mixed case and padding", "  APPROVE  ", ActionApprove, ""},
		{"unknown token rejects", "yes", ActionReject, ""},
		{"empty token rejects", "", ActionReject, ""},
		{"garbage with comment rejects", "maybe:later", ActionReject, "later"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, comment := ParseAction(tt.token)
			assert.Equal(t, tt.action, action)
			assert.Equal(t, tt.comment, comment)
		})
	}
}

func TestAction_IsApproval(t *testing.T) {
	assert.True(t, ActionApprove.IsApproval())
	assert.True(t, ActionApproveAlways.IsApproval())
	assert.False(t, ActionReject.IsApproval())
	assert.False(t, ActionStop.IsApproval())
}

func TestKnownAction(t *testing.T) {
	assert.True(t, KnownAction("approve"))
	assert.True(t, KnownAction(" STOP "))
	assert.False(t, KnownAction("yes"))
	assert.False(t, KnownAction(""))
}
