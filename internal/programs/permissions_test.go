package programs

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var allStatuses = []Status{
	StatusDraft, StatusSubmitted, StatusQueried, StatusAnsweredQuery,
	StatusApproved, StatusMMKAccepted, StatusPaymentInProgress,
	StatusPaymentCompleted, StatusRejected,
}

var allRoles = []Role{RoleUser, RoleFinance, RoleFinanceMMK, RoleAdmin}

// expectedPermission restates the authorization table independently of
// the implementation so the cartesian sweep below catches drift in
// either direction. The table answers role and ownership only; status
// legality belongs to the transition table.
func expectedPermission(role Role, action Action, isOwner bool) bool {
	switch role {
	case RoleUser:
		switch action {
		case ActionCreate:
			return true
		case ActionEdit, ActionDelete, ActionSubmit, ActionAnswerQuery,
			ActionAttachDocument, ActionViewOwn:
			return isOwner
		}
	case RoleFinance:
		switch action {
		case ActionQuery, ActionApprove, ActionReject, ActionDeductBudget,
			ActionAttachDocument, ActionViewAll:
			return true
		}
	case RoleFinanceMMK:
		switch action {
		case ActionQuery, ActionApprove, ActionReject, ActionDeductBudget,
			ActionAcceptDocument, ActionAttachDocument, ActionViewAll:
			return true
		}
	case RoleAdmin:
		return action == ActionViewAll
	}
	return false
}

func TestCanPerformDenyByDefault(t *testing.T) {
	ownerID := uuid.New()
	strangerID := uuid.New()

	// The status and pending-query dimensions stay in the sweep to pin
	// down that CanPerform ignores both.
	for _, role := range allRoles {
		for _, action := range Actions {
			for _, status := range allStatuses {
				for _, isOwner := range []bool{true, false} {
					for _, hasPending := range []bool{true, false} {
						program := &Program{
							ID:     uuid.New(),
							UserID: ownerID,
							Status: status,
						}
						if hasPending {
							program.Queries = []ProgramQuery{
								{ID: uuid.New(), Status: QueryPending},
							}
						}
						actorID := strangerID
						if isOwner {
							actorID = ownerID
						}
						actor := Actor{ID: actorID, Role: role}

						want := expectedPermission(role, action, isOwner)
						got := CanPerform(actor, action, program)
						assert.Equal(t, want, got, fmt.Sprintf(
							"role=%s action=%s status=%s owner=%v pending=%v",
							role, action, status, isOwner, hasPending))
					}
				}
			}
		}
	}
}

func TestCanPerformUnknownRoleDenied(t *testing.T) {
	program := &Program{ID: uuid.New(), Status: StatusSubmitted}
	actor := Actor{ID: uuid.New(), Role: Role("superuser")}
	for _, action := range Actions {
		assert.False(t, CanPerform(actor, action, program), "action=%s", action)
	}
}

func TestCanPerformNilProgram(t *testing.T) {
	actor := Actor{ID: uuid.New(), Role: RoleUser}
	assert.True(t, CanPerform(actor, ActionCreate, nil))
	assert.False(t, CanPerform(actor, ActionSubmit, nil))
	assert.False(t, CanPerform(Actor{Role: RoleFinance}, ActionApprove, nil))
}

func TestCanView(t *testing.T) {
	ownerID := uuid.New()
	program := &Program{ID: uuid.New(), UserID: ownerID, Status: StatusSubmitted}

	assert.True(t, CanView(Actor{ID: ownerID, Role: RoleUser}, program))
	assert.False(t, CanView(Actor{ID: uuid.New(), Role: RoleUser}, program))
	assert.True(t, CanView(Actor{ID: uuid.New(), Role: RoleFinance}, program))
	assert.True(t, CanView(Actor{ID: uuid.New(), Role: RoleFinanceMMK}, program))
	assert.True(t, CanView(Actor{ID: uuid.New(), Role: RoleAdmin}, program))
}
