package programs

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	for _, s := range forwardPath {
		parsed, err := ParseStatus(string(s))
		assert.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
	parsed, err := ParseStatus("rejected")
	assert.NoError(t, err)
	assert.Equal(t, StatusRejected, parsed)
}

func TestParseStatusRejectsUnknownValues(t *testing.T) {
	for _, raw := range []string{"", "DRAFT", "pending", "complete", "Approved"} {
		_, err := ParseStatus(raw)
		assert.ErrorIs(t, err, ErrUnknownStatus, "raw=%q", raw)
	}
}

func TestPrecedes(t *testing.T) {
	assert.True(t, Precedes(StatusDraft, StatusSubmitted))
	assert.True(t, Precedes(StatusSubmitted, StatusPaymentCompleted))
	assert.True(t, Precedes(StatusQueried, StatusAnsweredQuery))
	assert.False(t, Precedes(StatusApproved, StatusApproved))
	assert.False(t, Precedes(StatusApproved, StatusSubmitted))

	// Rejected is outside the forward order entirely.
	for _, s := range forwardPath {
		assert.False(t, Precedes(StatusRejected, s))
		assert.False(t, Precedes(s, StatusRejected))
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, StatusRejected.IsTerminal())
	assert.True(t, StatusPaymentCompleted.IsTerminal())
	for _, s := range forwardPath[:len(forwardPath)-1] {
		assert.False(t, s.IsTerminal(), "status=%s", s)
	}
}

func TestTimelineForForwardProgram(t *testing.T) {
	p := &Program{Status: StatusApproved}
	view := TimelineFor(p)
	require.Len(t, view.Entries, len(forwardPath))
	assert.False(t, view.IsRejected)

	for _, entry := range view.Entries {
		switch {
		case Precedes(entry.Status, StatusApproved):
			assert.Equal(t, TimelineCompleted, entry.State, "status=%s", entry.Status)
		case entry.Status == StatusApproved:
			assert.Equal(t, TimelineCurrent, entry.State)
		default:
			assert.Equal(t, TimelinePending, entry.State, "status=%s", entry.Status)
		}
	}
}

func TestTimelineForRejectedProgram(t *testing.T) {
	submittedAt := time.Now()
	p := &Program{Status: StatusRejected, SubmittedAt: &submittedAt}
	view := TimelineFor(p)
	assert.True(t, view.IsRejected)
	for _, entry := range view.Entries {
		// A rejected program has no current step.
		assert.NotEqual(t, TimelineCurrent, entry.State, "status=%s", entry.Status)
	}
	assert.Equal(t, TimelineCompleted, view.Entries[0].State)
	assert.Equal(t, TimelineCompleted, view.Entries[1].State)
}

func TestStatusMetaCoversEveryStatus(t *testing.T) {
	for s := range validStatuses {
		meta := s.Meta()
		assert.NotEmpty(t, meta.Label, "status=%s", s)
		assert.NotEmpty(t, meta.Color, "status=%s", s)
	}
}

func TestProgramRoundTripPreservesLedgerOrder(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	answer := "attached"
	p := Program{
		ID:         uuid.New(),
		Title:      "Rural road upgrade",
		Budget:     50000,
		Status:     StatusAnsweredQuery,
		UserID:     uuid.New(),
		Objectives: []string{"repair 12km", "install drainage"},
		KPI:        []KPIEntry{{Target: "12km", Current: "3km"}},
		Queries: []ProgramQuery{
			{ID: uuid.New(), QueryText: "need invoice", Status: QueryAnswered, AnswerText: &answer, QueryDate: now},
			{ID: uuid.New(), QueryText: "need quotation", Status: QueryAnswered, QueryDate: now.Add(time.Hour)},
		},
		Deductions: []BudgetDeduction{
			{ID: uuid.New(), DeductionAmount: 1000, Reason: "advance", DeductedAt: now},
			{ID: uuid.New(), DeductionAmount: 500, Reason: "materials", DeductedAt: now.Add(time.Hour)},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	data, err := json.Marshal(p)
	require.NoError(t, err)
	var decoded Program
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, p, decoded)
}

func TestRemainingBudget(t *testing.T) {
	p := &Program{
		Budget: 10000,
		Deductions: []BudgetDeduction{
			{DeductionAmount: 2500},
			{DeductionAmount: 1500},
		},
	}
	assert.Equal(t, 6000.0, p.RemainingBudget())
	assert.Equal(t, 10000.0, p.Budget, "original budget never mutates")
}
