package programs

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ActionPayload carries the action-specific inputs for a transition.
// Only the fields relevant to the requested action are consulted.
type ActionPayload struct {
	QueryText             string  `json:"query_text"`
	AnswerText            string  `json:"answer_text"`
	RejectionReason       string  `json:"rejection_reason"`
	VoucherNumber         string  `json:"voucher_number"`
	EFTNumber             string  `json:"eft_number"`
	LetterReferenceNumber string  `json:"letter_reference_number"`
	Amount                float64 `json:"amount"`
	Reason                string  `json:"reason"`

	// ExpectedUpdatedAt is an optional optimistic-concurrency
	// precondition. When set, the transition fails with ErrStaleSnapshot
	// if the snapshot has moved on.
	ExpectedUpdatedAt *time.Time `json:"expected_updated_at,omitempty"`
}

// transition is one edge of the fixed action transition table.
type transition struct {
	// from lists the statuses the action is legal in. nil means any
	// non-terminal status.
	from []Status
	// to is the resulting status. Empty means the status is unchanged.
	to Status
}

// transitionTable is the single authoritative state machine. An action
// with no edge for the current status fails with ErrIllegalTransition.
var transitionTable = map[Action]transition{
	ActionSubmit:         {from: []Status{StatusDraft}, to: StatusSubmitted},
	ActionQuery:          {from: []Status{StatusSubmitted, StatusAnsweredQuery}, to: StatusQueried},
	ActionAnswerQuery:    {from: []Status{StatusQueried}, to: StatusAnsweredQuery},
	ActionApprove:        {from: []Status{StatusSubmitted, StatusAnsweredQuery}, to: StatusApproved},
	ActionReject:         {from: []Status{StatusSubmitted, StatusQueried, StatusAnsweredQuery}, to: StatusRejected},
	ActionDeductBudget:   {from: nil, to: ""},
	ActionAcceptDocument: {from: []Status{StatusApproved}, to: StatusMMKAccepted},
	ActionEdit:           {from: []Status{StatusDraft, StatusQueried}, to: ""},
	ActionDelete:         {from: []Status{StatusDraft}, to: ""},
}

// Payload requirements per action, enforced before any mutation.
type queryPayload struct {
	QueryText string `validate:"required"`
}

type answerPayload struct {
	AnswerText string `validate:"required"`
}

type approvePayload struct {
	VoucherNumber string `validate:"required"`
	EFTNumber     string `validate:"required"`
}

type rejectPayload struct {
	RejectionReason string `validate:"required"`
}

type deductPayload struct {
	Amount float64 `validate:"required,gt=0"`
	Reason string  `validate:"required"`
}

// Engine validates and applies workflow transitions. It is pure
// computation over an in-memory snapshot; all I/O stays at the boundary.
type Engine struct {
	validate *validator.Validate
}

// NewEngine creates a workflow engine.
func NewEngine() *Engine {
	return &Engine{validate: validator.New()}
}

// Apply checks permission, transition legality and payload, then mutates
// the snapshot atomically and returns it. Validation failures abort
// before any mutation; transitions are deliberately not idempotent.
func (e *Engine) Apply(p *Program, action Action, actor Actor, payload ActionPayload) (*Program, error) {
	if _, err := ParseStatus(string(p.Status)); err != nil {
		return nil, err
	}
	if payload.ExpectedUpdatedAt != nil && !payload.ExpectedUpdatedAt.Equal(p.UpdatedAt) {
		return nil, ErrStaleSnapshot
	}
	if !CanPerform(actor, action, p) {
		return nil, ErrForbidden
	}

	// Status legality comes before payload validation so a request
	// against the wrong state always reads as IllegalTransition, never
	// as a payload problem.
	edge, ok := transitionTable[action]
	if !ok {
		return nil, ErrIllegalTransition
	}
	if p.Status.IsTerminal() {
		return nil, ErrIllegalTransition
	}
	if edge.from != nil && !statusIn(p.Status, edge.from) {
		return nil, ErrIllegalTransition
	}

	if err := e.validatePayload(p, action, payload); err != nil {
		return nil, err
	}

	// Resolve the pending query before mutating anything so the
	// transition stays all-or-nothing.
	var pending *ProgramQuery
	if action == ActionAnswerQuery {
		var err error
		pending, err = p.pendingQuery()
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	switch action {
	case ActionSubmit:
		p.SubmittedAt = &now
	case ActionQuery:
		p.Queries = append(p.Queries, ProgramQuery{
			ID:            uuid.New(),
			ProgramID:     p.ID,
			QueryText:     payload.QueryText,
			QueriedBy:     actor.ID,
			QueriedByName: actor.Name,
			QueryDate:     now,
			Status:        QueryPending,
		})
	case ActionAnswerQuery:
		answer := payload.AnswerText
		answeredBy := actor.Name
		pending.AnswerText = &answer
		pending.AnsweredByName = &answeredBy
		pending.AnsweredAt = &now
		pending.Status = QueryAnswered
	case ActionApprove:
		voucher := payload.VoucherNumber
		eft := payload.EFTNumber
		p.VoucherNumber = &voucher
		p.EFTNumber = &eft
		if payload.LetterReferenceNumber != "" {
			letter := payload.LetterReferenceNumber
			p.LetterReferenceNumber = &letter
		}
		actorID := actor.ID
		p.ApprovedBy = &actorID
		p.ApprovedAt = &now
	case ActionReject:
		reason := payload.RejectionReason
		actorID := actor.ID
		p.RejectedBy = &actorID
		p.RejectedAt = &now
		p.RejectionReason = &reason
	case ActionDeductBudget:
		p.Deductions = append(p.Deductions, BudgetDeduction{
			ID:              uuid.New(),
			ProgramID:       p.ID,
			DeductionAmount: payload.Amount,
			Reason:          payload.Reason,
			DeductedBy:      actor.ID,
			DeductedByName:  actor.Name,
			DeductedAt:      now,
		})
		p.BudgetDeducted += payload.Amount
	}

	if edge.to != "" {
		p.Status = edge.to
	}
	p.UpdatedAt = now
	return p, nil
}

func (e *Engine) validatePayload(p *Program, action Action, payload ActionPayload) error {
	switch action {
	case ActionQuery:
		return e.check(queryPayload{QueryText: payload.QueryText})
	case ActionAnswerQuery:
		return e.check(answerPayload{AnswerText: payload.AnswerText})
	case ActionApprove:
		return e.check(approvePayload{
			VoucherNumber: payload.VoucherNumber,
			EFTNumber:     payload.EFTNumber,
		})
	case ActionReject:
		return e.check(rejectPayload{RejectionReason: payload.RejectionReason})
	case ActionDeductBudget:
		if err := e.check(deductPayload{Amount: payload.Amount, Reason: payload.Reason}); err != nil {
			return err
		}
		if payload.Amount > p.RemainingBudget() {
			return newValidationError("amount", "exceeds remaining budget")
		}
	}
	return nil
}

// check runs struct validation and converts the first tag failure into a
// field-naming ValidationError.
func (e *Engine) check(payload interface{}) error {
	err := e.validate.Struct(payload)
	if err == nil {
		return nil
	}
	if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		reason := "is required"
		if fe.Tag() == "gt" {
			reason = "must be greater than " + fe.Param()
		}
		return newValidationError(payloadFieldNames[fe.Field()], reason)
	}
	return ErrValidationFailed
}

var payloadFieldNames = map[string]string{
	"QueryText":       "query_text",
	"AnswerText":      "answer_text",
	"VoucherNumber":   "voucher_number",
	"EFTNumber":       "eft_number",
	"RejectionReason": "rejection_reason",
	"Amount":          "amount",
	"Reason":          "reason",
}

// pendingQuery resolves the single unanswered query. A queried program
// with zero pending entries or more than one is a ledger inconsistency
// the engine fails closed on.
func (p *Program) pendingQuery() (*ProgramQuery, error) {
	idx := -1
	for i := range p.Queries {
		if p.Queries[i].Status == QueryPending {
			if idx >= 0 {
				return nil, ErrAmbiguousPendingQuery
			}
			idx = i
		}
	}
	if idx < 0 {
		return nil, ErrIllegalTransition
	}
	return &p.Queries[idx], nil
}
