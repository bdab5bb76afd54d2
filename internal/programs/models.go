package programs

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// KPIEntry is one key performance indicator with its target and current
// values. Display-only; the workflow never interprets it.
type KPIEntry struct {
	Target  string `json:"target"`
	Current string `json:"current"`
}

// Program represents a funding program submitted by an EXCO member.
type Program struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title         string    `gorm:"not null" json:"title"`
	Description   string    `json:"description"`
	Department    string    `json:"department"`
	RecipientName string    `json:"recipient_name"`

	// Budget is fixed at creation. Deductions are tracked in the ledger
	// and never mutate this field.
	Budget         float64 `gorm:"not null" json:"budget"`
	BudgetDeducted float64 `gorm:"not null;default:0" json:"budget_deducted"`

	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`

	Status Status `gorm:"not null;default:'draft'" json:"status"`

	// Submitter identity, immutable after creation.
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	SubmittedBy string    `json:"submitted_by"`

	Objectives datatypes.JSONSlice[string]   `json:"objectives"`
	KPI        datatypes.JSONSlice[KPIEntry] `json:"kpi"`

	// Finance-assigned identifiers, populated by approval actions.
	VoucherNumber         *string `json:"voucher_number,omitempty"`
	EFTNumber             *string `json:"eft_number,omitempty"`
	LetterReferenceNumber *string `json:"letter_reference_number,omitempty"`

	SubmittedAt     *time.Time `json:"submitted_at,omitempty"`
	ApprovedBy      *uuid.UUID `gorm:"type:uuid" json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectedBy      *uuid.UUID `gorm:"type:uuid" json:"rejected_by,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`

	Queries    []ProgramQuery    `gorm:"foreignKey:ProgramID" json:"queries"`
	Deductions []BudgetDeduction `gorm:"foreignKey:ProgramID" json:"budget_deductions"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsRejected reports the rejected side-branch as a flag so it never enters
// the linear forward-order comparison.
func (p *Program) IsRejected() bool { return p.Status == StatusRejected }

// RemainingBudget is the net available amount: the original budget minus
// every recorded deduction.
func (p *Program) RemainingBudget() float64 {
	remaining := p.Budget
	for _, d := range p.Deductions {
		remaining -= d.DeductionAmount
	}
	return remaining
}

// PendingQueryCount counts unanswered queries. More than one is a data
// inconsistency the engine fails closed on.
func (p *Program) PendingQueryCount() int {
	n := 0
	for _, q := range p.Queries {
		if q.Status == QueryPending {
			n++
		}
	}
	return n
}

// QueryStatus is the lifecycle of a single finance query. It moves from
// pending to answered exactly once and never back.
type QueryStatus string

const (
	QueryPending  QueryStatus = "pending"
	QueryAnswered QueryStatus = "answered"
)

// ProgramQuery is one entry of the append-only finance-query ledger.
type ProgramQuery struct {
	ID            uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	ProgramID     uuid.UUID   `gorm:"type:uuid;not null;index" json:"program_id"`
	QueryText     string      `gorm:"not null" json:"query_text"`
	QueriedBy     uuid.UUID   `gorm:"type:uuid;not null" json:"queried_by"`
	QueriedByName string      `json:"queried_by_name"`
	QueryDate     time.Time   `json:"query_date"`
	Status        QueryStatus `gorm:"not null;default:'pending'" json:"status"`

	AnswerText     *string    `json:"answer_text,omitempty"`
	AnsweredByName *string    `json:"answered_by_name,omitempty"`
	AnsweredAt     *time.Time `json:"answered_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// BudgetDeduction is one entry of the append-only deduction ledger.
// Entries are immutable once recorded; corrections are new entries.
type BudgetDeduction struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProgramID       uuid.UUID `gorm:"type:uuid;not null;index" json:"program_id"`
	DeductionAmount float64   `gorm:"not null" json:"deduction_amount"`
	Reason          string    `gorm:"not null" json:"reason"`
	DeductedBy      uuid.UUID `gorm:"type:uuid;not null" json:"deducted_by"`
	DeductedByName  string    `json:"deducted_by_name"`
	DeductedAt      time.Time `json:"deducted_at"`

	CreatedAt time.Time `json:"created_at"`
}
