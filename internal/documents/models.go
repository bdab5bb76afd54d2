package documents

import (
	"time"

	"github.com/google/uuid"
)

// Category is one slot in the fixed supporting-document checklist a
// program carries through review.
type Category string

const (
	CategoryProposal        Category = "proposal"
	CategorySupportLetter   Category = "support_letter"
	CategoryQuotation       Category = "quotation"
	CategoryRecipientIC     Category = "recipient_ic"
	CategoryBankStatement   Category = "bank_statement"
	CategoryApprovalLetter  Category = "approval_letter"
	CategoryPaymentVoucher  Category = "payment_voucher"
	CategoryAcceptanceProof Category = "acceptance_proof"
)

// Categories is the checklist order shown to reviewers.
var Categories = []Category{
	CategoryProposal,
	CategorySupportLetter,
	CategoryQuotation,
	CategoryRecipientIC,
	CategoryBankStatement,
	CategoryApprovalLetter,
	CategoryPaymentVoucher,
	CategoryAcceptanceProof,
}

var validCategories = func() map[Category]bool {
	m := make(map[Category]bool, len(Categories))
	for _, c := range Categories {
		m[c] = true
	}
	return m
}()

func (c Category) IsValid() bool { return validCategories[c] }

// ProgramDocument is a reference to an externally stored file attached
// to a program. Only the reference and its metadata live here; the
// bytes stay wherever the reference points.
type ProgramDocument struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProgramID   uuid.UUID `json:"program_id" gorm:"type:uuid;not null;index"`
	Category    Category  `json:"category" gorm:"not null;index"`
	Version     int       `json:"version" gorm:"not null"`
	FileName    string    `json:"file_name" gorm:"not null"`
	Reference   string    `json:"reference" gorm:"not null"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	UploadedBy  uuid.UUID `json:"uploaded_by" gorm:"type:uuid;not null"`
	UploaderName string   `json:"uploader_name"`
	CreatedAt   time.Time `json:"created_at"`
}

func (ProgramDocument) TableName() string {
	return "program_documents"
}

// ChecklistEntry reports the state of one checklist slot: the current
// document if any, and how many versions have been attached.
type ChecklistEntry struct {
	Category     Category         `json:"category"`
	Current      *ProgramDocument `json:"current,omitempty"`
	VersionCount int              `json:"version_count"`
}
