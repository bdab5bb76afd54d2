package notifications

import (
	"time"

	"github.com/google/uuid"

	"github.com/MinThiha23/exco-budget-management-system-sub001/internal/programs"
)

type Kind string

const (
	// KindTransition announces a workflow action on a program the
	// recipient cares about.
	KindTransition Kind = "transition"
	// KindQueryReminder nudges an owner about a query that has been
	// waiting too long for an answer.
	KindQueryReminder Kind = "query_reminder"
)

// Notification is one in-app message for a single recipient.
type Notification struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	ProgramID uuid.UUID  `json:"program_id" gorm:"type:uuid;not null;index"`
	Kind      Kind       `json:"kind" gorm:"not null"`
	Title     string     `json:"title" gorm:"not null"`
	Message   string     `json:"message" gorm:"not null"`
	IsRead    bool       `json:"is_read" gorm:"default:false;index"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// Envelope is the shape pushed over a live websocket connection.
type Envelope struct {
	Kind      Kind            `json:"kind"`
	ProgramID uuid.UUID       `json:"program_id"`
	Status    programs.Status `json:"status"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	SentAt    time.Time       `json:"sent_at"`
}
