package audit

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one record of the program audit trail. Entries are append-only
// and ordered by creation time; they are never edited or compacted.
type Entry struct {
	ID         uuid.UUID `db:"id" json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProgramID  uuid.UUID `db:"program_id" json:"program_id" gorm:"type:uuid;not null;index"`
	ActorID    uuid.UUID `db:"actor_id" json:"actor_id" gorm:"type:uuid;not null"`
	ActorName  string    `db:"actor_name" json:"actor_name"`
	Action     string    `db:"action" json:"action" gorm:"not null"`
	FromStatus string    `db:"from_status" json:"from_status"`
	ToStatus   string    `db:"to_status" json:"to_status"`
	Detail     string    `db:"detail" json:"detail"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

func (Entry) TableName() string { return "program_audit_entries" }
