package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/MinThiha23/exco-budget-management-system-sub001/internal/programs"
)

// Repository persists the audit trail. It satisfies programs.AuditLog.
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates an audit repository over the shared connection.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Record appends one audit entry for a successful workflow action.
func (r *Repository) Record(ctx context.Context, entry programs.AuditEntry) error {
	query := `
		INSERT INTO program_audit_entries (
			id, program_id, actor_id, actor_name, action,
			from_status, to_status, detail, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		uuid.New(), entry.ProgramID, entry.ActorID, entry.ActorName,
		string(entry.Action), string(entry.FromStatus), string(entry.ToStatus),
		entry.Detail, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}

	return nil
}

// ListByProgram returns the full trail for one program in insertion order.
func (r *Repository) ListByProgram(ctx context.Context, programID uuid.UUID) ([]Entry, error) {
	query := `
		SELECT id, program_id, actor_id, actor_name, action,
			   from_status, to_status, detail, created_at
		FROM program_audit_entries
		WHERE program_id = $1
		ORDER BY created_at ASC
	`

	var entries []Entry
	if err := r.db.SelectContext(ctx, &entries, query, programID); err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}

	return entries, nil
}
