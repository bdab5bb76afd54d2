package stats

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/MinThiha23/exco-budget-management-system-sub001/internal/programs"
)

type Repository interface {
	Overview(ctx context.Context, ownerID *uuid.UUID) (*Overview, error)
	ByDepartment(ctx context.Context, ownerID *uuid.UUID) ([]DepartmentSummary, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Overview(ctx context.Context, ownerID *uuid.UUID) (*Overview, error) {
	type statusRow struct {
		Status        programs.Status `db:"status"`
		ProgramCount  int             `db:"program_count"`
		TotalBudget   float64         `db:"total_budget"`
		TotalDeducted float64         `db:"total_deducted"`
	}

	query := `
		SELECT status,
		       COUNT(*)                          AS program_count,
		       COALESCE(SUM(budget), 0)          AS total_budget,
		       COALESCE(SUM(budget_deducted), 0) AS total_deducted
		FROM programs
		WHERE deleted_at IS NULL`
	args := []interface{}{}
	if ownerID != nil {
		query += " AND user_id = $1"
		args = append(args, *ownerID)
	}
	query += " GROUP BY status"

	var rows []statusRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	overview := &Overview{ByStatus: make(map[programs.Status]int)}
	for _, row := range rows {
		overview.TotalPrograms += row.ProgramCount
		overview.ByStatus[row.Status] = row.ProgramCount
		overview.TotalBudget += row.TotalBudget
		overview.TotalDeducted += row.TotalDeducted
	}
	overview.RemainingBudget = overview.TotalBudget - overview.TotalDeducted

	pending, err := r.pendingQueryCount(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	overview.PendingQueries = pending
	return overview, nil
}

func (r *postgresRepository) pendingQueryCount(ctx context.Context, ownerID *uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM program_queries q
		JOIN programs p ON p.id = q.program_id
		WHERE q.status = 'pending'
		  AND p.deleted_at IS NULL`
	args := []interface{}{}
	if ownerID != nil {
		query += " AND p.user_id = $1"
		args = append(args, *ownerID)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *postgresRepository) ByDepartment(ctx context.Context, ownerID *uuid.UUID) ([]DepartmentSummary, error) {
	query := `
		SELECT COALESCE(NULLIF(department, ''), 'unassigned') AS department,
		       COUNT(*)                          AS program_count,
		       COALESCE(SUM(budget), 0)          AS total_budget,
		       COALESCE(SUM(budget_deducted), 0) AS total_deducted
		FROM programs
		WHERE deleted_at IS NULL`
	args := []interface{}{}
	if ownerID != nil {
		query += " AND user_id = $1"
		args = append(args, *ownerID)
	}
	query += " GROUP BY 1 ORDER BY total_budget DESC"

	var summaries []DepartmentSummary
	if err := r.db.SelectContext(ctx, &summaries, query, args...); err != nil {
		return nil, err
	}
	return summaries, nil
}
