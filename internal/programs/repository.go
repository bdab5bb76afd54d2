package programs

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgramFilter narrows program listings.
type ProgramFilter struct {
	UserID     *uuid.UUID
	Status     *Status
	Department *string
}

// Repository is the persistence boundary for programs. Sub-ledger entries
// are stored append-only and returned in insertion order.
type Repository interface {
	Create(ctx context.Context, program *Program) error
	GetByID(ctx context.Context, id uuid.UUID) (*Program, error)
	List(ctx context.Context, filter ProgramFilter) ([]*Program, error)
	// Update persists a mutated snapshot. It compares updated_at against
	// expectedUpdatedAt and fails with ErrStaleSnapshot when another
	// writer got there first.
	Update(ctx context.Context, program *Program, expectedUpdatedAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a PostgreSQL-backed program repository.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, program *Program) error {
	return r.db.WithContext(ctx).Create(program).Error
}

func (r *gormRepository) GetByID(ctx context.Context, id uuid.UUID) (*Program, error) {
	var program Program
	err := r.db.WithContext(ctx).
		Preload("Queries", func(db *gorm.DB) *gorm.DB {
			return db.Order("program_queries.created_at ASC")
		}).
		Preload("Deductions", func(db *gorm.DB) *gorm.DB {
			return db.Order("budget_deductions.created_at ASC")
		}).
		First(&program, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &program, nil
}

func (r *gormRepository) List(ctx context.Context, filter ProgramFilter) ([]*Program, error) {
	query := r.db.WithContext(ctx).
		Preload("Queries", func(db *gorm.DB) *gorm.DB {
			return db.Order("program_queries.created_at ASC")
		}).
		Preload("Deductions", func(db *gorm.DB) *gorm.DB {
			return db.Order("budget_deductions.created_at ASC")
		})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Department != nil {
		query = query.Where("department = ?", *filter.Department)
	}
	var programs []*Program
	err := query.Order("created_at DESC").Find(&programs).Error
	return programs, err
}

func (r *gormRepository) Update(ctx context.Context, program *Program, expectedUpdatedAt time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Compare-and-swap on updated_at serializes concurrent writers
		// against the same program row.
		res := tx.Model(&Program{}).
			Where("id = ? AND updated_at = ?", program.ID, expectedUpdatedAt).
			Select(
				"title", "description", "department", "recipient_name",
				"start_date", "end_date", "status", "objectives", "kpi",
				"voucher_number", "eft_number", "letter_reference_number",
				"submitted_at", "approved_by", "approved_at",
				"rejected_by", "rejected_at", "rejection_reason",
				"budget_deducted", "updated_at",
			).
			UpdateColumns(program)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleSnapshot
		}

		// Queries: new entries are inserted; an answered entry updates
		// only its answer fields. Query text and attribution never
		// change once written.
		if len(program.Queries) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"answer_text", "answered_by_name", "answered_at", "status",
				}),
			}).Create(&program.Queries).Error; err != nil {
				return err
			}
		}

		// Deductions are immutable once recorded.
		if len(program.Deductions) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoNothing: true,
			}).Create(&program.Deductions).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&Program{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
