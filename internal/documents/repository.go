package documents

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MinThiha23/exco-budget-management-system-sub001/internal/programs"
)

type Repository interface {
	Create(ctx context.Context, doc *ProgramDocument) error
	GetByID(ctx context.Context, id uuid.UUID) (*ProgramDocument, error)
	ListByProgram(ctx context.Context, programID uuid.UUID) ([]ProgramDocument, error)
	LatestVersion(ctx context.Context, programID uuid.UUID, category Category) (int, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, doc *ProgramDocument) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *gormRepository) GetByID(ctx context.Context, id uuid.UUID) (*ProgramDocument, error) {
	var doc ProgramDocument
	err := r.db.WithContext(ctx).First(&doc, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, programs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *gormRepository) ListByProgram(ctx context.Context, programID uuid.UUID) ([]ProgramDocument, error) {
	var docs []ProgramDocument
	err := r.db.WithContext(ctx).
		Where("program_id = ?", programID).
		Order("category ASC, version ASC").
		Find(&docs).Error
	return docs, err
}

func (r *gormRepository) LatestVersion(ctx context.Context, programID uuid.UUID, category Category) (int, error) {
	var latest int
	err := r.db.WithContext(ctx).
		Model(&ProgramDocument{}).
		Where("program_id = ? AND category = ?", programID, category).
		Select("COALESCE(MAX(version), 0)").
		Scan(&latest).Error
	return latest, err
}
