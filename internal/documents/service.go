package documents

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MinThiha23/exco-budget-management-system-sub001/internal/programs"
)

type AttachRequest struct {
	Category    Category `json:"category" binding:"required"`
	FileName    string   `json:"file_name" binding:"required"`
	Reference   string   `json:"reference" binding:"required"`
	ContentType string   `json:"content_type"`
	SizeBytes   int64    `json:"size_bytes"`
}

type Service interface {
	Attach(ctx context.Context, actor programs.Actor, programID uuid.UUID, req AttachRequest) (*ProgramDocument, error)
	Checklist(ctx context.Context, actor programs.Actor, programID uuid.UUID) ([]ChecklistEntry, error)
	History(ctx context.Context, actor programs.Actor, programID uuid.UUID, category Category) ([]ProgramDocument, error)
}

type documentService struct {
	repo     Repository
	programs programs.Repository
	logger   *zap.Logger
}

func NewService(repo Repository, programRepo programs.Repository, logger *zap.Logger) Service {
	return &documentService{repo: repo, programs: programRepo, logger: logger}
}

// Attach records a new document reference. A fresh attachment in an
// already-used category becomes the current version; earlier versions
// stay on record.
func (s *documentService) Attach(ctx context.Context, actor programs.Actor, programID uuid.UUID, req AttachRequest) (*ProgramDocument, error) {
	if !req.Category.IsValid() {
		return nil, fmt.Errorf("%w: unknown category %q", programs.ErrValidationFailed, req.Category)
	}
	program, err := s.programs.GetByID(ctx, programID)
	if err != nil {
		return nil, err
	}
	if !programs.CanPerform(actor, programs.ActionAttachDocument, program) {
		return nil, programs.ErrForbidden
	}
	// A closed program keeps its document trail frozen.
	if program.Status.IsTerminal() {
		return nil, programs.ErrIllegalTransition
	}

	latest, err := s.repo.LatestVersion(ctx, programID, req.Category)
	if err != nil {
		return nil, fmt.Errorf("resolving latest version: %w", err)
	}
	doc := &ProgramDocument{
		ProgramID:    programID,
		Category:     req.Category,
		Version:      latest + 1,
		FileName:     req.FileName,
		Reference:    req.Reference,
		ContentType:  req.ContentType,
		SizeBytes:    req.SizeBytes,
		UploadedBy:   actor.ID,
		UploaderName: actor.Name,
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("attaching document: %w", err)
	}
	s.logger.Info("document attached",
		zap.String("program_id", programID.String()),
		zap.String("category", string(req.Category)),
		zap.Int("version", doc.Version))
	return doc, nil
}

// Checklist returns every checklist slot in display order with the
// current document for each, so reviewers can see gaps at a glance.
func (s *documentService) Checklist(ctx context.Context, actor programs.Actor, programID uuid.UUID) ([]ChecklistEntry, error) {
	program, err := s.programs.GetByID(ctx, programID)
	if err != nil {
		return nil, err
	}
	if !programs.CanView(actor, program) {
		return nil, programs.ErrForbidden
	}

	docs, err := s.repo.ListByProgram(ctx, programID)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[Category][]ProgramDocument, len(Categories))
	for _, d := range docs {
		byCategory[d.Category] = append(byCategory[d.Category], d)
	}

	entries := make([]ChecklistEntry, 0, len(Categories))
	for _, c := range Categories {
		entry := ChecklistEntry{Category: c, VersionCount: len(byCategory[c])}
		if n := len(byCategory[c]); n > 0 {
			current := byCategory[c][n-1]
			entry.Current = &current
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *documentService) History(ctx context.Context, actor programs.Actor, programID uuid.UUID, category Category) ([]ProgramDocument, error) {
	if !category.IsValid() {
		return nil, fmt.Errorf("%w: unknown category %q", programs.ErrValidationFailed, category)
	}
	program, err := s.programs.GetByID(ctx, programID)
	if err != nil {
		return nil, err
	}
	if !programs.CanView(actor, program) {
		return nil, programs.ErrForbidden
	}

	docs, err := s.repo.ListByProgram(ctx, programID)
	if err != nil {
		return nil, err
	}
	history := make([]ProgramDocument, 0)
	for _, d := range docs {
		if d.Category == category {
			history = append(history, d)
		}
	}
	return history, nil
}
