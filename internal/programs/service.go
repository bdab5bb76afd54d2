package programs

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// AuditEntry is one record of the program audit trail.
type AuditEntry struct {
	ProgramID  uuid.UUID
	ActorID    uuid.UUID
	ActorName  string
	Action     Action
	FromStatus Status
	ToStatus   Status
	Detail     string
}

// AuditLog records every successful workflow transition.
type AuditLog interface {
	Record(ctx context.Context, entry AuditEntry) error
}

// Notifier is told about successful transitions. It is best-effort:
// failures must never roll back the transition.
type Notifier interface {
	ProgramTransitioned(ctx context.Context, program *Program, action Action, actor Actor)
}

// CreateProgramRequest carries the fields an owner supplies at creation.
type CreateProgramRequest struct {
	Title         string     `json:"title" binding:"required"`
	Description   string     `json:"description"`
	Department    string     `json:"department"`
	RecipientName string     `json:"recipient_name"`
	Budget        float64    `json:"budget" binding:"min=0"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	Objectives    []string   `json:"objectives"`
	KPI           []KPIEntry `json:"kpi"`
}

// UpdateProgramRequest mutates descriptive fields only. Status is owned by
// the workflow engine and budget is fixed at creation.
type UpdateProgramRequest struct {
	Title         *string     `json:"title"`
	Description   *string     `json:"description"`
	Department    *string     `json:"department"`
	RecipientName *string     `json:"recipient_name"`
	StartDate     *time.Time  `json:"start_date"`
	EndDate       *time.Time  `json:"end_date"`
	Objectives    *[]string   `json:"objectives"`
	KPI           *[]KPIEntry `json:"kpi"`
}

// Service is the application boundary around the workflow core. Each call
// evaluates one atomic step against the program's current snapshot.
type Service interface {
	Create(ctx context.Context, req CreateProgramRequest, actor Actor) (*Program, error)
	Get(ctx context.Context, id uuid.UUID, actor Actor) (*Program, error)
	List(ctx context.Context, filter ProgramFilter, actor Actor) ([]*Program, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateProgramRequest, actor Actor) (*Program, error)
	Delete(ctx context.Context, id uuid.UUID, actor Actor) error
	ApplyAction(ctx context.Context, id uuid.UUID, action Action, actor Actor, payload ActionPayload) (*Program, error)
	Timeline(ctx context.Context, id uuid.UUID, actor Actor) (*TimelineView, error)
}

type programService struct {
	repo     Repository
	engine   *Engine
	audit    AuditLog
	notifier Notifier
	logger   *zap.Logger
}

// NewService wires the workflow core to its collaborators.
func NewService(repo Repository, audit AuditLog, notifier Notifier, logger *zap.Logger) Service {
	return &programService{
		repo:     repo,
		engine:   NewEngine(),
		audit:    audit,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *programService) Create(ctx context.Context, req CreateProgramRequest, actor Actor) (*Program, error) {
	if !CanPerform(actor, ActionCreate, nil) {
		return nil, ErrForbidden
	}
	if req.Budget < 0 {
		return nil, newValidationError("budget", "must not be negative")
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, newValidationError("end_date", "must not be before start_date")
	}

	program := &Program{
		Title:         req.Title,
		Description:   req.Description,
		Department:    req.Department,
		RecipientName: req.RecipientName,
		Budget:        req.Budget,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Status:        StatusDraft,
		UserID:        actor.ID,
		SubmittedBy:   actor.Name,
		Objectives:    datatypes.NewJSONSlice(req.Objectives),
		KPI:           datatypes.NewJSONSlice(req.KPI),
	}
	if err := s.repo.Create(ctx, program); err != nil {
		return nil, err
	}

	if err := s.audit.Record(ctx, AuditEntry{
		ProgramID:  program.ID,
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		Action:     ActionCreate,
		FromStatus: StatusDraft,
		ToStatus:   StatusDraft,
		Detail:     "program created",
	}); err != nil {
		s.logger.Warn("audit record failed", zap.Error(err), zap.String("program_id", program.ID.String()))
	}
	return program, nil
}

func (s *programService) Get(ctx context.Context, id uuid.UUID, actor Actor) (*Program, error) {
	program, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanView(actor, program) {
		return nil, ErrForbidden
	}
	return program, nil
}

func (s *programService) List(ctx context.Context, filter ProgramFilter, actor Actor) ([]*Program, error) {
	// Owners are always scoped to their own programs; elevated roles may
	// list everything.
	if !CanPerform(actor, ActionViewAll, &Program{}) {
		if actor.Role != RoleUser {
			return nil, ErrForbidden
		}
		ownerID := actor.ID
		filter.UserID = &ownerID
	}
	return s.repo.List(ctx, filter)
}

func (s *programService) Update(ctx context.Context, id uuid.UUID, req UpdateProgramRequest, actor Actor) (*Program, error) {
	program, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	snapshotTime := program.UpdatedAt

	// Run edit through the engine so permission and status legality come
	// from the same tables as every other action.
	if _, err := s.engine.Apply(program, ActionEdit, actor, ActionPayload{}); err != nil {
		return nil, err
	}

	if req.Title != nil {
		program.Title = *req.Title
	}
	if req.Description != nil {
		program.Description = *req.Description
	}
	if req.Department != nil {
		program.Department = *req.Department
	}
	if req.RecipientName != nil {
		program.RecipientName = *req.RecipientName
	}
	if req.StartDate != nil {
		program.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		program.EndDate = req.EndDate
	}
	if program.StartDate != nil && program.EndDate != nil && program.EndDate.Before(*program.StartDate) {
		return nil, newValidationError("end_date", "must not be before start_date")
	}
	if req.Objectives != nil {
		program.Objectives = datatypes.NewJSONSlice(*req.Objectives)
	}
	if req.KPI != nil {
		program.KPI = datatypes.NewJSONSlice(*req.KPI)
	}

	if err := s.repo.Update(ctx, program, snapshotTime); err != nil {
		return nil, err
	}
	return program, nil
}

func (s *programService) Delete(ctx context.Context, id uuid.UUID, actor Actor) error {
	program, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.engine.Apply(program, ActionDelete, actor, ActionPayload{}); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *programService) ApplyAction(ctx context.Context, id uuid.UUID, action Action, actor Actor, payload ActionPayload) (*Program, error) {
	program, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	fromStatus := program.Status
	snapshotTime := program.UpdatedAt

	program, err = s.engine.Apply(program, action, actor, payload)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, program, snapshotTime); err != nil {
		return nil, err
	}

	if err := s.audit.Record(ctx, AuditEntry{
		ProgramID:  program.ID,
		ActorID:    actor.ID,
		ActorName:  actor.Name,
		Action:     action,
		FromStatus: fromStatus,
		ToStatus:   program.Status,
	}); err != nil {
		s.logger.Warn("audit record failed", zap.Error(err), zap.String("program_id", program.ID.String()))
	}

	// Fire-and-forget: notification failures never roll back the
	// transition.
	s.notifier.ProgramTransitioned(ctx, program, action, actor)

	return program, nil
}

func (s *programService) Timeline(ctx context.Context, id uuid.UUID, actor Actor) (*TimelineView, error) {
	program, err := s.Get(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	view := TimelineFor(program)
	return &view, nil
}

// IsWorkflowError reports whether err belongs to the workflow taxonomy,
// as opposed to an infrastructure failure.
func IsWorkflowError(err error) bool {
	for _, sentinel := range []error{
		ErrForbidden, ErrIllegalTransition, ErrValidationFailed,
		ErrAmbiguousPendingQuery, ErrStaleSnapshot, ErrUnknownStatus, ErrNotFound,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
