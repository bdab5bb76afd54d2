package stats

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MinThiha23/exco-budget-management-system-sub001/internal/programs"
)

type Service interface {
	Overview(ctx context.Context, actor programs.Actor) (*Overview, error)
	ByDepartment(ctx context.Context, actor programs.Actor) ([]DepartmentSummary, error)
}

type statsService struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &statsService{repo: repo, logger: logger}
}

// scope limits owners to their own portfolio. Elevated roles see the
// whole board.
func scope(actor programs.Actor) *uuid.UUID {
	if actor.Role == programs.RoleUser {
		id := actor.ID
		return &id
	}
	return nil
}

func (s *statsService) Overview(ctx context.Context, actor programs.Actor) (*Overview, error) {
	return s.repo.Overview(ctx, scope(actor))
}

func (s *statsService) ByDepartment(ctx context.Context, actor programs.Actor) ([]DepartmentSummary, error) {
	return s.repo.ByDepartment(ctx, scope(actor))
}
