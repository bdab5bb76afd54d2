package stats

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/MinThiha23/exco-budget-management-system-sub001/internal/programs"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Overview(ctx context.Context, ownerID *uuid.UUID) (*Overview, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Overview), args.Error(1)
}

func (m *MockRepository) ByDepartment(ctx context.Context, ownerID *uuid.UUID) ([]DepartmentSummary, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]DepartmentSummary), args.Error(1)
}

func TestOverviewScopesOwnersToTheirPrograms(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, zap.NewNop())

	owner := programs.Actor{ID: uuid.New(), Role: programs.RoleUser}
	repo.On("Overview", mock.Anything, mock.MatchedBy(func(id *uuid.UUID) bool {
		return id != nil && *id == owner.ID
	})).Return(&Overview{TotalPrograms: 3}, nil)

	overview, err := svc.Overview(context.Background(), owner)
	assert.NoError(t, err)
	assert.Equal(t, 3, overview.TotalPrograms)
	repo.AssertExpectations(t)
}

func TestOverviewUnscopedForReviewers(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, zap.NewNop())

	reviewer := programs.Actor{ID: uuid.New(), Role: programs.RoleFinance}
	repo.On("Overview", mock.Anything, (*uuid.UUID)(nil)).
		Return(&Overview{TotalPrograms: 42}, nil)

	overview, err := svc.Overview(context.Background(), reviewer)
	assert.NoError(t, err)
	assert.Equal(t, 42, overview.TotalPrograms)
}

func TestByDepartmentUnscopedForAdmin(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, zap.NewNop())

	admin := programs.Actor{ID: uuid.New(), Role: programs.RoleAdmin}
	repo.On("ByDepartment", mock.Anything, (*uuid.UUID)(nil)).
		Return([]DepartmentSummary{{Department: "health", ProgramCount: 2}}, nil)

	summaries, err := svc.ByDepartment(context.Background(), admin)
	assert.NoError(t, err)
	assert.Len(t, summaries, 1)
}
