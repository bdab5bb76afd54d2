package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/MinThiha23/exco-budget-management-system-sub001/internal/programs"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateBatch(ctx context.Context, items []Notification) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockRepository) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]Notification, error) {
	args := m.Called(ctx, userID, unreadOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Notification), args.Error(1)
}

func (m *MockRepository) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}

func (m *MockRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) ActiveIDsByRole(ctx context.Context, roles ...programs.Role) ([]uuid.UUID, error) {
	callArgs := make([]interface{}, 0, len(roles)+1)
	callArgs = append(callArgs, ctx)
	for _, r := range roles {
		callArgs = append(callArgs, r)
	}
	args := m.Called(callArgs...)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func newTestService(repo Repository, directory Directory) *Service {
	return NewService(repo, directory, NewHub(zap.NewNop()), zap.NewNop())
}

func TestOwnerActionNotifiesReviewDesk(t *testing.T) {
	repo := new(MockRepository)
	directory := new(MockDirectory)
	svc := newTestService(repo, directory)

	owner := programs.Actor{ID: uuid.New(), Role: programs.RoleUser, Name: "Amir"}
	program := &programs.Program{
		ID:     uuid.New(),
		Title:  "Village Road Repair",
		Status: programs.StatusSubmitted,
		UserID: owner.ID,
	}
	reviewers := []uuid.UUID{uuid.New(), uuid.New()}
	directory.On("ActiveIDsByRole", mock.Anything, programs.RoleFinance, programs.RoleFinanceMMK).
		Return(reviewers, nil)
	repo.On("CreateBatch", mock.Anything, mock.MatchedBy(func(items []Notification) bool {
		if len(items) != 2 {
			return false
		}
		for i, item := range items {
			if item.UserID != reviewers[i] || item.Kind != KindTransition || item.ProgramID != program.ID {
				return false
			}
		}
		return true
	})).Return(nil)

	svc.ProgramTransitioned(context.Background(), program, programs.ActionSubmit, owner)
	repo.AssertExpectations(t)
	directory.AssertExpectations(t)
}

func TestReviewerActionNotifiesOwnerOnly(t *testing.T) {
	repo := new(MockRepository)
	directory := new(MockDirectory)
	svc := newTestService(repo, directory)

	ownerID := uuid.New()
	reviewer := programs.Actor{ID: uuid.New(), Role: programs.RoleFinance, Name: "Farah"}
	program := &programs.Program{
		ID:     uuid.New(),
		Title:  "Village Road Repair",
		Status: programs.StatusApproved,
		UserID: ownerID,
	}
	repo.On("CreateBatch", mock.Anything, mock.MatchedBy(func(items []Notification) bool {
		return len(items) == 1 && items[0].UserID == ownerID
	})).Return(nil)

	svc.ProgramTransitioned(context.Background(), program, programs.ActionApprove, reviewer)
	repo.AssertExpectations(t)
	directory.AssertNotCalled(t, "ActiveIDsByRole", mock.Anything, mock.Anything, mock.Anything)
}

func TestStoreFailureIsSwallowed(t *testing.T) {
	repo := new(MockRepository)
	directory := new(MockDirectory)
	svc := newTestService(repo, directory)

	ownerID := uuid.New()
	reviewer := programs.Actor{ID: uuid.New(), Role: programs.RoleFinanceMMK, Name: "Farah"}
	program := &programs.Program{ID: uuid.New(), Title: "Flood Relief", UserID: ownerID, Status: programs.StatusApproved}
	repo.On("CreateBatch", mock.Anything, mock.Anything).Return(errors.New("db down"))

	assert.NotPanics(t, func() {
		svc.ProgramTransitioned(context.Background(), program, programs.ActionAcceptDocument, reviewer)
	})
}

func TestRemindPendingQuery(t *testing.T) {
	repo := new(MockRepository)
	directory := new(MockDirectory)
	svc := newTestService(repo, directory)

	ownerID := uuid.New()
	programID := uuid.New()
	repo.On("CreateBatch", mock.Anything, mock.MatchedBy(func(items []Notification) bool {
		return len(items) == 1 &&
			items[0].UserID == ownerID &&
			items[0].Kind == KindQueryReminder &&
			items[0].ProgramID == programID
	})).Return(nil)

	err := svc.RemindPendingQuery(context.Background(), programID, ownerID, "Flood Relief", time.Now().Add(-72*time.Hour))
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}
