package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/MinThiha23/exco-budget-management-system-sub001/internal/programs"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context) ([]User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]User), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockRepository) ActiveIDsByRole(ctx context.Context, roles ...programs.Role) ([]uuid.UUID, error) {
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

func TestCreateHashesPassword(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, zap.NewNop())

	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *User) bool {
		return u.PasswordHash != "" && u.PasswordHash != "s3cret-pass" && u.IsActive
	})).Return(nil)

	user, err := svc.Create(context.Background(), CreateUserRequest{
		Name:     "Aminah",
		Email:    "aminah@exco.gov.my",
		Password: "s3cret-pass",
		Role:     programs.RoleFinance,
	})
	assert.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-pass")))
	repo.AssertExpectations(t)
}

func TestCreateRejectsUnknownRole(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, zap.NewNop())

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Name:     "Aminah",
		Email:    "aminah@exco.gov.my",
		Password: "s3cret-pass",
		Role:     "superuser",
	})
	assert.ErrorIs(t, err, programs.ErrValidationFailed)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthenticate(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-pass"), bcrypt.MinCost)
	active := &User{
		ID:           uuid.New(),
		Email:        "aminah@exco.gov.my",
		PasswordHash: string(hash),
		Role:         programs.RoleUser,
		IsActive:     true,
	}

	t.Run("valid credentials", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, zap.NewNop())
		repo.On("GetByEmail", mock.Anything, active.Email).Return(active, nil)

		user, err := svc.Authenticate(context.Background(), active.Email, "correct-pass")
		assert.NoError(t, err)
		assert.Equal(t, active.ID, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, zap.NewNop())
		repo.On("GetByEmail", mock.Anything, active.Email).Return(active, nil)

		_, err := svc.Authenticate(context.Background(), active.Email, "wrong-pass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email maps to the same error", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, zap.NewNop())
		repo.On("GetByEmail", mock.Anything, "nobody@exco.gov.my").Return(nil, programs.ErrNotFound)

		_, err := svc.Authenticate(context.Background(), "nobody@exco.gov.my", "correct-pass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("deactivated account cannot sign in", func(t *testing.T) {
		inactive := *active
		inactive.IsActive = false
		repo := new(MockRepository)
		svc := NewService(repo, zap.NewNop())
		repo.On("GetByEmail", mock.Anything, active.Email).Return(&inactive, nil)

		_, err := svc.Authenticate(context.Background(), active.Email, "correct-pass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestDeactivate(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, zap.NewNop())

	user := &User{ID: uuid.New(), Role: programs.RoleUser, IsActive: true}
	repo.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(u *User) bool {
		return !u.IsActive
	})).Return(nil)

	assert.NoError(t, svc.Deactivate(context.Background(), user.ID))
	repo.AssertExpectations(t)
}
