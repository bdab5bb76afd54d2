package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/MinThiha23/exco-budget-management-system-sub001/internal/programs"
)

// ErrInvalidCredentials covers both unknown emails and wrong passwords
// so login failures do not reveal which accounts exist.
var ErrInvalidCredentials = errors.New("invalid email or password")

type CreateUserRequest struct {
	Name       string        `json:"name" binding:"required"`
	Email      string        `json:"email" binding:"required,email"`
	Password   string        `json:"password" binding:"required,min=8"`
	Role       programs.Role `json:"role" binding:"required"`
	Department string        `json:"department"`
}

type Service interface {
	Create(ctx context.Context, req CreateUserRequest) (*User, error)
	Get(ctx context.Context, id uuid.UUID) (*User, error)
	List(ctx context.Context) ([]User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role programs.Role) (*User, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Authenticate(ctx context.Context, email, password string) (*User, error)
}

type userService struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &userService{repo: repo, logger: logger}
}

func (s *userService) Create(ctx context.Context, req CreateUserRequest) (*User, error) {
	if !req.Role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", programs.ErrValidationFailed, req.Role)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	user := &User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		Department:   req.Department,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	s.logger.Info("user created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))
	return user, nil
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *userService) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *userService) UpdateRole(ctx context.Context, id uuid.UUID, role programs.Role) (*User, error) {
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", programs.ErrValidationFailed, role)
	}
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Role = role
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("updating role: %w", err)
	}
	s.logger.Info("user role changed",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(role)))
	return user, nil
}

func (s *userService) Deactivate(ctx context.Context, id uuid.UUID) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	user.IsActive = false
	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("deactivating user: %w", err)
	}
	s.logger.Info("user deactivated", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, programs.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
