package documents

import (
	"context"
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

func (m *MockRepository) Create(ctx context.Context, doc *ProgramDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*ProgramDocument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ProgramDocument), args.Error(1)
}

func (m *MockRepository) ListByProgram(ctx context.Context, programID uuid.UUID) ([]ProgramDocument, error) {
	args := m.Called(ctx, programID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ProgramDocument), args.Error(1)
}

func (m *MockRepository) LatestVersion(ctx context.Context, programID uuid.UUID, category Category) (int, error) {
	args := m.Called(ctx, programID, category)
	return args.Int(0), args.Error(1)
}

type MockProgramRepository struct {
	mock.Mock
}

func (m *MockProgramRepository) Create(ctx context.Context, program *programs.Program) error {
	args := m.Called(ctx, program)
	return args.Error(0)
}

func (m *MockProgramRepository) GetByID(ctx context.Context, id uuid.UUID) (*programs.Program, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*programs.Program), args.Error(1)
}

func (m *MockProgramRepository) List(ctx context.Context, filter programs.ProgramFilter) ([]*programs.Program, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*programs.Program), args.Error(1)
}

func (m *MockProgramRepository) Update(ctx context.Context, program *programs.Program, expectedUpdatedAt time.Time) error {
	args := m.Called(ctx, program, expectedUpdatedAt)
	return args.Error(0)
}

func (m *MockProgramRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestProgram(ownerID uuid.UUID) *programs.Program {
	return &programs.Program{
		ID:     uuid.New(),
		Title:  "Rural Clinic Outreach",
		Status: programs.StatusSubmitted,
		UserID: ownerID,
	}
}

func TestAttachAssignsNextVersion(t *testing.T) {
	repo := new(MockRepository)
	programRepo := new(MockProgramRepository)
	svc := NewService(repo, programRepo, zap.NewNop())

	owner := programs.Actor{ID: uuid.New(), Role: programs.RoleUser, Name: "Amir"}
	program := newTestProgram(owner.ID)

	programRepo.On("GetByID", mock.Anything, program.ID).Return(program, nil)
	repo.On("LatestVersion", mock.Anything, program.ID, CategoryQuotation).Return(2, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(d *ProgramDocument) bool {
		return d.Version == 3 && d.Category == CategoryQuotation && d.UploadedBy == owner.ID
	})).Return(nil)

	doc, err := svc.Attach(context.Background(), owner, program.ID, AttachRequest{
		Category:  CategoryQuotation,
		FileName:  "quotation-v3.pdf",
		Reference: "uploads/quotation-v3.pdf",
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, doc.Version)
	repo.AssertExpectations(t)
}

func TestAttachRejectsUnknownCategory(t *testing.T) {
	repo := new(MockRepository)
	programRepo := new(MockProgramRepository)
	svc := NewService(repo, programRepo, zap.NewNop())

	owner := programs.Actor{ID: uuid.New(), Role: programs.RoleUser}
	_, err := svc.Attach(context.Background(), owner, uuid.New(), AttachRequest{
		Category:  "passport_scan",
		FileName:  "scan.pdf",
		Reference: "uploads/scan.pdf",
	})
	assert.ErrorIs(t, err, programs.ErrValidationFailed)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAttachForbiddenForOtherOwner(t *testing.T) {
	repo := new(MockRepository)
	programRepo := new(MockProgramRepository)
	svc := NewService(repo, programRepo, zap.NewNop())

	program := newTestProgram(uuid.New())
	stranger := programs.Actor{ID: uuid.New(), Role: programs.RoleUser}
	programRepo.On("GetByID", mock.Anything, program.ID).Return(program, nil)

	_, err := svc.Attach(context.Background(), stranger, program.ID, AttachRequest{
		Category:  CategoryProposal,
		FileName:  "proposal.pdf",
		Reference: "uploads/proposal.pdf",
	})
	assert.ErrorIs(t, err, programs.ErrForbidden)
}

func TestAttachAllowedForFinanceReviewer(t *testing.T) {
	repo := new(MockRepository)
	programRepo := new(MockProgramRepository)
	svc := NewService(repo, programRepo, zap.NewNop())

	program := newTestProgram(uuid.New())
	reviewer := programs.Actor{ID: uuid.New(), Role: programs.RoleFinance, Name: "Farah"}
	programRepo.On("GetByID", mock.Anything, program.ID).Return(program, nil)
	repo.On("LatestVersion", mock.Anything, program.ID, CategoryPaymentVoucher).Return(0, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	doc, err := svc.Attach(context.Background(), reviewer, program.ID, AttachRequest{
		Category:  CategoryPaymentVoucher,
		FileName:  "voucher.pdf",
		Reference: "uploads/voucher.pdf",
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, doc.Version)
}

func TestAttachDeniedOnClosedProgram(t *testing.T) {
	repo := new(MockRepository)
	programRepo := new(MockProgramRepository)
	svc := NewService(repo, programRepo, zap.NewNop())

	owner := programs.Actor{ID: uuid.New(), Role: programs.RoleUser, Name: "Amir"}
	reviewer := programs.Actor{ID: uuid.New(), Role: programs.RoleFinanceMMK, Name: "Mei Ling"}

	for _, status := range []programs.Status{programs.StatusRejected, programs.StatusPaymentCompleted} {
		for _, actor := range []programs.Actor{owner, reviewer} {
			program := newTestProgram(owner.ID)
			program.Status = status
			programRepo.On("GetByID", mock.Anything, program.ID).Return(program, nil)

			_, err := svc.Attach(context.Background(), actor, program.ID, AttachRequest{
				Category:  CategoryAcceptanceProof,
				FileName:  "late.pdf",
				Reference: "uploads/late.pdf",
			})
			assert.ErrorIs(t, err, programs.ErrIllegalTransition,
				"status=%s role=%s", status, actor.Role)
		}
	}
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestChecklistReportsCurrentVersions(t *testing.T) {
	repo := new(MockRepository)
	programRepo := new(MockProgramRepository)
	svc := NewService(repo, programRepo, zap.NewNop())

	owner := programs.Actor{ID: uuid.New(), Role: programs.RoleUser}
	program := newTestProgram(owner.ID)
	programRepo.On("GetByID", mock.Anything, program.ID).Return(program, nil)
	repo.On("ListByProgram", mock.Anything, program.ID).Return([]ProgramDocument{
		{ProgramID: program.ID, Category: CategoryProposal, Version: 1, FileName: "proposal-v1.pdf"},
		{ProgramID: program.ID, Category: CategoryProposal, Version: 2, FileName: "proposal-v2.pdf"},
		{ProgramID: program.ID, Category: CategoryQuotation, Version: 1, FileName: "quotation.pdf"},
	}, nil)

	entries, err := svc.Checklist(context.Background(), owner, program.ID)
	assert.NoError(t, err)
	assert.Len(t, entries, len(Categories))

	byCategory := make(map[Category]ChecklistEntry, len(entries))
	for _, e := range entries {
		byCategory[e.Category] = e
	}
	assert.Equal(t, 2, byCategory[CategoryProposal].VersionCount)
	assert.Equal(t, "proposal-v2.pdf", byCategory[CategoryProposal].Current.FileName)
	assert.Equal(t, 1, byCategory[CategoryQuotation].VersionCount)
	assert.Nil(t, byCategory[CategoryBankStatement].Current)
}

func TestHistoryScopedToCategory(t *testing.T) {
	repo := new(MockRepository)
	programRepo := new(MockProgramRepository)
	svc := NewService(repo, programRepo, zap.NewNop())

	owner := programs.Actor{ID: uuid.New(), Role: programs.RoleUser}
	program := newTestProgram(owner.ID)
	programRepo.On("GetByID", mock.Anything, program.ID).Return(program, nil)
	repo.On("ListByProgram", mock.Anything, program.ID).Return([]ProgramDocument{
		{Category: CategoryProposal, Version: 1},
		{Category: CategoryProposal, Version: 2},
		{Category: CategoryQuotation, Version: 1},
	}, nil)

	history, err := svc.History(context.Background(), owner, program.ID, CategoryProposal)
	assert.NoError(t, err)
	assert.Len(t, history, 2)
	assert.Equal(t, 2, history[1].Version)
}
