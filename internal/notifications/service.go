package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MinThiha23/exco-budget-management-system-sub001/internal/programs"
)

// Directory resolves which users hold a given role, so reviewer-facing
// events can reach everyone on the review desk.
type Directory interface {
	ActiveIDsByRole(ctx context.Context, roles ...programs.Role) ([]uuid.UUID, error)
}

type Service struct {
	repo      Repository
	directory Directory
	hub       *Hub
	logger    *zap.Logger
}

func NewService(repo Repository, directory Directory, hub *Hub, logger *zap.Logger) *Service {
	return &Service{repo: repo, directory: directory, hub: hub, logger: logger}
}

// ProgramTransitioned stores notification records for everyone who
// should hear about the action and pushes them to live connections.
// Failures are logged and swallowed; a lost notification never rolls
// back a transition.
func (s *Service) ProgramTransitioned(ctx context.Context, program *programs.Program, action programs.Action, actor programs.Actor) {
	recipients, err := s.recipients(ctx, program, actor)
	if err != nil {
		s.logger.Warn("resolving notification recipients failed",
			zap.String("program_id", program.ID.String()),
			zap.Error(err))
		return
	}
	if len(recipients) == 0 {
		return
	}

	title, message := transitionText(program, action, actor)
	items := make([]Notification, 0, len(recipients))
	for _, userID := range recipients {
		items = append(items, Notification{
			UserID:    userID,
			ProgramID: program.ID,
			Kind:      KindTransition,
			Title:     title,
			Message:   message,
		})
	}
	if err := s.repo.CreateBatch(ctx, items); err != nil {
		s.logger.Warn("storing notifications failed",
			zap.String("program_id", program.ID.String()),
			zap.Error(err))
		return
	}

	ids := make([]string, 0, len(recipients))
	for _, id := range recipients {
		ids = append(ids, id.String())
	}
	s.hub.Deliver(ids, Envelope{
		Kind:      KindTransition,
		ProgramID: program.ID,
		Status:    program.Status,
		Title:     title,
		Message:   message,
		SentAt:    time.Now(),
	})
}

// RemindPendingQuery tells a program owner that a query has been
// waiting for an answer past the reminder threshold.
func (s *Service) RemindPendingQuery(ctx context.Context, programID, ownerID uuid.UUID, title string, pendingSince time.Time) error {
	message := fmt.Sprintf("%q has a query awaiting your answer since %s.",
		title, pendingSince.Format("2 Jan 2006"))
	items := []Notification{{
		UserID:    ownerID,
		ProgramID: programID,
		Kind:      KindQueryReminder,
		Title:     "Query awaiting answer",
		Message:   message,
	}}
	if err := s.repo.CreateBatch(ctx, items); err != nil {
		return err
	}
	s.hub.Deliver([]string{ownerID.String()}, Envelope{
		Kind:      KindQueryReminder,
		ProgramID: programID,
		Title:     "Query awaiting answer",
		Message:   message,
		SentAt:    time.Now(),
	})
	return nil
}

func (s *Service) ListForActor(ctx context.Context, actor programs.Actor, unreadOnly bool) ([]Notification, error) {
	return s.repo.ListByUser(ctx, actor.ID, unreadOnly)
}

func (s *Service) MarkRead(ctx context.Context, actor programs.Actor, notificationID uuid.UUID) error {
	return s.repo.MarkRead(ctx, actor.ID, notificationID)
}

func (s *Service) MarkAllRead(ctx context.Context, actor programs.Actor) error {
	return s.repo.MarkAllRead(ctx, actor.ID)
}

// recipients picks the audience for a transition. Owner actions go to
// the review desk; reviewer actions go to the owner. The acting user
// never gets notified about their own action.
func (s *Service) recipients(ctx context.Context, program *programs.Program, actor programs.Actor) ([]uuid.UUID, error) {
	if actor.ID == program.UserID {
		return s.directory.ActiveIDsByRole(ctx, programs.RoleFinance, programs.RoleFinanceMMK)
	}
	return []uuid.UUID{program.UserID}, nil
}

func transitionText(program *programs.Program, action programs.Action, actor programs.Actor) (string, string) {
	var title string
	switch action {
	case programs.ActionSubmit:
		title = "Program submitted for review"
	case programs.ActionQuery:
		title = "Query raised on your program"
	case programs.ActionAnswerQuery:
		title = "Query answered"
	case programs.ActionApprove:
		title = "Program approved"
	case programs.ActionReject:
		title = "Program rejected"
	case programs.ActionDeductBudget:
		title = "Budget deduction recorded"
	case programs.ActionAcceptDocument:
		title = "Documents accepted by MMK"
	default:
		title = "Program updated"
	}
	message := fmt.Sprintf("%s performed %q on %q (now %s).",
		actor.Name, action, program.Title, program.Status.Meta().Label)
	return title, message
}
