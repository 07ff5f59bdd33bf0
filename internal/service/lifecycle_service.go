package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/analytics"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/notify"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

const closedWithoutComments = "Ticket closed without additional comments."

// LifecycleService owns ticket status transitions after routing.
type LifecycleService struct {
	tickets  repository.TicketRepository
	agents   repository.AgentRepository
	analysis repository.AnalysisRepository
	notifier notify.Notifier
	logger   *zap.Logger

	now func() time.Time
}

// LifecycleDependencies bundles collaborators for the lifecycle service.
type LifecycleDependencies struct {
	TicketRepo   repository.TicketRepository
	AgentRepo    repository.AgentRepository
	AnalysisRepo repository.AnalysisRepository
	Notifier     notify.Notifier
	Logger       *zap.Logger
}

// NewLifecycleService creates the service.
func NewLifecycleService(deps LifecycleDependencies) *LifecycleService {
	return &LifecycleService{
		tickets:  deps.TicketRepo,
		agents:   deps.AgentRepo,
		analysis: deps.AnalysisRepo,
		notifier: deps.Notifier,
		logger:   deps.Logger,
		now:      time.Now,
	}
}

// UpdateTicket applies a status transition, accumulates the optional reply
// and recomputes timing fields. Closing is idempotent: re-closing
// recomputes timestamps without touching the reply list. Notifications and
// projection updates are best-effort side effects of a successful write.
func (s *LifecycleService) UpdateTicket(ctx context.Context, ticketID string, newStatus domain.TicketStatus, reply string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewTicketNotFound(ticketID)
		}
		return nil, apperrors.MapError(err)
	}

	reply = strings.TrimSpace(reply)
	if reply != "" {
		ticket.Replies = append(ticket.Replies, reply)
	}

	now := s.now()
	elapsed := now.Sub(ticket.LaunchedAt)
	ticket.Status = newStatus
	ticket.Elapsed = &elapsed
	ticket.ServedAt = &now
	ticket.UpdatedAt = now

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.NewPersistenceFailure(err)
	}

	if agent, err := s.agents.GetByID(ctx, ticket.AssigneeID); err != nil {
		s.logger.Warn("assigned agent not found, skipping update notification",
			zap.String("ticket_id", ticket.ID), zap.Error(err))
	} else {
		s.notifier.TicketUpdated(ticket, agent)
	}

	if ticket.Status == domain.TicketStatusClosed {
		summary := reply
		if summary == "" {
			summary = closedWithoutComments
		}
		s.notifier.TicketClosed(ticket, summary)
		s.recordResolution(ctx, ticket, reply, now)
	}

	return ticket, nil
}

// GetMyTickets lists the tickets owned by the agent with the given email.
func (s *LifecycleService) GetMyTickets(ctx context.Context, email string) ([]domain.Ticket, error) {
	agent, err := s.agents.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("agent", map[string]any{"email": email})
		}
		return nil, apperrors.MapError(err)
	}
	tickets, err := s.tickets.ListByAssignee(ctx, agent.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// recordResolution forwards the closing reply to the projection and marks it
// resolved. Failures here never reach the caller.
func (s *LifecycleService) recordResolution(ctx context.Context, ticket *domain.Ticket, reply string, now time.Time) {
	record, err := s.analysis.GetByTicketID(ctx, ticket.ID)
	if err != nil {
		s.logger.Warn("analysis record unavailable",
			zap.String("ticket_id", ticket.ID), zap.Error(err))
		return
	}
	if reply != "" {
		record.AddReply(reply, analytics.AuthorAgent, now)
	}
	record.MarkResolved(now)
	if err := s.analysis.Save(ctx, record); err != nil {
		s.logger.Error("failed to save analysis record",
			zap.String("ticket_id", ticket.ID), zap.Error(err))
	}
}
