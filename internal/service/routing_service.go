package service

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/analytics"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/notify"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// RouterService assigns newly submitted tickets to agents.
type RouterService struct {
	tickets  repository.TicketRepository
	agents   repository.AgentRepository
	analysis repository.AnalysisRepository
	notifier notify.Notifier
	logger   *zap.Logger

	now      func() time.Time
	randIntn func(int) int
}

// RouterDependencies bundles collaborators for the router.
type RouterDependencies struct {
	TicketRepo   repository.TicketRepository
	AgentRepo    repository.AgentRepository
	AnalysisRepo repository.AnalysisRepository
	Notifier     notify.Notifier
	Logger       *zap.Logger
}

// NewRouterService creates the service.
func NewRouterService(deps RouterDependencies) *RouterService {
	return &RouterService{
		tickets:  deps.TicketRepo,
		agents:   deps.AgentRepo,
		analysis: deps.AnalysisRepo,
		notifier: deps.Notifier,
		logger:   deps.Logger,
		now:      time.Now,
		randIntn: rand.Intn,
	}
}

// LaunchTicket routes a submitted ticket to the least-loaded agent and
// stamps its initial metadata. Admins are excluded from rotation; ties go
// to the first agent encountered in enumeration order. Priority is drawn
// uniformly at random from the assignable set, a deliberate placeholder
// policy. Persistence failures propagate and nothing else runs; the
// notifications and the analysis projection are best-effort afterwards.
func (s *RouterService) LaunchTicket(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error) {
	eligible, err := s.agents.ListByRole(ctx, domain.AgentRoleAgent)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if len(eligible) == 0 {
		s.logger.Warn("no agents available to assign the ticket")
		return nil, apperrors.NewNoAgentsAvailable()
	}

	counts, err := s.tickets.CountByAssignee(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	selected := &eligible[0]
	for i := 1; i < len(eligible); i++ {
		if counts[eligible[i].ID] < counts[selected.ID] {
			selected = &eligible[i]
		}
	}

	now := s.now()
	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	ticket.AssigneeID = selected.ID
	ticket.Category = domain.TicketCategorySupport
	ticket.Priority = domain.AssignablePriorities[s.randIntn(len(domain.AssignablePriorities))]
	ticket.Status = domain.TicketStatusOpen
	ticket.LaunchedAt = now
	ticket.UpdatedAt = now

	if err := s.tickets.Create(ctx, ticket); err != nil {
		s.logger.Error("failed to save support ticket", zap.Error(err))
		return nil, apperrors.NewPersistenceFailure(err)
	}

	s.notifier.TicketCreated(ticket, selected)
	s.notifier.TicketOpened(ticket)

	record := analytics.NewTicketAnalysis(ticket, now)
	if err := s.analysis.Save(ctx, record); err != nil {
		// projection write is isolated from the primary path
		s.logger.Error("failed to create analysis record",
			zap.String("ticket_id", ticket.ID), zap.Error(err))
	}

	s.logger.Info("ticket routed",
		zap.String("ticket_id", ticket.ID),
		zap.String("agent_id", selected.ID),
		zap.String("priority", string(ticket.Priority)))
	return ticket, nil
}
