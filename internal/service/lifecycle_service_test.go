package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/analytics"
	"github.com/spec-kit/support-desk/internal/domain"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

func newLifecycleForTest(tickets *mockTicketRepo, agents *mockAgentRepo, analysis *mockAnalysisRepo, notifier *mockNotifier) *LifecycleService {
	svc := NewLifecycleService(LifecycleDependencies{
		TicketRepo:   tickets,
		AgentRepo:    agents,
		AnalysisRepo: analysis,
		Notifier:     notifier,
		Logger:       zap.NewNop(),
	})
	svc.now = func() time.Time { return time.Date(2024, 11, 4, 14, 0, 0, 0, time.UTC) }
	return svc
}

func storedTicket() *domain.Ticket {
	return &domain.Ticket{
		ID:          "t-1",
		Subject:     "printer on fire",
		Content:     "details",
		IssuerEmail: "customer@example.com",
		Priority:    domain.TicketPriorityHigh,
		Category:    domain.TicketCategorySupport,
		Status:      domain.TicketStatusOpen,
		AssigneeID:  "agent-1",
		LaunchedAt:  time.Date(2024, 11, 4, 10, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2024, 11, 4, 10, 0, 0, 0, time.UTC),
	}
}

func assignedAgent() *domain.Agent {
	return &domain.Agent{ID: "agent-1", Email: "agent@desk.test", Role: domain.AgentRoleAgent}
}

func TestUpdateTicketNotFound(t *testing.T) {
	tickets := &mockTicketRepo{
		GetByIDFn: func(ctx context.Context, id string) (*domain.Ticket, error) {
			return nil, pgx.ErrNoRows
		},
		UpdateFn: func(ctx context.Context, ticket *domain.Ticket) error {
			t.Fatal("no update expected")
			return nil
		},
	}
	notifier := &mockNotifier{}
	svc := newLifecycleForTest(tickets, &mockAgentRepo{}, &mockAnalysisRepo{}, notifier)

	_, err := svc.UpdateTicket(context.Background(), "missing", domain.TicketStatusClosed, "")

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
	assert.Empty(t, notifier.updated)
	assert.Empty(t, notifier.closed)
}

func TestUpdateTicketAppendsTrimmedReply(t *testing.T) {
	current := storedTicket()
	var updated *domain.Ticket
	tickets := &mockTicketRepo{
		GetByIDFn: func(ctx context.Context, id string) (*domain.Ticket, error) { return current, nil },
		UpdateFn: func(ctx context.Context, ticket *domain.Ticket) error {
			updated = ticket
			return nil
		},
	}
	agents := &mockAgentRepo{
		GetByIDFn: func(ctx context.Context, id string) (*domain.Agent, error) { return assignedAgent(), nil },
	}
	notifier := &mockNotifier{}
	svc := newLifecycleForTest(tickets, agents, &mockAnalysisRepo{}, notifier)

	ticket, err := svc.UpdateTicket(context.Background(), "t-1", domain.TicketStatusInProgress, "  working on it  ")
	require.NoError(t, err)

	assert.Equal(t, []string{"working on it"}, ticket.Replies)
	assert.Equal(t, domain.TicketStatusInProgress, ticket.Status)
	require.NotNil(t, ticket.ServedAt)
	assert.Equal(t, svc.now(), *ticket.ServedAt)
	require.NotNil(t, ticket.Elapsed)
	assert.Equal(t, 4*time.Hour, *ticket.Elapsed)
	assert.Same(t, updated, ticket)
	assert.Equal(t, []string{"agent@desk.test"}, notifier.updated)
	assert.Empty(t, notifier.closed)
}

func TestUpdateTicketBlankReplyNotAppended(t *testing.T) {
	current := storedTicket()
	tickets := &mockTicketRepo{
		GetByIDFn: func(ctx context.Context, id string) (*domain.Ticket, error) { return current, nil },
		UpdateFn:  func(ctx context.Context, ticket *domain.Ticket) error { return nil },
	}
	agents := &mockAgentRepo{
		GetByIDFn: func(ctx context.Context, id string) (*domain.Agent, error) { return assignedAgent(), nil },
	}
	svc := newLifecycleForTest(tickets, agents, &mockAnalysisRepo{}, &mockNotifier{})

	ticket, err := svc.UpdateTicket(context.Background(), "t-1", domain.TicketStatusInProgress, "   ")
	require.NoError(t, err)
	assert.Empty(t, ticket.Replies)
}

func TestUpdateTicketCloseSendsResolutionAndProjects(t *testing.T) {
	current := storedTicket()
	launched := current.LaunchedAt
	record := analytics.NewTicketAnalysis(current, launched)

	var savedRecord *analytics.TicketAnalysis
	analysisRepo := &mockAnalysisRepo{
		GetByTicketIDFn: func(ctx context.Context, ticketID string) (*analytics.TicketAnalysis, error) {
			return record, nil
		},
		SaveFn: func(ctx context.Context, r *analytics.TicketAnalysis) error {
			savedRecord = r
			return nil
		},
	}
	tickets := &mockTicketRepo{
		GetByIDFn: func(ctx context.Context, id string) (*domain.Ticket, error) { return current, nil },
		UpdateFn:  func(ctx context.Context, ticket *domain.Ticket) error { return nil },
	}
	agents := &mockAgentRepo{
		GetByIDFn: func(ctx context.Context, id string) (*domain.Agent, error) { return assignedAgent(), nil },
	}
	notifier := &mockNotifier{}
	svc := newLifecycleForTest(tickets, agents, analysisRepo, notifier)

	ticket, err := svc.UpdateTicket(context.Background(), "t-1", domain.TicketStatusClosed, "replaced the fuser")
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusClosed, ticket.Status)
	assert.Equal(t, []string{"customer@example.com"}, notifier.closed)
	assert.Equal(t, []string{"replaced the fuser"}, notifier.closedMsg)

	require.NotNil(t, savedRecord)
	assert.Equal(t, domain.TicketStatusClosed, savedRecord.Status)
	assert.Equal(t, []string{"replaced the fuser"}, savedRecord.Replies)
	require.NotNil(t, savedRecord.ResolutionTimeMinutes)
	assert.Equal(t, int64(240), *savedRecord.ResolutionTimeMinutes)
	assert.Equal(t, analytics.SLAMet, savedRecord.SLAStatus)
	require.NotNil(t, savedRecord.FirstResponseAt)
}

func TestUpdateTicketCloseWithoutReplyUsesDefaultSummary(t *testing.T) {
	current := storedTicket()
	analysisRepo := &mockAnalysisRepo{
		GetByTicketIDFn: func(ctx context.Context, ticketID string) (*analytics.TicketAnalysis, error) {
			return analytics.NewTicketAnalysis(current, current.LaunchedAt), nil
		},
		SaveFn: func(ctx context.Context, r *analytics.TicketAnalysis) error { return nil },
	}
	tickets := &mockTicketRepo{
		GetByIDFn: func(ctx context.Context, id string) (*domain.Ticket, error) { return current, nil },
		UpdateFn:  func(ctx context.Context, ticket *domain.Ticket) error { return nil },
	}
	agents := &mockAgentRepo{
		GetByIDFn: func(ctx context.Context, id string) (*domain.Agent, error) { return assignedAgent(), nil },
	}
	notifier := &mockNotifier{}
	svc := newLifecycleForTest(tickets, agents, analysisRepo, notifier)

	ticket, err := svc.UpdateTicket(context.Background(), "t-1", domain.TicketStatusClosed, "")
	require.NoError(t, err)

	assert.Empty(t, ticket.Replies)
	assert.Equal(t, []string{closedWithoutComments}, notifier.closedMsg)
}

func TestUpdateTicketRecloseIsIdempotent(t *testing.T) {
	current := storedTicket()
	current.Status = domain.TicketStatusClosed
	current.Replies = []string{"replaced the fuser"}
	earlier := current.LaunchedAt.Add(time.Hour)
	current.ServedAt = &earlier
	staleElapsed := time.Hour
	current.Elapsed = &staleElapsed

	analysisRepo := &mockAnalysisRepo{
		GetByTicketIDFn: func(ctx context.Context, ticketID string) (*analytics.TicketAnalysis, error) {
			return analytics.NewTicketAnalysis(current, current.LaunchedAt), nil
		},
		SaveFn: func(ctx context.Context, r *analytics.TicketAnalysis) error { return nil },
	}
	tickets := &mockTicketRepo{
		GetByIDFn: func(ctx context.Context, id string) (*domain.Ticket, error) { return current, nil },
		UpdateFn:  func(ctx context.Context, ticket *domain.Ticket) error { return nil },
	}
	agents := &mockAgentRepo{
		GetByIDFn: func(ctx context.Context, id string) (*domain.Agent, error) { return assignedAgent(), nil },
	}
	svc := newLifecycleForTest(tickets, agents, analysisRepo, &mockNotifier{})

	ticket, err := svc.UpdateTicket(context.Background(), "t-1", domain.TicketStatusClosed, "")
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusClosed, ticket.Status)
	assert.Equal(t, []string{"replaced the fuser"}, ticket.Replies, "re-closing leaves the reply list alone")
	require.NotNil(t, ticket.ServedAt)
	assert.Equal(t, svc.now(), *ticket.ServedAt)
	require.NotNil(t, ticket.Elapsed)
	assert.Equal(t, 4*time.Hour, *ticket.Elapsed, "elapsed recomputed from launch, not carried over")
}

func TestUpdateTicketMissingProjectionDoesNotFailClose(t *testing.T) {
	current := storedTicket()
	analysisRepo := &mockAnalysisRepo{
		GetByTicketIDFn: func(ctx context.Context, ticketID string) (*analytics.TicketAnalysis, error) {
			return nil, pgx.ErrNoRows
		},
	}
	tickets := &mockTicketRepo{
		GetByIDFn: func(ctx context.Context, id string) (*domain.Ticket, error) { return current, nil },
		UpdateFn:  func(ctx context.Context, ticket *domain.Ticket) error { return nil },
	}
	agents := &mockAgentRepo{
		GetByIDFn: func(ctx context.Context, id string) (*domain.Agent, error) { return assignedAgent(), nil },
	}
	svc := newLifecycleForTest(tickets, agents, analysisRepo, &mockNotifier{})

	_, err := svc.UpdateTicket(context.Background(), "t-1", domain.TicketStatusClosed, "done")
	require.NoError(t, err)
}

func TestGetMyTickets(t *testing.T) {
	agents := &mockAgentRepo{
		GetByEmailFn: func(ctx context.Context, email string) (*domain.Agent, error) {
			assert.Equal(t, "agent@desk.test", email)
			return assignedAgent(), nil
		},
	}
	tickets := &mockTicketRepo{
		ListByAssigneeFn: func(ctx context.Context, agentID string) ([]domain.Ticket, error) {
			assert.Equal(t, "agent-1", agentID)
			return []domain.Ticket{*storedTicket()}, nil
		},
	}
	svc := newLifecycleForTest(tickets, agents, &mockAnalysisRepo{}, &mockNotifier{})

	result, err := svc.GetMyTickets(context.Background(), "agent@desk.test")
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "t-1", result[0].ID)
}

func TestGetMyTicketsUnknownAgent(t *testing.T) {
	agents := &mockAgentRepo{
		GetByEmailFn: func(ctx context.Context, email string) (*domain.Agent, error) {
			return nil, pgx.ErrNoRows
		},
	}
	svc := newLifecycleForTest(&mockTicketRepo{}, agents, &mockAnalysisRepo{}, &mockNotifier{})

	_, err := svc.GetMyTickets(context.Background(), "nobody@desk.test")

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}
