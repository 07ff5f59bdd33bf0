package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/analytics"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

var analyticsNow = time.Date(2024, 11, 4, 12, 0, 0, 0, time.UTC)

func newAnalyticsForTest(tickets *mockTicketRepo, agents *mockAgentRepo, analysisRepo *mockAnalysisRepo) *AnalyticsService {
	svc := NewAnalyticsService(AnalyticsDependencies{
		TicketRepo:   tickets,
		AgentRepo:    agents,
		AnalysisRepo: analysisRepo,
		Logger:       zap.NewNop(),
	})
	svc.now = func() time.Time { return analyticsNow }
	return svc
}

func ticketFor(agentID string, status domain.TicketStatus, priority domain.TicketPriority, launchedAgo time.Duration) domain.Ticket {
	return domain.Ticket{
		ID:         "t-" + agentID,
		Status:     status,
		Priority:   priority,
		AssigneeID: agentID,
		LaunchedAt: analyticsNow.Add(-launchedAgo),
	}
}

func TestSystemAnalyticsCountsAndDistribution(t *testing.T) {
	agents := &mockAgentRepo{
		ListAllFn: func(ctx context.Context) ([]domain.Agent, error) {
			return []domain.Agent{
				{ID: "a1", Email: "a1@desk.test", FirstName: "Ann", Role: domain.AgentRoleAgent},
				{ID: "a2", Email: "a2@desk.test", FirstName: "Bob", Role: domain.AgentRoleAgent},
				{ID: "boss", Email: "boss@desk.test", Role: domain.AgentRoleAdmin},
			}, nil
		},
	}
	tickets := &mockTicketRepo{
		ListAllFn: func(ctx context.Context) ([]domain.Ticket, error) {
			return []domain.Ticket{
				ticketFor("a1", domain.TicketStatusOpen, domain.TicketPriorityHigh, 2*time.Hour),
				ticketFor("a1", domain.TicketStatusOpen, domain.TicketPriorityLow, 48*time.Hour),
				ticketFor("a1", domain.TicketStatusClosed, domain.TicketPriorityUrgent, 3*time.Hour),
				ticketFor("a2", domain.TicketStatusOpen, domain.TicketPriorityNormal, 30*time.Hour),
				// CRITICAL is outside the tracked distribution keys
				ticketFor("a2", domain.TicketStatusClosed, domain.TicketPriorityCritical, 1*time.Hour),
			}, nil
		},
	}
	svc := newAnalyticsForTest(tickets, agents, &mockAnalysisRepo{})

	report, err := svc.SystemAnalytics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.TotalAgents, "admins stay out of the per-agent report")
	assert.Equal(t, 3, report.OpenTickets)
	assert.Equal(t, 3, report.TicketsLast24h)
	require.Len(t, report.Agents, 2)

	a1 := report.Agents[0]
	assert.Equal(t, "a1", a1.AgentID)
	assert.Equal(t, 2, a1.OpenTickets)
	// only the open ticket launched within the last day counts here
	assert.Equal(t, 1, a1.OldOpenTickets)
	assert.Equal(t, 34.2, a1.FirstResponseCompliance)
	assert.Equal(t, map[domain.TicketPriority]int{
		domain.TicketPriorityHigh:   1,
		domain.TicketPriorityLow:    1,
		domain.TicketPriorityNormal: 0,
		domain.TicketPriorityUrgent: 1,
	}, a1.PriorityDistribution)

	a2 := report.Agents[1]
	assert.Equal(t, 1, a2.OpenTickets)
	assert.Equal(t, 0, a2.OldOpenTickets)
	assert.Equal(t, map[domain.TicketPriority]int{
		domain.TicketPriorityHigh:   0,
		domain.TicketPriorityLow:    0,
		domain.TicketPriorityNormal: 1,
		domain.TicketPriorityUrgent: 0,
	}, a2.PriorityDistribution)
}

func TestSystemAnalyticsInclusiveWindowBoundary(t *testing.T) {
	agents := &mockAgentRepo{
		ListAllFn: func(ctx context.Context) ([]domain.Agent, error) { return nil, nil },
	}
	tickets := &mockTicketRepo{
		ListAllFn: func(ctx context.Context) ([]domain.Ticket, error) {
			return []domain.Ticket{
				ticketFor("a1", domain.TicketStatusOpen, domain.TicketPriorityLow, 24*time.Hour),
				ticketFor("a2", domain.TicketStatusOpen, domain.TicketPriorityLow, 24*time.Hour+time.Second),
			}, nil
		},
	}
	svc := newAnalyticsForTest(tickets, agents, &mockAnalysisRepo{})

	report, err := svc.SystemAnalytics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.TicketsLast24h, "exactly at the boundary is inside; one second past is outside")
}

func TestStatsByAgentWindows(t *testing.T) {
	tickets := &mockTicketRepo{
		ListByAssigneeFn: func(ctx context.Context, agentID string) ([]domain.Ticket, error) {
			return []domain.Ticket{
				ticketFor("a1", domain.TicketStatusClosed, domain.TicketPriorityLow, 2*time.Hour),
				ticketFor("a1", domain.TicketStatusOpen, domain.TicketPriorityLow, 20*time.Hour),
				// exactly at the daily window start, still inside
				ticketFor("a1", domain.TicketStatusClosed, domain.TicketPriorityLow, 24*time.Hour),
				ticketFor("a1", domain.TicketStatusClosed, domain.TicketPriorityLow, 100*time.Hour),
				ticketFor("a1", domain.TicketStatusOpen, domain.TicketPriorityLow, 400*time.Hour),
				ticketFor("a1", domain.TicketStatusClosed, domain.TicketPriorityLow, 700*time.Hour),
			}, nil
		},
	}
	svc := newAnalyticsForTest(tickets, &mockAgentRepo{}, &mockAnalysisRepo{})

	stats, err := svc.StatsByAgent(context.Background(), "a1")
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.DailyTickets)
	assert.Equal(t, int64(2), stats.SolvedDaily)
	assert.Equal(t, int64(4), stats.WeeklyTickets)
	assert.Equal(t, int64(3), stats.SolvedWeekly)
	assert.Equal(t, int64(5), stats.MonthlyTickets)
	assert.Equal(t, int64(3), stats.SolvedMonthly)
}

func TestStatisticsAveragesElapsedSeconds(t *testing.T) {
	oneHour := time.Hour
	threeHours := 3 * time.Hour
	tickets := &mockTicketRepo{
		ListAllFn: func(ctx context.Context) ([]domain.Ticket, error) {
			return []domain.Ticket{
				{ID: "t1", Elapsed: &oneHour},
				{ID: "t2", Elapsed: &threeHours},
				{ID: "t3"}, // never served, excluded
			}, nil
		},
	}
	svc := newAnalyticsForTest(tickets, &mockAgentRepo{}, &mockAnalysisRepo{})

	stats, err := svc.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7200.0, stats.AvgResolveTimeSeconds)
}

func TestStatisticsEmptySetYieldsZero(t *testing.T) {
	tickets := &mockTicketRepo{
		ListAllFn: func(ctx context.Context) ([]domain.Ticket, error) { return nil, nil },
	}
	svc := newAnalyticsForTest(tickets, &mockAgentRepo{}, &mockAnalysisRepo{})

	stats, err := svc.Statistics(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.AvgResolveTimeSeconds)
}

func TestGetAnalysisNotFound(t *testing.T) {
	analysisRepo := &mockAnalysisRepo{
		GetByTicketIDFn: func(ctx context.Context, ticketID string) (*analytics.TicketAnalysis, error) {
			return nil, repository.ErrAnalysisNotFound
		},
	}
	svc := newAnalyticsForTest(&mockTicketRepo{}, &mockAgentRepo{}, analysisRepo)

	_, err := svc.GetAnalysis(context.Background(), "missing")

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestAssociatedRepliesMissingRecordYieldsEmptyList(t *testing.T) {
	analysisRepo := &mockAnalysisRepo{
		GetByTicketIDFn: func(ctx context.Context, ticketID string) (*analytics.TicketAnalysis, error) {
			return nil, repository.ErrAnalysisNotFound
		},
	}
	svc := newAnalyticsForTest(&mockTicketRepo{}, &mockAgentRepo{}, analysisRepo)

	replies, err := svc.AssociatedReplies(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, replies)
	assert.NotNil(t, replies)
}

func TestAssociatedRepliesReturnsRecordedLog(t *testing.T) {
	analysisRepo := &mockAnalysisRepo{
		GetByTicketIDFn: func(ctx context.Context, ticketID string) (*analytics.TicketAnalysis, error) {
			return &analytics.TicketAnalysis{TicketID: ticketID, Replies: []string{"first", "second"}}, nil
		},
	}
	svc := newAnalyticsForTest(&mockTicketRepo{}, &mockAgentRepo{}, analysisRepo)

	replies, err := svc.AssociatedReplies(context.Background(), "t-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, replies)
}
