package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/analytics"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// placeholderFirstResponseCompliance is attached to every agent performance
// record. TODO: compute the real percentage from projection
// first_response_time_minutes against the SLA table.
const placeholderFirstResponseCompliance = 34.2

// Rolling window sizes for per-agent stats.
const (
	dailyWindow   = 24 * time.Hour
	weeklyWindow  = 168 * time.Hour
	monthlyWindow = 672 * time.Hour
)

// AgentPerformance is one agent's row in the system analytics report.
type AgentPerformance struct {
	AgentID   string
	Email     string
	FirstName string
	LastName  string

	OpenTickets int
	// OldOpenTickets counts open tickets launched within the last 24 hours.
	// The name is inherited and at odds with the filter; the literal
	// behavior is kept on purpose.
	OldOpenTickets          int
	FirstResponseCompliance float64
	PriorityDistribution    map[domain.TicketPriority]int
}

// SystemAnalytics is the system-wide operational report.
type SystemAnalytics struct {
	TotalAgents    int
	OpenTickets    int
	TicketsLast24h int
	Agents         []AgentPerformance
}

// AgentStats holds ticket counters over the three rolling windows.
type AgentStats struct {
	DailyTickets   int64
	SolvedDaily    int64
	WeeklyTickets  int64
	SolvedWeekly   int64
	MonthlyTickets int64
	SolvedMonthly  int64
}

// Statistics is the global summary over all tickets.
type Statistics struct {
	AvgResolveTimeSeconds float64
}

// AnalyticsService computes aggregate reports over tickets and agents. All
// computations are read-only scans of the stores.
type AnalyticsService struct {
	tickets  repository.TicketRepository
	agents   repository.AgentRepository
	analysis repository.AnalysisRepository
	logger   *zap.Logger

	now func() time.Time
}

// AnalyticsDependencies bundles collaborators for the analytics service.
type AnalyticsDependencies struct {
	TicketRepo   repository.TicketRepository
	AgentRepo    repository.AgentRepository
	AnalysisRepo repository.AnalysisRepository
	Logger       *zap.Logger
}

// NewAnalyticsService creates the service.
func NewAnalyticsService(deps AnalyticsDependencies) *AnalyticsService {
	return &AnalyticsService{
		tickets:  deps.TicketRepo,
		agents:   deps.AgentRepo,
		analysis: deps.AnalysisRepo,
		logger:   deps.Logger,
		now:      time.Now,
	}
}

// SystemAnalytics scans all agents and tickets and produces the system-wide
// report with a per-agent performance record for every AGENT role member.
func (s *AnalyticsService) SystemAnalytics(ctx context.Context) (*SystemAnalytics, error) {
	agents, err := s.agents.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	tickets, err := s.tickets.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	now := s.now()
	dayStart := now.Add(-dailyWindow)

	report := &SystemAnalytics{}
	byAssignee := make(map[string][]*domain.Ticket)
	for i := range tickets {
		ticket := &tickets[i]
		byAssignee[ticket.AssigneeID] = append(byAssignee[ticket.AssigneeID], ticket)
		if ticket.Status == domain.TicketStatusOpen {
			report.OpenTickets++
		}
		if inWindow(ticket.LaunchedAt, dayStart) {
			report.TicketsLast24h++
		}
	}

	for i := range agents {
		agent := &agents[i]
		if agent.Role != domain.AgentRoleAgent {
			continue
		}
		report.TotalAgents++

		perf := AgentPerformance{
			AgentID:                 agent.ID,
			Email:                   agent.Email,
			FirstName:               agent.FirstName,
			LastName:                agent.LastName,
			FirstResponseCompliance: placeholderFirstResponseCompliance,
			PriorityDistribution: map[domain.TicketPriority]int{
				domain.TicketPriorityHigh:   0,
				domain.TicketPriorityLow:    0,
				domain.TicketPriorityNormal: 0,
				domain.TicketPriorityUrgent: 0,
			},
		}
		for _, ticket := range byAssignee[agent.ID] {
			if ticket.Status == domain.TicketStatusOpen {
				perf.OpenTickets++
				if inWindow(ticket.LaunchedAt, dayStart) {
					perf.OldOpenTickets++
				}
			}
			if _, tracked := perf.PriorityDistribution[ticket.Priority]; tracked {
				perf.PriorityDistribution[ticket.Priority]++
			}
		}
		report.Agents = append(report.Agents, perf)
	}

	return report, nil
}

// StatsByAgent computes the six window counters for one agent. Windows test
// the launch timestamp only; closure time never enters the window check.
func (s *AnalyticsService) StatsByAgent(ctx context.Context, agentID string) (*AgentStats, error) {
	tickets, err := s.tickets.ListByAssignee(ctx, agentID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	now := s.now()
	stats := &AgentStats{}
	stats.DailyTickets, stats.SolvedDaily = windowCounts(tickets, now.Add(-dailyWindow))
	stats.WeeklyTickets, stats.SolvedWeekly = windowCounts(tickets, now.Add(-weeklyWindow))
	stats.MonthlyTickets, stats.SolvedMonthly = windowCounts(tickets, now.Add(-monthlyWindow))
	return stats, nil
}

// Statistics averages elapsed duration in seconds across tickets that have
// one recorded. An empty set yields 0.
func (s *AnalyticsService) Statistics(ctx context.Context) (*Statistics, error) {
	tickets, err := s.tickets.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	var sum float64
	var counted int
	for i := range tickets {
		if tickets[i].Elapsed == nil {
			continue
		}
		sum += tickets[i].Elapsed.Seconds()
		counted++
	}
	stats := &Statistics{}
	if counted > 0 {
		stats.AvgResolveTimeSeconds = sum / float64(counted)
	}
	return stats, nil
}

// GetAnalysis fetches the projection record for a ticket.
func (s *AnalyticsService) GetAnalysis(ctx context.Context, ticketID string) (*analytics.TicketAnalysis, error) {
	record, err := s.analysis.GetByTicketID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrAnalysisNotFound) {
			return nil, apperrors.NewNotFound("ticket analysis", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return record, nil
}

// AssociatedReplies returns the reply log recorded on the projection; a
// missing record yields an empty list.
func (s *AnalyticsService) AssociatedReplies(ctx context.Context, ticketID string) ([]string, error) {
	record, err := s.analysis.GetByTicketID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrAnalysisNotFound) {
			return []string{}, nil
		}
		return nil, apperrors.MapError(err)
	}
	return record.Replies, nil
}

// inWindow applies the inclusive window test: a ticket launched exactly at
// the window start still counts.
func inWindow(launchedAt, start time.Time) bool {
	return !launchedAt.Before(start)
}

func windowCounts(tickets []domain.Ticket, start time.Time) (total, solved int64) {
	for i := range tickets {
		if !inWindow(tickets[i].LaunchedAt, start) {
			continue
		}
		total++
		if tickets[i].Status == domain.TicketStatusClosed {
			solved++
		}
	}
	return total, solved
}
