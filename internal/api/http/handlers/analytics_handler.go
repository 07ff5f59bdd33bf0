package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/auth"
	"github.com/spec-kit/support-desk/internal/service"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// AnalyticsHandler exposes the reporting endpoints.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// System GET /analytics/system.
func (h *AnalyticsHandler) System(c *fiber.Ctx) error {
	report, err := h.analytics.SystemAnalytics(c.UserContext())
	if err != nil {
		return err
	}

	resp := dto.SystemAnalyticsResponse{
		TotalAgents:    report.TotalAgents,
		OpenTickets:    report.OpenTickets,
		TicketsLast24h: report.TicketsLast24h,
		Agents:         make([]dto.AgentPerformanceResponse, 0, len(report.Agents)),
	}
	for _, perf := range report.Agents {
		distribution := make(map[string]int, len(perf.PriorityDistribution))
		for priority, count := range perf.PriorityDistribution {
			distribution[string(priority)] = count
		}
		resp.Agents = append(resp.Agents, dto.AgentPerformanceResponse{
			AgentID:                 perf.AgentID,
			Email:                   perf.Email,
			FirstName:               perf.FirstName,
			LastName:                perf.LastName,
			OpenTickets:             perf.OpenTickets,
			OldOpenTickets:          perf.OldOpenTickets,
			FirstResponseCompliance: perf.FirstResponseCompliance,
			PriorityDistribution:    distribution,
		})
	}
	return c.JSON(fiber.Map{"data": resp})
}

// MyStats GET /analytics/stats.
func (h *AnalyticsHandler) MyStats(c *fiber.Ctx) error {
	agent, ok := auth.AgentFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("agent required")
	}
	stats, err := h.analytics.StatsByAgent(c.UserContext(), agent.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AgentStatsResponse{
		DailyTickets:   stats.DailyTickets,
		SolvedDaily:    stats.SolvedDaily,
		WeeklyTickets:  stats.WeeklyTickets,
		SolvedWeekly:   stats.SolvedWeekly,
		MonthlyTickets: stats.MonthlyTickets,
		SolvedMonthly:  stats.SolvedMonthly,
	}})
}

// Statistics GET /analytics/statistics.
func (h *AnalyticsHandler) Statistics(c *fiber.Ctx) error {
	stats, err := h.analytics.Statistics(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.StatisticsResponse{
		AvgResolveTimeSeconds: stats.AvgResolveTimeSeconds,
	}})
}

// Analysis GET /analytics/tickets/:id.
func (h *AnalyticsHandler) Analysis(c *fiber.Ctx) error {
	record, err := h.analytics.GetAnalysis(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": record})
}

// Replies GET /analytics/tickets/:id/replies.
func (h *AnalyticsHandler) Replies(c *fiber.Ctx) error {
	replies, err := h.analytics.AssociatedReplies(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": replies})
}
