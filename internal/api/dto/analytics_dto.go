package dto

// AgentPerformanceResponse is one agent's row in the system report.
type AgentPerformanceResponse struct {
	AgentID                 string         `json:"agent_id"`
	Email                   string         `json:"email"`
	FirstName               string         `json:"first_name"`
	LastName                string         `json:"last_name"`
	OpenTickets             int            `json:"open_tickets"`
	OldOpenTickets          int            `json:"old_open_tickets"`
	FirstResponseCompliance float64        `json:"first_response_compliance"`
	PriorityDistribution    map[string]int `json:"priority_distribution"`
}

// SystemAnalyticsResponse is the system-wide report.
type SystemAnalyticsResponse struct {
	TotalAgents    int                        `json:"total_agents"`
	OpenTickets    int                        `json:"open_tickets"`
	TicketsLast24h int                        `json:"tickets_last_24h"`
	Agents         []AgentPerformanceResponse `json:"agents"`
}

// AgentStatsResponse holds the rolling-window counters for one agent.
type AgentStatsResponse struct {
	DailyTickets   int64 `json:"daily_tickets"`
	SolvedDaily    int64 `json:"solved_daily"`
	WeeklyTickets  int64 `json:"weekly_tickets"`
	SolvedWeekly   int64 `json:"solved_weekly"`
	MonthlyTickets int64 `json:"monthly_tickets"`
	SolvedMonthly  int64 `json:"solved_monthly"`
}

// StatisticsResponse is the global summary.
type StatisticsResponse struct {
	AvgResolveTimeSeconds float64 `json:"avg_resolve_time_seconds"`
}
