package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// TicketPriority enumerates SLA urgency. CRITICAL exists for SLA
// classification but is never assigned at routing time.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "LOW"
	TicketPriorityNormal   TicketPriority = "NORMAL"
	TicketPriorityHigh     TicketPriority = "HIGH"
	TicketPriorityUrgent   TicketPriority = "URGENT"
	TicketPriorityCritical TicketPriority = "CRITICAL"
)

// AssignablePriorities is the set the router draws from when stamping a
// new ticket.
var AssignablePriorities = []TicketPriority{
	TicketPriorityLow,
	TicketPriorityNormal,
	TicketPriorityHigh,
	TicketPriorityUrgent,
}

// TicketCategory enumerates ticket categories.
type TicketCategory string

const (
	TicketCategorySupport TicketCategory = "SUPPORT"
)

// Ticket is the aggregate for support requests. AssigneeID references the
// owning agent by id; the agent side of the relation is derived from
// queries, never embedded.
type Ticket struct {
	ID          string
	Subject     string
	Content     string
	IssuerEmail string
	Attachment  string
	Replies     []string
	Priority    TicketPriority
	Category    TicketCategory
	Status      TicketStatus
	AssigneeID  string
	LaunchedAt  time.Time
	ServedAt    *time.Time
	UpdatedAt   time.Time
	Elapsed     *time.Duration
}
