package dto

import (
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

// LaunchTicketRequest payload.
type LaunchTicketRequest struct {
	Subject     string `json:"subject"`
	Content     string `json:"content"`
	IssuerEmail string `json:"issuer_email"`
	Attachment  string `json:"attachment,omitempty"`
}

// UpdateTicketRequest payload.
type UpdateTicketRequest struct {
	TicketID string              `json:"ticket_id"`
	Status   domain.TicketStatus `json:"status"`
	Reply    string              `json:"reply,omitempty"`
}

// TicketResponse is the full ticket view.
type TicketResponse struct {
	ID             string                `json:"id"`
	Subject        string                `json:"subject"`
	Content        string                `json:"content"`
	IssuerEmail    string                `json:"issuer_email"`
	Attachment     string                `json:"attachment,omitempty"`
	Replies        []string              `json:"replies"`
	Priority       domain.TicketPriority `json:"priority"`
	Category       domain.TicketCategory `json:"category"`
	Status         domain.TicketStatus   `json:"status"`
	AssigneeID     string                `json:"assignee_id"`
	LaunchedAt     time.Time             `json:"launched_at"`
	ServedAt       *time.Time            `json:"served_at,omitempty"`
	UpdatedAt      time.Time             `json:"updated_at"`
	ElapsedSeconds *int64                `json:"elapsed_seconds,omitempty"`
}

// TicketSummary is the condensed queue/notification view.
type TicketSummary struct {
	ID          string                `json:"id"`
	Subject     string                `json:"subject"`
	IssuerEmail string                `json:"issuer_email"`
	Attachment  string                `json:"attachment,omitempty"`
	Priority    domain.TicketPriority `json:"priority"`
	Category    domain.TicketCategory `json:"category"`
	Status      domain.TicketStatus   `json:"status"`
	LaunchedAt  time.Time             `json:"launched_at"`
}
