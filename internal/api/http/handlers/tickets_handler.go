package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/auth"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/service"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	router    *service.RouterService
	lifecycle *service.LifecycleService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(router *service.RouterService, lifecycle *service.LifecycleService) *TicketsHandler {
	return &TicketsHandler{router: router, lifecycle: lifecycle}
}

// LaunchTicket POST /tickets.
func (h *TicketsHandler) LaunchTicket(c *fiber.Ctx) error {
	var req dto.LaunchTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Content) == "" || strings.TrimSpace(req.IssuerEmail) == "" {
		return apperrors.NewValidationError("subject, content, issuer_email required", nil)
	}

	ticket := &domain.Ticket{
		Subject:     strings.TrimSpace(req.Subject),
		Content:     strings.TrimSpace(req.Content),
		IssuerEmail: strings.TrimSpace(req.IssuerEmail),
		Attachment:  req.Attachment,
	}
	ticket, err := h.router.LaunchTicket(c.UserContext(), ticket)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// UpdateTicket PUT /tickets/status.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.TicketID == "" || req.Status == "" {
		return apperrors.NewValidationError("ticket_id and status required", nil)
	}

	ticket, err := h.lifecycle.UpdateTicket(c.UserContext(), req.TicketID, req.Status, req.Reply)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// MyTickets GET /tickets/mine.
func (h *TicketsHandler) MyTickets(c *fiber.Ctx) error {
	agent, ok := auth.AgentFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("agent required")
	}
	tickets, err := h.lifecycle.GetMyTickets(c.UserContext(), agent.Email)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Notifications GET /tickets/notifications.
func (h *TicketsHandler) Notifications(c *fiber.Ctx) error {
	agent, ok := auth.AgentFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("agent required")
	}
	tickets, err := h.lifecycle.GetMyTickets(c.UserContext(), agent.Email)
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketSummary(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	resp := dto.TicketResponse{
		ID:          ticket.ID,
		Subject:     ticket.Subject,
		Content:     ticket.Content,
		IssuerEmail: ticket.IssuerEmail,
		Attachment:  ticket.Attachment,
		Replies:     ticket.Replies,
		Priority:    ticket.Priority,
		Category:    ticket.Category,
		Status:      ticket.Status,
		AssigneeID:  ticket.AssigneeID,
		LaunchedAt:  ticket.LaunchedAt,
		ServedAt:    ticket.ServedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}
	if ticket.Elapsed != nil {
		seconds := int64(ticket.Elapsed.Seconds())
		resp.ElapsedSeconds = &seconds
	}
	if resp.Replies == nil {
		resp.Replies = []string{}
	}
	return resp
}

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:          ticket.ID,
		Subject:     ticket.Subject,
		IssuerEmail: ticket.IssuerEmail,
		Attachment:  ticket.Attachment,
		Priority:    ticket.Priority,
		Category:    ticket.Category,
		Status:      ticket.Status,
		LaunchedAt:  ticket.LaunchedAt,
	}
}
