package notify

import "github.com/spec-kit/support-desk/internal/domain"

// Notifier is the outbound notification gateway consumed by services. Every
// method is fire-and-forget: delivery runs outside the caller's control flow
// and failures never surface to the originating operation.
type Notifier interface {
	Welcome(agent *domain.Agent, initialPassword string)
	TicketCreated(ticket *domain.Ticket, agent *domain.Agent)
	TicketOpened(ticket *domain.Ticket)
	TicketUpdated(ticket *domain.Ticket, agent *domain.Agent)
	TicketClosed(ticket *domain.Ticket, reply string)
	PasswordReset(email, code string)
}

// Message is a rendered notification ready for transport.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers a rendered message over some transport.
type Sender interface {
	Send(msg Message) error
}
