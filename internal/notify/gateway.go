package notify

import (
	"regexp"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/domain"
)

// emailPattern is the shape check applied before dispatch; invalid
// recipients are skipped silently.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_+&*-]+(?:\.[a-zA-Z0-9_+&*-]+)*@(?:[a-zA-Z0-9-]+\.)+[a-zA-Z]{2,7}$`)

// Gateway renders notifications and hands them to a pool of delivery
// workers. Enqueueing never blocks the request path: when the queue is full
// the message is dropped and logged. There is no retry and no ordering
// guarantee between messages.
type Gateway struct {
	sender Sender
	logger *zap.Logger
	jobs   chan Message
	wg     sync.WaitGroup

	closeOnce sync.Once
}

// NewGateway builds a gateway with the given pool size and queue depth.
func NewGateway(sender Sender, logger *zap.Logger, workers, queueSize int) *Gateway {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	g := &Gateway{
		sender: sender,
		logger: logger,
		jobs:   make(chan Message, queueSize),
	}
	for i := 0; i < workers; i++ {
		g.wg.Add(1)
		go g.worker()
	}
	return g
}

// Close drains the queue and stops the workers.
func (g *Gateway) Close() {
	g.closeOnce.Do(func() {
		close(g.jobs)
	})
	g.wg.Wait()
}

func (g *Gateway) worker() {
	defer g.wg.Done()
	for msg := range g.jobs {
		if err := g.sender.Send(msg); err != nil {
			g.logger.Error("notification delivery failed",
				zap.String("to", msg.To),
				zap.String("subject", msg.Subject),
				zap.Error(err))
		}
	}
}

func (g *Gateway) enqueue(msg Message) {
	if !emailPattern.MatchString(msg.To) {
		g.logger.Warn("invalid recipient address, notification skipped", zap.String("to", msg.To))
		return
	}
	select {
	case g.jobs <- msg:
	default:
		g.logger.Warn("notification queue full, message dropped",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject))
	}
}

// Welcome notifies a newly created agent of their account and credentials.
func (g *Gateway) Welcome(agent *domain.Agent, initialPassword string) {
	subject, body := welcomeMessage(agent, initialPassword)
	g.enqueue(Message{To: agent.Email, Subject: subject, Body: body})
}

// TicketCreated notifies the assigned agent of a newly routed ticket.
func (g *Gateway) TicketCreated(ticket *domain.Ticket, agent *domain.Agent) {
	subject, body := ticketCreatedMessage(ticket, agent)
	g.enqueue(Message{To: agent.Email, Subject: subject, Body: body})
}

// TicketOpened confirms ticket receipt to the issuer.
func (g *Gateway) TicketOpened(ticket *domain.Ticket) {
	subject, body := ticketOpenedMessage(ticket)
	g.enqueue(Message{To: ticket.IssuerEmail, Subject: subject, Body: body})
}

// TicketUpdated notifies the assigned agent of a status change.
func (g *Gateway) TicketUpdated(ticket *domain.Ticket, agent *domain.Agent) {
	subject, body := ticketUpdatedMessage(ticket, agent)
	g.enqueue(Message{To: agent.Email, Subject: subject, Body: body})
}

// TicketClosed sends the closure summary to the issuer.
func (g *Gateway) TicketClosed(ticket *domain.Ticket, reply string) {
	subject, body := ticketClosedMessage(ticket, reply)
	g.enqueue(Message{To: ticket.IssuerEmail, Subject: subject, Body: body})
}

// PasswordReset sends a reset code to an agent.
func (g *Gateway) PasswordReset(email, code string) {
	subject, body := passwordResetMessage(code)
	g.enqueue(Message{To: email, Subject: subject, Body: body})
}
