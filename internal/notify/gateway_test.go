package notify

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/domain"
)

// recordingSender captures delivered messages.
type recordingSender struct {
	mu       sync.Mutex
	messages []Message
	err      error
}

func (s *recordingSender) Send(msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, msg)
	return nil
}

func (s *recordingSender) delivered() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func sampleTicket() *domain.Ticket {
	return &domain.Ticket{
		ID:          "t-1",
		Subject:     "printer on fire",
		Content:     "it is really on fire",
		IssuerEmail: "customer@example.com",
		Priority:    domain.TicketPriorityHigh,
		Category:    domain.TicketCategorySupport,
		Status:      domain.TicketStatusOpen,
		LaunchedAt:  time.Date(2024, 11, 4, 10, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2024, 11, 4, 10, 0, 0, 0, time.UTC),
	}
}

func TestGatewayDeliversThroughWorkers(t *testing.T) {
	sender := &recordingSender{}
	gw := NewGateway(sender, zap.NewNop(), 2, 16)

	gw.TicketOpened(sampleTicket())
	gw.PasswordReset("agent@desk.test", "123456")
	gw.Close()

	delivered := sender.delivered()
	require.Len(t, delivered, 2)

	recipients := map[string]bool{}
	for _, msg := range delivered {
		recipients[msg.To] = true
		assert.NotEmpty(t, msg.Subject)
		assert.NotEmpty(t, msg.Body)
	}
	assert.True(t, recipients["customer@example.com"])
	assert.True(t, recipients["agent@desk.test"])
}

func TestGatewaySkipsInvalidRecipient(t *testing.T) {
	sender := &recordingSender{}
	gw := NewGateway(sender, zap.NewNop(), 1, 16)

	ticket := sampleTicket()
	ticket.IssuerEmail = "not-an-email"
	gw.TicketOpened(ticket)

	ticket2 := sampleTicket()
	ticket2.IssuerEmail = "still wrong@"
	gw.TicketClosed(ticket2, "done")

	gw.Close()
	assert.Empty(t, sender.delivered())
}

func TestGatewayAcceptsCommonAddressShapes(t *testing.T) {
	valid := []string{
		"plain@example.com",
		"dotted.name@example.com",
		"tagged+inbox@example.co.uk",
		"under_score@sub.example.io",
	}
	invalid := []string{
		"",
		"no-at-sign",
		"@missing-local.com",
		"missing-domain@",
		"two@@example.com",
		"trailing.dot@example.",
	}

	for _, addr := range valid {
		assert.True(t, emailPattern.MatchString(addr), "expected valid: %s", addr)
	}
	for _, addr := range invalid {
		assert.False(t, emailPattern.MatchString(addr), "expected invalid: %s", addr)
	}
}

func TestGatewayDropsWhenQueueFull(t *testing.T) {
	block := make(chan struct{})
	sender := &blockingSender{release: block}
	gw := NewGateway(sender, zap.NewNop(), 1, 1)

	// first message occupies the worker, second fills the queue,
	// the third has nowhere to go and is dropped
	for i := 0; i < 3; i++ {
		gw.PasswordReset("agent@desk.test", "123456")
	}
	close(block)
	gw.Close()

	assert.LessOrEqual(t, sender.count(), 2)
}

func TestGatewaySenderFailureDoesNotStopWorkers(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp unavailable")}
	gw := NewGateway(sender, zap.NewNop(), 1, 4)

	gw.PasswordReset("agent@desk.test", "123456")
	gw.Close()
	// Close returning at all proves the worker survived the failure
	assert.Empty(t, sender.delivered())
}

type blockingSender struct {
	mu      sync.Mutex
	n       int
	release chan struct{}
}

func (s *blockingSender) Send(msg Message) error {
	<-s.release
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return nil
}

func (s *blockingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}
