package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/support-desk/internal/analytics"
	"github.com/spec-kit/support-desk/internal/domain"
)

type mockTicketRepo struct {
	CreateFn          func(ctx context.Context, ticket *domain.Ticket) error
	UpdateFn          func(ctx context.Context, ticket *domain.Ticket) error
	GetByIDFn         func(ctx context.Context, id string) (*domain.Ticket, error)
	ListAllFn         func(ctx context.Context) ([]domain.Ticket, error)
	ListByAssigneeFn  func(ctx context.Context, agentID string) ([]domain.Ticket, error)
	CountByAssigneeFn func(ctx context.Context) (map[string]int, error)
}

func (m *mockTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	return m.CreateFn(ctx, ticket)
}

func (m *mockTicketRepo) Update(ctx context.Context, ticket *domain.Ticket) error {
	return m.UpdateFn(ctx, ticket)
}

func (m *mockTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	return m.GetByIDFn(ctx, id)
}

func (m *mockTicketRepo) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	return m.ListAllFn(ctx)
}

func (m *mockTicketRepo) ListByAssignee(ctx context.Context, agentID string) ([]domain.Ticket, error) {
	return m.ListByAssigneeFn(ctx, agentID)
}

func (m *mockTicketRepo) CountByAssignee(ctx context.Context) (map[string]int, error) {
	return m.CountByAssigneeFn(ctx)
}

type mockAgentRepo struct {
	CreateFn     func(ctx context.Context, agent *domain.Agent) error
	UpdateFn     func(ctx context.Context, agent *domain.Agent) error
	DeleteFn     func(ctx context.Context, id string) error
	GetByIDFn    func(ctx context.Context, id string) (*domain.Agent, error)
	GetByEmailFn func(ctx context.Context, email string) (*domain.Agent, error)
	ListAllFn    func(ctx context.Context) ([]domain.Agent, error)
	ListByRoleFn func(ctx context.Context, role domain.AgentRole) ([]domain.Agent, error)
}

func (m *mockAgentRepo) Create(ctx context.Context, agent *domain.Agent) error {
	return m.CreateFn(ctx, agent)
}

func (m *mockAgentRepo) Update(ctx context.Context, agent *domain.Agent) error {
	return m.UpdateFn(ctx, agent)
}

func (m *mockAgentRepo) Delete(ctx context.Context, id string) error {
	return m.DeleteFn(ctx, id)
}

func (m *mockAgentRepo) GetByID(ctx context.Context, id string) (*domain.Agent, error) {
	return m.GetByIDFn(ctx, id)
}

func (m *mockAgentRepo) GetByEmail(ctx context.Context, email string) (*domain.Agent, error) {
	if m.GetByEmailFn == nil {
		return nil, pgx.ErrNoRows
	}
	return m.GetByEmailFn(ctx, email)
}

func (m *mockAgentRepo) ListAll(ctx context.Context) ([]domain.Agent, error) {
	return m.ListAllFn(ctx)
}

func (m *mockAgentRepo) ListByRole(ctx context.Context, role domain.AgentRole) ([]domain.Agent, error) {
	return m.ListByRoleFn(ctx, role)
}

// mockAnalysisRepo keeps records in memory unless overridden.
type mockAnalysisRepo struct {
	SaveFn          func(ctx context.Context, record *analytics.TicketAnalysis) error
	GetByTicketIDFn func(ctx context.Context, ticketID string) (*analytics.TicketAnalysis, error)

	saved []*analytics.TicketAnalysis
}

func (m *mockAnalysisRepo) Save(ctx context.Context, record *analytics.TicketAnalysis) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, record)
	}
	m.saved = append(m.saved, record)
	return nil
}

func (m *mockAnalysisRepo) GetByTicketID(ctx context.Context, ticketID string) (*analytics.TicketAnalysis, error) {
	return m.GetByTicketIDFn(ctx, ticketID)
}

type mockResetCodes struct {
	SetFn    func(ctx context.Context, email, code string, ttl time.Duration) error
	GetFn    func(ctx context.Context, email string) (string, error)
	DeleteFn func(ctx context.Context, email string) error
}

func (m *mockResetCodes) Set(ctx context.Context, email, code string, ttl time.Duration) error {
	if m.SetFn == nil {
		return nil
	}
	return m.SetFn(ctx, email, code, ttl)
}

func (m *mockResetCodes) Get(ctx context.Context, email string) (string, error) {
	return m.GetFn(ctx, email)
}

func (m *mockResetCodes) Delete(ctx context.Context, email string) error {
	if m.DeleteFn == nil {
		return nil
	}
	return m.DeleteFn(ctx, email)
}

// mockNotifier records every notification by kind.
type mockNotifier struct {
	welcomes  []string
	created   []string
	opened    []string
	updated   []string
	closed    []string
	closedMsg []string
	resets    []string
}

func (m *mockNotifier) Welcome(agent *domain.Agent, initialPassword string) {
	m.welcomes = append(m.welcomes, agent.Email)
}

func (m *mockNotifier) TicketCreated(ticket *domain.Ticket, agent *domain.Agent) {
	m.created = append(m.created, agent.Email)
}

func (m *mockNotifier) TicketOpened(ticket *domain.Ticket) {
	m.opened = append(m.opened, ticket.IssuerEmail)
}

func (m *mockNotifier) TicketUpdated(ticket *domain.Ticket, agent *domain.Agent) {
	m.updated = append(m.updated, agent.Email)
}

func (m *mockNotifier) TicketClosed(ticket *domain.Ticket, reply string) {
	m.closed = append(m.closed, ticket.IssuerEmail)
	m.closedMsg = append(m.closedMsg, reply)
}

func (m *mockNotifier) PasswordReset(email, code string) {
	m.resets = append(m.resets, email+":"+code)
}
