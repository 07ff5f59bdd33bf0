package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/auth"
	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/notify"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// AgentService manages the agent directory.
type AgentService struct {
	agents     repository.AgentRepository
	resetCodes repository.ResetCodeStore
	notifier   notify.Notifier
	tokens     *auth.TokenManager
	logger     *zap.Logger
	cfg        config.AuthConfig

	now      func() time.Time
	randIntn func(int) int
}

// AgentDependencies bundles collaborators for the directory service.
type AgentDependencies struct {
	AgentRepo  repository.AgentRepository
	ResetCodes repository.ResetCodeStore
	Notifier   notify.Notifier
	Tokens     *auth.TokenManager
	Logger     *zap.Logger
	AuthConfig config.AuthConfig
}

// NewAgentService creates the service.
func NewAgentService(deps AgentDependencies) *AgentService {
	return &AgentService{
		agents:     deps.AgentRepo,
		resetCodes: deps.ResetCodes,
		notifier:   deps.Notifier,
		tokens:     deps.Tokens,
		logger:     deps.Logger,
		cfg:        deps.AuthConfig,
		now:        time.Now,
		randIntn:   rand.Intn,
	}
}

// CreateAgentInput describes an agent creation request.
type CreateAgentInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// CreateAgent registers a new AGENT role member and sends the welcome mail.
func (s *AgentService) CreateAgent(ctx context.Context, input CreateAgentInput) (*domain.Agent, error) {
	return s.create(ctx, input, domain.AgentRoleAgent)
}

// CreateAdmin registers a new ADMIN role member.
func (s *AgentService) CreateAdmin(ctx context.Context, input CreateAgentInput) (*domain.Agent, error) {
	return s.create(ctx, input, domain.AgentRoleAdmin)
}

func (s *AgentService) create(ctx context.Context, input CreateAgentInput, role domain.AgentRole) (*domain.Agent, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Email == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("email and password required", nil)
	}

	if _, err := s.agents.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": input.Email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	agent := &domain.Agent{
		ID:           uuid.NewString(),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        input.Email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.agents.Create(ctx, agent); err != nil {
		return nil, apperrors.NewPersistenceFailure(err)
	}

	s.notifier.Welcome(agent, input.Password)
	s.logger.Info("agent created", zap.String("agent_id", agent.ID), zap.String("role", string(role)))
	return agent, nil
}

// Login verifies credentials, stamps last-login activity and issues a token.
func (s *AgentService) Login(ctx context.Context, email, password string) (string, *domain.Agent, error) {
	agent, err := s.agents.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return "", nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(agent.PasswordHash, password); err != nil {
		return "", nil, apperrors.NewUnauthorized("invalid credentials")
	}

	now := s.now()
	agent.LastLoginAt = &now
	if err := s.agents.Update(ctx, agent); err != nil {
		s.logger.Warn("failed to record login activity",
			zap.String("agent_id", agent.ID), zap.Error(err))
	}

	token, _, err := s.tokens.GenerateToken(agent.ID, agent.Role)
	if err != nil {
		return "", nil, apperrors.MapError(err)
	}
	return token, agent, nil
}

// UpdateProfileInput describes editable profile fields.
type UpdateProfileInput struct {
	FirstName string
	LastName  string
}

// EditProfile updates an agent's profile fields.
func (s *AgentService) EditProfile(ctx context.Context, email string, input UpdateProfileInput) (*domain.Agent, error) {
	agent, err := s.getByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(input.FirstName); name != "" {
		agent.FirstName = name
	}
	if name := strings.TrimSpace(input.LastName); name != "" {
		agent.LastName = name
	}
	if err := s.agents.Update(ctx, agent); err != nil {
		return nil, apperrors.NewPersistenceFailure(err)
	}
	return agent, nil
}

// GetProfile returns the directory entry for an email.
func (s *AgentService) GetProfile(ctx context.Context, email string) (*domain.Agent, error) {
	return s.getByEmail(ctx, email)
}

// List returns every directory entry.
func (s *AgentService) List(ctx context.Context) ([]domain.Agent, error) {
	agents, err := s.agents.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return agents, nil
}

// Delete removes an agent by id. Referential handling of any outstanding
// tickets is left to the store's integrity policy.
func (s *AgentService) Delete(ctx context.Context, id string) error {
	if err := s.agents.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("agent", map[string]any{"agent_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// ForgotPassword stores a short-lived reset code and mails it to the agent.
func (s *AgentService) ForgotPassword(ctx context.Context, email string) error {
	agent, err := s.getByEmail(ctx, email)
	if err != nil {
		return err
	}

	code := fmt.Sprintf("%06d", s.randIntn(1000000))
	if err := s.resetCodes.Set(ctx, agent.Email, code, s.cfg.ResetCodeTTL()); err != nil {
		return apperrors.MapError(err)
	}
	s.notifier.PasswordReset(agent.Email, code)
	return nil
}

// ResetPassword verifies the reset code and replaces the password hash.
func (s *AgentService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	agent, err := s.getByEmail(ctx, email)
	if err != nil {
		return err
	}

	stored, err := s.resetCodes.Get(ctx, agent.Email)
	if err != nil {
		if errors.Is(err, repository.ErrResetCodeNotFound) {
			return apperrors.NewUnauthorized("invalid or expired reset code")
		}
		return apperrors.MapError(err)
	}
	if stored != code {
		return apperrors.NewUnauthorized("invalid or expired reset code")
	}

	hash, err := auth.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return apperrors.MapError(err)
	}
	agent.PasswordHash = hash
	if err := s.agents.Update(ctx, agent); err != nil {
		return apperrors.NewPersistenceFailure(err)
	}
	if err := s.resetCodes.Delete(ctx, agent.Email); err != nil {
		s.logger.Warn("failed to clear reset code", zap.String("email", agent.Email), zap.Error(err))
	}
	return nil
}

func (s *AgentService) getByEmail(ctx context.Context, email string) (*domain.Agent, error) {
	agent, err := s.agents.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("agent", map[string]any{"email": email})
		}
		return nil, apperrors.MapError(err)
	}
	return agent, nil
}
