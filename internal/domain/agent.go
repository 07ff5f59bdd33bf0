package domain

import "time"

// AgentRole enumerates internal operator roles. Admins have the same
// ticket-handling capability plus directory-management rights; only AGENT
// role members participate in routing rotation.
type AgentRole string

const (
	AgentRoleAgent AgentRole = "AGENT"
	AgentRoleAdmin AgentRole = "ADMIN"
)

// Agent models a support agent or administrator. Email is the natural key.
type Agent struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         AgentRole
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
