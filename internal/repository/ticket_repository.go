package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-desk/internal/domain"
)

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListAll(ctx context.Context) ([]domain.Ticket, error)
	ListByAssignee(ctx context.Context, agentID string) ([]domain.Ticket, error)
	CountByAssignee(ctx context.Context) (map[string]int, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, subject, content, issuer_email, attachment, replies,
       priority, category, status, assignee_id, launched_at, served_at, updated_at, elapsed_seconds`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (id, subject, content, issuer_email, attachment, replies, priority, category, status, assignee_id, launched_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`
	_, err := r.pool.Exec(ctx, query,
		ticket.ID,
		ticket.Subject,
		ticket.Content,
		ticket.IssuerEmail,
		ticket.Attachment,
		replyList(ticket.Replies),
		ticket.Priority,
		ticket.Category,
		ticket.Status,
		ticket.AssigneeID,
		ticket.LaunchedAt,
		ticket.UpdatedAt,
	)
	return err
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET replies=$1, priority=$2, status=$3, assignee_id=$4,
            served_at=$5, updated_at=$6, elapsed_seconds=$7
        WHERE id=$8`
	cmd, err := r.pool.Exec(ctx, query,
		replyList(ticket.Replies),
		ticket.Priority,
		ticket.Status,
		ticket.AssigneeID,
		ticket.ServedAt,
		ticket.UpdatedAt,
		elapsedSeconds(ticket),
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	row := r.pool.QueryRow(ctx, query, id)
	return scanTicket(row)
}

func (r *ticketRepository) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets ORDER BY launched_at`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListByAssignee(ctx context.Context, agentID string) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE assignee_id=$1 ORDER BY launched_at`
	rows, err := r.pool.Query(ctx, query, agentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

// CountByAssignee returns current ticket counts per agent id, the load
// figures consulted by the router.
func (r *ticketRepository) CountByAssignee(ctx context.Context) (map[string]int, error) {
	const query = `SELECT assignee_id, COUNT(*) FROM tickets GROUP BY assignee_id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var agentID string
		var count int
		if err := rows.Scan(&agentID, &count); err != nil {
			return nil, err
		}
		counts[agentID] = count
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (*domain.Ticket, error) {
	var ticket domain.Ticket
	var elapsed *int64
	if err := row.Scan(
		&ticket.ID,
		&ticket.Subject,
		&ticket.Content,
		&ticket.IssuerEmail,
		&ticket.Attachment,
		&ticket.Replies,
		&ticket.Priority,
		&ticket.Category,
		&ticket.Status,
		&ticket.AssigneeID,
		&ticket.LaunchedAt,
		&ticket.ServedAt,
		&ticket.UpdatedAt,
		&elapsed,
	); err != nil {
		return nil, err
	}
	ticket.Elapsed = durationFromSeconds(elapsed)
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}
