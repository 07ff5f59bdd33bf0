package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/support-desk/internal/analytics"
)

// ErrAnalysisNotFound reports a missing projection record.
var ErrAnalysisNotFound = errors.New("ticket analysis record not found")

// AnalysisRepository stores the analytics projection. Records are JSON
// documents keyed by ticket id; the store is deliberately separate from the
// primary ticket store and updated non-atomically after it.
type AnalysisRepository interface {
	Save(ctx context.Context, record *analytics.TicketAnalysis) error
	GetByTicketID(ctx context.Context, ticketID string) (*analytics.TicketAnalysis, error)
}

type analysisRepository struct {
	client *redis.Client
}

// NewAnalysisRepository instantiates the redis-backed projection store.
func NewAnalysisRepository(client *redis.Client) AnalysisRepository {
	return &analysisRepository{client: client}
}

func analysisKey(ticketID string) string {
	return "ticket_analysis:" + ticketID
}

func (r *analysisRepository) Save(ctx context.Context, record *analytics.TicketAnalysis) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal analysis record: %w", err)
	}
	return r.client.Set(ctx, analysisKey(record.TicketID), payload, 0).Err()
}

func (r *analysisRepository) GetByTicketID(ctx context.Context, ticketID string) (*analytics.TicketAnalysis, error) {
	payload, err := r.client.Get(ctx, analysisKey(ticketID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrAnalysisNotFound
		}
		return nil, err
	}
	var record analytics.TicketAnalysis
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("unmarshal analysis record: %w", err)
	}
	return &record, nil
}
