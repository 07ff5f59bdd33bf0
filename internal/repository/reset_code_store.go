package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrResetCodeNotFound reports a missing or expired reset code.
var ErrResetCodeNotFound = errors.New("reset code not found")

// ResetCodeStore keeps short-lived password reset codes keyed by agent email.
type ResetCodeStore interface {
	Set(ctx context.Context, email, code string, ttl time.Duration) error
	Get(ctx context.Context, email string) (string, error)
	Delete(ctx context.Context, email string) error
}

type resetCodeStore struct {
	client *redis.Client
}

// NewResetCodeStore instantiates the redis-backed code store.
func NewResetCodeStore(client *redis.Client) ResetCodeStore {
	return &resetCodeStore{client: client}
}

func resetKey(email string) string {
	return "password_reset:" + email
}

func (s *resetCodeStore) Set(ctx context.Context, email, code string, ttl time.Duration) error {
	return s.client.Set(ctx, resetKey(email), code, ttl).Err()
}

func (s *resetCodeStore) Get(ctx context.Context, email string) (string, error) {
	code, err := s.client.Get(ctx, resetKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrResetCodeNotFound
		}
		return "", err
	}
	return code, nil
}

func (s *resetCodeStore) Delete(ctx context.Context, email string) error {
	return s.client.Del(ctx, resetKey(email)).Err()
}
