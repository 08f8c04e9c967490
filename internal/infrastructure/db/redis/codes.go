package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/letteratech/identity-service/internal/core/domain"
)

const defaultCodeTTL = 15 * time.Minute

// CodeStore keeps short-lived verification and recovery codes in Redis.
// Key format: code:<purpose>:<email>
type CodeStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCodeStore creates a CodeStore wrapping the given Redis client. A
// default TTL is applied when none is provided.
func NewCodeStore(client *redis.Client, ttl time.Duration) *CodeStore {
	if ttl <= 0 {
		ttl = defaultCodeTTL
	}
	return &CodeStore{client: client, ttl: ttl}
}

// Put stores a code, replacing any live code for the same purpose+email.
func (s *CodeStore) Put(ctx context.Context, purpose, email, code string) error {
	return s.client.Set(ctx, s.key(purpose, email), code, s.ttl).Err()
}

// Get returns the live code, or domain.ErrInvalidCode when none exists.
func (s *CodeStore) Get(ctx context.Context, purpose, email string) (string, error) {
	code, err := s.client.Get(ctx, s.key(purpose, email)).Result()
	if err == redis.Nil {
		return "", domain.ErrInvalidCode
	}
	if err != nil {
		return "", fmt.Errorf("get code: %w", err)
	}
	return code, nil
}

// Delete removes a consumed code.
func (s *CodeStore) Delete(ctx context.Context, purpose, email string) error {
	return s.client.Del(ctx, s.key(purpose, email)).Err()
}

func (s *CodeStore) key(purpose, email string) string {
	return fmt.Sprintf("code:%s:%s", purpose, email)
}
