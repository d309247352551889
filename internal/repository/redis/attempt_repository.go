package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rinday2005/cinema-checkout/internal/domain"
	"github.com/rinday2005/cinema-checkout/pkg/logger"
)

var ErrAttemptNotFound = errors.New("checkout attempt not found")

// AttemptRepository persists the checkout state machine for a session.
type AttemptRepository interface {
	Save(ctx context.Context, a *domain.Attempt) error
	Get(ctx context.Context, sessionID string) (*domain.Attempt, error)
	Delete(ctx context.Context, sessionID string) error
}

type redisAttemptRepository struct {
	cli *redis.Client
	ttl time.Duration
	l   logger.Logger
}

func NewRedisAttemptRepository(cli *redis.Client, ttl time.Duration, l logger.Logger) AttemptRepository {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &redisAttemptRepository{
		cli: cli,
		ttl: ttl,
		l:   l,
	}
}

func (r *redisAttemptRepository) Save(ctx context.Context, a *domain.Attempt) error {
	a.UpdatedAt = time.Now()

	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to marshal attempt: %w", err)
	}

	if err := r.cli.Set(ctx, r.attemptKey(a.SessionID), data, r.ttl).Err(); err != nil {
		r.l.Errorf(ctx, "redisAttemptRepository.Save: %v", err)
		return err
	}

	return nil
}

func (r *redisAttemptRepository) Get(ctx context.Context, sessionID string) (*domain.Attempt, error) {
	data, err := r.cli.Get(ctx, r.attemptKey(sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrAttemptNotFound
		}
		r.l.Errorf(ctx, "redisAttemptRepository.Get: %v", err)
		return nil, err
	}

	var a domain.Attempt
	if err := json.Unmarshal(data, &a); err != nil {
		r.l.Errorf(ctx, "redisAttemptRepository.Get: %v", err)
		return nil, ErrAttemptNotFound
	}

	return &a, nil
}

func (r *redisAttemptRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.cli.Del(ctx, r.attemptKey(sessionID)).Err(); err != nil {
		r.l.Errorf(ctx, "redisAttemptRepository.Delete: %v", err)
		return err
	}

	return nil
}

func (r *redisAttemptRepository) attemptKey(sessionID string) string {
	return fmt.Sprintf("checkout:attempt:%s", sessionID)
}
