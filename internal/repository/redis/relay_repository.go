package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rinday2005/cinema-checkout/pkg/logger"
)

// The only two relay keys. Seat selection writes bookingData, the
// payment view replaces it with paymentData once a confirmation lands.
const (
	KeyBookingData = "bookingData"
	KeyPaymentData = "paymentData"
)

var (
	// ErrRelayNotFound is returned when a key is absent.
	ErrRelayNotFound = errors.New("relay entry not found")
	// ErrRelayCorrupt is returned when a stored blob does not parse.
	// The entry is treated as absent, not as a fatal store error.
	ErrRelayCorrupt = errors.New("relay entry corrupt")
)

// RelayRepository passes structured blobs between the independently
// navigated checkout views of one session. Entries expire with the
// session TTL; checkout state older than that is stale by design.
type RelayRepository interface {
	Put(ctx context.Context, sessionID, key string, value any) error
	Get(ctx context.Context, sessionID, key string, out any) error
	Remove(ctx context.Context, sessionID, key string) error
}

type redisRelayRepository struct {
	cli *redis.Client
	ttl time.Duration
	l   logger.Logger
}

func NewRedisRelayRepository(cli *redis.Client, ttl time.Duration, l logger.Logger) RelayRepository {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &redisRelayRepository{
		cli: cli,
		ttl: ttl,
		l:   l,
	}
}

func (r *redisRelayRepository) Put(ctx context.Context, sessionID, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal relay value: %w", err)
	}

	if err := r.cli.Set(ctx, r.relayKey(sessionID, key), data, r.ttl).Err(); err != nil {
		r.l.Errorf(ctx, "redisRelayRepository.Put: %v", err)
		return err
	}

	return nil
}

func (r *redisRelayRepository) Get(ctx context.Context, sessionID, key string, out any) error {
	data, err := r.cli.Get(ctx, r.relayKey(sessionID, key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return ErrRelayNotFound
		}
		r.l.Errorf(ctx, "redisRelayRepository.Get: %v", err)
		return err
	}

	if err := json.Unmarshal(data, out); err != nil {
		r.l.Warnf(ctx, "redisRelayRepository.Get: corrupt entry %s: %v", key, err)
		return ErrRelayCorrupt
	}

	return nil
}

// Remove deletes the key. Removing an absent key is a no-op.
func (r *redisRelayRepository) Remove(ctx context.Context, sessionID, key string) error {
	if err := r.cli.Del(ctx, r.relayKey(sessionID, key)).Err(); err != nil {
		r.l.Errorf(ctx, "redisRelayRepository.Remove: %v", err)
		return err
	}

	return nil
}

func (r *redisRelayRepository) relayKey(sessionID, key string) string {
	return fmt.Sprintf("checkout:relay:%s:%s", sessionID, key)
}
