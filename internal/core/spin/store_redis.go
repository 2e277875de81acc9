// Copyright (c) 2026 Sentinelle. All rights reserved.
// Author: dev@sentinelle.app

package spin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/othinieljo/sentinelle/internal/platform/constants"
)

// RedisIdempotencyStore implements IdempotencyStore using Redis.
type RedisIdempotencyStore struct {
	client *redis.Client
}

// NewRedisIdempotencyStore creates a new Redis-backed IdempotencyStore.
func NewRedisIdempotencyStore(client *redis.Client) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{client: client}
}

func idemKey(userID, key string) string {
	return fmt.Sprintf("%s%s:%s", constants.RedisPrefixSpinIdem, userID, key)
}

func lockKey(userID string) string {
	return constants.RedisPrefixSpinLock + userID
}

/*
Remember stores the spin ID produced for an idempotency key.

Parameters:
  - context: context.Context
  - userID: string
  - key: string (Client supplied idempotency key)
  - spinID: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (store *RedisIdempotencyStore) Remember(context context.Context, userID, key, spinID string, ttl time.Duration) error {
	if err := store.client.Set(context, idemKey(userID, key), spinID, ttl).Err(); err != nil {
		return fmt.Errorf("redis_spin_idem_set_failed: %w", err)
	}
	return nil
}

/*
Recall returns the spin ID previously stored for the key.

Description: Returns "" without an error when the key is unknown or has
expired, so callers can treat a miss as "spin fresh".

Parameters:
  - context: context.Context
  - userID: string
  - key: string

Returns:
  - string: Original spin ID, or "" on a miss
  - error: Connectivity errors
*/
func (store *RedisIdempotencyStore) Recall(context context.Context, userID, key string) (string, error) {
	spinID, err := store.client.Get(context, idemKey(userID, key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("redis_spin_idem_get_failed: %w", err)
	}
	return spinID, nil
}

/*
Lock takes a short exclusive lock on the member's wheel.

Description: SET NX with TTL. The TTL bounds the damage of a crashed
holder, the lock is otherwise released explicitly after the turn commits.

Parameters:
  - context: context.Context
  - userID: string
  - ttl: time.Duration

Returns:
  - bool: true when the lock was acquired
  - error: Connectivity errors
*/
func (store *RedisIdempotencyStore) Lock(context context.Context, userID string, ttl time.Duration) (bool, error) {
	acquired, err := store.client.SetNX(context, lockKey(userID), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis_spin_lock_failed: %w", err)
	}
	return acquired, nil
}

// Unlock releases the member's wheel lock.
func (store *RedisIdempotencyStore) Unlock(context context.Context, userID string) error {
	if err := store.client.Del(context, lockKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis_spin_unlock_failed: %w", err)
	}
	return nil
}
