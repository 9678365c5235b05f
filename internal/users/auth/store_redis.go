// Copyright (c) 2026 Mireo. All rights reserved.
// Author: duc.tranminh.dev@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ductranminh/mireo/internal/platform/apperr"
	"github.com/ductranminh/mireo/internal/platform/constants"
)

// # Login Handshake Repository

// RedisLoginStateStore implements [LoginStateStore] using Redis.
//
// Entries are serialized as JSON and expire via the native TTL, so abandoned
// login attempts clean themselves up without a sweeper.
type RedisLoginStateStore struct {
	client *redis.Client
}

// NewLoginStateStore creates a new Redis-backed LoginStateStore.
func NewLoginStateStore(client *redis.Client) *RedisLoginStateStore {
	return &RedisLoginStateStore{client: client}
}

/*
Set stores a handshake entry under the state key with the given TTL.

Parameters:
  - context: context.Context
  - state: string
  - entry: LoginState
  - ttl: time.Duration

Returns:
  - error: Serialization or storage failures
*/
func (store *RedisLoginStateStore) Set(context context.Context, state string, entry LoginState, ttl time.Duration) error {
	key := fmt.Sprintf("%s%s", constants.RedisPrefixLoginState, state)

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("redis_login_state_marshal_failed: %w", err)
	}

	if err := store.client.Set(context, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_login_state_set_failed: %w", err)
	}

	return nil
}

/*
Consume retrieves and deletes the handshake entry for a state key atomically.

Description: GETDEL guarantees that a state value redeems at most once;
a replayed or expired callback resolves to apperr.NotFound.

Parameters:
  - context: context.Context
  - state: string

Returns:
  - *LoginState: The stored entry
  - error: apperr.NotFound or connectivity errors
*/
func (store *RedisLoginStateStore) Consume(context context.Context, state string) (*LoginState, error) {
	key := fmt.Sprintf("%s%s", constants.RedisPrefixLoginState, state)

	// GETDEL is the atomic fetch-and-remove; a replayed state finds nothing.
	payload, err := store.client.GetDel(context, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Login state is invalid or expired")
		}
		return nil, fmt.Errorf("redis_login_state_consume_failed: %w", err)
	}

	entry := &LoginState{}
	if err := json.Unmarshal([]byte(payload), entry); err != nil {
		return nil, fmt.Errorf("redis_login_state_unmarshal_failed: %w", err)
	}

	return entry, nil
}
