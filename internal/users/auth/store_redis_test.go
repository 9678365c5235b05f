// Copyright (c) 2026 Mireo. All rights reserved.
// Author: duc.tranminh.dev@gmail.com

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ductranminh/mireo/internal/platform/apperr"
	"github.com/ductranminh/mireo/internal/users/auth"
)

func newRedisStore(t *testing.T) (*auth.RedisLoginStateStore, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return auth.NewLoginStateStore(client), server
}

/*
TestLoginStateStore_RoundTrip verifies that a staged handshake entry comes
back intact and is gone after consumption.
*/
func TestLoginStateStore_RoundTrip(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	entry := auth.LoginState{
		ReturnURL:    "/articles/7",
		CodeVerifier: "pkce-verifier",
		Nonce:        "nonce-value",
	}
	require.NoError(t, store.Set(ctx, "state-1", entry, auth.LoginStateTTL))

	consumed, err := store.Consume(ctx, "state-1")
	require.NoError(t, err)
	assert.Equal(t, entry, *consumed)

	// Consume is single-use: the second read finds nothing
	_, err = store.Consume(ctx, "state-1")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestLoginStateStore_UnknownState verifies that a never-issued state resolves
to NOT_FOUND.
*/
func TestLoginStateStore_UnknownState(t *testing.T) {
	store, _ := newRedisStore(t)

	_, err := store.Consume(context.Background(), "never-issued")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestLoginStateStore_Expiry fast-forwards past the TTL and verifies that
abandoned handshake entries vanish on their own.
*/
func TestLoginStateStore_Expiry(t *testing.T) {
	store, server := newRedisStore(t)
	ctx := context.Background()

	entry := auth.LoginState{ReturnURL: "/", CodeVerifier: "v", Nonce: "n"}
	require.NoError(t, store.Set(ctx, "state-2", entry, auth.LoginStateTTL))

	// Still alive just before the deadline
	server.FastForward(auth.LoginStateTTL - time.Second)
	_, err := store.Consume(ctx, "state-2")
	require.NoError(t, err)

	// A fresh entry past its deadline is gone
	require.NoError(t, store.Set(ctx, "state-3", entry, auth.LoginStateTTL))
	server.FastForward(auth.LoginStateTTL + time.Second)
	_, err = store.Consume(ctx, "state-3")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
