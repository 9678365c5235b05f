// Copyright (c) 2026 Mireo. All rights reserved.
// Author: duc.tranminh.dev@gmail.com

/*
Package auth (Postgres) implements the durable storage layer for refresh tokens.

# Schema Table Mapping
  - users.refreshtoken: One row per member (memberid is the PRIMARY KEY).
*/
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ductranminh/mireo/internal/platform/apperr"
	"github.com/ductranminh/mireo/internal/platform/database/schema"
)

// # Repository Implementation

// PostgresRefreshTokenStore implements [RefreshTokenStore] using pgx.
type PostgresRefreshTokenStore struct {
	pool *pgxpool.Pool
}

// NewRefreshTokenStore creates a new Postgres-backed refresh token store.
func NewRefreshTokenStore(pool *pgxpool.Pool) *PostgresRefreshTokenStore {
	return &PostgresRefreshTokenStore{pool: pool}
}

/*
Put persists the member's refresh token using an ON CONFLICT UPDATE strategy.

Description: The primary key on memberid makes the replace atomic: when two
logins race for the same member, the database serializes them and the last
write wins with exactly one surviving row. No other member's row is touched.

Parameters:
  - context: context.Context
  - token: *RefreshToken

Returns:
  - error: Persistence failures
*/
func (store *PostgresRefreshTokenStore) Put(context context.Context, token *RefreshToken) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s
		) VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (%s) DO UPDATE SET
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s`,
		schema.UserRefreshToken.Table,
		schema.UserRefreshToken.MemberID, schema.UserRefreshToken.Token,
		schema.UserRefreshToken.ExpiresAt, schema.UserRefreshToken.CreatedAt,
		schema.UserRefreshToken.UpdatedAt,
		schema.UserRefreshToken.MemberID,
		schema.UserRefreshToken.Token, schema.UserRefreshToken.Token,
		schema.UserRefreshToken.ExpiresAt, schema.UserRefreshToken.ExpiresAt,
		schema.UserRefreshToken.UpdatedAt, schema.UserRefreshToken.UpdatedAt,
	)

	_, err := store.pool.Exec(context, query,
		token.MemberID,
		token.Token,
		token.ExpiresAt,
		time.Now(),
	)

	// If the upsert fails, return an error
	if err != nil {
		return fmt.Errorf("postgres_refresh_token_store_put_failed: %w", err)
	}

	return nil
}

/*
FindByToken retrieves the stored entry matching the given token value.

Parameters:
  - context: context.Context
  - tokenValue: string

Returns:
  - *RefreshToken: Hydrated entry
  - error: apperr.NotFound or database execution failure
*/
func (store *PostgresRefreshTokenStore) FindByToken(context context.Context, tokenValue string) (*RefreshToken, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.UserRefreshToken.MemberID, schema.UserRefreshToken.Token,
		schema.UserRefreshToken.ExpiresAt, schema.UserRefreshToken.CreatedAt,
		schema.UserRefreshToken.UpdatedAt,
		schema.UserRefreshToken.Table, schema.UserRefreshToken.Token,
	)

	return store.scanOne(store.pool.QueryRow(context, query, tokenValue), "postgres_refresh_token_store_find_by_token_failed")
}

/*
FindByMemberID retrieves the member's current refresh token, if any.

Parameters:
  - context: context.Context
  - memberID: int64

Returns:
  - *RefreshToken: Hydrated entry
  - error: apperr.NotFound or database execution failure
*/
func (store *PostgresRefreshTokenStore) FindByMemberID(context context.Context, memberID int64) (*RefreshToken, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.UserRefreshToken.MemberID, schema.UserRefreshToken.Token,
		schema.UserRefreshToken.ExpiresAt, schema.UserRefreshToken.CreatedAt,
		schema.UserRefreshToken.UpdatedAt,
		schema.UserRefreshToken.Table, schema.UserRefreshToken.MemberID,
	)

	return store.scanOne(store.pool.QueryRow(context, query, memberID), "postgres_refresh_token_store_find_by_member_failed")
}

/*
DeleteByMemberID removes the member's refresh token row.

Description: Deleting zero rows is success; logout stays idempotent.

Parameters:
  - context: context.Context
  - memberID: int64

Returns:
  - error: Execution failures
*/
func (store *PostgresRefreshTokenStore) DeleteByMemberID(context context.Context, memberID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.UserRefreshToken.Table, schema.UserRefreshToken.MemberID)

	if _, err := store.pool.Exec(context, query, memberID); err != nil {
		return fmt.Errorf("postgres_refresh_token_store_delete_failed: %w", err)
	}

	return nil
}

// scanOne hydrates a full refresh-token row shared by the single-row queries.
func (store *PostgresRefreshTokenStore) scanOne(row pgx.Row, failureLabel string) (*RefreshToken, error) {
	entry := &RefreshToken{}
	err := row.Scan(
		&entry.MemberID,
		&entry.Token,
		&entry.ExpiresAt,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Refresh token")
		}
		return nil, fmt.Errorf("%s: %w", failureLabel, err)
	}

	return entry, nil
}
