// Copyright (c) 2026 Mireo. All rights reserved.
// Author: duc.tranminh.dev@gmail.com

/*
Package member (Postgres) implements the storage layer for member records.

# Schema Table Mapping
  - users.member: Master identity and profile data.
*/
package member

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

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Postgres implementation for member management.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// # Repository Methods

/*
FindByID retrieves a member record from the users.member table.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *Member: Hydrated identity entity
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Member, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.UserMember.ID, schema.UserMember.Email, schema.UserMember.DisplayName,
		schema.UserMember.BirthDate, schema.UserMember.Gender, schema.UserMember.Phone,
		schema.UserMember.RegisterDate, schema.UserMember.RegisterIP,
		schema.UserMember.UpdateDate, schema.UserMember.UpdateIP,
		schema.UserMember.CreatedAt, schema.UserMember.UpdatedAt,
		schema.UserMember.Table, schema.UserMember.ID,
	)

	return repository.scanOne(repository.pool.QueryRow(context, query, id), "postgres_member_repo_find_by_id_failed")
}

/*
FindByEmail retrieves a member record by its immutable identity key.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *Member: Hydrated identity entity
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresRepository) FindByEmail(context context.Context, email string) (*Member, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.UserMember.ID, schema.UserMember.Email, schema.UserMember.DisplayName,
		schema.UserMember.BirthDate, schema.UserMember.Gender, schema.UserMember.Phone,
		schema.UserMember.RegisterDate, schema.UserMember.RegisterIP,
		schema.UserMember.UpdateDate, schema.UserMember.UpdateIP,
		schema.UserMember.CreatedAt, schema.UserMember.UpdatedAt,
		schema.UserMember.Table, schema.UserMember.Email,
	)

	return repository.scanOne(repository.pool.QueryRow(context, query, email), "postgres_member_repo_find_by_email_failed")
}

/*
CreateOrUpdate resolves a federated identity into a member record atomically.

Description: A single INSERT ... ON CONFLICT on the unique email column
guarantees that two racing logins for the same identity converge on one row.
On conflict, only the display name and the update-origin fields are refreshed;
the email and registration fields never change after creation.

Parameters:
  - context: context.Context
  - email: string
  - displayName: string
  - originIP: string

Returns:
  - *Member: The created or refreshed entity
  - error: Persistence failures
*/
func (repository *PostgresRepository) CreateOrUpdate(context context.Context, email, displayName, originIP string) (*Member, error) {
	now := time.Now()
	nowStamp := now.UTC().Format(time.RFC3339)

	query := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s, %s, %s, %s
		) VALUES ($1, $2, $3, $4, $3, $4, $5, $5)
		ON CONFLICT (%s) DO UPDATE SET
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s
		RETURNING %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s`,
		schema.UserMember.Table,
		schema.UserMember.Email, schema.UserMember.DisplayName,
		schema.UserMember.RegisterDate, schema.UserMember.RegisterIP,
		schema.UserMember.UpdateDate, schema.UserMember.UpdateIP,
		schema.UserMember.CreatedAt, schema.UserMember.UpdatedAt,
		schema.UserMember.Email,
		schema.UserMember.DisplayName, schema.UserMember.DisplayName,
		schema.UserMember.UpdateDate, schema.UserMember.UpdateDate,
		schema.UserMember.UpdateIP, schema.UserMember.UpdateIP,
		schema.UserMember.UpdatedAt, schema.UserMember.UpdatedAt,
		schema.UserMember.ID, schema.UserMember.Email, schema.UserMember.DisplayName,
		schema.UserMember.BirthDate, schema.UserMember.Gender, schema.UserMember.Phone,
		schema.UserMember.RegisterDate, schema.UserMember.RegisterIP,
		schema.UserMember.UpdateDate, schema.UserMember.UpdateIP,
		schema.UserMember.CreatedAt, schema.UserMember.UpdatedAt,
	)

	row := repository.pool.QueryRow(context, query, email, displayName, nowStamp, originIP, now)
	return repository.scanOne(row, "postgres_member_repo_create_or_update_failed")
}

// scanOne hydrates a full member row shared by the single-row queries.
func (repository *PostgresRepository) scanOne(row pgx.Row, failureLabel string) (*Member, error) {
	entity := &Member{}
	err := row.Scan(
		&entity.ID,
		&entity.Email,
		&entity.DisplayName,
		&entity.BirthDate,
		&entity.Gender,
		&entity.Phone,
		&entity.RegisterDate,
		&entity.RegisterIP,
		&entity.UpdateDate,
		&entity.UpdateIP,
		&entity.CreatedAt,
		&entity.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Member")
		}
		return nil, fmt.Errorf("%s: %w", failureLabel, err)
	}

	return entity, nil
}
