// Copyright (c) 2026 Mireo. All rights reserved.
// Author: duc.tranminh.dev@gmail.com

/*
Package member implements the principal records of the Mireo platform.

It defines the core identity entity and its persistence contract. Members are
created on first successful federated login and live for the lifetime of the
platform; this subsystem never hard-deletes them.

# Architecture

The entity is a plain data record with no framework-shaped behavior. Anything
authorization-flavored (capability sets, request principals) is derived by
adapters in the sec/middleware layers at the call sites that need it.
*/
package member

import (
	"context"
	"time"
)

// # Domain Entities

// Member represents a registered identity on the Mireo platform.
//
// # Invariants
//
// Email is unique and immutable after creation — it is the stable identity
// key carried in token subjects. ID is assigned by the database at creation
// and never reused.
type Member struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`

	// Profile fields, stored as opaque strings supplied by the identity
	// provider or the surrounding request.
	BirthDate    string `json:"birth_date,omitempty"`
	Gender       string `json:"gender,omitempty"`
	Phone        string `json:"phone,omitempty"`
	RegisterDate string `json:"register_date,omitempty"`
	RegisterIP   string `json:"-"`
	UpdateDate   string `json:"update_date,omitempty"`
	UpdateIP     string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// # Data Access

// Repository defines the persistence contract for member records.
type Repository interface {

	/*
		FindByID returns the member with the given numeric identifier.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - *Member: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(context context.Context, id int64) (*Member, error)

	/*
		FindByEmail returns the member with the given email (identity key).

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *Member: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*Member, error)

	/*
		CreateOrUpdate resolves a federated identity into a member record.

		Description: If a member with the email exists, only the display name
		and update-origin fields change; otherwise a new member is created
		with defaults for unset profile fields. The operation is a single
		atomic upsert so racing logins for the same email cannot produce two
		records.

		Parameters:
		  - context: context.Context
		  - email: string (immutable identity key)
		  - displayName: string
		  - originIP: string (request origin, recorded on the profile)

		Returns:
		  - *Member: The created or refreshed entity
		  - error: Persistence failures
	*/
	CreateOrUpdate(context context.Context, email, displayName, originIP string) (*Member, error)
}
