// Copyright (c) 2026 Mireo. All rights reserved.
// Author: duc.tranminh.dev@gmail.com

package auth

import (
	"context"
	"time"
)

// # Refresh Token Entity

// RefreshToken is the single long-lived credential a member holds.
//
// # Invariant
//
// A member has AT MOST ONE refresh token at any time: MemberID is the storage
// key, and every new login atomically replaces the previous row. Issuing a
// token to one member never touches another member's row.
type RefreshToken struct {
	MemberID  int64
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Expired reports whether the token's validity window has passed.
func (token *RefreshToken) Expired(now time.Time) bool {
	return !token.ExpiresAt.After(now)
}

// # Refresh Token Data Access

// RefreshTokenStore defines the persistence contract for refresh tokens.
type RefreshTokenStore interface {

	/*
		Put persists a refresh token for a member, replacing any previous one.

		Description: The replace MUST be a single atomic operation on the
		member key so that two concurrent logins leave exactly one winner in
		storage, never an orphaned extra row.

		Parameters:
		  - context: context.Context
		  - token: *RefreshToken

		Returns:
		  - error: Persistence failures
	*/
	Put(context context.Context, token *RefreshToken) error

	/*
		FindByToken returns the stored entry matching the given token value.

		Parameters:
		  - context: context.Context
		  - tokenValue: string

		Returns:
		  - *RefreshToken: Hydrated entry
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByToken(context context.Context, tokenValue string) (*RefreshToken, error)

	/*
		FindByMemberID returns the member's current refresh token, if any.

		Parameters:
		  - context: context.Context
		  - memberID: int64

		Returns:
		  - *RefreshToken: Hydrated entry
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByMemberID(context context.Context, memberID int64) (*RefreshToken, error)

	/*
		DeleteByMemberID removes the member's refresh token.

		Description: Deleting a member with no stored token is not an error;
		logout is idempotent.

		Parameters:
		  - context: context.Context
		  - memberID: int64

		Returns:
		  - error: Deletion failures
	*/
	DeleteByMemberID(context context.Context, memberID int64) error
}

// # Login Handshake Data Access

// LoginState is the transient server-side record of one federated login
// attempt, keyed by the opaque OAuth state value and consumed exactly once
// at callback time.
type LoginState struct {
	ReturnURL    string `json:"return_url"`
	CodeVerifier string `json:"code_verifier"`
	Nonce        string `json:"nonce"`
}

// LoginStateStore defines the contract for storing volatile OAuth handshake entries.
type LoginStateStore interface {

	/*
		Set stores a handshake entry under the state key for a limited duration.

		Parameters:
		  - context: context.Context
		  - state: string
		  - entry: LoginState
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Set(context context.Context, state string, entry LoginState, ttl time.Duration) error

	/*
		Consume retrieves AND deletes the handshake entry for a state key.

		Description: The read-and-delete is atomic, so a replayed callback
		with the same state value finds nothing.

		Parameters:
		  - context: context.Context
		  - state: string

		Returns:
		  - *LoginState: The stored entry
		  - error: apperr.NotFound (unknown, expired, or replayed state) or
		    connectivity errors
	*/
	Consume(context context.Context, state string) (*LoginState, error)
}
