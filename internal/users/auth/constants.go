// Copyright (c) 2026 Mireo. All rights reserved.
// Author: duc.tranminh.dev@gmail.com

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the duration a JWT access token remains valid.
	// We keep it short (30m) to minimize the impact of a leaked token.
	AccessTokenTTL = 30 * time.Minute

	// RefreshTokenTTL is the duration a refresh token remains valid.
	// Long-lived (14 days) to provide a good user experience; a new login
	// replaces the stored token and restarts the window.
	RefreshTokenTTL = 14 * 24 * time.Hour

	// LoginStateTTL is the duration an OAuth handshake entry remains valid.
	// Short-lived (10 minutes): the user must finish the provider round-trip
	// within this window or start over.
	LoginStateTTL = 10 * time.Minute

	// HandshakeTokenLength is the byte length of the random state and nonce
	// values minted for each login attempt.
	HandshakeTokenLength = 32
)

// # Payload Field Names

const (
	FieldAccessToken  = "access_token"
	FieldRefreshToken = "refresh_token"
	FieldTokenType    = "token_type"
	FieldExpiresIn    = "expires_in"
	FieldMessage      = "message"
)
