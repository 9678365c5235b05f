// Copyright (c) 2026 Mireo. All rights reserved.
// Author: duc.tranminh.dev@gmail.com

/*
Package auth implements the federated login and token lifecycle system.

It handles the full journey from the provider redirect to a working bearer
token: the OAuth handshake (state + PKCE, staged in Redis), member resolution,
and issuance of the JWT access token and the durable refresh token.

Architecture:

  - Service: Orchestrates business logic (BeginLogin, CompleteLogin, Redeem).
  - Stores: Abstracted interfaces for Postgres (refresh tokens) and Redis
    (transient handshake entries).
  - Identity: OIDC authorization-code flow with PKCE against one provider.

There is no password path: the identity provider is the only way in, and the
refresh token is the only long-lived credential this service mints.
*/
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/ductranminh/mireo/internal/platform/apperr"
	"github.com/ductranminh/mireo/internal/platform/sec"
	"github.com/ductranminh/mireo/internal/users/member"
)

// # Contracts & Types

// TokenProvider defines the contract for generating access tokens.
type TokenProvider interface {
	// Generate creates a signed JWT string whose subject is the member's email.
	//
	// # Parameters
	//   - subject: The member's email (the stable identity key).
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	Generate(subject string, timeToLive time.Duration) (string, error)
}

// IdentityProvider defines the provider round-trip needed by the service.
//
// # Why an interface?
//
// Decoupling from the concrete [OIDCClient] lets tests drive CompleteLogin
// with a scripted identity instead of a live provider.
type IdentityProvider interface {
	GenerateCodeVerifier() string
	AuthCodeURL(state, nonce, codeVerifier string) string
	Exchange(ctx context.Context, code, codeVerifier string) (*Identity, error)
}

// Service implements the federated authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to the handshake,
// completion, or redemption logic must be reviewed by the security team.
type Service struct {
	memberRepository  member.Repository
	refreshTokenStore RefreshTokenStore
	loginStateStore   LoginStateStore
	identityProvider  IdentityProvider
	tokenProvider     TokenProvider
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	memberRepo member.Repository,
	refreshStore RefreshTokenStore,
	stateStore LoginStateStore,
	identity IdentityProvider,
	tokenProv TokenProvider,
) *Service {
	return &Service{
		memberRepository:  memberRepo,
		refreshTokenStore: refreshStore,
		loginStateStore:   stateStore,
		identityProvider:  identity,
		tokenProvider:     tokenProv,
	}
}

// # Login Handshake

/*
BeginLogin starts a federated login attempt.

Description: Mints the state, nonce, and PKCE verifier for this attempt,
stages them in the handshake store, and returns the provider URL the client
must be redirected to. Nothing durable is created at this stage; an abandoned
attempt simply expires.

Parameters:
  - context: context.Context
  - returnURL: string (where to land the user after a successful login)

Returns:
  - string: Absolute provider authorization URL
  - err: Token generation or handshake storage failures
*/
func (service *Service) BeginLogin(context context.Context, returnURL string) (string, error) {

	// Mint the opaque handshake values for this single attempt
	state, err := sec.GenerateSecureToken(HandshakeTokenLength)
	if err != nil {
		return "", fmt.Errorf("auth_service_state_generation_failed: %w", err)
	}

	nonce, err := sec.GenerateSecureToken(HandshakeTokenLength)
	if err != nil {
		return "", fmt.Errorf("auth_service_nonce_generation_failed: %w", err)
	}

	codeVerifier := service.identityProvider.GenerateCodeVerifier()

	// Stage the attempt server-side; the callback will consume it exactly once
	entry := LoginState{
		ReturnURL:    returnURL,
		CodeVerifier: codeVerifier,
		Nonce:        nonce,
	}
	if err := service.loginStateStore.Set(context, state, entry, LoginStateTTL); err != nil {
		return "", fmt.Errorf("auth_service_login_state_set_failed: %w", err)
	}

	return service.identityProvider.AuthCodeURL(state, nonce, codeVerifier), nil
}

// # Login Completion

// LoginResult represents a successfully completed federated login.
type LoginResult struct {
	AccessToken string
	ReturnURL   string
	Member      *member.Member

	// RefreshToken is handed to the delivery layer so the client actually
	// receives the credential backing later /api/token calls.
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

/*
CompleteLogin finishes the federated login after the provider callback.

Description: Consumes the handshake entry, exchanges the authorization code,
verifies the nonce, resolves the identity to a member record, and installs
the member's refresh token. The steps are ordered so the flow has NO partial
success: the access token is only minted after the refresh token is durably
stored, and any failure along the way leaves the member without new
credentials rather than half-logged-in.

Parameters:
  - context: context.Context
  - state: string (opaque value echoed by the provider)
  - code: string (authorization code from the callback)
  - originIP: string (request origin, recorded on the member profile)

Returns:
  - *LoginResult: Access token, refresh token, and the staged return URL
  - err: apperr.LoginFailed for any handshake or provider rejection,
    or internal storage failures
*/
func (service *Service) CompleteLogin(context context.Context, state, code, originIP string) (*LoginResult, error) {

	// ── 1. Handshake Consumption ──────────────────────────────────────────
	// Unknown, expired, or replayed state aborts the attempt immediately.
	entry, err := service.loginStateStore.Consume(context, state)
	if err != nil {
		return nil, apperr.LoginFailed("Login attempt is invalid or has expired", err)
	}

	// ── 2. Code Exchange & Verification ───────────────────────────────────
	identity, err := service.identityProvider.Exchange(context, code, entry.CodeVerifier)
	if err != nil {
		return nil, err
	}

	// The nonce binds the ID token to this exact attempt
	if identity.Nonce != entry.Nonce {
		return nil, apperr.LoginFailed("Login attempt could not be verified", nil)
	}

	// ── 3. Member Resolution ──────────────────────────────────────────────
	// First login creates the member; later logins refresh the display name.
	resolvedMember, err := service.memberRepository.CreateOrUpdate(context, identity.Email, identity.Name, originIP)
	if err != nil {
		return nil, fmt.Errorf("auth_service_member_resolution_failed: %w", err)
	}

	// ── 4. Refresh Token Installation ─────────────────────────────────────
	// Refresh tokens go through the same codec as access tokens; they differ
	// only in lifetime. Atomic per-member replace: a second login supersedes
	// the first, and two racing logins leave exactly one stored winner.
	refreshToken, err := service.tokenProvider.Generate(resolvedMember.Email, RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	refreshExpiresAt := time.Now().Add(RefreshTokenTTL)
	putErr := service.refreshTokenStore.Put(context, &RefreshToken{
		MemberID:  resolvedMember.ID,
		Token:     refreshToken,
		ExpiresAt: refreshExpiresAt,
	})
	if putErr != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_store_failed: %w", putErr)
	}

	// ── 5. Access Token Issuance ──────────────────────────────────────────
	// Minted last: a client holding an access token is guaranteed to also
	// have a stored refresh token behind it.
	accessToken, err := service.tokenProvider.Generate(resolvedMember.Email, AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	return &LoginResult{
		AccessToken:           accessToken,
		ReturnURL:             entry.ReturnURL,
		Member:                resolvedMember,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: refreshExpiresAt,
	}, nil
}

// # Token Redemption

/*
RedeemRefreshToken exchanges a stored refresh token for a new access token.

Description: Looks up the presented token, checks its validity window, and
mints a fresh access token for the owning member. The refresh token itself is
NOT rotated here; it is replaced only by a new login or removed by logout.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - string: New signed access token
  - err: Unauthorized for unknown or expired tokens
*/
func (service *Service) RedeemRefreshToken(context context.Context, refreshToken string) (string, error) {

	// Look up the presented token; an unknown value is indistinguishable
	// from an expired one to the client.
	stored, err := service.refreshTokenStore.FindByToken(context, refreshToken)
	if err != nil {
		return "", apperr.Unauthorized("Invalid or expired refresh token")
	}

	if stored.Expired(time.Now()) {
		// Expired rows are lazily cleaned on redemption
		_ = service.refreshTokenStore.DeleteByMemberID(context, stored.MemberID)
		return "", apperr.Unauthorized("Invalid or expired refresh token")
	}

	// Resolve the owning member to stamp the subject claim
	owner, err := service.memberRepository.FindByID(context, stored.MemberID)
	if err != nil {
		return "", apperr.Unauthorized("Invalid or expired refresh token")
	}

	accessToken, err := service.tokenProvider.Generate(owner.Email, AccessTokenTTL)
	if err != nil {
		return "", fmt.Errorf("auth_service_redeem_token_generation_failed: %w", err)
	}

	return accessToken, nil
}

/*
Logout removes the member's refresh token.

Description: Idempotent; logging out with no stored token is a success. The
current access token stays valid until its own expiry, so the practical
logout horizon is AccessTokenTTL.

Parameters:
  - context: context.Context
  - memberID: int64

Returns:
  - err: Deletion failures
*/
func (service *Service) Logout(context context.Context, memberID int64) error {
	if err := service.refreshTokenStore.DeleteByMemberID(context, memberID); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}
	return nil
}

// # Principal Resolution

/*
ResolvePrincipal maps a verified token subject to a request principal.

Description: Adapter consumed by the authentication middleware. Every member
carries the same fixed capability set; there are no roles to look up.

Parameters:
  - context: context.Context
  - email: string (token subject)

Returns:
  - *sec.Principal: Request identity
  - err: apperr.NotFound when the subject no longer maps to a member
*/
func (service *Service) ResolvePrincipal(context context.Context, email string) (*sec.Principal, error) {
	resolvedMember, err := service.memberRepository.FindByEmail(context, email)
	if err != nil {
		return nil, err
	}

	return &sec.Principal{
		MemberID: resolvedMember.ID,
		Email:    resolvedMember.Email,
		Grants:   sec.UserGrants(),
	}, nil
}

/*
Profile returns the member record behind an authenticated principal.

Parameters:
  - context: context.Context
  - memberID: int64

Returns:
  - *member.Member: Hydrated profile
  - err: apperr.NotFound or retrieval failures
*/
func (service *Service) Profile(context context.Context, memberID int64) (*member.Member, error) {
	return service.memberRepository.FindByID(context, memberID)
}
