// Copyright (c) 2026 Mireo. All rights reserved.
// Author: duc.tranminh.dev@gmail.com

package auth

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/ductranminh/mireo/internal/platform/apperr"
)

// # Federated Identity Provider

// Identity is the verified outcome of one provider round-trip: the claims
// Mireo actually consumes, detached from the provider's token formats.
type Identity struct {
	Email string
	Name  string

	// Nonce echoes the value minted at the start of the login attempt. The
	// caller compares it against the stored handshake entry.
	Nonce string
}

// OIDCClient drives the authorization-code flow (with PKCE) against a single
// OpenID Connect provider and verifies the ID tokens it returns.
type OIDCClient struct {
	oauthConfig oauth2.Config
	verifier    *oidc.IDTokenVerifier
}

/*
NewOIDCClient discovers the provider configuration and prepares the client.

Description: Runs OIDC discovery against the issuer URL once at startup; the
resulting endpoints and signing keys are cached inside the verifier.

Parameters:
  - context: context.Context
  - issuerURL: string (e.g. https://accounts.google.com)
  - clientID: string
  - clientSecret: string
  - redirectURL: string (must match the provider's registered callback)

Returns:
  - *OIDCClient: Ready-to-use client
  - error: Discovery failures
*/
func NewOIDCClient(context context.Context, issuerURL, clientID, clientSecret, redirectURL string) (*OIDCClient, error) {
	provider, err := oidc.NewProvider(context, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("oidc: provider discovery failed: %w", err)
	}

	return &OIDCClient{
		oauthConfig: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

// GenerateCodeVerifier mints a fresh PKCE code verifier for one login attempt.
func (client *OIDCClient) GenerateCodeVerifier() string {
	return oauth2.GenerateVerifier()
}

/*
AuthCodeURL builds the provider redirect URL for one login attempt.

Parameters:
  - state: string (opaque handshake key)
  - nonce: string (bound into the ID token for replay detection)
  - codeVerifier: string (PKCE; only its S256 challenge leaves the server)

Returns:
  - string: Absolute URL on the provider's authorization endpoint
*/
func (client *OIDCClient) AuthCodeURL(state, nonce, codeVerifier string) string {
	return client.oauthConfig.AuthCodeURL(state,
		oidc.Nonce(nonce),
		oauth2.S256ChallengeOption(codeVerifier),
	)
}

/*
Exchange redeems the authorization code and verifies the returned ID token.

Description: The exchange presents the PKCE verifier; the provider rejects a
code intercepted without it. The ID token signature, issuer, audience, and
expiry are all checked by the verifier before any claim is trusted.

Parameters:
  - context: context.Context
  - code: string (authorization code from the callback)
  - codeVerifier: string (PKCE verifier stored in the handshake entry)

Returns:
  - *Identity: Verified identity claims
  - error: apperr.LoginFailed on any provider-side rejection
*/
func (client *OIDCClient) Exchange(context context.Context, code, codeVerifier string) (*Identity, error) {
	oauthToken, err := client.oauthConfig.Exchange(context, code, oauth2.VerifierOption(codeVerifier))
	if err != nil {
		return nil, apperr.LoginFailed("Authorization code exchange was rejected", err)
	}

	// The ID token rides alongside the access token in the OIDC response.
	rawIDToken, ok := oauthToken.Extra("id_token").(string)
	if !ok {
		return nil, apperr.LoginFailed("Provider response did not include an ID token", nil)
	}

	idToken, err := client.verifier.Verify(context, rawIDToken)
	if err != nil {
		return nil, apperr.LoginFailed("ID token verification failed", err)
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, apperr.LoginFailed("ID token claims could not be parsed", err)
	}

	if claims.Email == "" {
		return nil, apperr.LoginFailed("Provider did not supply an email claim", nil)
	}

	return &Identity{
		Email: claims.Email,
		Name:  claims.Name,
		Nonce: idToken.Nonce,
	}, nil
}
