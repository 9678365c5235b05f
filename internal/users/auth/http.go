// Copyright (c) 2026 Mireo. All rights reserved.
// Author: duc.tranminh.dev@gmail.com

/*
Package auth provides the HTTP delivery layer for the federated login flow.

It implements the gateway for the token lifecycle, from the provider redirect
to token redemption and logout.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Browser redirects for the login flow, RESTful JSON for the API.
  - Security: Delivers the access token via a redirect query parameter; the
    refresh token is injected as a secure cookie scoped to the token API and
    never appears in redirect URLs.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes, headers, JSON).
*/
package auth

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ductranminh/mireo/internal/platform/apperr"
	"github.com/ductranminh/mireo/internal/platform/constants"
	"github.com/ductranminh/mireo/internal/platform/middleware"
	requestutil "github.com/ductranminh/mireo/internal/platform/request"
	"github.com/ductranminh/mireo/internal/platform/respond"
	"github.com/ductranminh/mireo/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages the login flow entry points (redirect to provider,
// provider callback) and the token API (redeem, logout, profile).
type Handler struct {
	authService      *Service
	defaultReturnURL string
}

// NewHandler constructs a new [Handler] with its service dependency.
//
// defaultReturnURL is where a completed login lands when the client did not
// ask for a specific destination.
func NewHandler(service *Service, defaultReturnURL string) *Handler {
	return &Handler{authService: service, defaultReturnURL: defaultReturnURL}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - GET  /login          : Starts the federated login (redirect to provider).
//   - GET  /oauth/callback : Finishes the login and hands the token off.
//   - POST /api/token      : Exchanges a refresh token for an access token.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Get("/login", handler.login)
	router.Get("/oauth/callback", handler.callback)
	router.Post("/api/token", handler.token)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/api/logout", handler.logout)
		r.Get("/api/me", handler.me)
	})

	return router
}

// # Request Payloads

type tokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

/*
Login starts a federated login attempt.

GET /login?return=/articles

Description: Stages the handshake entry server-side and redirects the browser
to the identity provider's authorization endpoint.

Request:
  - Query: return (optional relative path to land on after login)

Response:
  - 302: Redirect to the provider
  - 500: ErrInternal: Handshake staging failure
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	returnURL := handler.sanitizeReturnURL(request.URL.Query().Get("return"))

	authURL, err := handler.authService.BeginLogin(request.Context(), returnURL)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.Redirect(writer, request, authURL, http.StatusFound)
}

/*
Callback finishes the federated login after the provider round-trip.

GET /oauth/callback?state=...&code=...

Description: Completes the code exchange, installs the refresh token, and
redirects the browser to the staged return URL carrying the access token in
the 'token' query parameter. The refresh token is handed to the client as a
secure cookie scoped to the token API, so later /api/token calls can present
it without it ever riding in a URL.

Request:
  - Query: state, code (or error when the provider aborted)

Response:
  - 302: Redirect to the return URL with ?token=... and the refresh cookie set
  - 400: ErrLoginFailed: Provider denial, invalid state, or exchange failure
*/
func (handler *Handler) callback(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()

	// The provider signals user denial or its own failures via 'error'
	if providerError := query.Get("error"); providerError != "" {
		respond.Error(writer, request, apperr.LoginFailed("Login was cancelled or rejected by the provider", nil))
		return
	}

	state := query.Get("state")
	code := query.Get("code")
	if state == "" || code == "" {
		respond.Error(writer, request, apperr.LoginFailed("Callback is missing required parameters", nil))
		return
	}

	result, err := handler.authService.CompleteLogin(request.Context(), state, code, middleware.RealIP(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// The refresh token travels back as a scoped cookie; /api/token reads it
	// when the request body carries no token of its own.
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    result.RefreshToken,
		Path:     constants.RefreshTokenCookiePath,
		Expires:  result.RefreshTokenExpiresAt,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	// Hand the access token to the front-end via the landing URL
	destination := handler.sanitizeReturnURL(result.ReturnURL)
	separator := "?"
	if strings.Contains(destination, "?") {
		separator = "&"
	}
	destination += separator + "token=" + url.QueryEscape(result.AccessToken)

	http.Redirect(writer, request, destination, http.StatusFound)
}

/*
Token exchanges a refresh token for a fresh access token.

POST /api/token

Description: Public endpoint; the refresh token itself is the credential. It
is read from the JSON body when present, otherwise from the cookie installed
at login completion. The stored refresh token is NOT rotated by this call.

Request:
  - Body: tokenRequest (RefreshToken), optional when the cookie is present

Response:
  - 200: TokenResponse: New access token credentials
  - 401: ErrUnauthorized: Unknown or expired refresh token
*/
func (handler *Handler) token(writer http.ResponseWriter, request *http.Request) {
	var input tokenRequest

	// A body is optional here; cookie-only clients send none at all.
	if request.ContentLength != 0 {
		if err := requestutil.DecodeJSON(request, &input); err != nil {
			respond.Error(writer, request, validate.ErrInvalidJSON)
			return
		}
	}

	// The cookie set by the login callback backs clients that never saw the
	// raw token value.
	if input.RefreshToken == "" {
		if cookie, err := request.Cookie(constants.RefreshTokenCookieName); err == nil {
			input.RefreshToken = cookie.Value
		}
	}

	if input.RefreshToken == "" {
		respond.Error(writer, request, validate.RequiredError(FieldRefreshToken, "is required"))
		return
	}

	accessToken, err := handler.authService.RedeemRefreshToken(request.Context(), input.RefreshToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldAccessToken: accessToken,
		FieldTokenType:   "Bearer",
		FieldExpiresIn:   AccessTokenTTL / time.Second,
	})
}

/*
Logout removes the authenticated member's refresh token.

POST /api/logout

Description: Idempotent. The current access token remains valid until its own
expiry; only the long-lived credential is destroyed, server-side and in the
client's cookie jar.

Response:
  - 204: No Content: Refresh token removed
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), principal.MemberID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    "",
		Path:     constants.RefreshTokenCookiePath,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	respond.NoContent(writer)
}

/*
Me returns the authenticated member's profile.

GET /api/me

Response:
  - 200: Member: Hydrated profile
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.authService.Profile(request.Context(), principal.MemberID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

// sanitizeReturnURL restricts landing destinations to same-site relative
// paths. Anything absolute or protocol-relative falls back to the default.
func (handler *Handler) sanitizeReturnURL(raw string) string {
	if raw == "" {
		return handler.defaultReturnURL
	}
	if !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") {
		return handler.defaultReturnURL
	}
	return raw
}
