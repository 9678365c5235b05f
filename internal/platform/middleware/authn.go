// Copyright (c) 2026 Mireo. All rights reserved.
// Author: duc.tranminh.dev@gmail.com

// Package middleware provides the HTTP middleware chain for the Mireo API server.
//
// # Architecture
//
// Middleware intercepts incoming HTTP requests to apply global policies
// before they reach the domain handlers. This includes cross-cutting concerns
// like Logging, AuthN/AuthZ, Rate Limiting, and CORS.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ductranminh/mireo/internal/platform/apperr"
	"github.com/ductranminh/mireo/internal/platform/constants"
	"github.com/ductranminh/mireo/internal/platform/ctxutil"
	"github.com/ductranminh/mireo/internal/platform/respond"
	"github.com/ductranminh/mireo/internal/platform/sec"
)

// TokenVerifier defines the token operations needed by the authentication middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the concrete
// [sec.TokenService], allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	// Verify reports whether the token is authentic and unexpired.
	Verify(tokenString string) bool

	// Subject returns the subject claim of a token that passed Verify.
	Subject(tokenString string) (string, error)
}

// PrincipalResolver resolves a verified token subject (the member's email)
// into a request principal. Implementations are expected to be a cheap
// single-row lookup; anything heavier does not belong on the hot path.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, email string) (*sec.Principal, error)
}

// Authenticate extracts and verifies the bearer token from the Authorization
// header and installs the authentication context for the request.
//
// # Flow
//  1. Read 'Authorization'; if absent, the request proceeds as anonymous.
//  2. If the header does not start with the exact "Bearer " prefix
//     (case-sensitive, single space), it is treated as "no token provided".
//  3. Verify the raw token via [TokenVerifier]; an invalid or expired token
//     also resolves to anonymous. Expired and forged tokens are deliberately
//     indistinguishable to downstream code.
//  4. On success, resolve the principal by the subject claim and inject it
//     into the request context for downstream use.
//
// # Invariant
//
// This middleware never short-circuits the request: it only annotates the
// context. Rejection of anonymous requests on protected routes is the job of
// [RequireAuth]. It must be mounted exactly once, globally, before any
// middleware or handler that reads the authentication context.
func Authenticate(verifier TokenVerifier, resolver PrincipalResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get(constants.HeaderAuthorization)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Scheme Check ───────────────────────────────────────────────
			// A wrong scheme ("Basic ...", "bearer ...") is not an error; it is
			// simply not a token for us.
			if !strings.HasPrefix(authHeader, constants.BearerPrefix) {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			tokenString := authHeader[len(constants.BearerPrefix):]
			if !verifier.Verify(tokenString) {
				next.ServeHTTP(writer, request)
				return
			}

			subject, err := verifier.Subject(tokenString)
			if err != nil {
				// Unreachable for a token that passed Verify; stay anonymous.
				next.ServeHTTP(writer, request)
				return
			}

			// ── 4. Principal Resolution ───────────────────────────────────────
			// A resolution failure is logged and resolved as anonymous:
			// fail-open to public routes, fail-closed to protected ones via
			// RequireAuth.
			principal, err := resolver.ResolvePrincipal(request.Context(), subject)
			if err != nil {
				ctxutil.GetLogger(request.Context()).WarnContext(request.Context(),
					"principal_resolution_failed",
					slog.String("subject", subject),
					slog.Any("error", err),
				)
				next.ServeHTTP(writer, request)
				return
			}

			// ── 5. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithPrincipal(request.Context(), principal)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
//
// # Flow
//  1. Check if a [*sec.Principal] exists in context.
//  2. If missing, abort with HTTP 401 Unauthorized (an explicit response,
//     never a redirect).
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		principal := ctxutil.GetPrincipal(request.Context())
		if principal == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireGrant blocks authenticated requests that lack the named capability.
//
// It implies [RequireAuth], so protected routes need to mount only one of
// the two.
func RequireGrant(grant string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			principal := ctxutil.GetPrincipal(request.Context())
			if principal == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}
			if !principal.HasGrant(grant) {
				respond.Error(writer, request, apperr.Unauthorized("Insufficient grants"))
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}
