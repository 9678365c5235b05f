// Copyright (c) 2026 Mireo. All rights reserved.
// Author: duc.tranminh.dev@gmail.com

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ductranminh/mireo/internal/platform/ctxutil"
	"github.com/ductranminh/mireo/internal/platform/middleware"
	"github.com/ductranminh/mireo/internal/platform/sec"
)

// # Test Doubles

// stubVerifier accepts exactly one token string and maps it to one subject.
type stubVerifier struct {
	validToken string
	subject    string
}

func (s *stubVerifier) Verify(tokenString string) bool {
	return tokenString == s.validToken
}

func (s *stubVerifier) Subject(tokenString string) (string, error) {
	if tokenString != s.validToken {
		return "", errors.New("invalid token")
	}
	return s.subject, nil
}

// stubResolver maps one email to one principal, or fails on demand.
type stubResolver struct {
	principal *sec.Principal
	err       error
}

func (s *stubResolver) ResolvePrincipal(ctx context.Context, email string) (*sec.Principal, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.principal, nil
}

// captureNext records the principal observed by the downstream handler.
type captureNext struct {
	called    bool
	principal *sec.Principal
}

func (c *captureNext) handler() http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		c.called = true
		c.principal = ctxutil.GetPrincipal(request.Context())
		writer.WriteHeader(http.StatusOK)
	})
}

// # Authenticate

/*
TestAuthenticate_ValidBearer verifies that a well-formed bearer token resolves
into a principal on the request context.
*/
func TestAuthenticate_ValidBearer(t *testing.T) {
	verifier := &stubVerifier{validToken: "good-token", subject: "member@mireo.app"}
	resolver := &stubResolver{principal: &sec.Principal{
		MemberID: 7,
		Email:    "member@mireo.app",
		Grants:   sec.UserGrants(),
	}}

	next := &captureNext{}
	handler := middleware.Authenticate(verifier, resolver)(next.handler())

	request := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	request.Header.Set("Authorization", "Bearer good-token")
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)

	assert.True(t, next.called)
	require.NotNil(t, next.principal)
	assert.Equal(t, int64(7), next.principal.MemberID)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

/*
TestAuthenticate_Anonymous covers every header shape that must resolve to an
anonymous (but never rejected) request: the filter never short-circuits.
*/
func TestAuthenticate_Anonymous(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"no_header", ""},
		{"wrong_scheme", "Basic dXNlcjpwYXNz"},
		{"lowercase_bearer", "bearer good-token"},
		{"missing_space", "Bearergood-token"},
		{"invalid_token", "Bearer forged-token"},
		{"bare_scheme", "Bearer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := &stubVerifier{validToken: "good-token", subject: "member@mireo.app"}
			resolver := &stubResolver{principal: &sec.Principal{MemberID: 7, Email: "member@mireo.app"}}

			next := &captureNext{}
			handler := middleware.Authenticate(verifier, resolver)(next.handler())

			request := httptest.NewRequest(http.MethodGet, "/articles", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, request)

			// The chain always continues, just without a principal
			assert.True(t, next.called)
			assert.Nil(t, next.principal)
			assert.Equal(t, http.StatusOK, recorder.Code)
		})
	}
}

/*
TestAuthenticate_ResolverFailure verifies the fail-open contract: a resolution
error downgrades the request to anonymous instead of failing it.
*/
func TestAuthenticate_ResolverFailure(t *testing.T) {
	verifier := &stubVerifier{validToken: "good-token", subject: "gone@mireo.app"}
	resolver := &stubResolver{err: errors.New("connection refused")}

	next := &captureNext{}
	handler := middleware.Authenticate(verifier, resolver)(next.handler())

	request := httptest.NewRequest(http.MethodGet, "/articles", nil)
	request.Header.Set("Authorization", "Bearer good-token")
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)

	assert.True(t, next.called)
	assert.Nil(t, next.principal)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

// # RequireAuth

/*
TestRequireAuth verifies that protected routes reject anonymous requests with
an explicit 401 response and admit authenticated ones.
*/
func TestRequireAuth(t *testing.T) {
	next := &captureNext{}
	handler := middleware.RequireAuth(next.handler())

	// 1. Anonymous request is rejected
	request := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.False(t, next.called)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	// 2. Authenticated request passes through
	principal := &sec.Principal{MemberID: 7, Email: "member@mireo.app", Grants: sec.UserGrants()}
	ctx := ctxutil.WithPrincipal(request.Context(), principal)
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request.WithContext(ctx))

	assert.True(t, next.called)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

// # RequireGrant

/*
TestRequireGrant verifies capability gating on top of authentication.
*/
func TestRequireGrant(t *testing.T) {
	next := &captureNext{}
	handler := middleware.RequireGrant(sec.GrantUser)(next.handler())

	// 1. Anonymous request is rejected (RequireGrant implies RequireAuth)
	request := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.False(t, next.called)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	// 2. Principal lacking the grant is rejected
	stranger := &sec.Principal{MemberID: 9, Email: "s@mireo.app", Grants: nil}
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request.WithContext(ctxutil.WithPrincipal(request.Context(), stranger)))

	assert.False(t, next.called)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	// 3. Principal holding the grant passes
	holder := &sec.Principal{MemberID: 7, Email: "member@mireo.app", Grants: sec.UserGrants()}
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request.WithContext(ctxutil.WithPrincipal(request.Context(), holder)))

	assert.True(t, next.called)
	assert.Equal(t, http.StatusOK, recorder.Code)
}
