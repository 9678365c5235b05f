// Copyright (c) 2026 Mireo. All rights reserved.
// Author: duc.tranminh.dev@gmail.com

package sec_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ductranminh/mireo/internal/platform/sec"
)

func newTestService(t *testing.T) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService("test-secret-at-least-32-bytes-long", "HS256", "mireo.app")
	require.NoError(t, err)
	return service
}

/*
TestTokenService_New validates the constructor's algorithm restrictions.
*/
func TestTokenService_New(t *testing.T) {
	tests := []struct {
		name      string
		secret    string
		algorithm string
		wantErr   bool
	}{
		{"hs256", "secret", "HS256", false},
		{"hs384", "secret", "HS384", false},
		{"hs512", "secret", "HS512", false},
		{"empty_secret", "", "HS256", true},
		{"unknown_algorithm", "secret", "HS9000", true},
		{"non_hmac_algorithm", "secret", "RS256", true},
		{"none_algorithm", "secret", "none", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sec.NewTokenService(tt.secret, tt.algorithm, "mireo.app")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

/*
TestTokenService_RoundTrip verifies that a freshly minted token verifies and
yields back its subject.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := newTestService(t)

	token, err := service.Generate("member@mireo.app", 30*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// Compact JWS: three dot-separated segments, URL-safe by construction
	assert.Len(t, strings.Split(token, "."), 3)

	assert.True(t, service.Verify(token))

	subject, err := service.Subject(token)
	require.NoError(t, err)
	assert.Equal(t, "member@mireo.app", subject)
}

/*
TestTokenService_Verify_Malformed confirms that Verify never errors: any
malformed input simply reports false.
*/
func TestTokenService_Verify_Malformed(t *testing.T) {
	service := newTestService(t)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"two_segments", "abc.def"},
		{"four_segments", "a.b.c.d"},
		{"unparsable_payload", "eyJhbGciOiJIUzI1NiJ9.!!!.sig"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, service.Verify(tt.token))
		})
	}
}

/*
TestTokenService_Verify_WrongSecret confirms tokens signed under a different
secret are rejected.
*/
func TestTokenService_Verify_WrongSecret(t *testing.T) {
	service := newTestService(t)

	other, err := sec.NewTokenService("another-secret-entirely-unrelated", "HS256", "mireo.app")
	require.NoError(t, err)

	token, err := other.Generate("member@mireo.app", 30*time.Minute)
	require.NoError(t, err)

	assert.False(t, service.Verify(token))
}

/*
TestTokenService_Verify_Expired drives the clock forward past the expiry and
confirms the token flips from valid to invalid with no error distinction.
*/
func TestTokenService_Verify_Expired(t *testing.T) {
	service := newTestService(t)

	issuedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	sec.NowFunc = func() time.Time { return issuedAt }
	defer func() { sec.NowFunc = time.Now }()

	token, err := service.Generate("member@mireo.app", 30*time.Minute)
	require.NoError(t, err)

	// Still inside the validity window
	sec.NowFunc = func() time.Time { return issuedAt.Add(29 * time.Minute) }
	assert.True(t, service.Verify(token))

	// Past the expiry: indistinguishable from a forged token
	sec.NowFunc = func() time.Time { return issuedAt.Add(31 * time.Minute) }
	assert.False(t, service.Verify(token))
}

/*
TestTokenService_Subject_Invalid ensures Subject refuses tokens that would
not pass Verify.
*/
func TestTokenService_Subject_Invalid(t *testing.T) {
	service := newTestService(t)

	_, err := service.Subject("not-a-token")
	assert.Error(t, err)
}

/*
TestGenerateSecureToken checks length scaling and uniqueness of random tokens.
*/
func TestGenerateSecureToken(t *testing.T) {
	first, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)
	second, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	// 32 bytes -> 43 chars of unpadded base64url
	assert.Len(t, first, 43)
}
