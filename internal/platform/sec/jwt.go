// Copyright (c) 2026 Mireo. All rights reserved.
// Author: duc.tranminh.dev@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (JWT signing and verification)
// from the domain logic. It acts as an Infrastructure service injected into the
// Application layer via small consumer-side interfaces.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// NowFunc returns the current time. It can be overridden in tests to
// exercise expiry behavior without sleeping.
var NowFunc = time.Now

// TokenService mints and verifies compact signed tokens carrying a subject
// and an expiry, using a single process-wide secret key.
//
// # Design
//
// Both access and refresh tokens go through this codec; they differ only in
// the validity duration passed to [TokenService.Generate]. Verification is
// pure in-memory computation (signature + expiry check) so it can run on
// every request without I/O. The server keeps no record of issued access
// tokens; refresh tokens are additionally persisted by the auth layer so a
// new login can replace them and logout can revoke them.
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	issuer string
}

// NewTokenService creates a new TokenService.
//
// # Parameters
//   - secret: The shared signing secret. Read-only after startup and shared
//     by all request workers without locking.
//   - algorithm: An HMAC signing algorithm name ("HS256", "HS384", "HS512").
//   - issuer: The value of the 'iss' claim on minted tokens.
func NewTokenService(secret, algorithm, issuer string) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("sec: signing secret must not be empty")
	}

	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("sec: unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("sec: algorithm %q is not an HMAC method", algorithm)
	}

	return &TokenService{
		secret: []byte(secret),
		method: method,
		issuer: issuer,
	}, nil
}

// Generate mints a signed token whose payload encodes the subject, the
// issuance time (now), and the expiry (now + timeToLive).
//
// The output is a compact JWS string, URL-safe by construction, so it can be
// attached to redirect query parameters without further encoding.
func (service *TokenService) Generate(subject string, timeToLive time.Duration) (string, error) {
	currentTime := NowFunc()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    service.issuer,
		IssuedAt:  jwt.NewNumericDate(currentTime),
		ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
	}

	token := jwt.NewWithClaims(service.method, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Verify reports whether the token's signature is valid under the server
// secret AND the current time is strictly before the encoded expiry.
//
// Malformed input (wrong format, unparsable payload, unknown signing scheme)
// is treated identically to a signature failure: the result is false and no
// error is ever surfaced to the caller.
func (service *TokenService) Verify(tokenString string) bool {
	_, err := service.parse(tokenString)
	return err == nil
}

// Subject extracts the subject claim from a token that previously passed
// [TokenService.Verify]. Calling it on an unverified token is a caller
// error; the returned error exists only to keep that misuse loud.
func (service *TokenService) Subject(tokenString string) (string, error) {
	claims, err := service.parse(tokenString)
	if err != nil {
		return "", fmt.Errorf("sec: subject of invalid token: %w", err)
	}
	return claims.Subject, nil
}

// parse verifies the signature and standard claims and returns the payload.
func (service *TokenService) parse(tokenString string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			// Restricting to the configured method also rejects "none".
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
			}
			return service.secret, nil
		},
		jwt.WithValidMethods([]string{service.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return NowFunc() }),
	)

	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("sec: invalid token")
	}

	return claims, nil
}
