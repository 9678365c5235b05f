// Copyright (c) 2026 Mireo. All rights reserved.
// Author: duc.tranminh.dev@gmail.com

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ductranminh/mireo/internal/platform/constants"
	"github.com/ductranminh/mireo/internal/platform/middleware"
)

// # Test Doubles

// stubAppConfig implements middleware.AppConfig with fixed values.
type stubAppConfig struct {
	development  bool
	extraOrigins []string
}

func (s *stubAppConfig) IsDevelopment() bool { return s.development }

func (s *stubAppConfig) ExtraAllowedOrigins() []string { return s.extraOrigins }

// # CORS

/*
TestCORS verifies origin authorization across environments: development admits
everything, production admits first-party and explicitly configured origins
only, and unlisted origins get no CORS headers but still reach the handler.
*/
func TestCORS(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *stubAppConfig
		origin  string
		allowed bool
	}{
		{"dev_any_origin", &stubAppConfig{development: true}, "http://localhost:5173", true},
		{"prod_first_party", &stubAppConfig{}, "https://www.mireo.app", true},
		{"prod_extra_origin", &stubAppConfig{extraOrigins: []string{"https://staging.example.net"}}, "https://staging.example.net", true},
		{"prod_unlisted", &stubAppConfig{extraOrigins: []string{"https://staging.example.net"}}, "https://evil.example", false},
		{"prod_no_extras", &stubAppConfig{}, "https://staging.example.net", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &captureNext{}
			handler := middleware.CORS(tt.cfg)(next.handler())

			request := httptest.NewRequest(http.MethodGet, "/articles", nil)
			request.Header.Set(constants.HeaderOrigin, tt.origin)
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, request)

			// Denied origins are not blocked, they just get no CORS headers
			assert.True(t, next.called)
			assert.Equal(t, http.StatusOK, recorder.Code)

			allowOrigin := recorder.Header().Get("Access-Control-Allow-Origin")
			if tt.allowed {
				assert.Equal(t, tt.origin, allowOrigin)
			} else {
				assert.Empty(t, allowOrigin)
			}
		})
	}
}

/*
TestCORS_Preflight verifies that OPTIONS requests short-circuit with 204 and
never reach the downstream handler.
*/
func TestCORS_Preflight(t *testing.T) {
	cfg := &stubAppConfig{extraOrigins: []string{"https://staging.example.net"}}
	next := &captureNext{}
	handler := middleware.CORS(cfg)(next.handler())

	request := httptest.NewRequest(http.MethodOptions, "/api/token", nil)
	request.Header.Set(constants.HeaderOrigin, "https://staging.example.net")
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)

	assert.False(t, next.called)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, "https://staging.example.net", recorder.Header().Get("Access-Control-Allow-Origin"))
}

/*
TestCORS_NoOriginHeader verifies that same-origin requests (no Origin header)
pass straight through untouched.
*/
func TestCORS_NoOriginHeader(t *testing.T) {
	next := &captureNext{}
	handler := middleware.CORS(&stubAppConfig{})(next.handler())

	request := httptest.NewRequest(http.MethodGet, "/articles", nil)
	recorder := httptest.NewRecorder()

	handler.ServeHTTP(recorder, request)

	assert.True(t, next.called)
	assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
}
