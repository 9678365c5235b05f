// Copyright (c) 2026 Mireo. All rights reserved.
// Author: duc.tranminh.dev@gmail.com

package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ductranminh/mireo/internal/platform/config"
)

/*
TestExtraAllowedOrigins verifies the EXTRA_ORIGINS list parsing: comma
splitting, whitespace trimming, and tolerance for empty segments.
*/
func TestExtraAllowedOrigins(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"single", "https://staging.example.net", []string{"https://staging.example.net"}},
		{"multiple_with_spaces", "https://a.example, https://b.example", []string{"https://a.example", "https://b.example"}},
		{"trailing_comma", "https://a.example,", []string{"https://a.example"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{ExtraOrigins: tt.raw}
			assert.Equal(t, tt.want, cfg.ExtraAllowedOrigins())
		})
	}
}
