package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"empty", "", ""},
		{"valid", "Bearer abc123", "abc123"},
		{"lowercase scheme", "bearer abc123", "abc123"},
		{"missing token", "Bearer", ""},
		{"wrong scheme", "Basic abc123", ""},
		{"extra whitespace", "  Bearer   abc123  ", "abc123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractBearerToken(tt.header))
		})
	}
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantLimit int
		wantSkip  int
	}{
		{"defaults", "", 20, 0},
		{"explicit", "?limit=5&skip=40", 5, 40},
		{"capped", "?limit=500", 100, 0},
		{"negative ignored", "?limit=-3&skip=-9", 20, 0},
		{"garbage ignored", "?limit=abc&skip=xyz", 20, 0},
		{"zero limit ignored", "?limit=0", 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/articles"+tt.query, nil)
			limit, skip := parsePagination(r, 20, 100)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantSkip, skip)
		})
	}
}
