package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOriginAllowed(t *testing.T) {
	patterns := []string{"crm.example.com", "*.example.org", "localhost:*"}

	tests := []struct {
		origin string
		want   bool
	}{
		{"https://crm.example.com", true},
		{"http://crm.example.com", true}, // scheme is ignored
		{"https://app.example.org", true},
		{"https://deep.sub.example.org", true},
		{"http://localhost:5173", true},
		{"http://localhost:3000", true},
		{"https://crm.example.com.evil.com", false},
		{"https://example.org", false}, // wildcard requires a subdomain
		{"https://other.example.com", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, originAllowed(patterns, tt.origin), tt.origin)
	}

	assert.False(t, originAllowed(nil, "https://crm.example.com"))
}
