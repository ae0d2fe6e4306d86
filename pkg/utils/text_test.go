package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidURLAcceptsWellFormedHTTPAndHTTPS(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"plain https", "https://example.com", true},
		{"plain http", "http://example.com", true},
		{"with path and query", "https://example.com/a/b?x=1&y=2", true},
		{"missing scheme", "example.com", false},
		{"ftp scheme", "ftp://example.com", false},
		{"empty string", "", false},
		{"scheme only", "https://", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidURL(tt.url))
		})
	}
}

func TestGetDomainFromURLStripsSchemePathPortAndCase(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"scheme and path", "https://Example.com/page", "example.com"},
		{"with port", "http://example.com:8080/page", "example.com"},
		{"no scheme", "example.com/page", "example.com"},
		{"bare host", "https://example.com", "example.com"},
		{"host with port no path", "https://example.com:443", "example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetDomainFromURL(tt.url))
		})
	}
}
