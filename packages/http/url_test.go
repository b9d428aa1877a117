package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want URL
	}{
		{
			name: "host only",
			raw:  "http://example.com",
			want: URL{Host: "example.com", Port: 80, Path: ""},
		},
		{
			name: "trailing slash",
			raw:  "http://example.com/",
			want: URL{Host: "example.com", Port: 80, Path: ""},
		},
		{
			name: "explicit port and path",
			raw:  "http://localhost:8080/api/users",
			want: URL{Host: "localhost", Port: 8080, Path: "api/users"},
		},
		{
			name: "query string kept in path",
			raw:  "http://httpbin.org/get?course=networking&assignment=1",
			want: URL{Host: "httpbin.org", Port: 80, Path: "get?course=networking&assignment=1"},
		},
		{
			name: "scheme is case-insensitive",
			raw:  "HTTP://Example.com/x",
			want: URL{Host: "Example.com", Port: 80, Path: "x"},
		},
		{
			name: "https prefix stripped as text",
			raw:  "https://example.com/secure",
			want: URL{Host: "example.com", Port: 80, Path: "secure"},
		},
		{
			name: "no scheme",
			raw:  "example.com:81/a/b/c",
			want: URL{Host: "example.com", Port: 81, Path: "a/b/c"},
		},
		{
			name: "ipv6 literal",
			raw:  "http://[::1]:9000/ping",
			want: URL{Host: "::1", Port: 9000, Path: "ping"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := ParseURL(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *u)
		})
	}
}

func TestParseURL_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing host", "http:///path"},
		{"non-numeric port", "http://example.com:abc/"},
		{"port out of range", "http://example.com:70000/"},
		{"zero port", "http://example.com:0/"},
		{"unterminated ipv6", "http://[::1/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseURL(tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidURL)
		})
	}
}

func TestURL_AddressAndTarget(t *testing.T) {
	u, err := ParseURL("http://example.com")
	require.NoError(t, err)
	assert.Equal(t, "example.com:80", u.Address())
	assert.Equal(t, "/", u.RequestTarget())
	assert.Equal(t, "http://example.com:80/", u.String())

	u, err = ParseURL("http://[::1]:8080/x")
	require.NoError(t, err)
	assert.Equal(t, "[::1]:8080", u.Address())
}
