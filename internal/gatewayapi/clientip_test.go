package gatewayapi

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIPPrefersForwardedFor(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	r.Header.Set("X-Real-IP", "198.51.100.9")
	r.RemoteAddr = "127.0.0.1:5000"
	assert.Equal(t, "203.0.113.5", clientIP(r))
}

func TestClientIPFallsBackToRealIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("X-Real-IP", "198.51.100.9")
	r.RemoteAddr = "127.0.0.1:5000"
	assert.Equal(t, "198.51.100.9", clientIP(r))
}

func TestClientIPFallsBackToRemoteAddr(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.0.2.7:4321"
	assert.Equal(t, "192.0.2.7", clientIP(r))
}

func TestClientIPHandlesRemoteAddrWithoutPort(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "not-a-host-port"
	assert.Equal(t, "not-a-host-port", clientIP(r))
}
