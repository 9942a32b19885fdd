package gatewayauth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallerIDPrefersLinkedAccount(t *testing.T) {
	p := &Principal{UserID: "user-1", AccountID: "alice.near"}
	assert.Equal(t, "alice.near", p.CallerID())
}

func TestCallerIDFallsBackToUserID(t *testing.T) {
	p := &Principal{UserID: "user-1"}
	assert.Equal(t, "user-1", p.CallerID())
}

func TestAuthenticateRequiresBearerHeader(t *testing.T) {
	a, err := New(testSecret)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err = a.Authenticate(r)
	assert.Error(t, err)
}

func TestAuthenticateResolvesPrincipalFromToken(t *testing.T) {
	a, err := New(testSecret)
	require.NoError(t, err)

	token, _, err := a.IssueAccessToken("user-1", "alice", "alice.near", AccessTokenTTL)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	p, err := a.Authenticate(r)
	require.NoError(t, err)
	assert.Equal(t, "user-1", p.UserID)
	assert.Equal(t, "alice.near", p.AccountID)
}
