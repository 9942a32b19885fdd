package gatewayauth

import (
	"net/http"
	"strings"

	"github.com/klaytn-labs/deai-compute/internal/apierr"
)

// Principal is the authenticated caller identity attached to a request
// context after successful Bearer resolution.
type Principal struct {
	UserID    string
	Username  string
	AccountID string
	TokenType TokenType
}

// CallerID returns the identity to present to the coordinator: the linked
// NEAR account when one exists, otherwise the gateway's own user ID so
// password-only accounts still get a stable, non-empty caller.
func (p *Principal) CallerID() string {
	if p.AccountID != "" {
		return p.AccountID
	}
	return p.UserID
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header, if present.
func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return "", false
	}
	return strings.TrimSpace(h[len(prefix):]), true
}

// Authenticate resolves the Principal for an incoming request's bearer
// token.
func (a *Authenticator) Authenticate(r *http.Request) (*Principal, error) {
	token, ok := bearerToken(r)
	if !ok {
		return nil, apierr.New(apierr.Unauthorized, "missing Authorization header")
	}
	claims, err := a.Parse(token)
	if err != nil {
		return nil, err
	}
	return &Principal{
		UserID:    claims.Subject,
		Username:  claims.Username,
		AccountID: claims.AccountID,
		TokenType: TokenType(claims.TokenType),
	}, nil
}

// PublicRoutes lists the health and auth paths reachable without a bearer
// token: health check, registration, login. The node and network-stats
// read routes are also served without a token but are not listed here.
var PublicRoutes = map[string]bool{
	"/health":                 true,
	"/api/v1/auth/register":   true,
	"/api/v1/auth/login":      true,
	"/api/v1/auth/near-login": true,
}
