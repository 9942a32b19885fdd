// Package gatewayauth implements the gateway's authentication surface:
// password login, NEAR wallet-signature login, JWT access tokens and
// long-lived API keys, and principal resolution from a Bearer header.
package gatewayauth

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/klaytn-labs/deai-compute/internal/apierr"
)

// logger resolves the sugared logger at call time rather than caching it at
// package-init, since zap.ReplaceGlobals runs later in each binary's run()
// and a var captured at init would be permanently bound to the no-op default.
func logger() *zap.SugaredLogger {
	return zap.L().Sugar().Named("gatewayauth")
}

// TokenType distinguishes an access token (short-lived, issued at login)
// from an API key (long-lived, issued explicitly by the user).
type TokenType string

const (
	TokenTypeAccess TokenType = "access"
	TokenTypeAPIKey TokenType = "api_key"
)

const (
	AccessTokenTTL     = time.Hour
	RememberMeTokenTTL = 24 * time.Hour
	APIKeyTTL          = 30 * 24 * time.Hour
	bcryptCost         = 12

	// WalletMessageSkew bounds how far a wallet-login message's embedded
	// timestamp may drift from the gateway's clock before it is rejected
	// as stale or from-the-future.
	WalletMessageSkew = 300 * time.Second
)

// Claims is the JWT payload carried by both access tokens and API keys.
type Claims struct {
	jwt.StandardClaims
	Username  string `json:"username"`
	AccountID string `json:"account_id,omitempty"`
	TokenType string `json:"token_type"`
}

// Authenticator issues and verifies tokens and passwords for one gateway
// deployment, keyed by a single JWT signing secret.
type Authenticator struct {
	secret []byte
}

// New builds an Authenticator. secret must be at least 32 bytes.
func New(secret string) (*Authenticator, error) {
	if len(secret) < 32 {
		return nil, errors.New("JWT_SECRET must be at least 32 characters")
	}
	return &Authenticator{secret: []byte(secret)}, nil
}

// HashPassword bcrypt-hashes a plaintext password for storage.
func (a *Authenticator) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(hash), nil
}

// VerifyPassword checks a plaintext password against its bcrypt hash.
func (a *Authenticator) VerifyPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return apierr.New(apierr.Unauthorized, "invalid username or password")
	}
	return nil
}

// IssueAccessToken mints a short-lived JWT for a successful login.
func (a *Authenticator) IssueAccessToken(subject, username, accountID string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   subject,
			IssuedAt:  now.Unix(),
			ExpiresAt: expiresAt.Unix(),
		},
		Username:  username,
		AccountID: accountID,
		TokenType: string(TokenTypeAccess),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "sign access token")
	}
	return signed, expiresAt, nil
}

// IssueAPIKey mints a 30-day JWT usable as a long-lived bearer credential.
func (a *Authenticator) IssueAPIKey(subject, username, accountID string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(APIKeyTTL)
	claims := Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   subject,
			IssuedAt:  now.Unix(),
			ExpiresAt: expiresAt.Unix(),
		},
		Username:  username,
		AccountID: accountID,
		TokenType: string(TokenTypeAPIKey),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "sign api key")
	}
	return signed, expiresAt, nil
}

// HashAPIKey digests a raw API key for storage/lookup; only the hash is
// ever persisted, never the key itself.
func HashAPIKey(rawKey string) string {
	sum := sha256.Sum256([]byte(rawKey))
	return hex.EncodeToString(sum[:])
}

// Parse validates a bearer token's signature and expiry and returns its
// claims.
func (a *Authenticator) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apierr.New(apierr.Unauthorized, "invalid or expired token")
	}
	return claims, nil
}

// VerifyWalletSignature checks a NEAR-style login assertion: the caller
// signs message with the ed25519 key matching publicKey and submits both,
// proving control of account_id's registered key.
// Keys and signatures are base64-encoded; NEAR's own wire format uses
// base58, which this deployment does not carry a dependency for (see
// project notes).
func VerifyWalletSignature(publicKeyB64, message, signatureB64 string) error {
	pubKey, err := base64.StdEncoding.DecodeString(publicKeyB64)
	if err != nil || len(pubKey) != ed25519.PublicKeySize {
		return apierr.New(apierr.Unauthorized, "invalid public key")
	}
	sig, err := base64.StdEncoding.DecodeString(signatureB64)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return apierr.New(apierr.Unauthorized, "invalid signature")
	}
	if !ed25519.Verify(pubKey, []byte(message), sig) {
		return apierr.New(apierr.Unauthorized, "signature verification failed")
	}
	return nil
}

// ValidateWalletMessageFreshness enforces the wallet login message format
// "<anything>|<unix_seconds>", rejecting messages whose embedded timestamp
// is missing, malformed, or more than WalletMessageSkew away from now.
// This guards against replaying an old signed message.
func ValidateWalletMessageFreshness(message string, now time.Time) error {
	idx := strings.LastIndex(message, "|")
	if idx < 0 {
		return apierr.New(apierr.Unauthorized, "message missing timestamp")
	}
	ts, err := strconv.ParseInt(message[idx+1:], 10, 64)
	if err != nil {
		return apierr.New(apierr.Unauthorized, "message timestamp malformed")
	}
	skew := now.Sub(time.Unix(ts, 0))
	if skew < 0 {
		skew = -skew
	}
	if skew > WalletMessageSkew {
		return apierr.New(apierr.Unauthorized, "message timestamp outside allowed window")
	}
	return nil
}

// NEARUsername derives the auto-provisioned gateway username for a NEAR
// account ID that has no prior user record: "near_" followed by the
// account ID with every "." replaced by "_".
func NEARUsername(accountID string) string {
	return "near_" + strings.ReplaceAll(accountID, ".", "_")
}
