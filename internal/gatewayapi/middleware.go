package gatewayapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/klaytn-labs/deai-compute/internal/gatewayauth"
	"github.com/klaytn-labs/deai-compute/internal/ratelimit"
)

type ctxKey int

const principalCtxKey ctxKey = 0

func principalFromContext(ctx context.Context) (*gatewayauth.Principal, bool) {
	p, ok := ctx.Value(principalCtxKey).(*gatewayauth.Principal)
	return p, ok
}

// authenticated resolves the caller's Principal from either a Bearer JWT or
// an API key looked up via the repository, and rejects the request if
// neither is valid.
func (s *Server) authenticated(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		principal, err := s.auth.Authenticate(r)
		if err != nil {
			if key, ok := apiKeyFromHeader(r); ok {
				p, kErr := s.resolveAPIKey(key)
				if kErr != nil {
					writeError(w, kErr)
					return
				}
				principal = p
			} else {
				writeError(w, err)
				return
			}
		}
		ctx := context.WithValue(r.Context(), principalCtxKey, principal)
		next(w, r.WithContext(ctx), ps)
	}
}

func apiKeyFromHeader(r *http.Request) (string, bool) {
	k := r.Header.Get("X-API-Key")
	return k, k != ""
}

func (s *Server) resolveAPIKey(rawKey string) (*gatewayauth.Principal, error) {
	hash := gatewayauth.HashAPIKey(rawKey)
	k, err := s.repo.VerifyAPIKey(hash)
	if err != nil {
		return nil, err
	}
	_ = s.repo.TouchAPIKey(k.ID)
	return &gatewayauth.Principal{UserID: k.UserID, TokenType: gatewayauth.TokenTypeAPIKey}, nil
}

// rateLimited enforces a per-caller tier limit before invoking next,
// setting the standard X-RateLimit-* / Retry-After response headers.
func (s *Server) rateLimited(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		key, tier := s.rateLimitIdentity(r)
		decision, err := s.limiter.Allow(r.Context(), key, tier)
		if err != nil {
			logger().Errorw("rate limiter error, allowing request", "key", key, "err", err)
		} else {
			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", decision.Limit))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", decision.Remaining))
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(decision.ResetAfter).Unix()))
			if !decision.Allowed {
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(decision.RetryAfter.Seconds())))
				writeJSON(w, http.StatusTooManyRequests, errorBody{
					Error:   "TOO_MANY_REQUESTS",
					Message: "rate limit exceeded",
				})
				return
			}
		}
		next(w, r, ps)
	}
}

func (s *Server) rateLimitIdentity(r *http.Request) (string, ratelimit.Tier) {
	if p, ok := principalFromContext(r.Context()); ok {
		return "user:" + p.UserID, ratelimit.TierDefault
	}
	return "ip:" + clientIP(r), ratelimit.TierIP
}

// adminOnly rejects any caller whose account is not in the admin set.
func (s *Server) adminOnly(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		p, ok := principalFromContext(r.Context())
		if !ok || !s.admins[p.AccountID] {
			writeJSON(w, http.StatusForbidden, errorBody{
				Error:   "FORBIDDEN",
				Message: "admin access required",
			})
			return
		}
		next(w, r, ps)
	}
}
