package gatewayapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	uuid "github.com/satori/go.uuid"

	"github.com/klaytn-labs/deai-compute/internal/apierr"
	"github.com/klaytn-labs/deai-compute/internal/gatewayauth"
	"github.com/klaytn-labs/deai-compute/internal/gatewaystore"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 50
	minPasswordLen = 8
)

type registerRequest struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	NEARAccountID string `json:"near_account_id"`
}

// authUser is the user summary embedded in authResponse.
type authUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	IsAdmin  bool   `json:"is_admin"`
}

// authResponse mirrors the gateway's documented
// {access_token, token_type: "Bearer", expires_in, user} shape; ExpiresAt
// and UserID are kept alongside for callers that still read the flatter
// legacy fields.
type authResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int64    `json:"expires_in"`
	ExpiresAt   int64    `json:"expires_at"`
	User        authUser `json:"user"`
	UserID      string   `json:"user_id"`
}

func newAuthResponse(token string, expiresAt time.Time, user *gatewaystore.User) authResponse {
	return authResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(time.Until(expiresAt).Seconds()),
		ExpiresAt:   expiresAt.Unix(),
		User: authUser{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			IsAdmin:  user.Role == "admin",
		},
		UserID: user.ID,
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apierr.Wrap(apierr.BadRequest, err, "invalid request body"))
		return
	}
	if len(req.Username) < minUsernameLen || len(req.Username) > maxUsernameLen {
		writeError(w, apierr.New(apierr.BadRequest, "username must be %d-%d characters", minUsernameLen, maxUsernameLen))
		return
	}
	if len(req.Password) < minPasswordLen {
		writeError(w, apierr.New(apierr.BadRequest, "password must be at least %d characters", minPasswordLen))
		return
	}
	if _, err := s.repo.GetUserByUsername(req.Username); err == nil {
		writeError(w, apierr.New(apierr.Conflict, "username %s already taken", req.Username))
		return
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, apierr.Wrap(apierr.Internal, err, "hash password"))
		return
	}
	user := &gatewaystore.User{
		ID:            uuid.NewV4().String(),
		Username:      req.Username,
		Email:         req.Email,
		PasswordHash:  hash,
		NEARAccountID: req.NEARAccountID,
		Role:          "user",
	}
	if err := s.repo.CreateUser(user); err != nil {
		writeError(w, err)
		return
	}

	token, exp, err := s.auth.IssueAccessToken(user.ID, user.Username, user.NEARAccountID, gatewayauth.AccessTokenTTL)
	if err != nil {
		writeError(w, apierr.Wrap(apierr.Internal, err, "issue access token"))
		return
	}
	writeJSON(w, http.StatusCreated, newAuthResponse(token, exp, user))
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apierr.Wrap(apierr.BadRequest, err, "invalid request body"))
		return
	}
	user, err := s.repo.GetUserByUsername(req.Username)
	if err != nil {
		writeError(w, apierr.New(apierr.Unauthorized, "invalid username or password"))
		return
	}
	if err := s.auth.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		writeError(w, err)
		return
	}
	token, exp, err := s.auth.IssueAccessToken(user.ID, user.Username, user.NEARAccountID, gatewayauth.AccessTokenTTL)
	if err != nil {
		writeError(w, apierr.Wrap(apierr.Internal, err, "issue access token"))
		return
	}
	writeJSON(w, http.StatusOK, newAuthResponse(token, exp, user))
}

type nearLoginRequest struct {
	AccountID string `json:"account_id"`
	PublicKey string `json:"public_key"`
	Message   string `json:"message"`
	Signature string `json:"signature"`
}

func (s *Server) handleNearLogin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req nearLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apierr.Wrap(apierr.BadRequest, err, "invalid request body"))
		return
	}
	if err := gatewayauth.VerifyWalletSignature(req.PublicKey, req.Message, req.Signature); err != nil {
		writeError(w, err)
		return
	}
	if err := gatewayauth.ValidateWalletMessageFreshness(req.Message, time.Now()); err != nil {
		writeError(w, err)
		return
	}

	user, err := s.repo.GetUserByAccountID(req.AccountID)
	if apierr.KindOf(err) == apierr.NotFound {
		user = &gatewaystore.User{
			ID:            uuid.NewV4().String(),
			Username:      gatewayauth.NEARUsername(req.AccountID),
			NEARAccountID: req.AccountID,
			Role:          "user",
		}
		if err := s.repo.CreateUser(user); err != nil {
			writeError(w, err)
			return
		}
	} else if err != nil {
		writeError(w, err)
		return
	}

	token, exp, err := s.auth.IssueAccessToken(user.ID, user.Username, user.NEARAccountID, gatewayauth.AccessTokenTTL)
	if err != nil {
		writeError(w, apierr.Wrap(apierr.Internal, err, "issue access token"))
		return
	}
	writeJSON(w, http.StatusOK, newAuthResponse(token, exp, user))
}
