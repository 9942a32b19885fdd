package gatewayapi

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	uuid "github.com/satori/go.uuid"

	"github.com/klaytn-labs/deai-compute/internal/apierr"
	"github.com/klaytn-labs/deai-compute/internal/gatewayauth"
	"github.com/klaytn-labs/deai-compute/internal/gatewaystore"
)

type apiKeyResponse struct {
	ID         string  `json:"id"`
	Prefix     string  `json:"prefix"`
	CreatedAt  int64   `json:"created_at"`
	ExpiresAt  int64   `json:"expires_at"`
	LastUsedAt *int64  `json:"last_used_at,omitempty"`
	Key        *string `json:"key,omitempty"` // only present on creation
}

func (s *Server) handleListAPIKeys(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, _ := principalFromContext(r.Context())
	keys, err := s.repo.ListAPIKeys(principal.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]apiKeyResponse, 0, len(keys))
	for _, k := range keys {
		resp := apiKeyResponse{
			ID:        k.ID,
			Prefix:    k.Prefix,
			CreatedAt: k.CreatedAt.Unix(),
			ExpiresAt: k.ExpiresAt.Unix(),
		}
		if k.LastUsedAt != nil {
			t := k.LastUsedAt.Unix()
			resp.LastUsedAt = &t
		}
		out = append(out, resp)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"api_keys": out})
}

func (s *Server) handleCreateAPIKey(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, _ := principalFromContext(r.Context())

	raw, prefix, err := generateAPIKey()
	if err != nil {
		writeError(w, apierr.Wrap(apierr.Internal, err, "generate api key"))
		return
	}
	now := time.Now()
	key := &gatewaystore.APIKey{
		ID:        uuid.NewV4().String(),
		UserID:    principal.UserID,
		Prefix:    prefix,
		TokenHash: gatewayauth.HashAPIKey(raw),
		CreatedAt: now,
		ExpiresAt: now.Add(gatewayauth.APIKeyTTL),
	}
	if err := s.repo.CreateAPIKey(key); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, apiKeyResponse{
		ID:        key.ID,
		Prefix:    key.Prefix,
		CreatedAt: key.CreatedAt.Unix(),
		ExpiresAt: key.ExpiresAt.Unix(),
		Key:       &raw,
	})
}

func generateAPIKey() (raw, prefix string, err error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	raw = "dc_live_" + hex.EncodeToString(buf)
	prefix = raw[:16]
	return raw, prefix, nil
}

func (s *Server) handleRevokeAPIKey(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, _ := principalFromContext(r.Context())
	if err := s.repo.RevokeAPIKey(ps.ByName("id"), principal.UserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "revoked"})
}

type usageResponse struct {
	TasksSubmitted int `json:"tasks_submitted"`
}

func (s *Server) handleUserUsage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, _ := principalFromContext(r.Context())
	_, total, err := s.repo.ListTaskMirrors(principal.UserID, 1, 1, "", "")
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, usageResponse{TasksSubmitted: total})
}
