package gatewayapi

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/klaytn-labs/deai-compute/internal/apierr"
	"github.com/klaytn-labs/deai-compute/internal/coordinator/rpc"
	"github.com/klaytn-labs/deai-compute/internal/ledger"
)

func (s *Server) handleAdminPause(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, _ := principalFromContext(r.Context())
	if _, err := s.coord.Pause(r.Context(), &rpc.PauseRequest{
		Caller:          principal.CallerID(),
		AttachedDeposit: ledger.SafetyDeposit.String(),
	}); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "paused"})
}

func (s *Server) handleAdminUnpause(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, _ := principalFromContext(r.Context())
	if _, err := s.coord.Unpause(r.Context(), &rpc.PauseRequest{
		Caller:          principal.CallerID(),
		AttachedDeposit: ledger.SafetyDeposit.String(),
	}); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "unpaused"})
}

type updateMinStakeRequest struct {
	MinStake string `json:"min_stake"`
}

func (s *Server) handleAdminUpdateMinStake(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, _ := principalFromContext(r.Context())
	var req updateMinStakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apierr.Wrap(apierr.BadRequest, err, "invalid request body"))
		return
	}
	if _, err := s.coord.UpdateMinStake(r.Context(), &rpc.UpdateMinStakeRequest{
		Caller:          principal.CallerID(),
		AttachedDeposit: ledger.SafetyDeposit.String(),
		MinStake:        req.MinStake,
	}); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}
