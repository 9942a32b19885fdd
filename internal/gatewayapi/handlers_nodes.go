package gatewayapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/klaytn-labs/deai-compute/internal/apierr"
	"github.com/klaytn-labs/deai-compute/internal/coordinator/rpc"
)

type nodeResponse struct {
	Account          string `json:"account"`
	Stake            string `json:"stake"`
	PublicIP         string `json:"public_ip"`
	GPUSpecs         string `json:"gpu_specs"`
	CPUSpecs         string `json:"cpu_specs"`
	IsActive         bool   `json:"is_active"`
	LastHeartbeat    int64  `json:"last_heartbeat"`
	RegistrationTime int64  `json:"registration_time"`
	TasksCompleted   uint64 `json:"tasks_completed"`
	Reputation       int    `json:"reputation"`
}

func nodeMsgToResponse(n *rpc.NodeInfoMsg) nodeResponse {
	return nodeResponse{
		Account:          n.Account,
		Stake:            n.Stake,
		PublicIP:         n.PublicIP,
		GPUSpecs:         n.GPUSpecs,
		CPUSpecs:         n.CPUSpecs,
		IsActive:         n.IsActive,
		LastHeartbeat:    n.LastHeartbeat,
		RegistrationTime: n.RegistrationTime,
		TasksCompleted:   n.TasksCompleted,
		Reputation:       n.Reputation,
	}
}

func (s *Server) handleListNodes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	resp, err := s.coord.GetActiveNodes(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]nodeResponse, 0, len(resp.Nodes))
	for _, n := range resp.Nodes {
		out = append(out, nodeMsgToResponse(n))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"nodes": out})
}

func (s *Server) handleGetNode(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	account := ps.ByName("id")
	resp, err := s.coord.GetNodeInfo(r.Context(), &rpc.GetNodeInfoRequest{Account: account})
	if err != nil {
		writeError(w, err)
		return
	}
	if resp.Node == nil {
		writeError(w, apierr.New(apierr.NotFound, "node %s not found", account))
		return
	}
	writeJSON(w, http.StatusOK, nodeMsgToResponse(resp.Node))
}

type networkStatsResponse struct {
	TotalNodes              int    `json:"total_nodes"`
	ActiveNodes             int    `json:"active_nodes"`
	TotalTasks              uint64 `json:"total_tasks"`
	PendingTasks            int    `json:"pending_tasks"`
	ActiveTasks             int    `json:"active_tasks"`
	CompletedTasks          int    `json:"completed_tasks"`
	TotalRewardsDistributed string `json:"total_rewards_distributed"`
	TotalSupply             string `json:"total_supply"`
}

func (s *Server) handleNetworkStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	stats, err := s.coord.GetContractStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, networkStatsResponse{
		TotalNodes:              stats.TotalNodes,
		ActiveNodes:             stats.ActiveNodes,
		TotalTasks:              stats.TotalTasks,
		PendingTasks:            stats.PendingTasks,
		ActiveTasks:             stats.ActiveTasks,
		CompletedTasks:          stats.CompletedTasks,
		TotalRewardsDistributed: stats.TotalRewardsDistributed,
		TotalSupply:             stats.TotalSupply,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
