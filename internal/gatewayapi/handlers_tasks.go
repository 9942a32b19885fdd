package gatewayapi

import (
	"encoding/json"
	"math/big"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	uuid "github.com/satori/go.uuid"

	"github.com/klaytn-labs/deai-compute/internal/apierr"
	"github.com/klaytn-labs/deai-compute/internal/coordinator/rpc"
	"github.com/klaytn-labs/deai-compute/internal/gatewaystore"
	"github.com/klaytn-labs/deai-compute/internal/ledger"
)

type submitTaskRequest struct {
	TaskType      string          `json:"task_type"`
	Model         string          `json:"model"`
	Input         json.RawMessage `json:"input"`
	EstimatedCost string          `json:"estimated_cost"`
	StorageCost   string          `json:"storage_cost"`
	Priority      string          `json:"priority,omitempty"`
}

type taskResponse struct {
	ID           string `json:"id"`
	CoordTaskID  uint64 `json:"coord_task_id"`
	Status       string `json:"status"`
	TaskType     string `json:"task_type"`
	Model        string `json:"model"`
	RewardAmount string `json:"reward_amount,omitempty"`
	CreatedAt    int64  `json:"created_at,omitempty"`
	Output       string `json:"output,omitempty"`
	ProofHash    string `json:"proof_hash,omitempty"`
}

func (s *Server) handleSubmitTask(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, _ := principalFromContext(r.Context())

	var req submitTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apierr.Wrap(apierr.BadRequest, err, "invalid request body"))
		return
	}
	if req.TaskType == "" || req.Model == "" {
		writeError(w, apierr.New(apierr.BadRequest, "task_type and model are required"))
		return
	}

	description, err := json.Marshal(map[string]interface{}{
		"model":     req.Model,
		"input":     req.Input,
		"task_type": req.TaskType,
	})
	if err != nil {
		writeError(w, apierr.Wrap(apierr.BadRequest, err, "marshal task description"))
		return
	}

	resp, err := s.coord.SubmitTask(r.Context(), &rpc.SubmitTaskRequest{
		Requester:       principal.CallerID(),
		Description:     string(description),
		EstimatedCost:   req.EstimatedCost,
		StorageCost:     req.StorageCost,
		AttachedPayment: addAmounts(req.EstimatedCost, req.StorageCost),
		Priority:        req.Priority,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	mirror := &gatewaystore.TaskMirror{
		ID:          uuid.NewV4().String(),
		CoordTaskID: resp.Task.ID,
		UserID:      principal.UserID,
		TaskType:    req.TaskType,
		ModelName:   req.Model,
		Parameters:  string(req.Input),
		Status:      resp.Task.Status,
	}
	if err := s.repo.CreateTaskMirror(mirror); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, taskResponse{
		ID:           mirror.ID,
		CoordTaskID:  resp.Task.ID,
		Status:       resp.Task.Status,
		TaskType:     req.TaskType,
		Model:        req.Model,
		RewardAmount: resp.Task.RewardAmount,
		CreatedAt:    resp.Task.CreatedAt,
	})
}

func addAmounts(a, b string) string {
	an, errA := ledger.MustParseAmount(a)
	bn, errB := ledger.MustParseAmount(b)
	if errA != nil || errB != nil {
		return "0"
	}
	return new(big.Int).Add(an, bn).String()
}

type listTasksResponse struct {
	Tasks []taskResponse `json:"tasks"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
	Total int            `json:"total"`
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, _ := principalFromContext(r.Context())
	page, limit := paginationParams(r)
	sortBy := r.URL.Query().Get("sort_by")
	sortOrder := r.URL.Query().Get("sort_order")

	mirrors, total, err := s.repo.ListTaskMirrors(principal.UserID, page, limit, sortBy, sortOrder)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]taskResponse, 0, len(mirrors))
	for _, m := range mirrors {
		out = append(out, taskResponse{
			ID:          m.ID,
			CoordTaskID: m.CoordTaskID,
			Status:      m.Status,
			TaskType:    m.TaskType,
			Model:       m.ModelName,
			CreatedAt:   m.CreatedAt.Unix(),
		})
	}
	writeJSON(w, http.StatusOK, listTasksResponse{Tasks: out, Page: page, Limit: limit, Total: total})
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, _ := principalFromContext(r.Context())
	mirror, err := s.repo.GetTaskMirror(ps.ByName("id"), principal.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := taskResponse{
		ID:          mirror.ID,
		CoordTaskID: mirror.CoordTaskID,
		Status:      mirror.Status,
		TaskType:    mirror.TaskType,
		Model:       mirror.ModelName,
		CreatedAt:   mirror.CreatedAt.Unix(),
	}
	if active, err := s.coord.GetActiveTask(r.Context(), &rpc.GetActiveTaskRequest{TaskID: mirror.CoordTaskID}); err == nil {
		resp.Status = active.Task.Status
		resp.RewardAmount = active.Task.RewardAmount
	} else if completed, err := s.coord.GetTaskResult(r.Context(), &rpc.GetTaskResultRequest{TaskID: mirror.CoordTaskID}); err == nil {
		resp.Status = completed.Task.Status
		resp.Output = completed.Task.Output
		resp.ProofHash = completed.Task.ProofHash
	}
	if resp.Status != mirror.Status {
		_ = s.repo.UpdateTaskMirrorStatus(mirror.ID, principal.UserID, resp.Status)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetTaskResult(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, _ := principalFromContext(r.Context())
	mirror, err := s.repo.GetTaskMirror(ps.ByName("id"), principal.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	resp, err := s.coord.GetTaskResult(r.Context(), &rpc.GetTaskResultRequest{TaskID: mirror.CoordTaskID})
	if err != nil {
		writeError(w, err)
		return
	}
	if resp.Task.Status != mirror.Status {
		_ = s.repo.UpdateTaskMirrorStatus(mirror.ID, principal.UserID, resp.Task.Status)
	}
	writeJSON(w, http.StatusOK, taskResponse{
		ID:          mirror.ID,
		CoordTaskID: resp.Task.ID,
		Status:      resp.Task.Status,
		TaskType:    mirror.TaskType,
		Model:       mirror.ModelName,
		Output:      resp.Task.Output,
		ProofHash:   resp.Task.ProofHash,
	})
}

func (s *Server) handleCancelTask(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, _ := principalFromContext(r.Context())
	mirror, err := s.repo.GetTaskMirror(ps.ByName("id"), principal.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := s.coord.TimeoutTask(r.Context(), &rpc.TimeoutTaskRequest{
		Caller:          principal.CallerID(),
		TaskID:          mirror.CoordTaskID,
		AttachedDeposit: ledger.SafetyDeposit.String(),
	}); err != nil {
		writeError(w, err)
		return
	}
	if err := s.repo.UpdateTaskMirrorStatus(mirror.ID, principal.UserID, "TimedOut"); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func paginationParams(r *http.Request) (page, limit int) {
	page = 1
	limit = 20
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	return page, limit
}
