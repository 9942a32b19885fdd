package rpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/klaytn-labs/deai-compute/internal/apierr"
	"github.com/klaytn-labs/deai-compute/internal/coordinator"
)

// logger resolves the sugared logger at call time rather than caching it at
// package-init, since zap.ReplaceGlobals runs later in each binary's run()
// and a var captured at init would be permanently bound to the no-op default.
func logger() *zap.SugaredLogger {
	return zap.L().Sugar().Named("coordinator.rpc")
}

// Server adapts a *coordinator.Coordinator to the Coordinator gRPC service.
// Every handler does wire decode -> Coordinator method -> wire encode; all
// scheduling, validation and locking lives in the Coordinator itself.
type Server struct {
	c *coordinator.Coordinator
}

// NewServer wraps c for serving.
func NewServer(c *coordinator.Coordinator) *Server {
	return &Server{c: c}
}

// Register attaches the Coordinator service to a grpc.Server.
func (s *Server) Register(g *grpc.Server) {
	g.RegisterService(&serviceDesc, s)
}

func (s *Server) RegisterNode(ctx context.Context, req *RegisterNodeRequest) (*RegisterNodeResponse, error) {
	stake, err := parseAmount(req.AttachedStake)
	if err != nil {
		return nil, apierr.Wrap(apierr.BadRequest, err, "invalid attached_stake")
	}
	node, err := s.c.RegisterNode(req.Account, stake, req.PublicIP, req.GPUSpecs, req.CPUSpecs, req.APIEndpoint)
	if err != nil {
		return nil, err
	}
	return &RegisterNodeResponse{Node: nodeToMsg(node)}, nil
}

func (s *Server) Heartbeat(ctx context.Context, req *HeartbeatRequest) (*HeartbeatResponse, error) {
	if err := s.c.Heartbeat(req.Account); err != nil {
		return nil, err
	}
	return &HeartbeatResponse{}, nil
}

func (s *Server) DeactivateNode(ctx context.Context, req *DeactivateNodeRequest) (*DeactivateNodeResponse, error) {
	deposit, err := parseAmount(req.AttachedDeposit)
	if err != nil {
		return nil, apierr.Wrap(apierr.BadRequest, err, "invalid attached_deposit")
	}
	refund, err := s.c.DeactivateNode(req.Account, deposit)
	if err != nil {
		return nil, err
	}
	return &DeactivateNodeResponse{RefundAmount: amountToString(refund)}, nil
}

func (s *Server) SubmitTask(ctx context.Context, req *SubmitTaskRequest) (*SubmitTaskResponse, error) {
	estimatedCost, err := parseAmount(req.EstimatedCost)
	if err != nil {
		return nil, apierr.Wrap(apierr.BadRequest, err, "invalid estimated_cost")
	}
	storageCost, err := parseAmount(req.StorageCost)
	if err != nil {
		return nil, apierr.Wrap(apierr.BadRequest, err, "invalid storage_cost")
	}
	payment, err := parseAmount(req.AttachedPayment)
	if err != nil {
		return nil, apierr.Wrap(apierr.BadRequest, err, "invalid attached_payment")
	}
	task, err := s.c.SubmitTask(req.Requester, req.Description, estimatedCost, storageCost, payment, taskPriorityFromString(req.Priority))
	if err != nil {
		return nil, err
	}
	return &SubmitTaskResponse{Task: taskToMsg(task)}, nil
}

func (s *Server) SubmitResult(ctx context.Context, req *SubmitResultRequest) (*SubmitResultResponse, error) {
	deposit, err := parseAmount(req.AttachedDeposit)
	if err != nil {
		return nil, apierr.Wrap(apierr.BadRequest, err, "invalid attached_deposit")
	}
	task, err := s.c.SubmitResult(req.Account, req.TaskID, req.ProofHash, req.Output, deposit)
	if err != nil {
		return nil, err
	}
	return &SubmitResultResponse{Task: taskToMsg(task)}, nil
}

func (s *Server) TimeoutTask(ctx context.Context, req *TimeoutTaskRequest) (*TimeoutTaskResponse, error) {
	deposit, err := parseAmount(req.AttachedDeposit)
	if err != nil {
		return nil, apierr.Wrap(apierr.BadRequest, err, "invalid attached_deposit")
	}
	task, refund, err := s.c.TimeoutTask(req.Caller, req.TaskID, deposit)
	if err != nil {
		return nil, err
	}
	return &TimeoutTaskResponse{Task: taskToMsg(task), RefundAmount: amountToString(refund)}, nil
}

func (s *Server) Pause(ctx context.Context, req *PauseRequest) (*PauseResponse, error) {
	deposit, err := parseAmount(req.AttachedDeposit)
	if err != nil {
		return nil, apierr.Wrap(apierr.BadRequest, err, "invalid attached_deposit")
	}
	if err := s.c.Pause(req.Caller, deposit); err != nil {
		return nil, err
	}
	return &PauseResponse{}, nil
}

func (s *Server) Unpause(ctx context.Context, req *PauseRequest) (*PauseResponse, error) {
	deposit, err := parseAmount(req.AttachedDeposit)
	if err != nil {
		return nil, apierr.Wrap(apierr.BadRequest, err, "invalid attached_deposit")
	}
	if err := s.c.Unpause(req.Caller, deposit); err != nil {
		return nil, err
	}
	return &PauseResponse{}, nil
}

func (s *Server) UpdateMinStake(ctx context.Context, req *UpdateMinStakeRequest) (*UpdateMinStakeResponse, error) {
	deposit, err := parseAmount(req.AttachedDeposit)
	if err != nil {
		return nil, apierr.Wrap(apierr.BadRequest, err, "invalid attached_deposit")
	}
	n, err := parseAmount(req.MinStake)
	if err != nil {
		return nil, apierr.Wrap(apierr.BadRequest, err, "invalid min_stake")
	}
	if err := s.c.UpdateMinStake(req.Caller, deposit, n); err != nil {
		return nil, err
	}
	return &UpdateMinStakeResponse{}, nil
}

func (s *Server) UpdateMaxTasksPerNode(ctx context.Context, req *UpdateMaxTasksPerNodeRequest) (*UpdateMaxTasksPerNodeResponse, error) {
	deposit, err := parseAmount(req.AttachedDeposit)
	if err != nil {
		return nil, apierr.Wrap(apierr.BadRequest, err, "invalid attached_deposit")
	}
	if err := s.c.UpdateMaxTasksPerNode(req.Caller, deposit, req.MaxTasksPerNode); err != nil {
		return nil, err
	}
	return &UpdateMaxTasksPerNodeResponse{}, nil
}

func (s *Server) UpdateTaskTimeout(ctx context.Context, req *UpdateTaskTimeoutRequest) (*UpdateTaskTimeoutResponse, error) {
	deposit, err := parseAmount(req.AttachedDeposit)
	if err != nil {
		return nil, apierr.Wrap(apierr.BadRequest, err, "invalid attached_deposit")
	}
	d := time.Duration(req.TaskTimeoutSeconds) * time.Second
	if err := s.c.UpdateTaskTimeout(req.Caller, deposit, d); err != nil {
		return nil, err
	}
	return &UpdateTaskTimeoutResponse{}, nil
}

func (s *Server) EmergencyWithdraw(ctx context.Context, req *EmergencyWithdrawRequest) (*EmergencyWithdrawResponse, error) {
	deposit, err := parseAmount(req.AttachedDeposit)
	if err != nil {
		return nil, apierr.Wrap(apierr.BadRequest, err, "invalid attached_deposit")
	}
	n, err := parseAmount(req.Amount)
	if err != nil {
		return nil, apierr.Wrap(apierr.BadRequest, err, "invalid amount")
	}
	if err := s.c.EmergencyWithdraw(req.Caller, deposit, n); err != nil {
		return nil, err
	}
	return &EmergencyWithdrawResponse{}, nil
}

func (s *Server) Transfer(ctx context.Context, req *TransferRequest) (*TransferResponse, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return nil, apierr.Wrap(apierr.BadRequest, err, "invalid amount")
	}
	deposit, err := parseAmount(req.AttachedDeposit)
	if err != nil {
		return nil, apierr.Wrap(apierr.BadRequest, err, "invalid attached_deposit")
	}
	if err := s.c.Transfer(req.Caller, req.To, amount, deposit, req.Memo); err != nil {
		return nil, err
	}
	return &TransferResponse{}, nil
}

func (s *Server) GetNodeInfo(ctx context.Context, req *GetNodeInfoRequest) (*GetNodeInfoResponse, error) {
	node := s.c.GetNodeInfo(req.Account)
	if node == nil {
		return nil, apierr.New(apierr.NotFound, "node %s not registered", req.Account)
	}
	return &GetNodeInfoResponse{Node: nodeToMsg(node)}, nil
}

func (s *Server) GetActiveNodes(ctx context.Context, req *EmptyRequest) (*GetActiveNodesResponse, error) {
	return &GetActiveNodesResponse{Nodes: nodesToMsgs(s.c.GetActiveNodes())}, nil
}

func (s *Server) GetPendingTasks(ctx context.Context, req *EmptyRequest) (*GetPendingTasksResponse, error) {
	return &GetPendingTasksResponse{Tasks: tasksToMsgs(s.c.GetPendingTasks())}, nil
}

func (s *Server) GetActiveTask(ctx context.Context, req *GetActiveTaskRequest) (*GetActiveTaskResponse, error) {
	task := s.c.GetActiveTask(req.TaskID)
	if task == nil {
		return nil, apierr.New(apierr.NotFound, "task %d not found", req.TaskID)
	}
	return &GetActiveTaskResponse{Task: taskToMsg(task)}, nil
}

func (s *Server) GetTaskResult(ctx context.Context, req *GetTaskResultRequest) (*GetTaskResultResponse, error) {
	task := s.c.GetTaskResult(req.TaskID)
	if task == nil {
		return nil, apierr.New(apierr.NotFound, "task %d not found in completed archive", req.TaskID)
	}
	return &GetTaskResultResponse{Task: taskToMsg(task)}, nil
}

func (s *Server) GetAssignedTasks(ctx context.Context, req *GetAssignedTasksRequest) (*GetAssignedTasksResponse, error) {
	return &GetAssignedTasksResponse{Tasks: tasksToMsgs(s.c.GetAssignedTasks(req.Account))}, nil
}

func (s *Server) GetTaskCount(ctx context.Context, req *EmptyRequest) (*GetTaskCountResponse, error) {
	return &GetTaskCountResponse{Count: s.c.GetTaskCount()}, nil
}

func (s *Server) BalanceOf(ctx context.Context, req *BalanceOfRequest) (*BalanceOfResponse, error) {
	return &BalanceOfResponse{Balance: amountToString(s.c.BalanceOf(req.Account))}, nil
}

func (s *Server) TotalSupply(ctx context.Context, req *EmptyRequest) (*TotalSupplyResponse, error) {
	return &TotalSupplyResponse{TotalSupply: amountToString(s.c.TotalSupply())}, nil
}

func (s *Server) GetTotalRewardsDistributed(ctx context.Context, req *EmptyRequest) (*GetTotalRewardsDistributedResponse, error) {
	return &GetTotalRewardsDistributedResponse{TotalRewardsDistributed: amountToString(s.c.GetTotalRewardsDistributed())}, nil
}

func (s *Server) GetContractStats(ctx context.Context, req *EmptyRequest) (*ContractStatsResponse, error) {
	return statsToMsg(s.c.GetContractStats()), nil
}
