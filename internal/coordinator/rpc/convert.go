package rpc

import (
	"math/big"

	"github.com/klaytn-labs/deai-compute/internal/ledger"
	"github.com/klaytn-labs/deai-compute/pkg/types"
)

func amountToString(n *big.Int) string {
	if n == nil {
		return "0"
	}
	return n.String()
}

func parseAmount(s string) (*big.Int, error) {
	return ledger.MustParseAmount(s)
}

func taskPriorityFromString(s string) types.TaskPriority {
	switch s {
	case "Low":
		return types.PriorityLow
	case "High":
		return types.PriorityHigh
	case "Urgent":
		return types.PriorityUrgent
	default:
		return types.PriorityNormal
	}
}

func taskToMsg(t *types.Task) *TaskMsg {
	if t == nil {
		return nil
	}
	msg := &TaskMsg{
		ID:           t.ID,
		Requester:    t.Requester,
		Assignee:     t.Assignee,
		Description:  t.Description,
		Status:       t.Status.String(),
		Priority:     t.Priority.String(),
		RewardAmount: amountToString(t.RewardAmount),
		CreatedAt:    t.CreatedAt.Unix(),
		Output:       t.Output,
		ProofHash:    t.ProofHash,
	}
	if !t.AssignedAt.IsZero() {
		msg.AssignedAt = t.AssignedAt.Unix()
	}
	if !t.TimeoutAt.IsZero() {
		msg.TimeoutAt = t.TimeoutAt.Unix()
	}
	if !t.CompletedAt.IsZero() {
		msg.CompletedAt = t.CompletedAt.Unix()
	}
	return msg
}

func tasksToMsgs(ts []*types.Task) []*TaskMsg {
	out := make([]*TaskMsg, 0, len(ts))
	for _, t := range ts {
		out = append(out, taskToMsg(t))
	}
	return out
}

func nodeToMsg(n *types.NodeInfo) *NodeInfoMsg {
	if n == nil {
		return nil
	}
	return &NodeInfoMsg{
		Account:          n.Account,
		Stake:            amountToString(n.Stake),
		PublicIP:         n.PublicIP,
		GPUSpecs:         n.GPUSpecs,
		CPUSpecs:         n.CPUSpecs,
		APIEndpoint:      n.APIEndpoint,
		IsActive:         n.IsActive,
		LastHeartbeat:    n.LastHeartbeat.Unix(),
		RegistrationTime: n.RegistrationTime.Unix(),
		TasksCompleted:   n.TasksCompleted,
		Reputation:       n.Reputation,
		SlashedAmount:    amountToString(n.SlashedAmount),
	}
}

func nodesToMsgs(ns []*types.NodeInfo) []*NodeInfoMsg {
	out := make([]*NodeInfoMsg, 0, len(ns))
	for _, n := range ns {
		out = append(out, nodeToMsg(n))
	}
	return out
}

func statsToMsg(s types.ContractStats) *ContractStatsResponse {
	return &ContractStatsResponse{
		TotalNodes:              s.TotalNodes,
		ActiveNodes:             s.ActiveNodes,
		TotalTasks:              s.TotalTasks,
		PendingTasks:            s.PendingTasks,
		ActiveTasks:             s.ActiveTasks,
		CompletedTasks:          s.CompletedTasks,
		TotalRewardsDistributed: amountToString(s.TotalRewardsDistributed),
		TotalSupply:             amountToString(s.TotalSupply),
	}
}
