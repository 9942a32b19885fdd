package rpc

// Wire messages for the Coordinator RPC surface. Integer amounts are
// decimal strings; timestamps are Unix seconds.

type TaskMsg struct {
	ID           uint64 `json:"id"`
	Requester    string `json:"requester"`
	Assignee     string `json:"assignee,omitempty"`
	Description  string `json:"description"`
	Status       string `json:"status"`
	Priority     string `json:"priority"`
	RewardAmount string `json:"reward_amount"`
	CreatedAt    int64  `json:"created_at"`
	AssignedAt   int64  `json:"assigned_at,omitempty"`
	TimeoutAt    int64  `json:"timeout_at,omitempty"`
	CompletedAt  int64  `json:"completed_at,omitempty"`
	Output       string `json:"output,omitempty"`
	ProofHash    string `json:"proof_hash,omitempty"`
}

type NodeInfoMsg struct {
	Account          string `json:"account"`
	Stake            string `json:"stake"`
	PublicIP         string `json:"public_ip"`
	GPUSpecs         string `json:"gpu_specs"`
	CPUSpecs         string `json:"cpu_specs"`
	APIEndpoint      string `json:"api_endpoint"`
	IsActive         bool   `json:"is_active"`
	LastHeartbeat    int64  `json:"last_heartbeat"`
	RegistrationTime int64  `json:"registration_time"`
	TasksCompleted   uint64 `json:"tasks_completed"`
	Reputation       int    `json:"reputation"`
	SlashedAmount    string `json:"slashed_amount"`
}

type RegisterNodeRequest struct {
	Account       string `json:"account"`
	AttachedStake string `json:"attached_stake"`
	PublicIP      string `json:"public_ip"`
	GPUSpecs      string `json:"gpu_specs"`
	CPUSpecs      string `json:"cpu_specs"`
	APIEndpoint   string `json:"api_endpoint"`
}

type RegisterNodeResponse struct {
	Node *NodeInfoMsg `json:"node"`
}

type HeartbeatRequest struct {
	Account string `json:"account"`
}

type HeartbeatResponse struct{}

type DeactivateNodeRequest struct {
	Account         string `json:"account"`
	AttachedDeposit string `json:"attached_deposit"`
}

type DeactivateNodeResponse struct {
	RefundAmount string `json:"refund_amount"`
}

type SubmitTaskRequest struct {
	Requester       string `json:"requester"`
	Description     string `json:"description"`
	EstimatedCost   string `json:"estimated_cost"`
	StorageCost     string `json:"storage_cost"`
	AttachedPayment string `json:"attached_payment"`
	Priority        string `json:"priority,omitempty"`
}

type SubmitTaskResponse struct {
	Task *TaskMsg `json:"task"`
}

type SubmitResultRequest struct {
	Account         string `json:"account"`
	TaskID          uint64 `json:"task_id"`
	ProofHash       string `json:"proof_hash"`
	Output          string `json:"output"`
	AttachedDeposit string `json:"attached_deposit"`
}

type SubmitResultResponse struct {
	Task *TaskMsg `json:"task"`
}

type TimeoutTaskRequest struct {
	Caller          string `json:"caller"`
	TaskID          uint64 `json:"task_id"`
	AttachedDeposit string `json:"attached_deposit"`
}

type TimeoutTaskResponse struct {
	Task         *TaskMsg `json:"task"`
	RefundAmount string   `json:"refund_amount"`
}

type GetAssignedTasksRequest struct {
	Account string `json:"account"`
}

type GetAssignedTasksResponse struct {
	Tasks []*TaskMsg `json:"tasks"`
}

type GetTaskResultRequest struct {
	TaskID uint64 `json:"task_id"`
}

type GetTaskResultResponse struct {
	Task *TaskMsg `json:"task"`
}

type EmptyRequest struct{}

type GetNodeInfoRequest struct {
	Account string `json:"account"`
}

type GetNodeInfoResponse struct {
	Node *NodeInfoMsg `json:"node"`
}

type GetActiveNodesResponse struct {
	Nodes []*NodeInfoMsg `json:"nodes"`
}

type GetPendingTasksResponse struct {
	Tasks []*TaskMsg `json:"tasks"`
}

type GetActiveTaskRequest struct {
	TaskID uint64 `json:"task_id"`
}

type GetActiveTaskResponse struct {
	Task *TaskMsg `json:"task"`
}

type BalanceOfRequest struct {
	Account string `json:"account"`
}

type BalanceOfResponse struct {
	Balance string `json:"balance"`
}

type TotalSupplyResponse struct {
	TotalSupply string `json:"total_supply"`
}

type GetTotalRewardsDistributedResponse struct {
	TotalRewardsDistributed string `json:"total_rewards_distributed"`
}

type GetTaskCountResponse struct {
	Count uint64 `json:"count"`
}

type TransferRequest struct {
	Caller          string `json:"caller"`
	To              string `json:"to"`
	Amount          string `json:"amount"`
	AttachedDeposit string `json:"attached_deposit"`
	Memo            string `json:"memo,omitempty"`
}

type TransferResponse struct{}

type PauseRequest struct {
	Caller          string `json:"caller"`
	AttachedDeposit string `json:"attached_deposit"`
}

type PauseResponse struct{}

type UpdateMinStakeRequest struct {
	Caller          string `json:"caller"`
	AttachedDeposit string `json:"attached_deposit"`
	MinStake        string `json:"min_stake"`
}

type UpdateMinStakeResponse struct{}

type UpdateMaxTasksPerNodeRequest struct {
	Caller          string `json:"caller"`
	AttachedDeposit string `json:"attached_deposit"`
	MaxTasksPerNode int    `json:"max_tasks_per_node"`
}

type UpdateMaxTasksPerNodeResponse struct{}

type UpdateTaskTimeoutRequest struct {
	Caller             string `json:"caller"`
	AttachedDeposit    string `json:"attached_deposit"`
	TaskTimeoutSeconds int64  `json:"task_timeout_seconds"`
}

type UpdateTaskTimeoutResponse struct{}

type EmergencyWithdrawRequest struct {
	Caller          string `json:"caller"`
	AttachedDeposit string `json:"attached_deposit"`
	Amount          string `json:"amount"`
}

type EmergencyWithdrawResponse struct{}

type ContractStatsResponse struct {
	TotalNodes              int    `json:"total_nodes"`
	ActiveNodes             int    `json:"active_nodes"`
	TotalTasks              uint64 `json:"total_tasks"`
	PendingTasks            int    `json:"pending_tasks"`
	ActiveTasks             int    `json:"active_tasks"`
	CompletedTasks          int    `json:"completed_tasks"`
	TotalRewardsDistributed string `json:"total_rewards_distributed"`
	TotalSupply             string `json:"total_supply"`
}
