// Package types holds the wire-level schemas shared by the coordinator,
// the node agent and the gateway: tasks, nodes, statuses and priorities.
// Integer token amounts are carried as decimal strings at the wire edge and
// as big.Int internally, since balances routinely exceed 64 bits.
package types

import (
	"math/big"
	"time"
)

// TaskStatus is the lifecycle state of a Task.
type TaskStatus int

const (
	TaskPending TaskStatus = iota
	TaskAssigned
	TaskInProgress
	TaskCompleted
	TaskFailed
	TaskTimedOut
)

func (s TaskStatus) String() string {
	switch s {
	case TaskPending:
		return "Pending"
	case TaskAssigned:
		return "Assigned"
	case TaskInProgress:
		return "InProgress"
	case TaskCompleted:
		return "Completed"
	case TaskFailed:
		return "Failed"
	case TaskTimedOut:
		return "TimedOut"
	default:
		return "Unknown"
	}
}

// IsActive reports whether a task in this status still occupies the active
// table (pending, assigned or in-progress).
func (s TaskStatus) IsActive() bool {
	return s == TaskPending || s == TaskAssigned || s == TaskInProgress
}

// TaskPriority is an ordinal scheduling class. Higher values dispatch first.
type TaskPriority int

const (
	PriorityLow    TaskPriority = 1
	PriorityNormal TaskPriority = 2
	PriorityHigh   TaskPriority = 3
	PriorityUrgent TaskPriority = 4
)

func (p TaskPriority) String() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityNormal:
		return "Normal"
	case PriorityHigh:
		return "High"
	case PriorityUrgent:
		return "Urgent"
	default:
		return "Unknown"
	}
}

// Task mirrors the coordinator's task record.
type Task struct {
	ID           uint64
	Requester    string
	Assignee     string // empty when unassigned
	Description  string // opaque JSON, <=1000 chars
	Status       TaskStatus
	Priority     TaskPriority
	RewardAmount *big.Int
	CreatedAt    time.Time
	AssignedAt   time.Time // zero value when never assigned
	TimeoutAt    time.Time // zero value when never assigned
	CompletedAt  time.Time // zero value until terminal
	Output       string    // <=10000 chars
	ProofHash    string    // <=64 chars
}

// HasAssignee reports whether the task currently has an assignee, which must
// hold iff Status is one of Assigned/InProgress/Completed/TimedOut.
func (t *Task) HasAssignee() bool {
	return t.Assignee != ""
}

// NodeInfo mirrors the coordinator's node registry record.
type NodeInfo struct {
	Account          string
	Stake            *big.Int
	PublicIP         string
	GPUSpecs         string // <=500 chars
	CPUSpecs         string // <=500 chars
	APIEndpoint      string
	IsActive         bool
	LastHeartbeat    time.Time
	RegistrationTime time.Time
	TasksCompleted   uint64
	Reputation       int // [0, 1000]
	SlashedAmount    *big.Int
}

// IsLive reports whether the node is active and has heartbeat within the
// liveness window.
func (n *NodeInfo) IsLive(now time.Time, livenessWindow time.Duration) bool {
	return n.IsActive && now.Sub(n.LastHeartbeat) < livenessWindow
}

// ContractStats is the aggregate view returned by get_contract_stats.
type ContractStats struct {
	TotalNodes             int
	ActiveNodes            int
	TotalTasks             uint64
	PendingTasks           int
	ActiveTasks            int
	CompletedTasks         int
	TotalRewardsDistributed *big.Int
	TotalSupply             *big.Int
}
