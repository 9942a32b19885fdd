package types

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskStatusString(t *testing.T) {
	assert.Equal(t, "Pending", TaskPending.String())
	assert.Equal(t, "Completed", TaskCompleted.String())
	assert.Equal(t, "Unknown", TaskStatus(99).String())
}

func TestTaskStatusIsActive(t *testing.T) {
	assert.True(t, TaskPending.IsActive())
	assert.True(t, TaskAssigned.IsActive())
	assert.True(t, TaskInProgress.IsActive())
	assert.False(t, TaskCompleted.IsActive())
	assert.False(t, TaskFailed.IsActive())
	assert.False(t, TaskTimedOut.IsActive())
}

func TestTaskPriorityString(t *testing.T) {
	assert.Equal(t, "Low", PriorityLow.String())
	assert.Equal(t, "Urgent", PriorityUrgent.String())
	assert.Equal(t, "Unknown", TaskPriority(0).String())
}

func TestTaskHasAssignee(t *testing.T) {
	task := &Task{}
	assert.False(t, task.HasAssignee())
	task.Assignee = "node1"
	assert.True(t, task.HasAssignee())
}

func TestNodeInfoIsLive(t *testing.T) {
	now := time.Now()
	node := &NodeInfo{IsActive: true, LastHeartbeat: now.Add(-time.Minute)}
	assert.True(t, node.IsLive(now, 5*time.Minute))
	assert.False(t, node.IsLive(now, 30*time.Second))

	node.IsActive = false
	assert.False(t, node.IsLive(now, 5*time.Minute))
}

func TestContractStatsZeroValue(t *testing.T) {
	stats := ContractStats{TotalRewardsDistributed: big.NewInt(0), TotalSupply: big.NewInt(0)}
	assert.Equal(t, 0, stats.TotalNodes)
	assert.Equal(t, big.NewInt(0), stats.TotalSupply)
}
