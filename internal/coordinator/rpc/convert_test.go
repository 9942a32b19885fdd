package rpc

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klaytn-labs/deai-compute/pkg/types"
)

func TestAmountToStringHandlesNil(t *testing.T) {
	assert.Equal(t, "0", amountToString(nil))
	assert.Equal(t, "42", amountToString(big.NewInt(42)))
}

func TestParseAmountRoundTrip(t *testing.T) {
	n, err := parseAmount("12345")
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(12345), n)
}

func TestTaskPriorityFromString(t *testing.T) {
	assert.Equal(t, types.PriorityLow, taskPriorityFromString("Low"))
	assert.Equal(t, types.PriorityHigh, taskPriorityFromString("High"))
	assert.Equal(t, types.PriorityUrgent, taskPriorityFromString("Urgent"))
	assert.Equal(t, types.PriorityNormal, taskPriorityFromString("Normal"))
	assert.Equal(t, types.PriorityNormal, taskPriorityFromString("garbage"))
}

func TestTaskToMsgHandlesNilAndZeroTimestamps(t *testing.T) {
	assert.Nil(t, taskToMsg(nil))

	task := &types.Task{
		ID:           7,
		Requester:    "alice",
		Status:       types.TaskPending,
		Priority:     types.PriorityHigh,
		RewardAmount: big.NewInt(10),
		CreatedAt:    time.Unix(1000, 0),
	}
	msg := taskToMsg(task)
	require.NotNil(t, msg)
	assert.Equal(t, uint64(7), msg.ID)
	assert.Equal(t, "Pending", msg.Status)
	assert.Equal(t, "High", msg.Priority)
	assert.Equal(t, "10", msg.RewardAmount)
	assert.Zero(t, msg.AssignedAt)
	assert.Zero(t, msg.TimeoutAt)
	assert.Zero(t, msg.CompletedAt)
}

func TestTaskToMsgSetsNonZeroTimestamps(t *testing.T) {
	now := time.Now()
	task := &types.Task{
		RewardAmount: big.NewInt(1),
		CreatedAt:    now,
		AssignedAt:   now.Add(time.Minute),
		TimeoutAt:    now.Add(time.Hour),
		CompletedAt:  now.Add(2 * time.Hour),
	}
	msg := taskToMsg(task)
	assert.Equal(t, now.Add(time.Minute).Unix(), msg.AssignedAt)
	assert.Equal(t, now.Add(time.Hour).Unix(), msg.TimeoutAt)
	assert.Equal(t, now.Add(2*time.Hour).Unix(), msg.CompletedAt)
}

func TestNodeToMsgHandlesNil(t *testing.T) {
	assert.Nil(t, nodeToMsg(nil))

	node := &types.NodeInfo{Account: "node1", Stake: big.NewInt(2000), SlashedAmount: big.NewInt(0)}
	msg := nodeToMsg(node)
	require.NotNil(t, msg)
	assert.Equal(t, "node1", msg.Account)
	assert.Equal(t, "2000", msg.Stake)
}

func TestStatsToMsg(t *testing.T) {
	stats := types.ContractStats{
		TotalNodes:              3,
		TotalRewardsDistributed: big.NewInt(50),
		TotalSupply:             big.NewInt(1000),
	}
	msg := statsToMsg(stats)
	assert.Equal(t, 3, msg.TotalNodes)
	assert.Equal(t, "50", msg.TotalRewardsDistributed)
	assert.Equal(t, "1000", msg.TotalSupply)
}
