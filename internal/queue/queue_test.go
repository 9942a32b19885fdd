package queue

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klaytn-labs/deai-compute/internal/registry"
	"github.com/klaytn-labs/deai-compute/pkg/types"
)

func newTask(q *Queue, priority types.TaskPriority) *types.Task {
	t := &types.Task{
		ID:           q.NextID(),
		Status:       types.TaskPending,
		Priority:     priority,
		RewardAmount: big.NewInt(1),
	}
	q.Insert(t)
	return t
}

func TestInsertAndPendingOrder(t *testing.T) {
	q := New()
	a := newTask(q, types.PriorityNormal)
	b := newTask(q, types.PriorityNormal)

	pending := q.PendingTasks()
	require.Len(t, pending, 2)
	assert.Equal(t, a.ID, pending[0].ID)
	assert.Equal(t, b.ID, pending[1].ID)
}

func TestArchiveRemovesFromActiveAndPending(t *testing.T) {
	q := New()
	a := newTask(q, types.PriorityNormal)

	q.Archive(a.ID)
	assert.Nil(t, q.ActiveTask(a.ID))
	assert.Empty(t, q.PendingTasks())
	assert.NotNil(t, q.CompletedTask(a.ID))
}

func TestArchiveUnknownIsNoop(t *testing.T) {
	q := New()
	require.NotPanics(t, func() { q.Archive(999) })
}

func TestCountsReflectTables(t *testing.T) {
	q := New()
	a := newTask(q, types.PriorityNormal)
	_ = newTask(q, types.PriorityNormal)
	q.Archive(a.ID)

	pending, active, completed := q.Counts()
	assert.Equal(t, 1, pending)
	assert.Equal(t, 1, active)
	assert.Equal(t, 1, completed)
}

func TestDispatchPicksHighestPriorityTask(t *testing.T) {
	q := New()
	reg := registry.New()
	now := time.Now()
	_, err := reg.Register("alice", big.NewInt(2000), big.NewInt(1000), "1.2.3.4", "", "", "http://1.2.3.4:8000", now)
	require.NoError(t, err)

	low := newTask(q, types.PriorityLow)
	high := newTask(q, types.PriorityHigh)

	dispatched := Dispatch(q, reg, 4, time.Hour, now)
	require.NotNil(t, dispatched)
	assert.Equal(t, high.ID, dispatched.ID)
	assert.Equal(t, "alice", dispatched.Assignee)
	assert.Equal(t, types.TaskAssigned, dispatched.Status)

	remaining := q.PendingTasks()
	require.Len(t, remaining, 1)
	assert.Equal(t, low.ID, remaining[0].ID)
}

func TestDispatchNoLiveNodesReturnsNil(t *testing.T) {
	q := New()
	reg := registry.New()
	newTask(q, types.PriorityNormal)

	assert.Nil(t, Dispatch(q, reg, 4, time.Hour, time.Now()))
}

func TestDispatchRespectsMaxTasksPerNode(t *testing.T) {
	q := New()
	reg := registry.New()
	now := time.Now()
	_, err := reg.Register("alice", big.NewInt(2000), big.NewInt(1000), "1.2.3.4", "", "", "http://1.2.3.4:8000", now)
	require.NoError(t, err)

	newTask(q, types.PriorityNormal)
	first := Dispatch(q, reg, 1, time.Hour, now)
	require.NotNil(t, first)

	newTask(q, types.PriorityNormal)
	second := Dispatch(q, reg, 1, time.Hour, now)
	assert.Nil(t, second, "node already at its per-node task cap")
}

func TestDispatchPrefersHigherReputationNode(t *testing.T) {
	q := New()
	reg := registry.New()
	now := time.Now()
	_, err := reg.Register("bob", big.NewInt(2000), big.NewInt(1000), "2.2.2.2", "", "", "http://2.2.2.2:8000", now)
	require.NoError(t, err)
	_, err = reg.Register("alice", big.NewInt(2000), big.NewInt(1000), "1.1.1.1", "", "", "http://1.1.1.1:8000", now)
	require.NoError(t, err)
	require.NoError(t, reg.RecordSuccess("alice"))

	newTask(q, types.PriorityNormal)
	dispatched := Dispatch(q, reg, 4, time.Hour, now)
	require.NotNil(t, dispatched)
	assert.Equal(t, "alice", dispatched.Assignee)
}
