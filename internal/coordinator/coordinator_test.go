package coordinator

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klaytn-labs/deai-compute/internal/apierr"
	"github.com/klaytn-labs/deai-compute/internal/ledger"
	"github.com/klaytn-labs/deai-compute/pkg/types"
)

func newTestCoordinator(t *testing.T) *Coordinator {
	t.Helper()
	cfg := DefaultConfig("owner1", big.NewInt(1000))
	return New(cfg)
}

func TestRegisterNodeAndSubmitTaskDispatchesImmediately(t *testing.T) {
	c := newTestCoordinator(t)

	node, err := c.RegisterNode("node1", big.NewInt(2000), "1.2.3.4", "", "", "http://1.2.3.4:9000")
	require.NoError(t, err)
	assert.Equal(t, "node1", node.Account)

	task, err := c.SubmitTask("alice", "do work", big.NewInt(10), big.NewInt(0), big.NewInt(10), types.PriorityNormal)
	require.NoError(t, err)

	active := c.GetActiveTask(task.ID)
	require.NotNil(t, active)
	assert.Equal(t, types.TaskAssigned, active.Status)
	assert.Equal(t, "node1", active.Assignee)
}

func TestSubmitTaskRejectsUnderfundedPayment(t *testing.T) {
	c := newTestCoordinator(t)
	_, err := c.SubmitTask("alice", "do work", big.NewInt(10), big.NewInt(5), big.NewInt(10), types.PriorityNormal)
	require.Error(t, err)
	assert.Equal(t, apierr.InsufficientDeposit, apierr.KindOf(err))
}

func TestSubmitResultPaysRewardAndArchives(t *testing.T) {
	c := newTestCoordinator(t)
	_, err := c.RegisterNode("node1", big.NewInt(2000), "1.2.3.4", "", "", "http://1.2.3.4:9000")
	require.NoError(t, err)
	task, err := c.SubmitTask("alice", "do work", big.NewInt(10), big.NewInt(0), big.NewInt(10), types.PriorityNormal)
	require.NoError(t, err)

	completed, err := c.SubmitResult("node1", task.ID, "deadbeef", `{"ok":true}`, ledger.SafetyDeposit)
	require.NoError(t, err)
	assert.Equal(t, types.TaskCompleted, completed.Status)

	assert.Equal(t, big.NewInt(10), c.BalanceOf("node1"))
	assert.Equal(t, big.NewInt(10), c.GetTotalRewardsDistributed())
	assert.Nil(t, c.GetActiveTask(task.ID))
}

func TestSubmitResultRejectsWrongAssignee(t *testing.T) {
	c := newTestCoordinator(t)
	_, err := c.RegisterNode("node1", big.NewInt(2000), "1.2.3.4", "", "", "http://1.2.3.4:9000")
	require.NoError(t, err)
	task, err := c.SubmitTask("alice", "do work", big.NewInt(10), big.NewInt(0), big.NewInt(10), types.PriorityNormal)
	require.NoError(t, err)

	_, err = c.SubmitResult("someone-else", task.ID, "deadbeef", `{}`, ledger.SafetyDeposit)
	require.Error(t, err)
	assert.Equal(t, apierr.NotAssigned, apierr.KindOf(err))
}

func TestTimeoutTaskSlashesAndRefundsAfterDeadline(t *testing.T) {
	c := newTestCoordinator(t)
	_, err := c.RegisterNode("node1", big.NewInt(2000), "1.2.3.4", "", "", "http://1.2.3.4:9000")
	require.NoError(t, err)
	task, err := c.SubmitTask("alice", "do work", big.NewInt(10), big.NewInt(0), big.NewInt(10), types.PriorityNormal)
	require.NoError(t, err)

	base := time.Now()
	c.SetClock(func() time.Time { return base.Add(2 * time.Hour) })

	timedOut, refund, err := c.TimeoutTask("anyone", task.ID, ledger.SafetyDeposit)
	require.NoError(t, err)
	assert.Equal(t, types.TaskTimedOut, timedOut.Status)
	assert.Equal(t, big.NewInt(10), refund)

	node := c.GetNodeInfo("node1")
	assert.Less(t, node.Reputation, 100)
	assert.Equal(t, big.NewInt(200), node.SlashedAmount) // 10% of 2000
}

func TestTimeoutTaskRejectsBeforeDeadline(t *testing.T) {
	c := newTestCoordinator(t)
	_, err := c.RegisterNode("node1", big.NewInt(2000), "1.2.3.4", "", "", "http://1.2.3.4:9000")
	require.NoError(t, err)
	task, err := c.SubmitTask("alice", "do work", big.NewInt(10), big.NewInt(0), big.NewInt(10), types.PriorityNormal)
	require.NoError(t, err)

	_, _, err = c.TimeoutTask("anyone", task.ID, ledger.SafetyDeposit)
	require.Error(t, err)
	assert.Equal(t, apierr.BadRequest, apierr.KindOf(err))
}

func TestPauseBlocksMutatingOpsExceptUnpause(t *testing.T) {
	c := newTestCoordinator(t)
	require.NoError(t, c.Pause("owner1", ledger.SafetyDeposit))

	_, err := c.RegisterNode("node1", big.NewInt(2000), "1.2.3.4", "", "", "http://1.2.3.4:9000")
	require.Error(t, err)
	assert.Equal(t, apierr.Paused, apierr.KindOf(err))

	require.NoError(t, c.Unpause("owner1", ledger.SafetyDeposit))
	_, err = c.RegisterNode("node1", big.NewInt(2000), "1.2.3.4", "", "", "http://1.2.3.4:9000")
	require.NoError(t, err)
}

func TestAdminOpsRejectNonOwner(t *testing.T) {
	c := newTestCoordinator(t)
	err := c.Pause("not-owner", ledger.SafetyDeposit)
	require.Error(t, err)
	assert.Equal(t, apierr.Forbidden, apierr.KindOf(err))
}

func TestDeactivateNodeRefusesWithActiveAssignments(t *testing.T) {
	c := newTestCoordinator(t)
	_, err := c.RegisterNode("node1", big.NewInt(2000), "1.2.3.4", "", "", "http://1.2.3.4:9000")
	require.NoError(t, err)
	_, err = c.SubmitTask("alice", "do work", big.NewInt(10), big.NewInt(0), big.NewInt(10), types.PriorityNormal)
	require.NoError(t, err)

	_, err = c.DeactivateNode("node1", ledger.SafetyDeposit)
	require.Error(t, err)
	assert.Equal(t, apierr.Conflict, apierr.KindOf(err))
}

func TestTransferRequiresSafetyDeposit(t *testing.T) {
	c := newTestCoordinator(t)
	_, err := c.RegisterNode("node1", big.NewInt(2000), "1.2.3.4", "", "", "http://1.2.3.4:9000")
	require.NoError(t, err)
	task, err := c.SubmitTask("alice", "do work", big.NewInt(10), big.NewInt(0), big.NewInt(10), types.PriorityNormal)
	require.NoError(t, err)
	_, err = c.SubmitResult("node1", task.ID, "deadbeef", `{}`, ledger.SafetyDeposit)
	require.NoError(t, err)

	err = c.Transfer("node1", "alice", big.NewInt(5), nil, "payout")
	require.Error(t, err)

	err = c.Transfer("node1", "alice", big.NewInt(5), ledger.SafetyDeposit, "payout")
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(5), c.BalanceOf("node1"))
}
