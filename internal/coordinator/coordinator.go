// Package coordinator implements the Coordinator API: a transactional
// wrapper around the token ledger, the node registry and the job
// queue/scheduler. Every mutating entry point either applies in full or
// aborts leaving state untouched. RegisterNode, DeactivateNode, SubmitTask,
// SubmitResult, TimeoutTask, Pause, Unpause and Transfer emit a structured
// log line on success; Heartbeat, UpdateMinStake, UpdateMaxTasksPerNode,
// UpdateTaskTimeout and EmergencyWithdraw emit none.
//
// The Coordinator is logically single-threaded: a single mutex serializes
// every public operation, so all writes happen under one consistent
// sequence. View operations take the same lock for a consistent snapshot
// read.
package coordinator

import (
	"math/big"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/klaytn-labs/deai-compute/internal/apierr"
	"github.com/klaytn-labs/deai-compute/internal/ledger"
	"github.com/klaytn-labs/deai-compute/internal/queue"
	"github.com/klaytn-labs/deai-compute/internal/registry"
	"github.com/klaytn-labs/deai-compute/pkg/types"
)

// logger resolves the sugared logger at call time rather than caching it at
// package-init, since zap.ReplaceGlobals runs later in each binary's run()
// and a var captured at init would be permanently bound to the no-op default.
func logger() *zap.SugaredLogger {
	return zap.L().Sugar().Named("coordinator")
}

// Config holds the admin-tunable parameters.
type Config struct {
	Owner           string
	MinStake        *big.Int
	MaxTasksPerNode int
	TaskTimeout     time.Duration
}

// DefaultConfig returns conservative defaults: no minimum task timeout
// bound violation, a generous per-node cap, and a 1-hour task timeout.
func DefaultConfig(owner string, minStake *big.Int) Config {
	return Config{
		Owner:           owner,
		MinStake:        minStake,
		MaxTasksPerNode: 4,
		TaskTimeout:     1 * time.Hour,
	}
}

const (
	maxDescriptionLen = 1000
	maxOutputLen      = 10000
	maxProofHashLen   = 64

	minTaskTimeout = 5 * time.Minute
	maxTaskTimeout = 24 * time.Hour
)

// Coordinator is the single-writer aggregate over the ledger, registry and
// queue. Construct with New and call its methods directly; there is no
// separate "begin transaction" step — each method body is the transaction.
type Coordinator struct {
	mu sync.Mutex

	cfg    Config
	paused bool

	ledger   *ledger.Ledger
	registry *registry.Registry
	queue    *queue.Queue

	totalRewardsDistributed *big.Int

	now func() time.Time // overridable for deterministic tests
}

// New builds a Coordinator and registers the owner account with the ledger.
func New(cfg Config) *Coordinator {
	l := ledger.New()
	l.RegisterAccount(cfg.Owner)
	return &Coordinator{
		cfg:                     cfg,
		ledger:                  l,
		registry:                registry.New(),
		queue:                   queue.New(),
		totalRewardsDistributed: big.NewInt(0),
		now:                     time.Now,
	}
}

func (c *Coordinator) nowTime() time.Time { return c.now() }

func (c *Coordinator) requirePaymentDeposit(attached *big.Int) error {
	if attached == nil || attached.Cmp(ledger.SafetyDeposit) != 0 {
		return apierr.New(apierr.InsufficientDeposit, "operation requires exactly a 1-unit safety deposit")
	}
	return nil
}

func (c *Coordinator) requireNotPaused() error {
	if c.paused {
		return apierr.New(apierr.Paused, "coordinator is paused")
	}
	return nil
}

func (c *Coordinator) requireOwner(caller string) error {
	if caller != c.cfg.Owner {
		return apierr.New(apierr.Forbidden, "caller %s is not the owner", caller)
	}
	return nil
}

func (c *Coordinator) dispatchLocked() {
	queue.Dispatch(c.queue, c.registry, c.cfg.MaxTasksPerNode, c.cfg.TaskTimeout, c.nowTime())
}

// ---- Node registry operations ----

// RegisterNode implements register_node.
func (c *Coordinator) RegisterNode(caller string, stake *big.Int, publicIP, gpuSpecs, cpuSpecs, apiEndpoint string) (*types.NodeInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireNotPaused(); err != nil {
		return nil, err
	}
	node, err := c.registry.Register(caller, stake, c.cfg.MinStake, publicIP, gpuSpecs, cpuSpecs, apiEndpoint, c.nowTime())
	if err != nil {
		return nil, err
	}
	c.ledger.RegisterAccount(caller)
	logger().Infow("register_node", "account", caller)
	return node, nil
}

// Heartbeat implements heartbeat.
func (c *Coordinator) Heartbeat(caller string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireNotPaused(); err != nil {
		return err
	}
	return c.registry.Heartbeat(caller, c.nowTime())
}

// DeactivateNode implements deactivate_node: requires a 1-unit
// safety deposit, refuses while the node has in-flight assignments, and
// queues a refund of stake-slashed_amount.
func (c *Coordinator) DeactivateNode(caller string, attachedDeposit *big.Int) (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireNotPaused(); err != nil {
		return nil, err
	}
	if err := c.requirePaymentDeposit(attachedDeposit); err != nil {
		return nil, err
	}
	if n := c.queue.CountAssigned(caller); n > 0 {
		return nil, apierr.New(apierr.Conflict, "node %s has %d active assignments", caller, n)
	}
	refund, err := c.registry.RefundAmount(caller)
	if err != nil {
		return nil, err
	}
	if err := c.registry.Deactivate(caller); err != nil {
		return nil, err
	}
	logger().Infow("deactivate_node", "account", caller, "refund", refund.String())
	return refund, nil
}

// ---- Task operations ----

// SubmitTask implements submit_task.
func (c *Coordinator) SubmitTask(requester string, description string, estimatedCost, storageCost, attachedPayment *big.Int, priority types.TaskPriority) (*types.Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireNotPaused(); err != nil {
		return nil, err
	}
	if description == "" || len(description) > maxDescriptionLen {
		return nil, apierr.New(apierr.BadRequest, "description must be 1-%d characters", maxDescriptionLen)
	}
	if estimatedCost.Sign() <= 0 {
		return nil, apierr.New(apierr.BadRequest, "estimated_cost must be positive")
	}
	required := new(big.Int).Add(estimatedCost, storageCost)
	if attachedPayment.Cmp(required) < 0 {
		return nil, apierr.New(apierr.InsufficientDeposit, "attached payment below estimated_cost+storage_cost")
	}
	if priority == 0 {
		priority = types.PriorityNormal
	}

	c.ledger.RegisterAccount(requester)

	task := &types.Task{
		ID:           c.queue.NextID(),
		Requester:    requester,
		Description:  description,
		Status:       types.TaskPending,
		Priority:     priority,
		RewardAmount: new(big.Int).Set(estimatedCost),
		CreatedAt:    c.nowTime(),
	}
	c.queue.Insert(task)
	c.dispatchLocked()
	logger().Infow("submit_task", "task_id", task.ID, "requester", requester, "priority", priority.String())
	return task, nil
}

// SubmitResult implements submit_result.
func (c *Coordinator) SubmitResult(caller string, taskID uint64, proofHash, output string, attachedDeposit *big.Int) (*types.Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireNotPaused(); err != nil {
		return nil, err
	}
	if err := c.requirePaymentDeposit(attachedDeposit); err != nil {
		return nil, err
	}
	if len(proofHash) > maxProofHashLen {
		return nil, apierr.New(apierr.BadRequest, "proof_hash exceeds %d characters", maxProofHashLen)
	}
	if len(output) > maxOutputLen {
		return nil, apierr.New(apierr.BadRequest, "output exceeds %d characters", maxOutputLen)
	}

	task := c.queue.ActiveTask(taskID)
	if task == nil {
		return nil, apierr.New(apierr.NotFound, "task %d not found", taskID)
	}
	if task.Assignee != caller {
		return nil, apierr.New(apierr.NotAssigned, "task %d is not assigned to %s", taskID, caller)
	}
	if task.Status != types.TaskAssigned && task.Status != types.TaskInProgress {
		return nil, apierr.New(apierr.TaskNotActive, "task %d is not in an assignable state", taskID)
	}
	now := c.nowTime()
	if now.After(task.TimeoutAt) {
		return nil, apierr.New(apierr.TaskTimedOut, "task %d has already timed out", taskID)
	}

	task.Status = types.TaskCompleted
	task.Output = output
	task.ProofHash = proofHash
	task.CompletedAt = now

	if err := c.registry.RecordSuccess(caller); err != nil {
		return nil, err
	}
	if err := c.ledger.InternalDeposit(caller, task.RewardAmount); err != nil {
		return nil, err
	}
	c.totalRewardsDistributed = new(big.Int).Add(c.totalRewardsDistributed, task.RewardAmount)
	c.queue.Archive(taskID)
	c.dispatchLocked()

	logger().Infow("submit_result", "task_id", taskID, "assignee", caller, "reward", task.RewardAmount.String())
	return task, nil
}

// TimeoutTask implements timeout_task: permissionless liveness
// enforcement, callable by anyone once the deadline has passed. The second
// return value is the amount to be transferred back to the requester; like
// DeactivateNode's refund, this is an escrowed-payment transfer, not a
// ledger token mint, so it does not touch total_supply or
// total_rewards_distributed (those move only through submit_result).
func (c *Coordinator) TimeoutTask(caller string, taskID uint64, attachedDeposit *big.Int) (*types.Task, *big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireNotPaused(); err != nil {
		return nil, nil, err
	}
	if err := c.requirePaymentDeposit(attachedDeposit); err != nil {
		return nil, nil, err
	}

	task := c.queue.ActiveTask(taskID)
	if task == nil {
		return nil, nil, apierr.New(apierr.NotFound, "task %d not found", taskID)
	}
	if task.Status != types.TaskAssigned && task.Status != types.TaskInProgress {
		return nil, nil, apierr.New(apierr.TaskNotActive, "task %d is not in an assignable state", taskID)
	}
	now := c.nowTime()
	if !now.After(task.TimeoutAt) {
		return nil, nil, apierr.New(apierr.BadRequest, "task %d has not timed out yet", taskID)
	}

	if err := c.registry.Slash(task.Assignee); err != nil {
		return nil, nil, err
	}

	task.Status = types.TaskTimedOut
	task.CompletedAt = now
	c.queue.Archive(taskID)

	logger().Warnw("timeout_task", "task_id", taskID, "assignee", task.Assignee)
	return task, new(big.Int).Set(task.RewardAmount), nil
}

// ---- Admin operations ----

// Pause implements pause (owner-only).
func (c *Coordinator) Pause(caller string, attachedDeposit *big.Int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireOwner(caller); err != nil {
		return err
	}
	if err := c.requirePaymentDeposit(attachedDeposit); err != nil {
		return err
	}
	c.paused = true
	logger().Warnw("coordinator paused", "by", caller)
	return nil
}

// Unpause implements unpause (owner-only; the sole mutating op allowed while paused).
func (c *Coordinator) Unpause(caller string, attachedDeposit *big.Int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireOwner(caller); err != nil {
		return err
	}
	if err := c.requirePaymentDeposit(attachedDeposit); err != nil {
		return err
	}
	c.paused = false
	logger().Infow("coordinator unpaused", "by", caller)
	return nil
}

// UpdateMinStake implements update_min_stake (owner-only).
func (c *Coordinator) UpdateMinStake(caller string, attachedDeposit *big.Int, n *big.Int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireOwner(caller); err != nil {
		return err
	}
	if err := c.requirePaymentDeposit(attachedDeposit); err != nil {
		return err
	}
	if n.Sign() <= 0 {
		return apierr.New(apierr.BadRequest, "min_stake must be positive")
	}
	c.cfg.MinStake = n
	return nil
}

// UpdateMaxTasksPerNode implements update_max_tasks_per_node (owner-only, n in [1,100]).
func (c *Coordinator) UpdateMaxTasksPerNode(caller string, attachedDeposit *big.Int, n int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireOwner(caller); err != nil {
		return err
	}
	if err := c.requirePaymentDeposit(attachedDeposit); err != nil {
		return err
	}
	if n < 1 || n > 100 {
		return apierr.New(apierr.BadRequest, "max_tasks_per_node must be in [1,100]")
	}
	c.cfg.MaxTasksPerNode = n
	return nil
}

// UpdateTaskTimeout implements update_task_timeout (owner-only, d in [5min,24h]).
func (c *Coordinator) UpdateTaskTimeout(caller string, attachedDeposit *big.Int, d time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireOwner(caller); err != nil {
		return err
	}
	if err := c.requirePaymentDeposit(attachedDeposit); err != nil {
		return err
	}
	if d < minTaskTimeout || d > maxTaskTimeout {
		return apierr.New(apierr.BadRequest, "task timeout must be in [%s,%s]", minTaskTimeout, maxTaskTimeout)
	}
	c.cfg.TaskTimeout = d
	return nil
}

// EmergencyWithdraw implements emergency_withdraw (owner-only, requires
// paused, withdraws from the owner's own ledger balance representing the
// contract's retained balance).
func (c *Coordinator) EmergencyWithdraw(caller string, attachedDeposit *big.Int, n *big.Int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireOwner(caller); err != nil {
		return err
	}
	if err := c.requirePaymentDeposit(attachedDeposit); err != nil {
		return err
	}
	if !c.paused {
		return apierr.New(apierr.BadRequest, "emergency_withdraw requires the coordinator to be paused")
	}
	return c.ledger.InternalWithdraw(c.cfg.Owner, n)
}

// ---- Views ----

// GetNodeInfo implements get_node_info.
func (c *Coordinator) GetNodeInfo(account string) *types.NodeInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registry.Get(account)
}

// GetActiveNodes implements get_active_nodes.
func (c *Coordinator) GetActiveNodes() []*types.NodeInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registry.ActiveNodes(c.nowTime())
}

// GetPendingTasks implements get_pending_tasks.
func (c *Coordinator) GetPendingTasks() []*types.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.PendingTasks()
}

// GetActiveTask implements get_active_task.
func (c *Coordinator) GetActiveTask(taskID uint64) *types.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.ActiveTask(taskID)
}

// GetTaskResult implements get_task_result.
func (c *Coordinator) GetTaskResult(taskID uint64) *types.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.CompletedTask(taskID)
}

// GetAssignedTasks implements get_assigned_tasks.
func (c *Coordinator) GetAssignedTasks(account string) []*types.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.AssignedTasks(account)
}

// GetTaskCount implements get_task_count.
func (c *Coordinator) GetTaskCount() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.TaskCount()
}

// BalanceOf implements balance_of.
func (c *Coordinator) BalanceOf(account string) *big.Int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.BalanceOf(account)
}

// TotalSupply implements total_supply.
func (c *Coordinator) TotalSupply() *big.Int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.TotalSupply()
}

// GetTotalRewardsDistributed implements get_total_rewards_distributed.
func (c *Coordinator) GetTotalRewardsDistributed() *big.Int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return new(big.Int).Set(c.totalRewardsDistributed)
}

// GetContractStats implements get_contract_stats.
func (c *Coordinator) GetContractStats() types.ContractStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	pending, active, completed := c.queue.Counts()
	return types.ContractStats{
		TotalNodes:              len(c.registry.AllAccounts()),
		ActiveNodes:             len(c.registry.ActiveNodes(c.nowTime())),
		TotalTasks:              c.queue.TaskCount(),
		PendingTasks:            pending,
		ActiveTasks:             active,
		CompletedTasks:          completed,
		TotalRewardsDistributed: new(big.Int).Set(c.totalRewardsDistributed),
		TotalSupply:             c.ledger.TotalSupply(),
	}
}

// Transfer implements ft_transfer.
func (c *Coordinator) Transfer(caller, to string, amount, attachedDeposit *big.Int, memo string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireNotPaused(); err != nil {
		return err
	}
	return c.ledger.Transfer(caller, to, amount, attachedDeposit, memo)
}

// SetClock overrides the coordinator's time source; tests use this for
// deterministic timeout boundary checks.
func (c *Coordinator) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}
