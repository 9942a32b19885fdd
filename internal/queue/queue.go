// Package queue implements the pending-job ordered set, the active-task and
// completed-task tables, and the deterministic scheduler.
//
// Like ledger.Ledger and registry.Registry, Queue is mutated only from
// within the coordinator's single-writer transaction.
package queue

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/klaytn-labs/deai-compute/internal/registry"
	"github.com/klaytn-labs/deai-compute/pkg/types"
)

// logger resolves the sugared logger at call time rather than caching it at
// package-init, since zap.ReplaceGlobals runs later in each binary's run()
// and a var captured at init would be permanently bound to the no-op default.
func logger() *zap.SugaredLogger {
	return zap.L().Sugar().Named("queue")
}

// Queue holds the pending set, the active table and the completed archive.
// A small scan-based pending set is acceptable for queue sizes up to a few
// thousand; larger deployments should replace
// `pending` with an indexed priority structure without changing the
// exported API.
type Queue struct {
	pending   []uint64 // ordered task IDs in Pending status, insertion order
	active    map[uint64]*types.Task
	completed map[uint64]*types.Task
	counter   uint64
}

// New returns an empty Queue.
func New() *Queue {
	return &Queue{
		active:    make(map[uint64]*types.Task),
		completed: make(map[uint64]*types.Task),
	}
}

// NextID returns a fresh monotonic task ID, distinct from any UUID used by
// an external gateway task mirror.
func (q *Queue) NextID() uint64 {
	id := q.counter
	q.counter++
	return id
}

// TaskCount returns the number of task IDs issued so far (get_task_count).
func (q *Queue) TaskCount() uint64 {
	return q.counter
}

// Insert adds a freshly created Pending task to the active table and the
// pending set.
func (q *Queue) Insert(task *types.Task) {
	q.active[task.ID] = task
	q.pending = append(q.pending, task.ID)
}

// ActiveTask returns the active-table record for id, or nil.
func (q *Queue) ActiveTask(id uint64) *types.Task {
	return q.active[id]
}

// CompletedTask returns the archived record for id, or nil.
func (q *Queue) CompletedTask(id uint64) *types.Task {
	return q.completed[id]
}

// PendingTasks returns the tasks currently in Pending status, in queue
// order.
func (q *Queue) PendingTasks() []*types.Task {
	out := make([]*types.Task, 0, len(q.pending))
	for _, id := range q.pending {
		if t := q.active[id]; t != nil {
			out = append(out, t)
		}
	}
	return out
}

// AssignedTasks returns all active tasks (any status) assigned to account.
func (q *Queue) AssignedTasks(account string) []*types.Task {
	out := make([]*types.Task, 0)
	ids := make([]uint64, 0, len(q.active))
	for id := range q.active {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		t := q.active[id]
		if t.Assignee == account {
			out = append(out, t)
		}
	}
	return out
}

// CountAssigned returns the number of active assignments (Assigned or
// InProgress) held by account, used to enforce max_tasks_per_node.
func (q *Queue) CountAssigned(account string) int {
	n := 0
	for _, t := range q.active {
		if t.Assignee == account && (t.Status == types.TaskAssigned || t.Status == types.TaskInProgress) {
			n++
		}
	}
	return n
}

// Archive moves a task out of the active table and pending set (if present)
// into the completed archive. Every task leaving an active state passes
// through here exactly once.
func (q *Queue) Archive(id uint64) {
	t, ok := q.active[id]
	if !ok {
		return
	}
	delete(q.active, id)
	q.removeFromPending(id)
	q.completed[id] = t
}

func (q *Queue) removeFromPending(id uint64) {
	for i, pid := range q.pending {
		if pid == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
}

// Counts returns (pending, active, completed) table sizes for
// get_contract_stats.
func (q *Queue) Counts() (pending, active, completed int) {
	return len(q.pending), len(q.active), len(q.completed)
}

// Dispatch runs one greedy scheduling round:
//  1. among live nodes under the per-node concurrency cap, pick the highest
//     reputation, ties broken by smallest account ID;
//  2. among pending tasks, pick the highest priority, ties broken by lowest
//     (first-inserted) task ID;
//  3. atomically assign.
//
// It assigns at most one task per call; callers that want to drain the
// pending set to quiescence must call Dispatch repeatedly.
func Dispatch(q *Queue, reg *registry.Registry, maxTasksPerNode int, taskTimeout time.Duration, now time.Time) *types.Task {
	node := selectNode(reg, q, maxTasksPerNode, now)
	if node == "" {
		return nil
	}
	taskID, ok := selectPendingTask(q)
	if !ok {
		return nil
	}
	task := q.active[taskID]
	q.removeFromPending(taskID)
	task.Assignee = node
	task.Status = types.TaskAssigned
	task.AssignedAt = now
	task.TimeoutAt = now.Add(taskTimeout)
	logger().Infow("task dispatched", "task_id", taskID, "node", node, "priority", task.Priority.String())
	return task
}

// selectNode implements step 1: highest reputation among live, under-cap
// nodes, ties broken by smallest account ID.
func selectNode(reg *registry.Registry, q *Queue, maxTasksPerNode int, now time.Time) string {
	best := ""
	bestReputation := -1
	for _, account := range reg.AllAccounts() {
		node := reg.Get(account)
		if node == nil || !node.IsLive(now, registry.LivenessWindow) {
			continue
		}
		if q.CountAssigned(account) >= maxTasksPerNode {
			continue
		}
		if node.Reputation > bestReputation || (node.Reputation == bestReputation && account < best) {
			best = account
			bestReputation = node.Reputation
		}
	}
	return best
}

// selectPendingTask implements step 2: highest priority, ties broken by
// lowest task ID (first-inserted, since pending is itself insertion-ordered
// this is already satisfied by a single linear scan).
func selectPendingTask(q *Queue) (uint64, bool) {
	bestIdx := -1
	var bestPriority types.TaskPriority = -1
	for i, id := range q.pending {
		t := q.active[id]
		if t == nil || t.Status != types.TaskPending {
			continue
		}
		if t.Priority > bestPriority {
			bestPriority = t.Priority
			bestIdx = i
		}
	}
	if bestIdx == -1 {
		return 0, false
	}
	return q.pending[bestIdx], true
}
