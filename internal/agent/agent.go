// Package agent implements the node agent: one-shot registration, a
// heartbeat loop, a task poll/execute loop, and a health view. The two loops
// run as cooperative goroutines over a shared rpc.Client connection; the
// health view is computed on demand by Health rather than by a loop.
//
// The concurrency model is a stop channel plus a WaitGroup guarding a
// bounded number of concurrent handlers: here the bound is
// max_concurrent_tasks and the "handler" is one task execution.
package agent

import (
	"context"
	"math/big"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/klaytn-labs/deai-compute/internal/agent/aibackend"
	"github.com/klaytn-labs/deai-compute/internal/apierr"
	"github.com/klaytn-labs/deai-compute/internal/coordinator/rpc"
	"github.com/klaytn-labs/deai-compute/internal/ledger"
)

// logger resolves the sugared logger at call time rather than caching it at
// package-init, since zap.ReplaceGlobals runs later in each binary's run()
// and a var captured at init would be permanently bound to the no-op default.
func logger() *zap.SugaredLogger {
	return zap.L().Sugar().Named("agent")
}

const inFlightDedupeSize = 256

// Agent runs the node-agent loops against a coordinator RPC client.
type Agent struct {
	cfg     Config
	client  *rpc.Client
	backend *aibackend.Backend

	sem chan struct{} // counting semaphore, size MaxConcurrentTasks

	stopCh chan struct{}
	wg     sync.WaitGroup

	mu                  sync.Mutex
	registered          bool
	consecutiveFailures int
	lastHeartbeatOK     time.Time
	lastLatency         time.Duration

	inFlight *lru.Cache // task ID -> struct{}, dedupes the poll loop against in-progress work
}

// New builds an Agent. client and backend must already be constructed.
func New(cfg Config, client *rpc.Client, backend *aibackend.Backend) *Agent {
	cache, err := lru.New(inFlightDedupeSize)
	if err != nil {
		panic(err) // only fails for a non-positive size; inFlightDedupeSize is a positive constant
	}
	return &Agent{
		cfg:      cfg,
		client:   client,
		backend:  backend,
		sem:      make(chan struct{}, cfg.MaxConcurrentTasks),
		stopCh:   make(chan struct{}),
		inFlight: cache,
	}
}

// Register performs the one-shot registration sub-process: fetches the
// account's own balance, verifies it covers the configured minimum stake,
// and calls register_node. Idempotent: an already-registered account logs
// and returns without error.
func (a *Agent) Register(ctx context.Context) error {
	existing, err := a.client.GetNodeInfo(ctx, &rpc.GetNodeInfoRequest{Account: a.cfg.Account})
	if err == nil && existing.Node != nil {
		logger().Infow("already registered, skipping", "account", a.cfg.Account)
		a.setRegistered(true)
		return nil
	}
	if apierr.KindOf(err) != apierr.NotFound && err != nil {
		return errors.Wrap(err, "check existing registration")
	}

	balance, err := a.client.BalanceOf(ctx, &rpc.BalanceOfRequest{Account: a.cfg.Account})
	if err != nil {
		return errors.Wrap(err, "fetch own balance")
	}
	stake, ok := new(big.Int).SetString(balance.Balance, 10)
	if !ok {
		return errors.Errorf("invalid balance %q returned for %s", balance.Balance, a.cfg.Account)
	}
	if stake.Cmp(a.cfg.MinStake) < 0 {
		return errors.Errorf("balance %s below required minimum stake %s", stake.String(), a.cfg.MinStake.String())
	}

	resp, err := a.client.RegisterNode(ctx, &rpc.RegisterNodeRequest{
		Account:       a.cfg.Account,
		AttachedStake: stake.String(),
		PublicIP:      a.cfg.PublicIP,
		GPUSpecs:      a.cfg.GPUSpecs,
		CPUSpecs:      a.cfg.CPUSpecs,
		APIEndpoint:   a.cfg.apiEndpoint(),
	})
	if err != nil {
		return errors.Wrap(err, "register_node")
	}
	logger().Infow("registered", "account", a.cfg.Account, "endpoint", resp.Node.APIEndpoint)
	a.setRegistered(true)
	return nil
}

func (a *Agent) setRegistered(v bool) {
	a.mu.Lock()
	a.registered = v
	a.mu.Unlock()
}

// Start launches the heartbeat and poll/execute loops. It returns
// immediately; call Stop to drain in-flight work and terminate.
func (a *Agent) Start(ctx context.Context) {
	a.wg.Add(2)
	go a.heartbeatLoop(ctx)
	go a.pollLoop(ctx)
}

// Stop signals all loops to stop accepting new work and blocks until
// in-flight task executions drain.
func (a *Agent) Stop() {
	close(a.stopCh)
	a.wg.Wait()
}

// heartbeatLoop fires every HeartbeatInterval. On failure it tolerates up to
// MaxHeartbeatRetries consecutive misses, then forces a cooldown of 2x the
// interval; it never exits on its own.
func (a *Agent) heartbeatLoop(ctx context.Context) {
	defer a.wg.Done()
	ticker := time.NewTicker(a.cfg.HeartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-a.stopCh:
			return
		case <-ticker.C:
			a.doHeartbeat(ctx)
		}
	}
}

func (a *Agent) doHeartbeat(ctx context.Context) {
	start := time.Now()
	_, err := a.client.Heartbeat(ctx, &rpc.HeartbeatRequest{Account: a.cfg.Account})
	latency := time.Since(start)

	a.mu.Lock()
	a.lastLatency = latency
	if err != nil {
		a.consecutiveFailures++
		failures := a.consecutiveFailures
		sinceOK := time.Since(a.lastHeartbeatOK)
		a.mu.Unlock()

		logger().Warnw("heartbeat failed", "account", a.cfg.Account, "consecutive_failures", failures, "err", err)
		if sinceOK >= 5*a.cfg.HeartbeatInterval && !a.lastHeartbeatOK.IsZero() {
			logger().Errorw("no successful heartbeat for 5x interval", "account", a.cfg.Account, "since", sinceOK)
		}
		if failures >= a.cfg.MaxHeartbeatRetries {
			logger().Warnw("heartbeat retries exhausted, cooling down", "account", a.cfg.Account, "cooldown", 2*a.cfg.HeartbeatInterval)
			select {
			case <-time.After(2 * a.cfg.HeartbeatInterval):
			case <-a.stopCh:
			}
			a.mu.Lock()
			a.consecutiveFailures = 0
			a.mu.Unlock()
		}
		return
	}
	a.consecutiveFailures = 0
	a.lastHeartbeatOK = time.Now()
	a.mu.Unlock()
}

// pollLoop fires every PollInterval, fetching assigned tasks and dispatching
// each Assigned one to a concurrency-gated execution.
func (a *Agent) pollLoop(ctx context.Context) {
	defer a.wg.Done()
	ticker := time.NewTicker(a.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-a.stopCh:
			return
		case <-ticker.C:
			a.pollOnce(ctx)
		}
	}
}

func (a *Agent) pollOnce(ctx context.Context) {
	resp, err := a.client.GetAssignedTasks(ctx, &rpc.GetAssignedTasksRequest{Account: a.cfg.Account})
	if err != nil {
		logger().Errorw("poll: fetch assigned tasks failed", "err", err)
		return
	}
	for _, t := range resp.Tasks {
		if t.Status != "Assigned" {
			continue
		}
		if _, seen := a.inFlight.Get(t.ID); seen {
			continue
		}
		select {
		case a.sem <- struct{}{}:
			a.inFlight.Add(t.ID, struct{}{})
			a.wg.Add(1)
			go a.executeTask(ctx, t)
		case <-a.stopCh:
			return
		default:
			// no free permit this tick; try again next poll
		}
	}
}

// executeTask runs one assigned task to completion: validate, invoke the AI
// backend, validate the result, submit_result. The semaphore permit is held
// for the entire lifetime and released when executeTask returns, whether it
// stops early on a validation or backend failure or after submission is
// attempted.
func (a *Agent) executeTask(ctx context.Context, t *rpc.TaskMsg) {
	defer a.wg.Done()
	defer func() {
		<-a.sem
		a.inFlight.Remove(t.ID)
	}()

	payload, err := validateTaskDescription(t.Description)
	if err != nil {
		logger().Errorw("task validation failed", "task_id", t.ID, "err", err)
		return
	}

	result, err := a.backend.Run(ctx, t.Description, nil)
	if err != nil {
		logger().Errorw("ai backend invocation failed", "task_id", t.ID, "model", payload.Model, "err", err)
		return
	}

	if err := validateBackendResult(result.ProofHash, result.Output); err != nil {
		logger().Errorw("ai backend result invalid", "task_id", t.ID, "err", err)
		return
	}

	_, err = a.client.SubmitResult(ctx, &rpc.SubmitResultRequest{
		Account:         a.cfg.Account,
		TaskID:          t.ID,
		ProofHash:       result.ProofHash,
		Output:          result.Output,
		AttachedDeposit: ledger.SafetyDeposit.String(),
	})
	if err != nil {
		logger().Errorw("submit_result failed", "task_id", t.ID, "err", err)
		return
	}
	logger().Infow("task completed", "task_id", t.ID)
}

// Health computes the node agent's current health view.
func (a *Agent) Health(ctx context.Context) (HealthStatus, error) {
	node, err := a.client.GetNodeInfo(ctx, &rpc.GetNodeInfoRequest{Account: a.cfg.Account})
	a.mu.Lock()
	latency := a.lastLatency
	a.mu.Unlock()

	if err != nil {
		if apierr.KindOf(err) == apierr.NotFound {
			return computeHealth(healthInputs{registered: false, lastLatency: latency}), nil
		}
		return HealthStatus{}, errors.Wrap(err, "fetch node info")
	}

	return computeHealth(healthInputs{
		registered:   true,
		isActive:     node.Node.IsActive,
		heartbeatAge: time.Since(time.Unix(node.Node.LastHeartbeat, 0)),
		lastLatency:  latency,
		reputation:   node.Node.Reputation,
	}), nil
}
