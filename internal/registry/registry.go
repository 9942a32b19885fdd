// Package registry implements the node registry: stake, endpoints,
// liveness heartbeat, reputation and slashing for operator nodes.
//
// Like ledger.Ledger, Registry carries no internal locking; the coordinator
// serializes all access.
package registry

import (
	"math/big"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/klaytn-labs/deai-compute/internal/apierr"
	"github.com/klaytn-labs/deai-compute/pkg/types"
)

// logger resolves the sugared logger at call time rather than caching it at
// package-init, since zap.ReplaceGlobals runs later in each binary's run()
// and a var captured at init would be permanently bound to the no-op default.
func logger() *zap.SugaredLogger {
	return zap.L().Sugar().Named("registry")
}

// LivenessWindow is the maximum heartbeat age for a node to still count as
// live.
const LivenessWindow = 5 * time.Minute

// ReputationStart is the reputation a freshly registered node begins with.
const ReputationStart = 100

// ReputationMax is the saturating upper bound on reputation.
const ReputationMax = 1000

// ReputationSuccessDelta is added on a successful submit_result.
const ReputationSuccessDelta = 10

// ReputationTimeoutPenalty is subtracted (saturating at zero) on timeout.
const ReputationTimeoutPenalty = 50

// SlashFractionNum/Den express the 10% stake slash fraction on timeout.
const (
	SlashFractionNum = 1
	SlashFractionDen = 10
)

const maxSpecLen = 500

// Registry is the node account -> NodeInfo map, keyed by account, plus a
// reverse index of public IPs in use by active nodes.
type Registry struct {
	nodes   map[string]*types.NodeInfo
	ipInUse map[string]string // public IP -> owning account, active nodes only
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		nodes:   make(map[string]*types.NodeInfo),
		ipInUse: make(map[string]string),
	}
}

// Register creates a new node record. Callers must already have validated
// and collected the attached stake; Register only enforces the registry's
// own invariants (account not already present, stake at least minStake,
// non-empty public IP and API endpoint, IP not in use, field sizes).
func (r *Registry) Register(account string, stake *big.Int, minStake *big.Int, publicIP, gpuSpecs, cpuSpecs, apiEndpoint string, now time.Time) (*types.NodeInfo, error) {
	if _, exists := r.nodes[account]; exists {
		return nil, apierr.New(apierr.Conflict, "account %s already registered", account)
	}
	if stake.Cmp(minStake) < 0 {
		return nil, apierr.New(apierr.InsufficientStake, "stake %s below minimum %s", stake.String(), minStake.String())
	}
	if publicIP == "" {
		return nil, apierr.New(apierr.BadRequest, "public IP must not be empty")
	}
	if apiEndpoint == "" {
		return nil, apierr.New(apierr.BadRequest, "api endpoint must not be empty")
	}
	if len(gpuSpecs) > maxSpecLen || len(cpuSpecs) > maxSpecLen {
		return nil, apierr.New(apierr.BadRequest, "gpu/cpu spec exceeds %d characters", maxSpecLen)
	}
	if owner, inUse := r.ipInUse[publicIP]; inUse && owner != account {
		return nil, apierr.New(apierr.Conflict, "public IP %s already registered to %s", publicIP, owner)
	}

	node := &types.NodeInfo{
		Account:          account,
		Stake:            new(big.Int).Set(stake),
		PublicIP:         publicIP,
		GPUSpecs:         gpuSpecs,
		CPUSpecs:         cpuSpecs,
		APIEndpoint:      apiEndpoint,
		IsActive:         true,
		LastHeartbeat:    now,
		RegistrationTime: now,
		Reputation:       ReputationStart,
		SlashedAmount:    big.NewInt(0),
	}
	r.nodes[account] = node
	r.ipInUse[publicIP] = account
	logger().Infow("node registered", "account", account, "public_ip", publicIP, "stake", stake.String())
	return node, nil
}

// Get returns the node record for account, or nil if not registered.
func (r *Registry) Get(account string) *types.NodeInfo {
	return r.nodes[account]
}

// Heartbeat refreshes last_heartbeat and marks the node active. Idempotent:
// repeated calls only ever advance LastHeartbeat.
func (r *Registry) Heartbeat(account string, now time.Time) error {
	node, ok := r.nodes[account]
	if !ok {
		return apierr.New(apierr.NotFound, "node %s not registered", account)
	}
	node.LastHeartbeat = now
	node.IsActive = true
	return nil
}

// RecordSuccess bumps tasks_completed and reputation after a submitted
// result.
func (r *Registry) RecordSuccess(account string) error {
	node, ok := r.nodes[account]
	if !ok {
		return apierr.New(apierr.NotFound, "node %s not registered", account)
	}
	node.TasksCompleted++
	node.Reputation += ReputationSuccessDelta
	if node.Reputation > ReputationMax {
		node.Reputation = ReputationMax
	}
	return nil
}

// Slash penalizes a node on task timeout: reputation drops by
// ReputationTimeoutPenalty (saturating at zero) and slashed_amount grows by
// 10% of stake.
func (r *Registry) Slash(account string) error {
	node, ok := r.nodes[account]
	if !ok {
		return apierr.New(apierr.NotFound, "node %s not registered", account)
	}
	node.Reputation -= ReputationTimeoutPenalty
	if node.Reputation < 0 {
		node.Reputation = 0
	}
	penalty := new(big.Int).Mul(node.Stake, big.NewInt(SlashFractionNum))
	penalty.Div(penalty, big.NewInt(SlashFractionDen))
	node.SlashedAmount = new(big.Int).Add(node.SlashedAmount, penalty)
	if node.SlashedAmount.Cmp(node.Stake) > 0 {
		node.SlashedAmount = new(big.Int).Set(node.Stake)
	}
	logger().Warnw("node slashed", "account", account, "penalty", penalty.String(), "reputation", node.Reputation)
	return nil
}

// RefundAmount returns stake - slashed_amount, the amount owed back to a
// node on deactivation.
func (r *Registry) RefundAmount(account string) (*big.Int, error) {
	node, ok := r.nodes[account]
	if !ok {
		return nil, apierr.New(apierr.NotFound, "node %s not registered", account)
	}
	return new(big.Int).Sub(node.Stake, node.SlashedAmount), nil
}

// Deactivate marks a node inactive and frees its public IP for reuse. The
// caller (coordinator) is responsible for confirming the node holds no
// active assignments and for queuing the stake refund transfer first.
func (r *Registry) Deactivate(account string) error {
	node, ok := r.nodes[account]
	if !ok {
		return apierr.New(apierr.NotFound, "node %s not registered", account)
	}
	if !node.IsActive {
		return apierr.New(apierr.Conflict, "node %s already inactive", account)
	}
	node.IsActive = false
	delete(r.ipInUse, node.PublicIP)
	logger().Infow("node deactivated", "account", account)
	return nil
}

// ActiveNodes returns all registered nodes currently live, sorted by
// account for deterministic iteration.
func (r *Registry) ActiveNodes(now time.Time) []*types.NodeInfo {
	out := make([]*types.NodeInfo, 0, len(r.nodes))
	for _, n := range r.nodes {
		if n.IsLive(now, LivenessWindow) {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Account < out[j].Account })
	return out
}

// AllAccounts returns every registered account, sorted, for deterministic
// scheduler tie-breaking.
func (r *Registry) AllAccounts() []string {
	accounts := make([]string, 0, len(r.nodes))
	for a := range r.nodes {
		accounts = append(accounts, a)
	}
	sort.Strings(accounts)
	return accounts
}
