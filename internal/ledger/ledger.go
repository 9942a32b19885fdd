// Package ledger implements the fungible token ledger: an NEP-141-shaped
// balance map with registration, internal mint/burn and a transfer that
// requires a one-unit safety deposit.
//
// Ledger is not safe for concurrent use on its own; it is mutated only
// from within the coordinator's single-writer transaction, which supplies
// the serialization.
package ledger

import (
	"math/big"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/klaytn-labs/deai-compute/internal/apierr"
)

// logger resolves the sugared logger at call time rather than caching it at
// package-init, since zap.ReplaceGlobals runs later in each binary's run()
// and a var captured at init would be permanently bound to the no-op default.
func logger() *zap.SugaredLogger {
	return zap.L().Sugar().Named("ledger")
}

// SafetyDeposit is the exact amount (in smallest token unit) that must be
// attached to transfer and other sensitive calls to prove caller intent.
var SafetyDeposit = big.NewInt(1)

// Ledger is the fungible token account map plus total supply counter.
type Ledger struct {
	balances    map[string]*big.Int
	totalSupply *big.Int
}

// New returns an empty Ledger.
func New() *Ledger {
	return &Ledger{
		balances:    make(map[string]*big.Int),
		totalSupply: big.NewInt(0),
	}
}

// RegisterAccount idempotently initializes a zero balance for account.
func (l *Ledger) RegisterAccount(account string) {
	if _, ok := l.balances[account]; ok {
		return
	}
	l.balances[account] = big.NewInt(0)
}

// IsRegistered reports whether account has been registered.
func (l *Ledger) IsRegistered(account string) bool {
	_, ok := l.balances[account]
	return ok
}

// BalanceOf returns the current balance of account, or zero if unregistered.
func (l *Ledger) BalanceOf(account string) *big.Int {
	if b, ok := l.balances[account]; ok {
		return new(big.Int).Set(b)
	}
	return big.NewInt(0)
}

// TotalSupply returns the sum of all registered balances.
func (l *Ledger) TotalSupply() *big.Int {
	return new(big.Int).Set(l.totalSupply)
}

// InternalDeposit increments account's balance and the total supply by n.
// This is the only minting path and is exercised solely by submit_result.
func (l *Ledger) InternalDeposit(account string, n *big.Int) error {
	b, ok := l.balances[account]
	if !ok {
		return apierr.New(apierr.NotFound, "account %s not registered", account)
	}
	if n.Sign() < 0 {
		return apierr.New(apierr.BadRequest, "deposit amount must be non-negative")
	}
	l.balances[account] = new(big.Int).Add(b, n)
	l.totalSupply = new(big.Int).Add(l.totalSupply, n)
	logger().Debugw("internal deposit", "account", account, "amount", n.String())
	return nil
}

// InternalWithdraw decrements account's balance by n, failing if the
// resulting balance would go negative.
func (l *Ledger) InternalWithdraw(account string, n *big.Int) error {
	b, ok := l.balances[account]
	if !ok {
		return apierr.New(apierr.NotFound, "account %s not registered", account)
	}
	if b.Cmp(n) < 0 {
		return apierr.New(apierr.InsufficientBalance, "account %s has insufficient balance", account)
	}
	l.balances[account] = new(big.Int).Sub(b, n)
	l.totalSupply = new(big.Int).Sub(l.totalSupply, n)
	return nil
}

// Transfer moves n units from sender to receiver, requiring exactly
// SafetyDeposit attached or it fails as a missing-deposit error. memo is
// carried for audit logging only.
func (l *Ledger) Transfer(from, to string, n *big.Int, attachedDeposit *big.Int, memo string) error {
	if attachedDeposit == nil || attachedDeposit.Cmp(SafetyDeposit) != 0 {
		return apierr.New(apierr.InsufficientDeposit, "ft_transfer requires exactly 1 yocto deposit")
	}
	fromBal, ok := l.balances[from]
	if !ok {
		return apierr.New(apierr.NotFound, "sender %s not registered", from)
	}
	if _, ok := l.balances[to]; !ok {
		return apierr.New(apierr.NotFound, "receiver %s not registered", to)
	}
	if fromBal.Cmp(n) < 0 {
		return apierr.New(apierr.InsufficientBalance, "sender %s has insufficient balance", from)
	}
	l.balances[from] = new(big.Int).Sub(fromBal, n)
	l.balances[to] = new(big.Int).Add(l.balances[to], n)
	logger().Infow("transfer", "from", from, "to", to, "amount", n.String(), "memo", memo)
	return nil
}

// MustParseAmount parses a decimal-string token amount (the wire
// representation for all integer amounts) into a big.Int, returning a
// plain error on failure; callers wrap it as a BadRequest apierr.
func MustParseAmount(s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, errors.Errorf("invalid decimal amount %q", s)
	}
	if n.Sign() < 0 {
		return nil, errors.Errorf("amount %q must be non-negative", s)
	}
	return n, nil
}
