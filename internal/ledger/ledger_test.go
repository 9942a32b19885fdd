package ledger

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klaytn-labs/deai-compute/internal/apierr"
)

func TestRegisterAccountIdempotent(t *testing.T) {
	l := New()
	l.RegisterAccount("alice")
	l.balances["alice"] = big.NewInt(500)
	l.RegisterAccount("alice")
	assert.Equal(t, big.NewInt(500), l.BalanceOf("alice"))
}

func TestBalanceOfUnregisteredIsZero(t *testing.T) {
	l := New()
	assert.Equal(t, big.NewInt(0), l.BalanceOf("nobody"))
	assert.False(t, l.IsRegistered("nobody"))
}

func TestInternalDepositRequiresRegistration(t *testing.T) {
	l := New()
	err := l.InternalDeposit("alice", big.NewInt(10))
	require.Error(t, err)
	assert.Equal(t, apierr.NotFound, apierr.KindOf(err))
}

func TestInternalDepositUpdatesSupply(t *testing.T) {
	l := New()
	l.RegisterAccount("alice")
	require.NoError(t, l.InternalDeposit("alice", big.NewInt(100)))
	assert.Equal(t, big.NewInt(100), l.BalanceOf("alice"))
	assert.Equal(t, big.NewInt(100), l.TotalSupply())
}

func TestInternalDepositRejectsNegative(t *testing.T) {
	l := New()
	l.RegisterAccount("alice")
	err := l.InternalDeposit("alice", big.NewInt(-1))
	require.Error(t, err)
	assert.Equal(t, apierr.BadRequest, apierr.KindOf(err))
}

func TestInternalWithdrawInsufficientBalance(t *testing.T) {
	l := New()
	l.RegisterAccount("alice")
	require.NoError(t, l.InternalDeposit("alice", big.NewInt(5)))
	err := l.InternalWithdraw("alice", big.NewInt(10))
	require.Error(t, err)
	assert.Equal(t, apierr.InsufficientBalance, apierr.KindOf(err))
}

func TestTransferRequiresExactSafetyDeposit(t *testing.T) {
	l := New()
	l.RegisterAccount("alice")
	l.RegisterAccount("bob")
	require.NoError(t, l.InternalDeposit("alice", big.NewInt(50)))

	err := l.Transfer("alice", "bob", big.NewInt(10), big.NewInt(2), "memo")
	require.Error(t, err)
	assert.Equal(t, apierr.InsufficientDeposit, apierr.KindOf(err))

	err = l.Transfer("alice", "bob", big.NewInt(10), nil, "memo")
	require.Error(t, err)
	assert.Equal(t, apierr.InsufficientDeposit, apierr.KindOf(err))
}

func TestTransferMovesBalance(t *testing.T) {
	l := New()
	l.RegisterAccount("alice")
	l.RegisterAccount("bob")
	require.NoError(t, l.InternalDeposit("alice", big.NewInt(50)))

	require.NoError(t, l.Transfer("alice", "bob", big.NewInt(20), SafetyDeposit, "payment"))
	assert.Equal(t, big.NewInt(30), l.BalanceOf("alice"))
	assert.Equal(t, big.NewInt(20), l.BalanceOf("bob"))
}

func TestTransferUnknownReceiver(t *testing.T) {
	l := New()
	l.RegisterAccount("alice")
	require.NoError(t, l.InternalDeposit("alice", big.NewInt(50)))

	err := l.Transfer("alice", "ghost", big.NewInt(10), SafetyDeposit, "")
	require.Error(t, err)
	assert.Equal(t, apierr.NotFound, apierr.KindOf(err))
}

func TestMustParseAmount(t *testing.T) {
	n, err := MustParseAmount("123")
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(123), n)

	_, err = MustParseAmount("not-a-number")
	assert.Error(t, err)

	_, err = MustParseAmount("-5")
	assert.Error(t, err)
}
