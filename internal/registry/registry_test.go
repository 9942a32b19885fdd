package registry

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klaytn-labs/deai-compute/internal/apierr"
)

func TestRegisterRejectsDuplicateAccount(t *testing.T) {
	r := New()
	now := time.Now()
	_, err := r.Register("alice", big.NewInt(2000), big.NewInt(1000), "1.2.3.4", "", "", "http://1.2.3.4:8000", now)
	require.NoError(t, err)

	_, err = r.Register("alice", big.NewInt(2000), big.NewInt(1000), "5.6.7.8", "", "", "http://5.6.7.8:8000", now)
	require.Error(t, err)
	assert.Equal(t, apierr.Conflict, apierr.KindOf(err))
}

func TestRegisterRejectsInsufficientStake(t *testing.T) {
	r := New()
	_, err := r.Register("alice", big.NewInt(500), big.NewInt(1000), "1.2.3.4", "", "", "http://1.2.3.4:8000", time.Now())
	require.Error(t, err)
	assert.Equal(t, apierr.InsufficientStake, apierr.KindOf(err))
}

func TestRegisterRejectsDuplicateIP(t *testing.T) {
	r := New()
	now := time.Now()
	_, err := r.Register("alice", big.NewInt(2000), big.NewInt(1000), "1.2.3.4", "", "", "http://1.2.3.4:8000", now)
	require.NoError(t, err)

	_, err = r.Register("bob", big.NewInt(2000), big.NewInt(1000), "1.2.3.4", "", "", "http://1.2.3.4:9000", now)
	require.Error(t, err)
	assert.Equal(t, apierr.Conflict, apierr.KindOf(err))
}

func TestRegisterRejectsOversizedSpecs(t *testing.T) {
	r := New()
	huge := make([]byte, maxSpecLen+1)
	_, err := r.Register("alice", big.NewInt(2000), big.NewInt(1000), "1.2.3.4", string(huge), "", "http://1.2.3.4:8000", time.Now())
	require.Error(t, err)
	assert.Equal(t, apierr.BadRequest, apierr.KindOf(err))
}

func TestHeartbeatRefreshesLiveness(t *testing.T) {
	r := New()
	now := time.Now()
	_, err := r.Register("alice", big.NewInt(2000), big.NewInt(1000), "1.2.3.4", "", "", "http://1.2.3.4:8000", now)
	require.NoError(t, err)

	later := now.Add(LivenessWindow + time.Minute)
	assert.Empty(t, r.ActiveNodes(later))

	require.NoError(t, r.Heartbeat("alice", later))
	assert.Len(t, r.ActiveNodes(later), 1)
}

func TestHeartbeatUnknownAccount(t *testing.T) {
	r := New()
	err := r.Heartbeat("ghost", time.Now())
	require.Error(t, err)
	assert.Equal(t, apierr.NotFound, apierr.KindOf(err))
}

func TestRecordSuccessSaturatesReputation(t *testing.T) {
	r := New()
	now := time.Now()
	_, err := r.Register("alice", big.NewInt(2000), big.NewInt(1000), "1.2.3.4", "", "", "http://1.2.3.4:8000", now)
	require.NoError(t, err)

	for i := 0; i < 200; i++ {
		require.NoError(t, r.RecordSuccess("alice"))
	}
	assert.Equal(t, ReputationMax, r.Get("alice").Reputation)
}

func TestSlashAppliesPenaltyAndCapsAtStake(t *testing.T) {
	r := New()
	now := time.Now()
	_, err := r.Register("alice", big.NewInt(1000), big.NewInt(1000), "1.2.3.4", "", "", "http://1.2.3.4:8000", now)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		require.NoError(t, r.Slash("alice"))
	}
	node := r.Get("alice")
	assert.Equal(t, 0, node.Reputation)
	assert.Equal(t, big.NewInt(1000), node.SlashedAmount)
}

func TestRefundAmountReflectsSlash(t *testing.T) {
	r := New()
	now := time.Now()
	_, err := r.Register("alice", big.NewInt(1000), big.NewInt(1000), "1.2.3.4", "", "", "http://1.2.3.4:8000", now)
	require.NoError(t, err)
	require.NoError(t, r.Slash("alice"))

	refund, err := r.RefundAmount("alice")
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(900), refund)
}

func TestDeactivateFreesIPAndRejectsDouble(t *testing.T) {
	r := New()
	now := time.Now()
	_, err := r.Register("alice", big.NewInt(1000), big.NewInt(1000), "1.2.3.4", "", "", "http://1.2.3.4:8000", now)
	require.NoError(t, err)

	require.NoError(t, r.Deactivate("alice"))
	assert.False(t, r.Get("alice").IsActive)

	_, err = r.Register("bob", big.NewInt(1000), big.NewInt(1000), "1.2.3.4", "", "", "http://1.2.3.4:9000", now)
	assert.NoError(t, err, "freed IP should be reusable")

	err = r.Deactivate("alice")
	require.Error(t, err)
	assert.Equal(t, apierr.Conflict, apierr.KindOf(err))
}

func TestActiveNodesSortedByAccount(t *testing.T) {
	r := New()
	now := time.Now()
	_, err := r.Register("bob", big.NewInt(1000), big.NewInt(1000), "2.2.2.2", "", "", "http://2.2.2.2:8000", now)
	require.NoError(t, err)
	_, err = r.Register("alice", big.NewInt(1000), big.NewInt(1000), "1.1.1.1", "", "", "http://1.1.1.1:8000", now)
	require.NoError(t, err)

	active := r.ActiveNodes(now)
	require.Len(t, active, 2)
	assert.Equal(t, "alice", active[0].Account)
	assert.Equal(t, "bob", active[1].Account)
}
