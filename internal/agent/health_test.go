package agent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeHealthAllGood(t *testing.T) {
	status := computeHealth(healthInputs{
		registered:   true,
		isActive:     true,
		heartbeatAge: time.Second,
		lastLatency:  time.Millisecond,
		reputation:   100,
	})
	assert.True(t, status.Healthy)
	assert.Empty(t, status.Issues)
}

func TestComputeHealthNotRegisteredShortCircuitsOtherChecks(t *testing.T) {
	status := computeHealth(healthInputs{registered: false})
	assert.False(t, status.Healthy)
	assert.Equal(t, []HealthIssue{IssueNotRegistered}, status.Issues)
}

func TestComputeHealthFlagsInactive(t *testing.T) {
	status := computeHealth(healthInputs{registered: true, isActive: false, reputation: 100})
	assert.Contains(t, status.Issues, IssueInactive)
}

func TestComputeHealthFlagsStaleHeartbeat(t *testing.T) {
	status := computeHealth(healthInputs{registered: true, isActive: true, heartbeatAge: staleHeartbeatWindow, reputation: 100})
	assert.Contains(t, status.Issues, IssueStaleHeartbeat)
}

func TestComputeHealthFlagsHighLatency(t *testing.T) {
	status := computeHealth(healthInputs{registered: true, isActive: true, lastLatency: highLatencyThreshold, reputation: 100})
	assert.Contains(t, status.Issues, IssueHighLatency)
}

func TestComputeHealthFlagsLowReputation(t *testing.T) {
	status := computeHealth(healthInputs{registered: true, isActive: true, reputation: lowReputationFloor - 1})
	assert.Contains(t, status.Issues, IssueLowReputation)
}

func TestComputeHealthAccumulatesMultipleIssues(t *testing.T) {
	status := computeHealth(healthInputs{registered: true, isActive: false, heartbeatAge: staleHeartbeatWindow, reputation: 0})
	assert.False(t, status.Healthy)
	assert.Len(t, status.Issues, 3)
}
