package agent

import "time"

// HealthIssue enumerates the reasons a node agent can be unhealthy.
type HealthIssue string

const (
	IssueNotRegistered  HealthIssue = "NotRegistered"
	IssueInactive       HealthIssue = "Inactive"
	IssueStaleHeartbeat HealthIssue = "StaleHeartbeat"
	IssueHighLatency    HealthIssue = "HighLatency"
	IssueLowReputation  HealthIssue = "LowReputation"
)

const (
	staleHeartbeatWindow = 5 * time.Minute
	highLatencyThreshold = 10 * time.Second
	lowReputationFloor   = 50
)

// HealthStatus is the node agent's self-reported health view.
type HealthStatus struct {
	Healthy bool          `json:"healthy"`
	Issues  []HealthIssue `json:"issues"`
}

// healthInputs are the facts HealthStatus is derived from, gathered from the
// coordinator's own node record plus the agent's locally observed latency.
type healthInputs struct {
	registered   bool
	isActive     bool
	heartbeatAge time.Duration
	lastLatency  time.Duration
	reputation   int
}

func computeHealth(in healthInputs) HealthStatus {
	var issues []HealthIssue
	if !in.registered {
		issues = append(issues, IssueNotRegistered)
	}
	if in.registered && !in.isActive {
		issues = append(issues, IssueInactive)
	}
	if in.registered && in.heartbeatAge >= staleHeartbeatWindow {
		issues = append(issues, IssueStaleHeartbeat)
	}
	if in.lastLatency >= highLatencyThreshold {
		issues = append(issues, IssueHighLatency)
	}
	if in.registered && in.reputation < lowReputationFloor {
		issues = append(issues, IssueLowReputation)
	}
	return HealthStatus{
		Healthy: len(issues) == 0,
		Issues:  issues,
	}
}
