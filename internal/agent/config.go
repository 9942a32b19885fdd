package agent

import (
	"math/big"
	"strconv"
	"time"
)

// Config holds the node agent's tunables.
type Config struct {
	Account  string
	PublicIP string
	APIPort  int

	GPUSpecs string
	CPUSpecs string

	MinStake *big.Int

	HeartbeatInterval   time.Duration
	MaxHeartbeatRetries int

	PollInterval       time.Duration
	MaxConcurrentTasks int

	BackendTimeout time.Duration
}

// DefaultConfig returns sane intervals: 60s heartbeat, 10s polling, and a
// generous heartbeat retry tolerance before the 2x cooldown.
func DefaultConfig() Config {
	return Config{
		HeartbeatInterval:   60 * time.Second,
		MaxHeartbeatRetries: 3,
		PollInterval:        10 * time.Second,
		MaxConcurrentTasks:  4,
		BackendTimeout:      5 * time.Minute,
	}
}

func (c Config) apiEndpoint() string {
	return "http://" + c.PublicIP + ":" + strconv.Itoa(c.APIPort)
}
