package agent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfigIntervals(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 60*time.Second, cfg.HeartbeatInterval)
	assert.Equal(t, 10*time.Second, cfg.PollInterval)
	assert.Equal(t, 4, cfg.MaxConcurrentTasks)
	assert.Equal(t, 3, cfg.MaxHeartbeatRetries)
}

func TestAPIEndpointFormatting(t *testing.T) {
	cfg := Config{PublicIP: "10.0.0.5", APIPort: 9000}
	assert.Equal(t, "http://10.0.0.5:9000", cfg.apiEndpoint())
}
