// Package config loads the environment-driven configuration for the
// gateway and node agent binaries, following a defaults-struct convention
// layered with environment variable overrides.
package config

import (
	"math/big"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// GatewayConfig holds every environment-sourced setting the gateway binary
// needs.
type GatewayConfig struct {
	Port               int
	DatabaseURL        string
	RedisURL           string
	JWTSecret          string
	CoordinatorURL     string
	MinStake           *big.Int
	MaxConcurrentTasks int
	AdminAccounts      []string

	RateLimitFreePerMinute       int
	RateLimitProPerMinute        int
	RateLimitEnterprisePerMinute int
}

// DefaultGatewayConfig mirrors the rate limiter's default tier configuration.
func DefaultGatewayConfig() GatewayConfig {
	return GatewayConfig{
		Port:                         8080,
		MinStake:                     big.NewInt(1000),
		MaxConcurrentTasks:           4,
		RateLimitFreePerMinute:       30,
		RateLimitProPerMinute:        120,
		RateLimitEnterprisePerMinute: 600,
	}
}

// LoadGateway reads GatewayConfig from the process environment, starting
// from DefaultGatewayConfig and overriding with any set variables.
func LoadGateway() (GatewayConfig, error) {
	cfg := DefaultGatewayConfig()

	if v := os.Getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return cfg, errors.Wrap(err, "invalid PORT")
		}
		cfg.Port = p
	}
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if len(cfg.JWTSecret) < 32 {
		return cfg, errors.New("JWT_SECRET must be at least 32 characters")
	}
	cfg.CoordinatorURL = os.Getenv("COORDINATOR_URL")
	if cfg.CoordinatorURL == "" {
		return cfg, errors.New("COORDINATOR_URL is required")
	}

	if v := os.Getenv("MIN_STAKE"); v != "" {
		n, ok := new(big.Int).SetString(v, 10)
		if !ok {
			return cfg, errors.Errorf("invalid MIN_STAKE %q", v)
		}
		cfg.MinStake = n
	}
	if v := os.Getenv("MAX_CONCURRENT_TASKS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, errors.Wrap(err, "invalid MAX_CONCURRENT_TASKS")
		}
		cfg.MaxConcurrentTasks = n
	}
	if v := os.Getenv("ADMIN_ACCOUNTS"); v != "" {
		for _, a := range strings.Split(v, ",") {
			if a = strings.TrimSpace(a); a != "" {
				cfg.AdminAccounts = append(cfg.AdminAccounts, a)
			}
		}
	}
	if v := os.Getenv("RATE_LIMIT_FREE_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, errors.Wrap(err, "invalid RATE_LIMIT_FREE_PER_MINUTE")
		}
		cfg.RateLimitFreePerMinute = n
	}
	if v := os.Getenv("RATE_LIMIT_PRO_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, errors.Wrap(err, "invalid RATE_LIMIT_PRO_PER_MINUTE")
		}
		cfg.RateLimitProPerMinute = n
	}
	if v := os.Getenv("RATE_LIMIT_ENTERPRISE_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, errors.Wrap(err, "invalid RATE_LIMIT_ENTERPRISE_PER_MINUTE")
		}
		cfg.RateLimitEnterprisePerMinute = n
	}
	return cfg, nil
}

// NodeAgentConfig holds the node agent's environment-sourced settings.
type NodeAgentConfig struct {
	AccountID      string
	PrivateKey     string
	PublicIP       string
	APIPort        int
	StakeAmount    *big.Int
	PythonPath     string
	ModelsCacheDir string
	CoordinatorURL string
	GPUSpecs       string
	CPUSpecs       string

	HeartbeatInterval  time.Duration
	PollInterval       time.Duration
	MaxConcurrentTasks int
	BackendTimeout     time.Duration
}

// LoadNodeAgent reads NodeAgentConfig from the process environment.
func LoadNodeAgent() (NodeAgentConfig, error) {
	cfg := NodeAgentConfig{
		HeartbeatInterval:  60 * time.Second,
		PollInterval:       10 * time.Second,
		MaxConcurrentTasks: 4,
		BackendTimeout:     5 * time.Minute,
	}

	cfg.AccountID = os.Getenv("account_id")
	if cfg.AccountID == "" {
		return cfg, errors.New("account_id is required")
	}
	cfg.PrivateKey = os.Getenv("private_key")
	cfg.PublicIP = os.Getenv("public_ip")
	if cfg.PublicIP == "" {
		return cfg, errors.New("public_ip is required")
	}

	apiPort := os.Getenv("api_port")
	if apiPort == "" {
		return cfg, errors.New("api_port is required")
	}
	p, err := strconv.Atoi(apiPort)
	if err != nil {
		return cfg, errors.Wrap(err, "invalid api_port")
	}
	cfg.APIPort = p

	stake := os.Getenv("stake_amount")
	if stake == "" {
		return cfg, errors.New("stake_amount is required")
	}
	n, ok := new(big.Int).SetString(stake, 10)
	if !ok {
		return cfg, errors.Errorf("invalid stake_amount %q", stake)
	}
	cfg.StakeAmount = n

	cfg.PythonPath = os.Getenv("python_path")
	cfg.ModelsCacheDir = os.Getenv("models_cache_dir")
	cfg.CoordinatorURL = os.Getenv("COORDINATOR_URL")
	if cfg.CoordinatorURL == "" {
		return cfg, errors.New("COORDINATOR_URL is required")
	}
	cfg.GPUSpecs = os.Getenv("gpu_specs")
	cfg.CPUSpecs = os.Getenv("cpu_specs")

	if v := os.Getenv("max_concurrent_tasks"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, errors.Wrap(err, "invalid max_concurrent_tasks")
		}
		cfg.MaxConcurrentTasks = n
	}
	if v := os.Getenv("backend_timeout_seconds"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, errors.Wrap(err, "invalid backend_timeout_seconds")
		}
		cfg.BackendTimeout = time.Duration(n) * time.Second
	}
	return cfg, nil
}
