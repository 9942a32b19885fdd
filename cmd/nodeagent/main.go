// Package main runs the node agent: registers a compute node with the
// coordinator, then runs its heartbeat and poll/execute loops until
// terminated.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"
	"go.uber.org/zap"

	"github.com/klaytn-labs/deai-compute/internal/agent"
	"github.com/klaytn-labs/deai-compute/internal/agent/aibackend"
	"github.com/klaytn-labs/deai-compute/internal/config"
	"github.com/klaytn-labs/deai-compute/internal/coordinator/rpc"
)

var app = cli.NewApp()

func init() {
	app.Name = "nodeagent"
	app.Usage = "registers a compute node and runs its heartbeat/poll loops"
	app.Action = run
}

func run(*cli.Context) error {
	l, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer l.Sync()
	zap.ReplaceGlobals(l)
	logger := l.Sugar().Named("nodeagent")

	envCfg, err := config.LoadNodeAgent()
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	if envCfg.ModelsCacheDir != "" {
		os.Setenv("MODELS_CACHE_DIR", envCfg.ModelsCacheDir)
	}

	dialCtx, cancel := context.WithTimeout(context.Background(), rpc.DefaultDialTimeout)
	defer cancel()
	client, err := rpc.Dial(dialCtx, envCfg.CoordinatorURL)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("dial coordinator: %v", err), 1)
	}
	defer client.Close()

	backend := aibackend.New(envCfg.PythonPath, nil, envCfg.BackendTimeout)

	cfg := agent.DefaultConfig()
	cfg.Account = envCfg.AccountID
	cfg.PublicIP = envCfg.PublicIP
	cfg.APIPort = envCfg.APIPort
	cfg.GPUSpecs = envCfg.GPUSpecs
	cfg.CPUSpecs = envCfg.CPUSpecs
	cfg.MinStake = envCfg.StakeAmount
	cfg.HeartbeatInterval = envCfg.HeartbeatInterval
	cfg.PollInterval = envCfg.PollInterval
	cfg.MaxConcurrentTasks = envCfg.MaxConcurrentTasks
	cfg.BackendTimeout = envCfg.BackendTimeout

	a := agent.New(cfg, client, backend)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.Register(ctx); err != nil {
		return cli.NewExitError(fmt.Sprintf("register_node: %v", err), 1)
	}
	a.Start(ctx)

	logger.Infow("running", "account", cfg.Account)
	<-ctx.Done()
	logger.Info("shutting down, draining in-flight tasks")
	a.Stop()
	return nil
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
