// Package main runs the coordinator daemon: the single-writer aggregate
// over the ledger, node registry and task queue, exposed over gRPC.
package main

import (
	"fmt"
	"math/big"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/klaytn-labs/deai-compute/internal/coordinator"
	"github.com/klaytn-labs/deai-compute/internal/coordinator/rpc"
)

var (
	ownerFlag = cli.StringFlag{
		Name:   "owner",
		Usage:  "account ID of the coordinator's admin/owner",
		EnvVar: "OWNER_ACCOUNT",
	}
	minStakeFlag = cli.StringFlag{
		Name:   "min-stake",
		Usage:  "minimum stake required to register a node",
		Value:  "1000",
		EnvVar: "MIN_STAKE",
	}
	maxTasksFlag = cli.IntFlag{
		Name:   "max-tasks-per-node",
		Usage:  "maximum number of tasks a single node may run concurrently",
		Value:  4,
		EnvVar: "MAX_TASKS_PER_NODE",
	}
	taskTimeoutFlag = cli.DurationFlag{
		Name:   "task-timeout",
		Usage:  "duration after which an assigned task is eligible for timeout_task",
		Value:  1 * time.Hour,
		EnvVar: "TASK_TIMEOUT",
	}
	listenFlag = cli.StringFlag{
		Name:   "listen",
		Usage:  "address the gRPC server listens on",
		Value:  ":7070",
		EnvVar: "LISTEN_ADDR",
	}
)

var app = cli.NewApp()

func init() {
	app.Name = "coordinatord"
	app.Usage = "runs the decentralized compute marketplace coordinator"
	app.Flags = []cli.Flag{ownerFlag, minStakeFlag, maxTasksFlag, taskTimeoutFlag, listenFlag}
	app.Action = run
}

func run(ctx *cli.Context) error {
	l, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer l.Sync()
	zap.ReplaceGlobals(l)
	logger := l.Sugar().Named("coordinatord")

	owner := ctx.String("owner")
	if owner == "" {
		return cli.NewExitError("owner is required", 1)
	}
	minStake, ok := new(big.Int).SetString(ctx.String("min-stake"), 10)
	if !ok {
		return cli.NewExitError(fmt.Sprintf("invalid min-stake %q", ctx.String("min-stake")), 1)
	}

	cfg := coordinator.DefaultConfig(owner, minStake)
	cfg.MaxTasksPerNode = ctx.Int("max-tasks-per-node")
	cfg.TaskTimeout = ctx.Duration("task-timeout")

	c := coordinator.New(cfg)

	lis, err := net.Listen("tcp", ctx.String("listen"))
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	g := grpc.NewServer()
	rpc.NewServer(c).Register(g)

	go func() {
		logger.Infow("listening", "addr", ctx.String("listen"))
		if err := g.Serve(lis); err != nil {
			logger.Errorw("grpc server stopped", "err", err)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info("shutting down")
	g.GracefulStop()
	return nil
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
