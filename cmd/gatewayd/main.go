// Package main runs the gateway daemon: the authenticated, rate-limited
// HTTP surface in front of the coordinator.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli"
	"go.uber.org/zap"

	"github.com/klaytn-labs/deai-compute/internal/config"
	"github.com/klaytn-labs/deai-compute/internal/coordinator/rpc"
	"github.com/klaytn-labs/deai-compute/internal/gatewayapi"
	"github.com/klaytn-labs/deai-compute/internal/gatewayauth"
	"github.com/klaytn-labs/deai-compute/internal/gatewaystore"
	"github.com/klaytn-labs/deai-compute/internal/ratelimit"
)

var app = cli.NewApp()

func init() {
	app.Name = "gatewayd"
	app.Usage = "runs the gateway HTTP API in front of the coordinator"
	app.Action = run
}

func run(*cli.Context) error {
	l, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer l.Sync()
	zap.ReplaceGlobals(l)
	logger := l.Sugar().Named("gatewayd")

	cfg, err := config.LoadGateway()
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	repo, err := gatewaystore.NewMySQLRepository(cfg.DatabaseURL)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("open gateway database: %v", err), 1)
	}
	defer repo.Close()

	auth, err := gatewayauth.New(cfg.JWTSecret)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("build authenticator: %v", err), 1)
	}

	limiter := buildLimiter(cfg, logger)
	if closer, ok := limiter.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	dialCtx, cancel := context.WithTimeout(context.Background(), rpc.DefaultDialTimeout)
	defer cancel()
	coord, err := rpc.Dial(dialCtx, cfg.CoordinatorURL)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("dial coordinator: %v", err), 1)
	}
	defer coord.Close()

	admins := gatewayapi.NewAdminAccounts(cfg.AdminAccounts)
	srv := gatewayapi.NewServer(repo, auth, limiter, coord, admins)

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: srv.Router(),
	}

	go func() {
		logger.Infow("listening", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorw("http server stopped", "err", err)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// buildLimiter wires the gateway's tier limits over Redis, falling back to
// the in-process limiter whenever Redis is unreachable or unconfigured.
func buildLimiter(cfg config.GatewayConfig, logger *zap.SugaredLogger) ratelimit.Limiter {
	limits := map[ratelimit.Tier]ratelimit.TierLimits{}
	for tier, lim := range ratelimit.DefaultTierLimits {
		limits[tier] = lim
	}
	if cfg.RateLimitFreePerMinute > 0 {
		lim := limits[ratelimit.TierFree]
		lim.PerMinute = cfg.RateLimitFreePerMinute
		limits[ratelimit.TierFree] = lim
	}
	if cfg.RateLimitProPerMinute > 0 {
		lim := limits[ratelimit.TierPro]
		lim.PerMinute = cfg.RateLimitProPerMinute
		limits[ratelimit.TierPro] = lim
	}
	if cfg.RateLimitEnterprisePerMinute > 0 {
		lim := limits[ratelimit.TierEnterprise]
		lim.PerMinute = cfg.RateLimitEnterprisePerMinute
		limits[ratelimit.TierEnterprise] = lim
	}

	fallback := ratelimit.NewFallbackLimiter(limits)
	if cfg.RedisURL == "" {
		logger.Warn("REDIS_URL not set, using in-process rate limiter only")
		return fallback
	}
	redisLimiter, err := ratelimit.NewRedisLimiter(cfg.RedisURL, limits)
	if err != nil {
		logger.Warnw("redis unreachable at startup, using in-process rate limiter", "err", err)
		return fallback
	}
	return ratelimit.NewFailoverLimiter(redisLimiter, fallback)
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
