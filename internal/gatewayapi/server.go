package gatewayapi

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/klaytn-labs/deai-compute/internal/coordinator/rpc"
	"github.com/klaytn-labs/deai-compute/internal/gatewayauth"
	"github.com/klaytn-labs/deai-compute/internal/gatewaystore"
	"github.com/klaytn-labs/deai-compute/internal/ratelimit"
)

// logger resolves the sugared logger at call time rather than caching it at
// package-init, since zap.ReplaceGlobals runs later in each binary's run()
// and a var captured at init would be permanently bound to the no-op default.
func logger() *zap.SugaredLogger {
	return zap.L().Sugar().Named("gatewayapi")
}

var (
	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_http_requests_total",
		Help: "Total gateway HTTP requests by route and status class.",
	}, []string{"route", "status_class"})

	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gateway_http_request_duration_seconds",
		Help:    "Gateway HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
)

func init() {
	prometheus.MustRegister(requestsTotal, requestDuration)
}

// AdminAccounts is the set of accounts allowed to call /api/v1/admin/*.
type AdminAccounts map[string]bool

// NewAdminAccounts builds an AdminAccounts set from a list of account IDs.
func NewAdminAccounts(accounts []string) AdminAccounts {
	m := make(AdminAccounts, len(accounts))
	for _, a := range accounts {
		m[a] = true
	}
	return m
}

// Server holds every dependency the gateway's HTTP handlers need.
type Server struct {
	repo    gatewaystore.Repository
	auth    *gatewayauth.Authenticator
	limiter ratelimit.Limiter
	coord   *rpc.Client
	admins  AdminAccounts

	bodyLimit int64
}

// NewServer wires a Server from its dependencies.
func NewServer(repo gatewaystore.Repository, auth *gatewayauth.Authenticator, limiter ratelimit.Limiter, coord *rpc.Client, admins AdminAccounts) *Server {
	return &Server{
		repo:      repo,
		auth:      auth,
		limiter:   limiter,
		coord:     coord,
		admins:    admins,
		bodyLimit: 10 * 1024 * 1024,
	}
}

// Router builds the full httprouter.Router with CORS applied.
func (s *Server) Router() http.Handler {
	r := httprouter.New()

	r.GET("/health", s.withMetrics("health", s.handleHealth))
	r.Handler(http.MethodGet, "/metrics", PrometheusHandler())

	r.POST("/api/v1/auth/register", s.withMetrics("auth.register", s.rateLimited(s.handleRegister)))
	r.POST("/api/v1/auth/login", s.withMetrics("auth.login", s.rateLimited(s.handleLogin)))
	r.POST("/api/v1/auth/near-login", s.withMetrics("auth.near_login", s.rateLimited(s.handleNearLogin)))

	r.POST("/api/v1/tasks", s.withMetrics("tasks.submit", s.authenticated(s.rateLimited(s.handleSubmitTask))))
	r.GET("/api/v1/tasks", s.withMetrics("tasks.list", s.authenticated(s.rateLimited(s.handleListTasks))))
	r.GET("/api/v1/tasks/:id", s.withMetrics("tasks.get", s.authenticated(s.rateLimited(s.handleGetTask))))
	r.GET("/api/v1/tasks/:id/result", s.withMetrics("tasks.result", s.authenticated(s.rateLimited(s.handleGetTaskResult))))
	r.POST("/api/v1/tasks/:id/cancel", s.withMetrics("tasks.cancel", s.authenticated(s.rateLimited(s.handleCancelTask))))

	r.GET("/api/v1/nodes", s.withMetrics("nodes.list", s.rateLimited(s.handleListNodes)))
	r.GET("/api/v1/nodes/:id", s.withMetrics("nodes.get", s.rateLimited(s.handleGetNode)))
	r.GET("/api/v1/network/stats", s.withMetrics("network.stats", s.rateLimited(s.handleNetworkStats)))

	r.GET("/api/v1/user/api-keys", s.withMetrics("user.api_keys.list", s.authenticated(s.handleListAPIKeys)))
	r.POST("/api/v1/user/api-keys", s.withMetrics("user.api_keys.create", s.authenticated(s.handleCreateAPIKey)))
	r.POST("/api/v1/user/api-keys/:id/revoke", s.withMetrics("user.api_keys.revoke", s.authenticated(s.handleRevokeAPIKey)))
	r.GET("/api/v1/user/usage", s.withMetrics("user.usage", s.authenticated(s.handleUserUsage)))

	r.POST("/api/v1/admin/pause", s.withMetrics("admin.pause", s.authenticated(s.adminOnly(s.handleAdminPause))))
	r.POST("/api/v1/admin/unpause", s.withMetrics("admin.unpause", s.authenticated(s.adminOnly(s.handleAdminUnpause))))
	r.POST("/api/v1/admin/min-stake", s.withMetrics("admin.min_stake", s.authenticated(s.adminOnly(s.handleAdminUpdateMinStake))))

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(r)
	return http.TimeoutHandler(handler, 30*time.Second, `{"error":"TIMEOUT","message":"request timed out"}`)
}

func (s *Server) withMetrics(route string, h httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		r.Body = http.MaxBytesReader(w, r.Body, s.bodyLimit)
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		h(sw, r, ps)
		requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		requestsTotal.WithLabelValues(route, statusClass(sw.status)).Inc()
	}
}

func statusClass(status int) string {
	switch {
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// PrometheusHandler exposes the registered metrics for the /metrics scrape
// endpoint that Router mounts.
func PrometheusHandler() http.Handler {
	return promhttp.Handler()
}
