/* router.go
 * Contains the gin router with the public, admin and payment routes
 * Authors: Zachary Bower
 */

package web

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Defaults applied by NewServer
const (
	DefaultSessionTTL = 12 * time.Hour
	DefaultVoteRate   = rate.Limit(20)
	DefaultVoteBurst  = 40
)

// NewServer creates a Server from cfg, filling in defaults for unset fields
func NewServer(cfg Config) *Server {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if cfg.VoteRate <= 0 {
		cfg.VoteRate = DefaultVoteRate
	}
	if cfg.VoteBurst <= 0 {
		cfg.VoteBurst = DefaultVoteBurst
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		api:         cfg.API,
		refresher:   cfg.Refresher,
		cfg:         cfg,
		voteLimiter: rate.NewLimiter(cfg.VoteRate, cfg.VoteBurst),
		logger:      logger,
		now:         time.Now,
	}
}

// Router builds the gin engine with every route bound to s
func (s *Server) Router() *gin.Engine {
	if !s.cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.cfg.Gatherer, promhttp.HandlerOpts{})))
	r.POST("/webhooks/flutterwave", s.flutterwaveWebhook)

	pub := r.Group("/api")
	{
		pub.GET("/contestants", s.listContestants)
		pub.GET("/contestants/:id", s.getContestant)
		pub.GET("/leaderboard", s.leaderboard)
		pub.GET("/top", s.topContestants)
		pub.GET("/quote", s.quote)
		pub.POST("/votes", s.limitVotes(), s.submitVote)
		pub.POST("/applications", s.submitApplication)
		pub.GET("/countdown", s.countdown)
		pub.GET("/tasks/current", s.currentTask)
		pub.GET("/prize-fund", s.prizeFund)
		pub.GET("/payments/callback", s.paymentCallback)
		pub.POST("/payments/cancel", s.paymentClosed)
	}

	r.POST("/api/admin/login", s.login)
	r.POST("/api/admin/logout", s.logout)

	admin := r.Group("/api/admin", s.requireAdmin())
	{
		admin.GET("/applications", s.listApplications)
		admin.GET("/applications/:id", s.getApplication)
		admin.POST("/applications/:id/approve", s.approveApplication)
		admin.POST("/applications/:id/reject", s.rejectApplication)

		admin.PUT("/contestants/:id", s.updateContestant)
		admin.POST("/contestants/:id/elimination", s.toggleElimination)
		admin.PUT("/contestants/:id/votes", s.setContestantVotes)

		admin.GET("/tasks", s.listTasks)
		admin.POST("/tasks", s.createTask)
		admin.PUT("/tasks/:id", s.updateTask)
		admin.DELETE("/tasks/:id", s.deleteTask)

		admin.GET("/payouts/:scope", s.previewPayout)
		admin.POST("/payouts/:scope/requests", s.openPayoutRequest)
		admin.POST("/payouts/:scope/fiat", s.triggerFiatPayout)
		admin.POST("/payouts/:scope/crypto", s.triggerCryptoPayout)
		admin.GET("/payout-requests", s.listPayoutRequests)
		admin.GET("/receipts", s.listReceipts)
		admin.GET("/stats", s.stats)
	}
	return r
}

// requestLogger logs one line per request
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// limitVotes sheds vote submissions beyond the configured rate
func (s *Server) limitVotes() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.voteLimiter.Allow() {
			c.AbortWithStatusJSON(429, gin.H{"error": "too many vote requests, please try again shortly"})
			return
		}
		c.Next()
	}
}
