/* models.go
 * Contains the web server configuration and the request bodies accepted by the HTTP routes
 * Authors: Zachary Bower
 */

package web

import (
	"log/slog"
	"time"

	"smallie/api/api"
	"smallie/api/refresh"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

// Config holds the configuration for the web server
type Config struct {
	Addr      string
	API       *api.API
	Refresher *refresh.Refresher // optional, public reads fall back to the api when nil or cold
	Gatherer  prometheus.Gatherer

	// Admin session. Admin login is disabled when either is empty.
	AdminPasswordHash string
	JWTSecret         string
	SessionTTL        time.Duration
	SecureCookies     bool

	// Vote submissions per second across all clients
	VoteRate  rate.Limit
	VoteBurst int

	Logger *slog.Logger
	Debug  bool
}

// Server is the HTTP server that handles public, admin and payment provider requests
type Server struct {
	api         *api.API
	refresher   *refresh.Refresher
	cfg         Config
	voteLimiter *rate.Limiter
	logger      *slog.Logger
	now         func() time.Time
}

type loginRequest struct {
	Password string `json:"password"`
}

type confirmRequest struct {
	Confirm bool `json:"confirm"`
}

type setVotesRequest struct {
	Votes *int `json:"votes"`
}

type cancelRequest struct {
	TxRef string `json:"txRef"`
}
