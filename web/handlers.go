/* handlers.go
 * Contains the public route handlers: contestants, standings, voting, signup, tasks and the payment provider callbacks
 * Authors: Zachary Bower
 */

package web

import (
	"net/http"
	"strconv"
	"strings"

	"smallie/api/api"
	"smallie/api/external"

	"github.com/gin-gonic/gin"
)

// badRequest writes a 400 with msg
func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// intParam parses a path parameter as an integer
func intParam(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return n, true
}

func (s *Server) listContestants(c *gin.Context) {
	contestants, err := s.api.ListContestants(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contestants)
}

func (s *Server) getContestant(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	contestant, err := s.api.GetContestant(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contestant)
}

// leaderboard serves the refresher snapshot when one has been taken
func (s *Server) leaderboard(c *gin.Context) {
	if s.refresher != nil {
		if snap, ok := s.refresher.Snapshot(); ok {
			c.JSON(http.StatusOK, snap.Leaderboard)
			return
		}
	}
	board, err := s.api.Leaderboard(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// topContestants serves the top active contestants. ?n= overrides the default of five and bypasses the snapshot.
func (s *Server) topContestants(c *gin.Context) {
	n := 0
	if raw := c.Query("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			badRequest(c, "n must be a positive number")
			return
		}
		n = parsed
	}
	if n == 0 && s.refresher != nil {
		if snap, ok := s.refresher.Snapshot(); ok {
			c.JSON(http.StatusOK, snap.Top)
			return
		}
	}
	top, err := s.api.TopContestants(c.Request.Context(), n)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, top)
}

func (s *Server) quote(c *gin.Context) {
	count, err := strconv.Atoi(c.Query("count"))
	if err != nil {
		badRequest(c, "count must be a number")
		return
	}
	q, err := s.api.Quote(count)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (s *Server) submitVote(c *gin.Context) {
	var req api.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid vote request")
		return
	}
	result, err := s.api.SubmitVote(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	status := http.StatusAccepted
	if result.Recorded {
		status = http.StatusCreated
	}
	c.JSON(status, result)
}

func (s *Server) submitApplication(c *gin.Context) {
	var req api.ApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid application")
		return
	}
	id, err := s.api.SubmitApplication(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "status": "pending"})
}

func (s *Server) countdown(c *gin.Context) {
	c.JSON(http.StatusOK, s.api.Countdown(s.now()))
}

func (s *Server) currentTask(c *gin.Context) {
	task, err := s.api.CurrentTask(c.Request.Context(), s.now())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) prizeFund(c *gin.Context) {
	if s.refresher != nil {
		if snap, ok := s.refresher.Snapshot(); ok {
			c.JSON(http.StatusOK, snap.PrizeFund)
			return
		}
	}
	fund, err := s.api.PrizeFund(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fund)
}

// paymentCallback handles the Flutterwave redirect after checkout
func (s *Server) paymentCallback(c *gin.Context) {
	txRef := c.Query("tx_ref")
	if txRef == "" {
		badRequest(c, "tx_ref is required")
		return
	}
	ctx := c.Request.Context()

	switch strings.ToLower(c.Query("status")) {
	case "successful", "completed":
		payment, err := s.api.CompletePayment(ctx, txRef, c.Query("transaction_id"))
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, payment)
	case "cancelled":
		payment, err := s.api.CancelPayment(ctx, txRef)
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, payment)
	default:
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "payment was not completed", "txRef": txRef})
	}
}

// paymentClosed handles the checkout being closed without paying
func (s *Server) paymentClosed(c *gin.Context) {
	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.TxRef == "" {
		badRequest(c, "txRef is required")
		return
	}
	payment, err := s.api.CancelPayment(c.Request.Context(), req.TxRef)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

// flutterwaveWebhook receives charge events signed with the verif-hash header
func (s *Server) flutterwaveWebhook(c *gin.Context) {
	var event external.WebhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		s.logger.Warn("failed to decode webhook", "error", err)
		badRequest(c, "invalid event")
		return
	}
	if err := s.api.HandleFiatWebhook(c.Request.Context(), c.GetHeader("verif-hash"), event); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
