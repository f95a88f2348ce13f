/* admin_handlers.go
 * Contains the admin route handlers: applications, contestant edits, tasks, payouts, receipts and stats
 * Authors: Zachary Bower
 */

package web

import (
	"net/http"
	"strconv"

	"smallie/api/api"
	"smallie/api/store"

	"github.com/gin-gonic/gin"
)

// confirmed reads the confirm flag from a JSON body or the confirm query parameter
func confirmed(c *gin.Context) bool {
	if ok, err := strconv.ParseBool(c.Query("confirm")); err == nil && ok {
		return true
	}
	var req confirmRequest
	if c.Request.ContentLength != 0 && c.ShouldBindJSON(&req) == nil {
		return req.Confirm
	}
	return false
}

func (s *Server) listApplications(c *gin.Context) {
	apps, err := s.api.ListApplications(c.Request.Context(), c.Query("status"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

func (s *Server) getApplication(c *gin.Context) {
	app, err := s.api.GetApplication(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (s *Server) approveApplication(c *gin.Context) {
	contestant, err := s.api.ApproveApplication(c.Request.Context(), c.Param("id"), confirmed(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contestant)
}

func (s *Server) rejectApplication(c *gin.Context) {
	if err := s.api.RejectApplication(c.Request.Context(), c.Param("id"), confirmed(c)); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) updateContestant(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	var patch store.ContestantUpdate
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid contestant update")
		return
	}
	contestant, err := s.api.UpdateContestant(c.Request.Context(), id, patch)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contestant)
}

func (s *Server) toggleElimination(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	contestant, err := s.api.ToggleElimination(c.Request.Context(), id, confirmed(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contestant)
}

func (s *Server) setContestantVotes(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	var req setVotesRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Votes == nil {
		badRequest(c, "votes is required")
		return
	}
	contestant, err := s.api.SetContestantVotes(c.Request.Context(), id, *req.Votes)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contestant)
}

func (s *Server) listTasks(c *gin.Context) {
	tasks, err := s.api.ListTasks(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (s *Server) createTask(c *gin.Context) {
	s.saveTask(c, "", http.StatusCreated)
}

func (s *Server) updateTask(c *gin.Context) {
	s.saveTask(c, c.Param("id"), http.StatusOK)
}

func (s *Server) saveTask(c *gin.Context, id string, status int) {
	var input api.TaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "invalid task")
		return
	}
	task, err := s.api.SaveTask(c.Request.Context(), id, input)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(status, task)
}

func (s *Server) deleteTask(c *gin.Context) {
	if err := s.api.DeleteTask(c.Request.Context(), c.Param("id"), confirmed(c)); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) previewPayout(c *gin.Context) {
	preview, err := s.api.PreviewPayout(c.Request.Context(), c.Param("scope"), s.now())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

func (s *Server) openPayoutRequest(c *gin.Context) {
	req, err := s.api.OpenPayoutRequest(c.Request.Context(), c.Param("scope"), s.now())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

func (s *Server) listPayoutRequests(c *gin.Context) {
	requests, err := s.api.ListPayoutRequests(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

func (s *Server) triggerFiatPayout(c *gin.Context) {
	payout, err := s.api.TriggerFiatPayout(c.Request.Context(), c.Param("scope"), s.now())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payout)
}

// triggerCryptoPayout blocks until the transfer settles. If the admin disconnects first the payment is cancelled.
func (s *Server) triggerCryptoPayout(c *gin.Context) {
	payment, err := s.api.TriggerCryptoPayout(c.Request.Context(), c.Param("scope"), s.now(), confirmed(c))
	if err != nil {
		if payment.Status != "" {
			c.JSON(statusFor(err), gin.H{"error": err.Error(), "payment": payment})
			return
		}
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (s *Server) listReceipts(c *gin.Context) {
	receipts, err := s.api.ListReceipts(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, receipts)
}

// stats serves the dashboard figures. Read live, not from the refresher snapshot.
func (s *Server) stats(c *gin.Context) {
	stats, err := s.api.Stats(c.Request.Context(), s.now())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
