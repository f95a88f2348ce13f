/* errors.go
 * Contains the mapping from api error kinds to HTTP responses
 * Authors: Zachary Bower
 */

package web

import (
	"errors"
	"net/http"

	"smallie/api/api"

	"github.com/gin-gonic/gin"
)

// statusFor returns the HTTP status for an api error
func statusFor(err error) int {
	switch {
	case errors.Is(err, api.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, api.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, api.ErrConfirmationRequired):
		return http.StatusPreconditionRequired
	case errors.Is(err, api.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, api.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, api.ErrRailUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as JSON. Unexpected errors are logged and replaced with a generic message.
func (s *Server) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.FullPath(), "error", err)
		msg = "something went wrong, please try again"
	}
	c.JSON(status, gin.H{"error": msg})
}
