// Package response writes JSON bodies and maps service errors to HTTP statuses.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kloda-app/kloda/backend/internal/domain"
	"github.com/kloda-app/kloda/backend/internal/logging"
)

// Message is the body of every error response and of plain confirmations.
type Message struct {
	Message string `json:"message"`
}

// Status returns the HTTP status for an error kind.
func Status(e *domain.Error) int {
	switch e.Kind {
	case domain.KindDuplicateUsername, domain.KindDuplicateEmail, domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindInvalidCredentials:
		return http.StatusForbidden
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindUpstream:
		if e.Status >= 400 && e.Status <= 599 {
			return e.Status
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error aborts the request with the status and client message of err.
// Internal causes are logged, never returned.
func Error(c *gin.Context, err error) {
	e := domain.AsError(err)
	status := Status(e)

	event := logging.Debug()
	if status >= http.StatusInternalServerError {
		event = logging.Error()
	}
	event.Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Int("status", status).
		Msg(e.Message)

	c.AbortWithStatusJSON(status, Message{Message: e.Message})
}

// BadRequest aborts with 400 and the given message.
func BadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Message{Message: message})
}
