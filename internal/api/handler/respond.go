package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/letteratech/identity-service/internal/core/ports"
)

// AuditDispatcher is the interface handlers use to enqueue auth events.
type AuditDispatcher interface {
	Enqueue(event ports.AuthEventInput)
}

// Service errors are returned as-is: the registered HTTPErrorHandler owns
// the sentinel-to-status mapping and renders the error envelope.

// badRequest renders a local validation failure; no service call was made.
func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Message: msg})
}

// audit enqueues an auth event, defaulting the timestamp.
func audit(d AuditDispatcher, login, action, method, outcome, reason string) {
	if d == nil {
		return
	}
	d.Enqueue(ports.AuthEventInput{
		Login:     login,
		Action:    action,
		Method:    method,
		Outcome:   outcome,
		Reason:    reason,
		Timestamp: time.Now().UTC(),
	})
}
