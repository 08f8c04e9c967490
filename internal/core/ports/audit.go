package ports

import (
	"context"
	"time"

	"github.com/letteratech/identity-service/internal/core/domain"
)

// AuthEventInput is the DTO handed from the transport layer to the audit
// pipeline. Login may be an email, username, or LetteraTech number; it is
// recorded verbatim.
type AuthEventInput struct {
	Login     string
	Action    string
	Method    string // "password", "code_phrase", or empty
	Outcome   string
	Reason    string // short failure description, optional
	Timestamp time.Time
}

// AuditService processes a single auth event off the dispatcher queue.
type AuditService interface {
	Process(ctx context.Context, event AuthEventInput) error
}

// AuditRepository persists auth events to the audit trail.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuthEvent) error
}
