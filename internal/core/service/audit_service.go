package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/letteratech/identity-service/internal/core/domain"
	"github.com/letteratech/identity-service/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService that persists auth events to the
// audit trail.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Process persists a single auth event. Events with no action are dropped
// as malformed; nothing here retries — the dispatcher logs failures.
func (s *auditService) Process(ctx context.Context, in ports.AuthEventInput) error {
	if in.Action == "" {
		return fmt.Errorf("process auth event: missing action")
	}

	ts := in.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	event := &domain.AuthEvent{
		ID:        uuid.NewString(),
		Login:     in.Login,
		Action:    in.Action,
		Method:    in.Method,
		Outcome:   in.Outcome,
		Reason:    in.Reason,
		Timestamp: ts,
	}
	if err := s.repo.InsertEvent(ctx, event); err != nil {
		return fmt.Errorf("process auth event: %w", err)
	}

	s.log.Debug().
		Str("login", in.Login).
		Str("action", in.Action).
		Str("outcome", in.Outcome).
		Msg("auth event recorded")

	return nil
}
