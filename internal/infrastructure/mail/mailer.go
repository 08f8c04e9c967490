// Package mail provides the Mailer implementation used in development and
// testing: codes are written to the structured log instead of being sent.
// A real SMTP or provider-backed Mailer satisfies the same port.
package mail

import (
	"context"

	"github.com/rs/zerolog"
)

// LogMailer logs codes instead of delivering them.
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendCode(ctx context.Context, email, purpose, code string) error {
	m.log.Info().
		Str("email", email).
		Str("purpose", purpose).
		Str("code", code).
		Msg("code dispatched")
	return nil
}
