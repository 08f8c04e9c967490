package domain

import "time"

// Audit actions recorded for every authentication-relevant operation.
const (
	ActionIssue           = "issue"
	ActionRegister        = "register"
	ActionVerifyEmail     = "verify_email"
	ActionLogin           = "login"
	ActionRecoveryRequest = "recovery_request"
	ActionPasswordReset   = "password_reset"
	ActionPasswordUpdate  = "password_update"
)

// Audit outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// AuthEvent is a single entry in the auth_events audit trail.
type AuthEvent struct {
	ID        string
	Login     string
	Action    string
	Method    string
	Outcome   string
	Reason    string
	Timestamp time.Time
}
