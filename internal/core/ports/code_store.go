package ports

import "context"

// Code purposes stored in the short-lived code store.
const (
	CodePurposeVerify   = "verify"
	CodePurposeRecovery = "recovery"
)

// CodeStore holds short-lived verification and recovery codes, keyed by
// purpose and email. Get returns domain.ErrInvalidCode when no live code
// exists for the pair.
type CodeStore interface {
	Put(ctx context.Context, purpose, email, code string) error
	Get(ctx context.Context, purpose, email string) (string, error)
	Delete(ctx context.Context, purpose, email string) error
}

// Mailer delivers a verification or recovery code to an email address.
type Mailer interface {
	SendCode(ctx context.Context, email, purpose, code string) error
}
