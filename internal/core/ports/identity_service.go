package ports

import (
	"context"

	"github.com/letteratech/identity-service/internal/core/domain"
)

// IssueAnonymousInput carries the profile fields for anonymous registration.
type IssueAnonymousInput struct {
	FirstName string
	LastName  string
	Password  string
	Role      string
}

// IssuedCredentials is returned exactly once, at issuance. CodePhrases holds
// the plaintext phrases; the server only ever stores their hashes, so this
// is the single point where they are readable.
type IssuedCredentials struct {
	LetteraNumber string
	CodePhrases   []string
	Identity      *domain.Identity
	Token         string
}

// RegisterEmailInput carries the fields for a conventional registration.
type RegisterEmailInput struct {
	Email     string
	FirstName string
	LastName  string
	Username  string
	Password  string
	Role      string
}

// AuthenticateInput is a login attempt. Exactly one of the two methods is
// used: Password, or CodePhrase together with a non-nil CodePhraseIndex.
type AuthenticateInput struct {
	Login           string
	Password        string
	CodePhrase      string
	CodePhraseIndex *int
}

// AuthResult is returned by every operation that establishes a session.
type AuthResult struct {
	Identity *domain.Identity
	Token    string
}

// IdentityService defines the server side of the identity API.
type IdentityService interface {
	IssueAnonymous(ctx context.Context, input IssueAnonymousInput) (*IssuedCredentials, error)
	RegisterEmail(ctx context.Context, input RegisterEmailInput) error
	VerifyEmail(ctx context.Context, email, code string) error
	Authenticate(ctx context.Context, input AuthenticateInput) (*AuthResult, error)
	RequestRecoveryCode(ctx context.Context, email string) error
	ResetPasswordWithCode(ctx context.Context, email, code, newPassword string) (*AuthResult, error)
	UpdatePassword(ctx context.Context, login, newPassword string) (*AuthResult, error)
}
