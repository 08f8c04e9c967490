package domain

import (
	"errors"
	"time"
)

// IdentityKind distinguishes the two account variants.
type IdentityKind string

const (
	// KindEmail is a conventional account: email + username + password.
	KindEmail IdentityKind = "email"
	// KindAnonymous is an account with no email: a LetteraTech number,
	// a password, and twelve code phrases issued at registration.
	KindAnonymous IdentityKind = "anonymous"
)

const (
	// LetteraPrefix is the fixed prefix of every LetteraTech number.
	LetteraPrefix = "+11111"
	// LetteraNumberLength is the total length of a LetteraTech number:
	// the fixed prefix padded out with random digits.
	LetteraNumberLength = 16
	// CodePhraseCount is the number of code phrases issued per anonymous
	// identity. Phrases are index-addressable 0..CodePhraseCount-1.
	CodePhraseCount = 12
)

// Roles an account can register under.
const (
	RoleStartup    = "startup"
	RoleFreelancer = "freelancer"
	RoleInvestor   = "investor"
	RoleUniversal  = "universal"
)

// ValidRole reports whether role is one of the registrable roles.
func ValidRole(role string) bool {
	switch role {
	case RoleStartup, RoleFreelancer, RoleInvestor, RoleUniversal:
		return true
	}
	return false
}

var ErrIdentityNotFound = errors.New("identity not found")
var ErrIdentityExists = errors.New("identity already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidInput = errors.New("invalid input")
var ErrInvalidCode = errors.New("invalid or expired code")
var ErrEmailNotVerified = errors.New("email not verified")

// Identity is the core aggregate: one record covers both variants.
// For KindEmail, LetteraNumber is empty and PhraseHashes is nil.
// For KindAnonymous, Email is empty and PhraseHashes holds exactly
// CodePhraseCount bcrypt hashes, positionally matching the issued phrases.
type Identity struct {
	ID            string       `json:"id"`
	Kind          IdentityKind `json:"kind"`
	LetteraNumber string       `json:"lettera_number,omitempty"`
	Email         string       `json:"email,omitempty"`
	Username      string       `json:"username,omitempty"`
	FirstName     string       `json:"first_name"`
	LastName      string       `json:"last_name"`
	Role          string       `json:"role"`
	PasswordHash  string       `json:"-"`
	PhraseHashes  []string     `json:"-"`
	EmailVerified bool         `json:"email_verified,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// Login returns the identifier an identity authenticates with: the
// LetteraTech number for anonymous accounts, the username otherwise.
func (i *Identity) Login() string {
	if i.Kind == KindAnonymous {
		return i.LetteraNumber
	}
	return i.Username
}
