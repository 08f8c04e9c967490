// Package flow implements the client-side state machines for anonymous
// identity issuance, login, and password recovery. Each flow validates
// locally before calling the identity API and requests session replacement
// through the session store; none of them mutate the session directly.
package flow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/letteratech/identity-service/internal/client/api"
	"github.com/letteratech/identity-service/internal/client/session"
	"github.com/letteratech/identity-service/internal/core/domain"
)

const minPasswordLength = 6

// IssuerState is the credential issuance step.
type IssuerState string

const (
	// IssuerCollecting accepts profile fields.
	IssuerCollecting IssuerState = "collecting-form"
	// IssuerDisplaying shows the issued credentials, exactly once.
	IssuerDisplaying IssuerState = "displaying-credentials"
	// IssuerDone is terminal; the credentials are no longer readable.
	IssuerDone IssuerState = "done"
)

// IssueForm holds the anonymous registration fields as entered.
type IssueForm struct {
	FirstName       string
	LastName        string
	Password        string
	ConfirmPassword string
	Role            string
}

// Issuer drives anonymous registration: collect the form, submit it, show
// the issued number and phrases one time, then finish. A successful submit
// installs a session immediately (auto-login), so Continue makes no
// further API calls.
type Issuer struct {
	client   api.Client
	sessions *session.Store

	state    IssuerState
	creds    *api.IssuedCredentials
	issuedAt time.Time
}

func NewIssuer(client api.Client, sessions *session.Store) *Issuer {
	return &Issuer{client: client, sessions: sessions, state: IssuerCollecting}
}

func (f *Issuer) State() IssuerState {
	return f.state
}

// Submit validates the form locally and, if it passes, issues the identity.
// Validation failures return a ValidationError and make no network call;
// server failures return a RequestError and leave the flow collecting.
func (f *Issuer) Submit(ctx context.Context, form IssueForm) error {
	if f.state != IssuerCollecting {
		return &StateError{Op: "submit", State: string(f.state)}
	}
	if err := validateIssueForm(form); err != nil {
		return err
	}

	creds, err := f.client.IssueAnonymousIdentity(ctx, api.IssueAnonymousRequest{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Password:  form.Password,
		Role:      form.Role,
	})
	if err != nil {
		return requestErr(err)
	}

	f.sessions.Install(creds.Identity, creds.Token)
	f.creds = creds
	f.issuedAt = time.Now().UTC()
	f.state = IssuerDisplaying
	return nil
}

// Credentials returns the issued number and phrases. Only readable while
// displaying; no other screen anywhere re-displays the full phrase set.
func (f *Issuer) Credentials() (*api.IssuedCredentials, error) {
	if f.state != IssuerDisplaying {
		return nil, &StateError{Op: "credentials", State: string(f.state)}
	}
	return f.creds, nil
}

// ExportText renders the one-time credentials as a flat text artifact the
// user can save. The password is deliberately not included.
func (f *Issuer) ExportText() (string, error) {
	if f.state != IssuerDisplaying {
		return "", &StateError{Op: "export", State: string(f.state)}
	}

	var b strings.Builder
	b.WriteString("LetteraTech credentials\n")
	b.WriteString("=======================\n\n")
	fmt.Fprintf(&b, "Number:   %s\n", f.creds.LetteraNumber)
	b.WriteString("Password: (not shown; use the password you chose)\n\n")
	b.WriteString("Code phrases:\n")
	for i, phrase := range f.creds.CodePhrases {
		fmt.Fprintf(&b, "  %2d. %s\n", i, phrase)
	}
	fmt.Fprintf(&b, "\nGenerated: %s\n", f.issuedAt.Format(time.RFC3339))
	return b.String(), nil
}

// Continue ends the flow. The session is already installed; the displayed
// credentials are wiped and cannot be read again.
func (f *Issuer) Continue() error {
	if f.state != IssuerDisplaying {
		return &StateError{Op: "continue", State: string(f.state)}
	}
	f.creds = nil
	f.state = IssuerDone
	return nil
}

func validateIssueForm(form IssueForm) error {
	if form.FirstName == "" {
		return validationErr("first_name", "required")
	}
	if form.LastName == "" {
		return validationErr("last_name", "required")
	}
	if len(form.Password) < minPasswordLength {
		return validationErr("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	if form.Password != form.ConfirmPassword {
		return validationErr("confirm_password", "passwords do not match")
	}
	if !domain.ValidRole(form.Role) {
		return validationErr("role", "must be one of: startup, freelancer, investor, universal")
	}
	return nil
}
