package flow

import (
	"context"

	"github.com/letteratech/identity-service/internal/client/api"
	"github.com/letteratech/identity-service/internal/client/challenge"
	"github.com/letteratech/identity-service/internal/client/session"
	"github.com/letteratech/identity-service/internal/core/domain"
)

// RecoveryState is the recovery flow step. The machine only ever moves
// forward: locate → verify → reset → done. A failed verification stays at
// verify; the resend/new-challenge action is the one permitted self-loop.
type RecoveryState string

const (
	RecoveryLocate RecoveryState = "locate"
	RecoveryVerify RecoveryState = "verify"
	RecoveryReset  RecoveryState = "reset"
	RecoveryDone   RecoveryState = "done"
)

// VerificationKind is how possession is proven at the verify step.
type VerificationKind string

const (
	// VerifyEmailCode: a 6-character code mailed to the account address.
	// The code is not checked on entry — no verify-only endpoint exists —
	// but together with the new password in the combined reset call.
	VerifyEmailCode VerificationKind = "email-code"
	// VerifyPhraseChallenge: the phrase at a freshly picked index,
	// verified by performing a full login.
	VerifyPhraseChallenge VerificationKind = "phrase-challenge"
)

const emailCodeLength = 6

// Recovery drives password recovery for both identity kinds.
type Recovery struct {
	client   api.Client
	sessions *session.Store
	selector challenge.Selector

	state          RecoveryState
	kind           VerificationKind
	identifier     string
	challengeIndex int
	emailCode      string
	provisional    *session.Session
}

func NewRecovery(client api.Client, sessions *session.Store, selector challenge.Selector) *Recovery {
	return &Recovery{
		client:         client,
		sessions:       sessions,
		selector:       selector,
		state:          RecoveryLocate,
		challengeIndex: -1,
	}
}

func (f *Recovery) State() RecoveryState               { return f.state }
func (f *Recovery) VerificationKind() VerificationKind { return f.kind }
func (f *Recovery) ChallengeIndex() int                { return f.challengeIndex }

// Locate identifies the account to recover. Email identifiers request a
// recovery code from the server; LetteraTech numbers pick a phrase
// challenge locally with no network call. Usernames are not recoverable by
// this path.
func (f *Recovery) Locate(ctx context.Context, identifier string) error {
	if f.state != RecoveryLocate {
		return &StateError{Op: "locate", State: string(f.state)}
	}
	if identifier == "" {
		return validationErr("identifier", "required")
	}

	switch domain.ClassifyLogin(identifier) {
	case domain.LoginEmail:
		if err := f.client.RequestEmailRecoveryCode(ctx, identifier); err != nil {
			return requestErr(err)
		}
		f.identifier = identifier
		f.kind = VerifyEmailCode
		f.state = RecoveryVerify
		return nil
	case domain.LoginNumber:
		f.identifier = identifier
		f.kind = VerifyPhraseChallenge
		f.challengeIndex = f.selector.Pick()
		f.state = RecoveryVerify
		return nil
	default:
		return validationErr("identifier", "usernames cannot be recovered; use your email or LetteraTech number")
	}
}

// Verify proves possession. For email codes the entry is accepted
// optimistically and validated later by the combined reset call. For phrase
// challenges a full login is performed; success installs a provisional
// session. Failure keeps the machine at verify.
func (f *Recovery) Verify(ctx context.Context, value string) error {
	if f.state != RecoveryVerify {
		return &StateError{Op: "verify", State: string(f.state)}
	}

	switch f.kind {
	case VerifyEmailCode:
		if len(value) != emailCodeLength {
			return validationErr("code", "must be 6 characters")
		}
		f.emailCode = value
		f.state = RecoveryReset
		return nil

	case VerifyPhraseChallenge:
		if value == "" {
			return validationErr("code_phrase", "required")
		}
		idx := f.challengeIndex
		result, err := f.client.Authenticate(ctx, api.AuthRequest{
			Login:           f.identifier,
			CodePhrase:      value,
			CodePhraseIndex: &idx,
		})
		if err != nil {
			return requestErr(err)
		}
		f.provisional = &session.Session{Identity: result.Identity, Token: result.Token}
		f.sessions.Install(result.Identity, result.Token)
		f.state = RecoveryReset
		return nil
	}

	return &StateError{Op: "verify", State: "no verification kind"}
}

// Resend is the "resend / new challenge" action, available throughout
// verify. For email codes it returns the machine to locate so a new code
// can be requested; for phrase challenges it redraws the index without
// leaving verify.
func (f *Recovery) Resend() error {
	if f.state != RecoveryVerify {
		return &StateError{Op: "resend", State: string(f.state)}
	}

	if f.kind == VerifyPhraseChallenge {
		f.challengeIndex = f.selector.Pick()
		return nil
	}

	f.identifier = ""
	f.emailCode = ""
	f.kind = ""
	f.state = RecoveryLocate
	return nil
}

// Reset sets the new password. The email path validates code and password
// in one combined server call. The phrase path updates the password under
// the provisional session; if that secondary call fails, the flow still
// completes with the provisional session — the user is authenticated even
// though the password change did not take effect.
func (f *Recovery) Reset(ctx context.Context, newPassword, confirm string) error {
	if f.state != RecoveryReset {
		return &StateError{Op: "reset", State: string(f.state)}
	}
	if len(newPassword) < minPasswordLength {
		return validationErr("new_password", "must be at least 6 characters")
	}
	if newPassword != confirm {
		return validationErr("confirm_password", "passwords do not match")
	}

	switch f.kind {
	case VerifyEmailCode:
		result, err := f.client.ResetPasswordWithEmailCode(ctx, f.identifier, f.emailCode, newPassword)
		if err != nil {
			return requestErr(err)
		}
		f.sessions.Install(result.Identity, result.Token)
		f.state = RecoveryDone
		return nil

	case VerifyPhraseChallenge:
		result, err := f.client.UpdatePassword(ctx, f.provisional.Token, newPassword)
		if err != nil {
			f.sessions.Install(f.provisional.Identity, f.provisional.Token)
			f.state = RecoveryDone
			return nil
		}
		f.sessions.Install(result.Identity, result.Token)
		f.state = RecoveryDone
		return nil
	}

	return &StateError{Op: "reset", State: "no verification kind"}
}
