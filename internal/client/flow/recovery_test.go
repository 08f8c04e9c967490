package flow

import (
	"context"
	"errors"
	"testing"

	"github.com/letteratech/identity-service/internal/client/api"
	"github.com/letteratech/identity-service/internal/client/session"
)

func TestRecoveryLocate_EmailRequestsCode(t *testing.T) {
	client := &stubClient{}
	f := NewRecovery(client, session.NewStore(), &scriptedSelector{})

	if err := f.Locate(context.Background(), "ada@example.com"); err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if f.State() != RecoveryVerify {
		t.Fatalf("state = %s, want verify", f.State())
	}
	if f.VerificationKind() != VerifyEmailCode {
		t.Fatalf("kind = %s, want email-code", f.VerificationKind())
	}
	if got := client.callCount("recovery-request"); got != 1 {
		t.Fatalf("recovery-request called %d times", got)
	}
}

func TestRecoveryLocate_NumberPicksChallengeLocally(t *testing.T) {
	client := &stubClient{}
	f := NewRecovery(client, session.NewStore(), &scriptedSelector{picks: []int{5}})

	if err := f.Locate(context.Background(), testNumber); err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if f.VerificationKind() != VerifyPhraseChallenge {
		t.Fatalf("kind = %s, want phrase-challenge", f.VerificationKind())
	}
	if f.ChallengeIndex() != 5 {
		t.Fatalf("challenge index = %d, want 5", f.ChallengeIndex())
	}
	if len(client.calls) != 0 {
		t.Fatalf("locating a number must not call the API: %v", client.calls)
	}
}

func TestRecoveryLocate_UsernameRejected(t *testing.T) {
	client := &stubClient{}
	f := NewRecovery(client, session.NewStore(), &scriptedSelector{})

	err := f.Locate(context.Background(), "ada")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if f.State() != RecoveryLocate {
		t.Fatalf("state = %s, want locate", f.State())
	}
}

func TestRecovery_NeverSkipsVerify(t *testing.T) {
	f := NewRecovery(&stubClient{}, session.NewStore(), &scriptedSelector{})

	// Reset is unreachable straight from locate.
	err := f.Reset(context.Background(), "newpass9", "newpass9")
	var serr *StateError
	if !errors.As(err, &serr) {
		t.Fatalf("expected StateError, got %v", err)
	}

	if err := f.Locate(context.Background(), "ada@example.com"); err != nil {
		t.Fatalf("Locate: %v", err)
	}
	err = f.Reset(context.Background(), "newpass9", "newpass9")
	if !errors.As(err, &serr) {
		t.Fatalf("expected StateError before verification, got %v", err)
	}
}

func TestRecoveryVerify_EmailCodeAcceptedOptimistically(t *testing.T) {
	client := &stubClient{}
	f := NewRecovery(client, session.NewStore(), &scriptedSelector{})

	if err := f.Locate(context.Background(), "ada@example.com"); err != nil {
		t.Fatalf("Locate: %v", err)
	}

	// Wrong length is the only local check.
	err := f.Verify(context.Background(), "123")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if f.State() != RecoveryVerify {
		t.Fatalf("state = %s, want verify", f.State())
	}

	// A well-formed code advances without a server round trip; the code is
	// checked later by the combined reset call.
	if err := f.Verify(context.Background(), "AB3XY9"); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if f.State() != RecoveryReset {
		t.Fatalf("state = %s, want reset", f.State())
	}
	if got := client.callCount("authenticate"); got != 0 {
		t.Fatalf("email verification must not authenticate: %d calls", got)
	}
}

func TestRecoveryVerify_PhraseFailureStaysAtVerify(t *testing.T) {
	client := &stubClient{authErr: unauthorized("invalid credentials")}
	sessions := session.NewStore()
	f := NewRecovery(client, sessions, &scriptedSelector{picks: []int{3}})

	if err := f.Locate(context.Background(), testNumber); err != nil {
		t.Fatalf("Locate: %v", err)
	}

	err := f.Verify(context.Background(), "wrong-phrase-00")
	var rerr *RequestError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected RequestError, got %v", err)
	}
	if f.State() != RecoveryVerify {
		t.Fatalf("state = %s, want verify", f.State())
	}
	if sessions.Current() != nil {
		t.Fatalf("no session should exist after a failed challenge")
	}
}

func TestRecoveryVerify_PhraseSuccessInstallsProvisionalSession(t *testing.T) {
	client := &stubClient{
		authResult: &api.AuthResult{Identity: anonIdentity(testNumber), Token: "provisional-token"},
	}
	sessions := session.NewStore()
	f := NewRecovery(client, sessions, &scriptedSelector{picks: []int{3}})

	if err := f.Locate(context.Background(), testNumber); err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if err := f.Verify(context.Background(), "dusty-raven-23"); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if f.State() != RecoveryReset {
		t.Fatalf("state = %s, want reset", f.State())
	}

	if client.lastAuth.CodePhraseIndex == nil || *client.lastAuth.CodePhraseIndex != 3 {
		t.Fatalf("challenge index = %v, want 3", client.lastAuth.CodePhraseIndex)
	}

	current := sessions.Current()
	if current == nil || current.Token != "provisional-token" {
		t.Fatalf("expected provisional session, got %+v", current)
	}
}

func TestRecoveryResend_EmailReturnsToLocate(t *testing.T) {
	client := &stubClient{}
	f := NewRecovery(client, session.NewStore(), &scriptedSelector{})

	if err := f.Locate(context.Background(), "ada@example.com"); err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if err := f.Resend(); err != nil {
		t.Fatalf("Resend: %v", err)
	}
	if f.State() != RecoveryLocate {
		t.Fatalf("state = %s, want locate", f.State())
	}

	// The machine is reusable: locating again requests another code.
	if err := f.Locate(context.Background(), "ada@example.com"); err != nil {
		t.Fatalf("second Locate: %v", err)
	}
	if got := client.callCount("recovery-request"); got != 2 {
		t.Fatalf("recovery-request called %d times, want 2", got)
	}
}

func TestRecoveryResend_PhraseRedrawsWithoutLeavingVerify(t *testing.T) {
	f := NewRecovery(&stubClient{}, session.NewStore(), &scriptedSelector{picks: []int{3, 8}})

	if err := f.Locate(context.Background(), testNumber); err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if f.ChallengeIndex() != 3 {
		t.Fatalf("challenge index = %d, want 3", f.ChallengeIndex())
	}

	if err := f.Resend(); err != nil {
		t.Fatalf("Resend: %v", err)
	}
	if f.State() != RecoveryVerify {
		t.Fatalf("state = %s, want verify", f.State())
	}
	if f.ChallengeIndex() != 8 {
		t.Fatalf("redrawn index = %d, want 8", f.ChallengeIndex())
	}
}

func TestRecoveryReset_EmailCombinedCall(t *testing.T) {
	client := &stubClient{
		resetResult: &api.AuthResult{Identity: anonIdentity(""), Token: "reset-token"},
	}
	sessions := session.NewStore()
	f := NewRecovery(client, sessions, &scriptedSelector{})

	if err := f.Locate(context.Background(), "ada@example.com"); err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if err := f.Verify(context.Background(), "AB3XY9"); err != nil {
		t.Fatalf("Verify: %v", err)
	}

	// Local validation first.
	err := f.Reset(context.Background(), "tiny", "tiny")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	err = f.Reset(context.Background(), "newpass9", "different")
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError on mismatch, got %v", err)
	}

	if err := f.Reset(context.Background(), "newpass9", "newpass9"); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if f.State() != RecoveryDone {
		t.Fatalf("state = %s, want done", f.State())
	}
	if got := client.callCount("recovery-reset"); got != 1 {
		t.Fatalf("recovery-reset called %d times", got)
	}

	current := sessions.Current()
	if current == nil || current.Token != "reset-token" {
		t.Fatalf("expected session from reset, got %+v", current)
	}
}

func TestRecoveryReset_EmailWrongCodeStaysAtReset(t *testing.T) {
	client := &stubClient{resetErr: unauthorized("invalid recovery code")}
	f := NewRecovery(client, session.NewStore(), &scriptedSelector{})

	if err := f.Locate(context.Background(), "ada@example.com"); err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if err := f.Verify(context.Background(), "WRONG1"); err != nil {
		t.Fatalf("Verify: %v", err)
	}

	err := f.Reset(context.Background(), "newpass9", "newpass9")
	var rerr *RequestError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected RequestError, got %v", err)
	}
	if f.State() != RecoveryReset {
		t.Fatalf("state = %s, want reset", f.State())
	}
}

func TestRecoveryReset_PhraseUpdatesUnderProvisionalToken(t *testing.T) {
	client := &stubClient{
		authResult:   &api.AuthResult{Identity: anonIdentity(testNumber), Token: "provisional-token"},
		updateResult: &api.AuthResult{Identity: anonIdentity(testNumber), Token: "rotated-token"},
	}
	sessions := session.NewStore()
	f := NewRecovery(client, sessions, &scriptedSelector{picks: []int{0}})

	if err := f.Locate(context.Background(), testNumber); err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if err := f.Verify(context.Background(), "amber-falcon-42"); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if err := f.Reset(context.Background(), "newpass9", "newpass9"); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	if client.lastToken != "provisional-token" {
		t.Fatalf("update ran under token %q, want provisional", client.lastToken)
	}
	current := sessions.Current()
	if current == nil || current.Token != "rotated-token" {
		t.Fatalf("expected refreshed session, got %+v", current)
	}
	if f.State() != RecoveryDone {
		t.Fatalf("state = %s, want done", f.State())
	}
}

func TestRecoveryReset_PhraseFallbackKeepsProvisionalSession(t *testing.T) {
	client := &stubClient{
		authResult: &api.AuthResult{Identity: anonIdentity(testNumber), Token: "provisional-token"},
		updateErr:  unauthorized("update rejected"),
	}
	sessions := session.NewStore()
	f := NewRecovery(client, sessions, &scriptedSelector{picks: []int{0}})

	if err := f.Locate(context.Background(), testNumber); err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if err := f.Verify(context.Background(), "amber-falcon-42"); err != nil {
		t.Fatalf("Verify: %v", err)
	}

	// The secondary password update fails, yet the flow completes with the
	// provisional session: the user stays authenticated with the old
	// password still in force.
	if err := f.Reset(context.Background(), "newpass9", "newpass9"); err != nil {
		t.Fatalf("Reset should swallow the update failure, got %v", err)
	}
	if f.State() != RecoveryDone {
		t.Fatalf("state = %s, want done", f.State())
	}

	current := sessions.Current()
	if current == nil || current.Token != "provisional-token" {
		t.Fatalf("expected provisional session to survive, got %+v", current)
	}
}
