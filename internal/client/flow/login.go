package flow

import (
	"context"

	"github.com/letteratech/identity-service/internal/client/api"
	"github.com/letteratech/identity-service/internal/client/challenge"
	"github.com/letteratech/identity-service/internal/client/session"
	"github.com/letteratech/identity-service/internal/core/domain"
)

// Method is the credential kind a login attempt presents.
type Method string

const (
	MethodPassword   Method = "password"
	MethodCodePhrase Method = "codePhrase"
)

// NegotiatorState is the login flow step.
type NegotiatorState string

const (
	NegotiatorCollecting    NegotiatorState = "collecting-credentials"
	NegotiatorAuthenticated NegotiatorState = "authenticated"
)

// Negotiator drives login: classify the identifier, pick the method, submit
// credentials, install the session. The code phrase method is only
// selectable for LetteraTech numbers; any other identifier forces password.
type Negotiator struct {
	client   api.Client
	sessions *session.Store
	selector challenge.Selector

	state          NegotiatorState
	identifier     string
	kind           domain.LoginKind
	method         Method
	password       string
	phrase         string
	challengeIndex int
}

func NewNegotiator(client api.Client, sessions *session.Store, selector challenge.Selector) *Negotiator {
	return &Negotiator{
		client:         client,
		sessions:       sessions,
		selector:       selector,
		state:          NegotiatorCollecting,
		kind:           domain.LoginUsername,
		method:         MethodPassword,
		challengeIndex: -1,
	}
}

func (f *Negotiator) State() NegotiatorState { return f.state }
func (f *Negotiator) Kind() domain.LoginKind { return f.kind }
func (f *Negotiator) Method() Method         { return f.method }
func (f *Negotiator) ChallengeIndex() int    { return f.challengeIndex }

// SetIdentifier re-classifies on every edit; classification is never
// sticky. Leaving the number space forces the method back to password and
// drops any active challenge.
func (f *Negotiator) SetIdentifier(identifier string) {
	f.identifier = identifier
	f.kind = domain.ClassifyLogin(identifier)
	if f.kind != domain.LoginNumber && f.method == MethodCodePhrase {
		f.method = MethodPassword
		f.phrase = ""
		f.challengeIndex = -1
	}
}

func (f *Negotiator) SetPassword(password string) { f.password = password }
func (f *Negotiator) SetPhrase(phrase string)     { f.phrase = phrase }

// SetMethod switches the authentication method. Selecting the phrase method
// draws a fresh challenge and clears any previously entered phrase — a
// stale index is never submitted against a freshly chosen method.
func (f *Negotiator) SetMethod(method Method) error {
	if method != MethodPassword && method != MethodCodePhrase {
		return validationErr("method", "unknown authentication method")
	}
	if method == MethodCodePhrase && f.kind != domain.LoginNumber {
		return validationErr("method", "code phrase login requires a LetteraTech number")
	}
	if method == f.method {
		return nil
	}

	f.method = method
	f.phrase = ""
	if method == MethodCodePhrase {
		f.challengeIndex = f.selector.Pick()
	} else {
		f.challengeIndex = -1
	}
	return nil
}

// NewChallenge redraws the phrase index on explicit request and clears the
// entered phrase.
func (f *Negotiator) NewChallenge() error {
	if f.method != MethodCodePhrase {
		return &StateError{Op: "new challenge", State: string(f.method)}
	}
	f.challengeIndex = f.selector.Pick()
	f.phrase = ""
	return nil
}

// Submit validates locally, then authenticates. Failures leave the flow
// collecting; each submission is independent, with no retry policy.
func (f *Negotiator) Submit(ctx context.Context) error {
	if f.state != NegotiatorCollecting {
		return &StateError{Op: "submit", State: string(f.state)}
	}
	if f.identifier == "" {
		return validationErr("identifier", "required")
	}

	req := api.AuthRequest{Login: f.identifier}
	switch f.method {
	case MethodPassword:
		if f.password == "" {
			return validationErr("password", "required")
		}
		req.Password = f.password
	case MethodCodePhrase:
		if f.phrase == "" {
			return validationErr("code_phrase", "required")
		}
		if f.challengeIndex < 0 || f.challengeIndex >= domain.CodePhraseCount {
			return &StateError{Op: "submit", State: "no active challenge"}
		}
		idx := f.challengeIndex
		req.CodePhrase = f.phrase
		req.CodePhraseIndex = &idx
	}

	result, err := f.client.Authenticate(ctx, req)
	if err != nil {
		return requestErr(err)
	}

	f.sessions.Install(result.Identity, result.Token)
	f.state = NegotiatorAuthenticated
	return nil
}
