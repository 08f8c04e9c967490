package flow

import (
	"context"
	"net/http"

	"github.com/letteratech/identity-service/internal/client/api"
	"github.com/letteratech/identity-service/internal/core/domain"
)

// stubClient scripts API responses and records which calls were made.
type stubClient struct {
	calls []string

	issueResult *api.IssuedCredentials
	issueErr    error

	authResult *api.AuthResult
	authErr    error
	lastAuth   api.AuthRequest

	recoveryErr error

	resetResult *api.AuthResult
	resetErr    error

	updateResult *api.AuthResult
	updateErr    error
	lastToken    string
}

func (c *stubClient) IssueAnonymousIdentity(_ context.Context, req api.IssueAnonymousRequest) (*api.IssuedCredentials, error) {
	c.calls = append(c.calls, "issue")
	if c.issueErr != nil {
		return nil, c.issueErr
	}
	return c.issueResult, nil
}

func (c *stubClient) Register(_ context.Context, _ api.RegisterRequest) error {
	c.calls = append(c.calls, "register")
	return nil
}

func (c *stubClient) VerifyEmail(_ context.Context, _, _ string) error {
	c.calls = append(c.calls, "verify-email")
	return nil
}

func (c *stubClient) Authenticate(_ context.Context, req api.AuthRequest) (*api.AuthResult, error) {
	c.calls = append(c.calls, "authenticate")
	c.lastAuth = req
	if c.authErr != nil {
		return nil, c.authErr
	}
	return c.authResult, nil
}

func (c *stubClient) RequestEmailRecoveryCode(_ context.Context, _ string) error {
	c.calls = append(c.calls, "recovery-request")
	return c.recoveryErr
}

func (c *stubClient) ResetPasswordWithEmailCode(_ context.Context, _, _, _ string) (*api.AuthResult, error) {
	c.calls = append(c.calls, "recovery-reset")
	if c.resetErr != nil {
		return nil, c.resetErr
	}
	return c.resetResult, nil
}

func (c *stubClient) UpdatePassword(_ context.Context, token, _ string) (*api.AuthResult, error) {
	c.calls = append(c.calls, "update-password")
	c.lastToken = token
	if c.updateErr != nil {
		return nil, c.updateErr
	}
	return c.updateResult, nil
}

func (c *stubClient) callCount(name string) int {
	n := 0
	for _, call := range c.calls {
		if call == name {
			n++
		}
	}
	return n
}

// scriptedSelector returns a fixed sequence of indices, cycling when
// exhausted.
type scriptedSelector struct {
	picks []int
	pos   int
}

func (s *scriptedSelector) Pick() int {
	if len(s.picks) == 0 {
		return 0
	}
	idx := s.picks[s.pos%len(s.picks)]
	s.pos++
	return idx
}

func anonIdentity(number string) *domain.Identity {
	return &domain.Identity{
		Kind:          domain.KindAnonymous,
		LetteraNumber: number,
		Role:          domain.RoleUniversal,
	}
}

func unauthorized(msg string) *api.APIError {
	return &api.APIError{StatusCode: http.StatusUnauthorized, Message: msg}
}
