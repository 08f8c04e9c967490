// Package api provides the HTTP client for the identity service, consumed
// by the login, issuance, and recovery flows. The interface mirrors the
// server operations one-to-one so flows can be tested against a stub.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/letteratech/identity-service/internal/core/domain"
)

// IssueAnonymousRequest carries the profile fields for anonymous issuance.
type IssueAnonymousRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

// RegisterRequest carries the fields for email registration.
type RegisterRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

// AuthRequest is a login attempt: {login,password} or
// {login,code_phrase,code_phrase_index}.
type AuthRequest struct {
	Login           string `json:"login"`
	Password        string `json:"password,omitempty"`
	CodePhrase      string `json:"code_phrase,omitempty"`
	CodePhraseIndex *int   `json:"code_phrase_index,omitempty"`
}

// IssuedCredentials is returned once, at issuance.
type IssuedCredentials struct {
	LetteraNumber string           `json:"lettera_number"`
	CodePhrases   []string         `json:"code_phrases"`
	Identity      *domain.Identity `json:"identity"`
	Token         string           `json:"token"`
}

// AuthResult is returned by every operation that establishes a session.
type AuthResult struct {
	Identity *domain.Identity `json:"identity"`
	Token    string           `json:"token"`
}

// Client is the flows' view of the identity API.
type Client interface {
	IssueAnonymousIdentity(ctx context.Context, req IssueAnonymousRequest) (*IssuedCredentials, error)
	Register(ctx context.Context, req RegisterRequest) error
	VerifyEmail(ctx context.Context, email, code string) error
	Authenticate(ctx context.Context, req AuthRequest) (*AuthResult, error)
	RequestEmailRecoveryCode(ctx context.Context, email string) error
	ResetPasswordWithEmailCode(ctx context.Context, email, code, newPassword string) (*AuthResult, error)
	UpdatePassword(ctx context.Context, token, newPassword string) (*AuthResult, error)
}

// APIError is a server-reported failure, decoded from the
// {"success":false,"message":"…"} envelope.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

const defaultTimeout = 15 * time.Second

// HTTPClient implements Client over JSON/HTTP.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient creates a client for the service at baseURL. A default
// request timeout is applied when none is provided.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) IssueAnonymousIdentity(ctx context.Context, req IssueAnonymousRequest) (*IssuedCredentials, error) {
	var out IssuedCredentials
	if err := c.post(ctx, "/v1/identity/anonymous", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Register(ctx context.Context, req RegisterRequest) error {
	return c.post(ctx, "/v1/identity/register", "", req, nil)
}

func (c *HTTPClient) VerifyEmail(ctx context.Context, email, code string) error {
	body := map[string]string{"email": email, "code": code}
	return c.post(ctx, "/v1/identity/verify-email", "", body, nil)
}

func (c *HTTPClient) Authenticate(ctx context.Context, req AuthRequest) (*AuthResult, error) {
	var out AuthResult
	if err := c.post(ctx, "/v1/auth/login", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) RequestEmailRecoveryCode(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.post(ctx, "/v1/auth/recovery/request", "", body, nil)
}

func (c *HTTPClient) ResetPasswordWithEmailCode(ctx context.Context, email, code, newPassword string) (*AuthResult, error) {
	body := map[string]string{"email": email, "code": code, "new_password": newPassword}
	var out AuthResult
	if err := c.post(ctx, "/v1/auth/recovery/reset", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdatePassword(ctx context.Context, token, newPassword string) (*AuthResult, error) {
	body := map[string]string{"new_password": newPassword}
	var out AuthResult
	if err := c.post(ctx, "/v1/auth/password", token, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// post sends a JSON request and decodes either the success payload into out
// or the error envelope into an *APIError.
func (c *HTTPClient) post(ctx context.Context, path, token string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		var envelope struct {
			Message string `json:"message"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&envelope); decodeErr != nil || envelope.Message == "" {
			envelope.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: envelope.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
