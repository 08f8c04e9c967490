package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/letteratech/identity-service/internal/core/domain"
)

func renderError(t *testing.T, err error) (*httptest.ResponseRecorder, errorResponse) {
	t.Helper()
	e := echo.New()
	handler := NewHTTPErrorHandler(zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler(err, c)

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return rec, resp
}

func TestHTTPErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"invalid code", domain.ErrInvalidCode, http.StatusBadRequest, "invalid or expired code"},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"email not verified", domain.ErrEmailNotVerified, http.StatusForbidden, "email not verified"},
		{"identity not found", domain.ErrIdentityNotFound, http.StatusNotFound, "identity not found"},
		{"identity exists", domain.ErrIdentityExists, http.StatusConflict, "identity already exists"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, resp := renderError(t, tc.err)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			if resp.Success {
				t.Fatalf("envelope must carry success=false")
			}
			if resp.Message != tc.message {
				t.Fatalf("message = %q, want %q", resp.Message, tc.message)
			}
		})
	}
}

func TestHTTPErrorHandler_WrappedSentinel(t *testing.T) {
	// Services wrap sentinels with context; the mapping must survive the wrap.
	wrapped := fmt.Errorf("authenticate: %w", domain.ErrInvalidCredentials)
	rec, _ := renderError(t, wrapped)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestHTTPErrorHandler_InvalidInputCarriesMessage(t *testing.T) {
	err := fmt.Errorf("%w: password must be at least 6 characters", domain.ErrInvalidInput)
	rec, resp := renderError(t, err)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if resp.Message != err.Error() {
		t.Fatalf("message = %q, want the error text", resp.Message)
	}
}

func TestHTTPErrorHandler_EchoError(t *testing.T) {
	rec, resp := renderError(t, echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header"))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if resp.Message != "missing authorization header" {
		t.Fatalf("message = %q", resp.Message)
	}
}

func TestHTTPErrorHandler_UnknownError(t *testing.T) {
	rec, resp := renderError(t, errors.New("mongo timeout"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	// Internals never leak to the client.
	if resp.Message != "internal server error" {
		t.Fatalf("message = %q", resp.Message)
	}
}
