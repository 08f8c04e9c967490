package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/letteratech/identity-service/internal/api/metrics"
	"github.com/letteratech/identity-service/internal/core/domain"
	"github.com/letteratech/identity-service/internal/core/ports"
)

// AuthHandler handles login, recovery, and password changes.
type AuthHandler struct {
	service ports.IdentityService
	audit   AuditDispatcher
}

func NewAuthHandler(service ports.IdentityService, audit AuditDispatcher) *AuthHandler {
	return &AuthHandler{service: service, audit: audit}
}

// Login authenticates by password or by a code phrase at the challenged
// index and returns an identity snapshot plus token.
//
// @Summary      Authenticate
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	method := "password"
	if req.CodePhraseIndex != nil {
		method = "code_phrase"
	}

	result, err := h.service.Authenticate(c.Request().Context(), ports.AuthenticateInput{
		Login:           req.Login,
		Password:        req.Password,
		CodePhrase:      req.CodePhrase,
		CodePhraseIndex: req.CodePhraseIndex,
	})
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues(method, "failure").Inc()
		audit(h.audit, req.Login, domain.ActionLogin, method, domain.OutcomeFailure, err.Error())
		return err
	}

	metrics.AuthAttemptsTotal.WithLabelValues(method, "success").Inc()
	audit(h.audit, req.Login, domain.ActionLogin, method, domain.OutcomeSuccess, "")

	return c.JSON(http.StatusOK, authResponse{Success: true, Identity: result.Identity, Token: result.Token})
}

// RequestRecovery emails a short-lived recovery code to an email identity.
//
// @Summary      Request an email recovery code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      recoveryRequest  true  "Account email"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/auth/recovery/request [post]
func (h *AuthHandler) RequestRecovery(c echo.Context) error {
	var req recoveryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.service.RequestRecoveryCode(c.Request().Context(), req.Email); err != nil {
		audit(h.audit, req.Email, domain.ActionRecoveryRequest, "", domain.OutcomeFailure, err.Error())
		return err
	}

	metrics.RecoveryRequestsTotal.Inc()
	audit(h.audit, req.Email, domain.ActionRecoveryRequest, "", domain.OutcomeSuccess, "")

	return c.JSON(http.StatusAccepted, acceptedResponse{Success: true, Message: "recovery code sent"})
}

// ResetPassword validates the recovery code and sets the new password in a
// single combined call, returning a fresh session.
//
// @Summary      Reset password with a recovery code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      recoveryResetRequest  true  "Email, code, new password"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/auth/recovery/reset [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req recoveryResetRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	result, err := h.service.ResetPasswordWithCode(c.Request().Context(), req.Email, req.Code, req.NewPassword)
	if err != nil {
		audit(h.audit, req.Email, domain.ActionPasswordReset, "", domain.OutcomeFailure, err.Error())
		return err
	}

	metrics.PasswordResetsTotal.WithLabelValues("recovery_code").Inc()
	audit(h.audit, req.Email, domain.ActionPasswordReset, "", domain.OutcomeSuccess, "")

	return c.JSON(http.StatusOK, authResponse{Success: true, Identity: result.Identity, Token: result.Token})
}

// UpdatePassword changes the password of the authenticated identity.
//
// @Summary      Update password (authenticated)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updatePasswordRequest  true  "New password"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/auth/password [post]
func (h *AuthHandler) UpdatePassword(c echo.Context) error {
	login, err := ctxLogin(c)
	if err != nil {
		return err
	}

	var req updatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	result, err := h.service.UpdatePassword(c.Request().Context(), login, req.NewPassword)
	if err != nil {
		audit(h.audit, login, domain.ActionPasswordUpdate, "", domain.OutcomeFailure, err.Error())
		return err
	}

	metrics.PasswordResetsTotal.WithLabelValues("authenticated").Inc()
	audit(h.audit, login, domain.ActionPasswordUpdate, "", domain.OutcomeSuccess, "")

	return c.JSON(http.StatusOK, authResponse{Success: true, Identity: result.Identity, Token: result.Token})
}
