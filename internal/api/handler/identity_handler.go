package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/letteratech/identity-service/internal/api/metrics"
	"github.com/letteratech/identity-service/internal/core/domain"
	"github.com/letteratech/identity-service/internal/core/ports"
)

// IdentityHandler handles identity creation and email verification.
type IdentityHandler struct {
	service ports.IdentityService
	audit   AuditDispatcher
}

func NewIdentityHandler(service ports.IdentityService, audit AuditDispatcher) *IdentityHandler {
	return &IdentityHandler{service: service, audit: audit}
}

// IssueAnonymous creates an anonymous identity and returns its LetteraTech
// number and code phrases. This is the only response that ever carries the
// plaintext phrases.
//
// @Summary      Issue an anonymous identity
// @Tags         identity
// @Accept       json
// @Produce      json
// @Param        body  body      issueAnonymousRequest  true  "Profile fields"
// @Success      201   {object}  issueResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/identity/anonymous [post]
func (h *IdentityHandler) IssueAnonymous(c echo.Context) error {
	var req issueAnonymousRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	creds, err := h.service.IssueAnonymous(c.Request().Context(), ports.IssueAnonymousInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
		Role:      req.Role,
	})
	if err != nil {
		audit(h.audit, "", domain.ActionIssue, "", domain.OutcomeFailure, err.Error())
		return err
	}

	metrics.IdentitiesIssuedTotal.WithLabelValues(string(domain.KindAnonymous)).Inc()
	audit(h.audit, creds.LetteraNumber, domain.ActionIssue, "", domain.OutcomeSuccess, "")

	return c.JSON(http.StatusCreated, issueResponse{
		Success:       true,
		LetteraNumber: creds.LetteraNumber,
		CodePhrases:   creds.CodePhrases,
		Identity:      creds.Identity,
		Token:         creds.Token,
	})
}

// Register creates an email identity pending verification.
//
// @Summary      Register an email identity
// @Tags         identity
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/identity/register [post]
func (h *IdentityHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	err := h.service.RegisterEmail(c.Request().Context(), ports.RegisterEmailInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Password:  req.Password,
		Role:      req.Role,
	})
	if err != nil {
		audit(h.audit, req.Email, domain.ActionRegister, "", domain.OutcomeFailure, err.Error())
		return err
	}

	metrics.IdentitiesIssuedTotal.WithLabelValues(string(domain.KindEmail)).Inc()
	audit(h.audit, req.Email, domain.ActionRegister, "", domain.OutcomeSuccess, "")

	return c.JSON(http.StatusAccepted, acceptedResponse{Success: true, Message: "email verification pending"})
}

// VerifyEmail consumes a verification code and activates the account.
//
// @Summary      Verify a registration email
// @Tags         identity
// @Accept       json
// @Produce      json
// @Param        body  body      verifyEmailRequest  true  "Email and code"
// @Success      200   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/identity/verify-email [post]
func (h *IdentityHandler) VerifyEmail(c echo.Context) error {
	var req verifyEmailRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.service.VerifyEmail(c.Request().Context(), req.Email, req.Code); err != nil {
		audit(h.audit, req.Email, domain.ActionVerifyEmail, "", domain.OutcomeFailure, err.Error())
		return err
	}

	audit(h.audit, req.Email, domain.ActionVerifyEmail, "", domain.OutcomeSuccess, "")
	return c.JSON(http.StatusOK, acceptedResponse{Success: true, Message: "email verified"})
}
