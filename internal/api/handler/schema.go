package handler

import "github.com/letteratech/identity-service/internal/core/domain"

// errorResponse mirrors the envelope rendered by the central error handler;
// declared here so swag can reference it from handler annotations.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// --- Request types ---

type issueAnonymousRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"  validate:"required"`
	Password  string `json:"password"   validate:"required,min=6"`
	Role      string `json:"role"       validate:"required,oneof=startup freelancer investor universal"`
}

type registerRequest struct {
	Email     string `json:"email"      validate:"required,email"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"  validate:"required"`
	Username  string `json:"username"   validate:"required"`
	Password  string `json:"password"   validate:"required,min=6"`
	Role      string `json:"role"       validate:"required,oneof=startup freelancer investor universal"`
}

type verifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code"  validate:"required,len=6"`
}

// loginRequest carries one of two credential shapes: {login,password} or
// {login,code_phrase,code_phrase_index}. The pointer distinguishes index 0
// from an absent index.
type loginRequest struct {
	Login           string `json:"login" validate:"required"`
	Password        string `json:"password,omitempty"`
	CodePhrase      string `json:"code_phrase,omitempty"`
	CodePhraseIndex *int   `json:"code_phrase_index,omitempty" validate:"omitempty,min=0,max=11"`
}

type recoveryRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type recoveryResetRequest struct {
	Email       string `json:"email"        validate:"required,email"`
	Code        string `json:"code"         validate:"required,len=6"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

type updatePasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// --- Response types ---

type issueResponse struct {
	Success       bool             `json:"success"`
	LetteraNumber string           `json:"lettera_number"`
	CodePhrases   []string         `json:"code_phrases"`
	Identity      *domain.Identity `json:"identity"`
	Token         string           `json:"token"`
}

type authResponse struct {
	Success  bool             `json:"success"`
	Identity *domain.Identity `json:"identity"`
	Token    string           `json:"token"`
}

type acceptedResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
