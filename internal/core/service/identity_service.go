package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/letteratech/identity-service/internal/core/domain"
	"github.com/letteratech/identity-service/internal/core/ports"
)

const (
	minPasswordLength = 6
	recoveryCodeLen   = 6
)

// IdentityService implements issuance, authentication, and recovery.
type IdentityService struct {
	repo      ports.IdentityRepository
	codes     ports.CodeStore
	mailer    ports.Mailer
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewIdentityService(
	repo ports.IdentityRepository,
	codes ports.CodeStore,
	mailer ports.Mailer,
	jwtSecret string,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *IdentityService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &IdentityService{
		repo:      repo,
		codes:     codes,
		mailer:    mailer,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

// IssueAnonymous creates an account with no email: a fresh LetteraTech
// number, a password, and twelve code phrases. The plaintext phrases are
// returned exactly once; only bcrypt hashes are persisted.
func (s *IdentityService) IssueAnonymous(ctx context.Context, input ports.IssueAnonymousInput) (*ports.IssuedCredentials, error) {
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}
	if !domain.ValidRole(input.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, input.Role)
	}

	phrases, err := generateCodePhrases(domain.CodePhraseCount)
	if err != nil {
		return nil, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	phraseHashes := make([]string, len(phrases))
	for i, p := range phrases {
		h, err := bcrypt.GenerateFromPassword([]byte(p), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		phraseHashes[i] = string(h)
	}

	now := time.Now().UTC()
	identity := &domain.Identity{
		Kind:         domain.KindAnonymous,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         input.Role,
		PasswordHash: string(passwordHash),
		PhraseHashes: phraseHashes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The number space is large; collisions are retried a bounded number
	// of times against the unique index.
	var created *domain.Identity
	for attempt := 0; attempt < 3; attempt++ {
		number, err := generateLetteraNumber()
		if err != nil {
			return nil, err
		}
		identity.LetteraNumber = number
		created, err = s.repo.Create(ctx, identity)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrIdentityExists) {
			return nil, err
		}
		created = nil
	}
	if created == nil {
		return nil, fmt.Errorf("issue identity: number space exhausted after retries")
	}

	token, err := s.generateToken(created)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("lettera_number", created.LetteraNumber).Str("role", created.Role).Msg("anonymous identity issued")

	return &ports.IssuedCredentials{
		LetteraNumber: created.LetteraNumber,
		CodePhrases:   phrases,
		Identity:      created,
		Token:         token,
	}, nil
}

// RegisterEmail creates a conventional account pending email verification
// and dispatches a verification code to the address.
func (s *IdentityService) RegisterEmail(ctx context.Context, input ports.RegisterEmailInput) error {
	if input.Email == "" || input.Username == "" {
		return fmt.Errorf("%w: email and username are required", domain.ErrInvalidInput)
	}
	if err := validatePassword(input.Password); err != nil {
		return err
	}
	if !domain.ValidRole(input.Role) {
		return fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, input.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	identity := &domain.Identity{
		Kind:         domain.KindEmail,
		Email:        input.Email,
		Username:     input.Username,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         input.Role,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.repo.Create(ctx, identity); err != nil {
		return err
	}

	code, err := generateCode(recoveryCodeLen)
	if err != nil {
		return err
	}
	if err := s.codes.Put(ctx, ports.CodePurposeVerify, input.Email, code); err != nil {
		return fmt.Errorf("store verification code: %w", err)
	}
	if err := s.mailer.SendCode(ctx, input.Email, ports.CodePurposeVerify, code); err != nil {
		s.log.Warn().Err(err).Str("email", input.Email).Msg("failed to send verification code")
	}

	s.log.Info().Str("email", input.Email).Msg("email registration pending verification")
	return nil
}

// VerifyEmail consumes a verification code and activates the account.
func (s *IdentityService) VerifyEmail(ctx context.Context, email, code string) error {
	stored, err := s.codes.Get(ctx, ports.CodePurposeVerify, email)
	if err != nil {
		return err
	}
	if stored != code {
		return domain.ErrInvalidCode
	}
	if err := s.repo.MarkEmailVerified(ctx, email); err != nil {
		return err
	}
	_ = s.codes.Delete(ctx, ports.CodePurposeVerify, email)

	s.log.Info().Str("email", email).Msg("email verified")
	return nil
}

// Authenticate verifies a login attempt by password or by a code phrase at
// an agreed index, and returns a fresh token on success.
func (s *IdentityService) Authenticate(ctx context.Context, input ports.AuthenticateInput) (*ports.AuthResult, error) {
	if input.Login == "" {
		return nil, domain.ErrInvalidCredentials
	}

	identity, err := s.findByLogin(ctx, input.Login)
	if err != nil {
		return nil, err
	}

	if input.CodePhraseIndex != nil {
		if err := s.verifyPhrase(identity, input.CodePhrase, *input.CodePhraseIndex); err != nil {
			return nil, err
		}
	} else {
		if input.Password == "" {
			return nil, domain.ErrInvalidCredentials
		}
		if identity.Kind == domain.KindEmail && !identity.EmailVerified {
			return nil, domain.ErrEmailNotVerified
		}
		if bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(input.Password)) != nil {
			return nil, domain.ErrInvalidCredentials
		}
	}

	token, err := s.generateToken(identity)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{Identity: identity, Token: token}, nil
}

// verifyPhrase checks a code phrase against the hash stored at the
// challenged index. Phrase authentication only exists for anonymous
// identities.
func (s *IdentityService) verifyPhrase(identity *domain.Identity, phrase string, index int) error {
	if identity.Kind != domain.KindAnonymous {
		return domain.ErrInvalidCredentials
	}
	if phrase == "" || index < 0 || index >= len(identity.PhraseHashes) {
		return domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(identity.PhraseHashes[index]), []byte(phrase)) != nil {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// RequestRecoveryCode emails a short-lived recovery code. Recovery by code
// is only available to email identities; anonymous identities recover
// through phrase authentication.
func (s *IdentityService) RequestRecoveryCode(ctx context.Context, email string) error {
	if _, err := s.repo.FindByEmail(ctx, email); err != nil {
		return err
	}

	code, err := generateCode(recoveryCodeLen)
	if err != nil {
		return err
	}
	if err := s.codes.Put(ctx, ports.CodePurposeRecovery, email, code); err != nil {
		return fmt.Errorf("store recovery code: %w", err)
	}
	if err := s.mailer.SendCode(ctx, email, ports.CodePurposeRecovery, code); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("failed to send recovery code")
	}
	return nil
}

// ResetPasswordWithCode performs the combined check-and-reset: the code is
// validated together with the new password in a single call, and a fresh
// session token is returned.
func (s *IdentityService) ResetPasswordWithCode(ctx context.Context, email, code, newPassword string) (*ports.AuthResult, error) {
	if err := validatePassword(newPassword); err != nil {
		return nil, err
	}
	stored, err := s.codes.Get(ctx, ports.CodePurposeRecovery, email)
	if err != nil {
		return nil, err
	}
	if stored != code {
		return nil, domain.ErrInvalidCode
	}

	identity, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := s.setPassword(ctx, identity, newPassword); err != nil {
		return nil, err
	}
	_ = s.codes.Delete(ctx, ports.CodePurposeRecovery, email)

	token, err := s.generateToken(identity)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("email", email).Msg("password reset via recovery code")
	return &ports.AuthResult{Identity: identity, Token: token}, nil
}

// UpdatePassword changes the password of an already-authenticated identity
// and returns a refreshed token.
func (s *IdentityService) UpdatePassword(ctx context.Context, login, newPassword string) (*ports.AuthResult, error) {
	if err := validatePassword(newPassword); err != nil {
		return nil, err
	}
	identity, err := s.findByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	if err := s.setPassword(ctx, identity, newPassword); err != nil {
		return nil, err
	}

	token, err := s.generateToken(identity)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("login", login).Msg("password updated")
	return &ports.AuthResult{Identity: identity, Token: token}, nil
}

func (s *IdentityService) setPassword(ctx context.Context, identity *domain.Identity, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePasswordHash(ctx, identity.ID, string(hash)); err != nil {
		return err
	}
	identity.PasswordHash = string(hash)
	identity.UpdatedAt = time.Now().UTC()
	return nil
}

// findByLogin dispatches on login classification: number, email, or username.
func (s *IdentityService) findByLogin(ctx context.Context, login string) (*domain.Identity, error) {
	switch domain.ClassifyLogin(login) {
	case domain.LoginNumber:
		return s.repo.FindByNumber(ctx, login)
	case domain.LoginEmail:
		return s.repo.FindByEmail(ctx, login)
	default:
		return s.repo.FindByUsername(ctx, login)
	}
}

func (s *IdentityService) generateToken(identity *domain.Identity) (string, error) {
	claims := jwt.MapClaims{
		"login": identity.Login(),
		"kind":  string(identity.Kind),
		"role":  identity.Role,
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLength)
	}
	return nil
}
