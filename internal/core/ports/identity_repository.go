package ports

import (
	"context"

	"github.com/letteratech/identity-service/internal/core/domain"
)

// IdentityRepository defines persistence operations for identities.
// Finders return domain.ErrIdentityNotFound when no record matches.
type IdentityRepository interface {
	Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error)
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)
	FindByUsername(ctx context.Context, username string) (*domain.Identity, error)
	FindByNumber(ctx context.Context, letteraNumber string) (*domain.Identity, error)
	UpdatePasswordHash(ctx context.Context, id string, hash string) error
	MarkEmailVerified(ctx context.Context, email string) error
}
