package ports

import (
	"context"

	"github.com/skillswap/skillswap-api/internal/core/domain"
)

// CredentialStore persists the principals of a single kind.
//
// FindByUsername and FindByID return domain.ErrUnknownPrincipal when no record
// matches. Save returns domain.ErrAlreadyExists when the username is taken,
// which the backing store must enforce atomically.
type CredentialStore interface {
	Kind() domain.Kind
	Exists(ctx context.Context, username string) (bool, error)
	FindByUsername(ctx context.Context, username string) (*domain.Principal, error)
	FindByID(ctx context.Context, id string) (*domain.Principal, error)
	Save(ctx context.Context, p *domain.Principal) (*domain.Principal, error)
	List(ctx context.Context) ([]*domain.Principal, error)
}

// PasswordHasher is a one-way salted hash.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// LoginLimiter tracks consecutive failed logins per principal.
type LoginLimiter interface {
	Failures(ctx context.Context, kind domain.Kind, username string) (int64, error)
	RecordFailure(ctx context.Context, kind domain.Kind, username string) error
	Reset(ctx context.Context, kind domain.Kind, username string) error
}
