package ports

import (
	"context"

	"github.com/skillswap/skillswap-api/internal/core/domain"
)

// RegisterInput carries a registration request. Role may be empty.
type RegisterInput struct {
	Username string
	Password string
	Role     string
}

// AuthService registers and authenticates the principals of one kind.
type AuthService interface {
	Kind() domain.Kind
	Register(ctx context.Context, in RegisterInput) (*domain.Principal, error)
	Login(ctx context.Context, username, password string) (domain.TokenPair, error)
	List(ctx context.Context) ([]*domain.Principal, error)
	Get(ctx context.Context, id string) (*domain.Principal, error)
}

// TokenService issues and validates signed tokens.
type TokenService interface {
	GenerateTokens(identity domain.AuthIdentity) (domain.TokenPair, error)
	ExtractUsername(token string) (string, error)
	RefreshAccessToken(refreshToken string, current domain.AuthIdentity) (string, error)
	ParseAccessToken(token string) (domain.AuthIdentity, error)
}

// IdentityResolver maps a username onto the current identity of whichever
// kind holds it.
type IdentityResolver interface {
	Resolve(ctx context.Context, username string) (domain.AuthIdentity, error)
}

// RefreshService mints a new access token from a refresh token.
type RefreshService interface {
	Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error)
}
