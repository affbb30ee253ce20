package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/skillswap/skillswap-api/internal/core/domain"
	"github.com/skillswap/skillswap-api/internal/core/ports"
)

// RefreshService re-issues access tokens. The identity is re-resolved from
// the stores on every call instead of trusting the refresh token payload.
type RefreshService struct {
	tokens   ports.TokenService
	resolver ports.IdentityResolver
	logger   zerolog.Logger
}

func NewRefreshService(tokens ports.TokenService, resolver ports.IdentityResolver, logger zerolog.Logger) *RefreshService {
	return &RefreshService{tokens: tokens, resolver: resolver, logger: logger}
}

// Refresh returns a new access token and echoes refreshToken back. The
// refresh token stays valid until its own expiry.
func (s *RefreshService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	username, err := s.tokens.ExtractUsername(refreshToken)
	if err != nil {
		return domain.TokenPair{}, err
	}

	identity, err := s.resolver.Resolve(ctx, username)
	if err != nil {
		return domain.TokenPair{}, err
	}

	access, err := s.tokens.RefreshAccessToken(refreshToken, identity)
	if err != nil {
		return domain.TokenPair{}, err
	}

	s.logger.Debug().Str("username", identity.Username).Str("role", string(identity.Role)).Msg("access token refreshed")

	return domain.TokenPair{AccessToken: access, RefreshToken: refreshToken}, nil
}
