package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/skillswap/skillswap-api/internal/core/domain"
)

const (
	tokenUseAccess  = "access"
	tokenUseRefresh = "refresh"

	minSecretLength = 32
)

// TokenConfig holds the process-wide signing settings. It is read once at
// startup and never mutated.
type TokenConfig struct {
	Secret     []byte
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Claims is the payload of both access and refresh tokens.
type Claims struct {
	jwt.RegisteredClaims
	Role     domain.Role `json:"role"`
	TokenUse string      `json:"token_use"`
}

// TokenService issues HS256 access/refresh pairs and validates them.
type TokenService struct {
	cfg    TokenConfig
	now    func() time.Time
	parser *jwt.Parser
}

// NewTokenService validates cfg and builds a TokenService. now may be nil.
func NewTokenService(cfg TokenConfig, now func() time.Time) (*TokenService, error) {
	if len(cfg.Secret) < minSecretLength {
		return nil, fmt.Errorf("token service: secret must be at least %d bytes", minSecretLength)
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	if cfg.RefreshTTL <= cfg.AccessTTL {
		return nil, errors.New("token service: refresh TTL must exceed access TTL")
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "skillswap"
	}
	if now == nil {
		now = time.Now
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(now),
	}

	return &TokenService{cfg: cfg, now: now, parser: jwt.NewParser(opts...)}, nil
}

// GenerateTokens issues a fresh access/refresh pair for identity.
func (s *TokenService) GenerateTokens(identity domain.AuthIdentity) (domain.TokenPair, error) {
	access, err := s.sign(identity, tokenUseAccess, s.cfg.AccessTTL)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, err := s.sign(identity, tokenUseRefresh, s.cfg.RefreshTTL)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// ExtractUsername returns the subject of any token signed by this service.
func (s *TokenService) ExtractUsername(token string) (string, error) {
	claims, err := s.parse(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// RefreshAccessToken validates refreshToken and mints a new access token bound
// to current. The refresh token's own role claim is ignored.
func (s *TokenService) RefreshAccessToken(refreshToken string, current domain.AuthIdentity) (string, error) {
	claims, err := s.parse(refreshToken)
	if err != nil {
		return "", err
	}
	if claims.TokenUse != tokenUseRefresh {
		return "", fmt.Errorf("%w: not a refresh token", domain.ErrInvalidToken)
	}
	if claims.Subject != current.Username {
		return "", fmt.Errorf("%w: subject mismatch", domain.ErrInvalidToken)
	}
	return s.sign(current, tokenUseAccess, s.cfg.AccessTTL)
}

// ParseAccessToken validates an access token and returns its identity.
func (s *TokenService) ParseAccessToken(token string) (domain.AuthIdentity, error) {
	claims, err := s.parse(token)
	if err != nil {
		return domain.AuthIdentity{}, err
	}
	if claims.TokenUse != tokenUseAccess {
		return domain.AuthIdentity{}, fmt.Errorf("%w: not an access token", domain.ErrInvalidToken)
	}
	return domain.AuthIdentity{Username: claims.Subject, Role: claims.Role}, nil
}

func (s *TokenService) sign(identity domain.AuthIdentity, use string, ttl time.Duration) (string, error) {
	if identity.Username == "" || !identity.Role.Valid() {
		return "", fmt.Errorf("%w: incomplete identity", domain.ErrInvalidInput)
	}

	now := s.now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Subject:   identity.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Role:     identity.Role,
		TokenUse: use,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", use, err)
	}
	return signed, nil
}

// parse verifies the signature before any claim is looked at; jwt/v5 only
// validates registered claims once the signature checks out.
func (s *TokenService) parse(token string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := s.parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.cfg.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) && !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, fmt.Errorf("%w: %v", domain.ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if !tkn.Valid || claims.Subject == "" || !claims.Role.Valid() {
		return nil, fmt.Errorf("%w: malformed claims", domain.ErrInvalidToken)
	}
	return claims, nil
}
