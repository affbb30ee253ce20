package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/skillswap/skillswap-api/internal/core/domain"
	"github.com/skillswap/skillswap-api/internal/core/ports"
)

const defaultMaxFailures = 5

// AuthService implements registration and login for the principals of one
// kind. Build one per kind.
type AuthService struct {
	store       ports.CredentialStore
	hasher      ports.PasswordHasher
	tokens      ports.TokenService
	limiter     ports.LoginLimiter
	maxFailures int64
	logger      zerolog.Logger
}

// AuthDeps groups the collaborators of an AuthService.
type AuthDeps struct {
	Store   ports.CredentialStore
	Hasher  ports.PasswordHasher
	Tokens  ports.TokenService
	Limiter ports.LoginLimiter // optional
	// MaxFailures is the number of consecutive failed logins tolerated before
	// ErrTooManyAttempts. Defaults to 5 when <= 0.
	MaxFailures int
	Logger      zerolog.Logger
}

func NewAuthService(deps AuthDeps) *AuthService {
	limiter := deps.Limiter
	if limiter == nil {
		limiter = NopLimiter{}
	}
	maxFailures := int64(deps.MaxFailures)
	if maxFailures <= 0 {
		maxFailures = defaultMaxFailures
	}
	return &AuthService{
		store:       deps.Store,
		hasher:      deps.Hasher,
		tokens:      deps.Tokens,
		limiter:     limiter,
		maxFailures: maxFailures,
		logger:      deps.Logger.With().Str("kind", string(deps.Store.Kind())).Logger(),
	}
}

func (s *AuthService) Kind() domain.Kind {
	return s.store.Kind()
}

// Register creates a principal after a uniqueness check. The store's unique
// constraint settles races between concurrent registrations.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Principal, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrInvalidInput)
	}

	role, err := s.roleFor(in.Role)
	if err != nil {
		return nil, err
	}

	exists, err := s.store.Exists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if exists {
		return nil, domain.ErrAlreadyExists
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	created, err := s.store.Save(ctx, &domain.Principal{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	s.logger.Info().Str("username", created.Username).Str("role", string(created.Role)).Msg("principal registered")
	return created, nil
}

// Login verifies the credentials and issues a token pair.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.TokenPair, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.TokenPair{}, fmt.Errorf("%w: username and password are required", domain.ErrInvalidInput)
	}

	p, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownPrincipal) {
			return domain.TokenPair{}, domain.ErrUnknownPrincipal
		}
		return domain.TokenPair{}, fmt.Errorf("login: %w", err)
	}

	if err := s.authenticate(ctx, p, password); err != nil {
		return domain.TokenPair{}, err
	}

	account := domain.Account{Kind: s.store.Kind(), Principal: *p}
	pair, err := s.tokens.GenerateTokens(account.Identity())
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("login: %w", err)
	}

	s.logger.Info().Str("username", p.Username).Msg("login succeeded")
	return pair, nil
}

func (s *AuthService) List(ctx context.Context) ([]*domain.Principal, error) {
	return s.store.List(ctx)
}

func (s *AuthService) Get(ctx context.Context, id string) (*domain.Principal, error) {
	return s.store.FindByID(ctx, id)
}

// authenticate checks the password, consulting the limiter first. Limiter
// failures are logged and do not block the login.
func (s *AuthService) authenticate(ctx context.Context, p *domain.Principal, password string) error {
	kind := s.store.Kind()

	failures, err := s.limiter.Failures(ctx, kind, p.Username)
	if err != nil {
		s.logger.Warn().Err(err).Str("username", p.Username).Msg("login limiter unavailable")
	} else if failures >= s.maxFailures {
		s.logger.Warn().Str("username", p.Username).Int64("failures", failures).Msg("login blocked")
		return domain.ErrTooManyAttempts
	}

	if !s.hasher.Verify(password, p.PasswordHash) {
		if err := s.limiter.RecordFailure(ctx, kind, p.Username); err != nil {
			s.logger.Warn().Err(err).Str("username", p.Username).Msg("failed to record login failure")
		}
		s.logger.Info().Str("username", p.Username).Msg("login rejected")
		return domain.ErrAuthenticationFailed
	}

	if failures > 0 {
		if err := s.limiter.Reset(ctx, kind, p.Username); err != nil {
			s.logger.Warn().Err(err).Str("username", p.Username).Msg("failed to reset login failures")
		}
	}
	return nil
}

func (s *AuthService) roleFor(requested string) (domain.Role, error) {
	want := s.store.Kind().DefaultRole()
	if requested == "" {
		return want, nil
	}
	role := domain.Role(strings.ToUpper(strings.TrimSpace(requested)))
	if role != want {
		return "", fmt.Errorf("%w: role %q is not allowed for %s registration", domain.ErrInvalidInput, requested, s.store.Kind())
	}
	return role, nil
}

// NopLimiter never blocks a login.
type NopLimiter struct{}

func (NopLimiter) Failures(context.Context, domain.Kind, string) (int64, error) { return 0, nil }
func (NopLimiter) RecordFailure(context.Context, domain.Kind, string) error      { return nil }
func (NopLimiter) Reset(context.Context, domain.Kind, string) error              { return nil }
