package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/skillswap/skillswap-api/internal/core/domain"
	"github.com/skillswap/skillswap-api/internal/core/ports"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestTokens(t *testing.T) *TokenService {
	t.Helper()
	tokens, err := NewTokenService(TokenConfig{
		Secret:     []byte(testSecret),
		Issuer:     "skillswap-test",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	}, nil)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	return tokens
}

func newTestAuth(t *testing.T, store *stubCredentialStore, limiter *stubLimiter) *AuthService {
	t.Helper()
	deps := AuthDeps{
		Store:  store,
		Hasher: stubHasher{},
		Tokens: newTestTokens(t),
		Logger: zerolog.Nop(),
	}
	if limiter != nil {
		deps.Limiter = limiter
		deps.MaxFailures = 3
	}
	return NewAuthService(deps)
}

func TestAuthService_Register_Success(t *testing.T) {
	store := newStubStore(domain.KindUser)
	svc := newTestAuth(t, store, nil)

	p, err := svc.Register(context.Background(), ports.RegisterInput{Username: "alice", Password: "pw1"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if p.PasswordHash == "pw1" {
		t.Fatalf("expected password to be hashed")
	}
	if p.Role != domain.RoleUser {
		t.Fatalf("unexpected role: %s", p.Role)
	}
	if ok, _ := store.Exists(context.Background(), "alice"); !ok {
		t.Fatalf("expected alice to exist after registration")
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	store := newStubStore(domain.KindUser)
	svc := newTestAuth(t, store, nil)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Username: "bob", Password: "pass"}); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	before := store.byName["bob"].PasswordHash

	_, err := svc.Register(context.Background(), ports.RegisterInput{Username: "bob", Password: "pass2"})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if store.byName["bob"].PasswordHash != before || store.saves != 1 {
		t.Fatalf("store must be unchanged after a rejected registration")
	}
}

func TestAuthService_Register_LostRaceMapsToAlreadyExists(t *testing.T) {
	store := newStubStore(domain.KindUser)
	store.saveErr = domain.ErrAlreadyExists
	svc := newTestAuth(t, store, nil)

	_, err := svc.Register(context.Background(), ports.RegisterInput{Username: "carol", Password: "pw"})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newTestAuth(t, newStubStore(domain.KindUser), nil)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Username: " ", Password: "pw"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank username, got %v", err)
	}
	if _, err := svc.Register(context.Background(), ports.RegisterInput{Username: "dave", Password: "pw", Role: "ADMIN"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for ADMIN role on user kind, got %v", err)
	}
	if _, err := svc.Register(context.Background(), ports.RegisterInput{Username: "dave", Password: "pw", Role: "user"}); err != nil {
		t.Fatalf("lower-case matching role should be accepted: %v", err)
	}
}

func TestAuthService_Register_AdminKind(t *testing.T) {
	svc := newTestAuth(t, newStubStore(domain.KindAdmin), nil)

	p, err := svc.Register(context.Background(), ports.RegisterInput{Username: "root", Password: "pw", Role: "ADMIN"})
	if err != nil {
		t.Fatalf("register admin: %v", err)
	}
	if p.Role != domain.RoleAdmin {
		t.Fatalf("expected ADMIN, got %s", p.Role)
	}
}

func TestAuthService_Register_HashFailure(t *testing.T) {
	store := newStubStore(domain.KindUser)
	svc := NewAuthService(AuthDeps{Store: store, Hasher: stubHasher{err: errors.New("too long")}, Tokens: newTestTokens(t), Logger: zerolog.Nop()})

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Username: "eve", Password: "pw"}); err == nil {
		t.Fatalf("expected hash error to propagate")
	}
	if len(store.byName) != 0 {
		t.Fatalf("nothing should be persisted when hashing fails")
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	store := newStubStore(domain.KindAdmin)
	svc := newTestAuth(t, store, nil)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Username: "carol", Password: "s3cret"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	pair, err := svc.Login(context.Background(), "carol", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected both tokens, got %+v", pair)
	}

	identity, err := newTestTokens(t).ParseAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("access token invalid: %v", err)
	}
	if identity.Username != "carol" || identity.Role != domain.RoleAdmin {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc := newTestAuth(t, newStubStore(domain.KindUser), nil)

	_, _ = svc.Register(context.Background(), ports.RegisterInput{Username: "dave", Password: "goodpass"})
	if _, err := svc.Login(context.Background(), "dave", "badpass"); !errors.Is(err, domain.ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
	}
}

func TestAuthService_Login_UnknownPrincipal(t *testing.T) {
	svc := newTestAuth(t, newStubStore(domain.KindUser), nil)

	if _, err := svc.Login(context.Background(), "ghost", "pass"); !errors.Is(err, domain.ErrUnknownPrincipal) {
		t.Fatalf("expected ErrUnknownPrincipal, got %v", err)
	}
}

func TestAuthService_Login_StoreFailureSurfaces(t *testing.T) {
	store := newStubStore(domain.KindUser)
	store.findErr = errStoreDown
	svc := newTestAuth(t, store, nil)

	_, err := svc.Login(context.Background(), "alice", "pw")
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error to surface, got %v", err)
	}
	if errors.Is(err, domain.ErrUnknownPrincipal) {
		t.Fatalf("store failure must not be reported as unknown principal")
	}
}

func TestAuthService_Login_KindsAreIsolated(t *testing.T) {
	users := newStubStore(domain.KindUser)
	admins := newStubStore(domain.KindAdmin)
	userSvc := newTestAuth(t, users, nil)
	adminSvc := newTestAuth(t, admins, nil)

	if _, err := adminSvc.Register(context.Background(), ports.RegisterInput{Username: "sam", Password: "pw"}); err != nil {
		t.Fatalf("register admin: %v", err)
	}
	if _, err := userSvc.Register(context.Background(), ports.RegisterInput{Username: "sam", Password: "other"}); err != nil {
		t.Fatalf("same username in another kind must be allowed: %v", err)
	}
	if _, err := userSvc.Login(context.Background(), "sam", "pw"); !errors.Is(err, domain.ErrAuthenticationFailed) {
		t.Fatalf("user login must only see the user record, got %v", err)
	}
}

func TestAuthService_Login_LimiterBlocksAfterMaxFailures(t *testing.T) {
	limiter := newStubLimiter()
	svc := newTestAuth(t, newStubStore(domain.KindUser), limiter)
	_, _ = svc.Register(context.Background(), ports.RegisterInput{Username: "frank", Password: "right"})

	for i := 0; i < 3; i++ {
		if _, err := svc.Login(context.Background(), "frank", "wrong"); !errors.Is(err, domain.ErrAuthenticationFailed) {
			t.Fatalf("attempt %d: expected ErrAuthenticationFailed, got %v", i, err)
		}
	}
	if _, err := svc.Login(context.Background(), "frank", "right"); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestAuthService_Login_SuccessResetsFailures(t *testing.T) {
	limiter := newStubLimiter()
	svc := newTestAuth(t, newStubStore(domain.KindUser), limiter)
	_, _ = svc.Register(context.Background(), ports.RegisterInput{Username: "gina", Password: "right"})

	_, _ = svc.Login(context.Background(), "gina", "wrong")
	if _, err := svc.Login(context.Background(), "gina", "right"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if limiter.resets != 1 || limiter.failures["user:gina"] != 0 {
		t.Fatalf("expected failures to be reset, got %+v", limiter.failures)
	}
}

func TestAuthService_Login_LimiterFailsOpen(t *testing.T) {
	limiter := newStubLimiter()
	limiter.err = errors.New("redis down")
	svc := newTestAuth(t, newStubStore(domain.KindUser), limiter)
	_, _ = svc.Register(context.Background(), ports.RegisterInput{Username: "hank", Password: "right"})

	if _, err := svc.Login(context.Background(), "hank", "right"); err != nil {
		t.Fatalf("limiter outage must not block login: %v", err)
	}
}
