package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/skillswap/skillswap-api/internal/core/domain"
	"github.com/skillswap/skillswap-api/internal/core/ports"
)

// IdentityResolver looks a username up in the user store and then the admin
// store. A username present in both resolves to the user record.
type IdentityResolver struct {
	users  ports.CredentialStore
	admins ports.CredentialStore
}

func NewIdentityResolver(users, admins ports.CredentialStore) *IdentityResolver {
	return &IdentityResolver{users: users, admins: admins}
}

// Resolve returns the current identity for username.
func (r *IdentityResolver) Resolve(ctx context.Context, username string) (domain.AuthIdentity, error) {
	account, err := r.lookup(ctx, username)
	if err != nil {
		return domain.AuthIdentity{}, err
	}
	return account.Identity(), nil
}

func (r *IdentityResolver) lookup(ctx context.Context, username string) (domain.Account, error) {
	p, err := r.users.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return domain.UserAccount(*p), nil
	case !errors.Is(err, domain.ErrUnknownPrincipal):
		return domain.Account{}, fmt.Errorf("resolve %q: %w", username, err)
	}

	p, err = r.admins.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return domain.AdminAccount(*p), nil
	case errors.Is(err, domain.ErrUnknownPrincipal):
		return domain.Account{}, domain.ErrIdentityNotFound
	default:
		return domain.Account{}, fmt.Errorf("resolve %q: %w", username, err)
	}
}
